// Package animation describes sprite-sheet animations: an ordered list of
// sprite-sheet cells, how long each one is shown, and what happens when
// playback reaches the last frame.
//
// Animations are usually authored as text. FromYAMLString and FromYAMLBytes
// read the block notation:
//
//	# Once, Repeat, PingPong or "RepeatFrom: n". Defaults to Repeat.
//	mode: PingPong
//	frames:
//	  - index: 0       # cell in the sprite sheet
//	    duration: 100  # milliseconds
//	  - index: 1
//	    duration: 120
//
// or, when every frame shares one duration:
//
//	frame_duration: 100
//	frames: [0, 1, 2]
//
// FromRONString and FromRONBytes read the field notation:
//
//	(
//	    mode: RepeatFrom(1),
//	    frames: [
//	        (index: 0, duration: 100),
//	        (index: 1, duration: Some(100)),
//	        2,
//	    ],
//	    frame_duration: 80,
//	)
//
// Both produce an immutable *Animation that may be shared between any number
// of players.
package animation

import (
	"fmt"
	"time"
)

// Frame shows the sprite-sheet cell Index for Duration.
type Frame struct {
	index    int
	duration time.Duration
}

// NewFrame returns a frame for the given sprite-sheet cell.
func NewFrame(index int, duration time.Duration) (Frame, error) {
	if index < 0 {
		return Frame{}, ErrNegativeIndex
	}
	if duration <= 0 {
		return Frame{}, ErrZeroDuration
	}
	return Frame{index: index, duration: duration}, nil
}

// Index returns the sprite-sheet cell.
func (f Frame) Index() int { return f.index }

// Duration returns how long the frame is shown.
func (f Frame) Duration() time.Duration { return f.duration }

func (f Frame) String() string {
	return fmt.Sprintf("%d@%s", f.index, f.duration)
}

// Animation is a validated frame sequence with its loop mode.
// It is never modified after construction.
type Animation struct {
	frames []Frame
	mode   Mode
}

// New returns an animation playing frames in order. The slice is copied.
func New(frames []Frame, mode Mode) *Animation {
	owned := make([]Frame, len(frames))
	copy(owned, frames)
	return &Animation{frames: owned, mode: mode}
}

// FromIndices builds an animation showing each sprite-sheet cell in indices
// at the given rate. The mode is RepeatFrom(0).
func FromIndices(indices []int, rate FrameRate) (*Animation, error) {
	frames := make([]Frame, 0, len(indices))
	for _, index := range indices {
		frame, err := NewFrame(index, rate.frameDuration(len(indices)))
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return &Animation{frames: frames, mode: Repeat()}, nil
}

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.frames) }

// Frame returns the frame at position i of the playback sequence.
func (a *Animation) Frame(i int) Frame { return a.frames[i] }

// Frames returns a copy of the frame sequence.
func (a *Animation) Frames() []Frame {
	frames := make([]Frame, len(a.frames))
	copy(frames, a.frames)
	return frames
}

// Mode returns the loop mode.
func (a *Animation) Mode() Mode { return a.mode }

// WithMode returns a copy of the animation using mode m.
func (a *Animation) WithMode(m Mode) *Animation {
	return &Animation{frames: a.frames, mode: m}
}

// TotalDuration is the time needed to play every frame once.
func (a *Animation) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range a.frames {
		total += f.duration
	}
	return total
}

// Equal reports whether both animations have the same frames and mode.
func (a *Animation) Equal(other *Animation) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.mode != other.mode || len(a.frames) != len(other.frames) {
		return false
	}
	for i := range a.frames {
		if a.frames[i] != other.frames[i] {
			return false
		}
	}
	return true
}

// FrameRate is the speed used by FromIndices.
type FrameRate struct {
	perFrame time.Duration
	total    time.Duration
}

// FrameRateFromFPS shows fps frames every second.
func FrameRateFromFPS(fps float64) FrameRate {
	if fps <= 0 {
		return FrameRate{}
	}
	return FrameRate{perFrame: time.Duration(float64(time.Second) / fps)}
}

// FrameRateFromFrameDuration shows every frame for d.
func FrameRateFromFrameDuration(d time.Duration) FrameRate {
	return FrameRate{perFrame: d}
}

// FrameRateFromTotalDuration spreads d evenly over all frames.
func FrameRateFromTotalDuration(d time.Duration) FrameRate {
	return FrameRate{total: d}
}

func (r FrameRate) frameDuration(count int) time.Duration {
	if r.total > 0 && count > 0 {
		return r.total / time.Duration(count)
	}
	return r.perFrame
}
