package animation

import (
	"math"
	"time"
)

// RawModeKind is the loop mode as written in a descriptor.
type RawModeKind uint8

const (
	// RawRepeat is the default when a descriptor has no mode.
	RawRepeat RawModeKind = iota
	// RawRepeatFrom loops back to RawMode.From after the last frame.
	RawRepeatFrom
	// RawOnce stops on the last frame.
	RawOnce
	// RawPingPong plays forward then backward.
	RawPingPong
)

// RawMode is the authored loop mode. The zero value is Repeat.
type RawMode struct {
	Kind RawModeKind
	From int
}

func (m RawMode) canonical() Mode {
	switch m.Kind {
	case RawRepeatFrom:
		return RepeatFrom(m.From)
	case RawOnce:
		return Once()
	case RawPingPong:
		return PingPong()
	default:
		return Repeat()
	}
}

// FrameEntry is one authored frame: a sprite-sheet index and, optionally,
// a duration in milliseconds overriding the descriptor's frame duration.
type FrameEntry struct {
	Index    int
	Duration *uint64
}

// Descriptor is an animation as authored, before validation. Format
// decoders produce it and Canonicalize turns it into an Animation.
type Descriptor struct {
	Mode          RawMode
	FrameDuration *uint64
	Frames        []FrameEntry
}

const maxMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// Canonicalize resolves every frame duration and normalizes the mode.
// The first frame without a positive duration fails the whole conversion
// with a *FrameError wrapping ErrZeroDuration.
func (d Descriptor) Canonicalize() (*Animation, error) {
	frames := make([]Frame, 0, len(d.Frames))
	for pos, entry := range d.Frames {
		if entry.Index < 0 {
			return nil, &FrameError{Position: pos, Err: ErrNegativeIndex}
		}
		ms := entry.Duration
		if ms == nil {
			ms = d.FrameDuration
		}
		if ms == nil || *ms == 0 {
			return nil, &FrameError{Position: pos, Err: ErrZeroDuration}
		}
		if *ms > maxMillis {
			return nil, &FrameError{Position: pos, Err: ErrDurationOverflow}
		}
		frames = append(frames, Frame{
			index:    entry.Index,
			duration: time.Duration(*ms) * time.Millisecond,
		})
	}
	return &Animation{frames: frames, mode: d.Mode.canonical()}, nil
}

func canonicalize(d Descriptor) (*Animation, error) {
	anim, err := d.Canonicalize()
	if err != nil {
		return nil, &ParseError{Kind: KindValidation, Err: err}
	}
	return anim, nil
}

// indexFromUint narrows an authored index to the platform int width.
func indexFromUint(v uint64) (int, bool) {
	if v > math.MaxInt {
		return 0, false
	}
	return int(v), true
}
