package animation

import (
	"fmt"
	"strconv"
	"strings"
)

// ModeKind identifies the loop behaviour of a Mode.
type ModeKind uint8

const (
	// ModeRepeatFrom restarts at the resume index after the last frame.
	ModeRepeatFrom ModeKind = iota
	// ModeOnce stops on the last frame.
	ModeOnce
	// ModePingPong plays forward then backward, forever.
	ModePingPong
)

// Mode is what playback does once it reaches the end of the frame list.
// The zero value is RepeatFrom(0).
type Mode struct {
	kind ModeKind
	from int
}

// Once plays the frames a single time.
func Once() Mode { return Mode{kind: ModeOnce} }

// PingPong alternates forward and backward playback.
func PingPong() Mode { return Mode{kind: ModePingPong} }

// RepeatFrom resumes at position n of the frame list after the last frame.
// n is not checked against the frame count; players must do that.
func RepeatFrom(n int) Mode { return Mode{kind: ModeRepeatFrom, from: n} }

// Repeat restarts from the first frame.
func Repeat() Mode { return RepeatFrom(0) }

// Kind returns the loop behaviour.
func (m Mode) Kind() ModeKind { return m.kind }

// ResumeIndex returns the frame-list position a RepeatFrom mode returns to.
// It is 0 for the other kinds.
func (m Mode) ResumeIndex() int { return m.from }

func (m Mode) String() string {
	switch m.kind {
	case ModeOnce:
		return "Once"
	case ModePingPong:
		return "PingPong"
	default:
		return "RepeatFrom(" + strconv.Itoa(m.from) + ")"
	}
}

// MarshalText encodes the mode with the field-notation spelling.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts Once, PingPong, Repeat and RepeatFrom(n).
func (m *Mode) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	switch s {
	case "Once":
		*m = Once()
		return nil
	case "PingPong":
		*m = PingPong()
		return nil
	case "Repeat":
		*m = Repeat()
		return nil
	}
	if arg, ok := strings.CutPrefix(s, "RepeatFrom("); ok {
		if digits, ok := strings.CutSuffix(arg, ")"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(digits))
			if err == nil && n >= 0 {
				*m = RepeatFrom(n)
				return nil
			}
		}
	}
	return fmt.Errorf("unknown animation mode %q", s)
}
