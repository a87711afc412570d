package animation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alacrity-engine/sprite-anim/animation"
)

func TestFromRONStringParsesFramesAndMode(t *testing.T) {
	content := `
(
    mode: RepeatFrom(1),
    frames: [
        (
            index: 0, // index in the sprite sheet for that frame
            duration: 100, // duration of the frame in milliseconds
        ),
        (index: 1, duration: 100),
        (index: 2, duration: 120),
    ]
)`
	anim, err := animation.FromRONString(content)
	if err != nil {
		t.Fatalf("FromRONString returned error: %v", err)
	}
	if anim.Mode() != animation.RepeatFrom(1) {
		t.Fatalf("unexpected mode: %s", anim.Mode())
	}
	assertFrames(t, anim, frames(t, 0, 100, 1, 100, 2, 120))
}

func TestFromRONStringModes(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want animation.Mode
	}{
		{name: "default", mode: "", want: animation.RepeatFrom(0)},
		{name: "repeat", mode: "mode: Repeat,", want: animation.RepeatFrom(0)},
		{name: "once", mode: "mode: Once,", want: animation.Once()},
		{name: "ping pong", mode: "mode: PingPong,", want: animation.PingPong()},
		{name: "repeat from", mode: "mode: RepeatFrom(1),", want: animation.RepeatFrom(1)},
		{name: "repeat from past the end", mode: "mode: RepeatFrom(12),", want: animation.RepeatFrom(12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, err := animation.FromRONString("(" + tt.mode + " frame_duration: 10, frames: [0, 1])")
			if err != nil {
				t.Fatalf("FromRONString returned error: %v", err)
			}
			if anim.Mode() != tt.want {
				t.Fatalf("unexpected mode: got %s want %s", anim.Mode(), tt.want)
			}
		})
	}
}

func TestFromRONStringOptionalDurations(t *testing.T) {
	content := `(
    frame_duration: Some(100),
    frames: [
        (index: 0),
        (index: 1, duration: None),
        (index: 2, duration: Some(200)),
        (index: 3, duration: 300),
        4,
    ],
)`
	anim, err := animation.FromRONString(content)
	if err != nil {
		t.Fatalf("FromRONString returned error: %v", err)
	}
	assertFrames(t, anim, frames(t, 0, 100, 1, 100, 2, 200, 3, 300, 4, 100))
}

func TestFromRONStringAcceptsHeaderCommentsAndNames(t *testing.T) {
	content := `#![enable(implicit_some)]
/* walking cycle /* nested */ */
Animation(
    frame_duration: 1_000,
    frames: [0x0A, 0b11, +2],
)`
	anim, err := animation.FromRONString(content)
	if err != nil {
		t.Fatalf("FromRONString returned error: %v", err)
	}
	assertFrames(t, anim, frames(t, 10, 1000, 3, 1000, 2, 1000))
}

func TestFromRONStringSkipsUnknownTopLevelFields(t *testing.T) {
	anim, err := animation.FromRONString(`(name: "walk", tags: ["a", "b"], frame_duration: 5, frames: [7])`)
	if err != nil {
		t.Fatalf("FromRONString returned error: %v", err)
	}
	assertFrames(t, anim, frames(t, 7, 5))
}

func TestFromRONStringRejectsZeroDuration(t *testing.T) {
	tests := []string{
		`(frames: [(index: 0, duration: 0)])`,
		`(frames: [0])`,
		`(frame_duration: None, frames: [0])`,
		`(frame_duration: 10, frames: [0, (index: 1, duration: Some(0))])`,
	}
	for _, content := range tests {
		anim, err := animation.FromRONString(content)
		if anim != nil {
			t.Fatalf("%s: expected no animation", content)
		}
		assertParseErrorKind(t, err, animation.KindValidation)
		if !errors.Is(err, animation.ErrZeroDuration) {
			t.Fatalf("%s: expected ErrZeroDuration, got %v", content, err)
		}
	}
}

func TestFromRONStringRejectsUnknownFrameField(t *testing.T) {
	_, err := animation.FromRONString("(\n  frames: [\n    (index: 0, duration: 100, weight: 5),\n  ],\n)")
	assertParseErrorKind(t, err, animation.KindDecode)
	var fieldErr *animation.UnknownFieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *UnknownFieldError, got %T: %v", err, err)
	}
	if fieldErr.Field != "weight" {
		t.Fatalf("unexpected field: %q", fieldErr.Field)
	}
	var syntaxErr *animation.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if syntaxErr.Line != 3 || syntaxErr.Column != 31 {
		t.Fatalf("unexpected location %d:%d", syntaxErr.Line, syntaxErr.Column)
	}
}

func TestFromRONStringRejectsInvalidFrameEntries(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		literal string
	}{
		{name: "too large", entry: "99999999999999999999", literal: "99999999999999999999"},
		{name: "negative", entry: "-3", literal: "-3"},
		{name: "string", entry: `"walk"`, literal: "walk"},
		{name: "float", entry: "1.5", literal: "1.5"},
		{name: "sequence", entry: "[1]", literal: "sequence"},
		{name: "named struct", entry: "Frame(index: 1)", literal: "Frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := animation.FromRONString("(frame_duration: 10, frames: [" + tt.entry + "])")
			assertParseErrorKind(t, err, animation.KindDecode)
			var entryErr *animation.InvalidFrameEntryError
			if !errors.As(err, &entryErr) {
				t.Fatalf("expected *InvalidFrameEntryError, got %T: %v", err, err)
			}
			if !strings.Contains(entryErr.Literal, tt.literal) {
				t.Fatalf("literal %q does not mention %q", entryErr.Literal, tt.literal)
			}
		})
	}
}

func TestFromRONStringDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing frames", content: `(mode: Once)`},
		{name: "unit", content: `()`},
		{name: "not a struct", content: `[0, 1]`},
		{name: "wrong struct name", content: `Sprite(frames: [0])`},
		{name: "duplicate field", content: `(frames: [0], frames: [1])`},
		{name: "duplicate frame field", content: `(frames: [(index: 0, index: 1)])`},
		{name: "record without index", content: `(frames: [(duration: 10)])`},
		{name: "unknown mode", content: `(mode: Backwards, frames: [0])`},
		{name: "unknown tuple mode", content: `(mode: Skip(2), frames: [0])`},
		{name: "repeat from without index", content: `(mode: RepeatFrom, frames: [0])`},
		{name: "repeat from with two values", content: `(mode: RepeatFrom(1, 2), frames: [0])`},
		{name: "negative duration", content: `(frame_duration: -1, frames: [0])`},
		{name: "string duration", content: `(frame_duration: "10", frames: [0])`},
		{name: "frames not a list", content: `(frames: 0)`},
		{name: "unterminated", content: `(frames: [0, 1]`},
		{name: "missing comma", content: `(frames: [0 1])`},
		{name: "trailing characters", content: `(frames: [0]) (frames: [1])`},
		{name: "unterminated string", content: `(name: "walk, frames: [0])`},
		{name: "unclosed comment", content: `/* (frames: [0])`},
		{name: "stray character", content: `(frames: [0]) ;`},
		{name: "empty", content: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, err := animation.FromRONString(tt.content)
			if anim != nil {
				t.Fatalf("expected no animation, got %v", anim.Frames())
			}
			assertParseErrorKind(t, err, animation.KindDecode)
		})
	}
}

func TestFromRONStringRejectsDeepNesting(t *testing.T) {
	content := "(frames: " + strings.Repeat("[", 10_000) + strings.Repeat("]", 10_000) + ")"
	_, err := animation.FromRONString(content)
	assertParseErrorKind(t, err, animation.KindDecode)
	var syntaxErr *animation.SyntaxError
	if !errors.As(err, &syntaxErr) || !strings.Contains(syntaxErr.Error(), "max nesting depth") {
		t.Fatalf("expected a nesting depth error, got %v", err)
	}
}

func TestFromRONStringAcceptsModerateNesting(t *testing.T) {
	content := "(extra: " + strings.Repeat("[", 100) + strings.Repeat("]", 100) + ", frame_duration: 10, frames: [0])"
	anim, err := animation.FromRONString(content)
	if err != nil {
		t.Fatalf("FromRONString returned error: %v", err)
	}
	if anim.Len() != 1 {
		t.Fatalf("unexpected frame count %d", anim.Len())
	}
}

func TestFromRONBytesMatchesString(t *testing.T) {
	content := `(mode: PingPong, frame_duration: 30, frames: [1, (index: 2, duration: 45)])`
	fromString, err := animation.FromRONString(content)
	if err != nil {
		t.Fatalf("FromRONString returned error: %v", err)
	}
	fromBytes, err := animation.FromRONBytes([]byte(content))
	if err != nil {
		t.Fatalf("FromRONBytes returned error: %v", err)
	}
	if !fromString.Equal(fromBytes) {
		t.Fatalf("string and bytes parses differ: %v vs %v", fromString.Frames(), fromBytes.Frames())
	}
}

func TestFromRONBytesRejectsInvalidUTF8(t *testing.T) {
	_, err := animation.FromRONBytes([]byte{'(', 0xff, ')'})
	assertParseErrorKind(t, err, animation.KindDecode)
}
