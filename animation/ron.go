package animation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// FromRONString parses a field-notation (RON) descriptor.
//
// Optional values may be written bare: `duration: 100` and
// `duration: Some(100)` are the same.
func FromRONString(s string) (*Animation, error) {
	root, err := parseRON(s)
	if err != nil {
		return nil, decodeError(err)
	}
	d, err := decodeRONDescriptor(root)
	if err != nil {
		return nil, decodeError(err)
	}
	return canonicalize(d)
}

// FromRONBytes parses a field-notation (RON) descriptor.
func FromRONBytes(data []byte) (*Animation, error) {
	if !utf8.Valid(data) {
		return nil, decodeError(errors.New("input is not valid UTF-8"))
	}
	return FromRONString(string(data))
}

func ronErrorf(v *ronValue, format string, args ...interface{}) error {
	return &SyntaxError{Line: v.pos.line, Column: v.pos.col, Msg: fmt.Sprintf(format, args...)}
}

func ronWrap(pos ronPos, err error) error {
	return &SyntaxError{Line: pos.line, Column: pos.col, Err: err}
}

// decodeRONDescriptor maps the document root onto a Descriptor. Unknown
// top-level fields are skipped; frame records are closed.
func decodeRONDescriptor(root *ronValue) (Descriptor, error) {
	var d Descriptor
	if root.kind == ronValUnit {
		return d, ronWrap(root.pos, &MissingFieldError{Field: "frames"})
	}
	if root.kind != ronValStruct {
		return d, ronErrorf(root, "invalid type: %s, expected an animation struct", root.describe())
	}
	if root.name != "" && root.name != "Animation" {
		return d, ronErrorf(root, "expected struct `Animation`, found `%s`", root.name)
	}

	seen := make(map[string]bool, len(root.fields))
	hasFrames := false
	for _, field := range root.fields {
		if seen[field.name] {
			return d, ronWrap(field.pos, &DuplicateFieldError{Field: field.name})
		}
		seen[field.name] = true

		var err error
		switch field.name {
		case "mode":
			d.Mode, err = decodeRONMode(field.value)
		case "frame_duration":
			d.FrameDuration, err = decodeRONMillis(field.value)
		case "frames":
			d.Frames, err = decodeRONFrames(field.value)
			hasFrames = true
		}
		if err != nil {
			return d, err
		}
	}
	if !hasFrames {
		return d, ronWrap(root.pos, &MissingFieldError{Field: "frames"})
	}
	return d, nil
}

func decodeRONMode(v *ronValue) (RawMode, error) {
	switch v.kind {
	case ronValIdent:
		var m RawMode
		if err := m.setVariant(v.name); err != nil {
			return m, ronWrap(v.pos, err)
		}
		return m, nil
	case ronValTuple:
		if v.name != "RepeatFrom" {
			return RawMode{}, ronWrap(v.pos, &UnknownVariantError{Variant: v.name})
		}
		if len(v.elems) != 1 {
			return RawMode{}, ronErrorf(v, "invalid length %d, expected `RepeatFrom` with one resume index", len(v.elems))
		}
		n, err := decodeRONUint(v.elems[0])
		if err != nil {
			return RawMode{}, err
		}
		from, ok := indexFromUint(n)
		if !ok {
			return RawMode{}, ronErrorf(v.elems[0], "invalid resume index %s", v.elems[0].text)
		}
		return RawMode{Kind: RawRepeatFrom, From: from}, nil
	default:
		return RawMode{}, ronErrorf(v, "invalid type: %s, expected an animation mode", v.describe())
	}
}

// decodeRONMillis reads an optional millisecond count. None, Some(n) and a
// bare n are all accepted.
func decodeRONMillis(v *ronValue) (*uint64, error) {
	switch {
	case v.kind == ronValIdent && v.name == "None":
		return nil, nil
	case v.kind == ronValTuple && v.name == "Some":
		if len(v.elems) != 1 {
			return nil, ronErrorf(v, "invalid length %d, expected `Some` with one value", len(v.elems))
		}
		v = v.elems[0]
	}
	n, err := decodeRONUint(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func decodeRONUint(v *ronValue) (uint64, error) {
	if v.kind != ronValInt {
		return 0, ronErrorf(v, "invalid type: %s, expected a non-negative integer", v.describe())
	}
	if v.negative || v.overflow {
		return 0, ronErrorf(v, "invalid value: %s, expected a non-negative integer", v.describe())
	}
	return v.num, nil
}

func decodeRONFrames(v *ronValue) ([]FrameEntry, error) {
	if v.kind != ronValList {
		return nil, ronErrorf(v, "invalid type: %s, expected a sequence of frames", v.describe())
	}
	frames := make([]FrameEntry, 0, len(v.elems))
	for _, elem := range v.elems {
		entry, err := decodeRONFrameEntry(elem)
		if err != nil {
			return nil, err
		}
		frames = append(frames, entry)
	}
	return frames, nil
}

func decodeRONFrameEntry(v *ronValue) (FrameEntry, error) {
	switch {
	case v.kind == ronValInt:
		if !v.negative && !v.overflow {
			if index, ok := indexFromUint(v.num); ok {
				return FrameEntry{Index: index}, nil
			}
		}
		return FrameEntry{}, ronWrap(v.pos, invalidFrameEntry("`"+v.text+"`"))
	case v.kind == ronValStruct && v.name == "":
		return decodeRONFrameRecord(v)
	default:
		return FrameEntry{}, ronWrap(v.pos, invalidFrameEntry(v.describe()))
	}
}

func decodeRONFrameRecord(v *ronValue) (FrameEntry, error) {
	var (
		entry    FrameEntry
		hasIndex bool
		seen     = make(map[string]bool, 2)
	)
	for _, field := range v.fields {
		if seen[field.name] {
			return entry, ronWrap(field.pos, &DuplicateFieldError{Field: field.name})
		}
		seen[field.name] = true

		switch field.name {
		case "index":
			n, err := decodeRONUint(field.value)
			if err != nil {
				return entry, err
			}
			index, ok := indexFromUint(n)
			if !ok {
				return entry, ronWrap(field.value.pos, invalidFrameEntry("`"+field.value.text+"`"))
			}
			entry.Index = index
			hasIndex = true
		case "duration":
			ms, err := decodeRONMillis(field.value)
			if err != nil {
				return entry, err
			}
			entry.Duration = ms
		default:
			return entry, ronWrap(field.pos, &UnknownFieldError{Field: field.name, Expected: frameEntryFields})
		}
	}
	if !hasIndex {
		return entry, ronWrap(v.pos, &MissingFieldError{Field: "index"})
	}
	return entry, nil
}
