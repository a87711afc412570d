package animation

import (
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v2"
)

// FromYAMLString parses a block-notation (YAML) descriptor.
func FromYAMLString(s string) (*Animation, error) {
	return FromYAMLBytes([]byte(s))
}

// FromYAMLBytes parses a block-notation (YAML) descriptor.
func FromYAMLBytes(data []byte) (*Animation, error) {
	var doc yamlDescriptor
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, decodeError(err)
	}
	d, err := doc.descriptor()
	if err != nil {
		return nil, decodeError(err)
	}
	return canonicalize(d)
}

type yamlDescriptor struct {
	Mode          RawMode        `yaml:"mode"`
	FrameDuration *uint64        `yaml:"frame_duration"`
	Frames        *[]*FrameEntry `yaml:"frames"`
}

var descriptorFields = []string{"mode", "frame_duration", "frames"}

func (doc *yamlDescriptor) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var fields yaml.MapSlice
	if err := unmarshal(&fields); err != nil {
		return err
	}
	if key, ok := repeatedKey(fields, descriptorFields); ok {
		return &DuplicateFieldError{Field: key}
	}
	type plain yamlDescriptor
	return unmarshal((*plain)(doc))
}

// repeatedKey returns the first key among known that fields holds twice.
func repeatedKey(fields yaml.MapSlice, known []string) (string, bool) {
	seen := make(map[string]bool, len(fields))
	for _, item := range fields {
		key, ok := item.Key.(string)
		if !ok || !slices.Contains(known, key) {
			continue
		}
		if seen[key] {
			return key, true
		}
		seen[key] = true
	}
	return "", false
}

func (doc yamlDescriptor) descriptor() (Descriptor, error) {
	if doc.Frames == nil {
		return Descriptor{}, &MissingFieldError{Field: "frames"}
	}
	frames := make([]FrameEntry, 0, len(*doc.Frames))
	for _, entry := range *doc.Frames {
		if entry == nil {
			return Descriptor{}, invalidFrameEntry("null")
		}
		frames = append(frames, *entry)
	}
	return Descriptor{Mode: doc.Mode, FrameDuration: doc.FrameDuration, Frames: frames}, nil
}

// UnmarshalYAML lets a Descriptor be embedded in larger YAML documents.
func (d *Descriptor) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var doc yamlDescriptor
	if err := unmarshal(&doc); err != nil {
		return err
	}
	decoded, err := doc.descriptor()
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// UnmarshalYAML accepts a variant name (Once, Repeat, PingPong) or a
// single-key mapping {RepeatFrom: n}.
func (m *RawMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		return m.setVariant(v)
	case map[interface{}]interface{}:
		if len(v) != 1 {
			return fmt.Errorf("invalid mode: expected a single variant, found %d", len(v))
		}
		for key := range v {
			if key != "RepeatFrom" {
				return &UnknownVariantError{Variant: fmt.Sprint(key)}
			}
		}
		var variant struct {
			From *uint64 `yaml:"RepeatFrom"`
		}
		if err := unmarshal(&variant); err != nil {
			return err
		}
		if variant.From == nil {
			return fmt.Errorf("invalid mode: variant `RepeatFrom` needs a resume index")
		}
		from, ok := indexFromUint(*variant.From)
		if !ok {
			return fmt.Errorf("invalid resume index %d", *variant.From)
		}
		*m = RawMode{Kind: RawRepeatFrom, From: from}
		return nil
	default:
		return fmt.Errorf("invalid type for mode: %v", raw)
	}
}

func (m *RawMode) setVariant(name string) error {
	switch name {
	case "Repeat":
		*m = RawMode{Kind: RawRepeat}
	case "Once":
		*m = RawMode{Kind: RawOnce}
	case "PingPong":
		*m = RawMode{Kind: RawPingPong}
	case "RepeatFrom":
		return fmt.Errorf("invalid mode: variant `RepeatFrom` needs a resume index")
	default:
		return &UnknownVariantError{Variant: name}
	}
	return nil
}

// UnmarshalYAML accepts a bare index or an {index, duration} mapping.
// Keys other than index and duration are rejected.
func (e *FrameEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		if v >= 0 {
			*e = FrameEntry{Index: v}
			return nil
		}
	case uint64:
		if index, ok := indexFromUint(v); ok {
			*e = FrameEntry{Index: index}
			return nil
		}
	case map[interface{}]interface{}:
		return e.unmarshalRecord(v, unmarshal)
	}
	return invalidFrameEntry(describeYAML(raw, unmarshal))
}

func (e *FrameEntry) unmarshalRecord(fields map[interface{}]interface{}, unmarshal func(interface{}) error) error {
	for key := range fields {
		if key != "index" && key != "duration" {
			return &UnknownFieldError{Field: fmt.Sprint(key), Expected: frameEntryFields}
		}
	}
	var ordered yaml.MapSlice
	if err := unmarshal(&ordered); err != nil {
		return err
	}
	if key, ok := repeatedKey(ordered, frameEntryFields); ok {
		return &DuplicateFieldError{Field: key}
	}
	var record struct {
		Index    *uint64 `yaml:"index"`
		Duration *uint64 `yaml:"duration"`
	}
	if err := unmarshal(&record); err != nil {
		return err
	}
	if record.Index == nil {
		return &MissingFieldError{Field: "index"}
	}
	index, ok := indexFromUint(*record.Index)
	if !ok {
		return invalidFrameEntry("`" + strconv.FormatUint(*record.Index, 10) + "`")
	}
	*e = FrameEntry{Index: index, Duration: record.Duration}
	return nil
}

// describeYAML renders a rejected frame entry, preferring the literal text
// of scalars so oversized integers are reported as written.
func describeYAML(raw interface{}, unmarshal func(interface{}) error) string {
	switch v := raw.(type) {
	case int, int64, uint64, float64:
		var text string
		if err := unmarshal(&text); err == nil {
			return "`" + text + "`"
		}
		return fmt.Sprintf("`%v`", v)
	case string:
		return fmt.Sprintf("string %q", v)
	case bool:
		return fmt.Sprintf("boolean `%t`", v)
	case []interface{}:
		return "sequence"
	default:
		return fmt.Sprintf("%v", v)
	}
}
