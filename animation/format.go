package animation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects a descriptor notation.
type Format uint8

const (
	// FormatYAML is the block notation.
	FormatYAML Format = iota
	// FormatRON is the field notation.
	FormatRON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatRON:
		return "ron"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// FormatFromPath picks the notation from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".ron":
		return FormatRON, nil
	default:
		return 0, fmt.Errorf("unsupported animation file extension %q", ext)
	}
}

// Parse reads data in the given notation.
func Parse(format Format, data []byte) (*Animation, error) {
	switch format {
	case FormatYAML:
		return FromYAMLBytes(data)
	case FormatRON:
		return FromRONBytes(data)
	default:
		return nil, fmt.Errorf("unsupported animation format %s", format)
	}
}
