package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/alacrity-engine/sprite-anim/animation"
)

// AnimationMeta is animation metadata
// read from the YAML file.
//
// The frames come either from a descriptor file (.yml, .yaml or .ron,
// relative to the metadata file) or from an inline animation block.
type AnimationMeta struct {
	Name          string                `yaml:"name"`
	Tag           string                `yaml:"tag"`
	TextureID     string                `yaml:"textureID"`
	SpritesheetID string                `yaml:"spritesheetID"`
	Descriptor    string                `yaml:"descriptor"`
	Animation     *animation.Descriptor `yaml:"animation"`
}

// ReadAnimationsData decodes the animation metadata list.
func ReadAnimationsData(contents []byte) ([]AnimationMeta, error) {
	var metas []AnimationMeta
	if err := yaml.UnmarshalStrict(contents, &metas); err != nil {
		return nil, fmt.Errorf("parse animations metadata: %w", err)
	}

	seen := make(map[string]bool, len(metas))
	for i, meta := range metas {
		if err := meta.validate(); err != nil {
			return nil, fmt.Errorf("animation #%d: %w", i, err)
		}
		if seen[meta.Name] {
			return nil, fmt.Errorf("animation %q is declared twice", meta.Name)
		}
		seen[meta.Name] = true
	}
	return metas, nil
}

func (m AnimationMeta) validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name must be set")
	}
	if m.TextureID == "" || m.SpritesheetID == "" {
		return fmt.Errorf("animation %q: textureID and spritesheetID must be set", m.Name)
	}
	if (m.Descriptor == "") == (m.Animation == nil) {
		return fmt.Errorf("animation %q: exactly one of descriptor and animation must be set", m.Name)
	}
	return nil
}

// load returns the canonical animation. Descriptor paths are resolved
// against baseDir.
func (m AnimationMeta) load(baseDir string) (*animation.Animation, error) {
	if m.Animation != nil {
		anim, err := m.Animation.Canonicalize()
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", m.Name, err)
		}
		return anim, nil
	}

	path := m.Descriptor
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	anim, err := loadDescriptorFile(path)
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", m.Name, err)
	}
	return anim, nil
}

func loadDescriptorFile(path string) (*animation.Animation, error) {
	format, err := animation.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	anim, err := animation.Parse(format, contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return anim, nil
}

// groupTags maps every tag to the names of its animations, in
// declaration order.
func groupTags(metas []AnimationMeta) map[string][]string {
	animTags := map[string][]string{}
	for _, animMeta := range metas {
		animTags[animMeta.Tag] = append(animTags[animMeta.Tag], animMeta.Name)
	}
	return animTags
}
