package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths locates the packer's input and output.
type Paths struct {
	AnimationsMeta string `toml:"animations_meta"`
	ResourceFile   string `toml:"resource_file"`
}

// Pack tunes how animations are written into the resource file.
type Pack struct {
	ModesBucket string `toml:"modes_bucket"`
}

// Config is the packer configuration. Command-line flags override it.
type Config struct {
	Paths Paths `toml:"paths"`
	Pack  Pack  `toml:"pack"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Paths: Paths{
			AnimationsMeta: "./animations-meta.yml",
			ResourceFile:   "./stage.res",
		},
		Pack: Pack{
			ModesBucket: "animation-modes",
		},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Paths.AnimationsMeta = cleanPath(c.Paths.AnimationsMeta)
	c.Paths.ResourceFile = cleanPath(c.Paths.ResourceFile)
	c.Pack.ModesBucket = strings.TrimSpace(c.Pack.ModesBucket)
}

func cleanPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(trimmed)
}

// Validate reports missing settings.
func (c Config) Validate() error {
	var errs []error
	if c.Paths.AnimationsMeta == "" {
		errs = append(errs, errors.New("paths.animations_meta must be set"))
	}
	if c.Paths.ResourceFile == "" {
		errs = append(errs, errors.New("paths.resource_file must be set"))
	}
	if c.Pack.ModesBucket == "" {
		errs = append(errs, errors.New("pack.modes_bucket must be set"))
	}
	for _, reserved := range []string{animationsBucket, tagsBucket, spritesheetsBucket, texturesBucket, picturesBucket} {
		if c.Pack.ModesBucket == reserved {
			errs = append(errs, fmt.Errorf("pack.modes_bucket %q is reserved", reserved))
		}
	}
	return errors.Join(errs...)
}
