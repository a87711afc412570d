package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/alacrity-engine/core/math/geometry"
	codec "github.com/alacrity-engine/resource-codec"
	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/alacrity-engine/sprite-anim/animation"
)

const (
	spritesheetsBucket = "spritesheets"
	texturesBucket     = "textures"
	picturesBucket     = "pictures"
	animationsBucket   = "animations"
	tagsBucket         = "tags"
)

func newPackCommand(ctx *commandContext) *cobra.Command {
	var metaPath, outPath string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack animation descriptors into a resource file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("animations-meta") {
				cfg.Paths.AnimationsMeta = metaPath
			}
			if cmd.Flags().Changed("out") {
				cfg.Paths.ResourceFile = outPath
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runPack(cfg, logger)
		},
	}

	cmd.Flags().StringVar(&metaPath, "animations-meta", "",
		"Path to the file where animation descriptions are stored.")
	cmd.Flags().StringVar(&outPath, "out", "",
		"Resource file to store animations.")
	return cmd
}

// runPack canonicalizes every animation listed in the metadata file before
// touching the resource file, so an invalid descriptor leaves it unchanged.
func runPack(cfg Config, logger *zap.Logger) error {
	contents, err := os.ReadFile(cfg.Paths.AnimationsMeta)
	if err != nil {
		return fmt.Errorf("read animations metadata: %w", err)
	}
	animationsMeta, err := ReadAnimationsData(contents)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(cfg.Paths.AnimationsMeta)
	anims := make([]*animation.Animation, len(animationsMeta))
	for i, meta := range animationsMeta {
		anims[i], err = meta.load(baseDir)
		if err != nil {
			return err
		}
		logger.Debug("animation parsed",
			zap.String("name", meta.Name),
			zap.Int("frames", anims[i].Len()),
			zap.Stringer("mode", anims[i].Mode()))
	}

	resourceFile, err := bolt.Open(cfg.Paths.ResourceFile, 0666, nil)
	if err != nil {
		return fmt.Errorf("open resource file: %w", err)
	}
	defer resourceFile.Close()

	p := newPacker(resourceFile, cfg.Pack.ModesBucket)
	for i, meta := range animationsMeta {
		if err := p.packAnimation(meta, anims[i]); err != nil {
			return fmt.Errorf("pack animation %q: %w", meta.Name, err)
		}
		logger.Info("animation packed",
			zap.String("name", meta.Name),
			zap.String("tag", meta.Tag),
			zap.Duration("length", anims[i].TotalDuration()))
	}

	if err := p.packTags(groupTags(animationsMeta)); err != nil {
		return err
	}
	logger.Info("resource file written",
		zap.String("path", cfg.Paths.ResourceFile),
		zap.Int("animations", len(animationsMeta)))
	return nil
}

type packer struct {
	db          *bolt.DB
	modesBucket string
	cells       func(tx *bolt.Tx, meta AnimationMeta) ([]geometry.Rect, error)
}

func newPacker(db *bolt.DB, modesBucket string) *packer {
	return &packer{db: db, modesBucket: modesBucket, cells: spritesheetCells}
}

// packAnimation resolves the sprite-sheet cells of anim and stores it, with
// its mode, in one transaction.
func (p *packer) packAnimation(meta AnimationMeta, anim *animation.Animation) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		cells, err := p.cells(tx, meta)

		if err != nil {
			return err
		}

		data, err := animationData(meta, anim, cells)

		if err != nil {
			return err
		}

		encoded, err := data.ToBytes()

		if err != nil {
			return err
		}

		animBucket, err := tx.CreateBucketIfNotExists([]byte(animationsBucket))

		if err != nil {
			return err
		}

		if err := animBucket.Put([]byte(meta.Name), encoded); err != nil {
			return err
		}

		return putMode(tx, p.modesBucket, meta.Name, anim.Mode())
	})
}

// spritesheetCells cuts the picture behind meta's texture into the cells
// of its sprite sheet.
func spritesheetCells(tx *bolt.Tx, meta AnimationMeta) ([]geometry.Rect, error) {
	buck := tx.Bucket([]byte(spritesheetsBucket))

	if buck == nil {
		return nil, fmt.Errorf("the spritesheets bucket not found")
	}

	ssBytes := buck.Get([]byte(meta.SpritesheetID))

	if ssBytes == nil {
		return nil, fmt.Errorf(
			"spritesheet '%s' not found", meta.SpritesheetID)
	}

	ss, err := codec.SpritesheetDataFromBytes(ssBytes)

	if err != nil {
		return nil, err
	}

	textureBuck := tx.Bucket([]byte(texturesBucket))

	if textureBuck == nil {
		return nil, fmt.Errorf("the textures bucket not found")
	}

	textureBytes := textureBuck.Get([]byte(meta.TextureID))

	if textureBytes == nil {
		return nil, fmt.Errorf(
			"texture '%s' not found", meta.TextureID)
	}

	texture, err := codec.TextureDataFromBytes(textureBytes)

	if err != nil {
		return nil, err
	}

	picBucket := tx.Bucket([]byte(picturesBucket))

	if picBucket == nil {
		return nil, fmt.Errorf("the pictures bucket not found")
	}

	picBytes := picBucket.Get([]byte(texture.PictureID))

	if picBytes == nil {
		return nil, fmt.Errorf(
			"picture '%s' not found", texture.PictureID)
	}

	compressedPic, err := codec.CompressedPictureFromBytes(picBytes)

	if err != nil {
		return nil, err
	}

	return compressedPic.GetSpritesheetFrames(
		int(ss.Width), int(ss.Height)), nil
}

// animationData maps every frame of anim onto its cell. Durations are
// stored in milliseconds.
func animationData(meta AnimationMeta, anim *animation.Animation, cells []geometry.Rect) (*codec.AnimationData, error) {
	data := &codec.AnimationData{
		TextureID: meta.TextureID,
		Frames:    make([]geometry.Rect, 0, anim.Len()),
		Durations: make([]int32, 0, anim.Len()),
	}

	for _, frame := range anim.Frames() {
		if frame.Index() >= len(cells) {
			return nil, fmt.Errorf("frame index %d is outside spritesheet '%s' (%d cells)",
				frame.Index(), meta.SpritesheetID, len(cells))
		}
		ms := frame.Duration().Milliseconds()
		if ms > math.MaxInt32 {
			return nil, fmt.Errorf("frame duration %s does not fit the resource format", frame.Duration())
		}
		data.Frames = append(data.Frames, cells[frame.Index()])
		data.Durations = append(data.Durations, int32(ms))
	}

	return data, nil
}

// packTags stores the animation names of every tag. The tags bucket must
// already exist in the resource file.
func (p *packer) packTags(animTags map[string][]string) error {
	tagIDs := make([]string, 0, len(animTags))
	for tagID := range animTags {
		tagIDs = append(tagIDs, tagID)
	}
	sort.Strings(tagIDs)

	return p.db.Update(func(tx *bolt.Tx) error {
		buck := tx.Bucket([]byte(tagsBucket))

		if buck == nil {
			return fmt.Errorf("no tags bucket present")
		}

		for _, tagID := range tagIDs {
			tagData, err := codec.EncodeTag(animTags[tagID])

			if err != nil {
				return fmt.Errorf("encode tag %q: %w", tagID, err)
			}

			if err := buck.Put([]byte(tagID), tagData); err != nil {
				return err
			}
		}

		return nil
	})
}

func putMode(tx *bolt.Tx, bucket, name string, mode animation.Mode) error {
	modes, err := tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return err
	}
	text, err := mode.MarshalText()
	if err != nil {
		return err
	}
	return modes.Put([]byte(name), text)
}

// readModes returns every stored animation mode keyed by animation name.
func readModes(db *bolt.DB, bucket string) (map[string]animation.Mode, error) {
	modes := map[string]animation.Mode{}
	err := db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket([]byte(bucket))
		if buck == nil {
			return nil
		}
		return buck.ForEach(func(k, v []byte) error {
			var mode animation.Mode
			if err := mode.UnmarshalText(v); err != nil {
				return fmt.Errorf("animation %q: %w", k, err)
			}
			modes[string(k)] = mode
			return nil
		})
	})
	return modes, err
}
