package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alacrity-engine/core/math/geometry"
	codec "github.com/alacrity-engine/resource-codec"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/alacrity-engine/sprite-anim/animation"
)

func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "stage.res"), 0600, nil)
	if err != nil {
		t.Fatalf("open bolt db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestModesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	want := map[string]animation.Mode{
		"walk": animation.RepeatFrom(0),
		"jump": animation.Once(),
		"coin": animation.PingPong(),
		"fire": animation.RepeatFrom(3),
	}
	err := db.Update(func(tx *bolt.Tx) error {
		for name, mode := range want {
			if err := putMode(tx, "animation-modes", name, mode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("putMode: %v", err)
	}

	got, err := readModes(db, "animation-modes")
	if err != nil {
		t.Fatalf("readModes returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected mode count: %d", len(got))
	}
	for name, mode := range want {
		if got[name] != mode {
			t.Fatalf("%s: got %s want %s", name, got[name], mode)
		}
	}
}

func TestReadModesWithoutBucket(t *testing.T) {
	modes, err := readModes(openTestDB(t), "animation-modes")
	if err != nil {
		t.Fatalf("readModes returned error: %v", err)
	}
	if len(modes) != 0 {
		t.Fatalf("expected no modes, got %v", modes)
	}
}

func TestReadModesRejectsCorruptValue(t *testing.T) {
	db := openTestDB(t)
	err := db.Update(func(tx *bolt.Tx) error {
		buck, err := tx.CreateBucketIfNotExists([]byte("animation-modes"))
		if err != nil {
			return err
		}
		return buck.Put([]byte("walk"), []byte("Sideways"))
	})
	if err != nil {
		t.Fatalf("seed bucket: %v", err)
	}
	if _, err := readModes(db, "animation-modes"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestPackTags(t *testing.T) {
	db := openTestDB(t)
	p := newPacker(db, "animation-modes")
	tags := map[string][]string{"hero": {"hero-walk", "hero-idle"}, "items": {"coin-spin"}}

	if err := p.packTags(tags); err == nil || !strings.Contains(err.Error(), "no tags bucket") {
		t.Fatalf("expected missing tags bucket error, got %v", err)
	}

	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte(tagsBucket))
		return err
	})
	if err != nil {
		t.Fatalf("create tags bucket: %v", err)
	}
	if err := p.packTags(tags); err != nil {
		t.Fatalf("packTags returned error: %v", err)
	}

	err = db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket([]byte(tagsBucket))
		for tagID := range tags {
			if len(buck.Get([]byte(tagID))) == 0 {
				t.Errorf("tag %q was not stored", tagID)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
}

func TestPackAnimationRequiresSpritesheets(t *testing.T) {
	db := openTestDB(t)
	p := newPacker(db, "animation-modes")
	anim, err := animation.FromYAMLString("frame_duration: 10\nframes: [0]\n")
	if err != nil {
		t.Fatalf("FromYAMLString returned error: %v", err)
	}
	meta := AnimationMeta{Name: "walk", TextureID: "hero", SpritesheetID: "hero-sheet"}

	if err := p.packAnimation(meta, anim); err == nil || !strings.Contains(err.Error(), "spritesheets bucket") {
		t.Fatalf("expected missing spritesheets bucket error, got %v", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte(spritesheetsBucket))
		return err
	})
	if err != nil {
		t.Fatalf("create spritesheets bucket: %v", err)
	}
	if err := p.packAnimation(meta, anim); err == nil || !strings.Contains(err.Error(), "spritesheet 'hero-sheet' not found") {
		t.Fatalf("expected missing spritesheet error, got %v", err)
	}

	modes, err := readModes(db, "animation-modes")
	if err != nil {
		t.Fatalf("readModes returned error: %v", err)
	}
	if len(modes) != 0 {
		t.Fatalf("a failed pack must not store a mode, got %v", modes)
	}
}

func fixedCells(count int) func(*bolt.Tx, AnimationMeta) ([]geometry.Rect, error) {
	return func(*bolt.Tx, AnimationMeta) ([]geometry.Rect, error) {
		return make([]geometry.Rect, count), nil
	}
}

func mustParseYAML(t *testing.T, content string) *animation.Animation {
	t.Helper()
	anim, err := animation.FromYAMLString(content)
	if err != nil {
		t.Fatalf("FromYAMLString returned error: %v", err)
	}
	return anim
}

func TestPackAnimationStoresFramesAndMode(t *testing.T) {
	db := openTestDB(t)
	p := newPacker(db, "animation-modes")
	p.cells = fixedCells(4)
	anim := mustParseYAML(t, "mode: {RepeatFrom: 1}\nframe_duration: 100\nframes: [0, {index: 3, duration: 250}, 2]\n")
	meta := AnimationMeta{Name: "walk", TextureID: "hero", SpritesheetID: "hero-sheet"}

	if err := p.packAnimation(meta, anim); err != nil {
		t.Fatalf("packAnimation returned error: %v", err)
	}

	want, err := (&codec.AnimationData{
		TextureID: "hero",
		Frames:    make([]geometry.Rect, 3),
		Durations: []int32{100, 250, 100},
	}).ToBytes()
	if err != nil {
		t.Fatalf("encode expected animation: %v", err)
	}
	err = db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket([]byte(animationsBucket))
		if buck == nil {
			t.Error("animations bucket was not created")
			return nil
		}
		if got := buck.Get([]byte("walk")); !bytes.Equal(got, want) {
			t.Errorf("stored animation differs: got %x want %x", got, want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read animations: %v", err)
	}

	modes, err := readModes(db, "animation-modes")
	if err != nil {
		t.Fatalf("readModes returned error: %v", err)
	}
	if modes["walk"] != animation.RepeatFrom(1) {
		t.Fatalf("unexpected stored mode %s", modes["walk"])
	}
}

func TestPackAnimationRejectsIndexPastLastCell(t *testing.T) {
	db := openTestDB(t)
	p := newPacker(db, "animation-modes")
	p.cells = fixedCells(2)
	anim := mustParseYAML(t, "frame_duration: 100\nframes: [0, 2]\n")
	meta := AnimationMeta{Name: "walk", TextureID: "hero", SpritesheetID: "hero-sheet"}

	err := p.packAnimation(meta, anim)
	if err == nil || !strings.Contains(err.Error(), "frame index 2 is outside spritesheet 'hero-sheet' (2 cells)") {
		t.Fatalf("expected an out of range error, got %v", err)
	}

	err = db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(animationsBucket)) != nil {
			t.Error("a failed pack must not create the animations bucket")
		}
		if tx.Bucket([]byte("animation-modes")) != nil {
			t.Error("a failed pack must not create the modes bucket")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inspect db: %v", err)
	}
}

func TestAnimationData(t *testing.T) {
	meta := AnimationMeta{Name: "walk", TextureID: "hero", SpritesheetID: "hero-sheet"}
	anim := mustParseYAML(t, "frame_duration: 40\nframes: [1, {index: 0, duration: 80}]\n")

	data, err := animationData(meta, anim, make([]geometry.Rect, 2))
	if err != nil {
		t.Fatalf("animationData returned error: %v", err)
	}
	if data.TextureID != "hero" {
		t.Fatalf("unexpected texture %q", data.TextureID)
	}
	if len(data.Frames) != 2 || len(data.Durations) != 2 {
		t.Fatalf("unexpected frame count: %d frames, %d durations", len(data.Frames), len(data.Durations))
	}
	if data.Durations[0] != 40 || data.Durations[1] != 80 {
		t.Fatalf("unexpected durations %v", data.Durations)
	}
}

func TestAnimationDataRejectsDurationsPastInt32(t *testing.T) {
	meta := AnimationMeta{Name: "walk", TextureID: "hero", SpritesheetID: "hero-sheet"}
	anim := mustParseYAML(t, "frames: [{index: 0, duration: 3000000000}]\n")

	_, err := animationData(meta, anim, make([]geometry.Rect, 1))
	if err == nil || !strings.Contains(err.Error(), "does not fit the resource format") {
		t.Fatalf("expected a duration range error, got %v", err)
	}
}

func TestRunPackStopsBeforeOpeningResourceOnInvalidDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "walk.ron", "(frames: [(index: 0, duration: 0)])")
	metaPath := writeFile(t, dir, "animations-meta.yml",
		"- {name: walk, tag: hero, textureID: hero, spritesheetID: hero-sheet, descriptor: walk.ron}\n")

	cfg := Default()
	cfg.Paths.AnimationsMeta = metaPath
	cfg.Paths.ResourceFile = filepath.Join(dir, "stage.res")

	err := runPack(cfg, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Fatalf("expected a duration error, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Paths.ResourceFile); !os.IsNotExist(statErr) {
		t.Fatalf("resource file should not be created, stat returned %v", statErr)
	}
}

func TestRunPackMissingMetadata(t *testing.T) {
	cfg := Default()
	cfg.Paths.AnimationsMeta = filepath.Join(t.TempDir(), "absent.yml")
	if err := runPack(cfg, zap.NewNop()); err == nil || !strings.Contains(err.Error(), "read animations metadata") {
		t.Fatalf("expected a read error, got %v", err)
	}
}
