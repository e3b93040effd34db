// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package localfs

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/samber/oops"
)

// LevelFile is the per-world metadata file.
const LevelFile = "level.dat"

// dataVersion is stamped into new level files.
const dataVersion = 3337

// level is the on-disk layout of level.dat: a gzip-compressed NBT compound
// with a single "Data" child, as written by vanilla servers. Only the tags
// this engine needs are mapped; unknown tags are ignored on read.
type level struct {
	Data levelData `nbt:"Data"`
}

type levelData struct {
	LevelName        string           `nbt:"LevelName"`
	DataVersion      int32            `nbt:"DataVersion"`
	LastPlayed       int64            `nbt:"LastPlayed"`
	SpawnX           int32            `nbt:"SpawnX"`
	SpawnY           int32            `nbt:"SpawnY"`
	SpawnZ           int32            `nbt:"SpawnZ"`
	SpawnAngle       float32          `nbt:"SpawnAngle"`
	Initialized      bool             `nbt:"initialized"`
	WorldGenSettings worldGenSettings `nbt:"WorldGenSettings"`
	Environment      string           `nbt:"worldgate:environment"`
}

type worldGenSettings struct {
	Seed             int64 `nbt:"seed"`
	GenerateFeatures bool  `nbt:"generate_features"`
}

func readLevel(dir string) (level, error) {
	path := filepath.Join(dir, LevelFile)
	f, err := os.Open(path) //nolint:gosec // path is inside the world container
	if err != nil {
		return level{}, oops.Code("LEVEL_READ_FAILED").With("path", path).Wrap(err)
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return level{}, oops.Code("LEVEL_READ_FAILED").With("path", path).Wrap(err)
	}
	defer func() { _ = zr.Close() }()

	var lv level
	if _, err := nbt.NewDecoder(zr).Decode(&lv); err != nil {
		return level{}, oops.Code("LEVEL_DECODE_FAILED").With("path", path).Wrap(err)
	}
	return lv, nil
}

// writeLevel replaces level.dat atomically.
func writeLevel(dir string, lv level) error {
	path := filepath.Join(dir, LevelFile)
	tmp, err := os.CreateTemp(dir, LevelFile+".*")
	if err != nil {
		return oops.Code("LEVEL_WRITE_FAILED").With("path", path).Wrap(err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return oops.Code("LEVEL_WRITE_FAILED").With("path", path).Wrap(err)
	}

	zw := gzip.NewWriter(tmp)
	if err := nbt.NewEncoder(zw).Encode(lv, ""); err != nil {
		return fail(err)
	}
	if err := zw.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return oops.Code("LEVEL_WRITE_FAILED").With("path", path).Wrap(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return oops.Code("LEVEL_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
