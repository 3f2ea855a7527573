package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flamekit/pkg/core/flame"
	"github.com/matzehuels/flamekit/pkg/errors"
)

// ReadTOML decodes a flame document from r.
//
// Settings missing from the document keep the values of [flame.Default].
// Keys that do not belong to the format are rejected so that typos do not
// silently fall back to defaults.
//
// The returned flame has not been validated or initialised; callers should
// run [flame.Flame.Validate] before rendering. ReadTOML does not close r.
func ReadTOML(r io.Reader) (*flame.Flame, error) {
	doc := newDocument()
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFlame, err, "decode flame")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFlame, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return doc.toFlame()
}

// ImportTOML reads the flame document at path.
//
// A missing file is reported with [errors.ErrCodeFileNotFound]; decoding
// errors are those of [ReadTOML], wrapped with the path.
func ImportTOML(path string) (*flame.Flame, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "flame file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fl, err := ReadTOML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if fl.Name == "" {
		fl.Name = flameName(path)
	}
	return fl, nil
}

// flameName derives a flame name from a file path: the base name without
// its extension.
func flameName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
