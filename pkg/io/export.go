package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flamekit/pkg/core/flame"
)

// WriteTOML encodes f as a TOML flame document and writes it to w.
// The output can be read back with [ReadTOML].
func WriteTOML(f *flame.Flame, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(fromFlame(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTOML writes f to a TOML file at path.
func ExportTOML(f *flame.Flame, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteTOML(f, out)
}

// WriteJSON encodes f as an indented JSON document with the same structure
// as the TOML format.
func WriteJSON(f *flame.Flame, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromFlame(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
