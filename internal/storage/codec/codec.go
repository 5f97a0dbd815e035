// Package codec converts a note collection to and from its persisted form.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/notes-registry/internal/notes"
)

// Codec serializes a whole collection.
type Codec interface {
	Encode(c notes.Collection) ([]byte, error)
	Decode(data []byte) (notes.Collection, error)
	ContentType() string
}

// ForPath picks a codec from the file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML{}
	default:
		return JSON{}
	}
}

// JSON writes a two-space indented array of {"name","text"} objects.
type JSON struct{}

func (JSON) Encode(c notes.Collection) ([]byte, error) {
	if c == nil {
		c = notes.Collection{}
	}
	return json.MarshalIndent(c, "", "  ")
}

func (JSON) Decode(data []byte) (notes.Collection, error) {
	var c notes.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if c == nil {
		c = notes.Collection{}
	}
	return c, nil
}

func (JSON) ContentType() string { return "application/json" }

// YAML writes a sequence of name/text mappings.
type YAML struct{}

func (YAML) Encode(c notes.Collection) ([]byte, error) {
	if c == nil {
		c = notes.Collection{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAML) Decode(data []byte) (notes.Collection, error) {
	var c notes.Collection
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if c == nil {
		c = notes.Collection{}
	}
	return c, nil
}

func (YAML) ContentType() string { return "application/yaml" }
