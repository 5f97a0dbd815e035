// Package file persists the note collection as a single file on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"example.com/notes-registry/internal/notes"
	"example.com/notes-registry/internal/storage/codec"
)

// TempFilePrefix names the scratch files Save renames over the target.
const TempFilePrefix = ".notes-tmp-"

var _ notes.Persister = (*Persister)(nil)

type Persister struct {
	path  string
	codec codec.Codec
	perm  os.FileMode
}

// New returns a Persister for path. The codec follows the file extension.
func New(path string) *Persister {
	return &Persister{path: path, codec: codec.ForPath(path), perm: 0o644}
}

func (p *Persister) Path() string { return p.path }

// Load reads the file. A missing file is an empty collection.
func (p *Persister) Load(_ context.Context) (notes.Collection, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return notes.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}
	c, err := p.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.path, err)
	}
	return c, nil
}

func (p *Persister) Save(_ context.Context, c notes.Collection) error {
	data, err := p.codec.Encode(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.path, err)
	}
	return p.replace(data)
}

// replace swaps the file contents through a synced scratch file in the same
// directory, so a crash leaves either the previous or the new collection.
func (p *Persister) replace(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("save %s: %w", p.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpName, p.perm)
	}
	if err == nil {
		err = os.Rename(tmpName, p.path)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", p.path, err)
	}
	return nil
}
