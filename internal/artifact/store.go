package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// ErrNotFound is returned by a Store when no artifact has the given name.
var ErrNotFound = errors.New("artifact not found")

// Blob is the stored form of an artifact.
type Blob struct {
	Data []byte
	// Compressed marks Data as snappy block-encoded.
	Compressed bool
}

// Bytes returns the decoded payload.
func (b Blob) Bytes() ([]byte, error) {
	if !b.Compressed {
		return b.Data, nil
	}
	out, err := snappy.Decode(nil, b.Data)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}
	return out, nil
}

// Compress snappy-encodes a payload for storage.
func Compress(data []byte) Blob {
	return Blob{Data: snappy.Encode(nil, data), Compressed: true}
}

// Store reads serialized artifacts by name.
type Store interface {
	Fetch(ctx context.Context, name string) (Blob, error)
}

// FileStore reads artifacts from a directory. For a name it tries, in order,
// name, name.json, name.sz and name.json.sz; files ending in .sz are snappy
// compressed.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Fetch(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Blob{}, fmt.Errorf("invalid artifact name %q", name)
	}

	for _, candidate := range []string{name, name + ".json", name + ".sz", name + ".json.sz"} {
		path := filepath.Join(s.Dir, candidate)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Blob{}, err
		}
		return Blob{Data: data, Compressed: strings.HasSuffix(candidate, ".sz")}, nil
	}
	return Blob{}, fmt.Errorf("%s in %s: %w", name, s.Dir, ErrNotFound)
}
