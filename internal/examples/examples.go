package examples

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed data/*.json
var files embed.FS

// Names lists the packaged example documents in display order.
var Names = []string{"example_one.json", "example_two.json", "example_three.json"}

// ErrUnknown is returned for names that are not packaged.
var ErrUnknown = errors.New("unknown example")

// Get returns an example document exactly as packaged.
func Get(name string) ([]byte, error) {
	for _, n := range Names {
		if n == name {
			return files.ReadFile("data/" + name)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}
