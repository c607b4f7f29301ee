// Package loader loads i960 memory images.
//
// An i960 system boots from a flat memory image placed at a known
// physical address; there is no structured object format involved at
// this level.
package loader

import (
	"fmt"
	"os"
)

// Image is a raw memory image and its placement.
type Image struct {
	// Base is the physical address the image is placed at.
	Base uint32

	// Entry is the initial instruction pointer.
	Entry uint32

	// Data is the image content.
	Data []byte
}

// Load reads a raw binary image from path, to be placed at base with
// execution starting at entry.
func Load(path string, base, entry uint32) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("loading image: %s is empty", path)
	}

	if uint64(base)+uint64(len(data)) > 1<<32 {
		return nil, fmt.Errorf("loading image: %s does not fit above 0x%x",
			path, base)
	}

	return &Image{Base: base, Entry: entry, Data: data}, nil
}
