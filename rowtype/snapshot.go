// Package rowtype provides a portable msgpack encoding of descriptor sets.
package rowtype

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the descriptor encoding changes shape.
const snapshotVersion = 1

// Snapshot is a portable, versioned encoding of a set of type descriptors,
// used to hand validated schemas to external tooling.
type Snapshot struct {
	Version int
	Types   []TypeDescriptor
}

// EncodeSnapshot writes a msgpack snapshot of the given descriptors to w.
func EncodeSnapshot(w io.Writer, types []*TypeDescriptor) error {
	snap := Snapshot{Version: snapshotVersion}
	for _, d := range types {
		snap.Types = append(snap.Types, *d)
	}
	if err := msgpack.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a msgpack snapshot from r and returns its descriptors.
func DecodeSnapshot(r io.Reader) ([]*TypeDescriptor, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", snap.Version)
	}
	types := make([]*TypeDescriptor, len(snap.Types))
	for i := range snap.Types {
		types[i] = &snap.Types[i]
	}
	return types, nil
}
