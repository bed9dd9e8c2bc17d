// Package source loads compilation units into buffers the tokenizer can
// scan. It is the compiler's one point of contact with the filesystem,
// kept behind a small interface so the core pipeline never calls os
// directly: the driver supplies the opener, the core supplies nothing
// but the path to resolve.
package source

import (
	"fmt"
	"path/filepath"
)

// Opener loads the file at path and returns its raw bytes. The default
// driver wires this to os.ReadFile; tests wire it to an in-memory map so
// #include resolution can be exercised without touching disk.
type Opener func(path string) ([]byte, error)

// Buffer is a loaded compilation unit ready for tokenizing.
type Buffer struct {
	// Name is the path used to open this buffer, echoed into every
	// token's File field for diagnostics.
	Name string
	// Text is the file contents. The tokenizer treats the end of the
	// slice as end of input; no sentinel byte is appended, since Go
	// slices already carry their own length.
	Text []byte
}

// Load opens path via opener and wraps the result in a Buffer.
func Load(opener Opener, path string) (*Buffer, error) {
	data, err := opener(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %s: %w", path, err)
	}
	return &Buffer{Name: path, Text: data}, nil
}

// Dir returns the directory containing path, with a trailing separator,
// the same way #include "..." resolution needs it. An empty or bare
// filename resolves to the current directory.
func Dir(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "./"
	}
	return dir + string(filepath.Separator)
}

// Resolve joins an including file's directory with an included file's
// relative path, per the include-path rule in the compiler's external
// interface contract: resolution is always relative to the including
// file, never a system search path.
func Resolve(includingFile, includedPath string) string {
	return filepath.Join(Dir(includingFile), includedPath)
}
