package gcode

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrLayerNotFound reports that a layer marker is absent or sits on the last
// line with no terminator after it.
var ErrLayerNotFound = errors.New("layer marker not found")

// Document is the full content of a G-code file held for one edit.
type Document struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// ReadDocument loads the whole file at path.
func ReadDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return &Document{Path: path, Content: content, Mode: info.Mode().Perm()}, nil
}

// Overwrite replaces the file on disk with content, keeping its permissions.
// The write is not atomic.
func (d *Document) Overwrite(content []byte) error {
	if err := os.WriteFile(d.Path, content, d.Mode); err != nil {
		return fmt.Errorf("failed to write %q: %w", d.Path, err)
	}
	d.Content = content
	return nil
}

// Splice returns a copy of content with a speed-override line inserted after
// the line holding the first occurrence of the layer marker. It reports false
// and returns content untouched when there is nowhere to insert.
func Splice(content []byte, layer, speed string) ([]byte, bool) {
	start := bytes.Index(content, []byte(Marker(layer)))
	if start < 0 {
		return content, false
	}
	nl := bytes.IndexByte(content[start:], '\n')
	if nl < 0 {
		return content, false
	}
	cut := start + nl + 1

	line := SpeedOverride(speed) + "\n"
	out := make([]byte, 0, len(content)+len(line))
	out = append(out, content[:cut]...)
	out = append(out, line...)
	out = append(out, content[cut:]...)
	return out, true
}

// InsertSpeedOverride rewrites the file at path with a speed-override command
// after the first line containing the layer marker.
// It returns false with a nil error when the marker cannot be used; the file
// is not written in that case. Read and write failures are returned as errors.
func InsertSpeedOverride(path, layer, speed string) (bool, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return false, err
	}
	out, ok := Splice(doc.Content, layer, speed)
	if !ok {
		return false, nil
	}
	if err := doc.Overwrite(out); err != nil {
		return false, err
	}
	return true, nil
}
