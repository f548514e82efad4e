// Package format provides serialization format detection for the doctree
// library.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported serialization format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// JSON indicates a JSON document.
	JSON
	// YAML indicates a YAML document.
	YAML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case YAML:
		return "YAML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	default:
		return ""
	}
}

// Detect determines the serialization format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return Unknown
	}
}

// DetectFromMagic inspects content to determine the serialization format.
// This is more reliable than extension-based detection for files saved
// without a conventional extension.
func DetectFromMagic(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	// JSON documents open with an object or array.
	if data[0] == '{' || data[0] == '[' {
		return JSON
	}

	// YAML signatures: document separator or a %YAML directive.
	if bytes.HasPrefix(data, []byte("---")) || bytes.HasPrefix(data, []byte("%YAML")) {
		return YAML
	}

	// A top-level "key:" line is YAML's block mapping form.
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if i := bytes.IndexByte(line, ':'); i > 0 {
		return YAML
	}

	return Unknown
}

// DetectFromReader reads a prefix of r to determine the serialization
// format.
func DetectFromReader(r io.Reader) (Format, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(head[:n]), nil
}
