package format

import (
	"strings"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{JSON, "JSON"},
		{YAML, "YAML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{JSON, ".json"},
		{YAML, ".yaml"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.json", JSON},
		{"document.JSON", JSON},
		{"document.Json", JSON},
		{"document.yaml", YAML},
		{"document.YAML", YAML},
		{"document.yml", YAML},
		{"path/to/document.json", JSON},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"json object", `{"schema_name": "DoctreeDocument"}`, JSON},
		{"json array", `[1, 2, 3]`, JSON},
		{"json with leading whitespace", "\n\t {\"a\": 1}", JSON},
		{"yaml document separator", "---\nname: doc\n", YAML},
		{"yaml directive", "%YAML 1.2\n---\nname: doc\n", YAML},
		{"yaml block mapping", "schema_name: DoctreeDocument\nversion: 1.5.0\n", YAML},
		{"empty", "", Unknown},
		{"whitespace only", "   \n\t", Unknown},
		{"plain text", "hello world", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFromMagic(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"json", `{"version": "1.5.0"}`, JSON},
		{"yaml", "version: 1.5.0\n", YAML},
		{"empty", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(strings.NewReader(tt.data))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}
