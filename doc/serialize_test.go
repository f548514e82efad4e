package doc

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// richDocument builds a document exercising every collection for round-trip
// testing.
func richDocument() *Document {
	d := New("rich")
	d.Origin = &DocumentOrigin{
		MimeType:   "application/pdf",
		BinaryHash: 0xdeadbeef,
		Filename:   "rich.pdf",
	}
	d.AddPage(1, Size{Width: 612, Height: 792}, nil)

	d.AddTitle("Report")
	chapter := d.AddGroup(GroupChapter, WithName("intro"))
	d.AddHeading("Background", 1, WithParent(chapter))
	d.AddText(LabelParagraph, "Some prose.", WithParent(chapter),
		WithProv(ProvenanceItem{PageNo: 1}))
	d.AddText(LabelPageHeader, "Running head", WithContentLayer(LayerFurniture))

	list := d.AddListGroup()
	d.AddListItem("first", WithParent(list))
	d.AddListItem("second", WithParent(list), WithMarker("2."), Enumerated())

	caption := d.AddText(LabelCaption, "Table 1")
	tbl := d.AddTable(NewTableData(2), WithCaption(caption))
	_ = tbl.Data.AddRows([][]string{{"k", "v"}, {"a", "1"}})

	d.AddPicture()

	graph := GraphData{
		Cells: []GraphCell{
			{Label: GraphCellKey, CellID: 0, Text: "Name"},
			{Label: GraphCellValue, CellID: 1, Text: "Ada"},
		},
		Links: []GraphLink{
			{Label: GraphLinkToValue, SourceCellID: 0, TargetCellID: 1},
			{Label: GraphLinkToKey, SourceCellID: 1, TargetCellID: 0},
		},
	}
	d.AddKeyValues(graph)
	return d
}

// dtoJSON renders a document's wire form for structural comparison.
func dtoJSON(t *testing.T, d *Document) string {
	t.Helper()
	dto := d.toDTO()
	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshaling DTO: %v", err)
	}
	return string(data)
}

// ============================================================================
// Round-Trip Tests
// ============================================================================

func TestJSONRoundTrip(t *testing.T) {
	d := richDocument()

	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	loaded, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if got, want := dtoJSON(t, loaded), dtoJSON(t, d); got != want {
		t.Errorf("round trip not isomorphic\n got: %s\nwant: %s", got, want)
	}
	if !loaded.ValidateTree(loaded.Body) {
		t.Error("loaded tree inconsistent")
	}
	if err := loaded.ValidateRules(); err != nil {
		t.Errorf("loaded document invalid: %v", err)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	d := richDocument()

	var buf bytes.Buffer
	if err := d.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	loaded, err := ReadYAML(&buf)
	if err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}

	if got, want := dtoJSON(t, loaded), dtoJSON(t, d); got != want {
		t.Errorf("round trip not isomorphic\n got: %s\nwant: %s", got, want)
	}
}

func TestJSONWireFormat(t *testing.T) {
	d := New("wire")
	d.AddText(LabelParagraph, "hello")

	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"schema_name": "DoctreeDocument"`,
		`"version": "1.5.0"`,
		`"self_ref": "#/body"`,
		`"self_ref": "#/texts/0"`,
		`"$ref": "#/texts/0"`,
		`"$ref": "#/body"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestLoadHealsListItems(t *testing.T) {
	d := New("test")
	li := &TextItem{Label: LabelListItem, Text: "loose", Marker: "-"}
	if err := d.AppendChildItem(li, nil); err != nil {
		t.Fatalf("AppendChildItem() error = %v", err)
	}
	if err := d.ValidateRules(); err == nil {
		t.Fatal("fixture is unexpectedly valid")
	}

	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	loaded, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if err := loaded.ValidateRules(); err != nil {
		t.Errorf("loaded document not healed: %v", err)
	}
	if len(loaded.Groups) != 1 || !loaded.Groups[0].IsListGroup() {
		t.Error("healing did not wrap the loose list item")
	}
}

func TestLoadDefaultsListMarker(t *testing.T) {
	d := New("test")
	list := d.AddListGroup()
	d.AddListItem("bullet", WithParent(list))

	dto := d.toDTO()
	dto.Texts[0].Marker = ""
	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	loaded, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got := loaded.Texts[0].Marker; got != "-" {
		t.Errorf("marker = %q, want default -", got)
	}
}

// ============================================================================
// Version Gate Tests
// ============================================================================

func readWithVersion(t *testing.T, version string) (*Document, error) {
	t.Helper()
	d := New("versioned")
	d.AddText(LabelParagraph, "content")
	dto := d.toDTO()
	dto.Version = version
	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	return ReadJSON(bytes.NewReader(data))
}

func TestVersionGate(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{"current version", "1.5.0", false},
		{"older minor", "1.2.0", false},
		{"newer patch tolerated", "1.5.9", false},
		{"newer minor", "1.6.0", true},
		{"older major", "0.9.0", true},
		{"newer major", "2.0.0", true},
		{"malformed", "1.5", true},
		{"garbage", "abc", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := readWithVersion(t, tt.version)
			if tt.wantErr {
				if !errors.Is(err, ErrIncompatibleVersion) {
					t.Errorf("error = %v, want ErrIncompatibleVersion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadJSON() error = %v", err)
			}
			if loaded.Version != CurrentVersion {
				t.Errorf("Version = %q, want normalized %q", loaded.Version, CurrentVersion)
			}
		})
	}
}

func TestSchemaNameMismatch(t *testing.T) {
	d := New("test")
	dto := d.toDTO()
	dto.SchemaName = "SomethingElse"
	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	if _, err := ReadJSON(bytes.NewReader(data)); !errors.Is(err, ErrIncompatibleVersion) {
		t.Errorf("error = %v, want ErrIncompatibleVersion", err)
	}
}

// ============================================================================
// File Save/Load Tests
// ============================================================================

func TestSaveLoadByExtension(t *testing.T) {
	d := richDocument()
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "doc.json")
		if err := d.Save(path); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading back: %v", err)
		}
		if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			t.Error("json save did not produce JSON")
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got, want := dtoJSON(t, loaded), dtoJSON(t, d); got != want {
			t.Error("json file round trip not isomorphic")
		}
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "doc.yaml")
		if err := d.Save(path); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading back: %v", err)
		}
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			t.Error("yaml save produced JSON")
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got, want := dtoJSON(t, loaded), dtoJSON(t, d); got != want {
			t.Error("yaml file round trip not isomorphic")
		}
	})

	t.Run("unknown extension sniffs content", func(t *testing.T) {
		path := filepath.Join(dir, "doc.bin")
		if err := d.SaveAsJSON(path); err != nil {
			t.Fatalf("SaveAsJSON() error = %v", err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded.Name != d.Name {
			t.Errorf("Name = %q, want %q", loaded.Name, d.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
			t.Error("Load() on a missing file succeeded")
		}
	})
}
