package doc

import (
	"errors"
	"strings"
	"testing"
)

// ============================================================================
// Row Editing Tests
// ============================================================================

func TestAddRow(t *testing.T) {
	t.Run("fresh table adopts column count", func(t *testing.T) {
		data := NewTableData(0)
		if err := data.AddRow([]string{"a", "b", "c"}); err != nil {
			t.Fatalf("AddRow() error = %v", err)
		}
		if data.NumCols != 3 {
			t.Errorf("NumCols = %d, want 3", data.NumCols)
		}
		if data.NumRows != 1 {
			t.Errorf("NumRows = %d, want 1", data.NumRows)
		}
	})

	t.Run("mismatched width rejected", func(t *testing.T) {
		data := NewTableData(2)
		if err := data.AddRow([]string{"only one"}); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})
}

func TestAddRows(t *testing.T) {
	data := NewTableData(2)
	rows := [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}
	if err := data.AddRows(rows); err != nil {
		t.Fatalf("AddRows() error = %v", err)
	}
	if data.NumRows != 3 {
		t.Fatalf("NumRows = %d, want 3", data.NumRows)
	}
	grid := data.Grid()
	for i, row := range rows {
		for j, want := range row {
			if grid[i][j].Text != want {
				t.Errorf("grid[%d][%d] = %q, want %q", i, j, grid[i][j].Text, want)
			}
		}
	}
}

func TestInsertRow(t *testing.T) {
	newData := func() TableData {
		data := NewTableData(1)
		_ = data.AddRows([][]string{{"top"}, {"bottom"}})
		return data
	}

	t.Run("before", func(t *testing.T) {
		data := newData()
		if err := data.InsertRow(1, []string{"middle"}, false); err != nil {
			t.Fatalf("InsertRow() error = %v", err)
		}
		grid := data.Grid()
		got := []string{grid[0][0].Text, grid[1][0].Text, grid[2][0].Text}
		want := []string{"top", "middle", "bottom"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("rows = %v, want %v", got, want)
			}
		}
	})

	t.Run("after", func(t *testing.T) {
		data := newData()
		if err := data.InsertRow(0, []string{"middle"}, true); err != nil {
			t.Fatalf("InsertRow() error = %v", err)
		}
		grid := data.Grid()
		if grid[1][0].Text != "middle" {
			t.Errorf("grid[1][0] = %q, want middle", grid[1][0].Text)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		data := newData()
		if err := data.InsertRow(5, []string{"x"}, false); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
		if err := data.InsertRow(-2, []string{"x"}, false); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})
}

func TestInsertRowsPreservesOrder(t *testing.T) {
	data := NewTableData(1)
	_ = data.AddRow([]string{"anchor"})
	if err := data.InsertRows(0, [][]string{{"one"}, {"two"}}, true); err != nil {
		t.Fatalf("InsertRows() error = %v", err)
	}
	grid := data.Grid()
	got := []string{grid[0][0].Text, grid[1][0].Text, grid[2][0].Text}
	want := []string{"anchor", "one", "two"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
}

func TestRemoveRow(t *testing.T) {
	data := NewTableData(2)
	_ = data.AddRows([][]string{{"a", "b"}, {"c", "d"}})

	removed, err := data.RemoveRow(0, nil)
	if err != nil {
		t.Fatalf("RemoveRow() error = %v", err)
	}
	if len(removed) != 2 || removed[0].Text != "a" {
		t.Errorf("removed = %+v", removed)
	}
	if data.NumRows != 1 {
		t.Errorf("NumRows = %d, want 1", data.NumRows)
	}
	// survivors renumbered to row 0
	for _, cell := range data.TableCells {
		if cell.StartRowOffsetIdx != 0 || cell.EndRowOffsetIdx != 1 {
			t.Errorf("cell offsets = [%d, %d), want [0, 1)",
				cell.StartRowOffsetIdx, cell.EndRowOffsetIdx)
		}
	}
}

func TestRemoveRowsRichCells(t *testing.T) {
	d := New("test")
	tbl := d.AddTable(NewTableData(1))
	content := d.AddText(LabelParagraph, "inside cell", WithParent(tbl))
	cell := NewTableCell("", 0, 0)
	cell.Ref = content.GetRef()
	tbl.Data.TableCells = append(tbl.Data.TableCells, cell)
	tbl.Data.NumRows = 1

	t.Run("nil document rejected", func(t *testing.T) {
		cp := tbl.Data.clone()
		if _, err := cp.RemoveRows([]int{0}, nil); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})

	t.Run("content subtree deleted", func(t *testing.T) {
		if _, err := tbl.Data.RemoveRows([]int{0}, d); err != nil {
			t.Fatalf("RemoveRows() error = %v", err)
		}
		if len(d.Texts) != 0 {
			t.Errorf("texts = %d, want 0 (rich content deleted)", len(d.Texts))
		}
		if !d.ValidateTree(d.Body) {
			t.Error("tree inconsistent after rich row removal")
		}
	})
}

func TestPopRow(t *testing.T) {
	data := NewTableData(1)
	_ = data.AddRows([][]string{{"keep"}, {"pop"}})

	removed, err := data.PopRow(nil)
	if err != nil {
		t.Fatalf("PopRow() error = %v", err)
	}
	if removed[0].Text != "pop" {
		t.Errorf("popped = %q, want pop", removed[0].Text)
	}
	if data.NumRows != 1 {
		t.Errorf("NumRows = %d, want 1", data.NumRows)
	}

	_, _ = data.PopRow(nil)
	if _, err := data.PopRow(nil); !errors.Is(err, ErrStructure) {
		t.Errorf("pop on empty table error = %v, want ErrStructure", err)
	}
}

// ============================================================================
// Grid and Export Tests
// ============================================================================

func TestGridSpans(t *testing.T) {
	data := TableData{NumRows: 2, NumCols: 2}
	span := &TableCell{
		RowSpan: 2, ColSpan: 1,
		StartRowOffsetIdx: 0, EndRowOffsetIdx: 2,
		StartColOffsetIdx: 0, EndColOffsetIdx: 1,
		Text: "tall",
	}
	data.TableCells = append(data.TableCells, span)

	grid := data.Grid()
	if grid[0][0] != span || grid[1][0] != span {
		t.Error("spanning cell not shared across covered positions")
	}
	if grid[0][1] == grid[1][1] {
		t.Error("filler cells must be distinct")
	}
	if grid[0][1].Text != "" {
		t.Errorf("filler text = %q, want empty", grid[0][1].Text)
	}
}

func TestExportToMarkdown(t *testing.T) {
	data := NewTableData(2)
	_ = data.AddRows([][]string{{"Name", "Age"}, {"Ada", "36"}})

	md := data.ExportToMarkdown(nil)
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("markdown has %d lines, want 3:\n%s", len(lines), md)
	}
	if lines[0] != "| Name | Age |" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "|---|---|" {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[2] != "| Ada | 36 |" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestExportToMarkdownRichCell(t *testing.T) {
	d := New("test")
	tbl := d.AddTable(NewTableData(1))
	content := d.AddText(LabelParagraph, "rich text", WithParent(tbl))
	cell := NewTableCell("", 0, 0)
	cell.Ref = content.GetRef()
	tbl.Data.TableCells = append(tbl.Data.TableCells, cell)
	tbl.Data.NumRows = 1

	md := tbl.Data.ExportToMarkdown(d)
	if !strings.Contains(md, "rich text") {
		t.Errorf("markdown missing rich cell content:\n%s", md)
	}

	noDoc := tbl.Data.ExportToMarkdown(nil)
	if !strings.Contains(noDoc, "<!-- rich cell -->") {
		t.Errorf("markdown without document = %q", noDoc)
	}
}

func TestExportToMarkdownEmpty(t *testing.T) {
	data := NewTableData(3)
	if md := data.ExportToMarkdown(nil); md != "" {
		t.Errorf("empty table markdown = %q, want empty", md)
	}
}
