package doc

import (
	"fmt"
	"slices"
	"strings"
)

// TableCell is a single table cell addressed by half-open row/column offset
// ranges, supporting row and column spans. A cell whose Ref is set is a
// "rich" cell: its content is another document node whose parent must be the
// owning table.
type TableCell struct {
	BBox              *BoundingBox
	RowSpan           int
	ColSpan           int
	StartRowOffsetIdx int
	EndRowOffsetIdx   int
	StartColOffsetIdx int
	EndColOffsetIdx   int
	Text              string
	ColumnHeader      bool
	RowHeader         bool
	RowSection        bool

	// Ref points at the rich-cell content node; zero for plain cells.
	Ref Ref
}

// NewTableCell creates a plain 1x1 cell at the given row/column offset.
func NewTableCell(text string, row, col int) *TableCell {
	return &TableCell{
		RowSpan:           1,
		ColSpan:           1,
		StartRowOffsetIdx: row,
		EndRowOffsetIdx:   row + 1,
		StartColOffsetIdx: col,
		EndColOffsetIdx:   col + 1,
		Text:              text,
	}
}

// IsRich reports whether the cell's content is a reference to another node.
func (c *TableCell) IsRich() bool {
	return !c.Ref.IsZero()
}

// TableData owns the cells of a table. Cells are kept in a flat list; the
// Grid view materializes them into a dense num_rows x num_cols matrix where
// spanning cells appear in every position they cover.
type TableData struct {
	TableCells []*TableCell
	NumRows    int
	NumCols    int
}

// NewTableData creates an empty table with the given column count. Rows are
// added with [TableData.AddRow].
func NewTableData(numCols int) TableData {
	return TableData{NumCols: numCols}
}

func (t *TableData) clone() TableData {
	cp := TableData{NumRows: t.NumRows, NumCols: t.NumCols}
	if t.TableCells != nil {
		cp.TableCells = make([]*TableCell, len(t.TableCells))
		for i, c := range t.TableCells {
			cc := *c
			if c.BBox != nil {
				bb := *c.BBox
				cc.BBox = &bb
			}
			cp.TableCells[i] = &cc
		}
	}
	return cp
}

// Grid returns the dense cell matrix. Positions not covered by any stored
// cell are filled with fresh empty cells; positions covered by a spanning
// cell all share that cell.
func (t *TableData) Grid() [][]*TableCell {
	grid := make([][]*TableCell, t.NumRows)
	for i := range grid {
		grid[i] = make([]*TableCell, t.NumCols)
		for j := range grid[i] {
			grid[i][j] = NewTableCell("", i, j)
		}
	}
	for _, cell := range t.TableCells {
		for i := cell.StartRowOffsetIdx; i < cell.EndRowOffsetIdx && i < t.NumRows; i++ {
			for j := cell.StartColOffsetIdx; j < cell.EndColOffsetIdx && j < t.NumCols; j++ {
				if i >= 0 && j >= 0 {
					grid[i][j] = cell
				}
			}
		}
	}
	return grid
}

// AddRow appends a row of plain cells. On a fresh table the row fixes the
// column count.
func (t *TableData) AddRow(row []string) error {
	if t.NumRows == 0 && t.NumCols == 0 {
		t.NumCols = len(row)
	}
	return t.InsertRow(t.NumRows-1, row, true)
}

// AddRows appends multiple rows of plain cells.
func (t *TableData) AddRows(rows [][]string) error {
	for _, row := range rows {
		if err := t.AddRow(row); err != nil {
			return err
		}
	}
	return nil
}

// InsertRow splices a new row of plain cells before (after=false) or after
// (after=true) the given row index.
func (t *TableData) InsertRow(rowIndex int, row []string, after bool) error {
	if len(row) != t.NumCols {
		return fmt.Errorf("row length %d does not match the number of columns %d: %w", len(row), t.NumCols, ErrStructure)
	}
	effective := rowIndex
	if after {
		effective++
	}
	if effective < 0 || effective > t.NumRows {
		return fmt.Errorf("row index %d out of bounds for %d rows: %w", rowIndex, t.NumRows, ErrStructure)
	}

	newCells := make([]*TableCell, len(row))
	for j, text := range row {
		newCells[j] = NewTableCell(text, effective, j)
	}

	at := effective * t.NumCols
	cells := make([]*TableCell, 0, len(t.TableCells)+len(newCells))
	cells = append(cells, t.TableCells[:at]...)
	cells = append(cells, newCells...)
	cells = append(cells, t.TableCells[at:]...)
	t.TableCells = cells

	t.reassignRowOffsets()
	t.NumRows++
	return nil
}

// InsertRows splices multiple rows at the same index, preserving their
// order.
func (t *TableData) InsertRows(rowIndex int, rows [][]string, after bool) error {
	for i := len(rows) - 1; i >= 0; i-- {
		if err := t.InsertRow(rowIndex, rows[i], after); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRow removes the row at the given index and returns its cells. The
// document is required when the table has rich cells so their content
// subtrees can be deleted with full reference renumbering.
func (t *TableData) RemoveRow(rowIndex int, d *Document) ([]*TableCell, error) {
	rows, err := t.RemoveRows([]int{rowIndex}, d)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// RemoveRows removes the rows at the given indices and returns the removed
// rows in removal order (highest index first).
func (t *TableData) RemoveRows(indices []int, d *Document) ([][]*TableCell, error) {
	if len(indices) == 0 {
		return nil, nil
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	slices.SortFunc(sorted, func(a, b int) int { return b - a }) // descending

	var refsToRemove []Ref
	var allRemoved [][]*TableCell
	for _, rowIndex := range sorted {
		if rowIndex < 0 || rowIndex >= t.NumRows {
			return nil, fmt.Errorf("row index %d out of bounds for %d rows: %w", rowIndex, t.NumRows, ErrStructure)
		}

		start := rowIndex * t.NumCols
		end := start + t.NumCols
		removed := make([]*TableCell, end-start)
		copy(removed, t.TableCells[start:end])

		for _, cell := range removed {
			if cell.IsRich() {
				refsToRemove = append(refsToRemove, cell.Ref)
			}
		}

		t.TableCells = append(t.TableCells[:start], t.TableCells[end:]...)
		t.NumRows--
		t.reassignRowOffsets()

		allRemoved = append(allRemoved, removed)
	}

	if len(refsToRemove) > 0 {
		if d == nil {
			return nil, fmt.Errorf("removing rows with rich cells requires the owning document: %w", ErrStructure)
		}
		if err := d.deleteRefs(refsToRemove); err != nil {
			return nil, err
		}
	}

	return allRemoved, nil
}

// PopRow removes and returns the last row.
func (t *TableData) PopRow(d *Document) ([]*TableCell, error) {
	if t.NumRows == 0 {
		return nil, fmt.Errorf("cannot pop from an empty table: %w", ErrStructure)
	}
	return t.RemoveRow(t.NumRows-1, d)
}

// reassignRowOffsets rewrites the row offsets of every cell from its flat
// position. Only valid for tables whose cells are laid out densely row by
// row, which is what the row editing operations maintain.
func (t *TableData) reassignRowOffsets() {
	if t.NumCols == 0 {
		return
	}
	for index, cell := range t.TableCells {
		row := index / t.NumCols
		cell.StartRowOffsetIdx = row
		cell.EndRowOffsetIdx = row + 1
	}
}

// ExportToMarkdown renders the grid as a markdown table. The first row is
// used as the header row. Rich cells render as their referenced item's text
// when the owning document is given.
func (t *TableData) ExportToMarkdown(d *Document) string {
	if t.NumRows == 0 || t.NumCols == 0 {
		return ""
	}

	grid := t.Grid()
	var sb strings.Builder

	writeRow := func(row []*TableCell) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(t.cellText(cell, d), "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(grid[0])
	for range grid[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for i := 1; i < len(grid); i++ {
		writeRow(grid[i])
	}

	return sb.String()
}

func (t *TableData) cellText(cell *TableCell, d *Document) string {
	if !cell.IsRich() {
		return cell.Text
	}
	if d == nil {
		return "<!-- rich cell -->"
	}
	it, err := cell.Ref.Resolve(d)
	if err != nil {
		return "<!-- rich cell -->"
	}
	if txt, ok := it.(*TextItem); ok {
		return txt.Text
	}
	return "<!-- rich cell -->"
}
