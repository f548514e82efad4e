package doc

import "fmt"

// GraphCellLabel tags the role of a cell in a key-value graph.
type GraphCellLabel string

const (
	GraphCellKey         GraphCellLabel = "key"
	GraphCellValue       GraphCellLabel = "value"
	GraphCellUnspecified GraphCellLabel = "unspecified"
)

// GraphLinkLabel tags the direction of a key-value graph link.
type GraphLinkLabel string

const (
	GraphLinkToValue  GraphLinkLabel = "to_value"
	GraphLinkToKey    GraphLinkLabel = "to_key"
	GraphLinkToParent GraphLinkLabel = "to_parent"
	GraphLinkToChild  GraphLinkLabel = "to_child"
)

// GraphCell is one node of a key-value graph.
type GraphCell struct {
	Label  GraphCellLabel
	CellID int
	Text   string
	Orig   string
	Prov   *ProvenanceItem
	// ItemRef optionally points at a document node backing this cell.
	ItemRef Ref
}

// GraphLink connects two graph cells by id.
type GraphLink struct {
	Label        GraphLinkLabel
	SourceCellID int
	TargetCellID int
}

// GraphData is the cell/link graph carried by key-value and form items.
type GraphData struct {
	Cells []GraphCell
	Links []GraphLink
}

func (g *GraphData) clone() GraphData {
	cp := GraphData{}
	if g.Cells != nil {
		cp.Cells = make([]GraphCell, len(g.Cells))
		copy(cp.Cells, g.Cells)
		for i := range cp.Cells {
			if cp.Cells[i].Prov != nil {
				p := *cp.Cells[i].Prov
				cp.Cells[i].Prov = &p
			}
		}
	}
	if g.Links != nil {
		cp.Links = make([]GraphLink, len(g.Links))
		copy(cp.Links, g.Links)
	}
	return cp
}

// Validate checks that every link endpoint names an existing cell.
func (g *GraphData) Validate() error {
	ids := make(map[int]bool, len(g.Cells))
	for _, c := range g.Cells {
		ids[c.CellID] = true
	}
	for _, l := range g.Links {
		if !ids[l.SourceCellID] {
			return fmt.Errorf("graph link source cell %d does not exist: %w", l.SourceCellID, ErrStructure)
		}
		if !ids[l.TargetCellID] {
			return fmt.Errorf("graph link target cell %d does not exist: %w", l.TargetCellID, ErrStructure)
		}
	}
	return nil
}
