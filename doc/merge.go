package doc

import (
	"fmt"
	"strings"
)

// docIndex is a merge buffer. Feeding it documents re-registers every
// reachable item in traversal order with fresh references and offsets page
// numbers so page ranges follow each other instead of colliding.
type docIndex struct {
	groups        []*GroupItem
	texts         []*TextItem
	pictures      []*PictureItem
	tables        []*TableItem
	keyValueItems []*KeyValueItem
	formItems     []*FormItem

	pages map[int]*PageItem

	body    *GroupItem
	maxPage int
	names   []string
}

func newDocIndex() *docIndex {
	return &docIndex{pages: make(map[int]*PageItem)}
}

func (ix *docIndex) nextRef(col Collection) Ref {
	var n int
	switch col {
	case ColGroups:
		n = len(ix.groups)
	case ColTexts:
		n = len(ix.texts)
	case ColPictures:
		n = len(ix.pictures)
	case ColTables:
		n = len(ix.tables)
	case ColKeyValueItems:
		n = len(ix.keyValueItems)
	case ColFormItems:
		n = len(ix.formItems)
	}
	return Ref{Collection: col, Index: n}
}

func (ix *docIndex) add(it Item) {
	switch v := it.(type) {
	case *GroupItem:
		ix.groups = append(ix.groups, v)
	case *TextItem:
		ix.texts = append(ix.texts, v)
	case *PictureItem:
		ix.pictures = append(ix.pictures, v)
	case *TableItem:
		ix.tables = append(ix.tables, v)
	case *KeyValueItem:
		ix.keyValueItems = append(ix.keyValueItems, v)
	case *FormItem:
		ix.formItems = append(ix.formItems, v)
	}
}

func (ix *docIndex) itemAt(r Ref) Item {
	switch r.Collection {
	case ColBody:
		return ix.body
	case ColGroups:
		return ix.groups[r.Index]
	case ColTexts:
		return ix.texts[r.Index]
	case ColPictures:
		return ix.pictures[r.Index]
	case ColTables:
		return ix.tables[r.Index]
	case ColKeyValueItems:
		return ix.keyValueItems[r.Index]
	case ColFormItems:
		return ix.formItems[r.Index]
	}
	return nil
}

// index replays src into the buffer. Items are deep-copied in traversal
// order, re-linked under their copied parents and renumbered; page numbers
// and provenance pages are shifted past the highest page seen so far.
func (ix *docIndex) index(src *Document) error {
	pageDelta := 0
	if len(src.Pages) > 0 {
		minPage := 0
		first := true
		for no := range src.Pages {
			if first || no < minPage {
				minPage = no
				first = false
			}
		}
		pageDelta = ix.maxPage - minPage + 1
	}

	if ix.body == nil {
		body := *src.Body
		body.Children = nil
		ix.body = &body
	}
	ix.names = append(ix.names, src.Name)

	o := iterateOptions{root: src.Body, withGroups: true, traversePictures: true, layers: allLayers()}
	var items []Item
	src.iterateStack(&o, func(it Item, _ []int) bool {
		items = append(items, it)
		return true
	})

	refMap := make(map[Ref]Ref, len(items))
	var copies []Item

	for _, it := range items {
		oldRef := it.GetRef()
		if oldRef == BodyRef() {
			refMap[oldRef] = BodyRef()
			continue
		}

		newRef := ix.nextRef(oldRef.Collection)
		refMap[oldRef] = newRef

		cp := copyItem(it)
		if cp == nil {
			return fmt.Errorf("item %s is not supported for concatenation: %w", oldRef, ErrStructure)
		}
		node := cp.node()
		node.SelfRef = newRef
		node.Children = nil
		shiftProvPages(cp, pageDelta)
		ix.add(cp)
		copies = append(copies, cp)

		// The parent has already been copied (traversal order), so the
		// copy can be linked under it right away.
		newParentRef, ok := refMap[node.Parent]
		if !ok {
			return fmt.Errorf("parent %s of %s was not visited before its child: %w",
				node.Parent, oldRef, ErrUnreachable)
		}
		node.Parent = newParentRef
		parent := ix.itemAt(newParentRef)
		parent.node().Children = append(parent.node().Children, newRef)
	}

	// Non-tree references between the copied items follow the copies.
	// References that resolve to nothing in src stay as they were.
	retarget := func(refs []Ref) {
		for i, r := range refs {
			if nr, ok := refMap[r]; ok {
				refs[i] = nr
			}
		}
	}
	for _, cp := range copies {
		if f := floatingOf(cp); f != nil {
			retarget(f.Captions)
			retarget(f.References)
			retarget(f.Footnotes)
		}
		switch v := cp.(type) {
		case *TableItem:
			for _, cell := range v.Data.TableCells {
				if cell.IsRich() {
					if nr, ok := refMap[cell.Ref]; ok {
						cell.Ref = nr
					}
				}
			}
		case *KeyValueItem:
			retargetGraph(&v.Graph, refMap)
		case *FormItem:
			retargetGraph(&v.Graph, refMap)
		}
	}

	for no, page := range src.Pages {
		cp := *page
		cp.PageNo = no + pageDelta
		if cp.Image != nil {
			img := *page.Image
			cp.Image = &img
		}
		ix.pages[cp.PageNo] = &cp
		if cp.PageNo > ix.maxPage {
			ix.maxPage = cp.PageNo
		}
	}
	return nil
}

func retargetGraph(g *GraphData, refMap map[Ref]Ref) {
	for i := range g.Cells {
		if nr, ok := refMap[g.Cells[i].ItemRef]; ok {
			g.Cells[i].ItemRef = nr
		}
	}
}

func shiftProvPages(it Item, delta int) {
	if delta == 0 {
		return
	}
	prov := provOf(it)
	for i := range prov {
		prov[i].PageNo += delta
	}
}

func (ix *docIndex) apply(d *Document) {
	if ix.body != nil {
		d.Body = ix.body
	}
	d.Groups = ix.groups
	d.Texts = ix.texts
	d.Pictures = ix.pictures
	d.Tables = ix.tables
	d.KeyValueItems = ix.keyValueItems
	d.FormItems = ix.formItems
	d.Pages = ix.pages
	d.Name = strings.Join(ix.names, " + ")
}

// Concatenate merges the documents into a single new document. Items keep
// their traversal order per document; pages and provenance page numbers of
// each document are renumbered to continue after the previous document's
// last page.
func Concatenate(docs ...*Document) (*Document, error) {
	ix := newDocIndex()
	for _, d := range docs {
		if err := ix.index(d); err != nil {
			return nil, err
		}
	}
	out := New("")
	ix.apply(out)
	return out, nil
}
