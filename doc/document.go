package doc

import (
	"fmt"
	"slices"
)

const (
	// SchemaName identifies the persisted document schema.
	SchemaName = "DoctreeDocument"
	// CurrentVersion is the schema version written by this library. Loading
	// accepts documents with the same major version and a minor version not
	// exceeding this one.
	CurrentVersion = "1.5.0"
)

// PageItem is one entry of the document's page registry.
type PageItem struct {
	Size   Size
	Image  *ImageRef
	PageNo int
}

// Document is the aggregate root of the model: it owns the six flat item
// collections, the body root group, the page registry and the public
// mutation and navigation API.
//
// A Document is a single mutable aggregate with no internal locking. Callers
// must not mutate it from multiple goroutines, and at most one mutation may
// be in flight at a time; a failed insertion rolls back by popping the most
// recently appended collection entry.
type Document struct {
	Version string
	Name    string
	Origin  *DocumentOrigin

	// Body is the root group. Its children span the document reading order.
	Body *GroupItem

	Groups        []*GroupItem
	Texts         []*TextItem
	Pictures      []*PictureItem
	Tables        []*TableItem
	KeyValueItems []*KeyValueItem
	FormItems     []*FormItem

	Pages map[int]*PageItem
}

// New creates an empty document with a fresh body root. Every document gets
// its own body instance; nothing is shared between documents.
func New(name string) *Document {
	return &Document{
		Version: CurrentVersion,
		Name:    name,
		Body: &GroupItem{
			NodeItem: NodeItem{SelfRef: BodyRef(), ContentLayer: LayerBody},
			Name:     "_root_",
			Label:    GroupUnspecified,
		},
		Pages: make(map[int]*PageItem),
	}
}

// AddPage registers a page in the page registry, replacing any existing
// entry with the same number.
func (d *Document) AddPage(pageNo int, size Size, image *ImageRef) *PageItem {
	if d.Pages == nil {
		d.Pages = make(map[int]*PageItem)
	}
	p := &PageItem{Size: size, Image: image, PageNo: pageNo}
	d.Pages[pageNo] = p
	return p
}

// NumPages returns the number of registered pages.
func (d *Document) NumPages() int {
	return len(d.Pages)
}

// PageNumbers returns the registered page numbers in ascending order.
func (d *Document) PageNumbers() []int {
	nos := make([]int, 0, len(d.Pages))
	for no := range d.Pages {
		nos = append(nos, no)
	}
	slices.Sort(nos)
	return nos
}

// AddTableCell appends a cell to a table, enforcing that a rich cell's
// content node is parented by that table.
func (d *Document) AddTableCell(table *TableItem, cell *TableCell) error {
	if cell.IsRich() {
		it, err := cell.Ref.Resolve(d)
		if err != nil {
			return err
		}
		if it.node().Parent != table.GetRef() {
			return fmt.Errorf("rich cell content %s is not parented by table %s: %w",
				cell.Ref, table.GetRef(), ErrStructure)
		}
	}
	table.Data.TableCells = append(table.Data.TableCells, cell)
	return nil
}

// appendItem appends an item to the flat collection of its type, assigning
// its self reference from the new slot and pointing its parent link at
// parentRef. Tree children lists are not touched.
func (d *Document) appendItem(it Item, parentRef Ref) (Ref, error) {
	var ref Ref
	switch v := it.(type) {
	case *TextItem:
		ref = Ref{Collection: ColTexts, Index: len(d.Texts)}
		d.Texts = append(d.Texts, v)
	case *TableItem:
		ref = Ref{Collection: ColTables, Index: len(d.Tables)}
		d.Tables = append(d.Tables, v)
	case *PictureItem:
		ref = Ref{Collection: ColPictures, Index: len(d.Pictures)}
		d.Pictures = append(d.Pictures, v)
	case *KeyValueItem:
		ref = Ref{Collection: ColKeyValueItems, Index: len(d.KeyValueItems)}
		d.KeyValueItems = append(d.KeyValueItems, v)
	case *FormItem:
		ref = Ref{Collection: ColFormItems, Index: len(d.FormItems)}
		d.FormItems = append(d.FormItems, v)
	case *GroupItem:
		ref = Ref{Collection: ColGroups, Index: len(d.Groups)}
		d.Groups = append(d.Groups, v)
	default:
		return Ref{}, fmt.Errorf("item type %T is not supported for insertion: %w", it, ErrStructure)
	}
	base := it.node()
	base.SelfRef = ref
	base.Parent = parentRef
	return ref, nil
}

// popItem removes an item from its collection. Only the most recently
// appended element of a collection can be popped; this guarantees a failed
// two-step insertion can always roll back without leaving holes.
func (d *Document) popItem(it Item) error {
	ref := it.GetRef()
	var length int
	switch ref.Collection {
	case ColTexts:
		length = len(d.Texts)
	case ColTables:
		length = len(d.Tables)
	case ColPictures:
		length = len(d.Pictures)
	case ColKeyValueItems:
		length = len(d.KeyValueItems)
	case ColFormItems:
		length = len(d.FormItems)
	case ColGroups:
		length = len(d.Groups)
	default:
		return fmt.Errorf("cannot pop item with ref %q: %w", ref, ErrStructure)
	}
	if ref.Index+1 != length {
		return fmt.Errorf("failed to pop: item %q is not last (len %d): %w", ref, length, ErrStructure)
	}
	switch ref.Collection {
	case ColTexts:
		d.Texts = d.Texts[:length-1]
	case ColTables:
		d.Tables = d.Tables[:length-1]
	case ColPictures:
		d.Pictures = d.Pictures[:length-1]
	case ColKeyValueItems:
		d.KeyValueItems = d.KeyValueItems[:length-1]
	case ColFormItems:
		d.FormItems = d.FormItems[:length-1]
	case ColGroups:
		d.Groups = d.Groups[:length-1]
	}
	return nil
}
