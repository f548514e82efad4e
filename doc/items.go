package doc

// GroupItem is a container node. It has no content of its own; its role is
// given by its label (plain group, list group, inline group, ...).
type GroupItem struct {
	NodeItem
	Name  string
	Label GroupLabel
}

// IsListGroup reports whether the group is a list container. List items may
// only live under list groups.
func (g *GroupItem) IsListGroup() bool {
	return g.Label == GroupList
}

// FirstItemIsEnumerated reports whether the group's first child is an
// enumerated list item.
func (g *GroupItem) FirstItemIsEnumerated(d *Document) bool {
	if len(g.Children) == 0 {
		return false
	}
	child, err := g.Children[0].Resolve(d)
	if err != nil {
		return false
	}
	t, ok := child.(*TextItem)
	return ok && t.IsListItem() && t.Enumerated
}

// TextItem is a leaf content node of the text family. The Label tag selects
// the variant: title, section header (Level), list item (Marker/Enumerated),
// code (CodeLanguage), formula, or plain text.
type TextItem struct {
	NodeItem
	Label DocItemLabel
	Prov  []ProvenanceItem
	// Orig is the untreated representation of the text as extracted from the
	// source; Text is the sanitized form.
	Orig string
	Text string

	// Level applies to section headers (1 = top level).
	Level int
	// Enumerated and Marker apply to list items.
	Enumerated bool
	Marker     string
	// CodeLanguage applies to code items.
	CodeLanguage CodeLanguageLabel

	Formatting *Formatting
	Hyperlink  string
}

// IsListItem reports whether the text item is a list item.
func (t *TextItem) IsListItem() bool {
	return t.Label == LabelListItem
}

// FloatingItem holds the fields shared by the floating content nodes
// (pictures, tables, key-value regions, forms): caption, cross-reference and
// footnote reference lists, plus an optional embedded image.
type FloatingItem struct {
	NodeItem
	Label DocItemLabel
	Prov  []ProvenanceItem

	Captions   []Ref
	References []Ref
	Footnotes  []Ref
	Image      *ImageRef
}

// CaptionText concatenates the text of all caption items.
func (f *FloatingItem) CaptionText(d *Document) string {
	var text string
	for _, cap := range f.Captions {
		it, err := cap.Resolve(d)
		if err != nil {
			continue
		}
		if t, ok := it.(*TextItem); ok {
			text += t.Text
		}
	}
	return text
}

// PictureItem is a floating picture node. Its children are typically its
// caption items; other children exist structurally but are hidden from
// default traversal.
type PictureItem struct {
	FloatingItem
}

// TableItem is a floating table node owning a grid of cells.
type TableItem struct {
	FloatingItem
	Data TableData
}

// KeyValueItem is a floating key-value region backed by a cell/link graph.
type KeyValueItem struct {
	FloatingItem
	Graph GraphData
}

// FormItem is a floating form region backed by a cell/link graph.
type FormItem struct {
	FloatingItem
	Graph GraphData
}

// floatingOf returns the shared floating fields of it, or nil when it is not
// a floating item.
func floatingOf(it Item) *FloatingItem {
	switch v := it.(type) {
	case *PictureItem:
		return &v.FloatingItem
	case *TableItem:
		return &v.FloatingItem
	case *KeyValueItem:
		return &v.FloatingItem
	case *FormItem:
		return &v.FloatingItem
	default:
		return nil
	}
}

// provOf returns the provenance entries of a content item, or nil for
// groups.
func provOf(it Item) []ProvenanceItem {
	switch v := it.(type) {
	case *TextItem:
		return v.Prov
	case *PictureItem:
		return v.Prov
	case *TableItem:
		return v.Prov
	case *KeyValueItem:
		return v.Prov
	case *FormItem:
		return v.Prov
	default:
		return nil
	}
}

// collectionFor returns the flat collection an item belongs to. The body
// group maps to ColBody.
func collectionFor(it Item) Collection {
	switch it.(type) {
	case *GroupItem:
		if it.GetRef().Collection == ColBody {
			return ColBody
		}
		return ColGroups
	case *TextItem:
		return ColTexts
	case *PictureItem:
		return ColPictures
	case *TableItem:
		return ColTables
	case *KeyValueItem:
		return ColKeyValueItems
	case *FormItem:
		return ColFormItems
	default:
		return colInvalid
	}
}

// copyItem returns a deep copy of an item. Reference slices, provenance and
// payload data are cloned; the copy is detached from any document until it is
// appended to one.
func copyItem(it Item) Item {
	switch v := it.(type) {
	case *GroupItem:
		cp := *v
		cp.Children = copyRefs(v.Children)
		return &cp
	case *TextItem:
		cp := *v
		cp.Children = copyRefs(v.Children)
		cp.Prov = copyProv(v.Prov)
		if v.Formatting != nil {
			f := *v.Formatting
			cp.Formatting = &f
		}
		return &cp
	case *PictureItem:
		cp := *v
		cp.FloatingItem = copyFloating(v.FloatingItem)
		return &cp
	case *TableItem:
		cp := *v
		cp.FloatingItem = copyFloating(v.FloatingItem)
		cp.Data = v.Data.clone()
		return &cp
	case *KeyValueItem:
		cp := *v
		cp.FloatingItem = copyFloating(v.FloatingItem)
		cp.Graph = v.Graph.clone()
		return &cp
	case *FormItem:
		cp := *v
		cp.FloatingItem = copyFloating(v.FloatingItem)
		cp.Graph = v.Graph.clone()
		return &cp
	default:
		return nil
	}
}

func copyFloating(f FloatingItem) FloatingItem {
	cp := f
	cp.Children = copyRefs(f.Children)
	cp.Prov = copyProv(f.Prov)
	cp.Captions = copyRefs(f.Captions)
	cp.References = copyRefs(f.References)
	cp.Footnotes = copyRefs(f.Footnotes)
	if f.Image != nil {
		img := *f.Image
		cp.Image = &img
	}
	return cp
}

func copyRefs(refs []Ref) []Ref {
	if refs == nil {
		return nil
	}
	out := make([]Ref, len(refs))
	copy(out, refs)
	return out
}

func copyProv(prov []ProvenanceItem) []ProvenanceItem {
	if prov == nil {
		return nil
	}
	out := make([]ProvenanceItem, len(prov))
	copy(out, prov)
	return out
}
