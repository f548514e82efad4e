package doc

// Factory methods. Each appends a freshly constructed item to the flat
// collection of its type, computes its self reference from the new slot and
// links it under the requested parent (the body by default). The append path
// cannot fail for reachable parents, so factories return the new item
// directly.

func (d *Document) parentOrBody(o *itemOptions) Item {
	if o.parent != nil {
		return o.parent
	}
	return d.Body
}

// attach appends it to its collection and to parent's children.
func (d *Document) attach(it Item, parent Item) {
	ref, _ := d.appendItem(it, parent.GetRef())
	parent.node().Children = append(parent.node().Children, ref)
}

func newTextItem(label DocItemLabel, text string, o *itemOptions) *TextItem {
	t := &TextItem{
		NodeItem: NodeItem{ContentLayer: LayerBody},
		Label:    label,
		Text:     text,
		Orig:     text,
	}
	if o.orig != "" {
		t.Orig = o.orig
	}
	if o.layer != "" {
		t.ContentLayer = o.layer
	}
	if o.prov != nil {
		t.Prov = append(t.Prov, *o.prov)
	}
	t.Formatting = o.formatting
	t.Hyperlink = o.hyperlink
	return t
}

func newFloating(label DocItemLabel, o *itemOptions) FloatingItem {
	f := FloatingItem{
		NodeItem: NodeItem{ContentLayer: LayerBody},
		Label:    label,
	}
	if o.layer != "" {
		f.ContentLayer = o.layer
	}
	if o.prov != nil {
		f.Prov = append(f.Prov, *o.prov)
	}
	if o.caption != nil {
		f.Captions = append(f.Captions, o.caption.GetRef())
	}
	f.Image = o.image
	return f
}

func newGroup(label GroupLabel, o *itemOptions) *GroupItem {
	g := &GroupItem{
		NodeItem: NodeItem{ContentLayer: LayerBody},
		Name:     "group",
		Label:    label,
	}
	if o.layer != "" {
		g.ContentLayer = o.layer
	}
	if o.name != "" {
		g.Name = o.name
	}
	return g
}

// AddGroup creates a group item under the parent. List and inline labels are
// routed to their dedicated factories.
func (d *Document) AddGroup(label GroupLabel, opts ...ItemOption) *GroupItem {
	switch label {
	case GroupList:
		return d.AddListGroup(opts...)
	case GroupInline:
		return d.AddInlineGroup(opts...)
	}
	o := applyItemOptions(opts)
	g := newGroup(label, &o)
	d.attach(g, d.parentOrBody(&o))
	return g
}

// AddListGroup creates a list container group under the parent.
func (d *Document) AddListGroup(opts ...ItemOption) *GroupItem {
	o := applyItemOptions(opts)
	g := newGroup(GroupList, &o)
	d.attach(g, d.parentOrBody(&o))
	return g
}

// AddInlineGroup creates an inline container group under the parent.
func (d *Document) AddInlineGroup(opts ...ItemOption) *GroupItem {
	o := applyItemOptions(opts)
	g := newGroup(GroupInline, &o)
	d.attach(g, d.parentOrBody(&o))
	return g
}

// AddText creates a text item with the given label. Labels with dedicated
// factories (title, section header, list item, code, formula) are routed
// there so their variant fields get their defaults.
func (d *Document) AddText(label DocItemLabel, text string, opts ...ItemOption) *TextItem {
	switch label {
	case LabelTitle:
		return d.AddTitle(text, opts...)
	case LabelListItem:
		return d.AddListItem(text, opts...)
	case LabelSectionHeader:
		return d.AddHeading(text, 1, opts...)
	case LabelCode:
		return d.AddCode(text, opts...)
	case LabelFormula:
		return d.AddFormula(text, opts...)
	}
	o := applyItemOptions(opts)
	t := newTextItem(label, text, &o)
	d.attach(t, d.parentOrBody(&o))
	return t
}

// AddTitle creates the document title text item.
func (d *Document) AddTitle(text string, opts ...ItemOption) *TextItem {
	o := applyItemOptions(opts)
	t := newTextItem(LabelTitle, text, &o)
	d.attach(t, d.parentOrBody(&o))
	return t
}

// AddHeading creates a section header with the given level (1 = top level).
func (d *Document) AddHeading(text string, level int, opts ...ItemOption) *TextItem {
	o := applyItemOptions(opts)
	t := newTextItem(LabelSectionHeader, text, &o)
	if level < 1 {
		level = 1
	}
	t.Level = level
	d.attach(t, d.parentOrBody(&o))
	return t
}

// AddCode creates a code text item.
func (d *Document) AddCode(text string, opts ...ItemOption) *TextItem {
	o := applyItemOptions(opts)
	t := newTextItem(LabelCode, text, &o)
	t.CodeLanguage = o.codeLanguage
	if t.CodeLanguage == "" {
		t.CodeLanguage = CodeLangUnknown
	}
	d.attach(t, d.parentOrBody(&o))
	return t
}

// AddFormula creates a formula text item.
func (d *Document) AddFormula(text string, opts ...ItemOption) *TextItem {
	o := applyItemOptions(opts)
	t := newTextItem(LabelFormula, text, &o)
	d.attach(t, d.parentOrBody(&o))
	return t
}

// AddListItem creates a list item. List items may only live under list
// groups; when the requested parent is not one, a wrapping list group is
// created on the fly.
func (d *Document) AddListItem(text string, opts ...ItemOption) *TextItem {
	o := applyItemOptions(opts)
	parent := d.parentOrBody(&o)
	if g, ok := parent.(*GroupItem); !ok || !g.IsListGroup() {
		parent = d.AddListGroup(WithParent(parent))
	}
	t := newTextItem(LabelListItem, text, &o)
	t.Enumerated = o.enumerated
	t.Marker = o.marker
	if t.Marker == "" {
		t.Marker = "-"
	}
	d.attach(t, parent)
	return t
}

// AddTable creates a table item owning the given cell data.
func (d *Document) AddTable(data TableData, opts ...ItemOption) *TableItem {
	o := applyItemOptions(opts)
	t := &TableItem{FloatingItem: newFloating(LabelTable, &o), Data: data}
	d.attach(t, d.parentOrBody(&o))
	return t
}

// AddPicture creates a picture item.
func (d *Document) AddPicture(opts ...ItemOption) *PictureItem {
	o := applyItemOptions(opts)
	p := &PictureItem{FloatingItem: newFloating(LabelPicture, &o)}
	d.attach(p, d.parentOrBody(&o))
	return p
}

// AddKeyValues creates a key-value region item from a cell/link graph.
func (d *Document) AddKeyValues(graph GraphData, opts ...ItemOption) *KeyValueItem {
	o := applyItemOptions(opts)
	kv := &KeyValueItem{FloatingItem: newFloating(LabelKeyValueRegion, &o), Graph: graph}
	d.attach(kv, d.parentOrBody(&o))
	return kv
}

// AddForm creates a form item from a cell/link graph.
func (d *Document) AddForm(graph GraphData, opts ...ItemOption) *FormItem {
	o := applyItemOptions(opts)
	f := &FormItem{FloatingItem: newFloating(LabelForm, &o), Graph: graph}
	d.attach(f, d.parentOrBody(&o))
	return f
}
