package doc

import "fmt"

// Positional factory methods. Each creates an item like its Add*
// counterpart but splices it next to an existing sibling instead of
// appending it under a parent.

// insertionStackAndParent locates sibling in the tree and returns its stack
// together with its parent's reference.
func (d *Document) insertionStackAndParent(sibling Item) ([]int, Ref, error) {
	stack, ok := d.stackOf(sibling)
	if !ok {
		return nil, Ref{}, fmt.Errorf("cannot insert at %s: sibling is not reachable from the body: %w",
			sibling.GetRef(), ErrUnreachable)
	}
	parentRef, ok := d.Body.parentRefAt(d, stack)
	if !ok {
		return nil, Ref{}, fmt.Errorf("cannot insert a sibling of the body root: %w", ErrStructure)
	}
	return stack, parentRef, nil
}

// insertInStructure appends it to its collection and splices it at the
// sibling position addressed by stack. When the splice fails the append is
// rolled back, and a parent group created on the fly is deleted again.
func (d *Document) insertInStructure(it Item, parentRef Ref, stack []int, after, createdParent bool) error {
	ref, err := d.appendItem(it, parentRef)
	if err != nil {
		return err
	}
	if !d.Body.addSiblingAt(d, stack, ref, after) {
		d.popItem(it)
		if createdParent {
			if parent, perr := parentRef.Resolve(d); perr == nil {
				d.DeleteItems(parent)
			}
		}
		return fmt.Errorf("could not insert item %s under %s: %w", ref, parentRef, ErrStructure)
	}
	return nil
}

// InsertListGroup creates a list container group next to sibling.
func (d *Document) InsertListGroup(sibling Item, after bool, opts ...ItemOption) (*GroupItem, error) {
	return d.insertGroup(sibling, GroupList, after, opts)
}

// InsertInlineGroup creates an inline container group next to sibling.
func (d *Document) InsertInlineGroup(sibling Item, after bool, opts ...ItemOption) (*GroupItem, error) {
	return d.insertGroup(sibling, GroupInline, after, opts)
}

// InsertGroup creates a group item next to sibling.
func (d *Document) InsertGroup(sibling Item, label GroupLabel, after bool, opts ...ItemOption) (*GroupItem, error) {
	return d.insertGroup(sibling, label, after, opts)
}

func (d *Document) insertGroup(sibling Item, label GroupLabel, after bool, opts []ItemOption) (*GroupItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}
	g := newGroup(label, &o)
	if err := d.insertInStructure(g, parentRef, stack, after, false); err != nil {
		return nil, err
	}
	return g, nil
}

// InsertListItem creates a list item next to sibling. When sibling's parent
// is not a list group, a wrapping list group is created on the fly at the
// insertion position and the list item becomes its first child.
func (d *Document) InsertListItem(sibling Item, text string, after bool, opts ...ItemOption) (*TextItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}

	createdParent := false
	parent, err := parentRef.Resolve(d)
	if err != nil {
		return nil, err
	}
	if g, ok := parent.(*GroupItem); !ok || !g.IsListGroup() {
		wrapper, err := d.InsertListGroup(sibling, after)
		if err != nil {
			return nil, err
		}
		parentRef = wrapper.GetRef()
		// The wrapper now sits at the insertion position; the list item
		// goes in as its first child.
		if after {
			stack[len(stack)-1]++
		}
		stack = append(stack, 0)
		after = false
		createdParent = true
	}

	t := newTextItem(LabelListItem, text, &o)
	t.Enumerated = o.enumerated
	t.Marker = o.marker
	if t.Marker == "" {
		t.Marker = "-"
	}
	if err := d.insertInStructure(t, parentRef, stack, after, createdParent); err != nil {
		return nil, err
	}
	return t, nil
}

// InsertText creates a text item with the given label next to sibling.
// Labels with dedicated factories are routed there.
func (d *Document) InsertText(sibling Item, label DocItemLabel, text string, after bool, opts ...ItemOption) (*TextItem, error) {
	switch label {
	case LabelTitle:
		return d.InsertTitle(sibling, text, after, opts...)
	case LabelListItem:
		return d.InsertListItem(sibling, text, after, opts...)
	case LabelSectionHeader:
		return d.InsertHeading(sibling, text, 1, after, opts...)
	case LabelCode:
		return d.InsertCode(sibling, text, after, opts...)
	case LabelFormula:
		return d.InsertFormula(sibling, text, after, opts...)
	}
	return d.insertText(sibling, label, text, after, opts, nil)
}

func (d *Document) insertText(sibling Item, label DocItemLabel, text string, after bool, opts []ItemOption, tune func(*TextItem, *itemOptions)) (*TextItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}
	t := newTextItem(label, text, &o)
	if tune != nil {
		tune(t, &o)
	}
	if err := d.insertInStructure(t, parentRef, stack, after, false); err != nil {
		return nil, err
	}
	return t, nil
}

// InsertTitle creates a title text item next to sibling.
func (d *Document) InsertTitle(sibling Item, text string, after bool, opts ...ItemOption) (*TextItem, error) {
	return d.insertText(sibling, LabelTitle, text, after, opts, nil)
}

// InsertHeading creates a section header with the given level next to
// sibling.
func (d *Document) InsertHeading(sibling Item, text string, level int, after bool, opts ...ItemOption) (*TextItem, error) {
	return d.insertText(sibling, LabelSectionHeader, text, after, opts, func(t *TextItem, _ *itemOptions) {
		if level < 1 {
			level = 1
		}
		t.Level = level
	})
}

// InsertCode creates a code text item next to sibling.
func (d *Document) InsertCode(sibling Item, text string, after bool, opts ...ItemOption) (*TextItem, error) {
	return d.insertText(sibling, LabelCode, text, after, opts, func(t *TextItem, o *itemOptions) {
		t.CodeLanguage = o.codeLanguage
		if t.CodeLanguage == "" {
			t.CodeLanguage = CodeLangUnknown
		}
	})
}

// InsertFormula creates a formula text item next to sibling.
func (d *Document) InsertFormula(sibling Item, text string, after bool, opts ...ItemOption) (*TextItem, error) {
	return d.insertText(sibling, LabelFormula, text, after, opts, nil)
}

// InsertTable creates a table item next to sibling.
func (d *Document) InsertTable(sibling Item, data TableData, after bool, opts ...ItemOption) (*TableItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}
	t := &TableItem{FloatingItem: newFloating(LabelTable, &o), Data: data}
	if err := d.insertInStructure(t, parentRef, stack, after, false); err != nil {
		return nil, err
	}
	return t, nil
}

// InsertPicture creates a picture item next to sibling.
func (d *Document) InsertPicture(sibling Item, after bool, opts ...ItemOption) (*PictureItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}
	p := &PictureItem{FloatingItem: newFloating(LabelPicture, &o)}
	if err := d.insertInStructure(p, parentRef, stack, after, false); err != nil {
		return nil, err
	}
	return p, nil
}

// InsertKeyValues creates a key-value region item next to sibling.
func (d *Document) InsertKeyValues(sibling Item, graph GraphData, after bool, opts ...ItemOption) (*KeyValueItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}
	kv := &KeyValueItem{FloatingItem: newFloating(LabelKeyValueRegion, &o), Graph: graph}
	if err := d.insertInStructure(kv, parentRef, stack, after, false); err != nil {
		return nil, err
	}
	return kv, nil
}

// InsertForm creates a form item next to sibling.
func (d *Document) InsertForm(sibling Item, graph GraphData, after bool, opts ...ItemOption) (*FormItem, error) {
	o := applyItemOptions(opts)
	stack, parentRef, err := d.insertionStackAndParent(sibling)
	if err != nil {
		return nil, err
	}
	f := &FormItem{FloatingItem: newFloating(LabelForm, &o), Graph: graph}
	if err := d.insertInStructure(f, parentRef, stack, after, false); err != nil {
		return nil, err
	}
	return f, nil
}
