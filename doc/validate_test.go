package doc

import (
	"errors"
	"testing"
)

// ============================================================================
// Tree Consistency Tests
// ============================================================================

func TestValidateTree(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		d := New("test")
		chapter := d.AddGroup(GroupChapter)
		d.AddText(LabelParagraph, "nested", WithParent(chapter))
		d.AddText(LabelParagraph, "top")
		if !d.ValidateTree(d.Body) {
			t.Error("ValidateTree() = false for a healthy document")
		}
	})

	t.Run("broken parent link", func(t *testing.T) {
		d := New("test")
		chapter := d.AddGroup(GroupChapter)
		nested := d.AddText(LabelParagraph, "nested", WithParent(chapter))
		nested.Parent = BodyRef()
		if d.ValidateTree(d.Body) {
			t.Error("ValidateTree() = true with a mismatched parent link")
		}
	})

	t.Run("dangling child ref", func(t *testing.T) {
		d := New("test")
		d.Body.Children = append(d.Body.Children, NewRef(ColTexts, 9))
		if d.ValidateTree(d.Body) {
			t.Error("ValidateTree() = true with a dangling child")
		}
	})

	t.Run("rich cell under foreign parent", func(t *testing.T) {
		d := New("test")
		tbl := d.AddTable(NewTableData(1))
		stray := d.AddText(LabelParagraph, "not under the table")
		cell := NewTableCell("", 0, 0)
		cell.Ref = stray.GetRef()
		tbl.Data.TableCells = append(tbl.Data.TableCells, cell)
		tbl.Data.NumRows = 1
		if d.ValidateTree(d.Body) {
			t.Error("ValidateTree() = true with a foreign rich cell")
		}
	})
}

// ============================================================================
// Containment Rule Tests
// ============================================================================

func TestValidateRules(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		d := New("test")
		list := d.AddListGroup()
		d.AddListItem("one", WithParent(list))
		d.AddListItem("two", WithParent(list))
		if err := d.ValidateRules(); err != nil {
			t.Errorf("ValidateRules() = %v", err)
		}
	})

	t.Run("non-list-item in list group", func(t *testing.T) {
		d := New("test")
		list := d.AddListGroup()
		d.AddText(LabelParagraph, "intruder", WithParent(list))
		if err := d.ValidateRules(); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})

	t.Run("empty group", func(t *testing.T) {
		d := New("test")
		d.AddGroup(GroupChapter)
		if err := d.ValidateRules(); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})

	t.Run("empty list group tolerated", func(t *testing.T) {
		d := New("test")
		d.AddListGroup()
		if err := d.ValidateRules(); err != nil {
			t.Errorf("ValidateRules() = %v", err)
		}
	})

	t.Run("list item under non-list parent", func(t *testing.T) {
		d := New("test")
		li := &TextItem{Label: LabelListItem, Text: "loose", Marker: "-"}
		if err := d.AppendChildItem(li, nil); err != nil {
			t.Fatalf("AppendChildItem() error = %v", err)
		}
		if err := d.ValidateRules(); !errors.Is(err, ErrStructure) {
			t.Errorf("error = %v, want ErrStructure", err)
		}
	})
}

// ============================================================================
// Healing Tests
// ============================================================================

// looseListItem attaches a bare list item under the given parent without the
// factory's auto-wrapping.
func looseListItem(t *testing.T, d *Document, text string, parent Item) *TextItem {
	t.Helper()
	li := &TextItem{Label: LabelListItem, Text: text, Marker: "-", Orig: text}
	if err := d.AppendChildItem(li, parent); err != nil {
		t.Fatalf("attaching loose list item: %v", err)
	}
	return li
}

func TestHealListItems(t *testing.T) {
	t.Run("wraps a run in one group", func(t *testing.T) {
		d := New("test")
		d.AddText(LabelParagraph, "before")
		looseListItem(t, d, "one", nil)
		looseListItem(t, d, "two", nil)
		d.AddText(LabelParagraph, "after")

		if err := d.HealListItems(); err != nil {
			t.Fatalf("HealListItems() error = %v", err)
		}
		if err := d.ValidateRules(); err != nil {
			t.Fatalf("document still invalid after healing: %v", err)
		}
		if len(d.Groups) != 1 {
			t.Fatalf("groups = %d, want 1", len(d.Groups))
		}
		if !d.Groups[0].IsListGroup() {
			t.Error("healing group is not a list group")
		}
		if len(d.Groups[0].Children) != 2 {
			t.Errorf("group children = %d, want 2", len(d.Groups[0].Children))
		}

		var texts []string
		for it := range d.IterateItems() {
			texts = append(texts, it.(*TextItem).Text)
		}
		want := []string{"before", "one", "two", "after"}
		for i := range want {
			if texts[i] != want[i] {
				t.Fatalf("order = %v, want %v", texts, want)
			}
		}
	})

	t.Run("separate parents get separate groups", func(t *testing.T) {
		d := New("test")
		chapter := d.AddGroup(GroupChapter)
		looseListItem(t, d, "in chapter", chapter)
		looseListItem(t, d, "at top", nil)

		if err := d.HealListItems(); err != nil {
			t.Fatalf("HealListItems() error = %v", err)
		}
		if err := d.ValidateRules(); err != nil {
			t.Fatalf("document still invalid after healing: %v", err)
		}
		// the chapter group plus two healing list groups
		if len(d.Groups) != 3 {
			t.Errorf("groups = %d, want 3", len(d.Groups))
		}
	})

	t.Run("preserves content", func(t *testing.T) {
		d := New("test")
		li := &TextItem{
			Label: LabelListItem, Text: "kept", Orig: "kept original",
			Marker: "*", Enumerated: true,
			NodeItem: NodeItem{ContentLayer: LayerFurniture},
		}
		li.Prov = []ProvenanceItem{{PageNo: 3}}
		if err := d.AppendChildItem(li, nil); err != nil {
			t.Fatalf("AppendChildItem() error = %v", err)
		}

		if err := d.HealListItems(); err != nil {
			t.Fatalf("HealListItems() error = %v", err)
		}
		if len(d.Texts) != 1 {
			t.Fatalf("texts = %d, want 1", len(d.Texts))
		}
		healed := d.Texts[0]
		if healed.Text != "kept" || healed.Orig != "kept original" {
			t.Errorf("text = %q, orig = %q", healed.Text, healed.Orig)
		}
		if healed.Marker != "*" || !healed.Enumerated {
			t.Errorf("marker = %q, enumerated = %v", healed.Marker, healed.Enumerated)
		}
		if healed.ContentLayer != LayerFurniture {
			t.Errorf("layer = %v, want furniture", healed.ContentLayer)
		}
		if len(healed.Prov) != 1 || healed.Prov[0].PageNo != 3 {
			t.Errorf("prov = %+v", healed.Prov)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		d := New("test")
		looseListItem(t, d, "one", nil)
		looseListItem(t, d, "two", nil)

		if err := d.HealListItems(); err != nil {
			t.Fatalf("first heal: %v", err)
		}
		groups := len(d.Groups)
		texts := len(d.Texts)

		if err := d.HealListItems(); err != nil {
			t.Fatalf("second heal: %v", err)
		}
		if len(d.Groups) != groups || len(d.Texts) != texts {
			t.Errorf("second heal changed the document: groups %d->%d, texts %d->%d",
				groups, len(d.Groups), texts, len(d.Texts))
		}
	})

	t.Run("healthy document untouched", func(t *testing.T) {
		d := New("test")
		list := d.AddListGroup()
		d.AddListItem("fine", WithParent(list))

		if err := d.HealListItems(); err != nil {
			t.Fatalf("HealListItems() error = %v", err)
		}
		if len(d.Groups) != 1 || len(d.Texts) != 1 {
			t.Error("healing modified a healthy document")
		}
	})
}
