// Package doc provides an in-memory model for multi-modal documents: text,
// tables, pictures and key-value graphs arranged in a single content tree.
//
// This package defines the user-facing data structures and the operations to
// build, navigate, mutate, validate and persist a document. The model is
// backend-agnostic: converters produce a [Document], downstream consumers
// read one.
//
// # Document Structure
//
// The [Document] type is the aggregate root. Items live in flat, per-type
// collections (texts, tables, pictures, groups, key-value items, form
// items); the reading-order hierarchy is expressed separately through
// [Ref] values: each item records its own slot, its parent and its ordered
// children. The body root group spans the whole reading order:
//
//	d := doc.New("report")
//	title := d.AddTitle("Annual Report")
//	chapter := d.AddGroup(doc.GroupChapter, doc.WithName("intro"))
//	d.AddText(doc.LabelParagraph, "It was a good year.", doc.WithParent(chapter))
//
// # Items
//
// All tree nodes implement the [Item] interface. The concrete types are:
//
//   - [GroupItem] - container nodes (lists, chapters, inline runs, ...)
//   - [TextItem] - titles, section headers, paragraphs, list items, code, formulas
//   - [TableItem] - tables with spanning and rich cells ([TableData])
//   - [PictureItem] - pictures with captions and image metadata
//   - [KeyValueItem], [FormItem] - key-value graphs ([GraphData])
//
// # Navigation
//
// [Document.IterateItems] walks the tree depth first and yields items with
// their depth. Traversal is filtered by content layer, page number and group
// visibility through [IterateOption] values:
//
//	for it, depth := range d.IterateItems(doc.WithGroups()) {
//		...
//	}
//
// # Mutation
//
// Structural edits go through the mutation API: [Document.AppendChildItem],
// [Document.InsertItemAfterSibling], [Document.DeleteItems],
// [Document.ReplaceItem], [Document.ExtractItemsRange] and the positional
// Insert* factories. Deletion removes whole subtrees, compacts the flat
// collections and renumbers every surviving reference. [Concatenate] merges
// documents end to end, offsetting page numbers.
//
// # Persistence
//
// Documents serialize to JSON and YAML with [Document.Save] and load back
// with [Load]; loading gates on the schema version, validates the tree and
// heals misplaced list items.
package doc
