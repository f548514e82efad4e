package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Collection identifies one of the document's flat item collections, or the
// body root marker.
type Collection int

const (
	colInvalid Collection = iota
	// ColBody is the singular body root marker.
	ColBody
	// ColGroups is the collection of group items.
	ColGroups
	// ColTexts is the collection of text items.
	ColTexts
	// ColPictures is the collection of picture items.
	ColPictures
	// ColTables is the collection of table items.
	ColTables
	// ColKeyValueItems is the collection of key-value items.
	ColKeyValueItems
	// ColFormItems is the collection of form items.
	ColFormItems
)

// String returns the external path segment for the collection.
func (c Collection) String() string {
	switch c {
	case ColBody:
		return "body"
	case ColGroups:
		return "groups"
	case ColTexts:
		return "texts"
	case ColPictures:
		return "pictures"
	case ColTables:
		return "tables"
	case ColKeyValueItems:
		return "key_value_items"
	case ColFormItems:
		return "form_items"
	default:
		return "invalid"
	}
}

func collectionFromName(name string) Collection {
	switch name {
	case "body":
		return ColBody
	case "groups":
		return ColGroups
	case "texts":
		return ColTexts
	case "pictures":
		return ColPictures
	case "tables":
		return ColTables
	case "key_value_items":
		return ColKeyValueItems
	case "form_items":
		return ColFormItems
	default:
		return colInvalid
	}
}

// Ref is a pointer to a node's slot in one of the document's flat
// collections, or to the body root. The zero value means "no reference".
// Refs compare cheaply with ==; two refs are equal iff they address the same
// slot. A Ref is immutable once constructed, except that the deletion
// machinery renumbers refs when collections are compacted.
type Ref struct {
	Collection Collection
	Index      int
}

// NewRef creates a reference to the given collection slot.
func NewRef(c Collection, index int) Ref {
	return Ref{Collection: c, Index: index}
}

// BodyRef returns the reference to the document body root.
func BodyRef() Ref {
	return Ref{Collection: ColBody}
}

// IsZero reports whether r is the "no reference" zero value.
func (r Ref) IsZero() bool {
	return r.Collection == colInvalid
}

// String returns the external JSON-pointer form of the reference, e.g.
// "#/texts/0" or "#/body". The zero value renders as "".
func (r Ref) String() string {
	switch r.Collection {
	case colInvalid:
		return ""
	case ColBody:
		return "#/body"
	default:
		return "#/" + r.Collection.String() + "/" + strconv.Itoa(r.Index)
	}
}

// ParseRef parses the external JSON-pointer form produced by [Ref.String].
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(s, "/")
	switch {
	case len(parts) == 2 && parts[0] == "#":
		c := collectionFromName(parts[1])
		if c != ColBody {
			return Ref{}, fmt.Errorf("parsing ref %q: %w", s, ErrDanglingRef)
		}
		return BodyRef(), nil
	case len(parts) == 3 && parts[0] == "#":
		c := collectionFromName(parts[1])
		if c == colInvalid || c == ColBody {
			return Ref{}, fmt.Errorf("parsing ref %q: unknown collection: %w", s, ErrDanglingRef)
		}
		idx, err := strconv.Atoi(parts[2])
		if err != nil || idx < 0 {
			return Ref{}, fmt.Errorf("parsing ref %q: bad index: %w", s, ErrDanglingRef)
		}
		return Ref{Collection: c, Index: idx}, nil
	default:
		return Ref{}, fmt.Errorf("parsing ref %q: unsupported number of path components: %w", s, ErrDanglingRef)
	}
}

// Resolve returns the live item the reference points at. Resolution fails
// with an error wrapping [ErrDanglingRef] if the reference does not address a
// current collection slot.
func (r Ref) Resolve(d *Document) (Item, error) {
	switch r.Collection {
	case ColBody:
		return d.Body, nil
	case ColGroups:
		if r.Index < 0 || r.Index >= len(d.Groups) {
			break
		}
		return d.Groups[r.Index], nil
	case ColTexts:
		if r.Index < 0 || r.Index >= len(d.Texts) {
			break
		}
		return d.Texts[r.Index], nil
	case ColPictures:
		if r.Index < 0 || r.Index >= len(d.Pictures) {
			break
		}
		return d.Pictures[r.Index], nil
	case ColTables:
		if r.Index < 0 || r.Index >= len(d.Tables) {
			break
		}
		return d.Tables[r.Index], nil
	case ColKeyValueItems:
		if r.Index < 0 || r.Index >= len(d.KeyValueItems) {
			break
		}
		return d.KeyValueItems[r.Index], nil
	case ColFormItems:
		if r.Index < 0 || r.Index >= len(d.FormItems) {
			break
		}
		return d.FormItems[r.Index], nil
	}
	return nil, fmt.Errorf("resolving %q: %w", r.String(), ErrDanglingRef)
}
