package doc

import "math"

// CoordOrigin identifies the corner of the page the bounding-box coordinate
// system is anchored at.
type CoordOrigin string

const (
	// CoordTopLeft anchors coordinates at the top-left page corner (y grows
	// downward).
	CoordTopLeft CoordOrigin = "TOPLEFT"
	// CoordBottomLeft anchors coordinates at the bottom-left page corner (y
	// grows upward, PDF convention).
	CoordBottomLeft CoordOrigin = "BOTTOMLEFT"
)

// BoundingBox is an axis-aligned rectangle in page coordinates.
type BoundingBox struct {
	L      float64     `json:"l" yaml:"l"`
	T      float64     `json:"t" yaml:"t"`
	R      float64     `json:"r" yaml:"r"`
	B      float64     `json:"b" yaml:"b"`
	Origin CoordOrigin `json:"coord_origin" yaml:"coord_origin"`
}

// NewBoundingBox creates a top-left anchored bounding box.
func NewBoundingBox(l, t, r, b float64) BoundingBox {
	return BoundingBox{L: l, T: t, R: r, B: b, Origin: CoordTopLeft}
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.R - b.L
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return math.Abs(b.T - b.B)
}

// Area returns the area of the box.
func (b BoundingBox) Area() float64 {
	return math.Abs(b.R-b.L) * math.Abs(b.T-b.B)
}

// Intersects checks whether two boxes with the same coordinate origin
// overlap.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.IntersectionArea(other) > 0
}

// IntersectionArea returns the area of the overlap between two boxes with
// the same coordinate origin.
func (b BoundingBox) IntersectionArea(other BoundingBox) float64 {
	if b.Origin != other.Origin {
		return 0
	}
	w := math.Min(b.R, other.R) - math.Max(b.L, other.L)
	if w <= 0 {
		return 0
	}
	var h float64
	if b.Origin == CoordBottomLeft {
		h = math.Min(b.T, other.T) - math.Max(b.B, other.B)
	} else {
		h = math.Min(b.B, other.B) - math.Max(b.T, other.T)
	}
	if h <= 0 {
		return 0
	}
	return w * h
}

// Enclosure returns the smallest box containing both boxes. Both must share
// the same coordinate origin.
func (b BoundingBox) Enclosure(other BoundingBox) BoundingBox {
	out := BoundingBox{
		L:      math.Min(b.L, other.L),
		R:      math.Max(b.R, other.R),
		Origin: b.Origin,
	}
	if b.Origin == CoordBottomLeft {
		out.T = math.Max(b.T, other.T)
		out.B = math.Min(b.B, other.B)
	} else {
		out.T = math.Min(b.T, other.T)
		out.B = math.Max(b.B, other.B)
	}
	return out
}

// Size holds page dimensions in points.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ProvenanceItem anchors a content item to its source location: page number,
// bounding box and the character span the item covers in the original text.
type ProvenanceItem struct {
	PageNo   int         `json:"page_no" yaml:"page_no"`
	BBox     BoundingBox `json:"bbox" yaml:"bbox"`
	Charspan [2]int      `json:"charspan" yaml:"charspan"`
}

// ImageRef describes an embedded or linked image. Embedded images are
// carried inline as data URIs; see [NewImageRef] and [ImageRef.Image].
type ImageRef struct {
	MimeType string `json:"mimetype" yaml:"mimetype"`
	DPI      int    `json:"dpi" yaml:"dpi"`
	Size     Size   `json:"size" yaml:"size"`
	URI      string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// DocumentOrigin identifies the source a document was converted from.
type DocumentOrigin struct {
	MimeType   string `json:"mimetype" yaml:"mimetype"`
	BinaryHash uint64 `json:"binary_hash" yaml:"binary_hash"`
	Filename   string `json:"filename" yaml:"filename"`
	URI        string `json:"uri,omitempty" yaml:"uri,omitempty"`
}
