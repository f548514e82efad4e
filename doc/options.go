package doc

// ItemOption is a functional option for the Add*/Insert* factory methods.
// Options that do not apply to the item being created are ignored.
type ItemOption func(*itemOptions)

type itemOptions struct {
	parent       Item
	prov         *ProvenanceItem
	orig         string
	layer        ContentLayer
	caption      Item
	name         string
	level        int
	marker       string
	enumerated   bool
	codeLanguage CodeLanguageLabel
	formatting   *Formatting
	hyperlink    string
	image        *ImageRef
}

func applyItemOptions(opts []ItemOption) itemOptions {
	var o itemOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithParent places the new item under the given parent instead of the body.
func WithParent(parent Item) ItemOption {
	return func(o *itemOptions) { o.parent = parent }
}

// WithProv attaches a provenance entry to the new item.
func WithProv(prov ProvenanceItem) ItemOption {
	return func(o *itemOptions) { o.prov = &prov }
}

// WithOrig sets the untreated source text; it defaults to the item text.
func WithOrig(orig string) ItemOption {
	return func(o *itemOptions) { o.orig = orig }
}

// WithContentLayer places the new item on the given content layer.
func WithContentLayer(layer ContentLayer) ItemOption {
	return func(o *itemOptions) { o.layer = layer }
}

// WithCaption registers an existing item as the caption of the new floating
// item.
func WithCaption(caption Item) ItemOption {
	return func(o *itemOptions) { o.caption = caption }
}

// WithName names the new group.
func WithName(name string) ItemOption {
	return func(o *itemOptions) { o.name = name }
}

// WithMarker sets the bullet or number symbol prefixing a list item.
func WithMarker(marker string) ItemOption {
	return func(o *itemOptions) { o.marker = marker }
}

// Enumerated marks a list item as belonging to an enumerated list.
func Enumerated() ItemOption {
	return func(o *itemOptions) { o.enumerated = true }
}

// WithCodeLanguage sets the language of a code item.
func WithCodeLanguage(lang CodeLanguageLabel) ItemOption {
	return func(o *itemOptions) { o.codeLanguage = lang }
}

// WithFormatting attaches inline formatting to the new text item.
func WithFormatting(f Formatting) ItemOption {
	return func(o *itemOptions) { o.formatting = &f }
}

// WithHyperlink attaches a hyperlink target to the new text item.
func WithHyperlink(uri string) ItemOption {
	return func(o *itemOptions) { o.hyperlink = uri }
}

// WithImage embeds image metadata in the new floating item.
func WithImage(image *ImageRef) ItemOption {
	return func(o *itemOptions) { o.image = image }
}
