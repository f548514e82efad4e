package doc

// ContentLayer classifies a node as main content vs. supporting material and
// controls default traversal inclusion.
type ContentLayer string

const (
	// LayerBody is the main content of the document.
	LayerBody ContentLayer = "body"
	// LayerFurniture covers page headers, footers and similar page furniture.
	LayerFurniture ContentLayer = "furniture"
	// LayerBackground covers watermarks and other background artifacts.
	LayerBackground ContentLayer = "background"
	// LayerInvisible covers hidden or invisible text.
	LayerInvisible ContentLayer = "invisible"
	// LayerNotes covers author or speaker notes and corrections.
	LayerNotes ContentLayer = "notes"
)

// AllContentLayers lists every defined content layer.
func AllContentLayers() []ContentLayer {
	return []ContentLayer{LayerBody, LayerFurniture, LayerBackground, LayerInvisible, LayerNotes}
}

// DocItemLabel tags a content item with its semantic role.
type DocItemLabel string

const (
	LabelCaption            DocItemLabel = "caption"
	LabelChart              DocItemLabel = "chart"
	LabelCheckboxSelected   DocItemLabel = "checkbox_selected"
	LabelCheckboxUnselected DocItemLabel = "checkbox_unselected"
	LabelCode               DocItemLabel = "code"
	LabelDocumentIndex      DocItemLabel = "document_index"
	LabelEmptyValue         DocItemLabel = "empty_value"
	LabelFootnote           DocItemLabel = "footnote"
	LabelForm               DocItemLabel = "form"
	LabelFormula            DocItemLabel = "formula"
	LabelKeyValueRegion     DocItemLabel = "key_value_region"
	LabelListItem           DocItemLabel = "list_item"
	LabelPageFooter         DocItemLabel = "page_footer"
	LabelPageHeader         DocItemLabel = "page_header"
	LabelParagraph          DocItemLabel = "paragraph"
	LabelPicture            DocItemLabel = "picture"
	LabelReference          DocItemLabel = "reference"
	LabelSectionHeader      DocItemLabel = "section_header"
	LabelTable              DocItemLabel = "table"
	LabelText               DocItemLabel = "text"
	LabelTitle              DocItemLabel = "title"
)

// GroupLabel tags a group item with its container role.
type GroupLabel string

const (
	GroupUnspecified    GroupLabel = "unspecified"
	GroupList           GroupLabel = "list"
	GroupInline         GroupLabel = "inline"
	GroupChapter        GroupLabel = "chapter"
	GroupSection        GroupLabel = "section"
	GroupSheet          GroupLabel = "sheet"
	GroupSlide          GroupLabel = "slide"
	GroupCommentSection GroupLabel = "comment_section"
	GroupKeyValueArea   GroupLabel = "key_value_area"
	GroupFormArea       GroupLabel = "form_area"
	GroupPictureArea    GroupLabel = "picture_area"
)

// CodeLanguageLabel names the programming language of a code item. Free-form
// values are allowed; the constants cover the common cases.
type CodeLanguageLabel string

const (
	CodeLangUnknown    CodeLanguageLabel = "unknown"
	CodeLangC          CodeLanguageLabel = "C"
	CodeLangCpp        CodeLanguageLabel = "C++"
	CodeLangGo         CodeLanguageLabel = "Go"
	CodeLangJava       CodeLanguageLabel = "Java"
	CodeLangJavaScript CodeLanguageLabel = "JavaScript"
	CodeLangPython     CodeLanguageLabel = "Python"
	CodeLangRust       CodeLanguageLabel = "Rust"
	CodeLangShell      CodeLanguageLabel = "Shell"
	CodeLangSQL        CodeLanguageLabel = "SQL"
	CodeLangXML        CodeLanguageLabel = "XML"
)

// Script marks sub/superscript text formatting.
type Script string

const (
	ScriptBaseline Script = "baseline"
	ScriptSub      Script = "sub"
	ScriptSuper    Script = "super"
)

// Formatting carries inline text styling.
type Formatting struct {
	Bold          bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty" yaml:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty" yaml:"strikethrough,omitempty"`
	Script        Script `json:"script,omitempty" yaml:"script,omitempty"`
}
