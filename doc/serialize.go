package doc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/turtlco/doctree/format"
)

// The persistence boundary. In memory, references are typed Ref values; on
// the wire they are JSON-pointer strings ("#/texts/0"). The DTO types below
// are the only place the string form appears.

type refJSON struct {
	Ref string `json:"$ref" yaml:"$ref"`
}

type nodeJSON struct {
	SelfRef      string    `json:"self_ref" yaml:"self_ref"`
	Parent       *refJSON  `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children     []refJSON `json:"children" yaml:"children"`
	ContentLayer string    `json:"content_layer" yaml:"content_layer"`
}

type groupJSON struct {
	nodeJSON `yaml:",inline"`
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
}

type textJSON struct {
	nodeJSON     `yaml:",inline"`
	Label        string           `json:"label" yaml:"label"`
	Prov         []ProvenanceItem `json:"prov" yaml:"prov"`
	Orig         string           `json:"orig" yaml:"orig"`
	Text         string           `json:"text" yaml:"text"`
	Level        int              `json:"level,omitempty" yaml:"level,omitempty"`
	Enumerated   bool             `json:"enumerated,omitempty" yaml:"enumerated,omitempty"`
	Marker       string           `json:"marker,omitempty" yaml:"marker,omitempty"`
	CodeLanguage string           `json:"code_language,omitempty" yaml:"code_language,omitempty"`
	Formatting   *Formatting      `json:"formatting,omitempty" yaml:"formatting,omitempty"`
	Hyperlink    string           `json:"hyperlink,omitempty" yaml:"hyperlink,omitempty"`
}

type floatingJSON struct {
	Label      string           `json:"label" yaml:"label"`
	Prov       []ProvenanceItem `json:"prov" yaml:"prov"`
	Captions   []refJSON        `json:"captions" yaml:"captions"`
	References []refJSON        `json:"references" yaml:"references"`
	Footnotes  []refJSON        `json:"footnotes" yaml:"footnotes"`
	Image      *ImageRef        `json:"image,omitempty" yaml:"image,omitempty"`
}

type pictureJSON struct {
	nodeJSON     `yaml:",inline"`
	floatingJSON `yaml:",inline"`
}

type tableCellJSON struct {
	BBox              *BoundingBox `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	RowSpan           int          `json:"row_span" yaml:"row_span"`
	ColSpan           int          `json:"col_span" yaml:"col_span"`
	StartRowOffsetIdx int          `json:"start_row_offset_idx" yaml:"start_row_offset_idx"`
	EndRowOffsetIdx   int          `json:"end_row_offset_idx" yaml:"end_row_offset_idx"`
	StartColOffsetIdx int          `json:"start_col_offset_idx" yaml:"start_col_offset_idx"`
	EndColOffsetIdx   int          `json:"end_col_offset_idx" yaml:"end_col_offset_idx"`
	Text              string       `json:"text" yaml:"text"`
	ColumnHeader      bool         `json:"column_header" yaml:"column_header"`
	RowHeader         bool         `json:"row_header" yaml:"row_header"`
	RowSection        bool         `json:"row_section" yaml:"row_section"`
	Ref               *refJSON     `json:"ref,omitempty" yaml:"ref,omitempty"`
}

type tableDataJSON struct {
	TableCells []tableCellJSON `json:"table_cells" yaml:"table_cells"`
	NumRows    int             `json:"num_rows" yaml:"num_rows"`
	NumCols    int             `json:"num_cols" yaml:"num_cols"`
}

type tableJSON struct {
	nodeJSON     `yaml:",inline"`
	floatingJSON `yaml:",inline"`
	Data         tableDataJSON `json:"data" yaml:"data"`
}

type graphCellJSON struct {
	Label   string          `json:"label" yaml:"label"`
	CellID  int             `json:"cell_id" yaml:"cell_id"`
	Text    string          `json:"text" yaml:"text"`
	Orig    string          `json:"orig" yaml:"orig"`
	Prov    *ProvenanceItem `json:"prov,omitempty" yaml:"prov,omitempty"`
	ItemRef *refJSON        `json:"item_ref,omitempty" yaml:"item_ref,omitempty"`
}

type graphLinkJSON struct {
	Label        string `json:"label" yaml:"label"`
	SourceCellID int    `json:"source_cell_id" yaml:"source_cell_id"`
	TargetCellID int    `json:"target_cell_id" yaml:"target_cell_id"`
}

type graphJSON struct {
	Cells []graphCellJSON `json:"cells" yaml:"cells"`
	Links []graphLinkJSON `json:"links" yaml:"links"`
}

type keyValueJSON struct {
	nodeJSON     `yaml:",inline"`
	floatingJSON `yaml:",inline"`
	Graph        graphJSON `json:"graph" yaml:"graph"`
}

type pageJSON struct {
	Size   Size      `json:"size" yaml:"size"`
	Image  *ImageRef `json:"image,omitempty" yaml:"image,omitempty"`
	PageNo int       `json:"page_no" yaml:"page_no"`
}

type documentJSON struct {
	SchemaName string          `json:"schema_name" yaml:"schema_name"`
	Version    string          `json:"version" yaml:"version"`
	Name       string          `json:"name" yaml:"name"`
	Origin     *DocumentOrigin `json:"origin,omitempty" yaml:"origin,omitempty"`

	Body groupJSON `json:"body" yaml:"body"`

	Groups        []groupJSON    `json:"groups" yaml:"groups"`
	Texts         []textJSON     `json:"texts" yaml:"texts"`
	Pictures      []pictureJSON  `json:"pictures" yaml:"pictures"`
	Tables        []tableJSON    `json:"tables" yaml:"tables"`
	KeyValueItems []keyValueJSON `json:"key_value_items" yaml:"key_value_items"`
	FormItems     []keyValueJSON `json:"form_items" yaml:"form_items"`

	Pages map[int]pageJSON `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// ---- model to DTO ----

func refsOut(refs []Ref) []refJSON {
	out := make([]refJSON, 0, len(refs))
	for _, r := range refs {
		out = append(out, refJSON{Ref: r.String()})
	}
	return out
}

func refPtrOut(r Ref) *refJSON {
	if r.IsZero() {
		return nil
	}
	return &refJSON{Ref: r.String()}
}

func nodeOut(n *NodeItem) nodeJSON {
	return nodeJSON{
		SelfRef:      n.SelfRef.String(),
		Parent:       refPtrOut(n.Parent),
		Children:     refsOut(n.Children),
		ContentLayer: string(n.layer()),
	}
}

func groupOut(g *GroupItem) groupJSON {
	return groupJSON{nodeJSON: nodeOut(&g.NodeItem), Name: g.Name, Label: string(g.Label)}
}

func provOut(prov []ProvenanceItem) []ProvenanceItem {
	if prov == nil {
		return []ProvenanceItem{}
	}
	return prov
}

func textOut(t *TextItem) textJSON {
	return textJSON{
		nodeJSON:     nodeOut(&t.NodeItem),
		Label:        string(t.Label),
		Prov:         provOut(t.Prov),
		Orig:         t.Orig,
		Text:         t.Text,
		Level:        t.Level,
		Enumerated:   t.Enumerated,
		Marker:       t.Marker,
		CodeLanguage: string(t.CodeLanguage),
		Formatting:   t.Formatting,
		Hyperlink:    t.Hyperlink,
	}
}

func floatingOut(f *FloatingItem) floatingJSON {
	return floatingJSON{
		Label:      string(f.Label),
		Prov:       provOut(f.Prov),
		Captions:   refsOut(f.Captions),
		References: refsOut(f.References),
		Footnotes:  refsOut(f.Footnotes),
		Image:      f.Image,
	}
}

func tableDataOut(t *TableData) tableDataJSON {
	out := tableDataJSON{NumRows: t.NumRows, NumCols: t.NumCols, TableCells: make([]tableCellJSON, 0, len(t.TableCells))}
	for _, c := range t.TableCells {
		out.TableCells = append(out.TableCells, tableCellJSON{
			BBox:              c.BBox,
			RowSpan:           c.RowSpan,
			ColSpan:           c.ColSpan,
			StartRowOffsetIdx: c.StartRowOffsetIdx,
			EndRowOffsetIdx:   c.EndRowOffsetIdx,
			StartColOffsetIdx: c.StartColOffsetIdx,
			EndColOffsetIdx:   c.EndColOffsetIdx,
			Text:              c.Text,
			ColumnHeader:      c.ColumnHeader,
			RowHeader:         c.RowHeader,
			RowSection:        c.RowSection,
			Ref:               refPtrOut(c.Ref),
		})
	}
	return out
}

func graphOut(g *GraphData) graphJSON {
	out := graphJSON{Cells: make([]graphCellJSON, 0, len(g.Cells)), Links: make([]graphLinkJSON, 0, len(g.Links))}
	for _, c := range g.Cells {
		out.Cells = append(out.Cells, graphCellJSON{
			Label:   string(c.Label),
			CellID:  c.CellID,
			Text:    c.Text,
			Orig:    c.Orig,
			Prov:    c.Prov,
			ItemRef: refPtrOut(c.ItemRef),
		})
	}
	for _, l := range g.Links {
		out.Links = append(out.Links, graphLinkJSON{
			Label:        string(l.Label),
			SourceCellID: l.SourceCellID,
			TargetCellID: l.TargetCellID,
		})
	}
	return out
}

func (d *Document) toDTO() documentJSON {
	dto := documentJSON{
		SchemaName: SchemaName,
		Version:    d.Version,
		Name:       d.Name,
		Origin:     d.Origin,
		Body:       groupOut(d.Body),

		Groups:        make([]groupJSON, 0, len(d.Groups)),
		Texts:         make([]textJSON, 0, len(d.Texts)),
		Pictures:      make([]pictureJSON, 0, len(d.Pictures)),
		Tables:        make([]tableJSON, 0, len(d.Tables)),
		KeyValueItems: make([]keyValueJSON, 0, len(d.KeyValueItems)),
		FormItems:     make([]keyValueJSON, 0, len(d.FormItems)),
	}
	if dto.Version == "" {
		dto.Version = CurrentVersion
	}
	for _, g := range d.Groups {
		dto.Groups = append(dto.Groups, groupOut(g))
	}
	for _, t := range d.Texts {
		dto.Texts = append(dto.Texts, textOut(t))
	}
	for _, p := range d.Pictures {
		dto.Pictures = append(dto.Pictures, pictureJSON{
			nodeJSON:     nodeOut(&p.NodeItem),
			floatingJSON: floatingOut(&p.FloatingItem),
		})
	}
	for _, t := range d.Tables {
		dto.Tables = append(dto.Tables, tableJSON{
			nodeJSON:     nodeOut(&t.NodeItem),
			floatingJSON: floatingOut(&t.FloatingItem),
			Data:         tableDataOut(&t.Data),
		})
	}
	for _, kv := range d.KeyValueItems {
		dto.KeyValueItems = append(dto.KeyValueItems, keyValueJSON{
			nodeJSON:     nodeOut(&kv.NodeItem),
			floatingJSON: floatingOut(&kv.FloatingItem),
			Graph:        graphOut(&kv.Graph),
		})
	}
	for _, f := range d.FormItems {
		dto.FormItems = append(dto.FormItems, keyValueJSON{
			nodeJSON:     nodeOut(&f.NodeItem),
			floatingJSON: floatingOut(&f.FloatingItem),
			Graph:        graphOut(&f.Graph),
		})
	}
	if len(d.Pages) > 0 {
		dto.Pages = make(map[int]pageJSON, len(d.Pages))
		for no, p := range d.Pages {
			dto.Pages[no] = pageJSON{Size: p.Size, Image: p.Image, PageNo: p.PageNo}
		}
	}
	return dto
}

// ---- DTO to model ----

func refsIn(refs []refJSON) ([]Ref, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]Ref, 0, len(refs))
	for _, r := range refs {
		parsed, err := ParseRef(r.Ref)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

func refPtrIn(r *refJSON) (Ref, error) {
	if r == nil {
		return Ref{}, nil
	}
	return ParseRef(r.Ref)
}

func nodeIn(dto *nodeJSON) (NodeItem, error) {
	var n NodeItem
	var err error
	if n.SelfRef, err = ParseRef(dto.SelfRef); err != nil {
		return n, err
	}
	if n.Parent, err = refPtrIn(dto.Parent); err != nil {
		return n, err
	}
	if n.Children, err = refsIn(dto.Children); err != nil {
		return n, err
	}
	n.ContentLayer = ContentLayer(dto.ContentLayer)
	return n, nil
}

func floatingIn(node NodeItem, dto *floatingJSON) (FloatingItem, error) {
	f := FloatingItem{
		NodeItem: node,
		Label:    DocItemLabel(dto.Label),
		Prov:     dto.Prov,
		Image:    dto.Image,
	}
	var err error
	if f.Captions, err = refsIn(dto.Captions); err != nil {
		return f, err
	}
	if f.References, err = refsIn(dto.References); err != nil {
		return f, err
	}
	if f.Footnotes, err = refsIn(dto.Footnotes); err != nil {
		return f, err
	}
	return f, nil
}

func tableDataIn(dto *tableDataJSON) (TableData, error) {
	data := TableData{NumRows: dto.NumRows, NumCols: dto.NumCols}
	for i := range dto.TableCells {
		c := &dto.TableCells[i]
		cell := &TableCell{
			BBox:              c.BBox,
			RowSpan:           c.RowSpan,
			ColSpan:           c.ColSpan,
			StartRowOffsetIdx: c.StartRowOffsetIdx,
			EndRowOffsetIdx:   c.EndRowOffsetIdx,
			StartColOffsetIdx: c.StartColOffsetIdx,
			EndColOffsetIdx:   c.EndColOffsetIdx,
			Text:              c.Text,
			ColumnHeader:      c.ColumnHeader,
			RowHeader:         c.RowHeader,
			RowSection:        c.RowSection,
		}
		var err error
		if cell.Ref, err = refPtrIn(c.Ref); err != nil {
			return data, err
		}
		data.TableCells = append(data.TableCells, cell)
	}
	return data, nil
}

func graphIn(dto *graphJSON) (GraphData, error) {
	var g GraphData
	for _, c := range dto.Cells {
		cell := GraphCell{
			Label:  GraphCellLabel(c.Label),
			CellID: c.CellID,
			Text:   c.Text,
			Orig:   c.Orig,
			Prov:   c.Prov,
		}
		var err error
		if cell.ItemRef, err = refPtrIn(c.ItemRef); err != nil {
			return g, err
		}
		g.Cells = append(g.Cells, cell)
	}
	for _, l := range dto.Links {
		g.Links = append(g.Links, GraphLink{
			Label:        GraphLinkLabel(l.Label),
			SourceCellID: l.SourceCellID,
			TargetCellID: l.TargetCellID,
		})
	}
	return g, nil
}

func fromDTO(dto *documentJSON) (*Document, error) {
	bodyNode, err := nodeIn(&dto.Body.nodeJSON)
	if err != nil {
		return nil, fmt.Errorf("document body: %w", err)
	}
	d := &Document{
		Version: dto.Version,
		Name:    dto.Name,
		Origin:  dto.Origin,
		Body:    &GroupItem{NodeItem: bodyNode, Name: dto.Body.Name, Label: GroupLabel(dto.Body.Label)},
		Pages:   make(map[int]*PageItem),
	}

	for i := range dto.Groups {
		g := &dto.Groups[i]
		node, err := nodeIn(&g.nodeJSON)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		d.Groups = append(d.Groups, &GroupItem{NodeItem: node, Name: g.Name, Label: GroupLabel(g.Label)})
	}
	for i := range dto.Texts {
		t := &dto.Texts[i]
		node, err := nodeIn(&t.nodeJSON)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		item := &TextItem{
			NodeItem:     node,
			Label:        DocItemLabel(t.Label),
			Prov:         t.Prov,
			Orig:         t.Orig,
			Text:         t.Text,
			Level:        t.Level,
			Enumerated:   t.Enumerated,
			Marker:       t.Marker,
			CodeLanguage: CodeLanguageLabel(t.CodeLanguage),
			Formatting:   t.Formatting,
			Hyperlink:    t.Hyperlink,
		}
		if item.IsListItem() && item.Marker == "" {
			item.Marker = "-"
		}
		d.Texts = append(d.Texts, item)
	}
	for i := range dto.Pictures {
		p := &dto.Pictures[i]
		node, err := nodeIn(&p.nodeJSON)
		if err != nil {
			return nil, fmt.Errorf("picture %d: %w", i, err)
		}
		floating, err := floatingIn(node, &p.floatingJSON)
		if err != nil {
			return nil, fmt.Errorf("picture %d: %w", i, err)
		}
		d.Pictures = append(d.Pictures, &PictureItem{FloatingItem: floating})
	}
	for i := range dto.Tables {
		t := &dto.Tables[i]
		node, err := nodeIn(&t.nodeJSON)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		floating, err := floatingIn(node, &t.floatingJSON)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		data, err := tableDataIn(&t.Data)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		d.Tables = append(d.Tables, &TableItem{FloatingItem: floating, Data: data})
	}
	for i := range dto.KeyValueItems {
		kv := &dto.KeyValueItems[i]
		node, err := nodeIn(&kv.nodeJSON)
		if err != nil {
			return nil, fmt.Errorf("key-value item %d: %w", i, err)
		}
		floating, err := floatingIn(node, &kv.floatingJSON)
		if err != nil {
			return nil, fmt.Errorf("key-value item %d: %w", i, err)
		}
		graph, err := graphIn(&kv.Graph)
		if err != nil {
			return nil, fmt.Errorf("key-value item %d: %w", i, err)
		}
		d.KeyValueItems = append(d.KeyValueItems, &KeyValueItem{FloatingItem: floating, Graph: graph})
	}
	for i := range dto.FormItems {
		f := &dto.FormItems[i]
		node, err := nodeIn(&f.nodeJSON)
		if err != nil {
			return nil, fmt.Errorf("form item %d: %w", i, err)
		}
		floating, err := floatingIn(node, &f.floatingJSON)
		if err != nil {
			return nil, fmt.Errorf("form item %d: %w", i, err)
		}
		graph, err := graphIn(&f.Graph)
		if err != nil {
			return nil, fmt.Errorf("form item %d: %w", i, err)
		}
		d.FormItems = append(d.FormItems, &FormItem{FloatingItem: floating, Graph: graph})
	}
	for no, p := range dto.Pages {
		d.Pages[no] = &PageItem{Size: p.Size, Image: p.Image, PageNo: p.PageNo}
	}
	return d, nil
}

// ---- version gating ----

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// checkVersion gates loading on schema compatibility: the major version
// must match and the minor version must not exceed CurrentVersion.
func checkVersion(v string) error {
	cur := versionPattern.FindStringSubmatch(CurrentVersion)
	got := versionPattern.FindStringSubmatch(v)
	if got == nil {
		return fmt.Errorf("document version %q is not a semantic version: %w", v, ErrIncompatibleVersion)
	}
	if got[1] != cur[1] {
		return fmt.Errorf("document version %s incompatible with schema version %s: %w",
			v, CurrentVersion, ErrIncompatibleVersion)
	}
	gotMinor, _ := strconv.Atoi(got[2])
	curMinor, _ := strconv.Atoi(cur[2])
	if gotMinor > curMinor {
		return fmt.Errorf("document version %s incompatible with schema version %s: %w",
			v, CurrentVersion, ErrIncompatibleVersion)
	}
	return nil
}

// loadDTO turns a decoded DTO into a validated, healed document.
func loadDTO(dto *documentJSON) (*Document, error) {
	if dto.SchemaName != "" && dto.SchemaName != SchemaName {
		return nil, fmt.Errorf("unexpected schema name %q: %w", dto.SchemaName, ErrIncompatibleVersion)
	}
	if err := checkVersion(dto.Version); err != nil {
		return nil, err
	}
	d, err := fromDTO(dto)
	if err != nil {
		return nil, err
	}
	if !d.ValidateTree(d.Body) {
		return nil, fmt.Errorf("document hierarchy is inconsistent: %w", ErrStructure)
	}
	if err := d.HealListItems(); err != nil {
		return nil, err
	}
	d.Version = CurrentVersion
	return d, nil
}

// ---- JSON ----

// WriteJSON writes the document to w as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d.toDTO())
}

// ReadJSON reads a JSON document from r, validating the schema version and
// the tree and healing misplaced list items.
func ReadJSON(r io.Reader) (*Document, error) {
	var dto documentJSON
	if err := json.NewDecoder(r).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decoding document JSON: %w", err)
	}
	return loadDTO(&dto)
}

// SaveAsJSON writes the document to a JSON file.
func (d *Document) SaveAsJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFromJSON reads a document from a JSON file.
func LoadFromJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// ---- YAML ----

// WriteYAML writes the document to w as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(d.toDTO())
}

// ReadYAML reads a YAML document from r, validating the schema version and
// the tree and healing misplaced list items.
func ReadYAML(r io.Reader) (*Document, error) {
	var dto documentJSON
	if err := yaml.NewDecoder(r).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decoding document YAML: %w", err)
	}
	return loadDTO(&dto)
}

// SaveAsYAML writes the document to a YAML file.
func (d *Document) SaveAsYAML(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFromYAML reads a document from a YAML file.
func LoadFromYAML(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYAML(f)
}

// ---- format auto-detection ----

// Save writes the document to path, picking YAML or JSON from the file
// extension. Unknown extensions are written as JSON.
func (d *Document) Save(path string) error {
	if format.Detect(path) == format.YAML {
		return d.SaveAsYAML(path)
	}
	return d.SaveAsJSON(path)
}

// Load reads a document from path. The serialization format is detected
// from the file extension, falling back to content sniffing.
func Load(path string) (*Document, error) {
	f := format.Detect(path)
	if f == format.Unknown {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		f = format.DetectFromMagic(data)
	}
	if f == format.YAML {
		return LoadFromYAML(path)
	}
	return LoadFromJSON(path)
}
