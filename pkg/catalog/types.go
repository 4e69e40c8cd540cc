package catalog

// Kind is the category of a catalogue item.
type Kind string

const (
	KindComponent Kind = "component"
	KindHook      Kind = "hook"
	KindHelper    Kind = "helper"
)

// Kinds lists every item kind in catalogue order.
var Kinds = []Kind{KindComponent, KindHook, KindHelper}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindComponent || k == KindHook || k == KindHelper
}

// CatalogueVersion is written into catalogue.json.
const CatalogueVersion = "1.0.0"

// IndexVersion is written into index.json.
const IndexVersion = "2.0.0"

// Catalogue is the flat searchable listing, catalogue.json.
type Catalogue struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generatedAt"`
	Stats       Stats  `json:"stats"`
	Items       []Item `json:"items"`
}

// Stats are recomputed from Items on every write.
type Stats struct {
	TotalComponents   int     `json:"totalComponents"`
	TotalHooks        int     `json:"totalHooks"`
	TotalHelpers      int     `json:"totalHelpers"`
	TotalItems        int     `json:"totalItems"`
	ItemsWithMetadata int     `json:"itemsWithMetadata"`
	CoveragePercent   float64 `json:"coveragePercent"`
}

// Item is one catalogue entry.
type Item struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	Name       string   `json:"name"`
	Summary    string   `json:"summary,omitempty"`
	Keywords   []string `json:"keywords"`
	Tags       []string `json:"tags"`
	Source     Source   `json:"source"`
	DetailsRef string   `json:"detailsRef"`
}

// Source locates an item in the analysed library.
type Source struct {
	Path       string `json:"path,omitempty"`
	ModuleSpec string `json:"moduleSpec,omitempty"`
}

// PropField is one flattened prop.
type PropField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Optional    bool   `json:"optional"`
	Description string `json:"description,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// DependentTypeKind says where a dependent type was found.
type DependentTypeKind string

const (
	DepEnum      DependentTypeKind = "enum"
	DepType      DependentTypeKind = "type"
	DepInterface DependentTypeKind = "interface"
	DepImport    DependentTypeKind = "import"
	// DepTruncated marks a name whose resolution stopped at the depth limit.
	DepTruncated DependentTypeKind = "truncated"
)

// DependentType is a named type referenced from a props field. Local
// declarations carry Text; external ones carry From.
type DependentType struct {
	Kind DependentTypeKind `json:"kind"`
	Text string            `json:"text,omitempty"`
	From string            `json:"from,omitempty"`
}

// PropsInfo is the props section of a detail record.
type PropsInfo struct {
	Fields         []PropField              `json:"fields"`
	Raw            string                   `json:"raw,omitempty"`
	DependentTypes map[string]DependentType `json:"dependentTypes"`
}

// Param is one parameter of a hook or helper signature.
type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

// Signature describes a hook or helper.
type Signature struct {
	Kind       string  `json:"kind,omitempty"` // "function", "variable" or "class"
	Parameters []Param `json:"parameters,omitempty"`
	ReturnType string  `json:"returnType,omitempty"`
	Raw        string  `json:"raw,omitempty"`
}

// Story is one example story of a component.
type Story struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	FilePath string   `json:"filePath,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Detail is the full record of one item, items/<kind>__<slug>.json.
type Detail struct {
	ID                string                   `json:"id"`
	Kind              Kind                     `json:"kind"`
	Name              string                   `json:"name"`
	DisplayName       string                   `json:"displayName"`
	Summary           string                   `json:"summary,omitempty"`
	Description       string                   `json:"description,omitempty"`
	Keywords          []string                 `json:"keywords"`
	Tags              []string                 `json:"tags"`
	Source            Source                   `json:"source"`
	Category          string                   `json:"category,omitempty"`
	Props             *PropsInfo               `json:"props,omitempty"`
	Signature         *Signature               `json:"signature,omitempty"`
	DependentTypes    map[string]DependentType `json:"dependentTypes,omitempty"`
	Stories           []Story                  `json:"stories,omitempty"`
	StoryCount        int                      `json:"storyCount"`
	HasStorybook      bool                     `json:"hasStorybook"`
	RelatedComponents []string                 `json:"relatedComponents,omitempty"`
	GeneratedAt       string                   `json:"generatedAt"`
}

// Overlay is author-supplied metadata for one export.
type Overlay struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name,omitempty"`
	Summary           string   `json:"summary,omitempty"`
	Description       string   `json:"description,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Keywords          []string `json:"keywords,omitempty"`
	RelatedComponents []string `json:"relatedComponents,omitempty"`
}

// UnifiedIndex is the lightweight listing in index.json.
type UnifiedIndex struct {
	Version     string           `json:"version"`
	GeneratedAt string           `json:"generatedAt"`
	Stats       IndexStats       `json:"stats"`
	Components  []IndexComponent `json:"components"`
	Hooks       []IndexFunction  `json:"hooks"`
	Helpers     []IndexFunction  `json:"helpers"`
}

// IndexStats summarises the unified index.
type IndexStats struct {
	TotalComponents         int `json:"totalComponents"`
	CoreComponents          int `json:"coreComponents"`
	CommonComponents        int `json:"commonComponents"`
	ComponentsWithStorybook int `json:"componentsWithStorybook"`
	TotalHooks              int `json:"totalHooks"`
	TotalHelpers            int `json:"totalHelpers"`
}

// IndexComponent is a component row of the unified index.
type IndexComponent struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DisplayName   string   `json:"displayName"`
	ComponentPath string   `json:"componentPath"`
	StoryCount    int      `json:"storyCount"`
	HasStorybook  bool     `json:"hasStorybook"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
}

// IndexFunction is a hook or helper row of the unified index.
type IndexFunction struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	FilePath  string     `json:"filePath"`
	Signature *Signature `json:"signature,omitempty"`
}

// Category values for components.
const (
	CategoryCore   = "core"
	CategoryCommon = "common"
)
