package figma

// VariableType is the declared type of a Figma variable (COLOR, FLOAT, STRING or BOOLEAN).
type VariableType string

// Declared variable types.
const (
	VariableColor   VariableType = "COLOR"
	VariableFloat   VariableType = "FLOAT"
	VariableString  VariableType = "STRING"
	VariableBoolean VariableType = "BOOLEAN"
)

// PaintType is the kind of a paint layer. Only SOLID and GRADIENT_LINEAR produce tokens,
// the rest are listed so that callers can switch over the full set.
type PaintType string

// Paint kinds.
const (
	PaintSolid           PaintType = "SOLID"
	PaintGradientLinear  PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial  PaintType = "GRADIENT_RADIAL"
	PaintGradientAngular PaintType = "GRADIENT_ANGULAR"
	PaintGradientDiamond PaintType = "GRADIENT_DIAMOND"
	PaintImage           PaintType = "IMAGE"
	PaintVideo           PaintType = "VIDEO"
)

// EffectType is the kind of a visual effect.
type EffectType string

// Effect kinds.
const (
	EffectDropShadow     EffectType = "DROP_SHADOW"
	EffectInnerShadow    EffectType = "INNER_SHADOW"
	EffectLayerBlur      EffectType = "LAYER_BLUR"
	EffectBackgroundBlur EffectType = "BACKGROUND_BLUR"
)

// Unit is the unit of a text line height or letter spacing.
type Unit string

// Text units.
const (
	UnitPixels  Unit = "PIXELS"
	UnitPercent Unit = "PERCENT"
	UnitAuto    Unit = "AUTO"
)

// GridPattern is the pattern of a layout grid.
type GridPattern string

// Layout grid patterns.
const (
	GridColumns GridPattern = "COLUMNS"
	GridRows    GridPattern = "ROWS"
	GridGrid    GridPattern = "GRID"
)

// Node types the extractors care about.
const (
	NodeDocument     = "DOCUMENT"
	NodeCanvas       = "CANVAS"
	NodeFrame        = "FRAME"
	NodeComponent    = "COMPONENT"
	NodeComponentSet = "COMPONENT_SET"
	NodeInstance     = "INSTANCE"
	NodeRectangle    = "RECTANGLE"
)

// LayoutModeNone marks a frame without auto-layout.
const LayoutModeNone = "NONE"

// DocumentInfo identifies the document a snapshot was read from.
type DocumentInfo struct {
	FileKey      string `json:"fileKey"`
	Name         string `json:"name"`
	LastModified string `json:"lastModified,omitempty"`
}

// Mode is one named value set of a variable collection (e.g. "light" or "dark").
type Mode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

// VariableCollection groups variables that share the same set of modes.
type VariableCollection struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Modes         []Mode `json:"modes"`
	DefaultModeID string `json:"defaultModeId"`
}

// Variable is a multi-mode design value. It belongs to exactly one collection and holds
// at most one value per mode id.
type Variable struct {
	ID                   string                   `json:"id"`
	Name                 string                   `json:"name"`
	ResolvedType         VariableType             `json:"resolvedType"`
	ValuesByMode         map[string]VariableValue `json:"valuesByMode"`
	VariableCollectionID string                   `json:"variableCollectionId"`
	Description          string                   `json:"description,omitempty"`
}

// Color represents an RGBA color with float values ranging from 0 to 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ColorStop is a single stop of a gradient paint. Position ranges from 0 to 1.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Paint represents a fill layer of a paint style.
type Paint struct {
	Type          PaintType   `json:"type"`
	Visible       *bool       `json:"visible,omitempty"`
	Opacity       *float64    `json:"opacity,omitempty"`
	Color         *Color      `json:"color,omitempty"`
	GradientStops []ColorStop `json:"gradientStops,omitempty"`
}

// PaintStyle is a local color style. Paints are ordered bottom to top as in the editor.
type PaintStyle struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Paints      []Paint `json:"paints"`
}

// FontName is a font family plus its style name ("Regular", "Bold Italic", ...).
type FontName struct {
	Family string `json:"family"`
	Style  string `json:"style"`
}

// Measure is a value with a unit, used for line height and letter spacing.
// Value is ignored when Unit is AUTO.
type Measure struct {
	Unit  Unit    `json:"unit"`
	Value float64 `json:"value,omitempty"`
}

// TextStyle is a local typography style.
type TextStyle struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	FontName      FontName `json:"fontName"`
	FontSize      float64  `json:"fontSize"`
	LineHeight    Measure  `json:"lineHeight"`
	LetterSpacing Measure  `json:"letterSpacing"`
}

// Effect represents a visual effect such as drop shadows, inner shadows, or blurs.
type Effect struct {
	Type      EffectType `json:"type"`
	Visible   bool       `json:"visible"`
	Radius    float64    `json:"radius"`
	Color     *Color     `json:"color,omitempty"`
	Offset    *Vector    `json:"offset,omitempty"`
	Spread    float64    `json:"spread,omitempty"`
	BlendMode string     `json:"blendMode,omitempty"`
}

// Vector represents a 2D coordinate or offset with X and Y values.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EffectStyle is a local effect style holding one or more effects.
type EffectStyle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Effects     []Effect `json:"effects"`
}

// LayoutGrid is a layout grid attached to a frame. Zero numeric fields mean "not set".
type LayoutGrid struct {
	Pattern     GridPattern `json:"pattern"`
	Count       float64     `json:"count,omitempty"`
	GutterSize  float64     `json:"gutterSize,omitempty"`
	Offset      float64     `json:"offset,omitempty"`
	SectionSize float64     `json:"sectionSize,omitempty"`
	Alignment   string      `json:"alignment,omitempty"`
	Visible     *bool       `json:"visible,omitempty"`
}

// Node represents a single element in the document tree. The pointer fields are nil when the
// property is absent or mixed, which lets extractors distinguish "not numeric" from zero.
type Node struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Children      []Node       `json:"children,omitempty"`
	LayoutMode    string       `json:"layoutMode,omitempty"`
	ItemSpacing   *float64     `json:"itemSpacing,omitempty"`
	PaddingTop    *float64     `json:"paddingTop,omitempty"`
	PaddingRight  *float64     `json:"paddingRight,omitempty"`
	PaddingBottom *float64     `json:"paddingBottom,omitempty"`
	PaddingLeft   *float64     `json:"paddingLeft,omitempty"`
	CornerRadius  *float64     `json:"cornerRadius,omitempty"`
	LayoutGrids   []LayoutGrid `json:"layoutGrids,omitempty"`
}

// IsFrameLike reports whether the node can carry auto-layout and layout grids.
func (n *Node) IsFrameLike() bool {
	switch n.Type {
	case NodeFrame, NodeComponent, NodeComponentSet, NodeInstance:
		return true
	}
	return false
}

// IsAutoLayout reports whether the node is a frame-like node with auto-layout enabled.
func (n *Node) IsAutoLayout() bool {
	return n.IsFrameLike() && n.LayoutMode != "" && n.LayoutMode != LayoutModeNone
}

// Float returns a pointer to v. Handy when building snapshots in code.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
