package figma

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FileResponse represents the response from the Figma file API endpoint.
// Styles maps the id of every style definition node to its published metadata, in document order.
type FileResponse struct {
	Name          string                                `json:"name"`
	LastModified  string                                `json:"lastModified"`
	ThumbnailURL  string                                `json:"thumbnailUrl"`
	Version       string                                `json:"version"`
	Document      RESTNode                              `json:"document"`
	Styles        *orderedmap.OrderedMap[string, Style] `json:"styles"`
	SchemaVersion int                                   `json:"schemaVersion"`
}

// NodesResponse represents the response from the Figma nodes API endpoint when fetching specific nodes.
// A requested id that does not exist maps to a nil NodeData.
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps a node with its document structure.
type NodeData struct {
	Document RESTNode `json:"document"`
}

// Style represents published style metadata. StyleType is FILL, TEXT, EFFECT or GRID.
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"styleType"`
	Remote      bool   `json:"remote"`
}

// Published style kinds.
const (
	StyleFill   = "FILL"
	StyleText   = "TEXT"
	StyleEffect = "EFFECT"
	StyleGrid   = "GRID"
)

// RESTNode is a node as the REST API returns it. Numeric layout fields are omitted by the
// API when they hold their default, so they are pointers here.
type RESTNode struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Children      []RESTNode   `json:"children,omitempty"`
	Fills         []Paint      `json:"fills,omitempty"`
	Effects       []Effect     `json:"effects,omitempty"`
	Style         *TypeStyle   `json:"style,omitempty"`
	LayoutMode    string       `json:"layoutMode,omitempty"`
	ItemSpacing   *float64     `json:"itemSpacing,omitempty"`
	PaddingLeft   *float64     `json:"paddingLeft,omitempty"`
	PaddingRight  *float64     `json:"paddingRight,omitempty"`
	PaddingTop    *float64     `json:"paddingTop,omitempty"`
	PaddingBottom *float64     `json:"paddingBottom,omitempty"`
	CornerRadius  *float64     `json:"cornerRadius,omitempty"`
	LayoutGrids   []LayoutGrid `json:"layoutGrids,omitempty"`
}

// TypeStyle represents the text styling properties of a TEXT node or text style definition.
type TypeStyle struct {
	FontFamily                string  `json:"fontFamily"`
	FontPostScriptName        string  `json:"fontPostScriptName"`
	FontStyle                 string  `json:"fontStyle,omitempty"`
	FontWeight                float64 `json:"fontWeight"`
	Italic                    bool    `json:"italic,omitempty"`
	FontSize                  float64 `json:"fontSize"`
	LetterSpacing             float64 `json:"letterSpacing"`
	LineHeightPx              float64 `json:"lineHeightPx"`
	LineHeightPercentFontSize float64 `json:"lineHeightPercentFontSize,omitempty"`
	LineHeightUnit            string  `json:"lineHeightUnit,omitempty"`
}

// REST line height units.
const (
	LineHeightPixels          = "PIXELS"
	LineHeightFontSizePercent = "FONT_SIZE_%"
	LineHeightIntrinsic       = "INTRINSIC_%"
)

// LocalVariablesResponse is the response of the local variables endpoint.
// Both maps keep the order the API returned them in.
type LocalVariablesResponse struct {
	Status int  `json:"status"`
	Error  bool `json:"error"`
	Meta   struct {
		Variables           *orderedmap.OrderedMap[string, RESTVariable]           `json:"variables"`
		VariableCollections *orderedmap.OrderedMap[string, RESTVariableCollection] `json:"variableCollections"`
	} `json:"meta"`
}

// RESTVariable is a variable as the REST API returns it.
type RESTVariable struct {
	Variable
	Key    string `json:"key"`
	Remote bool   `json:"remote"`
}

// RESTVariableCollection is a variable collection as the REST API returns it.
// VariableIDs lists the collection's variables in editor order.
type RESTVariableCollection struct {
	VariableCollection
	Key         string   `json:"key"`
	Remote      bool     `json:"remote"`
	VariableIDs []string `json:"variableIds"`
}
