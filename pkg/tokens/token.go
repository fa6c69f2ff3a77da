package tokens

import (
	"encoding/json"
	"time"

	"github.com/kataras/figma-token-exporter/pkg/figma"
)

// Type is the category tag of a token.
type Type string

// Token types. The set is closed: every leaf carries one of these.
const (
	TypeColor      Type = "color"
	TypeDimension  Type = "dimension"
	TypeGradient   Type = "gradient"
	TypeTypography Type = "typography"
	TypeBoxShadow  Type = "boxShadow"
	TypeGrid       Type = "grid"
	TypeOther      Type = "other"
)

// Metadata is free-form provenance attached to synthesized tokens.
type Metadata struct {
	FigmaID      string `json:"figmaId,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

// Token is a single named, typed design value.
type Token struct {
	Value       Value     `json:"value"`
	Type        Type      `json:"type"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Deprecated  bool      `json:"deprecated,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Value is the value of a token. The implementations below are the only ones.
type Value interface {
	tokenValue()
}

// StringValue is a formatted scalar such as "#ff0080", "16px" or "{Brand/Primary}".
type StringValue string

// BoolValue is a boolean variable value passed through unchanged.
type BoolValue bool

// NumberValue is a number that was not formatted as a dimension.
type NumberValue float64

// RawValue is any other host value, kept verbatim.
type RawValue json.RawMessage

// TypographyValue is the value of a typography token.
type TypographyValue struct {
	FontFamily    string `json:"fontFamily"`
	FontWeight    string `json:"fontWeight"`
	FontSize      string `json:"fontSize"`
	LineHeight    string `json:"lineHeight"`
	LetterSpacing string `json:"letterSpacing"`
}

// ShadowValue is a formatted drop or inner shadow.
type ShadowValue struct {
	Type    string `json:"type"`
	Color   string `json:"color"`
	OffsetX string `json:"offsetX"`
	OffsetY string `json:"offsetY"`
	Blur    string `json:"blur"`
	Spread  string `json:"spread"`
}

// Shadow kinds of a ShadowValue.
const (
	ShadowDrop  = "dropShadow"
	ShadowInner = "innerShadow"
)

// RawEffect is an effect other than a shadow, emitted as the host describes it.
type RawEffect figma.Effect

// EffectList is the value of an effect style holding more than one effect.
// Its elements are ShadowValue or RawEffect.
type EffectList []Value

// GridValue is the value of a column layout grid token.
type GridValue struct {
	Type    string  `json:"type"`
	Columns float64 `json:"columns"`
	Gutter  string  `json:"gutter"`
	Margin  string  `json:"margin"`
}

func (StringValue) tokenValue()     {}
func (BoolValue) tokenValue()       {}
func (NumberValue) tokenValue()     {}
func (RawValue) tokenValue()        {}
func (TypographyValue) tokenValue() {}
func (ShadowValue) tokenValue()     {}
func (RawEffect) tokenValue()       {}
func (EffectList) tokenValue()      {}
func (GridValue) tokenValue()       {}

// MarshalJSON writes the raw bytes unchanged.
func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

const timeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t as an ISO-8601 UTC timestamp with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
