package tokens

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kataras/figma-token-exporter/pkg/figma"
)

// Resolver returns the name of the variable with the given id.
type Resolver func(id string) (name string, ok bool)

// FormatNumber renders n in its shortest decimal form ("8", "0.5", "-2").
func FormatNumber(n float64) string {
	if n == 0 {
		return "0" // also covers -0
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// channel scales a 0-1 color channel to 0-255, rounding half up.
func channel(c float64) int {
	if math.IsNaN(c) {
		return 0
	}
	v := math.Floor(c*255 + 0.5)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(v)
}

// FormatColor converts 0-1 channels to a lowercase "#rrggbb" string.
func FormatColor(r, g, b float64) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(r), channel(g), channel(b))
}

// FormatColorWithAlpha converts 0-1 channels to "rgba(R, G, B, A)". The alpha is written as is.
func FormatColorWithAlpha(r, g, b, a float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel(r), channel(g), channel(b), FormatNumber(a))
}

func formatRGBA(c figma.Color) string {
	return FormatColorWithAlpha(c.R, c.G, c.B, c.A)
}

// FormatDimension renders a number as a pixel dimension.
func FormatDimension(n float64) string {
	return FormatNumber(n) + "px"
}

// FormatGradient renders gradient stops as a CSS linear-gradient, keeping the stop order.
func FormatGradient(stops []figma.ColorStop) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		pct := math.Floor(s.Position*100 + 0.5)
		parts[i] = formatRGBA(s.Color) + " " + FormatNumber(pct) + "%"
	}
	return "linear-gradient(" + strings.Join(parts, ", ") + ")"
}

// FormatEffect maps drop and inner shadows to a ShadowValue. Every other effect kind is
// returned unchanged as a RawEffect.
func FormatEffect(e figma.Effect) Value {
	var kind string
	switch e.Type {
	case figma.EffectDropShadow:
		kind = ShadowDrop
	case figma.EffectInnerShadow:
		kind = ShadowInner
	default:
		return RawEffect(e)
	}

	var color figma.Color
	if e.Color != nil {
		color = *e.Color
	}
	var offset figma.Vector
	if e.Offset != nil {
		offset = *e.Offset
	}
	spread := "0px"
	if e.Spread != 0 {
		spread = FormatDimension(e.Spread)
	}

	return ShadowValue{
		Type:    kind,
		Color:   formatRGBA(color),
		OffsetX: FormatDimension(offset.X),
		OffsetY: FormatDimension(offset.Y),
		Blur:    FormatDimension(e.Radius),
		Spread:  spread,
	}
}

// FormatVariableValue formats one mode value of a variable. Aliases become "{name}" of the
// referenced variable, one level deep, or "{unknown}" when resolve cannot find it.
// COLOR values become hex strings and FLOAT values pixel dimensions; anything else,
// including a value whose shape does not match the declared type, is passed through.
func FormatVariableValue(v figma.VariableValue, declared figma.VariableType, resolve Resolver) Value {
	if v.IsAlias() {
		name := "unknown"
		if resolve != nil {
			if n, ok := resolve(v.AliasID); ok && n != "" {
				name = n
			}
		}
		return StringValue("{" + name + "}")
	}

	switch declared {
	case figma.VariableColor:
		if v.Kind == figma.ValueColor {
			return StringValue(FormatColor(v.Color.R, v.Color.G, v.Color.B))
		}
	case figma.VariableFloat:
		if v.Kind == figma.ValueFloat {
			return StringValue(FormatDimension(v.Float))
		}
	}
	return passThrough(v)
}

func passThrough(v figma.VariableValue) Value {
	switch v.Kind {
	case figma.ValueString:
		return StringValue(v.String)
	case figma.ValueBool:
		return BoolValue(v.Bool)
	case figma.ValueFloat:
		return NumberValue(v.Float)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return RawValue("null")
	}
	return RawValue(b)
}

// TokenTypeOf maps a declared variable type to a token type.
func TokenTypeOf(declared figma.VariableType) Type {
	switch declared {
	case figma.VariableColor:
		return TypeColor
	case figma.VariableFloat:
		return TypeDimension
	default:
		return TypeOther
	}
}
