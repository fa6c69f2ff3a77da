package tokens

import (
	"github.com/kataras/figma-token-exporter/pkg/figma"
)

// Collision describes a key written twice within the same tree level. The later entry
// replaces the earlier one.
type Collision struct {
	Scope string // path of the tree level, e.g. "variables/Theme"
	Key   string
}

// CollisionFunc receives collisions found while building a tree. It may be nil.
type CollisionFunc func(Collision)

func put(t *Tree, scope, key string, e Entry, report CollisionFunc) {
	if t.Set(key, e) && report != nil {
		report(Collision{Scope: scope, Key: key})
	}
}

// ExtractColorStyles emits one token per paint style, looking at the first paint only.
// A solid first paint gives a color token, a linear gradient a gradient token; styles whose
// first paint is anything else are skipped even when later paints would qualify.
func ExtractColorStyles(styles []figma.PaintStyle, report CollisionFunc) *Tree {
	out := NewTree()
	for _, style := range styles {
		if len(style.Paints) == 0 {
			continue
		}
		paint := style.Paints[0]

		tok := Token{Description: style.Description}
		switch paint.Type {
		case figma.PaintSolid:
			if paint.Color == nil {
				continue
			}
			tok.Type = TypeColor
			tok.Value = StringValue(FormatColor(paint.Color.R, paint.Color.G, paint.Color.B))
		case figma.PaintGradientLinear:
			tok.Type = TypeGradient
			tok.Value = StringValue(FormatGradient(paint.GradientStops))
		default:
			continue
		}
		put(out, categoryColors, Sanitize(style.Name), Leaf(tok), report)
	}
	return out
}

// ExtractTextStyles emits one typography token per text style.
func ExtractTextStyles(styles []figma.TextStyle, report CollisionFunc) *Tree {
	out := NewTree()
	for _, style := range styles {
		tok := Token{
			Type:        TypeTypography,
			Description: style.Description,
			Value: TypographyValue{
				FontFamily:    style.FontName.Family,
				FontWeight:    style.FontName.Style,
				FontSize:      FormatDimension(style.FontSize),
				LineHeight:    formatMeasure(style.LineHeight, "auto"),
				LetterSpacing: formatMeasure(style.LetterSpacing, "normal"),
			},
		}
		put(out, categoryTypography, Sanitize(style.Name), Leaf(tok), report)
	}
	return out
}

func formatMeasure(m figma.Measure, fallback string) string {
	switch m.Unit {
	case figma.UnitPixels:
		return FormatDimension(m.Value)
	case figma.UnitPercent:
		return FormatNumber(m.Value) + "%"
	default:
		return fallback
	}
}

// ExtractEffectStyles emits one boxShadow token per effect style. A style with a single
// effect holds that effect as its value; a style with several holds an EffectList.
func ExtractEffectStyles(styles []figma.EffectStyle, report CollisionFunc) *Tree {
	out := NewTree()
	for _, style := range styles {
		if len(style.Effects) == 0 {
			continue
		}

		var value Value
		if len(style.Effects) == 1 {
			value = FormatEffect(style.Effects[0])
		} else {
			list := make(EffectList, len(style.Effects))
			for i, e := range style.Effects {
				list[i] = FormatEffect(e)
			}
			value = list
		}

		tok := Token{Value: value, Type: TypeBoxShadow, Description: style.Description}
		put(out, categoryEffects, Sanitize(style.Name), Leaf(tok), report)
	}
	return out
}
