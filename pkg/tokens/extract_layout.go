package tokens

import (
	"slices"
	"strconv"
	"time"

	"github.com/kataras/figma-token-exporter/pkg/figma"
)

// Grid defaults used when a layout grid leaves a field unset.
const (
	defaultGridColumns = 12
	defaultGridGutter  = 20
)

// ExtractGrids emits one grid token per distinct (count, gutter) pair of the COLUMNS layout
// grids found on frame-like nodes. The first grid seen for a pair wins.
func ExtractGrids(nodes []*figma.Node, report CollisionFunc) *Tree {
	out := NewTree()
	seen := make(map[string]bool)

	for _, n := range nodes {
		if !n.IsFrameLike() {
			continue
		}
		for _, g := range n.LayoutGrids {
			if g.Pattern != figma.GridColumns {
				continue
			}
			id := FormatNumber(g.Count) + "-col-" + FormatNumber(g.GutterSize)
			if seen[id] {
				continue
			}
			seen[id] = true

			columns, gutter := g.Count, g.GutterSize
			if columns == 0 {
				columns = defaultGridColumns
			}
			if gutter == 0 {
				gutter = defaultGridGutter
			}

			tok := Token{
				Type:     TypeGrid,
				Category: "layout",
				Value: GridValue{
					Type:    "grid",
					Columns: columns,
					Gutter:  FormatDimension(gutter),
					Margin:  FormatDimension(g.Offset),
				},
			}
			put(out, categoryGrids, Sanitize(id), Leaf(tok), report)
		}
	}
	return out
}

// ExtractSpacing builds a spacing scale from the item spacing and paddings of auto-layout
// nodes. Distinct values are sorted ascending and named spacing-0, spacing-2, spacing-4...
func ExtractSpacing(nodes []*figma.Node, now time.Time) *Tree {
	var values []float64
	for _, n := range nodes {
		if !n.IsAutoLayout() {
			continue
		}
		for _, p := range []*float64{n.ItemSpacing, n.PaddingTop, n.PaddingRight, n.PaddingBottom, n.PaddingLeft} {
			if p != nil {
				values = append(values, *p)
			}
		}
	}

	out := NewTree()
	stamp := FormatTime(now)
	for i, v := range sortedUnique(values) {
		out.SetToken("spacing-"+strconv.Itoa(i*2), Token{
			Value:    StringValue(FormatDimension(v)),
			Type:     TypeDimension,
			Category: "spacing",
			Metadata: &Metadata{
				FigmaID:      "spacing-" + FormatNumber(v),
				LastModified: stamp,
			},
		})
	}
	return out
}

var radiusNames = []string{"none", "xs", "sm", "md", "lg", "xl", "2xl", "3xl", "full"}

// fullyRounded is the corner radius designers use for pills and circles.
const fullyRounded = 999

// ExtractBorderRadius builds a radius scale from the non-zero corner radii of rectangles.
// Distinct values are sorted ascending and named after radiusNames, then by index.
func ExtractBorderRadius(nodes []*figma.Node, now time.Time) *Tree {
	var values []float64
	for _, n := range nodes {
		if n.Type != figma.NodeRectangle || n.CornerRadius == nil || *n.CornerRadius == 0 {
			continue
		}
		values = append(values, *n.CornerRadius)
	}

	out := NewTree()
	stamp := FormatTime(now)
	for i, v := range sortedUnique(values) {
		name := strconv.Itoa(i)
		if i < len(radiusNames) {
			name = radiusNames[i]
		}

		value := FormatDimension(v)
		if v == fullyRounded {
			value = "50%"
		}

		out.SetToken("radius-"+name, Token{
			Value:    StringValue(value),
			Type:     TypeDimension,
			Category: "border-radius",
			Metadata: &Metadata{
				FigmaID:      "radius-" + FormatNumber(v),
				LastModified: stamp,
			},
		})
	}
	return out
}

func sortedUnique(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
