package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-token-exporter/pkg/figma"
)

func fixtureSnapshot() *figma.Snapshot {
	return &figma.Snapshot{
		Info: figma.DocumentInfo{FileKey: "F1", Name: "Design System"},
		Collections: []figma.VariableCollection{{
			ID: "c", Name: "Theme",
			Modes:         []figma.Mode{{ModeID: "l", Name: "light"}, {ModeID: "d", Name: "dark"}},
			DefaultModeID: "l",
		}},
		Variables: []figma.Variable{{
			ID: "v1", Name: "surface", ResolvedType: figma.VariableColor, VariableCollectionID: "c",
			ValuesByMode: map[string]figma.VariableValue{
				"l": figma.AliasValue("lib1"),
				"d": figma.ColorValue(figma.Color{A: 1}),
			},
		}},
		LibraryVariables: []figma.Variable{{ID: "lib1", Name: "Neutral/0", ResolvedType: figma.VariableColor}},
		TextStyles: []figma.TextStyle{{
			Name: "Body", FontName: figma.FontName{Family: "Inter", Style: "Regular"}, FontSize: 16,
			LineHeight: figma.Measure{Unit: figma.UnitAuto}, LetterSpacing: figma.Measure{Unit: figma.UnitPixels},
		}},
		EffectStyles: []figma.EffectStyle{{
			Name:    "Shadow",
			Effects: []figma.Effect{{Type: figma.EffectDropShadow, Radius: 2, Color: &figma.Color{A: 1}}},
		}},
		CurrentPage: figma.Node{ID: "page", Type: figma.NodeCanvas, Children: []figma.Node{
			{ID: "f", Type: figma.NodeFrame, LayoutMode: "VERTICAL", ItemSpacing: figma.Float(12),
				LayoutGrids: []figma.LayoutGrid{{Pattern: figma.GridColumns, Count: 4, GutterSize: 16, Offset: 8}},
				Children: []figma.Node{
					{ID: "r", Type: figma.NodeRectangle, CornerRadius: figma.Float(6)},
				}},
		}},
	}
}

func fixedClock() time.Time { return testNow }

func TestExtractAggregatesInFixedOrder(t *testing.T) {
	tree, err := NewExtractor(fixtureSnapshot(), WithClock(fixedClock)).Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"variables", "typography", "effects", "grids", "spacing", "borderRadius"}, tree.Keys())
	_, hasColors := tree.Get("colors")
	assert.False(t, hasColors, "empty categories are omitted")

	assert.JSONEq(t, `{
	  "variables": {"Theme": {"surface": {
	    "light": {"value": "{Neutral/0}", "type": "color"},
	    "dark": {"value": "#000000", "type": "color"}
	  }}},
	  "typography": {"Body": {"type": "typography", "value": {
	    "fontFamily": "Inter", "fontWeight": "Regular", "fontSize": "16px", "lineHeight": "auto", "letterSpacing": "0px"}}},
	  "effects": {"Shadow": {"type": "boxShadow", "value": {
	    "type": "dropShadow", "color": "rgba(0, 0, 0, 1)", "offsetX": "0px", "offsetY": "0px", "blur": "2px", "spread": "0px"}}},
	  "grids": {"4-col-16": {"type": "grid", "category": "layout", "value": {"type": "grid", "columns": 4, "gutter": "16px", "margin": "8px"}}},
	  "spacing": {"spacing-0": {"value": "12px", "type": "dimension", "category": "spacing",
	    "metadata": {"figmaId": "spacing-12", "lastModified": "2026-03-04T05:06:07.890Z"}}},
	  "borderRadius": {"radius-none": {"value": "6px", "type": "dimension", "category": "border-radius",
	    "metadata": {"figmaId": "radius-6", "lastModified": "2026-03-04T05:06:07.890Z"}}}
	}`, mustJSON(t, tree))
}

func TestExtractIsDeterministic(t *testing.T) {
	snap := fixtureSnapshot()
	ctx := context.Background()

	first, err := NewExtractor(snap, WithClock(fixedClock)).Extract(ctx)
	require.NoError(t, err)
	second, err := NewExtractor(snap, WithClock(fixedClock)).Extract(ctx)
	require.NoError(t, err)

	assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
}

func TestExtractEmptyDocument(t *testing.T) {
	tree, err := NewExtractor(&figma.Snapshot{}).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, "{}", mustJSON(t, tree))
}

type failingSource struct {
	*figma.Snapshot
	failPaints   bool
	failLookup   bool
	refreshErr   error
	refreshCalls int
}

var errHostDown = errors.New("host unavailable")

func (s *failingSource) LocalPaintStyles(ctx context.Context) ([]figma.PaintStyle, error) {
	if s.failPaints {
		return nil, errHostDown
	}
	return s.Snapshot.LocalPaintStyles(ctx)
}

func (s *failingSource) VariableByID(ctx context.Context, id string) (figma.Variable, bool, error) {
	if s.failLookup {
		return figma.Variable{}, false, errHostDown
	}
	return s.Snapshot.VariableByID(ctx, id)
}

func (s *failingSource) Refresh(context.Context) error {
	s.refreshCalls++
	return s.refreshErr
}

func TestExtractHostFailures(t *testing.T) {
	tests := []struct {
		name   string
		src    *failingSource
		wantOp string
	}{
		{"paint styles", &failingSource{Snapshot: fixtureSnapshot(), failPaints: true}, "paint styles"},
		{"alias lookup", &failingSource{Snapshot: fixtureSnapshot(), failLookup: true}, "variable lib1"},
		{"refresh", &failingSource{Snapshot: fixtureSnapshot(), refreshErr: errHostDown}, "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(tt.src).Extract(context.Background())
			require.Error(t, err)

			var hostErr *HostError
			require.ErrorAs(t, err, &hostErr)
			assert.Equal(t, tt.wantOp, hostErr.Op)
			assert.ErrorIs(t, err, errHostDown)
		})
	}
}

func TestExtractRefreshesOncePerPass(t *testing.T) {
	src := &failingSource{Snapshot: fixtureSnapshot()}
	ex := NewExtractor(src)

	for range 2 {
		_, err := ex.Extract(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.refreshCalls)
}

// pinningSource serves live data that changes under the extractor, and a pinned read.
type pinningSource struct {
	*figma.Snapshot
	pinned *figma.Snapshot
	pins   int
}

func (s *pinningSource) Pin(context.Context) (figma.Source, error) {
	s.pins++
	return s.pinned, nil
}

func TestExtractReadsPinnedSource(t *testing.T) {
	live := fixtureSnapshot()
	live.PaintStyles = []figma.PaintStyle{
		{Name: "Live", Paints: []figma.Paint{{Type: figma.PaintSolid, Color: &figma.Color{R: 1, A: 1}}}},
	}
	pinned := fixtureSnapshot()
	pinned.PaintStyles = []figma.PaintStyle{
		{Name: "Pinned", Paints: []figma.Paint{{Type: figma.PaintSolid, Color: &figma.Color{B: 1, A: 1}}}},
	}
	src := &pinningSource{Snapshot: live, pinned: pinned}

	tree, err := NewExtractor(src).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.pins)

	colors, _ := mustTree(t, tree, "colors")
	_, ok := colors.Get("Pinned")
	assert.True(t, ok)
	_, ok = colors.Get("Live")
	assert.False(t, ok)
}

func TestExtractCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(fixtureSnapshot()).Extract(ctx)
	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractReportsCollisions(t *testing.T) {
	snap := fixtureSnapshot()
	snap.PaintStyles = []figma.PaintStyle{
		{Name: "A/B", Paints: []figma.Paint{{Type: figma.PaintSolid, Color: &figma.Color{R: 1, A: 1}}}},
		{Name: "A B", Paints: []figma.Paint{{Type: figma.PaintSolid, Color: &figma.Color{G: 1, A: 1}}}},
	}

	var got []Collision
	tree, err := NewExtractor(snap, WithCollisionHandler(func(c Collision) { got = append(got, c) })).
		Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Collision{{Scope: "colors", Key: "A-B"}}, got)
	colors, _ := mustTree(t, tree, "colors")
	entry, _ := colors.Get("A-B")
	tok, _ := entry.Token()
	assert.Equal(t, StringValue("#00ff00"), tok.Value)
}
