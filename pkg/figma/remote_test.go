package figma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remoteFile = `{
  "name": "Design System",
  "lastModified": "2026-01-02T10:00:00Z",
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [
      {"id": "0:1", "name": "Tokens", "type": "CANVAS", "children": [
        {"id": "1:1", "name": "Card", "type": "FRAME", "layoutMode": "VERTICAL", "itemSpacing": 8, "paddingTop": 16,
         "layoutGrids": [{"pattern": "COLUMNS", "count": 12, "gutterSize": 24, "offset": 32}],
         "children": [{"id": "1:2", "name": "Box", "type": "RECTANGLE", "cornerRadius": 4}]}
      ]},
      {"id": "0:2", "name": "Other", "type": "CANVAS"}
    ]
  },
  "styles": {
    "S:3": {"key": "k3", "name": "Heading/H1", "styleType": "TEXT", "description": ""},
    "S:1": {"key": "k1", "name": "Brand/Primary", "styleType": "FILL", "description": "main"},
    "S:2": {"key": "k2", "name": "Elevation/1", "styleType": "EFFECT", "description": ""},
    "S:9": {"key": "k9", "name": "Library", "styleType": "FILL", "remote": true}
  }
}`

const remoteNodes = `{
  "nodes": {
    "S:1": {"document": {"id": "S:1", "name": "Brand/Primary", "type": "RECTANGLE",
      "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0, "a": 1}}]}},
    "S:2": {"document": {"id": "S:2", "name": "Elevation/1", "type": "RECTANGLE",
      "effects": [{"type": "DROP_SHADOW", "visible": true, "radius": 4, "offset": {"x": 0, "y": 2},
        "color": {"r": 0, "g": 0, "b": 0, "a": 0.25}}]}},
    "S:3": {"document": {"id": "S:3", "name": "Heading/H1", "type": "TEXT",
      "style": {"fontFamily": "Inter", "fontWeight": 700, "fontSize": 32, "letterSpacing": 0,
        "lineHeightPx": 40, "lineHeightPercentFontSize": 125, "lineHeightUnit": "FONT_SIZE_%"}}}
  }
}`

const remoteVariables = `{
  "status": 200, "error": false,
  "meta": {
    "variableCollections": {
      "VC:2": {"id": "VC:2", "name": "Theme", "modes": [{"modeId": "m1", "name": "light"}, {"modeId": "m2", "name": "dark"}], "defaultModeId": "m1", "remote": false, "variableIds": ["V:2"]},
      "VC:1": {"id": "VC:1", "name": "Primitives", "modes": [{"modeId": "m0", "name": "Value"}], "defaultModeId": "m0", "remote": false, "variableIds": ["V:1"]}
    },
    "variables": {
      "V:1": {"id": "V:1", "name": "space/sm", "resolvedType": "FLOAT", "valuesByMode": {"m0": 8}, "variableCollectionId": "VC:1", "remote": false},
      "V:2": {"id": "V:2", "name": "bg", "resolvedType": "COLOR", "valuesByMode": {"m1": {"type": "VARIABLE_ALIAS", "id": "V:9"}, "m2": {"r": 0, "g": 0, "b": 0, "a": 1}}, "variableCollectionId": "VC:2", "remote": false},
      "V:9": {"id": "V:9", "name": "lib/white", "resolvedType": "COLOR", "valuesByMode": {"x": {"r": 1, "g": 1, "b": 1, "a": 1}}, "variableCollectionId": "VC:9", "remote": true}
    }
  }
}`

func newRemoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/KEY", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(remoteFile))
	})
	mux.HandleFunc("/files/KEY/nodes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "S:3,S:1,S:2", r.URL.Query().Get("ids"))
		w.Write([]byte(remoteNodes))
	})
	mux.HandleFunc("/files/KEY/variables/local", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(remoteVariables))
	})
	return httptest.NewServer(mux)
}

func TestRemoteSourceBuildsSnapshot(t *testing.T) {
	srv := newRemoteServer(t)
	defer srv.Close()

	src := NewRemoteSource(NewClient("tok", WithBaseURL(srv.URL)), "KEY", "")
	ctx := context.Background()
	require.NoError(t, src.Refresh(ctx))

	snap, err := src.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, DocumentInfo{FileKey: "KEY", Name: "Design System", LastModified: "2026-01-02T10:00:00Z"}, snap.Info)
	assert.Equal(t, "0:1", snap.CurrentPage.ID)

	require.Len(t, snap.PaintStyles, 1)
	assert.Equal(t, "Brand/Primary", snap.PaintStyles[0].Name)
	assert.Equal(t, "main", snap.PaintStyles[0].Description)
	assert.Equal(t, PaintSolid, snap.PaintStyles[0].Paints[0].Type)

	require.Len(t, snap.TextStyles, 1)
	ts := snap.TextStyles[0]
	assert.Equal(t, FontName{Family: "Inter", Style: "Bold"}, ts.FontName)
	assert.Equal(t, Measure{Unit: UnitPercent, Value: 125}, ts.LineHeight)
	assert.Equal(t, Measure{Unit: UnitPixels, Value: 0}, ts.LetterSpacing)

	require.Len(t, snap.EffectStyles, 1)
	assert.Equal(t, EffectDropShadow, snap.EffectStyles[0].Effects[0].Type)

	require.Len(t, snap.Collections, 2)
	assert.Equal(t, "Theme", snap.Collections[0].Name, "API order is kept")
	require.Len(t, snap.Variables, 2)
	assert.Equal(t, "space/sm", snap.Variables[0].Name)
	require.Len(t, snap.LibraryVariables, 1)

	lib, ok, err := src.VariableByID(ctx, "V:9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "lib/white", lib.Name)
}

func TestRemoteSourceFillsAutoLayoutDefaults(t *testing.T) {
	srv := newRemoteServer(t)
	defer srv.Close()

	src := NewRemoteSource(NewClient("tok", WithBaseURL(srv.URL)), "KEY", "")
	frames, err := src.FindNodes(context.Background(), func(n *Node) bool { return n.IsAutoLayout() })
	require.NoError(t, err)
	require.Len(t, frames, 1)

	card := frames[0]
	require.NotNil(t, card.PaddingLeft)
	assert.Equal(t, 0.0, *card.PaddingLeft)
	assert.Equal(t, 16.0, *card.PaddingTop)
	assert.Equal(t, 8.0, *card.ItemSpacing)
	assert.Equal(t, LayoutModeNone, card.Children[0].LayoutMode)
}

func TestRemoteSourcePinKeepsItsRead(t *testing.T) {
	srv := newRemoteServer(t)
	defer srv.Close()

	src := NewRemoteSource(NewClient("tok", WithBaseURL(srv.URL)), "KEY", "")
	ctx := context.Background()

	first, err := src.Pin(ctx)
	require.NoError(t, err)
	firstSnap, ok := first.(*Snapshot)
	require.True(t, ok)

	second, err := src.Pin(ctx)
	require.NoError(t, err)
	assert.NotSame(t, firstSnap, second, "every pin is a fresh read")

	cached, err := src.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, second, Source(cached))

	// the first read is untouched by the later one
	styles, err := first.LocalPaintStyles(ctx)
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, "Brand/Primary", styles[0].Name)
}

func TestRemoteSourceUnknownPage(t *testing.T) {
	srv := newRemoteServer(t)
	defer srv.Close()

	src := NewRemoteSource(NewClient("tok", WithBaseURL(srv.URL)), "KEY", "9:9")
	err := src.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `page "9:9" not found`)
}

func TestFontStyleName(t *testing.T) {
	tests := []struct {
		ts   TypeStyle
		want string
	}{
		{TypeStyle{FontStyle: "SemiBold Condensed"}, "SemiBold Condensed"},
		{TypeStyle{FontWeight: 400}, "Regular"},
		{TypeStyle{FontWeight: 400, Italic: true}, "Italic"},
		{TypeStyle{FontWeight: 700, Italic: true}, "Bold Italic"},
		{TypeStyle{FontWeight: 450}, "Regular"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fontStyleName(&tt.ts))
	}
}
