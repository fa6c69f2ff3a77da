package tokens

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnvelope(t *testing.T) {
	tree, err := NewExtractor(fixtureSnapshot(), WithClock(fixedClock)).Extract(context.Background())
	require.NoError(t, err)

	env := BuildEnvelope(tree, testNow)
	assert.Same(t, tree, env.Tokens)
	assert.Equal(t, tree.Keys(), env.Metadata.TokenSetOrder)
	assert.Equal(t, "2026-03-04T05:06:07.890Z", env.Metadata.ExportedAt)
	assert.Equal(t, "Figma Design Token Exporter", env.Metadata.ExportedBy)
	assert.Equal(t, "1.0.0", env.Metadata.Version)

	data, err := env.Encode()
	require.NoError(t, err)

	var decoded struct {
		Tokens   json.RawMessage  `json:"tokens"`
		Metadata EnvelopeMetadata `json:"$metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, mustJSON(t, tree), string(decoded.Tokens))
	assert.Equal(t, env.Metadata, decoded.Metadata)
}

func TestEnvelopeEncodeLayout(t *testing.T) {
	tree := NewTree()
	colors := NewTree()
	colors.SetToken("red", Token{Value: StringValue("#ff0000"), Type: TypeColor})
	tree.SetTree("colors", colors)

	data, err := BuildEnvelope(tree, testNow).Encode()
	require.NoError(t, err)

	want := strings.Join([]string{
		`{`,
		`  "tokens": {`,
		`    "colors": {`,
		`      "red": {`,
		`        "value": "#ff0000",`,
		`        "type": "color"`,
		`      }`,
		`    }`,
		`  },`,
		`  "$metadata": {`,
		`    "tokenSetOrder": [`,
		`      "colors"`,
		`    ],`,
		`    "exportedAt": "2026-03-04T05:06:07.890Z",`,
		`    "exportedBy": "Figma Design Token Exporter",`,
		`    "version": "1.0.0"`,
		`  }`,
		`}`,
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestEnvelopeOfEmptyTree(t *testing.T) {
	data, err := BuildEnvelope(NewTree(), testNow).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tokens": {}`)
	assert.Contains(t, string(data), `"tokenSetOrder": []`)
}

func TestEnvelopeEncodeKeepsHTMLCharacters(t *testing.T) {
	tree := NewTree()
	misc := NewTree()
	misc.SetToken("a<b", Token{Value: StringValue("x > y & z"), Type: TypeOther, Description: "use <Button/> & co"})
	misc.SetToken("literal", Token{Value: StringValue(`\u003c stays`), Type: TypeOther})
	tree.SetTree("variables", misc)

	data, err := BuildEnvelope(tree, testNow).Encode()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"a<b": {`)
	assert.Contains(t, out, `"value": "x > y & z"`)
	assert.Contains(t, out, `"description": "use <Button/> & co"`)
	assert.Contains(t, out, `"value": "\\u003c stays"`)
	assert.NotContains(t, out, `\u0026`)
	assert.False(t, strings.HasSuffix(out, "\n"))

	var decoded struct {
		Tokens map[string]map[string]struct {
			Value string `json:"value"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "x > y & z", decoded.Tokens["variables"]["a<b"].Value)
	assert.Equal(t, `\u003c stays`, decoded.Tokens["variables"]["literal"].Value)
}

func TestUnescapeHTML(t *testing.T) {
	tests := []struct{ in, want string }{
		{`"\u003c\u003e\u0026"`, `"<>&"`},
		{`"\u003C"`, `"<"`},
		{`"\\u003c"`, `"\\u003c"`},
		{`"\"é\n\u00e9"`, `"\"é\n\u00e9"`},
		{`"\u00`, `"\u00`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(unescapeHTML([]byte(tt.in))), tt.in)
	}
}
