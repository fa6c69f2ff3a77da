package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kataras/figma-token-exporter/pkg/tokens"
)

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"borderRadius", "border-radius"},
		{"Primary Blue", "primary-blue"},
		{"spacing_4", "spacing-4"},
		{"--odd--", "odd"},
		{"heading/h1", "headingh1"},
		{"2xl", "2xl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toKebabCase(tt.in), tt.in)
	}
}

func TestToMarkdown(t *testing.T) {
	colors := tokens.NewTree()
	colors.SetToken("Primary", tokens.Token{Value: tokens.StringValue("#ff0000"), Type: tokens.TypeColor, Description: "brand"})

	modes := tokens.NewTree()
	modes.SetToken("Light", tokens.Token{Value: tokens.StringValue("#ffffff"), Type: tokens.TypeColor})
	modes.SetToken("Dark", tokens.Token{Value: tokens.StringValue("#000000"), Type: tokens.TypeColor})
	theme := tokens.NewTree()
	theme.SetTree("bg", modes)
	variables := tokens.NewTree()
	variables.SetTree("theme", theme)

	effects := tokens.NewTree()
	effects.SetToken("card", tokens.Token{Type: tokens.TypeBoxShadow, Value: tokens.ShadowValue{
		Type: tokens.ShadowInner, Color: "rgba(0, 0, 0, 0.5)", OffsetX: "0px", OffsetY: "2px", Blur: "4px", Spread: "0px",
	}})

	typography := tokens.NewTree()
	typography.SetToken("body", tokens.Token{Type: tokens.TypeTypography, Value: tokens.TypographyValue{
		FontFamily: "Inter", FontWeight: "400", FontSize: "16px", LineHeight: "24px", LetterSpacing: "normal",
	}})

	grids := tokens.NewTree()
	grids.SetToken("12-col-20", tokens.Token{Type: tokens.TypeGrid, Value: tokens.GridValue{Type: "columns", Columns: 12, Gutter: "20px", Margin: "0px"}})

	tree := tokens.NewTree()
	tree.SetTree("variables", variables)
	tree.SetTree("colors", colors)
	tree.SetTree("typography", typography)
	tree.SetTree("effects", effects)
	tree.SetTree("grids", grids)

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	md := ToMarkdown(tree, tokens.ComputeStats(tree, now), "Design System")

	assert.True(t, strings.HasPrefix(md, "# Design Tokens - Design System\n"))
	assert.Contains(t, md, "| Total tokens | 6 |")
	assert.Contains(t, md, "| Collections | 5 |")
	assert.Contains(t, md, "| color | 3 |")
	assert.Contains(t, md, "| Last updated | 2026-03-04T05:06:07.000Z |")

	assert.Contains(t, md, "--variables-theme-bg-light: #ffffff;")
	assert.Contains(t, md, "--variables-theme-bg-dark: #000000;")
	assert.Contains(t, md, "--colors-primary: #ff0000; /* brand */")
	assert.Contains(t, md, "--typography-body: 400 16px/24px 'Inter';")
	assert.Contains(t, md, "--effects-card: inset 0px 2px 4px 0px rgba(0, 0, 0, 0.5);")
	assert.Contains(t, md, "--grids-12-col-20: repeat(12, 1fr) /* gutter 20px, margin 0px */;")

	// tree order is kept
	assert.Less(t, strings.Index(md, "## variables"), strings.Index(md, "## colors"))
	assert.Less(t, strings.Index(md, "## colors"), strings.Index(md, "## grids"))
}

func TestToMarkdownEmpty(t *testing.T) {
	tree := tokens.NewTree()
	md := ToMarkdown(tree, tokens.ComputeStats(tree, time.Now()), "Empty")
	assert.Contains(t, md, "| Total tokens | 0 |")
	assert.Contains(t, md, "No tokens were found.")
}
