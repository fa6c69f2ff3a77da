package formatter

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kataras/figma-token-exporter/pkg/tokens"
)

// ToMarkdown renders a token tree as a markdown report: a summary table built from stats,
// followed by one section per top-level category listing every token as a CSS custom property.
// Categories and tokens appear in tree order.
func ToMarkdown(tree *tokens.Tree, stats tokens.Stats, fileName string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Design Tokens - %s\n\n", fileName))
	sb.WriteString("This document lists the design tokens extracted from the Figma file.\n\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total tokens | %d |\n", stats.TotalTokens))
	sb.WriteString(fmt.Sprintf("| Collections | %d |\n", stats.Collections))
	for _, typ := range slices.Sorted(maps.Keys(stats.TokensByType)) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", typ, stats.TokensByType[typ]))
	}
	if stats.LastUpdated != "" {
		sb.WriteString(fmt.Sprintf("| Last updated | %s |\n", stats.LastUpdated))
	}
	sb.WriteString("\n")

	if tree.Len() == 0 {
		sb.WriteString("No tokens were found.\n")
		return sb.String()
	}

	for category, entry := range tree.All() {
		sb.WriteString(fmt.Sprintf("## %s\n\n", category))
		sb.WriteString("```css\n")
		if tok, ok := entry.Token(); ok {
			writeProperty(&sb, []string{category}, tok)
		} else if sub, ok := entry.Tree(); ok {
			sub.Walk(func(path []string, tok tokens.Token) {
				writeProperty(&sb, append([]string{category}, path...), tok)
			})
		}
		sb.WriteString("```\n\n")
	}

	return sb.String()
}

func writeProperty(sb *strings.Builder, path []string, tok tokens.Token) {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if k := toKebabCase(p); k != "" {
			parts = append(parts, k)
		}
	}
	sb.WriteString(fmt.Sprintf("--%s: %s;", strings.Join(parts, "-"), cssValue(tok.Value)))
	if tok.Description != "" {
		sb.WriteString(fmt.Sprintf(" /* %s */", strings.ReplaceAll(tok.Description, "*/", "* /")))
	}
	sb.WriteString("\n")
}

// cssValue renders a token value the way it would be written in a stylesheet.
func cssValue(v tokens.Value) string {
	switch v := v.(type) {
	case tokens.StringValue:
		return string(v)
	case tokens.NumberValue:
		return tokens.FormatNumber(float64(v))
	case tokens.BoolValue:
		if v {
			return "true"
		}
		return "false"
	case tokens.TypographyValue:
		// font shorthand: weight size/line-height family
		return fmt.Sprintf("%s %s/%s '%s'", v.FontWeight, v.FontSize, v.LineHeight, v.FontFamily)
	case tokens.ShadowValue:
		s := fmt.Sprintf("%s %s %s %s %s", v.OffsetX, v.OffsetY, v.Blur, v.Spread, v.Color)
		if v.Type == tokens.ShadowInner {
			s = "inset " + s
		}
		return s
	case tokens.EffectList:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, cssValue(e))
		}
		return strings.Join(parts, ", ")
	case tokens.GridValue:
		return fmt.Sprintf("repeat(%s, 1fr) /* gutter %s, margin %s */", tokens.FormatNumber(v.Columns), v.Gutter, v.Margin)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "null"
		}
		return string(data)
	}
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
// camelCase boundaries are split, so "borderRadius" becomes "border-radius".
func toKebabCase(s string) string {
	var result strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			if prevLower {
				result.WriteByte('-')
			}
			result.WriteRune(r + ('a' - 'A'))
			prevLower = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
			prevLower = true
		case r == ' ' || r == '_' || r == '-':
			result.WriteByte('-')
			prevLower = false
		}
	}

	// collapse runs of hyphens
	out := result.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}
