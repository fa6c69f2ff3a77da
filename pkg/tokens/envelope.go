package tokens

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Export identity written into every envelope.
const (
	ExporterName  = "Figma Design Token Exporter"
	SchemaVersion = "1.0.0"
)

// Envelope is the unit written to an export file or pushed to a repository.
type Envelope struct {
	Tokens   *Tree            `json:"tokens"`
	Metadata EnvelopeMetadata `json:"$metadata"`
}

// EnvelopeMetadata describes an export.
type EnvelopeMetadata struct {
	TokenSetOrder []string `json:"tokenSetOrder"`
	ExportedAt    string   `json:"exportedAt"`
	ExportedBy    string   `json:"exportedBy"`
	Version       string   `json:"version"`
}

// BuildEnvelope wraps tree, without copying it, with export metadata stamped at now.
func BuildEnvelope(tree *Tree, now time.Time) *Envelope {
	return &Envelope{
		Tokens: tree,
		Metadata: EnvelopeMetadata{
			TokenSetOrder: tree.Keys(),
			ExportedAt:    FormatTime(now),
			ExportedBy:    ExporterName,
			Version:       SchemaVersion,
		},
	}
}

// Encode renders the envelope as JSON indented with two spaces, without a trailing
// newline. <, > and & are written as-is.
func (e *Envelope) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return unescapeHTML(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeHTML reverts the \u003c, \u003e and \u0026 escapes that the tree's nested
// marshalers write regardless of the encoder settings. Other escapes are kept.
func unescapeHTML(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			var c byte
			switch strings.ToLower(string(b[i+2 : i+6])) {
			case "003c":
				c = '<'
			case "003e":
				c = '>'
			case "0026":
				c = '&'
			}
			if c != 0 {
				out = append(out, c)
				i += 5
				continue
			}
		}
		// any other escape, including an escaped backslash, is copied whole
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}
