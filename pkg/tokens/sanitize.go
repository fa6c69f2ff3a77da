package tokens

import "regexp"

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
	hyphenRuns  = regexp.MustCompile(`--+`)
)

// Sanitize maps an arbitrary source name to a token key: every character outside
// [A-Za-z0-9-_] becomes a hyphen, hyphen runs collapse to one, and a single leading
// and trailing hyphen are stripped.
//
//	Sanitize("My  Color!! 2") == "My-Color-2"
//	Sanitize("Brand/Primary") == "Brand-Primary"
func Sanitize(name string) string {
	s := unsafeChars.ReplaceAllString(name, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '-' {
		s = s[:len(s)-1]
	}
	return s
}
