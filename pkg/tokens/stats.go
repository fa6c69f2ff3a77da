package tokens

import "time"

// Stats summarizes a token tree.
type Stats struct {
	TotalTokens  int          `json:"totalTokens"`
	TokensByType map[Type]int `json:"tokensByType"`
	// Collections is the number of top-level categories.
	Collections int    `json:"collections"`
	LastUpdated string `json:"lastUpdated"`
}

// ComputeStats counts the tokens of tree. It walks the whole tree on every call.
func ComputeStats(tree *Tree, now time.Time) Stats {
	stats := Stats{
		TokensByType: make(map[Type]int),
		Collections:  tree.Len(),
		LastUpdated:  FormatTime(now),
	}
	tree.Walk(func(_ []string, tok Token) {
		stats.TotalTokens++
		stats.TokensByType[tok.Type]++
	})
	return stats
}
