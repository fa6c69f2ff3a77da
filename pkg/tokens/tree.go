package tokens

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is one position of a token tree: either a leaf Token or a nested Tree, never both.
type Entry struct {
	token *Token
	tree  *Tree
}

// Leaf returns an entry holding a token.
func Leaf(t Token) Entry { return Entry{token: &t} }

// Node returns an entry holding a nested tree.
func Node(t *Tree) Entry { return Entry{tree: t} }

// IsLeaf reports whether the entry holds a token.
func (e Entry) IsLeaf() bool { return e.token != nil }

// Token returns the token of a leaf entry.
func (e Entry) Token() (Token, bool) {
	if e.token == nil {
		return Token{}, false
	}
	return *e.token, true
}

// Tree returns the subtree of a node entry.
func (e Entry) Tree() (*Tree, bool) {
	return e.tree, e.tree != nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.token != nil {
		return json.Marshal(e.token)
	}
	return e.tree.MarshalJSON()
}

// Tree is an ordered mapping from token key to Entry. Keys keep their first insertion
// position; setting an existing key replaces its entry in place.
type Tree struct {
	m *orderedmap.OrderedMap[string, Entry]
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{m: orderedmap.New[string, Entry]()}
}

// Set stores e under key and reports whether an existing entry was replaced.
func (t *Tree) Set(key string, e Entry) (replaced bool) {
	if t.m == nil {
		t.m = orderedmap.New[string, Entry]()
	}
	_, replaced = t.m.Set(key, e)
	return replaced
}

// SetToken is shorthand for Set(key, Leaf(tok)).
func (t *Tree) SetToken(key string, tok Token) bool { return t.Set(key, Leaf(tok)) }

// SetTree is shorthand for Set(key, Node(sub)).
func (t *Tree) SetTree(key string, sub *Tree) bool { return t.Set(key, Node(sub)) }

// Get returns the entry stored under key.
func (t *Tree) Get(key string) (Entry, bool) {
	if t == nil || t.m == nil {
		return Entry{}, false
	}
	return t.m.Get(key)
}

// Len returns the number of keys at this level.
func (t *Tree) Len() int {
	if t == nil || t.m == nil {
		return 0
	}
	return t.m.Len()
}

// Keys returns the keys of this level in insertion order. The result is never nil.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, t.Len())
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over this level in insertion order.
func (t *Tree) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		if t == nil || t.m == nil {
			return
		}
		for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Walk calls fn for every leaf reachable from t, depth first, with the key path leading to it.
func (t *Tree) Walk(fn func(path []string, tok Token)) {
	t.walk(nil, fn)
}

func (t *Tree) walk(prefix []string, fn func([]string, Token)) {
	for k, e := range t.All() {
		path := append(prefix[:len(prefix):len(prefix)], k)
		if tok, ok := e.Token(); ok {
			fn(path, tok)
			continue
		}
		if sub, ok := e.Tree(); ok {
			sub.walk(path, fn)
		}
	}
}

// MarshalJSON encodes the tree as a JSON object in insertion order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil || t.m == nil {
		return []byte("{}"), nil
	}
	return t.m.MarshalJSON()
}
