package tokens

import (
	"github.com/kataras/figma-token-exporter/pkg/figma"
)

// ExtractVariables groups variables by collection, in collection order and then variable
// order. In a collection with one mode each variable becomes a token holding its default
// mode value. With several modes each variable becomes a subtree keyed by mode name, and
// modes without a value are left out. Collections that end up empty are not emitted.
func ExtractVariables(collections []figma.VariableCollection, vars []figma.Variable, resolve Resolver, report CollisionFunc) *Tree {
	byCollection := make(map[string][]figma.Variable, len(collections))
	for _, v := range vars {
		byCollection[v.VariableCollectionID] = append(byCollection[v.VariableCollectionID], v)
	}

	out := NewTree()
	for _, col := range collections {
		members := byCollection[col.ID]
		if len(members) == 0 {
			continue
		}

		colKey := Sanitize(col.Name)
		scope := categoryVariables + "/" + colKey
		colTree := NewTree()

		for _, v := range members {
			key := Sanitize(v.Name)

			if len(col.Modes) == 1 {
				raw, ok := v.ValuesByMode[col.DefaultModeID]
				if !ok || raw.IsMissing() {
					continue
				}
				put(colTree, scope, key, Leaf(variableToken(v, raw, resolve)), report)
				continue
			}

			modes := NewTree()
			for _, mode := range col.Modes {
				raw, ok := v.ValuesByMode[mode.ModeID]
				if !ok || raw.IsMissing() {
					continue
				}
				put(modes, scope+"/"+key, mode.Name, Leaf(variableToken(v, raw, resolve)), report)
			}
			if modes.Len() == 0 {
				continue
			}
			put(colTree, scope, key, Node(modes), report)
		}

		if colTree.Len() > 0 {
			put(out, categoryVariables, colKey, Node(colTree), report)
		}
	}
	return out
}

func variableToken(v figma.Variable, raw figma.VariableValue, resolve Resolver) Token {
	return Token{
		Value:       FormatVariableValue(raw, v.ResolvedType, resolve),
		Type:        TokenTypeOf(v.ResolvedType),
		Description: v.Description,
	}
}

// aliasTargets returns the distinct ids referenced by aliases.
func aliasTargets(vars []figma.Variable) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, v := range vars {
		for _, raw := range v.ValuesByMode {
			if raw.IsAlias() && !seen[raw.AliasID] {
				seen[raw.AliasID] = true
				ids = append(ids, raw.AliasID)
			}
		}
	}
	return ids
}
