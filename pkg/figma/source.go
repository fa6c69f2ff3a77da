package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Source is the read-only view of the host document the token extractors work on.
// Every method may fail when the host itself cannot be queried; individual items are
// never validated here.
type Source interface {
	Document(ctx context.Context) (DocumentInfo, error)
	LocalVariables(ctx context.Context) ([]Variable, error)
	LocalVariableCollections(ctx context.Context) ([]VariableCollection, error)
	// VariableByID looks up any variable the document can reference, including library
	// variables that are not local. ok is false when no such variable exists.
	VariableByID(ctx context.Context, id string) (v Variable, ok bool, err error)
	LocalPaintStyles(ctx context.Context) ([]PaintStyle, error)
	LocalTextStyles(ctx context.Context) ([]TextStyle, error)
	LocalEffectStyles(ctx context.Context) ([]EffectStyle, error)
	// FindNodes returns every descendant of the current page matching the predicate,
	// in depth-first pre-order. The page node itself is never returned.
	FindNodes(ctx context.Context, match func(*Node) bool) ([]*Node, error)
}

// Refresher is implemented by sources that re-read the host on demand.
// Extractors call Refresh once at the start of every pass.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Pinner is implemented by shared sources whose contents a concurrent Refresh may replace.
// Pin re-reads the host and returns a Source that serves that one read. Extractors prefer
// Pin over Refresh so that a pass never mixes two reads.
type Pinner interface {
	Pin(ctx context.Context) (Source, error)
}

// Snapshot is an in-memory copy of everything the extractors read from a document.
// It implements Source and is the JSON fixture format accepted by LoadSnapshot.
type Snapshot struct {
	Info             DocumentInfo         `json:"document"`
	Collections      []VariableCollection `json:"variableCollections"`
	Variables        []Variable           `json:"variables"`
	LibraryVariables []Variable           `json:"libraryVariables,omitempty"`
	PaintStyles      []PaintStyle         `json:"paintStyles"`
	TextStyles       []TextStyle          `json:"textStyles"`
	EffectStyles     []EffectStyle        `json:"effectStyles"`
	CurrentPage      Node                 `json:"currentPage"`
}

var _ Source = (*Snapshot)(nil)

// DecodeSnapshot reads a JSON snapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// LoadSnapshot reads a JSON snapshot from a file.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return DecodeSnapshot(f)
}

func (s *Snapshot) Document(ctx context.Context) (DocumentInfo, error) {
	return s.Info, ctx.Err()
}

func (s *Snapshot) LocalVariables(ctx context.Context) ([]Variable, error) {
	return s.Variables, ctx.Err()
}

func (s *Snapshot) LocalVariableCollections(ctx context.Context) ([]VariableCollection, error) {
	return s.Collections, ctx.Err()
}

func (s *Snapshot) VariableByID(ctx context.Context, id string) (Variable, bool, error) {
	if err := ctx.Err(); err != nil {
		return Variable{}, false, err
	}
	for _, list := range [][]Variable{s.Variables, s.LibraryVariables} {
		for _, v := range list {
			if v.ID == id {
				return v, true, nil
			}
		}
	}
	return Variable{}, false, nil
}

func (s *Snapshot) LocalPaintStyles(ctx context.Context) ([]PaintStyle, error) {
	return s.PaintStyles, ctx.Err()
}

func (s *Snapshot) LocalTextStyles(ctx context.Context) ([]TextStyle, error) {
	return s.TextStyles, ctx.Err()
}

func (s *Snapshot) LocalEffectStyles(ctx context.Context) ([]EffectStyle, error) {
	return s.EffectStyles, ctx.Err()
}

func (s *Snapshot) FindNodes(ctx context.Context, match func(*Node) bool) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FindAll(&s.CurrentPage, match), nil
}

// FindAll walks the descendants of root in depth-first pre-order and returns those
// matching the predicate. The root itself is not tested.
func FindAll(root *Node, match func(*Node) bool) []*Node {
	var found []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for i := range n.Children {
			child := &n.Children[i]
			if match == nil || match(child) {
				found = append(found, child)
			}
			walk(child)
		}
	}
	walk(root)
	return found
}
