package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/kataras/figma-token-exporter/pkg/figma"
)

// Top-level categories, in output order.
const (
	categoryVariables    = "variables"
	categoryColors       = "colors"
	categoryTypography   = "typography"
	categoryEffects      = "effects"
	categoryGrids        = "grids"
	categorySpacing      = "spacing"
	categoryBorderRadius = "borderRadius"
)

// HostError is returned by Extract when the document itself could not be read.
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error { return e.Err }

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the time source used for synthesized token metadata.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCollisionHandler registers a callback for keys that sanitize to the same name.
func WithCollisionHandler(fn CollisionFunc) Option {
	return func(e *Extractor) {
		e.onCollision = fn
	}
}

// Extractor runs every source extractor over a document and assembles the token tree.
type Extractor struct {
	src         figma.Source
	now         func() time.Time
	onCollision CollisionFunc
}

// NewExtractor returns an extractor reading from src.
func NewExtractor(src figma.Source, opts ...Option) *Extractor {
	e := &Extractor{src: src, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the document and returns the token tree with the categories variables,
// colors, typography, effects, grids, spacing and borderRadius, in that order. Categories
// without tokens are left out. Only failures to read the document are returned, as a *HostError;
// malformed items are skipped.
func (e *Extractor) Extract(ctx context.Context) (*Tree, error) {
	src := e.src
	switch s := src.(type) {
	case figma.Pinner:
		pinned, err := s.Pin(ctx)
		if err != nil {
			return nil, &HostError{Op: "document", Err: err}
		}
		src = pinned
	case figma.Refresher:
		if err := s.Refresh(ctx); err != nil {
			return nil, &HostError{Op: "document", Err: err}
		}
	}

	vars, err := src.LocalVariables(ctx)
	if err != nil {
		return nil, &HostError{Op: "variables", Err: err}
	}
	collections, err := src.LocalVariableCollections(ctx)
	if err != nil {
		return nil, &HostError{Op: "variable collections", Err: err}
	}
	resolve, err := resolver(ctx, src, vars)
	if err != nil {
		return nil, err
	}
	paints, err := src.LocalPaintStyles(ctx)
	if err != nil {
		return nil, &HostError{Op: "paint styles", Err: err}
	}
	texts, err := src.LocalTextStyles(ctx)
	if err != nil {
		return nil, &HostError{Op: "text styles", Err: err}
	}
	effects, err := src.LocalEffectStyles(ctx)
	if err != nil {
		return nil, &HostError{Op: "effect styles", Err: err}
	}
	frames, err := src.FindNodes(ctx, (*figma.Node).IsFrameLike)
	if err != nil {
		return nil, &HostError{Op: "frames", Err: err}
	}
	rects, err := src.FindNodes(ctx, isRectangle)
	if err != nil {
		return nil, &HostError{Op: "rectangles", Err: err}
	}

	now := e.now()
	categories := []struct {
		key  string
		tree *Tree
	}{
		{categoryVariables, ExtractVariables(collections, vars, resolve, e.onCollision)},
		{categoryColors, ExtractColorStyles(paints, e.onCollision)},
		{categoryTypography, ExtractTextStyles(texts, e.onCollision)},
		{categoryEffects, ExtractEffectStyles(effects, e.onCollision)},
		{categoryGrids, ExtractGrids(frames, e.onCollision)},
		{categorySpacing, ExtractSpacing(frames, now)},
		{categoryBorderRadius, ExtractBorderRadius(rects, now)},
	}

	out := NewTree()
	for _, c := range categories {
		if c.tree.Len() > 0 {
			out.SetTree(c.key, c.tree)
		}
	}
	return out, nil
}

// resolver looks up every alias target once so that formatting stays free of host calls.
func resolver(ctx context.Context, src figma.Source, vars []figma.Variable) (Resolver, error) {
	names := make(map[string]string)
	for _, id := range aliasTargets(vars) {
		v, ok, err := src.VariableByID(ctx, id)
		if err != nil {
			return nil, &HostError{Op: "variable " + id, Err: err}
		}
		if ok {
			names[id] = v.Name
		}
	}
	return func(id string) (string, bool) {
		name, ok := names[id]
		return name, ok
	}, nil
}

func isRectangle(n *figma.Node) bool {
	return n.Type == figma.NodeRectangle
}
