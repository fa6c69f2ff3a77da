package figma

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const maxNodesPerRequest = 100

// RemoteSource reads a document through the Figma REST API and serves it as a Source.
// Every Refresh fetches the file, its style definition nodes and its local variables,
// and replaces the cached Snapshot.
type RemoteSource struct {
	client  *Client
	fileKey string
	pageID  string

	mu   sync.RWMutex
	snap *Snapshot
}

var (
	_ Source    = (*RemoteSource)(nil)
	_ Refresher = (*RemoteSource)(nil)
	_ Pinner    = (*RemoteSource)(nil)
)

// NewRemoteSource returns a source for the given file. pageID selects the page used by
// FindNodes; when empty the first page of the document is used.
func NewRemoteSource(client *Client, fileKey, pageID string) *RemoteSource {
	return &RemoteSource{client: client, fileKey: fileKey, pageID: pageID}
}

// Refresh re-reads the whole document.
func (r *RemoteSource) Refresh(ctx context.Context) error {
	_, err := r.Pin(ctx)
	return err
}

// Pin re-reads the whole document, caches it and returns that read as a Snapshot.
// Later refreshes do not change the returned value.
func (r *RemoteSource) Pin(ctx context.Context) (Source, error) {
	snap, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
	return snap, nil
}

// Snapshot returns the cached snapshot, fetching it first when needed.
func (r *RemoteSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap, nil
}

func (r *RemoteSource) Document(ctx context.Context) (DocumentInfo, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return DocumentInfo{}, err
	}
	return snap.Info, nil
}

func (r *RemoteSource) LocalVariables(ctx context.Context) ([]Variable, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Variables, nil
}

func (r *RemoteSource) LocalVariableCollections(ctx context.Context) ([]VariableCollection, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Collections, nil
}

func (r *RemoteSource) VariableByID(ctx context.Context, id string) (Variable, bool, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return Variable{}, false, err
	}
	return snap.VariableByID(ctx, id)
}

func (r *RemoteSource) LocalPaintStyles(ctx context.Context) ([]PaintStyle, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PaintStyles, nil
}

func (r *RemoteSource) LocalTextStyles(ctx context.Context) ([]TextStyle, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.TextStyles, nil
}

func (r *RemoteSource) LocalEffectStyles(ctx context.Context) ([]EffectStyle, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.EffectStyles, nil
}

func (r *RemoteSource) FindNodes(ctx context.Context, match func(*Node) bool) ([]*Node, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.FindNodes(ctx, match)
}

func (r *RemoteSource) fetch(ctx context.Context) (*Snapshot, error) {
	file, err := r.client.GetFile(ctx, r.fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}

	snap := &Snapshot{
		Info: DocumentInfo{
			FileKey:      r.fileKey,
			Name:         file.Name,
			LastModified: file.LastModified,
		},
	}

	page, err := selectPage(&file.Document, r.pageID)
	if err != nil {
		return nil, err
	}
	snap.CurrentPage = convertNode(page)

	if err := r.fetchStyles(ctx, file, snap); err != nil {
		return nil, err
	}

	vars, err := r.client.GetLocalVariables(ctx, r.fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch variables: %w", err)
	}
	convertVariables(vars, snap)

	return snap, nil
}

func selectPage(doc *RESTNode, pageID string) (*RESTNode, error) {
	for i := range doc.Children {
		page := &doc.Children[i]
		if page.Type != NodeCanvas {
			continue
		}
		if pageID == "" || page.ID == pageID {
			return page, nil
		}
	}
	if pageID != "" {
		return nil, fmt.Errorf("page %q not found", pageID)
	}
	return &RESTNode{ID: doc.ID, Name: doc.Name, Type: NodeCanvas}, nil
}

// fetchStyles resolves the style definition nodes of every local FILL, TEXT and EFFECT style.
func (r *RemoteSource) fetchStyles(ctx context.Context, file *FileResponse, snap *Snapshot) error {
	if file.Styles == nil || file.Styles.Len() == 0 {
		return nil
	}

	var ids []string
	for pair := file.Styles.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Remote {
			continue
		}
		switch pair.Value.StyleType {
		case StyleFill, StyleText, StyleEffect:
			ids = append(ids, pair.Key)
		}
	}

	nodes := make(map[string]*NodeData, len(ids))
	for i := 0; i < len(ids); i += maxNodesPerRequest {
		end := min(i+maxNodesPerRequest, len(ids))
		resp, err := r.client.GetFileNodes(ctx, r.fileKey, ids[i:end])
		if err != nil {
			return fmt.Errorf("fetch style nodes: %w", err)
		}
		for id, nd := range resp.Nodes {
			nodes[id] = nd
		}
	}

	for _, id := range ids {
		meta, _ := file.Styles.Get(id)
		nd := nodes[id]
		if nd == nil {
			continue
		}
		def := &nd.Document

		switch meta.StyleType {
		case StyleFill:
			snap.PaintStyles = append(snap.PaintStyles, PaintStyle{
				ID:          id,
				Name:        meta.Name,
				Description: meta.Description,
				Paints:      def.Fills,
			})
		case StyleText:
			if def.Style == nil {
				continue
			}
			snap.TextStyles = append(snap.TextStyles, convertTextStyle(id, meta, def.Style))
		case StyleEffect:
			snap.EffectStyles = append(snap.EffectStyles, EffectStyle{
				ID:          id,
				Name:        meta.Name,
				Description: meta.Description,
				Effects:     def.Effects,
			})
		}
	}
	return nil
}

func convertTextStyle(id string, meta Style, ts *TypeStyle) TextStyle {
	out := TextStyle{
		ID:          id,
		Name:        meta.Name,
		Description: meta.Description,
		FontName: FontName{
			Family: ts.FontFamily,
			Style:  fontStyleName(ts),
		},
		FontSize:      ts.FontSize,
		LetterSpacing: Measure{Unit: UnitPixels, Value: ts.LetterSpacing},
	}

	switch ts.LineHeightUnit {
	case LineHeightPixels:
		out.LineHeight = Measure{Unit: UnitPixels, Value: ts.LineHeightPx}
	case LineHeightFontSizePercent:
		out.LineHeight = Measure{Unit: UnitPercent, Value: ts.LineHeightPercentFontSize}
	default:
		out.LineHeight = Measure{Unit: UnitAuto}
	}
	return out
}

var weightNames = map[int]string{
	100: "Thin",
	200: "Extra Light",
	300: "Light",
	400: "Regular",
	500: "Medium",
	600: "Semi Bold",
	700: "Bold",
	800: "Extra Bold",
	900: "Black",
}

// fontStyleName returns the editor's style name for a REST type style. Older API
// responses lack fontStyle, in which case it is derived from weight and italic.
func fontStyleName(ts *TypeStyle) string {
	if s := strings.TrimSpace(ts.FontStyle); s != "" {
		return s
	}
	name, ok := weightNames[int(ts.FontWeight)]
	if !ok {
		name = "Regular"
	}
	if ts.Italic {
		if name == "Regular" {
			return "Italic"
		}
		return name + " Italic"
	}
	return name
}

// convertNode copies the parts of a REST node the extractors read. Auto-layout frames get
// explicit zero spacing and padding because the API omits default values.
func convertNode(n *RESTNode) Node {
	out := Node{
		ID:            n.ID,
		Name:          n.Name,
		Type:          n.Type,
		LayoutMode:    n.LayoutMode,
		ItemSpacing:   n.ItemSpacing,
		PaddingTop:    n.PaddingTop,
		PaddingRight:  n.PaddingRight,
		PaddingBottom: n.PaddingBottom,
		PaddingLeft:   n.PaddingLeft,
		CornerRadius:  n.CornerRadius,
		LayoutGrids:   n.LayoutGrids,
	}
	if out.LayoutMode == "" {
		out.LayoutMode = LayoutModeNone
	}
	if out.LayoutMode != LayoutModeNone {
		for _, p := range []**float64{&out.ItemSpacing, &out.PaddingTop, &out.PaddingRight, &out.PaddingBottom, &out.PaddingLeft} {
			if *p == nil {
				*p = Float(0)
			}
		}
	}
	if len(n.Children) > 0 {
		out.Children = make([]Node, len(n.Children))
		for i := range n.Children {
			out.Children[i] = convertNode(&n.Children[i])
		}
	}
	return out
}

// convertVariables splits the REST response into local collections and variables, in API
// order, and library variables that are only reachable through aliases.
func convertVariables(resp *LocalVariablesResponse, snap *Snapshot) {
	if resp.Meta.VariableCollections != nil {
		for pair := resp.Meta.VariableCollections.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.Remote {
				continue
			}
			col := pair.Value.VariableCollection
			if col.ID == "" {
				col.ID = pair.Key
			}
			snap.Collections = append(snap.Collections, col)
		}
	}

	if resp.Meta.Variables != nil {
		for pair := resp.Meta.Variables.Oldest(); pair != nil; pair = pair.Next() {
			v := pair.Value.Variable
			if v.ID == "" {
				v.ID = pair.Key
			}
			if pair.Value.Remote {
				snap.LibraryVariables = append(snap.LibraryVariables, v)
				continue
			}
			snap.Variables = append(snap.Variables, v)
		}
	}
}
