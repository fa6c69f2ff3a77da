package figmatokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kataras/figma-token-exporter/pkg/archive"
	"github.com/kataras/figma-token-exporter/pkg/credential"
	"github.com/kataras/figma-token-exporter/pkg/figma"
	"github.com/kataras/figma-token-exporter/pkg/github"
	"github.com/kataras/figma-token-exporter/pkg/history"
	"github.com/kataras/figma-token-exporter/pkg/tokens"
)

// Version of the exporter.
const Version = "0.1.0"

// DefaultPublishTimeout bounds a GitHub push when Options.PublishTimeout is zero.
const DefaultPublishTimeout = 30 * time.Second

var (
	// ErrBusy is reported when a request arrives while another one is running.
	ErrBusy = errors.New("another operation is in progress")
	// ErrNoCredential is reported by a push when no GitHub token is stored.
	ErrNoCredential = errors.New("GitHub token not available")
	// ErrClosed is reported for requests after the panel asked to close.
	ErrClosed = errors.New("session closed")
)

// Options configures a Session.
type Options struct {
	// Source is the document tokens are extracted from. Required.
	Source figma.Source
	// Credentials holds the GitHub token. Defaults to an in-memory store.
	Credentials credential.Store
	// GitHub publishes exports. Defaults to a client for api.github.com.
	GitHub *github.Client
	// History, when set, records every export.
	History history.Store
	// Archive, when set, receives a copy of every exported file.
	Archive archive.Archiver
	// PublishTimeout bounds each push. Defaults to DefaultPublishTimeout.
	PublishTimeout time.Duration
	// Now is the clock used for timestamps. Defaults to time.Now.
	Now    func() time.Time
	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Session is the panel controller: it turns inbound panel requests into outbound messages.
// A Session runs one request at a time. A request arriving while another is in flight is
// rejected with ErrBusy instead of being queued.
type Session struct {
	opts      Options
	extractor *tokens.Extractor
	busy      *semaphore.Weighted

	credOnce sync.Once
	mu       sync.RWMutex
	token    string
	closed   bool
	done     chan struct{}
}

// New returns a Session reading from opts.Source.
func New(opts Options) (*Session, error) {
	if opts.Source == nil {
		return nil, errors.New("figma source is required")
	}
	if opts.Credentials == nil {
		opts.Credentials = credential.NewMemoryStore()
	}
	if opts.GitHub == nil {
		opts.GitHub = github.NewClient()
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		opts: opts,
		busy: semaphore.NewWeighted(1),
		done: make(chan struct{}),
	}
	s.extractor = tokens.NewExtractor(opts.Source,
		tokens.WithClock(opts.Now),
		tokens.WithCollisionHandler(func(c tokens.Collision) {
			s.opts.logWarn("token %q in %s was overwritten by a later one with the same name", c.Key, c.Scope)
		}),
	)
	return s, nil
}

// Start loads the stored credential and returns the first extraction for preview.
func (s *Session) Start(ctx context.Context) Outbound {
	s.loadCredential(ctx)
	return s.Handle(ctx, Inbound{Type: MsgRefreshTokens})
}

// Done is closed once the panel asked to close.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Handle runs one inbound request. It returns nil for close, which has no reply.
// Every failure is reported as an ErrorMessage.
func (s *Session) Handle(ctx context.Context, in Inbound) Outbound {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrorMessage{Message: ErrClosed.Error()}
	}

	if in.Type == MsgClose {
		s.close()
		return nil
	}

	if !s.busy.TryAcquire(1) {
		s.opts.logWarn("rejected %s: %v", in.Type, ErrBusy)
		return ErrorMessage{Message: ErrBusy.Error()}
	}
	defer s.busy.Release(1)

	switch in.Type {
	case MsgRefreshTokens:
		return s.refresh(ctx)
	case MsgDownloadJSON:
		return s.download(ctx)
	case MsgSaveGitHubToken:
		return s.saveToken(ctx, in.Token)
	case MsgPushToGitHub:
		return s.push(ctx, in.Config)
	default:
		return ErrorMessage{Message: fmt.Sprintf("unknown message type %q", in.Type)}
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *Session) loadCredential(ctx context.Context) {
	s.credOnce.Do(func() {
		token, err := s.opts.Credentials.Get(ctx, credential.GitHubTokenKey)
		if err != nil {
			if !errors.Is(err, credential.ErrNotFound) {
				s.opts.logWarn("could not read the stored GitHub token: %v", err)
			}
			return
		}
		s.mu.Lock()
		s.token = token
		s.mu.Unlock()
	})
}

func (s *Session) githubToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) refresh(ctx context.Context) Outbound {
	s.opts.logInfo("Extracting design tokens...")
	tree, err := s.extractor.Extract(ctx)
	if err != nil {
		s.opts.logError("extract tokens: %v", err)
		return ErrorMessage{Message: "Failed to extract tokens: " + err.Error()}
	}

	stats := tokens.ComputeStats(tree, s.opts.Now())
	s.opts.logInfo("Extracted %d tokens in %d collections", stats.TotalTokens, stats.Collections)
	return TokensExtracted{
		Tokens:         tree,
		HasGitHubToken: s.githubToken() != "",
		Stats:          stats,
	}
}

// export is one encoded extraction.
type export struct {
	tree     *tokens.Tree
	envelope *tokens.Envelope
	data     []byte
	stats    tokens.Stats
}

func (s *Session) export(ctx context.Context) (*export, error) {
	tree, err := s.extractor.Extract(ctx)
	if err != nil {
		return nil, err
	}
	now := s.opts.Now()
	env := tokens.BuildEnvelope(tree, now)
	data, err := env.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode tokens: %w", err)
	}
	return &export{tree: tree, envelope: env, data: data, stats: tokens.ComputeStats(tree, now)}, nil
}

func (s *Session) download(ctx context.Context) Outbound {
	exp, err := s.export(ctx)
	if err != nil {
		s.opts.logError("export tokens: %v", err)
		return ErrorMessage{Message: "Export failed: " + err.Error()}
	}

	s.record(ctx, exp, history.ExportJSON, "", nil)
	s.archive(ctx, exp)
	s.opts.logInfo("Prepared %s (%d bytes)", archive.DefaultFilename, len(exp.data))
	return DownloadReady{Data: string(exp.data), Filename: archive.DefaultFilename}
}

func (s *Session) saveToken(ctx context.Context, token string) Outbound {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrorMessage{Message: "Failed to save GitHub token: token is empty"}
	}
	if err := s.opts.Credentials.Set(ctx, credential.GitHubTokenKey, token); err != nil {
		s.opts.logError("save GitHub token: %v", err)
		return ErrorMessage{Message: "Failed to save GitHub token: " + err.Error()}
	}

	s.credOnce.Do(func() {}) // a saved token supersedes whatever is stored
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.opts.logInfo("GitHub token saved")
	return GitHubTokenSaved{HasToken: true}
}

func (s *Session) push(ctx context.Context, cfg *PushConfig) Outbound {
	fail := func(err error) Outbound {
		s.opts.logError("push to GitHub: %v", err)
		return ErrorMessage{Message: "GitHub push failed: " + err.Error()}
	}

	if cfg == nil {
		return fail(errors.New("repository configuration is required"))
	}
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}
	s.loadCredential(ctx)
	token := s.githubToken()
	if token == "" {
		return fail(ErrNoCredential)
	}
	if cfg.CreatePullRequest {
		s.opts.logWarn("pull request creation is not supported, committing to %s directly", cfg.Branch)
	}

	exp, err := s.export(ctx)
	if err != nil {
		return fail(err)
	}

	target := cfg.Target
	if strings.TrimSpace(target.CommitMessage) == "" {
		target.CommitMessage = "Update design tokens from Figma - " + tokens.FormatTime(s.opts.Now())
	}

	pushCtx, cancel := context.WithTimeout(ctx, s.opts.PublishTimeout)
	defer cancel()

	s.opts.logInfo("Pushing %s to %s/%s@%s...", target.FilePath, target.Owner, target.Repo, target.Branch)
	res, err := s.opts.GitHub.PutFile(pushCtx, token, target, exp.data)
	if err != nil {
		s.record(ctx, exp, history.ExportGitHub, "", err)
		return fail(err)
	}

	s.record(ctx, exp, history.ExportGitHub, res.CommitURL, nil)
	s.archive(ctx, exp)
	s.opts.logInfo("Tokens pushed to GitHub: %s", res.CommitURL)
	return GitHubPushSuccess{CommitURL: res.CommitURL}
}

// record saves the collection and the export event. Failures are logged, never returned.
func (s *Session) record(ctx context.Context, exp *export, kind history.ExportKind, commitURL string, exportErr error) {
	if s.opts.History == nil {
		return
	}

	in := history.ExportInput{Kind: kind, Status: history.StatusSuccess, TokenCount: exp.stats.TotalTokens, CommitURL: commitURL}
	if exportErr != nil {
		in.Status = history.StatusError
		in.Error = exportErr.Error()
	} else {
		col, err := s.opts.History.SaveCollection(ctx, s.collectionInput(ctx, exp))
		if err != nil {
			s.opts.logWarn("could not save the token collection: %v", err)
		} else {
			in.CollectionID = col.ID
		}
	}

	if _, err := s.opts.History.RecordExport(ctx, in); err != nil {
		s.opts.logWarn("could not record the export: %v", err)
	}
}

func (s *Session) collectionInput(ctx context.Context, exp *export) history.CollectionInput {
	doc := s.document(ctx)

	tokensJSON, err := json.Marshal(exp.tree)
	if err != nil {
		tokensJSON = []byte("{}")
	}
	metadataJSON, err := json.Marshal(exp.envelope.Metadata)
	if err != nil {
		metadataJSON = nil
	}

	name := doc.Name
	if name == "" {
		name = "Design Tokens"
	}
	return history.CollectionInput{
		FigmaFileID:   doc.FileKey,
		FigmaFileName: doc.Name,
		Name:          name,
		Tokens:        tokensJSON,
		Metadata:      metadataJSON,
		TokenCount:    exp.stats.TotalTokens,
	}
}

func (s *Session) archive(ctx context.Context, exp *export) {
	if s.opts.Archive == nil {
		return
	}
	key, err := s.opts.Archive.Put(ctx, archive.ObjectKey(s.document(ctx).FileKey, s.opts.Now()), exp.data)
	if err != nil {
		s.opts.logWarn("could not archive the export: %v", err)
		return
	}
	s.opts.logInfo("Archived export as %s", key)
}

// document returns the source document info, with "local" standing in for a missing file key.
func (s *Session) document(ctx context.Context) figma.DocumentInfo {
	doc, err := s.opts.Source.Document(ctx)
	if err != nil {
		s.opts.logWarn("could not read the document info: %v", err)
	}
	if doc.FileKey == "" {
		doc.FileKey = "local"
	}
	return doc
}
