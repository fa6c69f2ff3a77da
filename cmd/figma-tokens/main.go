package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	figmatokens "github.com/kataras/figma-token-exporter"
	"github.com/kataras/figma-token-exporter/pkg/archive"
	"github.com/kataras/figma-token-exporter/pkg/credential"
	"github.com/kataras/figma-token-exporter/pkg/figma"
	"github.com/kataras/figma-token-exporter/pkg/formatter"
	"github.com/kataras/figma-token-exporter/pkg/github"
	"github.com/kataras/figma-token-exporter/pkg/history"
	"github.com/kataras/figma-token-exporter/pkg/server"
	"github.com/kataras/figma-token-exporter/pkg/tokens"
)

const version = figmatokens.Version

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "figma-tokens",
		Short:         "Export design tokens from Figma files",
		Long:          "A tool to extract color, typography, effect, grid, spacing and radius tokens from Figma files and export them as JSON or to a GitHub repository",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", defaultConfigFile, "Path to the YAML config file")
	pf.StringP("token", "t", "", "Figma Personal Access Token (env FIGMA_TOKEN)")
	pf.StringP("url", "u", "", "Figma file URL (env FIGMA_FILE_URL)")
	pf.String("page", "", "Page node ID used for grids, spacing and radii (default: first page)")
	pf.StringP("snapshot", "s", "", "Read the document from a JSON snapshot instead of the Figma API")
	pf.String("database", "", "History database: a SQLite path or a postgres:// URL (env DATABASE_URL)")
	pf.String("credentials", "", "Credentials file holding the GitHub token (default: user config dir)")

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract tokens and write the export file",
		RunE:  runExtract,
	}
	extractCmd.Flags().StringP("output", "o", "design-tokens.json", "Output JSON file")
	extractCmd.Flags().StringP("report", "r", "", "Also write a markdown report to this file")

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Extract tokens and commit the export file to a GitHub repository",
		RunE:  runPush,
	}
	pushCmd.Flags().String("owner", "", "Repository owner (env GITHUB_OWNER)")
	pushCmd.Flags().String("repo", "", "Repository name (env GITHUB_REPO)")
	pushCmd.Flags().String("branch", "main", "Branch to commit to (env GITHUB_BRANCH)")
	pushCmd.Flags().String("path", "tokens/design-tokens.json", "File path in the repository (env GITHUB_FILE_PATH)")
	pushCmd.Flags().StringP("message", "m", "", "Commit message (default: \"Update design tokens from Figma - <time>\")")
	pushCmd.Flags().Duration("timeout", figmatokens.DefaultPublishTimeout, "Timeout of the GitHub request")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored GitHub token",
	}
	tokenCmd.AddCommand(&cobra.Command{
		Use:   "set <github-token>",
		Short: "Store the GitHub token used by push",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenSet,
	}, &cobra.Command{
		Use:   "status",
		Short: "Report whether a GitHub token is stored",
		Args:  cobra.NoArgs,
		RunE:  runTokenStatus,
	})

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the Figma document as a JSON snapshot for offline extraction",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringP("output", "o", "figma-snapshot.json", "Output JSON file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export history API and the panel websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", server.DefaultAddr, "Listen address (env PORT)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-tokens version %s\n", version)
		},
	}

	rootCmd.AddCommand(extractCmd, pushCmd, tokenCmd, snapshotCmd, serveCmd, versionCmd)
	return rootCmd
}

func banner() {
	cyan.Println("\n🎨 Figma Design Token Exporter")
	cyan.Println("===============================")
	cyan.Println()
}

func runExtract(cmd *cobra.Command, _ []string) error {
	banner()
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, src, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	preview, err := expect[figmatokens.TokensExtracted](session.Start(ctx))
	if err != nil {
		return err
	}
	printSummary(preview.Stats)

	dl, err := expect[figmatokens.DownloadReady](session.Handle(ctx, figmatokens.Inbound{Type: figmatokens.MsgDownloadJSON}))
	if err != nil {
		return err
	}
	if err := writeFile(cfg.Output, []byte(dl.Data)); err != nil {
		return err
	}

	if cfg.Report != "" {
		name := cfg.FileURL
		if doc, err := src.Document(ctx); err == nil && doc.Name != "" {
			name = doc.Name
		}
		md := formatter.ToMarkdown(preview.Tokens, preview.Stats, name)
		if err := writeFile(cfg.Report, []byte(md)); err != nil {
			return err
		}
	}

	green.Printf("\n✨ Successfully exported %d design tokens to %s\n\n", preview.Stats.TotalTokens, cfg.Output)
	return nil
}

func runPush(cmd *cobra.Command, _ []string) error {
	banner()
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, _, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := expect[figmatokens.GitHubPushSuccess](session.Handle(ctx, figmatokens.Inbound{
		Type:   figmatokens.MsgPushToGitHub,
		Config: &figmatokens.PushConfig{Target: cfg.GitHub},
	}))
	if err != nil {
		return err
	}

	green.Printf("\n✨ Tokens pushed to GitHub: %s\n\n", res.CommitURL)
	return nil
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	banner()
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("output") {
		cfg.Output = "figma-snapshot.json"
	}
	cfg.Snapshot = ""
	src, err := openSource(cfg)
	if err != nil {
		return err
	}

	snap, err := src.(*figma.RemoteSource).Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(cfg.Output, data); err != nil {
		return err
	}
	green.Printf("\n✨ Saved %d variables and %d styles to %s\n\n",
		len(snap.Variables), len(snap.PaintStyles)+len(snap.TextStyles)+len(snap.EffectStyles), cfg.Output)
	return nil
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	store, err := credentialStore(cfg)
	if err != nil {
		return err
	}
	token := strings.TrimSpace(args[0])
	if token == "" {
		return errors.New("token is empty")
	}
	if err := store.Set(cmd.Context(), credential.GitHubTokenKey, token); err != nil {
		return fmt.Errorf("save GitHub token: %w", err)
	}
	green.Printf("✓ GitHub token saved to %s\n", store.Path())
	return nil
}

func runTokenStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	store, err := credentialStore(cfg)
	if err != nil {
		return err
	}
	_, err = store.Get(cmd.Context(), credential.GitHubTokenKey)
	switch {
	case errors.Is(err, credential.ErrNotFound):
		fmt.Println("No GitHub token is stored. Run `figma-tokens token set <token>`.")
		return nil
	case err != nil:
		return err
	}
	green.Printf("✓ A GitHub token is stored in %s\n", store.Path())
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	banner()
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database == "" {
		cfg.Database = "figma-tokens.db"
	}
	store, err := history.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	cached := history.NewCachedStore(store, 30*time.Second)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts := server.Options{History: cached, Logger: logger}
	if cfg.Snapshot != "" || cfg.FileURL != "" {
		sessionOpts, err := sessionOptions(cfg)
		if err != nil {
			return err
		}
		sessionOpts.History = cached
		opts.Session = sessionOpts
	} else {
		(&cliLogger{}).Warnf("no Figma file configured, the panel websocket is disabled")
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}
	green.Printf("Serving on %s\n", cfg.Addr)
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// sessionOptions builds everything a session needs except the history store.
func sessionOptions(cfg Config) (figmatokens.Options, error) {
	src, err := openSource(cfg)
	if err != nil {
		return figmatokens.Options{}, err
	}
	creds, err := credentialStore(cfg)
	if err != nil {
		return figmatokens.Options{}, err
	}
	opts := figmatokens.Options{
		Source:         src,
		Credentials:    creds,
		GitHub:         github.NewClient(),
		PublishTimeout: cfg.PublishTimeout,
		Logger:         &cliLogger{},
	}
	if cfg.Archive.Enabled() {
		arch, err := archive.NewS3Store(cfg.Archive)
		if err != nil {
			return opts, err
		}
		opts.Archive = arch
	}
	return opts, nil
}

// openSession opens a session over cfg, with a history store when a database is configured.
func openSession(ctx context.Context, cfg Config) (*figmatokens.Session, figma.Source, func(), error) {
	opts, err := sessionOptions(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {}
	if cfg.Database != "" {
		store, err := history.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		opts.History = store
		cleanup = func() { store.Close() }
	}

	session, err := figmatokens.New(opts)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return session, opts.Source, cleanup, nil
}

func openSource(cfg Config) (figma.Source, error) {
	if cfg.Snapshot != "" {
		return figma.LoadSnapshot(cfg.Snapshot)
	}
	if cfg.FileURL == "" {
		return nil, errors.New("a Figma file URL (--url) or a snapshot (--snapshot) is required")
	}
	if cfg.FigmaToken == "" {
		return nil, errors.New("a Figma access token (--token or FIGMA_TOKEN) is required")
	}
	fileKey, err := figma.ExtractFileKey(cfg.FileURL)
	if err != nil {
		return nil, fmt.Errorf("extract file key: %w", err)
	}
	return figma.NewRemoteSource(figma.NewClient(cfg.FigmaToken), fileKey, cfg.Page), nil
}

func credentialStore(cfg Config) (*credential.FileStore, error) {
	path := cfg.CredentialsFile
	if path == "" {
		var err error
		if path, err = credential.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return credential.NewFileStore(path), nil
}

// expect unwraps the reply of a session request, turning error messages into errors.
func expect[T figmatokens.Outbound](out figmatokens.Outbound) (T, error) {
	var zero T
	switch msg := out.(type) {
	case T:
		return msg, nil
	case figmatokens.ErrorMessage:
		return zero, errors.New(msg.Message)
	default:
		return zero, fmt.Errorf("unexpected reply %T", out)
	}
}

func printSummary(stats tokens.Stats) {
	cyan.Println("\n📊 Extraction Summary:")
	fmt.Printf("  • Tokens: %d in %d collections\n", stats.TotalTokens, stats.Collections)
	for _, typ := range []tokens.Type{
		tokens.TypeColor, tokens.TypeGradient, tokens.TypeTypography, tokens.TypeBoxShadow,
		tokens.TypeGrid, tokens.TypeDimension, tokens.TypeOther,
	} {
		if n := stats.TokensByType[typ]; n > 0 {
			fmt.Printf("  • %s: %d\n", typ, n)
		}
	}
}

func writeFile(path string, data []byte) error {
	green.Printf("\n💾 Writing to %s... ", path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		red.Printf("✗\n")
		return err
	}
	green.Println("✓")
	return nil
}

// cliLogger implements figmatokens.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
