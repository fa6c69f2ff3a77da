// Package figmatokens extracts design tokens (colors, typography, effects, grids,
// spacing and border radii) from a Figma document, normalizes them into a portable
// token tree and exports the result as JSON, to a GitHub repository or both.
//
// The extraction engine lives in pkg/tokens and reads the document through the
// figma.Source interface, so it runs against the REST API (figma.RemoteSource) or a
// JSON snapshot (figma.LoadSnapshot). This root package is the panel controller that
// drives the engine from panel messages; the CLI lives in cmd/figma-tokens and the
// HTTP/websocket server in pkg/server.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmatokens:
//
//	import "github.com/kataras/figma-token-exporter" // package figmatokens
//
// # Quick start
//
//	snap, err := figma.LoadSnapshot("document.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := figmatokens.New(figmatokens.Options{Source: snap})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch msg := s.Handle(ctx, figmatokens.Inbound{Type: figmatokens.MsgDownloadJSON}).(type) {
//	case figmatokens.DownloadReady:
//	    os.WriteFile(msg.Filename, []byte(msg.Data), 0644)
//	case figmatokens.ErrorMessage:
//	    log.Fatal(msg.Message)
//	}
//
// # Messages
//
// A Session accepts refresh-tokens, download-json, save-github-token, push-to-github
// and close, and answers with tokens-extracted, download-ready, github-token-saved,
// github-push-success or error. Only one request runs at a time; a request sent
// while another is running is answered with an error instead of being queued.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Persistence
//
// The GitHub token is kept in a credential.Store, read once when the session starts.
// When [Options.History] is set every export is recorded as a token collection plus an
// export event, and when [Options.Archive] is set a copy of every exported file is
// uploaded to an S3 compatible bucket.
package figmatokens
