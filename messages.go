package figmatokens

import (
	"encoding/json"

	"github.com/kataras/figma-token-exporter/pkg/github"
	"github.com/kataras/figma-token-exporter/pkg/tokens"
)

// Inbound message types, sent by the panel.
const (
	MsgRefreshTokens   = "refresh-tokens"
	MsgDownloadJSON    = "download-json"
	MsgSaveGitHubToken = "save-github-token"
	MsgPushToGitHub    = "push-to-github"
	MsgClose           = "close"
)

// Outbound message types, sent to the panel.
const (
	MsgTokensExtracted   = "tokens-extracted"
	MsgDownloadReady     = "download-ready"
	MsgGitHubTokenSaved  = "github-token-saved"
	MsgGitHubPushSuccess = "github-push-success"
	MsgError             = "error"
)

// Inbound is a panel request. Token is set for save-github-token and Config for push-to-github.
type Inbound struct {
	Type   string      `json:"type"`
	Token  string      `json:"token,omitempty"`
	Config *PushConfig `json:"config,omitempty"`
}

// PushConfig is the repository configuration of a push-to-github request.
// The pull request fields are accepted for compatibility and ignored.
type PushConfig struct {
	github.Target

	// Token is ignored, the stored credential is always used.
	Token             string `json:"token,omitempty"`
	CreatePullRequest bool   `json:"createPullRequest,omitempty"`
	PRTitle           string `json:"prTitle,omitempty"`
	PRDescription     string `json:"prDescription,omitempty"`
}

// Outbound is a message for the panel. Its JSON form carries a "type" field.
type Outbound interface {
	MessageType() string
}

// TokensExtracted carries a fresh extraction for preview.
type TokensExtracted struct {
	Tokens         *tokens.Tree `json:"tokens"`
	HasGitHubToken bool         `json:"hasGitHubToken"`
	Stats          tokens.Stats `json:"stats"`
}

// DownloadReady carries the encoded export file.
type DownloadReady struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

// GitHubTokenSaved acknowledges a stored credential.
type GitHubTokenSaved struct {
	HasToken bool `json:"hasToken"`
}

// GitHubPushSuccess reports a finished push.
type GitHubPushSuccess struct {
	CommitURL string `json:"commitUrl,omitempty"`
}

// ErrorMessage reports a failed request.
type ErrorMessage struct {
	Message string `json:"message"`
}

func (TokensExtracted) MessageType() string   { return MsgTokensExtracted }
func (DownloadReady) MessageType() string     { return MsgDownloadReady }
func (GitHubTokenSaved) MessageType() string  { return MsgGitHubTokenSaved }
func (GitHubPushSuccess) MessageType() string { return MsgGitHubPushSuccess }
func (ErrorMessage) MessageType() string      { return MsgError }

func (m TokensExtracted) MarshalJSON() ([]byte, error) {
	type alias TokensExtracted
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MessageType(), alias(m)})
}

func (m DownloadReady) MarshalJSON() ([]byte, error) {
	type alias DownloadReady
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MessageType(), alias(m)})
}

func (m GitHubTokenSaved) MarshalJSON() ([]byte, error) {
	type alias GitHubTokenSaved
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MessageType(), alias(m)})
}

func (m GitHubPushSuccess) MarshalJSON() ([]byte, error) {
	type alias GitHubPushSuccess
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MessageType(), alias(m)})
}

func (m ErrorMessage) MarshalJSON() ([]byte, error) {
	type alias ErrorMessage
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{m.MessageType(), alias(m)})
}
