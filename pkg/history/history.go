// Package history records exported token collections and export events so that
// previous exports can be listed later.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Default list sizes of the read endpoints.
const (
	DefaultCollectionsLimit = 10
	DefaultExportsLimit     = 20
)

// DemoUserID is the owner every collection is saved under until real accounts exist.
const (
	DemoUserID   = "demo-user"
	DemoUserName = "Demo User"
)

// ErrInvalid is returned for input that cannot be stored.
var ErrInvalid = errors.New("invalid data")

// ExportKind is where an export went.
type ExportKind string

// Export kinds.
const (
	ExportJSON   ExportKind = "json"
	ExportGitHub ExportKind = "github"
)

// ExportStatus is the outcome of an export.
type ExportStatus string

// Export outcomes.
const (
	StatusSuccess ExportStatus = "success"
	StatusError   ExportStatus = "error"
)

// CollectionInput is a token tree to save, as posted by clients.
type CollectionInput struct {
	FigmaFileID   string          `json:"figmaFileId"`
	FigmaFileName string          `json:"figmaFileName"`
	Name          string          `json:"name"`
	Tokens        json.RawMessage `json:"tokens"`
	Metadata      json.RawMessage `json:"metadata"`
	TokenCount    int             `json:"tokenCount"`
}

// Validate checks the fields every row needs.
func (in CollectionInput) Validate() error {
	if in.FigmaFileID == "" || in.Name == "" {
		return ErrInvalid
	}
	if len(in.Tokens) == 0 || !json.Valid(in.Tokens) {
		return ErrInvalid
	}
	if len(in.Metadata) > 0 && !json.Valid(in.Metadata) {
		return ErrInvalid
	}
	if in.TokenCount < 0 {
		return ErrInvalid
	}
	return nil
}

// Collection is a stored token tree.
type Collection struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	FigmaFileID   string          `json:"figmaFileId"`
	FigmaFileName string          `json:"figmaFileName"`
	Name          string          `json:"name"`
	Tokens        json.RawMessage `json:"tokens"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	TokenCount    int             `json:"tokenCount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CollectionSummary is a row of the recent collections list.
type CollectionSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	FigmaFileName string    `json:"figmaFileName"`
	TokenCount    int       `json:"tokenCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
	UserName      string    `json:"userName,omitempty"`
}

// ExportInput describes a finished export. CollectionID may be empty.
type ExportInput struct {
	CollectionID string
	Kind         ExportKind
	Status       ExportStatus
	TokenCount   int
	CommitURL    string
	Error        string
}

// ExportRecord is a stored export event.
type ExportRecord struct {
	ID           string       `json:"id"`
	CollectionID string       `json:"collectionId,omitempty"`
	ExportType   ExportKind   `json:"exportType"`
	Status       ExportStatus `json:"status"`
	TokenCount   int          `json:"tokenCount"`
	CreatedAt    time.Time    `json:"createdAt"`
	CommitURL    string       `json:"commitUrl,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// ExportSummary is a row of the recent exports list.
type ExportSummary struct {
	ID             string       `json:"id"`
	ExportType     ExportKind   `json:"exportType"`
	Status         ExportStatus `json:"status"`
	TokenCount     int          `json:"tokenCount"`
	CreatedAt      time.Time    `json:"createdAt"`
	CommitURL      string       `json:"commitUrl,omitempty"`
	CollectionName string       `json:"collectionName,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// Store persists collections and export events.
type Store interface {
	SaveCollection(ctx context.Context, in CollectionInput) (*Collection, error)
	RecordExport(ctx context.Context, in ExportInput) (*ExportRecord, error)
	// RecentCollections returns the most recently updated collections first.
	RecentCollections(ctx context.Context, limit int) ([]CollectionSummary, error)
	// RecentExports returns the most recent export events first.
	RecentExports(ctx context.Context, limit int) ([]ExportSummary, error)
	Close() error
}
