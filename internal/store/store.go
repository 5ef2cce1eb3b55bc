package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emrgen/glossary/internal/model"
)

// PopularGlossary is a glossary entry ranked by its likes.
type PopularGlossary struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Revision   int       `json:"revision"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	LikesCount int64     `json:"likes_count"`
}

type Store interface {
	GlossaryStore
	LikeStore
	HistoryStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
	Ping(ctx context.Context) error
}

type GlossaryStore interface {
	// CreateGlossary inserts a new entry at revision 0 together with its
	// revision-0 history row, in one transaction.
	CreateGlossary(ctx context.Context, glossary *model.Glossary, who *string) error
	// GetGlossary retrieves an entry by ID.
	GetGlossary(ctx context.Context, id uuid.UUID) (*model.Glossary, error)
	// ListGlossaries retrieves all entries ordered by term ascending.
	ListGlossaries(ctx context.Context) ([]*model.Glossary, error)
	// SearchGlossaries matches the query as a case-insensitive substring of
	// term or definition. It returns up to limit entries and the total number
	// of matches. An empty query matches nothing.
	SearchGlossaries(ctx context.Context, query string, limit int) ([]*model.Glossary, int64, error)
	// UpdateGlossary applies term/definition in a single statement that also
	// increments the revision, then appends a history row for the new
	// revision in the same transaction. A non-nil expectedRevision turns the
	// update into a compare-and-increment.
	UpdateGlossary(ctx context.Context, id uuid.UUID, expectedRevision *int, term, definition string, who *string) (*model.Glossary, error)
	// DeleteGlossary removes an entry. Likes and history go with it through
	// the cascade constraint.
	DeleteGlossary(ctx context.Context, id uuid.UUID) error
	// ListPopularGlossaries returns up to limit entries ordered by like count
	// descending, ties broken by the most recent like.
	ListPopularGlossaries(ctx context.Context, limit int) ([]*PopularGlossary, error)
	// CountGlossaries reports the total number of entries.
	CountGlossaries(ctx context.Context) (int64, error)
}

type LikeStore interface {
	// CreateLike adds a like to an entry.
	CreateLike(ctx context.Context, glossaryID uuid.UUID) (*model.Like, error)
	// DeleteLatestLike removes the newest like of an entry. Removing from an
	// entry with no likes is a no-op.
	DeleteLatestLike(ctx context.Context, glossaryID uuid.UUID) error
	// ListLikes retrieves all likes of an entry, newest first.
	ListLikes(ctx context.Context, glossaryID uuid.UUID) ([]*model.Like, error)
	// CountLikes reports the number of likes of an entry.
	CountLikes(ctx context.Context, glossaryID uuid.UUID) (int64, error)
	// CountAllLikes reports the total number of likes across all entries.
	CountAllLikes(ctx context.Context) (int64, error)
}

type HistoryStore interface {
	// ListHistory retrieves the audit snapshots of an entry, newest revision
	// first.
	ListHistory(ctx context.Context, glossaryID uuid.UUID) ([]*model.GlossaryHistory, error)
}
