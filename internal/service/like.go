package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/glossary/internal/errs"
	"github.com/emrgen/glossary/internal/store"
)

// Like is the outward view of a like row.
type Like struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLikeService creates a new LikeService.
func NewLikeService(store store.Store) *LikeService {
	return &LikeService{
		store: store,
	}
}

// LikeService manages the likes of glossary entries.
type LikeService struct {
	store store.Store
}

// Add records one like for the entry. Liking a missing entry reports
// NotFound; the underlying foreign key violation never surfaces raw.
func (s *LikeService) Add(ctx context.Context, glossaryID string) (*Like, error) {
	id, err := parseID(glossaryID)
	if err != nil {
		return nil, err
	}

	like, err := s.store.CreateLike(ctx, id)
	if err != nil {
		if errs.ConstraintOf(err) == errs.ConstraintForeignKey {
			return nil, errs.NotFound("glossary %s not found", id)
		}
		return nil, err
	}

	logrus.Debugf("liked glossary %s", id)

	return &Like{ID: like.ID, CreatedAt: like.CreatedAt}, nil
}

// Remove deletes the newest like of the entry. Removing from an entry with no
// likes is a no-op; removing from a missing entry reports NotFound.
func (s *LikeService) Remove(ctx context.Context, glossaryID string) error {
	id, err := parseID(glossaryID)
	if err != nil {
		return err
	}

	if _, err := s.store.GetGlossary(ctx, id); err != nil {
		return err
	}

	return s.store.DeleteLatestLike(ctx, id)
}

// List retrieves the likes of the entry, newest first.
func (s *LikeService) List(ctx context.Context, glossaryID string) ([]*Like, error) {
	id, err := parseID(glossaryID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetGlossary(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.store.ListLikes(ctx, id)
	if err != nil {
		return nil, err
	}

	likes := make([]*Like, 0, len(rows))
	for _, row := range rows {
		likes = append(likes, &Like{ID: row.ID, CreatedAt: row.CreatedAt})
	}

	return likes, nil
}
