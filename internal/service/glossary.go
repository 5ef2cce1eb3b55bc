package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emrgen/glossary/internal/errs"
	"github.com/emrgen/glossary/internal/model"
	"github.com/emrgen/glossary/internal/store"
)

const (
	// DefaultPopularLimit is used when the caller does not ask for a limit.
	DefaultPopularLimit = 10
	// DefaultSearchLimit bounds search results when no limit is given.
	DefaultSearchLimit = 50
	// MaxLimit caps every caller supplied limit.
	MaxLimit = 100
)

// Glossary is the outward view of an entry, enriched with its like count.
type Glossary struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Revision   int       `json:"revision"`
	LikesCount int64     `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GlossaryGroup is one bucket of the alphabetical listing.
type GlossaryGroup struct {
	Letter     string      `json:"letter"`
	Glossaries []*Glossary `json:"glossaries"`
}

// SearchResult carries the matched entries and the total number of matches,
// which can exceed len(Glossaries) when the limit truncates.
type SearchResult struct {
	Glossaries []*Glossary `json:"glossaries"`
	Total      int64       `json:"total"`
}

// HistoryRecord is one audit snapshot of an entry.
type HistoryRecord struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Revision   int       `json:"revision"`
	Who        *string   `json:"who"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewGlossaryService creates a new GlossaryService.
func NewGlossaryService(store store.Store) *GlossaryService {
	return &GlossaryService{
		store: store,
	}
}

// GlossaryService orchestrates glossary reads and writes per endpoint. It
// owns input validation and translates every failure into a taxonomy value.
type GlossaryService struct {
	store store.Store
}

// Create adds a new entry at revision 0 and writes its revision-0 audit row.
func (s *GlossaryService) Create(ctx context.Context, in GlossaryInput, who *string) (*Glossary, error) {
	if err := cleanInput(&in); err != nil {
		return nil, err
	}

	glossary := &model.Glossary{
		ID:         uuid.New().String(),
		Term:       in.Term,
		Definition: in.Definition,
	}

	if err := s.store.CreateGlossary(ctx, glossary, who); err != nil {
		return nil, err
	}

	logrus.Infof("created glossary %s term %q", glossary.ID, glossary.Term)

	return toGlossary(glossary, 0), nil
}

// Get retrieves an entry with its current like count.
func (s *GlossaryService) Get(ctx context.Context, id string) (*Glossary, error) {
	glossaryID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	glossary, err := s.store.GetGlossary(ctx, glossaryID)
	if err != nil {
		return nil, err
	}

	likes, err := s.store.CountLikes(ctx, glossaryID)
	if err != nil {
		return nil, err
	}

	return toGlossary(glossary, likes), nil
}

// ListGrouped partitions all entries by the uppercase first letter of their
// term. Groups and members are both ordered, so the result is deterministic
// for a fixed set of rows.
func (s *GlossaryService) ListGrouped(ctx context.Context) ([]*GlossaryGroup, int, error) {
	glossaries, err := s.store.ListGlossaries(ctx)
	if err != nil {
		return nil, 0, err
	}

	buckets := make(map[string][]*Glossary)
	for _, glossary := range glossaries {
		likes, err := s.store.CountLikes(ctx, uuid.MustParse(glossary.ID))
		if err != nil {
			return nil, 0, err
		}

		letter := firstLetter(glossary.Term)
		buckets[letter] = append(buckets[letter], toGlossary(glossary, likes))
	}

	letters := make([]string, 0, len(buckets))
	for letter := range buckets {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	groups := make([]*GlossaryGroup, 0, len(letters))
	for _, letter := range letters {
		groups = append(groups, &GlossaryGroup{Letter: letter, Glossaries: buckets[letter]})
	}

	return groups, len(glossaries), nil
}

// Search matches the query case-insensitively against term and definition.
// An empty query matches nothing.
func (s *GlossaryService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	limit = clampLimit(limit, DefaultSearchLimit)

	glossaries, total, err := s.store.SearchGlossaries(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Glossaries: make([]*Glossary, 0, len(glossaries)), Total: total}
	for _, glossary := range glossaries {
		likes, err := s.store.CountLikes(ctx, uuid.MustParse(glossary.ID))
		if err != nil {
			return nil, err
		}
		result.Glossaries = append(result.Glossaries, toGlossary(glossary, likes))
	}

	return result, nil
}

// Update rewrites term and definition, bumps the revision by one and appends
// the matching audit row. A non-nil expectedRevision makes the update fail
// with a conflict when the entry moved on in the meantime.
func (s *GlossaryService) Update(ctx context.Context, id string, expectedRevision *int, in GlossaryInput, who *string) (*Glossary, error) {
	glossaryID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if err := cleanInput(&in); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateGlossary(ctx, glossaryID, expectedRevision, in.Term, in.Definition, who)
	if err != nil {
		return nil, err
	}

	likes, err := s.store.CountLikes(ctx, glossaryID)
	if err != nil {
		return nil, err
	}

	logrus.Infof("updated glossary %s to revision %d", updated.ID, updated.Revision)

	return toGlossary(updated, likes), nil
}

// Delete removes an entry together with all its likes and history.
func (s *GlossaryService) Delete(ctx context.Context, id string) error {
	glossaryID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteGlossary(ctx, glossaryID); err != nil {
		return err
	}

	logrus.Infof("deleted glossary %s", glossaryID)

	return nil
}

// Popular lists entries by like count, most liked first; among equals the one
// liked most recently wins.
func (s *GlossaryService) Popular(ctx context.Context, limit int) ([]*Glossary, error) {
	limit = clampLimit(limit, DefaultPopularLimit)

	popular, err := s.store.ListPopularGlossaries(ctx, limit)
	if err != nil {
		return nil, err
	}

	glossaries := make([]*Glossary, 0, len(popular))
	for _, p := range popular {
		glossaries = append(glossaries, &Glossary{
			ID:         p.ID,
			Term:       p.Term,
			Definition: p.Definition,
			Revision:   p.Revision,
			LikesCount: p.LikesCount,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}

	return glossaries, nil
}

// History lists the audit snapshots of an entry, newest revision first.
func (s *GlossaryService) History(ctx context.Context, id string) ([]*HistoryRecord, error) {
	glossaryID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	// existence first, a cascade deleted entry reports NotFound rather than
	// an empty trail
	if _, err := s.store.GetGlossary(ctx, glossaryID); err != nil {
		return nil, err
	}

	history, err := s.store.ListHistory(ctx, glossaryID)
	if err != nil {
		return nil, err
	}

	records := make([]*HistoryRecord, 0, len(history))
	for _, h := range history {
		records = append(records, &HistoryRecord{
			ID:         h.ID,
			Term:       h.Term,
			Definition: h.Definition,
			Revision:   h.Revision,
			Who:        h.Who,
			CreatedAt:  h.CreatedAt,
		})
	}

	return records, nil
}

func toGlossary(glossary *model.Glossary, likes int64) *Glossary {
	return &Glossary{
		ID:         glossary.ID,
		Term:       glossary.Term,
		Definition: glossary.Definition,
		Revision:   glossary.Revision,
		LikesCount: likes,
		CreatedAt:  glossary.CreatedAt,
		UpdatedAt:  glossary.UpdatedAt,
	}
}

func parseID(id string) (uuid.UUID, error) {
	glossaryID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errs.Invalid("invalid glossary id %q", id)
	}
	return glossaryID, nil
}

func firstLetter(term string) string {
	for _, r := range term {
		return string(unicode.ToUpper(r))
	}
	return ""
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
