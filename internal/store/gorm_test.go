package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/emrgen/glossary/internal/errs"
	"github.com/emrgen/glossary/internal/model"
	"github.com/emrgen/glossary/internal/store"
	"github.com/emrgen/glossary/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}

func newStore(t *testing.T) *store.GormStore {
	t.Helper()
	tester.Setup()
	return store.NewGormStore(tester.TestDB())
}

func createEntry(t *testing.T, s *store.GormStore, term, definition string) *model.Glossary {
	t.Helper()
	glossary := &model.Glossary{
		ID:         uuid.New().String(),
		Term:       term,
		Definition: definition,
	}
	err := s.CreateGlossary(context.TODO(), glossary, nil)
	assert.NoError(t, err)

	return glossary
}

func TestGormStore_CreateGlossary(t *testing.T) {
	s := newStore(t)

	glossary := createEntry(t, s, "API", "application programming interface")
	assert.Equal(t, 0, glossary.Revision)

	got, err := s.GetGlossary(context.TODO(), uuid.MustParse(glossary.ID))
	assert.NoError(t, err)
	assert.Equal(t, "API", got.Term)
	assert.Equal(t, 0, got.Revision)

	// history starts at revision 0
	history, err := s.ListHistory(context.TODO(), uuid.MustParse(glossary.ID))
	assert.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, 0, history[0].Revision)
}

func TestGormStore_CreateGlossaryDuplicateTerm(t *testing.T) {
	s := newStore(t)

	createEntry(t, s, "API", "application programming interface")

	err := s.CreateGlossary(context.TODO(), &model.Glossary{
		ID:         uuid.New().String(),
		Term:       "API",
		Definition: "another definition",
	}, nil)
	assert.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, errs.ConstraintUnique, errs.ConstraintOf(err))
}

func TestGormStore_UpdateGlossaryRevision(t *testing.T) {
	s := newStore(t)
	who := "editor@example.com"

	glossary := createEntry(t, s, "REST", "representational state transfer")
	id := uuid.MustParse(glossary.ID)

	updated, err := s.UpdateGlossary(context.TODO(), id, nil, "REST", "first rewrite", &who)
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.Revision)

	updated, err = s.UpdateGlossary(context.TODO(), id, nil, "REST", "second rewrite", &who)
	assert.NoError(t, err)
	assert.Equal(t, 2, updated.Revision)

	// newest revision first, one row per write including the create
	history, err := s.ListHistory(context.TODO(), id)
	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, 2, history[0].Revision)
	assert.Equal(t, 1, history[1].Revision)
	assert.Equal(t, 0, history[2].Revision)
	assert.Equal(t, "second rewrite", history[0].Definition)
	assert.Nil(t, history[2].Who)
	assert.Equal(t, who, *history[0].Who)
}

func TestGormStore_UpdateGlossaryExpectedRevision(t *testing.T) {
	s := newStore(t)

	glossary := createEntry(t, s, "gRPC", "remote procedure calls")
	id := uuid.MustParse(glossary.ID)

	current := 0
	updated, err := s.UpdateGlossary(context.TODO(), id, &current, "gRPC", "rewrite", nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.Revision)

	// stale revision loses
	_, err = s.UpdateGlossary(context.TODO(), id, &current, "gRPC", "stale rewrite", nil)
	assert.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	got, err := s.GetGlossary(context.TODO(), id)
	assert.NoError(t, err)
	assert.Equal(t, "rewrite", got.Definition)
	assert.Equal(t, 1, got.Revision)
}

func TestGormStore_UpdateGlossaryNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.UpdateGlossary(context.TODO(), uuid.New(), nil, "ghost", "no such entry", nil)
	assert.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestGormStore_DeleteGlossaryCascade(t *testing.T) {
	s := newStore(t)

	glossary := createEntry(t, s, "cascade", "falls all the way down")
	id := uuid.MustParse(glossary.ID)

	_, err := s.CreateLike(context.TODO(), id)
	assert.NoError(t, err)
	_, err = s.CreateLike(context.TODO(), id)
	assert.NoError(t, err)

	_, err = s.UpdateGlossary(context.TODO(), id, nil, "cascade", "still falling", nil)
	assert.NoError(t, err)

	err = s.DeleteGlossary(context.TODO(), id)
	assert.NoError(t, err)

	_, err = s.GetGlossary(context.TODO(), id)
	assert.True(t, errs.IsNotFound(err))

	// likes and history rows fall with the parent
	likes, err := s.CountLikes(context.TODO(), id)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), likes)

	history, err := s.ListHistory(context.TODO(), id)
	assert.NoError(t, err)
	assert.Len(t, history, 0)
}

func TestGormStore_DeleteGlossaryNotFound(t *testing.T) {
	s := newStore(t)

	err := s.DeleteGlossary(context.TODO(), uuid.New())
	assert.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestGormStore_ListPopularGlossaries(t *testing.T) {
	s := newStore(t)

	a := createEntry(t, s, "alpha", "one like")
	b := createEntry(t, s, "beta", "three likes, liked earlier")
	c := createEntry(t, s, "gamma", "three likes, liked later")

	like := func(g *model.Glossary, n int) {
		for i := 0; i < n; i++ {
			_, err := s.CreateLike(context.TODO(), uuid.MustParse(g.ID))
			assert.NoError(t, err)
		}
		// keep like timestamps apart so recency breaks ties
		time.Sleep(10 * time.Millisecond)
	}

	like(a, 1)
	like(b, 3)
	like(c, 3)

	popular, err := s.ListPopularGlossaries(context.TODO(), 10)
	assert.NoError(t, err)
	assert.Len(t, popular, 3)

	// ties on like count resolve to the most recently liked entry
	assert.Equal(t, "gamma", popular[0].Term)
	assert.Equal(t, "beta", popular[1].Term)
	assert.Equal(t, "alpha", popular[2].Term)
	assert.Equal(t, int64(3), popular[0].LikesCount)
	assert.Equal(t, int64(1), popular[2].LikesCount)

	// never-liked entries stay out
	createEntry(t, s, "delta", "never liked")
	popular, err = s.ListPopularGlossaries(context.TODO(), 10)
	assert.NoError(t, err)
	assert.Len(t, popular, 3)

	// limit truncates from the top
	popular, err = s.ListPopularGlossaries(context.TODO(), 1)
	assert.NoError(t, err)
	assert.Len(t, popular, 1)
	assert.Equal(t, "gamma", popular[0].Term)
}

func TestGormStore_SearchGlossaries(t *testing.T) {
	s := newStore(t)

	createEntry(t, s, "Apple", "a fruit")
	createEntry(t, s, "Apricot", "another fruit")
	createEntry(t, s, "Banana", "a long fruit")

	glossaries, total, err := s.SearchGlossaries(context.TODO(), "AP", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, glossaries, 2)
	assert.Equal(t, "Apple", glossaries[0].Term)
	assert.Equal(t, "Apricot", glossaries[1].Term)

	// definitions match too
	glossaries, total, err = s.SearchGlossaries(context.TODO(), "long", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Banana", glossaries[0].Term)

	// total reports all matches even when limit truncates
	glossaries, total, err = s.SearchGlossaries(context.TODO(), "fruit", 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, glossaries, 2)

	glossaries, total, err = s.SearchGlossaries(context.TODO(), "", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, glossaries, 0)
}

func TestGormStore_SearchGlossariesLiteralWildcards(t *testing.T) {
	s := newStore(t)

	createEntry(t, s, "Apple", "a fruit")
	createEntry(t, s, "Banana", "a long fruit")
	createEntry(t, s, "100% juice", "no added sugar")
	createEntry(t, s, "snake_case", "words joined by underscores")

	// % matches only the entry containing a literal percent sign
	glossaries, total, err := s.SearchGlossaries(context.TODO(), "%", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, glossaries, 1)
	assert.Equal(t, "100% juice", glossaries[0].Term)

	// _ is a literal underscore, not a single-character wildcard
	glossaries, total, err = s.SearchGlossaries(context.TODO(), "a_l", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, glossaries, 0)

	glossaries, total, err = s.SearchGlossaries(context.TODO(), "e_c", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "snake_case", glossaries[0].Term)

	// a lone backslash never dangles as an escape prefix
	glossaries, total, err = s.SearchGlossaries(context.TODO(), `\`, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, glossaries, 0)
}

func TestGormStore_Likes(t *testing.T) {
	s := newStore(t)

	glossary := createEntry(t, s, "likeable", "collects likes")
	id := uuid.MustParse(glossary.ID)

	first, err := s.CreateLike(context.TODO(), id)
	assert.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := s.CreateLike(context.TODO(), id)
	assert.NoError(t, err)

	likes, err := s.ListLikes(context.TODO(), id)
	assert.NoError(t, err)
	assert.Len(t, likes, 2)
	assert.Equal(t, second.ID, likes[0].ID)

	// removing drops the newest like
	err = s.DeleteLatestLike(context.TODO(), id)
	assert.NoError(t, err)

	likes, err = s.ListLikes(context.TODO(), id)
	assert.NoError(t, err)
	assert.Len(t, likes, 1)
	assert.Equal(t, first.ID, likes[0].ID)

	// each removal takes exactly one row, down to zero
	err = s.DeleteLatestLike(context.TODO(), id)
	assert.NoError(t, err)

	count, err := s.CountLikes(context.TODO(), id)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// removing with no likes left is a no-op
	err = s.DeleteLatestLike(context.TODO(), id)
	assert.NoError(t, err)
}

func TestGormStore_CreateLikeMissingGlossary(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateLike(context.TODO(), uuid.New())
	assert.Error(t, err)
	assert.Equal(t, errs.ConstraintForeignKey, errs.ConstraintOf(err))
}

func TestGormStore_Counts(t *testing.T) {
	s := newStore(t)

	a := createEntry(t, s, "one", "first")
	createEntry(t, s, "two", "second")

	_, err := s.CreateLike(context.TODO(), uuid.MustParse(a.ID))
	assert.NoError(t, err)

	entries, err := s.CountGlossaries(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), entries)

	likes, err := s.CountAllLikes(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), likes)
}
