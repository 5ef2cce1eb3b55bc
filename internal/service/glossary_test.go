package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emrgen/glossary/internal/errs"
	"github.com/emrgen/glossary/internal/store"
	"github.com/emrgen/glossary/internal/tester"
)

func newGlossaryService(t *testing.T) *GlossaryService {
	t.Helper()
	tester.Setup()
	return NewGlossaryService(store.NewGormStore(tester.TestDB()))
}

func TestGlossaryService_Create(t *testing.T) {
	svc := newGlossaryService(t)

	glossary, err := svc.Create(context.TODO(), GlossaryInput{
		Term:       "API",
		Definition: "application programming interface",
	}, nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, glossary.ID)
	assert.Equal(t, 0, glossary.Revision)
	assert.Equal(t, int64(0), glossary.LikesCount)

	got, err := svc.Get(context.TODO(), glossary.ID)
	assert.NoError(t, err)
	assert.Equal(t, "API", got.Term)
}

func TestGlossaryService_CreateValidation(t *testing.T) {
	svc := newGlossaryService(t)

	tests := []struct {
		name  string
		input GlossaryInput
	}{
		{name: "empty term", input: GlossaryInput{Term: "", Definition: "something"}},
		{name: "blank term", input: GlossaryInput{Term: "   ", Definition: "something"}},
		{name: "empty definition", input: GlossaryInput{Term: "term", Definition: ""}},
		{name: "oversized term", input: GlossaryInput{Term: strings.Repeat("x", 256), Definition: "something"}},
		{name: "markup only term", input: GlossaryInput{Term: "<script></script>", Definition: "something"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.TODO(), tt.input, nil)
			assert.Error(t, err)
			assert.True(t, errs.IsInvalid(err))
		})
	}
}

func TestGlossaryService_CreateSanitizesMarkup(t *testing.T) {
	svc := newGlossaryService(t)

	glossary, err := svc.Create(context.TODO(), GlossaryInput{
		Term:       "  XSS  ",
		Definition: `cross site scripting <script>alert("boom")</script>`,
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "XSS", glossary.Term)
	assert.NotContains(t, glossary.Definition, "<script>")
	assert.Contains(t, glossary.Definition, "cross site scripting")
}

func TestGlossaryService_CreateDuplicate(t *testing.T) {
	svc := newGlossaryService(t)

	input := GlossaryInput{Term: "API", Definition: "application programming interface"}
	_, err := svc.Create(context.TODO(), input, nil)
	assert.NoError(t, err)

	_, err = svc.Create(context.TODO(), input, nil)
	assert.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestGlossaryService_GetInvalidID(t *testing.T) {
	svc := newGlossaryService(t)

	_, err := svc.Get(context.TODO(), "not-a-uuid")
	assert.Error(t, err)
	assert.True(t, errs.IsInvalid(err))
}

func TestGlossaryService_ListGrouped(t *testing.T) {
	svc := newGlossaryService(t)

	for _, term := range []string{"banana", "apple", "Avocado", "Cherry"} {
		_, err := svc.Create(context.TODO(), GlossaryInput{Term: term, Definition: "a " + term}, nil)
		assert.NoError(t, err)
	}

	groups, total, err := svc.ListGrouped(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, groups, 3)

	// groups come out alphabetically, grouping ignores case
	assert.Equal(t, "A", groups[0].Letter)
	assert.Equal(t, "B", groups[1].Letter)
	assert.Equal(t, "C", groups[2].Letter)
	assert.Len(t, groups[0].Glossaries, 2)
	assert.Equal(t, "apple", groups[0].Glossaries[0].Term)
	assert.Equal(t, "Avocado", groups[0].Glossaries[1].Term)
}

func TestGlossaryService_ListGroupedEmpty(t *testing.T) {
	svc := newGlossaryService(t)

	groups, total, err := svc.ListGrouped(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Len(t, groups, 0)
}

func TestGlossaryService_Search(t *testing.T) {
	svc := newGlossaryService(t)

	for _, term := range []string{"Apple", "Apricot", "Banana"} {
		_, err := svc.Create(context.TODO(), GlossaryInput{Term: term, Definition: "a fruit"}, nil)
		assert.NoError(t, err)
	}

	result, err := svc.Search(context.TODO(), "ap", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Len(t, result.Glossaries, 2)

	// empty query matches nothing
	result, err = svc.Search(context.TODO(), "   ", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
	assert.Len(t, result.Glossaries, 0)
}

func TestGlossaryService_UpdateFlow(t *testing.T) {
	svc := newGlossaryService(t)
	who := "editor@example.com"

	created, err := svc.Create(context.TODO(), GlossaryInput{
		Term:       "CRDT",
		Definition: "conflict-free replicated data type",
	}, &who)
	assert.NoError(t, err)

	updated, err := svc.Update(context.TODO(), created.ID, nil, GlossaryInput{
		Term:       "CRDT",
		Definition: "a data structure that merges without conflicts",
	}, &who)
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.Revision)

	// stale expected revision conflicts and leaves the entry untouched
	stale := 0
	_, err = svc.Update(context.TODO(), created.ID, &stale, GlossaryInput{
		Term:       "CRDT",
		Definition: "stale rewrite",
	}, &who)
	assert.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	history, err := svc.History(context.TODO(), created.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Revision)
	assert.Equal(t, who, *history[0].Who)

	err = svc.Delete(context.TODO(), created.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.TODO(), created.ID)
	assert.True(t, errs.IsNotFound(err))

	// the audit trail fell with the entry
	_, err = svc.History(context.TODO(), created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestGlossaryService_Popular(t *testing.T) {
	svc := newGlossaryService(t)
	likes := NewLikeService(store.NewGormStore(tester.TestDB()))

	a, err := svc.Create(context.TODO(), GlossaryInput{Term: "alpha", Definition: "first"}, nil)
	assert.NoError(t, err)
	b, err := svc.Create(context.TODO(), GlossaryInput{Term: "beta", Definition: "second"}, nil)
	assert.NoError(t, err)

	_, err = likes.Add(context.TODO(), a.ID)
	assert.NoError(t, err)
	_, err = likes.Add(context.TODO(), b.ID)
	assert.NoError(t, err)
	_, err = likes.Add(context.TODO(), b.ID)
	assert.NoError(t, err)

	popular, err := svc.Popular(context.TODO(), 0)
	assert.NoError(t, err)
	assert.Len(t, popular, 2)
	assert.Equal(t, "beta", popular[0].Term)
	assert.Equal(t, int64(2), popular[0].LikesCount)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultPopularLimit, clampLimit(0, DefaultPopularLimit))
	assert.Equal(t, DefaultSearchLimit, clampLimit(-5, DefaultSearchLimit))
	assert.Equal(t, 7, clampLimit(7, DefaultSearchLimit))
	assert.Equal(t, MaxLimit, clampLimit(5000, DefaultSearchLimit))
}

func TestFirstLetter(t *testing.T) {
	assert.Equal(t, "A", firstLetter("apple"))
	assert.Equal(t, "A", firstLetter("Avocado"))
	assert.Equal(t, "1", firstLetter("1password"))
	assert.Equal(t, "", firstLetter(""))
}
