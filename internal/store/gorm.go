package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emrgen/glossary/internal/errs"
	"github.com/emrgen/glossary/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (g *GormStore) CreateGlossary(ctx context.Context, glossary *model.Glossary, who *string) error {
	if glossary.ID == "" {
		glossary.ID = uuid.New().String()
	}
	glossary.Revision = 0

	return g.Transaction(ctx, func(tx Store) error {
		gtx := tx.(*GormStore)

		if err := gtx.db.WithContext(ctx).Create(glossary).Error; err != nil {
			if errs.KindOf(errs.Classify(err)) == errs.KindConflict {
				return errs.Conflict(errs.ConstraintUnique, "term %q already exists", glossary.Term)
			}
			return errs.Classify(err)
		}

		return gtx.appendHistory(ctx, glossary, who)
	})
}

func (g *GormStore) GetGlossary(ctx context.Context, id uuid.UUID) (*model.Glossary, error) {
	var glossary model.Glossary
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&glossary).Error
	if err != nil {
		if errs.IsNotFound(errs.Classify(err)) {
			return nil, errs.NotFound("glossary %s not found", id)
		}
		return nil, errs.Classify(err)
	}

	return &glossary, nil
}

func (g *GormStore) ListGlossaries(ctx context.Context) ([]*model.Glossary, error) {
	glossaries := make([]*model.Glossary, 0)
	err := g.db.WithContext(ctx).Order("term asc").Find(&glossaries).Error
	if err != nil {
		return nil, errs.Classify(err)
	}

	return glossaries, nil
}

func (g *GormStore) SearchGlossaries(ctx context.Context, query string, limit int) ([]*model.Glossary, int64, error) {
	glossaries := make([]*model.Glossary, 0)
	if query == "" {
		return glossaries, 0, nil
	}

	// % and _ in the query are literals, never wildcards
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	matched := func() *gorm.DB {
		return g.db.WithContext(ctx).Model(&model.Glossary{}).
			Where(`lower(term) LIKE ? ESCAPE '\' OR lower(definition) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := matched().Count(&total).Error; err != nil {
		return nil, 0, errs.Classify(err)
	}

	err := matched().Order("term asc").Limit(limit).Find(&glossaries).Error
	if err != nil {
		return nil, 0, errs.Classify(err)
	}

	return glossaries, total, nil
}

func (g *GormStore) UpdateGlossary(ctx context.Context, id uuid.UUID, expectedRevision *int, term, definition string, who *string) (*model.Glossary, error) {
	var updated model.Glossary

	err := g.Transaction(ctx, func(tx Store) error {
		gtx := tx.(*GormStore)

		// revision increments inside the statement so two racing updates can
		// never both apply against the same revision
		stmt := gtx.db.WithContext(ctx).Model(&model.Glossary{}).Where("id = ?", id.String())
		if expectedRevision != nil {
			stmt = stmt.Where("revision = ?", *expectedRevision)
		}

		res := stmt.Updates(map[string]interface{}{
			"term":       term,
			"definition": definition,
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": time.Now().UTC(),
		})
		if res.Error != nil {
			if errs.ConstraintOf(errs.Classify(res.Error)) == errs.ConstraintUnique {
				return errs.Conflict(errs.ConstraintUnique, "term %q already exists", term)
			}
			return errs.Classify(res.Error)
		}

		if res.RowsAffected == 0 {
			var exists int64
			if err := gtx.db.WithContext(ctx).Model(&model.Glossary{}).Where("id = ?", id.String()).Count(&exists).Error; err != nil {
				return errs.Classify(err)
			}
			if exists == 0 {
				return errs.NotFound("glossary %s not found", id)
			}
			return errs.Conflict(errs.ConstraintNone, "glossary %s was changed by another update", id)
		}

		if err := gtx.db.WithContext(ctx).Where("id = ?", id.String()).First(&updated).Error; err != nil {
			return errs.Classify(err)
		}

		return gtx.appendHistory(ctx, &updated, who)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (g *GormStore) DeleteGlossary(ctx context.Context, id uuid.UUID) error {
	// children drop with the parent through the cascade constraint, so the
	// whole removal is a single atomic statement
	return g.Transaction(ctx, func(tx Store) error {
		gtx := tx.(*GormStore)

		res := gtx.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&model.Glossary{})
		if res.Error != nil {
			return errs.Classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("glossary %s not found", id)
		}

		return nil
	})
}

func (g *GormStore) ListPopularGlossaries(ctx context.Context, limit int) ([]*PopularGlossary, error) {
	popular := make([]*PopularGlossary, 0)

	err := g.db.WithContext(ctx).Raw(`
		SELECT g.id, g.term, g.definition, g.revision, g.created_at, g.updated_at,
		       COUNT(l.id) AS likes_count
		FROM glossary g
		INNER JOIN likes l ON l.glossary_id = g.id
		GROUP BY g.id, g.term, g.definition, g.revision, g.created_at, g.updated_at
		ORDER BY COUNT(l.id) DESC, MAX(l.created_at) DESC
		LIMIT ?`, limit).Scan(&popular).Error
	if err != nil {
		logrus.Errorf("error listing popular glossaries: %v", err)
		return nil, errs.Classify(err)
	}

	return popular, nil
}

func (g *GormStore) CountGlossaries(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Glossary{}).Count(&count).Error
	if err != nil {
		return 0, errs.Classify(err)
	}

	return count, nil
}

func (g *GormStore) CreateLike(ctx context.Context, glossaryID uuid.UUID) (*model.Like, error) {
	like := &model.Like{
		ID:         uuid.New().String(),
		GlossaryID: glossaryID.String(),
	}

	if err := g.db.WithContext(ctx).Create(like).Error; err != nil {
		return nil, errs.Classify(err)
	}

	return like, nil
}

func (g *GormStore) DeleteLatestLike(ctx context.Context, glossaryID uuid.UUID) error {
	// one statement so two racing removals can never pick the same row; with
	// no likes left the delete simply affects zero rows
	err := g.db.WithContext(ctx).Exec(`
		DELETE FROM likes WHERE id = (
			SELECT id FROM likes WHERE glossary_id = ? ORDER BY created_at DESC LIMIT 1
		)`, glossaryID.String()).Error
	if err != nil {
		return errs.Classify(err)
	}

	return nil
}

func (g *GormStore) ListLikes(ctx context.Context, glossaryID uuid.UUID) ([]*model.Like, error) {
	likes := make([]*model.Like, 0)
	err := g.db.WithContext(ctx).
		Where("glossary_id = ?", glossaryID.String()).
		Order("created_at desc").
		Find(&likes).Error
	if err != nil {
		return nil, errs.Classify(err)
	}

	return likes, nil
}

func (g *GormStore) CountLikes(ctx context.Context, glossaryID uuid.UUID) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Like{}).
		Where("glossary_id = ?", glossaryID.String()).
		Count(&count).Error
	if err != nil {
		return 0, errs.Classify(err)
	}

	return count, nil
}

func (g *GormStore) CountAllLikes(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Like{}).Count(&count).Error
	if err != nil {
		return 0, errs.Classify(err)
	}

	return count, nil
}

func (g *GormStore) ListHistory(ctx context.Context, glossaryID uuid.UUID) ([]*model.GlossaryHistory, error) {
	history := make([]*model.GlossaryHistory, 0)
	err := g.db.WithContext(ctx).
		Where("glossary_id = ?", glossaryID.String()).
		Order("revision desc").
		Find(&history).Error
	if err != nil {
		return nil, errs.Classify(err)
	}

	return history, nil
}

// appendHistory writes the audit snapshot for the glossary's current state.
func (g *GormStore) appendHistory(ctx context.Context, glossary *model.Glossary, who *string) error {
	record := &model.GlossaryHistory{
		ID:         uuid.New().String(),
		GlossaryID: glossary.ID,
		Term:       glossary.Term,
		Definition: glossary.Definition,
		Revision:   glossary.Revision,
		Who:        who,
	}

	logrus.Debugf("appending history revision %d for glossary %s", record.Revision, record.GlossaryID)
	if err := g.db.WithContext(ctx).Create(record).Error; err != nil {
		return errs.Classify(err)
	}

	return nil
}

func (g *GormStore) Ping(ctx context.Context) error {
	db, err := g.db.DB()
	if err != nil {
		return errs.Classify(err)
	}

	if err := db.PingContext(ctx); err != nil {
		return errs.Classify(err)
	}

	return nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
