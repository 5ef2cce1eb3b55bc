package model

import (
	"time"
)

// Like is an endorsement of a glossary entry. Likes are not deduplicated by
// actor; the same entry can be liked any number of times. A like only exists
// while its owning entry exists, the foreign key cascades on delete.
type Like struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	GlossaryID string    `gorm:"type:uuid;not null;index:idx_likes_glossary_id;index:idx_likes_glossary_created,priority:1" json:"glossary_id"`
	CreatedAt  time.Time `gorm:"index:idx_likes_created_at,sort:desc;index:idx_likes_glossary_created,priority:2,sort:desc" json:"created_at"`

	Glossary *Glossary `gorm:"foreignKey:GlossaryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
