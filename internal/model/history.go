package model

import (
	"time"
)

// GlossaryHistory is an append-only audit snapshot of a glossary entry. One
// row is written per successful create or update, tagged with the revision it
// represents. Rows are never updated and only removed by cascade when the
// owning entry is deleted.
type GlossaryHistory struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	GlossaryID string    `gorm:"type:uuid;not null;index:idx_glossary_history_glossary_id" json:"glossary_id"`
	Term       string    `gorm:"size:255;not null" json:"term"`
	Definition string    `gorm:"type:text;not null" json:"definition"`
	Revision   int       `gorm:"not null" json:"revision"`
	Who        *string   `gorm:"size:255" json:"who"`
	CreatedAt  time.Time `gorm:"index:idx_glossary_history_created_at,sort:desc" json:"created_at"`

	Glossary *Glossary `gorm:"foreignKey:GlossaryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (GlossaryHistory) TableName() string {
	return "glossary_history"
}
