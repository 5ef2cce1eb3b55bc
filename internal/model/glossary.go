package model

import (
	"time"
)

// Glossary is a single term definition. The term is globally unique and the
// revision counter starts at 0 and goes up by one on every successful update.
type Glossary struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Term       string    `gorm:"size:255;not null;uniqueIndex:idx_glossary_term" json:"term"`
	Definition string    `gorm:"type:text;not null" json:"definition"`
	Revision   int       `gorm:"not null;default:0" json:"revision"`
	CreatedAt  time.Time `gorm:"index:idx_glossary_created_at,sort:desc" json:"created_at"`
	UpdatedAt  time.Time `gorm:"index:idx_glossary_updated_at,sort:desc" json:"updated_at"`
}

func (Glossary) TableName() string {
	return "glossary"
}
