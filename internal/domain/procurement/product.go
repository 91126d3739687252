package procurement

import (
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// EmbeddingDimensions is fixed by the vector column.
const EmbeddingDimensions = 768

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"column:name;type:text;not null;index" json:"name"`
	NameKey     string           `gorm:"column:name_key;type:text;not null;default:'';index" json:"-"`
	Description *string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Specs       *string          `gorm:"column:specs;type:text" json:"specs,omitempty"`
	Embedding   *pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// NameKey folds a product name for exact, case-insensitive lookup. Full
// Unicode folding is used, so "ÄPFEL" matches "äpfel" and "Straße" matches
// "STRASSE".
func NameKey(name string) string {
	return cases.Fold().String(name)
}

func (p *Product) BeforeSave(*gorm.DB) error {
	p.NameKey = NameKey(p.Name)
	return nil
}

// EmbeddingText is the text a new product is embedded from.
func (p Product) EmbeddingText() string {
	parts := []string{strings.TrimSpace(p.Name)}
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		parts = append(parts, strings.TrimSpace(*p.Description))
	}
	if p.Specs != nil && strings.TrimSpace(*p.Specs) != "" {
		parts = append(parts, strings.TrimSpace(*p.Specs))
	}
	return strings.Join(parts, " ")
}
