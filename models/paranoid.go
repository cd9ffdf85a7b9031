package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Paranoid adds lifecycle timestamps and soft delete to a model. Deleting a
// record that embeds it only sets DeletedAt; default queries skip such rows.
type Paranoid struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p Paranoid) IsDeleted() bool {
	return p.DeletedAt.Valid
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
