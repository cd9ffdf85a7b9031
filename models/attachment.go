package models

import (
	"errors"

	"gorm.io/gorm"
)

type Attachment struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	TeamID      string  `gorm:"type:uuid;not null;index" json:"team_id"`
	UserID      string  `gorm:"type:uuid;not null" json:"user_id"`
	DocumentID  *string `gorm:"type:uuid;index" json:"document_id"`
	Key         string  `gorm:"not null;size:4096" json:"key"`
	ContentType string  `gorm:"size:255" json:"content_type"`
	Size        int64   `json:"size"`
	Paranoid
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// FindAttachment loads an attachment by id, scoped to teamID. An attachment of
// another team is reported as ErrAttachmentNotFound.
func FindAttachment(db *gorm.DB, id, teamID string) (*Attachment, error) {
	var attachment Attachment
	err := db.Where("id = ? AND team_id = ?", id, teamID).First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}
