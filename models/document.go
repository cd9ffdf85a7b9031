package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Document struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	Title            string     `gorm:"not null;size:100" json:"title"`
	Text             string     `gorm:"type:text" json:"text"`
	Version          int        `gorm:"not null" json:"version"`
	IsWelcome        bool       `gorm:"not null" json:"is_welcome"`
	ParentDocumentID *string    `gorm:"type:uuid;index" json:"parent_document_id"`
	CollectionID     *string    `gorm:"type:uuid;index" json:"collection_id"`
	TeamID           string     `gorm:"type:uuid;not null;index" json:"team_id"`
	CreatedByID      string     `gorm:"type:uuid;not null" json:"created_by_id"`
	LastModifiedByID string     `gorm:"type:uuid;not null" json:"last_modified_by_id"`
	PublishedAt      *time.Time `json:"published_at"`
	Paranoid
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (d *Document) URL() string {
	return "/doc/" + d.ID
}

func (d *Document) IsPublished() bool {
	return d.PublishedAt != nil
}

// Publish marks the document published by userID and adds it to the top of
// its collection's structure. It runs on tx so callers control atomicity.
func (d *Document) Publish(tx *gorm.DB, userID string) error {
	if d.IsPublished() {
		return nil
	}

	if d.CollectionID != nil {
		var collection Collection
		err := tx.Where("id = ? AND team_id = ?", *d.CollectionID, d.TeamID).First(&collection).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		if err != nil {
			return err
		}
		collection.AddDocumentToStructure(d, 0)
		if err := tx.Model(&collection).Update("document_structure", collection.DocumentStructure).Error; err != nil {
			return err
		}
	}

	now := time.Now()
	if err := tx.Model(d).Updates(map[string]interface{}{
		"published_at":        now,
		"last_modified_by_id": userID,
	}).Error; err != nil {
		return err
	}
	d.PublishedAt = &now
	d.LastModifiedByID = userID
	return nil
}
