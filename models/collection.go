package models

import (
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CollectionPermission string

const (
	CollectionPermissionRead      CollectionPermission = "read"
	CollectionPermissionReadWrite CollectionPermission = "read_write"
)

type CollectionSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// DefaultCollectionSort orders documents by their position in the sidebar.
var DefaultCollectionSort = CollectionSort{Field: "index", Direction: "asc"}

// NavigationNode is one entry of a collection's document tree.
type NavigationNode struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	URL      string           `json:"url"`
	Children []NavigationNode `json:"children"`
}

type Collection struct {
	ID                string                              `gorm:"primaryKey;type:uuid" json:"id"`
	Name              string                              `gorm:"not null;size:100" json:"name"`
	Description       string                              `gorm:"size:1000" json:"description"`
	TeamID            string                              `gorm:"type:uuid;not null;index" json:"team_id"`
	CreatedByID       string                              `gorm:"type:uuid;not null" json:"created_by_id"`
	Permission        *CollectionPermission               `gorm:"size:20" json:"permission"`
	Sort              datatypes.JSONType[CollectionSort]  `json:"sort"`
	DocumentStructure datatypes.JSONSlice[NavigationNode] `json:"document_structure"`
	Documents         []Document                          `gorm:"foreignKey:CollectionID" json:"documents,omitempty"`
	Paranoid
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c *Collection) BeforeSave(tx *gorm.DB) error {
	if n := utf8.RuneCountInString(c.Name); n < 1 || n > 100 {
		return ValidationErrors{{Field: "name", Message: "must be between 1 and 100 characters"}}
	}
	if c.Permission != nil && *c.Permission != CollectionPermissionRead && *c.Permission != CollectionPermissionReadWrite {
		return ValidationErrors{{Field: "permission", Message: "must be read or read_write"}}
	}
	return nil
}

// AddDocumentToStructure inserts doc as a top-level node at index, clamped to
// the current length.
func (c *Collection) AddDocumentToStructure(doc *Document, index int) {
	node := NavigationNode{ID: doc.ID, Title: doc.Title, URL: doc.URL(), Children: []NavigationNode{}}
	nodes := []NavigationNode(c.DocumentStructure)
	if index < 0 || index > len(nodes) {
		index = len(nodes)
	}
	out := make([]NavigationNode, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, node)
	out = append(out, nodes[index:]...)
	c.DocumentStructure = datatypes.JSONSlice[NavigationNode](out)
}

// CollectionIDs returns the ids of the team's collections that carry a
// permission, oldest first.
func CollectionIDs(db *gorm.DB, teamID string) ([]string, error) {
	var ids []string
	err := db.Model(&Collection{}).
		Where("team_id = ? AND permission IS NOT NULL", teamID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}
