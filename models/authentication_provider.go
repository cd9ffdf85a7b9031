package models

import (
	"gorm.io/gorm"
)

// AuthenticationProvider links a team to an external identity provider.
type AuthenticationProvider struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Name       string `gorm:"not null;size:50;uniqueIndex:idx_auth_providers_name_provider" json:"name"`
	ProviderID string `gorm:"not null;size:255;uniqueIndex:idx_auth_providers_name_provider" json:"provider_id"`
	Enabled    bool   `gorm:"not null" json:"enabled"`
	TeamID     string `gorm:"type:uuid;not null;index" json:"team_id"`
	Paranoid
}

func (p *AuthenticationProvider) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func EnabledAuthenticationProviders(db *gorm.DB, teamID string) ([]AuthenticationProvider, error) {
	var providers []AuthenticationProvider
	err := db.Where("team_id = ? AND enabled = ?", teamID, true).Order("name ASC").Find(&providers).Error
	return providers, err
}
