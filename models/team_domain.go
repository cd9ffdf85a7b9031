package models

import (
	"gorm.io/gorm"
)

// TeamDomain is an email domain allowed to sign in to a team.
type TeamDomain struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	TeamID      string  `gorm:"type:uuid;not null;uniqueIndex:idx_team_domains_team_name" json:"team_id"`
	Name        string  `gorm:"not null;size:255;uniqueIndex:idx_team_domains_team_name" json:"name"`
	CreatedByID *string `gorm:"type:uuid" json:"created_by_id"`
	Paranoid
}

func (d *TeamDomain) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (d *TeamDomain) BeforeSave(tx *gorm.DB) error {
	return collect(ValidateDomain(d.Name))
}

func FindAllowedDomains(db *gorm.DB, teamID string) ([]TeamDomain, error) {
	var domains []TeamDomain
	err := db.Where("team_id = ?", teamID).Order("name ASC").Find(&domains).Error
	return domains, err
}

// IsDomainAllowed reports whether users from domain may sign in. A team
// without allowed domains accepts every domain; otherwise the match is exact.
func (t *Team) IsDomainAllowed(db *gorm.DB, domain string) (bool, error) {
	domains, err := FindAllowedDomains(db, t.ID)
	if err != nil {
		return false, err
	}
	if len(domains) == 0 {
		return true, nil
	}
	for _, d := range domains {
		if d.Name == domain {
			return true, nil
		}
	}
	return false, nil
}
