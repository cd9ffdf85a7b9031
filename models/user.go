package models

import (
	"errors"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
	UserRoleViewer UserRole = "viewer"
)

type User struct {
	ID     string   `gorm:"primaryKey;type:uuid" json:"id"`
	Name   string   `gorm:"not null;size:255" json:"name"`
	Email  string   `gorm:"size:255;index" json:"email"`
	TeamID string   `gorm:"type:uuid;not null;index" json:"team_id"`
	Role   UserRole `gorm:"not null;size:20" json:"role"`
	Paranoid
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	if u.Role == "" {
		u.Role = UserRoleMember
	}
	return nil
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// FindTeamUser loads a user that belongs to teamID.
func FindTeamUser(db *gorm.DB, teamID, userID string) (*User, error) {
	var user User
	err := db.Where("id = ? AND team_id = ?", userID, teamID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
