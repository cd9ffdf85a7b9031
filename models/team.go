package models

import (
	"net/url"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"workspace/avatar"
	"workspace/config"
)

type Team struct {
	ID                  string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name                string  `gorm:"not null;size:255" json:"name"`
	Subdomain           *string `gorm:"uniqueIndex;size:32" json:"subdomain"`
	Domain              *string `gorm:"uniqueIndex;size:255" json:"domain"`
	DefaultCollectionID *string `gorm:"type:uuid" json:"default_collection_id"`
	AvatarURL           *string `gorm:"size:4096" json:"avatar_url"`

	Sharing                bool `gorm:"not null" json:"sharing"`
	InviteRequired         bool `gorm:"not null" json:"invite_required"`
	GuestSignin            bool `gorm:"not null" json:"guest_signin"`
	DocumentEmbeds         bool `gorm:"not null" json:"document_embeds"`
	MemberCollectionCreate bool `gorm:"not null" json:"member_collection_create"`
	CollaborativeEditing   bool `gorm:"not null" json:"collaborative_editing"`

	SignupQueryParams datatypes.JSONMap `json:"signup_query_params,omitempty"`
	DefaultUserRole   UserRole          `gorm:"not null;size:20" json:"default_user_role"`
	Preferences       datatypes.JSONMap `json:"preferences,omitempty"`

	Collections             []Collection             `gorm:"foreignKey:TeamID" json:"collections,omitempty"`
	Documents               []Document               `gorm:"foreignKey:TeamID" json:"documents,omitempty"`
	Users                   []User                   `gorm:"foreignKey:TeamID" json:"users,omitempty"`
	AuthenticationProviders []AuthenticationProvider `gorm:"foreignKey:TeamID" json:"authentication_providers,omitempty"`
	AllowedDomains          []TeamDomain             `gorm:"foreignKey:TeamID" json:"allowed_domains,omitempty"`

	Paranoid
}

// NewTeam returns a team with the default policy flags set.
func NewTeam(name string) *Team {
	return &Team{
		Name:                   name,
		Sharing:                true,
		InviteRequired:         false,
		GuestSignin:            true,
		DocumentEmbeds:         true,
		MemberCollectionCreate: true,
		CollaborativeEditing:   true,
		DefaultUserRole:        UserRoleMember,
	}
}

// Validate checks every governed field and returns all violations as
// ValidationErrors. Uniqueness is enforced at commit, not here.
func (t *Team) Validate() error {
	errs := []error{
		ValidateName(t.Name),
		ValidateDefaultUserRole(t.DefaultUserRole),
		validatePreferences(t.Preferences),
	}
	if t.Subdomain != nil {
		errs = append(errs, ValidateSubdomain(*t.Subdomain))
	}
	if t.Domain != nil {
		errs = append(errs, ValidateDomain(*t.Domain))
	}
	if t.AvatarURL != nil {
		errs = append(errs, ValidateAvatarURL(*t.AvatarURL))
	}
	return collect(errs...)
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// ApplyDefaults fills fields the caller may leave empty.
func (t *Team) ApplyDefaults() {
	if t.DefaultUserRole == "" {
		t.DefaultUserRole = UserRoleMember
	}
}

func (t *Team) BeforeSave(tx *gorm.DB) error {
	t.ApplyDefaults()
	return t.Validate()
}

// URL resolves the public address of the team. A custom domain always wins,
// then the subdomain when subdomain routing is on, else the platform URL.
func (t *Team) URL(p config.Platform) string {
	if t.Domain != nil && *t.Domain != "" {
		return "https://" + *t.Domain
	}
	if t.Subdomain == nil || *t.Subdomain == "" || !p.SubdomainsEnabled {
		return p.URL
	}

	u, err := url.Parse(p.URL)
	if err != nil {
		return p.URL
	}
	u.Host = *t.Subdomain + "." + p.BaseDomain
	return strings.TrimSuffix(u.String(), "/")
}

func (t *Team) LogoURL() string {
	if t.AvatarURL != nil && *t.AvatarURL != "" {
		return *t.AvatarURL
	}
	return avatar.Generate(t.ID, t.Name)
}

// EmailSigninEnabled reports whether magic-link email sign-in can be offered.
func (t *Team) EmailSigninEnabled(p config.Platform) bool {
	return t.GuestSignin && (p.SMTPConfigured || p.IsDevelopment())
}

func (t *Team) HasCustomDomain() bool {
	return t.Domain != nil && *t.Domain != ""
}
