// Package teams implements the workflows that create, update and bootstrap a
// team on top of the models package.
package teams

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workspace/models"
	"workspace/onboarding"
	"workspace/tasks"
)

// Service handles team workflows.
type Service struct {
	db        *gorm.DB
	content   onboarding.Source
	scheduler tasks.Scheduler
	logger    *zap.Logger
	hooks     []UpdateHook
}

// New constructs a Service. The avatar cleanup hook is registered by default.
func New(db *gorm.DB, content onboarding.Source, scheduler tasks.Scheduler, logger *zap.Logger) *Service {
	s := &Service{
		db:        db,
		content:   content,
		scheduler: scheduler,
		logger:    logger,
	}
	s.hooks = []UpdateHook{s.CleanupPreviousAvatar}
	return s
}

// TransactionError wraps the cause of a rolled back multi-step write.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Create validates and inserts team.
func (s *Service) Create(ctx context.Context, team *models.Team) error {
	team.ApplyDefaults()
	if err := team.Validate(); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, team); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(team).Error
	})
	if err != nil {
		return translate(err)
	}
	s.logger.Info("team created", zap.String("team_id", team.ID))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Team, error) {
	return findTeam(s.db.WithContext(ctx), id)
}

// Update loads the team, applies mutate and saves the result in one
// transaction. After commit the registered hooks run with the before and
// after state; their failures are logged and never undo the update.
func (s *Service) Update(ctx context.Context, id string, mutate func(*models.Team) error) (*models.Team, error) {
	var before, after models.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findTeam(tx, id)
		if err != nil {
			return err
		}
		before = *current
		after = clone(before)

		if err := mutate(&after); err != nil {
			return err
		}
		after.ApplyDefaults()
		if err := after.Validate(); err != nil {
			return err
		}
		if err := checkUnique(tx, &after); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&after).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	s.runHooks(ctx, Change{Before: before, After: after})
	return &after, nil
}

// SetPreference persists a single preference and returns the team's
// preferences after the write.
func (s *Service) SetPreference(ctx context.Context, teamID string, p models.Preference, value bool) (datatypes.JSONMap, error) {
	if !p.Valid() {
		return nil, models.ValidationErrors{{Field: "preferences", Message: fmt.Sprintf("unknown preference %q", p)}}
	}
	team, err := s.Update(ctx, teamID, func(t *models.Team) error {
		t.SetPreference(p, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team.Preferences, nil
}

func (s *Service) IsDomainAllowed(ctx context.Context, team *models.Team, domain string) (bool, error) {
	return team.IsDomainAllowed(s.db.WithContext(ctx), domain)
}

func (s *Service) CollectionIDs(ctx context.Context, teamID string) ([]string, error) {
	return models.CollectionIDs(s.db.WithContext(ctx), teamID)
}

func findTeam(db *gorm.DB, id string) (*models.Team, error) {
	var team models.Team
	err := db.Where("id = ?", id).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// checkUnique rejects a subdomain or domain held by another team, including
// soft-deleted ones since they still occupy the unique index.
func checkUnique(tx *gorm.DB, team *models.Team) error {
	fields := []struct {
		column string
		value  *string
	}{
		{"subdomain", team.Subdomain},
		{"domain", team.Domain},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		var count int64
		if err := conflicting(tx, f.column, *f.value, team.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &models.UniquenessConflictError{Field: f.column, Value: *f.value}
		}
	}
	return nil
}

// conflicting selects teams other than id holding value in column. A team
// that has not been inserted yet has no id to exclude.
func conflicting(tx *gorm.DB, column, value, id string) *gorm.DB {
	q := tx.Unscoped().Model(&models.Team{}).Where(column+" = ?", value)
	if id != "" {
		q = q.Where("id <> ?", id)
	}
	return q
}

// translate maps a commit-time constraint violation that slipped past the
// fast-path check to a UniquenessConflictError.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &models.UniquenessConflictError{}
	}
	return err
}

func clone(t models.Team) models.Team {
	c := t
	c.Subdomain = cloneString(t.Subdomain)
	c.Domain = cloneString(t.Domain)
	c.DefaultCollectionID = cloneString(t.DefaultCollectionID)
	c.AvatarURL = cloneString(t.AvatarURL)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
