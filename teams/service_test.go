package teams

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"workspace/database/databasetest"
	"workspace/models"
	"workspace/onboarding"
	"workspace/tasks"
)

type recordingScheduler struct {
	mu    sync.Mutex
	tasks []tasks.Task
	err   error
}

func (s *recordingScheduler) Schedule(ctx context.Context, task tasks.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *recordingScheduler) scheduled() []tasks.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tasks.Task(nil), s.tasks...)
}

// failingSource fails on the failAt-th read (1-based) and serves the embedded
// content otherwise.
type failingSource struct {
	failAt int
	reads  int
}

func (s *failingSource) Read(topic string) (string, error) {
	s.reads++
	if s.reads == s.failAt {
		return "", fmt.Errorf("%w: %s", onboarding.ErrTopicNotFound, topic)
	}
	return onboarding.Embedded().Read(topic)
}

type fixture struct {
	db        *gorm.DB
	scheduler *recordingScheduler
	service   *Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)
	scheduler := &recordingScheduler{}
	return &fixture{
		db:        db,
		scheduler: scheduler,
		service:   New(db, onboarding.Embedded(), scheduler, zaptest.NewLogger(t)),
	}
}

func (f *fixture) createTeam(t *testing.T, name string, mutate ...func(*models.Team)) *models.Team {
	t.Helper()
	team := models.NewTeam(name)
	for _, m := range mutate {
		m(team)
	}
	require.NoError(t, f.service.Create(context.Background(), team))
	return team
}

func (f *fixture) createUser(t *testing.T, team *models.Team) *models.User {
	t.Helper()
	user := &models.User{Name: "Ada", Email: "ada@acme.com", TeamID: team.ID, Role: models.UserRoleAdmin}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func ptr(s string) *string { return &s }

func withSubdomain(s string) func(*models.Team) { return func(t *models.Team) { t.Subdomain = ptr(s) } }
func withDomain(s string) func(*models.Team)    { return func(t *models.Team) { t.Domain = ptr(s) } }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid team", func(t *testing.T) {
		f := setup(t)
		team := f.createTeam(t, "Acme", withSubdomain("acme"))
		assert.NotEmpty(t, team.ID)

		loaded, err := f.service.Get(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "acme", *loaded.Subdomain)
	})

	t.Run("reserved subdomain", func(t *testing.T) {
		f := setup(t)
		team := models.NewTeam("Acme")
		team.Subdomain = ptr("api")

		err := f.service.Create(ctx, team)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "subdomain", verr.Field)
	})

	t.Run("duplicate subdomain", func(t *testing.T) {
		f := setup(t)
		f.createTeam(t, "Acme", withSubdomain("acme"))

		err := f.service.Create(ctx, func() *models.Team {
			tm := models.NewTeam("Other")
			tm.Subdomain = ptr("acme")
			return tm
		}())
		var conflict *models.UniquenessConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "subdomain", conflict.Field)
		assert.Equal(t, "acme", conflict.Value)
	})

	t.Run("duplicate domain", func(t *testing.T) {
		f := setup(t)
		f.createTeam(t, "Acme", withDomain("docs.acme.io"))

		tm := models.NewTeam("Other")
		tm.Domain = ptr("docs.acme.io")
		var conflict *models.UniquenessConflictError
		require.ErrorAs(t, f.service.Create(ctx, tm), &conflict)
		assert.Equal(t, "domain", conflict.Field)
	})

	t.Run("soft-deleted team still holds its subdomain", func(t *testing.T) {
		f := setup(t)
		old := f.createTeam(t, "Acme", withSubdomain("acme"))
		require.NoError(t, f.db.Delete(old).Error)

		tm := models.NewTeam("Other")
		tm.Subdomain = ptr("acme")
		var conflict *models.UniquenessConflictError
		assert.ErrorAs(t, f.service.Create(ctx, tm), &conflict)
	})

	t.Run("defaults are applied before validation", func(t *testing.T) {
		f := setup(t)
		team := &models.Team{Name: "Acme"}
		require.NoError(t, f.service.Create(ctx, team))
		assert.Equal(t, models.UserRoleMember, team.DefaultUserRole)
	})

	t.Run("get missing team", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Get(ctx, "00000000-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, models.ErrTeamNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies mutation", func(t *testing.T) {
		f := setup(t)
		team := f.createTeam(t, "Acme")

		updated, err := f.service.Update(ctx, team.ID, func(t *models.Team) error {
			t.Name = "Acme Corp"
			t.Subdomain = ptr("acme")
			t.InviteRequired = true
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", updated.Name)

		loaded, err := f.service.Get(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", loaded.Name)
		assert.Equal(t, "acme", *loaded.Subdomain)
		assert.True(t, loaded.InviteRequired)
	})

	t.Run("keeping its own subdomain is not a conflict", func(t *testing.T) {
		f := setup(t)
		team := f.createTeam(t, "Acme", withSubdomain("acme"))

		_, err := f.service.Update(ctx, team.ID, func(t *models.Team) error {
			t.Name = "Renamed"
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("validation failure leaves record unchanged", func(t *testing.T) {
		f := setup(t)
		team := f.createTeam(t, "Acme")

		_, err := f.service.Update(ctx, team.ID, func(t *models.Team) error {
			t.Name = "https://acme.com"
			return nil
		})
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.NotNil(t, verrs.Field("name"))

		loaded, err := f.service.Get(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", loaded.Name)
	})

	t.Run("subdomain taken by another team", func(t *testing.T) {
		f := setup(t)
		f.createTeam(t, "Acme", withSubdomain("acme"))
		other := f.createTeam(t, "Other")

		_, err := f.service.Update(ctx, other.ID, func(t *models.Team) error {
			t.Subdomain = ptr("acme")
			return nil
		})
		var conflict *models.UniquenessConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("mutation error aborts", func(t *testing.T) {
		f := setup(t)
		team := f.createTeam(t, "Acme")
		boom := errors.New("boom")

		_, err := f.service.Update(ctx, team.ID, func(t *models.Team) error {
			t.Name = "Changed"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		loaded, err := f.service.Get(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", loaded.Name)
	})

	t.Run("missing team", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Update(ctx, "00000000-0000-4000-8000-000000000000", func(*models.Team) error { return nil })
		assert.ErrorIs(t, err, models.ErrTeamNotFound)
	})

	t.Run("hooks see before and after once", func(t *testing.T) {
		f := setup(t)
		team := f.createTeam(t, "Acme")

		var changes []Change
		f.service.OnUpdate(func(ctx context.Context, c Change) error {
			changes = append(changes, c)
			return errors.New("hook failures are only logged")
		})

		_, err := f.service.Update(ctx, team.ID, func(t *models.Team) error {
			t.Name = "Acme Corp"
			return nil
		})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "Acme", changes[0].Before.Name)
		assert.Equal(t, "Acme Corp", changes[0].After.Name)

		_, err = f.service.Update(ctx, team.ID, func(t *models.Team) error {
			t.Name = "https://bad.example"
			return nil
		})
		require.Error(t, err)
		assert.Len(t, changes, 1, "hooks do not run for failed updates")
	})
}

func TestConflictingQuery(t *testing.T) {
	db := databasetest.New(t)
	dry := func() *gorm.DB { return db.Session(&gorm.Session{DryRun: true}) }

	t.Run("new team binds no id", func(t *testing.T) {
		var n int64
		stmt := conflicting(dry(), "subdomain", "acme", "").Count(&n).Statement
		assert.Equal(t, []interface{}{"acme"}, stmt.Vars)
		assert.NotContains(t, stmt.SQL.String(), "id <>")
	})

	t.Run("existing team excludes itself", func(t *testing.T) {
		var n int64
		id := "4f7a2c1e-0000-4000-8000-000000000001"
		stmt := conflicting(dry(), "domain", "docs.acme.io", id).Count(&n).Statement
		assert.Equal(t, []interface{}{"docs.acme.io", id}, stmt.Vars)
		assert.Contains(t, stmt.SQL.String(), "id <>")
	})
}

func TestSetPreference(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	team := f.createTeam(t, "Acme")

	prefs, err := f.service.SetPreference(ctx, team.ID, models.PreferenceSeamlessEdit, true)
	require.NoError(t, err)
	assert.Equal(t, true, prefs[string(models.PreferenceSeamlessEdit)])

	loaded, err := f.service.Get(ctx, team.ID)
	require.NoError(t, err)
	v, ok := loaded.GetPreference(models.PreferenceSeamlessEdit)
	assert.True(t, ok)
	assert.True(t, v)
	_, ok = loaded.GetPreference(models.PreferenceCommenting)
	assert.False(t, ok)

	_, err = f.service.SetPreference(ctx, team.ID, models.Preference("darkMode"), true)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestIsDomainAllowed(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	team := f.createTeam(t, "Acme")

	allowed, err := f.service.IsDomainAllowed(ctx, team, "gmail.com")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, f.db.Create(&models.TeamDomain{TeamID: team.ID, Name: "acme.com"}).Error)

	allowed, err = f.service.IsDomainAllowed(ctx, team, "gmail.com")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = f.service.IsDomainAllowed(ctx, team, "acme.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}
