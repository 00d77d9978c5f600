package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"kindling/internal/database"
	"kindling/internal/models"
	"kindling/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeProvisioner records chat provider calls and can be set to fail.
type fakeProvisioner struct {
	mu         sync.Mutex
	fail       bool
	identities []string
	channels   []string
	tokens     []string
}

func (f *fakeProvisioner) EnsureIdentity(_ context.Context, userID, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider unavailable")
	}
	f.identities = append(f.identities, userID)
	return nil
}

func (f *fakeProvisioner) OpenChannel(_ context.Context, userA, userB, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	if userA > userB {
		userA, userB = userB, userA
	}
	id := fmt.Sprintf("match-%s-%s", userA, userB)
	f.channels = append(f.channels, id)
	return id, nil
}

func (f *fakeProvisioner) CreateUserToken(userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	token := "token-" + userID
	f.tokens = append(f.tokens, token)
	return token, nil
}

func (f *fakeProvisioner) channelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels)
}

// testEnv bundles the repositories and services under test over a shared
// in-memory database.
type testEnv struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	discoveryRepo repository.DiscoveryRepository
	matchRepo     repository.MatchRepository
	provisioner   *fakeProvisioner
	discovery     *DiscoveryService
	matches       *MatchService
	users         *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: database.NewGormLogger(),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		discoveryRepo: repository.NewDiscoveryRepository(db),
		matchRepo:     repository.NewMatchRepository(db),
		provisioner:   &fakeProvisioner{},
	}
	env.discovery = NewDiscoveryService(env.userRepo, env.discoveryRepo, env.matchRepo, env.provisioner, nil)
	env.matches = NewMatchService(env.userRepo, env.discoveryRepo, env.matchRepo, env.provisioner)
	env.users = NewUserService(env.userRepo)
	return env
}

func (env *testEnv) createUser(t *testing.T, overrides ...func(*models.User)) *models.User {
	t.Helper()

	var count int64
	env.db.Model(&models.User{}).Count(&count)

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", count+1),
		Password: "hashed-password",
		Name:     fmt.Sprintf("User %d", count+1),
		Age:      28,
		Gender:   models.GenderFemale,
		Preferences: models.Preferences{
			Gender:   models.GenderAny,
			AgeRange: models.AgeRange{Min: 18, Max: 99},
		},
	}
	for _, override := range overrides {
		override(user)
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func requireAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}
