package service

import (
	"context"
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matchUsers creates two users and swipes them into a confirmed match.
func matchUsers(t *testing.T, env *testEnv) (*models.User, *models.User, *models.Match) {
	t.Helper()
	ctx := context.Background()

	alice := env.createUser(t)
	bob := env.createUser(t)

	_, err := env.discovery.Swipe(ctx, alice.ID, bob.ID, true)
	require.NoError(t, err)
	result, err := env.discovery.Swipe(ctx, bob.ID, alice.ID, true)
	require.NoError(t, err)
	require.True(t, result.Matched)

	match, err := env.matchRepo.GetByPair(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, match)
	return alice, bob, match
}

func TestListMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice, bob, match := matchUsers(t, env)

	profiles, err := env.matches.ListMatches(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, bob.ID, profiles[0].User.ID)
	assert.Equal(t, match.ID, profiles[0].MatchID)
	require.NotNil(t, profiles[0].ChannelID)

	// symmetric view
	profiles, err = env.matches.ListMatches(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, alice.ID, profiles[0].User.ID)
}

func TestListMatchesSkipsDeletedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice, bob, _ := matchUsers(t, env)

	require.NoError(t, env.db.Delete(&models.User{}, bob.ID).Error)

	profiles, err := env.matches.ListMatches(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestGetChannel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice, _, match := matchUsers(t, env)

	channel, err := env.matches.GetChannel(ctx, alice.ID, match.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ID, channel.MatchID)
	assert.Equal(t, *match.ChannelID, channel.ChannelID)
}

func TestGetChannelHiddenFromOutsiders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, match := matchUsers(t, env)
	outsider := env.createUser(t)

	_, err := env.matches.GetChannel(ctx, outsider.ID, match.ID)
	requireAppErrorCode(t, err, "NOT_FOUND")
}

func TestGetChannelWhenProvisioningFailed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t)
	bob := env.createUser(t)

	env.provisioner.fail = true
	_, err := env.discovery.Swipe(ctx, alice.ID, bob.ID, true)
	require.NoError(t, err)
	_, err = env.discovery.Swipe(ctx, bob.ID, alice.ID, true)
	require.NoError(t, err)

	match, err := env.matchRepo.GetByPair(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, match)

	_, err = env.matches.GetChannel(ctx, alice.ID, match.ID)
	requireAppErrorCode(t, err, "NOT_FOUND")
}

func TestUnmatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice, bob, match := matchUsers(t, env)

	require.NoError(t, env.matches.Unmatch(ctx, alice.ID, match.ID))

	// gone for both users
	profiles, err := env.matches.ListMatches(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profiles)
	profiles, err = env.matches.ListMatches(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	// swipe history survives, so neither reappears in discovery
	seen, err := env.discoveryRepo.SeenIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, seen)

	matched, err := env.discoveryRepo.MatchedIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, matched)

	// second unmatch reports not found
	err = env.matches.Unmatch(ctx, alice.ID, match.ID)
	requireAppErrorCode(t, err, "NOT_FOUND")
}

func TestUnmatchRejectsOutsiders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice, _, match := matchUsers(t, env)
	outsider := env.createUser(t)

	err := env.matches.Unmatch(ctx, outsider.ID, match.ID)
	requireAppErrorCode(t, err, "NOT_FOUND")

	// the match is untouched
	profiles, err := env.matches.ListMatches(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestChatToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t)

	creds, err := env.matches.ChatToken(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token)
	assert.Equal(t, alice.Name, creds.User.Name)
	assert.Contains(t, env.provisioner.identities, creds.User.ID)
}

func TestChatTokenProviderDown(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t)
	env.provisioner.fail = true

	_, err := env.matches.ChatToken(context.Background(), alice.ID)
	requireAppErrorCode(t, err, "INTERNAL_ERROR")
}
