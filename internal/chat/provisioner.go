// Package chat defines the boundary to the external real-time chat provider.
// The matching engine only provisions identities and channels here; message
// delivery is entirely the provider's concern.
package chat

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the disabled provisioner when no chat
// provider credentials were supplied. Callers treat it like any other
// transient provisioning failure: the match stands, the channel is absent.
var ErrNotConfigured = errors.New("chat provider is not configured")

// Provisioner is the contract the swipe processor and stream-token endpoint
// depend on. All operations are idempotent on the provider side: upserting
// an existing identity or re-opening a channel for the same pair returns the
// existing resource.
type Provisioner interface {
	// EnsureIdentity upserts a chat-service identity for the user.
	EnsureIdentity(ctx context.Context, userID, name, image string) error
	// OpenChannel creates (or returns) the direct messaging channel for the
	// pair and returns its stable identifier.
	OpenChannel(ctx context.Context, userA, userB, createdBy string) (string, error)
	// CreateUserToken issues a client auth token for the chat provider.
	CreateUserToken(userID string) (string, error)
}

// Disabled is a Provisioner used when no provider credentials are set. Every
// operation fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) EnsureIdentity(context.Context, string, string, string) error {
	return ErrNotConfigured
}

func (Disabled) OpenChannel(context.Context, string, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) CreateUserToken(string) (string, error) {
	return "", ErrNotConfigured
}
