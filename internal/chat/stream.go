package chat

import (
	"context"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v6"
)

// streamProvisioner implements Provisioner on top of Stream Chat.
type streamProvisioner struct {
	client *stream.Client
}

// NewStreamProvisioner creates a Stream-backed Provisioner from server-side
// API credentials.
func NewStreamProvisioner(apiKey, apiSecret string) (Provisioner, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("creating stream client: %w", err)
	}
	return &streamProvisioner{client: client}, nil
}

func (p *streamProvisioner) EnsureIdentity(ctx context.Context, userID, name, image string) error {
	_, err := p.client.UpsertUser(ctx, &stream.User{
		ID:    userID,
		Name:  name,
		Image: image,
	})
	if err != nil {
		return fmt.Errorf("upserting chat identity for user %s: %w", userID, err)
	}
	return nil
}

func (p *streamProvisioner) OpenChannel(ctx context.Context, userA, userB, createdBy string) (string, error) {
	// Deterministic channel id per pair keeps channel creation idempotent:
	// re-opening for the same members yields the same channel.
	resp, err := p.client.CreateChannel(ctx, "messaging", pairChannelID(userA, userB), createdBy, &stream.ChannelRequest{
		Members: []string{userA, userB},
	})
	if err != nil {
		return "", fmt.Errorf("opening channel for users %s and %s: %w", userA, userB, err)
	}
	return resp.Channel.ID, nil
}

func (p *streamProvisioner) CreateUserToken(userID string) (string, error) {
	token, err := p.client.CreateToken(userID, time.Time{})
	if err != nil {
		return "", fmt.Errorf("creating chat token for user %s: %w", userID, err)
	}
	return token, nil
}

// pairChannelID builds a stable channel id from the two member ids,
// independent of who swiped last.
func pairChannelID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("match-%s-%s", userA, userB)
}
