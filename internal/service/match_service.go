package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"kindling/internal/chat"
	"kindling/internal/middleware"
	"kindling/internal/models"
	"kindling/internal/repository"
)

// MatchService handles the lifecycle of confirmed matches.
type MatchService struct {
	userRepo      repository.UserRepository
	discoveryRepo repository.DiscoveryRepository
	matchRepo     repository.MatchRepository
	provisioner   chat.Provisioner
}

// NewMatchService returns a new MatchService.
func NewMatchService(
	userRepo repository.UserRepository,
	discoveryRepo repository.DiscoveryRepository,
	matchRepo repository.MatchRepository,
	provisioner chat.Provisioner,
) *MatchService {
	return &MatchService{
		userRepo:      userRepo,
		discoveryRepo: discoveryRepo,
		matchRepo:     matchRepo,
		provisioner:   provisioner,
	}
}

// MatchedProfile is a matched user's profile together with the match record
// it belongs to.
type MatchedProfile struct {
	models.User
	MatchID   uint    `json:"matchId"`
	ChannelID *string `json:"channelId"`
}

// ChannelInfo identifies the chat channel backing a match.
type ChannelInfo struct {
	MatchID   uint   `json:"matchId"`
	ChannelID string `json:"channelId"`
}

// ListMatches returns the profiles of everyone userID is matched with, most
// recently updated match first. Matches whose counterpart account no longer
// exists are skipped rather than surfaced as errors.
func (s *MatchService) ListMatches(ctx context.Context, userID uint) ([]MatchedProfile, error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles := make([]MatchedProfile, 0, len(matches))
	for _, match := range matches {
		otherID, ok := match.OtherUser(userID)
		if !ok {
			continue
		}

		other, err := s.userRepo.GetByID(ctx, otherID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
				middleware.Logger.WarnContext(ctx, "skipping match with deleted user",
					slog.Uint64("match_id", uint64(match.ID)),
					slog.Uint64("user_id", uint64(otherID)),
				)
				continue
			}
			return nil, err
		}

		profiles = append(profiles, MatchedProfile{
			User:      *other,
			MatchID:   match.ID,
			ChannelID: match.ChannelID,
		})
	}

	return profiles, nil
}

// GetChannel returns the chat channel for a match the requester belongs to.
// A match without a provisioned channel reports not found; the client can
// retry once the provider recovers.
func (s *MatchService) GetChannel(ctx context.Context, userID, matchID uint) (*ChannelInfo, error) {
	match, err := s.authorizedMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}
	if match.ChannelID == nil {
		return nil, models.NewNotFoundError("Channel for match", matchID)
	}
	return &ChannelInfo{MatchID: match.ID, ChannelID: *match.ChannelID}, nil
}

// Unmatch dissolves a match the requester belongs to. The match record goes
// away for both users; their swipe ledgers keep the seen and liked history so
// neither reappears in the other's discovery feed.
func (s *MatchService) Unmatch(ctx context.Context, userID, matchID uint) error {
	match, err := s.authorizedMatch(ctx, userID, matchID)
	if err != nil {
		return err
	}

	if err := s.matchRepo.Delete(ctx, match.ID); err != nil {
		return err
	}

	// Ledger cleanup is best effort. The match record is gone either way and
	// the matched flags are only a denormalized view of it.
	if err := s.discoveryRepo.ClearMatched(ctx, match.UserAID, match.UserBID); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to clear matched flag",
			slog.Uint64("owner_id", uint64(match.UserAID)),
			slog.String("error", err.Error()),
		)
	}
	if err := s.discoveryRepo.ClearMatched(ctx, match.UserBID, match.UserAID); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to clear matched flag",
			slog.Uint64("owner_id", uint64(match.UserBID)),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// authorizedMatch loads a match and verifies the requester is one of its two
// members. Outsiders get the same not-found answer as a missing match, so
// match ids cannot be probed.
func (s *MatchService) authorizedMatch(ctx context.Context, userID, matchID uint) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Contains(userID) {
		return nil, models.NewNotFoundError("Match", matchID)
	}
	return match, nil
}

// ChatCredentials is what a client needs to connect to the chat provider.
type ChatCredentials struct {
	Token string          `json:"token"`
	User  ChatUserSummary `json:"user"`
}

// ChatUserSummary mirrors the identity registered with the chat provider.
type ChatUserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// ChatToken issues a chat provider token for the user, ensuring their
// provider-side identity exists first.
func (s *MatchService) ChatToken(ctx context.Context, userID uint) (*ChatCredentials, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idStr := strconv.FormatUint(uint64(userID), 10)
	if err := s.provisioner.EnsureIdentity(ctx, idStr, user.Name, user.Photo); err != nil {
		return nil, models.NewInternalError(err)
	}

	token, err := s.provisioner.CreateUserToken(idStr)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &ChatCredentials{
		Token: token,
		User:  ChatUserSummary{ID: idStr, Name: user.Name, Photo: user.Photo},
	}, nil
}
