// Package service contains the business logic of the matching engine.
package service

import (
	"context"
	"log/slog"
	"strconv"

	"kindling/internal/cache"
	"kindling/internal/chat"
	"kindling/internal/middleware"
	"kindling/internal/models"
	"kindling/internal/repository"

	"github.com/redis/go-redis/v9"
)

// DiscoveryService implements the candidate filter and the swipe processor.
type DiscoveryService struct {
	userRepo      repository.UserRepository
	discoveryRepo repository.DiscoveryRepository
	matchRepo     repository.MatchRepository
	provisioner   chat.Provisioner
	redis         *redis.Client
}

// NewDiscoveryService returns a new DiscoveryService. redis may be nil; the
// liked-you counter then always falls back to the database.
func NewDiscoveryService(
	userRepo repository.UserRepository,
	discoveryRepo repository.DiscoveryRepository,
	matchRepo repository.MatchRepository,
	provisioner chat.Provisioner,
	rdb *redis.Client,
) *DiscoveryService {
	return &DiscoveryService{
		userRepo:      userRepo,
		discoveryRepo: discoveryRepo,
		matchRepo:     matchRepo,
		provisioner:   provisioner,
		redis:         rdb,
	}
}

// SwipeResult is the outcome of a processed swipe.
type SwipeResult struct {
	Matched   bool    `json:"matched"`
	ChannelID *string `json:"channelId"`
}

// defaultDiscoveryPageSize bounds a single discovery response.
const defaultDiscoveryPageSize = 50

// Discover returns the next page of candidates for userID along with the
// preferences that produced it.
//
// Candidates are users who are not the requester, not in the requester's
// seen set, match the requester's gender preference (Any expands to both
// categories) and fall inside the preferred age range (18-99 when unset).
// Reading candidates has no side effects: nobody is marked seen until they
// are actually swiped on.
func (s *DiscoveryService) Discover(ctx context.Context, userID uint) ([]models.User, models.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.Preferences{}, err
	}

	// Lazy first-use initialization of the ledger.
	if _, err := s.discoveryRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, models.Preferences{}, err
	}

	seen, err := s.discoveryRepo.SeenIDs(ctx, userID)
	if err != nil {
		return nil, models.Preferences{}, err
	}

	minAge, maxAge := user.Preferences.EffectiveAgeRange()
	candidates, err := s.userRepo.FindCandidates(ctx, repository.CandidateFilter{
		ExcludeIDs: append(seen, userID),
		Genders:    user.Preferences.Gender.Expand(),
		MinAge:     minAge,
		MaxAge:     maxAge,
		Limit:      defaultDiscoveryPageSize,
	})
	if err != nil {
		return nil, models.Preferences{}, err
	}

	return candidates, user.Preferences, nil
}

// Swipe records userID's decision on targetID and returns whether it
// completed a mutual match.
//
// The ledger write for a like is a single upsert, so seen and liked change
// together or not at all. Match creation is guarded by the store's
// pair-unique index: when two mutual swipes race, exactly one record is
// created and the loser reuses it. Chat provisioning failures degrade the
// match to channel-less instead of failing the swipe.
func (s *DiscoveryService) Swipe(ctx context.Context, userID, targetID uint, liked bool) (*SwipeResult, error) {
	if targetID == 0 {
		return nil, models.NewValidationError("targetUserId is required")
	}
	if targetID == userID {
		return nil, models.NewValidationError("Cannot swipe on yourself")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.discoveryRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	entry, err := s.discoveryRepo.GetEntry(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	alreadyLiked := entry != nil && entry.Liked

	// A pass, or a re-like of someone already liked, only marks the target
	// seen. Not an error: re-swiping is a no-op for match purposes.
	if !liked || alreadyLiked {
		if err := s.discoveryRepo.MarkSeen(ctx, userID, targetID); err != nil {
			return nil, err
		}
		middleware.SwipesProcessed.WithLabelValues("pass").Inc()
		return &SwipeResult{Matched: false}, nil
	}

	if err := s.discoveryRepo.MarkLiked(ctx, userID, targetID); err != nil {
		return nil, err
	}
	cache.IncrLikeCount(ctx, s.redis, targetID)

	if _, err := s.discoveryRepo.GetOrCreate(ctx, targetID); err != nil {
		return nil, err
	}

	mutual, err := s.discoveryRepo.HasLiked(ctx, targetID, userID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		middleware.SwipesProcessed.WithLabelValues("like").Inc()
		return &SwipeResult{Matched: false}, nil
	}

	return s.confirmMatch(ctx, user, targetID)
}

// confirmMatch updates both ledgers' matches sets, creates the canonical
// match record if this swipe won the race, and provisions the chat channel
// on first creation.
func (s *DiscoveryService) confirmMatch(ctx context.Context, user *models.User, targetID uint) (*SwipeResult, error) {
	userID := user.ID

	if err := s.discoveryRepo.MarkMatched(ctx, userID, targetID); err != nil {
		return nil, err
	}
	if err := s.discoveryRepo.MarkMatched(ctx, targetID, userID); err != nil {
		return nil, err
	}

	match, created, err := s.matchRepo.GetOrCreate(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	if created {
		if channelID, provErr := s.provisionChannel(ctx, user, targetID); provErr != nil {
			// The mutual like is the source of truth; a chat outage must not
			// roll the match back. The channel can be backfilled later.
			middleware.ChatProvisioningFailures.Inc()
			middleware.Logger.WarnContext(ctx, "chat provisioning failed, match confirmed without channel",
				slog.Uint64("match_id", uint64(match.ID)),
				slog.String("error", provErr.Error()),
			)
		} else {
			if err := s.matchRepo.SetChannelID(ctx, match.ID, channelID); err != nil {
				return nil, err
			}
			match.ChannelID = &channelID
		}
	}

	middleware.SwipesProcessed.WithLabelValues("match").Inc()
	return &SwipeResult{Matched: true, ChannelID: match.ChannelID}, nil
}

// provisionChannel registers both identities with the chat provider and
// opens their direct channel.
func (s *DiscoveryService) provisionChannel(ctx context.Context, user *models.User, targetID uint) (string, error) {
	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	targetIDStr := strconv.FormatUint(uint64(targetID), 10)

	if err := s.provisioner.EnsureIdentity(ctx, userIDStr, user.Name, user.Photo); err != nil {
		return "", err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	if err := s.provisioner.EnsureIdentity(ctx, targetIDStr, target.Name, target.Photo); err != nil {
		return "", err
	}

	return s.provisioner.OpenChannel(ctx, userIDStr, targetIDStr, userIDStr)
}

// LikedYouCount returns how many users have liked userID and not been
// passed on, cache-first with a database fallback.
func (s *DiscoveryService) LikedYouCount(ctx context.Context, userID uint) (int64, error) {
	if count, ok := cache.GetLikeCount(ctx, s.redis, userID); ok {
		return count, nil
	}

	count, err := s.discoveryRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}
	cache.SetLikeCount(ctx, s.redis, userID, count)

	return count, nil
}
