package store

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
	"memelaunch/pkg/api"
)

// DefaultRewardsPageSize is used when FetchRewards is called with limit <= 0.
const DefaultRewardsPageSize = 20

// RewardsStore pages through the rewards listing. Fetching offset zero
// replaces the list; any other offset appends, so LoadMore walks forward one
// page at a time.
type RewardsStore struct {
	mu  sync.RWMutex
	api *api.Client

	rewards []models.Reward
	total   int
	offset  int
	limit   int
	hasMore bool

	fetchLoading models.LoadingState
	claimLoading models.LoadingState
}

// NewRewardsStore creates an empty rewards store backed by the given gateway.
func NewRewardsStore(client *api.Client) *RewardsStore {
	return &RewardsStore{api: client, limit: DefaultRewardsPageSize}
}

// FetchRewards loads one page. Offset zero replaces the accumulated list;
// a non-zero offset appends the page to it.
func (s *RewardsStore) FetchRewards(ctx context.Context, offset, limit int) {
	if limit <= 0 {
		limit = DefaultRewardsPageSize
	}

	s.mu.Lock()
	s.fetchLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	page, err := s.api.GetRewards(ctx, offset, limit)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"offset": offset,
			"error":  apiErr.Message,
		}).Error("Failed to fetch rewards")

		s.mu.Lock()
		s.fetchLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if offset == 0 {
		s.rewards = page.Data
	} else {
		s.rewards = append(s.rewards, page.Data...)
	}
	s.total = page.Total
	s.offset = offset
	s.limit = limit
	s.hasMore = offset+len(page.Data) < page.Total
	s.fetchLoading = models.LoadingState{}
	s.mu.Unlock()
}

// LoadMore fetches the next page after the accumulated entries. A no-op when
// the listing is exhausted.
func (s *RewardsStore) LoadMore(ctx context.Context) {
	s.mu.RLock()
	hasMore := s.hasMore
	next := len(s.rewards)
	limit := s.limit
	s.mu.RUnlock()

	if !hasMore {
		return
	}
	s.FetchRewards(ctx, next, limit)
}

// ClaimReward marks a reward claimed through the gateway and mirrors the
// claim locally on success. The error is recorded and returned.
func (s *RewardsStore) ClaimReward(ctx context.Context, id string) error {
	s.mu.Lock()
	s.claimLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	if err := s.api.ClaimReward(ctx, id); err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"reward": id,
			"error":  apiErr.Message,
		}).Error("Failed to claim reward")

		s.mu.Lock()
		s.claimLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return apiErr
	}

	s.mu.Lock()
	for i := range s.rewards {
		if s.rewards[i].ID == id {
			s.rewards[i].Claimed = true
			s.rewards[i].ClaimedAt = models.FlexTime(time.Now().UnixMilli())
			break
		}
	}
	s.claimLoading = models.LoadingState{}
	s.mu.Unlock()
	return nil
}

// Rewards returns a snapshot of the accumulated entries.
func (s *RewardsStore) Rewards() []models.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reward, len(s.rewards))
	copy(out, s.rewards)
	return out
}

// Total reports the backend's total entry count.
func (s *RewardsStore) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// HasMore reports whether another page exists past the accumulated entries.
func (s *RewardsStore) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

// FetchLoading reports the state of the last FetchRewards.
func (s *RewardsStore) FetchLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchLoading
}

// ClaimLoading reports the state of the last ClaimReward.
func (s *RewardsStore) ClaimLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claimLoading
}

// Reset drops all state.
func (s *RewardsStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rewards = nil
	s.total = 0
	s.offset = 0
	s.limit = DefaultRewardsPageSize
	s.hasMore = false
	s.fetchLoading = models.LoadingState{}
	s.claimLoading = models.LoadingState{}
}
