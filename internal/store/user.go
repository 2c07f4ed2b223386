package store

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
	"memelaunch/pkg/api"
)

// UserStore tracks the connected wallet and its profile and portfolio.
type UserStore struct {
	mu  sync.RWMutex
	api *api.Client

	connectedWallet string
	profile         *models.UserProfile
	portfolio       *models.Portfolio

	profileLoading   models.LoadingState
	portfolioLoading models.LoadingState
	updateLoading    models.LoadingState
}

// NewUserStore creates an empty user store backed by the given gateway.
func NewUserStore(client *api.Client) *UserStore {
	return &UserStore{api: client}
}

// SetConnectedWallet records the active wallet. A non-empty wallet triggers
// profile and portfolio fetches; an empty one clears both.
func (s *UserStore) SetConnectedWallet(ctx context.Context, wallet string) {
	s.mu.Lock()
	s.connectedWallet = wallet
	if wallet == "" {
		s.profile = nil
		s.portfolio = nil
	}
	s.mu.Unlock()

	if wallet != "" {
		s.FetchProfile(ctx, wallet)
		s.FetchPortfolio(ctx, wallet)
	}
}

// ConnectedWallet returns the active wallet address, or empty.
func (s *UserStore) ConnectedWallet() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectedWallet
}

// FetchProfile loads the profile for a wallet, defaulting to the connected
// one.
func (s *UserStore) FetchProfile(ctx context.Context, wallet string) {
	if wallet == "" {
		wallet = s.ConnectedWallet()
	}
	if wallet == "" {
		return
	}

	s.mu.Lock()
	s.profileLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	profile, err := s.api.GetUserProfile(ctx, wallet)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"wallet": wallet,
			"error":  apiErr.Message,
		}).Error("Failed to fetch profile")

		s.mu.Lock()
		s.profileLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.profile = profile
	s.profileLoading = models.LoadingState{}
	s.mu.Unlock()
}

// UpdateProfile writes profile fields. The error is recorded and returned so
// callers can gate on it.
func (s *UserStore) UpdateProfile(ctx context.Context, dto models.ProfileDto) error {
	s.mu.Lock()
	s.updateLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	profile, err := s.api.UpdateUserProfile(ctx, dto)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"wallet": dto.Wallet,
			"error":  apiErr.Message,
		}).Error("Failed to update profile")

		s.mu.Lock()
		s.updateLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return apiErr
	}

	s.mu.Lock()
	s.profile = profile
	s.updateLoading = models.LoadingState{}
	s.mu.Unlock()
	return nil
}

// FetchPortfolio loads the holdings summary for a wallet, defaulting to the
// connected one.
func (s *UserStore) FetchPortfolio(ctx context.Context, wallet string) {
	if wallet == "" {
		wallet = s.ConnectedWallet()
	}
	if wallet == "" {
		return
	}

	s.mu.Lock()
	s.portfolioLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	portfolio, err := s.api.GetUserPortfolio(ctx, wallet)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"wallet": wallet,
			"error":  apiErr.Message,
		}).Error("Failed to fetch portfolio")

		s.mu.Lock()
		s.portfolioLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.portfolio = portfolio
	s.portfolioLoading = models.LoadingState{}
	s.mu.Unlock()
}

// Profile returns the loaded profile, or nil.
func (s *UserStore) Profile() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

// Portfolio returns the loaded portfolio, or nil.
func (s *UserStore) Portfolio() *models.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.portfolio == nil {
		return nil
	}
	copied := *s.portfolio
	copied.Tokens = append([]models.PortfolioItem(nil), s.portfolio.Tokens...)
	return &copied
}

// ProfileLoading reports the state of the last FetchProfile.
func (s *UserStore) ProfileLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profileLoading
}

// PortfolioLoading reports the state of the last FetchPortfolio.
func (s *UserStore) PortfolioLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portfolioLoading
}

// UpdateLoading reports the state of the last UpdateProfile.
func (s *UserStore) UpdateLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updateLoading
}

// Reset drops all state.
func (s *UserStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connectedWallet = ""
	s.profile = nil
	s.portfolio = nil
	s.profileLoading = models.LoadingState{}
	s.portfolioLoading = models.LoadingState{}
	s.updateLoading = models.LoadingState{}
}
