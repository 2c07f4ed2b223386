// Package schedule runs the periodic refresh jobs: the token list reload
// that backstops the push channel and the portfolio reload for the connected
// wallet.
package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"memelaunch/internal/store"
)

// Default cron specs, with a seconds field.
const (
	DefaultTokenRefreshSpec     = "0 */2 * * * *"
	DefaultPortfolioRefreshSpec = "30 */5 * * * *"
)

// jobTimeout bounds one refresh run.
const jobTimeout = 30 * time.Second

// Refresher owns the cron scheduler and the refresh jobs.
type Refresher struct {
	cron   *cron.Cron
	tokens *store.TokenStore
	users  *store.UserStore
}

// NewRefresher wires the refresh jobs. The specs use the six-field cron
// format; empty specs select the defaults. The user store may be nil when no
// wallet tracking is wanted.
func NewRefresher(tokens *store.TokenStore, users *store.UserStore, tokenSpec, portfolioSpec string) (*Refresher, error) {
	if tokenSpec == "" {
		tokenSpec = DefaultTokenRefreshSpec
	}
	if portfolioSpec == "" {
		portfolioSpec = DefaultPortfolioRefreshSpec
	}

	r := &Refresher{
		cron:   cron.New(cron.WithSeconds()),
		tokens: tokens,
		users:  users,
	}

	if _, err := r.cron.AddFunc(tokenSpec, r.refreshTokens); err != nil {
		return nil, err
	}
	if users != nil {
		if _, err := r.cron.AddFunc(portfolioSpec, r.refreshPortfolio); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Start begins running the jobs on their schedules.
func (r *Refresher) Start() {
	r.cron.Start()
	log.Info("Refresh scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Info("Refresh scheduler stopped")
}

func (r *Refresher) refreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	r.tokens.FetchAll(ctx)
	if state := r.tokens.TokensLoading(); state.Error != nil {
		log.WithField("error", state.Error.Message).Warn("Scheduled token refresh failed")
		return
	}
	log.WithField("count", r.tokens.Len()).Debug("Scheduled token refresh complete")
}

func (r *Refresher) refreshPortfolio() {
	wallet := r.users.ConnectedWallet()
	if wallet == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	r.users.FetchPortfolio(ctx, wallet)
	if state := r.users.PortfolioLoading(); state.Error != nil {
		log.WithFields(log.Fields{
			"wallet": wallet,
			"error":  state.Error.Message,
		}).Warn("Scheduled portfolio refresh failed")
	}
}
