package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/realtime"
	"memelaunch/internal/store"
	"memelaunch/pkg/api"
	"memelaunch/pkg/config"
	"memelaunch/pkg/wallet"
	"memelaunch/schedule"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg := config.Load()

	client := api.NewClient(cfg.APIBaseURL)
	tokens := store.NewTokenStore(client)
	chats := store.NewChatStore(client)
	users := store.NewUserStore(client)

	ctx := context.Background()

	// Load a wallet from the keystore when one is configured.
	if address := os.Getenv("LAUNCH_WALLET_ADDRESS"); address != "" {
		password := os.Getenv("LAUNCH_WALLET_PASSWORD")
		keystore := wallet.NewKeyStore(cfg.KeystoreDir)
		w, err := keystore.Load(address, password)
		if err != nil {
			log.WithFields(log.Fields{
				"wallet": address,
				"error":  err.Error(),
			}).Fatal("Failed to load wallet")
		}
		users.SetConnectedWallet(ctx, w.PublicKey())
		log.WithField("wallet", w.PublicKey()).Info("Wallet loaded")
	}

	// Initial snapshot before the push channel takes over.
	tokens.FetchAll(ctx)
	if state := tokens.TokensLoading(); state.Error != nil {
		log.WithField("error", state.Error.Message).Warn("Initial token fetch failed, continuing with push only")
	} else {
		log.WithField("count", tokens.Len()).Info("Token list loaded")
	}

	rt := realtime.NewClient(cfg.WSEndpoint, cfg.WSToken, tokens, chats)
	if err := rt.Connect(ctx); err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to connect realtime endpoint")
	}
	rt.Subscribe(realtime.ChannelTokenUpdates)
	rt.Subscribe(realtime.ChannelMintTokens)

	refresher, err := schedule.NewRefresher(tokens, users, cfg.TokenRefreshSpec, cfg.PortfolioRefreshSpec)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to build refresh scheduler")
	}
	refresher.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	refresher.Stop()
	rt.Disconnect()
}
