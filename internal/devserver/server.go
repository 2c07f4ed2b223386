// Package devserver is a self-contained stand-in for the launchpad backend:
// the REST endpoints plus the realtime hub, over fixture data. It exists for
// local development and integration tests; nothing in it talks to a chain.
package devserver

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
)

// Server is the mock backend. All fixture state lives behind one mutex.
type Server struct {
	engine *gin.Engine
	hub    *Hub

	mu         sync.RWMutex
	tokens     map[string]models.Token
	trades     map[string][]models.Trade
	chats      map[string][]models.ChatMessage
	profiles   map[string]models.UserProfile
	portfolios map[string]models.Portfolio
	rewards    []models.Reward

	tickerStop chan struct{}
}

// NewServer builds the mock backend with seeded fixtures.
func NewServer() *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		hub:        NewHub(),
		tokens:     make(map[string]models.Token),
		trades:     make(map[string][]models.Trade),
		chats:      make(map[string][]models.ChatMessage),
		profiles:   make(map[string]models.UserProfile),
		portfolios: make(map[string]models.Portfolio),
		tickerStop: make(chan struct{}),
	}

	s.seed()

	s.engine.Use(gin.Recovery())
	s.engine.Use(RateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 50, Burst: 100}))

	s.engine.Any("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	s.engine.POST("/api/tokens", s.handleTokens)
	s.engine.POST("/api/txs", s.handleTrades)
	s.engine.POST("/api/chat", s.handleChat)
	s.engine.POST("/api/tokens/draft", s.handleTokenDraft)
	s.engine.POST("/api/generate-token-tx", s.handleGenerateTokenTx)
	s.engine.POST("/api/profile", s.handleProfile)
	s.engine.POST("/api/portfolio", s.handlePortfolio)
	s.engine.POST("/api/upload", s.handleUpload)
	s.engine.POST("/api/rewards", s.handleRewards)
	s.engine.POST("/api/rewards/claim", s.handleClaimReward)

	s.engine.GET("/connection/websocket", func(c *gin.Context) {
		s.hub.ServeHTTP(c.Writer, c.Request)
	})

	return s
}

// Handler exposes the server for httptest and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub exposes the realtime hub so tests and the ticker can publish.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves on addr until the process exits.
func (s *Server) Run(addr string) error {
	log.WithField("addr", addr).Info("Dev server listening")
	return s.engine.Run(addr)
}

// seed populates a handful of tokens with trades, chat history and a rewards
// ledger.
func (s *Server) seed() {
	now := time.Now().UnixMilli()

	fixtures := []struct {
		name, symbol string
		price        float64
		supply       float64
		volume       float64
		website      string
	}{
		{"Giga Frog", "GFROG", 0.0000421, 1e9, 184000, "https://gigafrog.example"},
		{"Moon Cat", "MCAT", 0.0000087, 1e9, 42000, ""},
		{"Pixel Doge", "PDOGE", 0.0001210, 5e8, 310000, "https://pixeldoge.example"},
		{"Quiet Whale", "QWHALE", 0.0000034, 1e9, 0, ""},
	}

	for i, f := range fixtures {
		account := types.NewAccount()
		address := account.PublicKey.ToBase58()

		token := models.Token{
			Address:     address,
			Name:        f.name,
			Symbol:      f.symbol,
			Decimals:    9,
			Supply:      f.supply,
			MetadataURI: fmt.Sprintf("https://meta.launch.meme/%s.json", f.symbol),
			Hardcap:     85,
			Website:     f.website,
			Version:     1,
			CreatedAt:   models.FlexTime(now - int64(i+1)*86400000),
			MintTime:    models.FlexTime(now - int64(i+1)*86400000),
			MarketCap:   f.price * f.supply,
			Price:       f.price,
			Volume24h:   f.volume,
			Holders:     120 + i*37,
		}
		s.tokens[address] = token

		maker := types.NewAccount().PublicKey.ToBase58()
		for j := 0; j < 5; j++ {
			side := 1
			if j%2 == 1 {
				side = -1
			}
			s.trades[address] = append(s.trades[address], models.Trade{
				Time:   now - int64(j)*60000,
				Token:  address,
				Maker:  maker,
				Side:   side,
				Sol:    0.5 + float64(j)*0.1,
				Tokens: 100000 * float64(j+1),
				Price:  f.price * (1 + float64(j)*0.01),
				Tx:     fmt.Sprintf("%s-tx-%d", f.symbol, j),
				Block:  250000000 + int64(j),
			})
		}

		s.chats[address] = []models.ChatMessage{
			{Token: address, Wallet: maker, Message: "gm", Time: now - 3600000},
			{Token: address, Wallet: maker, Message: "lfg", Time: now - 1800000},
		}
	}

	for i := 0; i < 25; i++ {
		s.rewards = append(s.rewards, models.Reward{
			ID:          fmt.Sprintf("reward-%d", i),
			Type:        "trading",
			Amount:      float64(5 * (i + 1)),
			Description: fmt.Sprintf("Trading volume milestone %d", i+1),
			Claimed:     i < 3,
			CreatedAt:   models.FlexTime(now - int64(i)*86400000),
		})
	}
}

func (s *Server) handleTokens(c *gin.Context) {
	s.mu.RLock()
	tokens := make(map[string]models.Token, len(s.tokens))
	for address, token := range s.tokens {
		tokens[address] = token
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (s *Server) handleTrades(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	s.mu.RLock()
	trades := append([]models.Trade(nil), s.trades[req.Token]...)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, trades)
}

// handleChat serves both directions of the chat endpoint: a body with a
// message is a signed write, a body without one is a log read.
func (s *Server) handleChat(c *gin.Context) {
	var req models.ChatMessageDto
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if req.Message == "" {
		s.mu.RLock()
		messages := append([]models.ChatMessage(nil), s.chats[req.Token]...)
		s.mu.RUnlock()
		c.JSON(http.StatusOK, messages)
		return
	}

	if req.Wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}
	if req.Signature == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature is required"})
		return
	}

	message := models.ChatMessage{
		Token:   req.Token,
		Wallet:  req.Wallet,
		Message: req.Message,
		Time:    time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.chats[req.Token] = append(s.chats[req.Token], message)
	s.mu.Unlock()

	s.hub.Publish("chat-"+req.Token, message)

	c.JSON(http.StatusOK, models.ChatSendResponse{Result: "ok"})
}

func (s *Server) handleTokenDraft(c *gin.Context) {
	var req models.CreateTokenDraftDto
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and symbol are required"})
		return
	}

	account := types.NewAccount()
	address := account.PublicKey.ToBase58()
	now := time.Now().UnixMilli()

	token := models.Token{
		Address:     address,
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		Decimals:    req.Decimals,
		Supply:      req.Supply,
		Photo:       req.Photo,
		MetadataURI: req.MetadataURI,
		Hardcap:     req.Hardcap,
		Website:     req.Website,
		X:           req.X,
		Telegram:    req.Telegram,
		Version:     req.Version,
		CreatedAt:   models.FlexTime(now),
		MintTime:    models.FlexTime(now),
	}
	if token.Decimals == 0 {
		token.Decimals = 9
	}
	if token.Version == 0 {
		token.Version = 1
	}

	s.mu.Lock()
	s.tokens[address] = token
	s.mu.Unlock()

	s.hub.Publish("meteora-mintTokens", token)

	c.JSON(http.StatusOK, models.CreateTokenDraftResponse{
		Success: true,
		Token:   address,
		Message: "draft created",
	})
}

func (s *Server) handleGenerateTokenTx(c *gin.Context) {
	var req models.GenerateTokenTxDto
	if err := c.ShouldBindJSON(&req); err != nil || req.UserPubkey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userPubkey is required"})
		return
	}

	mint := types.NewAccount().PublicKey.ToBase58()

	// A placeholder transaction body; the dev server never submits anything.
	txBytes := make([]byte, 256)
	if _, err := rand.Read(txBytes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build transaction"})
		return
	}

	c.JSON(http.StatusOK, models.GenerateTokenTxResponse{
		Success:                 true,
		SignedTransactionBase64: base64.StdEncoding.EncodeToString(txBytes),
		TokenMint:               mint,
	})
}

// handleProfile serves reads and writes: a body with profile fields updates,
// a body with only a wallet reads.
func (s *Server) handleProfile(c *gin.Context) {
	var req models.ProfileDto
	if err := c.ShouldBindJSON(&req); err != nil || req.Wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}

	s.mu.Lock()
	profile, exists := s.profiles[req.Wallet]
	if !exists {
		profile = models.UserProfile{
			Wallet:    req.Wallet,
			CreatedAt: models.FlexTime(time.Now().UnixMilli()),
		}
	}
	if req.Username != "" {
		profile.Username = req.Username
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.Avatar != "" {
		profile.Avatar = req.Avatar
	}
	if req.Website != "" {
		profile.Website = req.Website
	}
	if req.X != "" {
		profile.X = req.X
	}
	if req.Telegram != "" {
		profile.Telegram = req.Telegram
	}
	s.profiles[req.Wallet] = profile
	s.mu.Unlock()

	c.JSON(http.StatusOK, profile)
}

func (s *Server) handlePortfolio(c *gin.Context) {
	var req struct {
		Wallet string `json:"wallet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}

	s.mu.RLock()
	portfolio, exists := s.portfolios[req.Wallet]
	if !exists {
		// Synthesize holdings from the first fixture tokens.
		items := make([]models.PortfolioItem, 0, 2)
		total := 0.0
		for _, token := range s.tokens {
			if len(items) == 2 {
				break
			}
			value := token.Price * 500000
			items = append(items, models.PortfolioItem{
				Token:         token.Address,
				TokenName:     token.Name,
				TokenSymbol:   token.Symbol,
				Balance:       500000,
				Value:         value,
				Pnl:           value * 0.1,
				PnlPercentage: 10,
			})
			total += value
		}
		portfolio = models.Portfolio{
			TotalValue:         total,
			TotalPnl:           total * 0.1,
			TotalPnlPercentage: 10,
			Tokens:             items,
		}
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, portfolio)
}

func (s *Server) handleUpload(c *gin.Context) {
	var req models.UploadRequestDto
	if err := c.ShouldBindJSON(&req); err != nil || (req.File == "" && req.Metadata == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file or metadata is required"})
		return
	}

	resp := models.UploadResponseDto{Status: "ok"}
	if req.File != "" {
		resp.Photo = fmt.Sprintf("https://cdn.launch.meme/img/%d.png", time.Now().UnixNano())
	}
	if req.Metadata != "" {
		resp.URL = fmt.Sprintf("https://meta.launch.meme/%d.json", time.Now().UnixNano())
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRewards(c *gin.Context) {
	var req struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request body"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	s.mu.RLock()
	total := len(s.rewards)
	start := req.Offset
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	data := append([]models.Reward(nil), s.rewards[start:end]...)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, models.RewardsPage{
		Total:  total,
		Offset: req.Offset,
		Limit:  req.Limit,
		Data:   data,
	})
}

func (s *Server) handleClaimReward(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rewards {
		if s.rewards[i].ID == req.ID {
			if s.rewards[i].Claimed {
				c.JSON(http.StatusConflict, gin.H{"error": "reward already claimed"})
				return
			}
			s.rewards[i].Claimed = true
			s.rewards[i].ClaimedAt = models.FlexTime(time.Now().UnixMilli())
			c.JSON(http.StatusOK, gin.H{"result": "ok"})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
}

// StartTicker publishes synthetic price updates for every fixture token at
// the given interval until StopTicker.
func (s *Server) StartTicker(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		step := 0
		for {
			select {
			case <-s.tickerStop:
				return
			case <-ticker.C:
				step++
				s.publishPriceUpdates(step)
			}
		}
	}()
}

// StopTicker halts the price ticker.
func (s *Server) StopTicker() {
	close(s.tickerStop)
}

func (s *Server) publishPriceUpdates(step int) {
	now := time.Now().UnixMilli()

	s.mu.Lock()
	updates := make([]models.TokenPriceUpdate, 0, len(s.tokens))
	for address, token := range s.tokens {
		// Drift the price on a slow sine so charts move both ways.
		drift := 1 + 0.02*math.Sin(float64(step)+float64(len(address)))
		token.Price *= drift
		token.MarketCap = token.Price * token.Supply
		s.tokens[address] = token

		updates = append(updates, models.TokenPriceUpdate{
			Token:        address,
			Price:        token.Price,
			PriceUsd:     token.Price,
			VolumeUsd:    token.Volume24h,
			MarketCapUsd: token.MarketCap,
			LastUpdated:  models.FlexTime(now),
		})
	}
	s.mu.Unlock()

	for _, update := range updates {
		s.hub.Publish("meteora-tokenUpdates", update)
	}
}
