package store

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
	"memelaunch/pkg/api"
)

// ChatStore keeps one ordered message log per token address. Logs stay
// sorted ascending by time; a message is a duplicate iff an existing entry
// has the same (time, wallet, message) triple. Entries arrive from REST bulk
// loads, push events and local optimistic sends.
type ChatStore struct {
	mu  sync.RWMutex
	api *api.Client

	messages map[string][]models.ChatMessage

	fetchLoading models.LoadingState
	sendLoading  models.LoadingState
}

// NewChatStore creates an empty chat store backed by the given gateway.
func NewChatStore(client *api.Client) *ChatStore {
	return &ChatStore{
		api:      client,
		messages: make(map[string][]models.ChatMessage),
	}
}

// Fetch bulk-loads and replaces the message log for one token.
func (s *ChatStore) Fetch(ctx context.Context, address, wallet string) {
	s.mu.Lock()
	s.fetchLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	messages, err := s.api.GetChatMessages(ctx, address, wallet)
	if err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"token": address,
			"error": apiErr.Message,
		}).Error("Failed to fetch chat messages")

		s.mu.Lock()
		s.fetchLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return
	}

	sort.SliceStable(messages, func(i, j int) bool { return messages[i].Time < messages[j].Time })

	s.mu.Lock()
	s.messages[address] = messages
	s.fetchLoading = models.LoadingState{}
	s.mu.Unlock()
}

// Append inserts a message unless an entry with the same (time, wallet,
// message) already exists, then re-sorts the log ascending by time. Logs are
// small; the per-insert re-sort is deliberate.
func (s *ChatStore) Append(address string, message models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.messages[address]
	for _, m := range existing {
		if m.Time == message.Time && m.Wallet == message.Wallet && m.Message == message.Message {
			return
		}
	}

	updated := append(existing, message)
	sort.SliceStable(updated, func(i, j int) bool { return updated[i].Time < updated[j].Time })
	s.messages[address] = updated
}

// Send persists a message through the gateway, then echoes it into the local
// log with a fresh timestamp rather than waiting for the push delivery to
// loop back; the dedup rule in Append suppresses the echo when it arrives.
// Unlike the fetch paths, a failure is both recorded and returned: the caller
// must be able to tell "message not sent" from background errors.
func (s *ChatStore) Send(ctx context.Context, dto models.ChatMessageDto) error {
	s.mu.Lock()
	s.sendLoading = models.LoadingState{IsLoading: true}
	s.mu.Unlock()

	if _, err := s.api.SendChatMessage(ctx, dto); err != nil {
		apiErr := api.AsAPIError(err)
		log.WithFields(log.Fields{
			"token": dto.Token,
			"error": apiErr.Message,
		}).Error("Failed to send chat message")

		s.mu.Lock()
		s.sendLoading = models.LoadingState{Error: apiErr.Info()}
		s.mu.Unlock()
		return apiErr
	}

	s.Append(dto.Token, models.ChatMessage{
		Token:   dto.Token,
		Wallet:  dto.Wallet,
		Message: dto.Message,
		Time:    time.Now().UnixMilli(),
	})

	s.mu.Lock()
	s.sendLoading = models.LoadingState{}
	s.mu.Unlock()
	return nil
}

// Messages returns a snapshot of one token's log.
func (s *ChatStore) Messages(address string) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[address]
	out := make([]models.ChatMessage, len(messages))
	copy(out, messages)
	return out
}

// Clear drops one token's log.
func (s *ChatStore) Clear(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, address)
}

// FetchLoading reports the state of the last Fetch.
func (s *ChatStore) FetchLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchLoading
}

// SendLoading reports the state of the last Send.
func (s *ChatStore) SendLoading() models.LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sendLoading
}

// Reset drops all state.
func (s *ChatStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make(map[string][]models.ChatMessage)
	s.fetchLoading = models.LoadingState{}
	s.sendLoading = models.LoadingState{}
}
