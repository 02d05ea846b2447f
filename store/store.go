package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ormatov/chatkeeper/types"
)

// ErrDataCorrupt is wrapped into the Load error when the data file was
// unreadable and the store recovered by resetting to empty collections.
var ErrDataCorrupt = errors.New("data file corrupt")

// Store owns the users/chats/channels collections. The in-memory state is
// authoritative between persists; the data file is rewritten in full on
// every Persist call.
type Store struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger

	users    map[string]*types.User
	chats    map[string]*types.Chat
	channels map[string]*types.Channel

	// insertion order per collection, used as the stable tiebreak for
	// rating queries and listings
	userOrder    []string
	chatOrder    []string
	channelOrder []string
}

func New(path string, log zerolog.Logger) *Store {
	return &Store{
		path:     path,
		log:      log,
		users:    make(map[string]*types.User),
		chats:    make(map[string]*types.Chat),
		channels: make(map[string]*types.Channel),
	}
}

// Load reads the data file. A missing file bootstraps empty collections and
// persists them immediately. A corrupt file is overwritten with empty
// collections; the returned error wraps ErrDataCorrupt so the caller can
// alert the operator, but the store is usable either way.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("path", s.path).Msg("data file not found, creating a new one")
			s.resetLocked()
			return s.persistLocked()
		}
		return fmt.Errorf("read data file: %w", err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("data file unreadable, resetting")
		s.resetLocked()
		if perr := s.persistLocked(); perr != nil {
			return fmt.Errorf("%w: %v (reset persist failed: %v)", ErrDataCorrupt, err, perr)
		}
		return fmt.Errorf("%w: %v", ErrDataCorrupt, err)
	}

	s.users = snap.Users
	s.chats = snap.Chats
	s.channels = snap.Channels
	if s.users == nil {
		s.users = make(map[string]*types.User)
	}
	if s.chats == nil {
		s.chats = make(map[string]*types.Chat)
	}
	if s.channels == nil {
		s.channels = make(map[string]*types.Channel)
	}
	s.rebuildOrderLocked()

	s.log.Info().
		Int("users", len(s.users)).
		Int("chats", len(s.chats)).
		Int("channels", len(s.channels)).
		Msg("data loaded")
	return nil
}

// Persist rewrites the whole data file from the in-memory collections.
// On failure the in-memory state stays authoritative; callers log, alert
// the operator and retry on the next mutation.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	snap := types.Snapshot{Users: s.users, Chats: s.chats, Channels: s.channels}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

func (s *Store) resetLocked() {
	s.users = make(map[string]*types.User)
	s.chats = make(map[string]*types.Chat)
	s.channels = make(map[string]*types.Channel)
	s.userOrder = nil
	s.chatOrder = nil
	s.channelOrder = nil
}

// rebuildOrderLocked restores a deterministic insertion order after a load:
// creation timestamp first, id as the final tiebreak.
func (s *Store) rebuildOrderLocked() {
	s.userOrder = make([]string, 0, len(s.users))
	for id := range s.users {
		s.userOrder = append(s.userOrder, id)
	}
	sort.Slice(s.userOrder, func(i, j int) bool {
		a, b := s.users[s.userOrder[i]], s.users[s.userOrder[j]]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return s.userOrder[i] < s.userOrder[j]
	})

	s.chatOrder = make([]string, 0, len(s.chats))
	for id := range s.chats {
		s.chatOrder = append(s.chatOrder, id)
	}
	sort.Slice(s.chatOrder, func(i, j int) bool {
		a, b := s.chats[s.chatOrder[i]], s.chats[s.chatOrder[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return s.chatOrder[i] < s.chatOrder[j]
	})

	s.channelOrder = make([]string, 0, len(s.channels))
	for id := range s.channels {
		s.channelOrder = append(s.channelOrder, id)
	}
	sort.Slice(s.channelOrder, func(i, j int) bool {
		a, b := s.channels[s.channelOrder[i]], s.channels[s.channelOrder[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return s.channelOrder[i] < s.channelOrder[j]
	})
}

// Rating is the derived user score. It is never stored; administrative
// rating edits rewrite the underlying counters instead.
func Rating(u types.User) int64 {
	return u.MessagesCount + 2*u.ReactionsReceived
}

func (s *Store) GetUser(id string) (types.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return types.User{}, false
	}
	return copyUser(u), true
}

// UpsertUser inserts or replaces a user record. New users are appended to
// the insertion order.
func (s *Store) UpsertUser(u types.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.UpdatedAt = time.Now().UTC()
	if _, ok := s.users[u.ID]; !ok {
		s.userOrder = append(s.userOrder, u.ID)
	}
	c := u
	s.users[u.ID] = &c
}

// TouchUser registers a user on first contact and refreshes the identity
// fields on every later one. Returns the current record.
func (s *Store) TouchUser(id, firstName, lastName, username string) types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	u, ok := s.users[id]
	if !ok {
		u = &types.User{
			ID:            id,
			Language:      "ru",
			Notifications: true,
			Chats:         []string{},
			Channels:      []string{},
			JoinedAt:      now,
		}
		s.users[id] = u
		s.userOrder = append(s.userOrder, id)
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Username = username
	u.UpdatedAt = now
	return copyUser(u)
}

func (s *Store) ListUsers() []types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		if u, ok := s.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out
}

// TopUsers returns at most n users ordered by descending derived rating,
// ties broken by insertion order. Non-positive n yields an empty result.
func (s *Store) TopUsers(n int) []types.User {
	if n <= 0 {
		return nil
	}
	all := s.ListUsers()
	sort.SliceStable(all, func(i, j int) bool {
		return Rating(all[i]) > Rating(all[j])
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// FindUserByUsername matches the @-handle, case-insensitively.
func (s *Store) FindUserByUsername(username string) (types.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.userOrder {
		u, ok := s.users[id]
		if ok && strings.EqualFold(u.Username, username) {
			return copyUser(u), true
		}
	}
	return types.User{}, false
}

func (s *Store) IncrementUserMessages(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.MessagesCount++
		u.UpdatedAt = time.Now().UTC()
	}
}

func (s *Store) AddReactions(id string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.ReactionsReceived += n
		u.UpdatedAt = time.Now().UTC()
	}
}

// SetUserRating overwrites messages_count with the requested score and
// zeroes reactions_received, so that the derived rating lands exactly on
// the value the operator typed. This destroys the original counters.
func (s *Store) SetUserRating(id string, rating int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.MessagesCount = rating
	u.ReactionsReceived = 0
	u.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) SetUserBlocked(id string, blocked bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.Blocked = blocked
	u.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) IsUserBlocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return ok && u.Blocked
}

func (s *Store) SetUserLanguage(id, lang string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.Language = lang
	u.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) SetUserName(id, firstName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.FirstName = firstName
	u.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) SetChatNotification(userID, chatID string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return false
	}
	if u.ChatNotifications == nil {
		u.ChatNotifications = make(map[string]bool)
	}
	u.ChatNotifications[chatID] = enabled
	u.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) GetChat(id string) (types.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return types.Chat{}, false
	}
	return copyChat(c), true
}

func (s *Store) UpsertChat(c types.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.UpdatedAt = time.Now().UTC()
	if _, ok := s.chats[c.ID]; !ok {
		s.chatOrder = append(s.chatOrder, c.ID)
	}
	cc := c
	s.chats[c.ID] = &cc
}

// TouchChat registers a chat on first sight and refreshes the title.
func (s *Store) TouchChat(id, title, chatType string) types.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c, ok := s.chats[id]
	if !ok {
		c = &types.Chat{
			ID:        id,
			Type:      chatType,
			Members:   []string{},
			Active:    true,
			CreatedAt: now,
		}
		s.chats[id] = c
		s.chatOrder = append(s.chatOrder, id)
	}
	if title != "" {
		c.Title = title
	}
	c.UpdatedAt = now
	return copyChat(c)
}

func (s *Store) ListChats() []types.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Chat, 0, len(s.chatOrder))
	for _, id := range s.chatOrder {
		if c, ok := s.chats[id]; ok {
			out = append(out, copyChat(c))
		}
	}
	return out
}

// DeleteChat drops the chat record and strips the chat id from every user.
// The two steps are separate mutations with no rollback.
func (s *Store) DeleteChat(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[id]; !ok {
		return false
	}
	delete(s.chats, id)
	s.chatOrder = removeString(s.chatOrder, id)
	for _, u := range s.users {
		u.Chats = removeString(u.Chats, id)
	}
	return true
}

// AddUserToChat links both sides of the membership. Either side may already
// be present; the operation is idempotent.
func (s *Store) AddUserToChat(userID, chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if u, ok := s.users[userID]; ok && !containsString(u.Chats, chatID) {
		u.Chats = append(u.Chats, chatID)
		u.UpdatedAt = now
	}
	if c, ok := s.chats[chatID]; ok && !containsString(c.Members, userID) {
		c.Members = append(c.Members, userID)
		c.UpdatedAt = now
	}
}

func (s *Store) RemoveUserFromChat(userID, chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if u, ok := s.users[userID]; ok {
		u.Chats = removeString(u.Chats, chatID)
		u.UpdatedAt = now
	}
	if c, ok := s.chats[chatID]; ok {
		c.Members = removeString(c.Members, userID)
		c.UpdatedAt = now
	}
}

func (s *Store) IncrementChatMessages(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.chats[id]; ok {
		c.MessagesCount++
		c.UpdatedAt = time.Now().UTC()
	}
}

func (s *Store) SetChatTitle(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return false
	}
	c.Title = title
	c.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) SetWelcomeTemplate(id, template string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return false
	}
	c.WelcomeTemplate = template
	c.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) SetChatActive(id string, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return false
	}
	c.Active = active
	c.UpdatedAt = time.Now().UTC()
	return true
}

func (s *Store) GetChannel(id string) (types.Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	if !ok {
		return types.Channel{}, false
	}
	return copyChannel(ch), true
}

func (s *Store) UpsertChannel(ch types.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch.UpdatedAt = time.Now().UTC()
	if _, ok := s.channels[ch.ID]; !ok {
		s.channelOrder = append(s.channelOrder, ch.ID)
	}
	cc := ch
	s.channels[ch.ID] = &cc
}

func (s *Store) TouchChannel(id, title, username string) types.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	ch, ok := s.channels[id]
	if !ok {
		ch = &types.Channel{
			ID:          id,
			Subscribers: []string{},
			CreatedAt:   now,
		}
		s.channels[id] = ch
		s.channelOrder = append(s.channelOrder, id)
	}
	if title != "" {
		ch.Title = title
	}
	if username != "" {
		ch.Username = username
	}
	ch.UpdatedAt = now
	return copyChannel(ch)
}

func (s *Store) ListChannels() []types.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Channel, 0, len(s.channelOrder))
	for _, id := range s.channelOrder {
		if ch, ok := s.channels[id]; ok {
			out = append(out, copyChannel(ch))
		}
	}
	return out
}

func (s *Store) DeleteChannel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[id]; !ok {
		return false
	}
	delete(s.channels, id)
	s.channelOrder = removeString(s.channelOrder, id)
	for _, u := range s.users {
		u.Channels = removeString(u.Channels, id)
	}
	return true
}

func (s *Store) SubscribeToChannel(userID, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if u, ok := s.users[userID]; ok && !containsString(u.Channels, channelID) {
		u.Channels = append(u.Channels, channelID)
		u.UpdatedAt = now
	}
	if ch, ok := s.channels[channelID]; ok && !containsString(ch.Subscribers, userID) {
		ch.Subscribers = append(ch.Subscribers, userID)
		ch.UpdatedAt = now
	}
}

func (s *Store) UnsubscribeFromChannel(userID, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if u, ok := s.users[userID]; ok {
		u.Channels = removeString(u.Channels, channelID)
		u.UpdatedAt = now
	}
	if ch, ok := s.channels[channelID]; ok {
		ch.Subscribers = removeString(ch.Subscribers, userID)
		ch.UpdatedAt = now
	}
}

func (s *Store) IncrementChannelPosts(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.channels[id]; ok {
		ch.PostsCount++
		ch.UpdatedAt = time.Now().UTC()
	}
}

func (s *Store) AddChannelViews(id string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.channels[id]; ok {
		ch.ViewsCount += n
		ch.UpdatedAt = time.Now().UTC()
	}
}

// Totals reports collection sizes and the summed message counters for the
// overall-stats screen.
func (s *Store) Totals() (users, chats, channels int, messages int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		messages += u.MessagesCount
	}
	return len(s.users), len(s.chats), len(s.channels), messages
}

func copyUser(u *types.User) types.User {
	c := *u
	c.Chats = append([]string(nil), u.Chats...)
	c.Channels = append([]string(nil), u.Channels...)
	if u.ChatNotifications != nil {
		c.ChatNotifications = make(map[string]bool, len(u.ChatNotifications))
		for k, v := range u.ChatNotifications {
			c.ChatNotifications[k] = v
		}
	}
	return c
}

func copyChat(c *types.Chat) types.Chat {
	cc := *c
	cc.Members = append([]string(nil), c.Members...)
	return cc
}

func copyChannel(ch *types.Channel) types.Channel {
	cc := *ch
	cc.Subscribers = append([]string(nil), ch.Subscribers...)
	return cc
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

