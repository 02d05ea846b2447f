package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormatov/chatkeeper/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	return New(path, zerolog.Nop()), path
}

func TestLoadBootstrapsMissingFile(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Load())

	users, chats, channels, msgs := s.Totals()
	assert.Zero(t, users)
	assert.Zero(t, chats)
	assert.Zero(t, channels)
	assert.Zero(t, msgs)

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "bootstrap must leave a fresh data file behind")
	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.NotNil(t, snap.Users)
	assert.NotNil(t, snap.Chats)
	assert.NotNil(t, snap.Channels)
}

func TestLoadRecoversFromCorruptFile(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	err := s.Load()
	require.ErrorIs(t, err, ErrDataCorrupt)

	users, chats, channels, _ := s.Totals()
	assert.Zero(t, users+chats+channels)

	// the corrupt file must have been overwritten with a valid one
	raw, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	var snap types.Snapshot
	assert.NoError(t, json.Unmarshal(raw, &snap))
}

func TestPersistLoadRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Load())

	joined := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.UpsertUser(types.User{
		ID:            "100",
		FirstName:     "Anna",
		Username:      "anna",
		Language:      "ru",
		MessagesCount: 7,
		Chats:         []string{"-1"},
		Channels:      []string{},
		JoinedAt:      joined,
	})
	s.UpsertChat(types.Chat{
		ID:      "-1",
		Title:   "test chat",
		Type:    "group",
		Members: []string{"100"},
		Active:  true,
	})
	s.UpsertChannel(types.Channel{
		ID:          "-100500",
		Title:       "news",
		Subscribers: []string{"100"},
		PostsCount:  3,
	})
	require.NoError(t, s.Persist())

	reloaded := New(path, zerolog.Nop())
	require.NoError(t, reloaded.Load())

	u, ok := reloaded.GetUser("100")
	require.True(t, ok)
	assert.Equal(t, "Anna", u.FirstName)
	assert.Equal(t, int64(7), u.MessagesCount)
	assert.Equal(t, []string{"-1"}, u.Chats)
	assert.True(t, u.JoinedAt.Equal(joined))

	c, ok := reloaded.GetChat("-1")
	require.True(t, ok)
	assert.Equal(t, "test chat", c.Title)
	assert.Equal(t, []string{"100"}, c.Members)

	ch, ok := reloaded.GetChannel("-100500")
	require.True(t, ok)
	assert.Equal(t, int64(3), ch.PostsCount)
}

func TestRatingFormula(t *testing.T) {
	u := types.User{MessagesCount: 50, ReactionsReceived: 0}
	assert.Equal(t, int64(50), Rating(u))

	u = types.User{MessagesCount: 10, ReactionsReceived: 25}
	assert.Equal(t, int64(60), Rating(u))

	// monotonic in both counters
	base := Rating(u)
	u.MessagesCount++
	assert.GreaterOrEqual(t, Rating(u), base)
	u.ReactionsReceived++
	assert.GreaterOrEqual(t, Rating(u), base)
}

func TestTopUsers(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("1", "A", "", "a")
	s.TouchUser("2", "B", "", "b")
	s.SetUserRating("1", 50)
	u2, _ := s.GetUser("2")
	u2.MessagesCount = 10
	u2.ReactionsReceived = 25
	s.UpsertUser(u2)

	top := s.TopUsers(1)
	require.Len(t, top, 1)
	assert.Equal(t, "2", top[0].ID, "B has rating 60 and must beat A's 50")

	// n larger than the collection returns everyone
	all := s.TopUsers(10)
	assert.Len(t, all, 2)
}

func TestTopUsersTiesKeepInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	for _, id := range []string{"3", "1", "2"} {
		s.TouchUser(id, "u"+id, "", "")
		s.SetUserRating(id, 100)
	}

	top := s.TopUsers(3)
	require.Len(t, top, 3)
	assert.Equal(t, "3", top[0].ID)
	assert.Equal(t, "1", top[1].ID)
	assert.Equal(t, "2", top[2].ID)
}

func TestSetUserRatingZeroesReactions(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("7", "X", "", "")
	s.AddReactions("7", 4)
	require.True(t, s.SetUserRating("7", 42))

	u, _ := s.GetUser("7")
	assert.Equal(t, int64(42), u.MessagesCount)
	assert.Equal(t, int64(0), u.ReactionsReceived)
	assert.Equal(t, int64(42), Rating(u))
}

func TestMembershipBothSides(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("5", "U", "", "")
	s.TouchChat("-10", "room", "group")
	s.AddUserToChat("5", "-10")
	s.AddUserToChat("5", "-10") // idempotent

	u, _ := s.GetUser("5")
	c, _ := s.GetChat("-10")
	assert.Equal(t, []string{"-10"}, u.Chats)
	assert.Equal(t, []string{"5"}, c.Members)

	s.RemoveUserFromChat("5", "-10")
	u, _ = s.GetUser("5")
	c, _ = s.GetChat("-10")
	assert.Empty(t, u.Chats)
	assert.Empty(t, c.Members)
}

func TestDeleteChatStripsUserMembership(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("5", "U", "", "")
	s.TouchChat("-10", "room", "group")
	s.AddUserToChat("5", "-10")

	require.True(t, s.DeleteChat("-10"))
	_, ok := s.GetChat("-10")
	assert.False(t, ok)
	u, _ := s.GetUser("5")
	assert.Empty(t, u.Chats)
}

func TestChannelSubscriptions(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("5", "U", "", "")
	s.TouchChannel("-200", "news", "news_channel")
	s.SubscribeToChannel("5", "-200")

	u, _ := s.GetUser("5")
	ch, _ := s.GetChannel("-200")
	assert.Equal(t, []string{"-200"}, u.Channels)
	assert.Equal(t, []string{"5"}, ch.Subscribers)

	s.UnsubscribeFromChannel("5", "-200")
	ch, _ = s.GetChannel("-200")
	assert.Empty(t, ch.Subscribers)
}

func TestTopUsersNonPositiveN(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("1", "A", "", "")
	assert.Empty(t, s.TopUsers(0))
	assert.Empty(t, s.TopUsers(-1))
}

func TestAddReactionsRaisesRating(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("7", "R", "", "")
	s.IncrementUserMessages("7")
	s.AddReactions("7", 3)

	u, _ := s.GetUser("7")
	assert.Equal(t, int64(3), u.ReactionsReceived)
	assert.Equal(t, int64(7), Rating(u))
}

func TestChannelCounters(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchChannel("-200", "news", "news_channel")
	s.IncrementChannelPosts("-200")
	s.IncrementChannelPosts("-200")
	s.AddChannelViews("-200", 150)

	ch, _ := s.GetChannel("-200")
	assert.Equal(t, int64(2), ch.PostsCount)
	assert.Equal(t, int64(150), ch.ViewsCount)
}

func TestChatNotificationOverride(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("5", "U", "", "")
	require.True(t, s.SetChatNotification("5", "-10", false))

	u, _ := s.GetUser("5")
	assert.True(t, u.Notifications, "global flag untouched")
	enabled, ok := u.ChatNotifications["-10"]
	require.True(t, ok)
	assert.False(t, enabled)

	assert.False(t, s.SetChatNotification("missing", "-10", false))
}

func TestFindUserByUsername(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("9", "N", "", "NightOwl")
	u, ok := s.FindUserByUsername("nightowl")
	require.True(t, ok)
	assert.Equal(t, "9", u.ID)

	_, ok = s.FindUserByUsername("nobody")
	assert.False(t, ok)
}

func TestBlockedFlag(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	s.TouchUser("4", "B", "", "")
	assert.False(t, s.IsUserBlocked("4"))
	require.True(t, s.SetUserBlocked("4", true))
	assert.True(t, s.IsUserBlocked("4"))
	assert.False(t, s.IsUserBlocked("unknown"))
}
