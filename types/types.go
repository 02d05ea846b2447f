package types

import "time"

// User is a person known to the bot: anyone who wrote to it directly,
// appeared in a managed group, or subscribed to a managed channel.
// Keyed by the platform user id in string form.
type User struct {
	ID                string          `json:"id"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name,omitempty"`
	Username          string          `json:"username,omitempty"`
	Language          string          `json:"language"`
	Blocked           bool            `json:"blocked,omitempty"`
	MessagesCount     int64           `json:"messages_count"`
	ReactionsReceived int64           `json:"reactions_received"`
	Chats             []string        `json:"chats"`
	Channels          []string        `json:"channels"`
	Notifications     bool            `json:"notifications"`
	ChatNotifications map[string]bool `json:"chat_notifications,omitempty"`
	JoinedAt          time.Time       `json:"joined_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Chat is a managed group or supergroup.
type Chat struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Members         []string  `json:"members"`
	MessagesCount   int64     `json:"messages_count"`
	WelcomeTemplate string    `json:"welcome_template,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Channel is a broadcast channel the bot posts to or observes.
type Channel struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Username    string    `json:"username,omitempty"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Subscribers []string  `json:"subscribers"`
	PostsCount  int64     `json:"posts_count"`
	ViewsCount  int64     `json:"views_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot is the on-disk shape of the whole data file.
type Snapshot struct {
	Users    map[string]*User    `json:"users"`
	Chats    map[string]*Chat    `json:"chats"`
	Channels map[string]*Channel `json:"channels"`
}

// PendingOp records that the bot asked a user for input and is waiting
// for their next message. One pending operation per user; a new prompt
// replaces the previous one.
type PendingOp struct {
	Kind      PendingKind       `json:"kind"`
	TargetID  string            `json:"target_id,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SessionStore holds ephemeral per-user dialog state (the pending-input
// machine). Implementations: Redis-backed with TTL, in-memory fallback.
type SessionStore interface {
	GetPending(userID int64) (*PendingOp, error)
	SetPending(userID int64, op *PendingOp) error
	ClearPending(userID int64) error
}

// AnalyticsStore is an optional reporting sink; the JSON data file stays
// the source of truth regardless.
type AnalyticsStore interface {
	UpsertUser(userID int64, username, firstName, lastName string) error
	RecordMessage(userID, chatID int64, kind string) error
	MessageCountSince(since time.Time) (int64, error)
	Close()
}
