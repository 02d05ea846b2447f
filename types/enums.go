package types

// PendingKind names the input the bot is waiting for from a user.
type PendingKind string

const (
	PendingEditRating      PendingKind = "edit_rating"
	PendingSearchUser      PendingKind = "search_user"
	PendingSearchChannel   PendingKind = "search_channel"
	PendingRenameChat      PendingKind = "rename_chat"
	PendingWelcomeTemplate PendingKind = "welcome_template"
	PendingMessageUser     PendingKind = "message_user"
	PendingMessageChat     PendingKind = "message_chat"
	PendingRemoveByName    PendingKind = "remove_by_username"
	PendingBroadcastText   PendingKind = "broadcast_text"
	PendingChangeName      PendingKind = "change_name"
	PendingAddReactions    PendingKind = "add_reactions"
	PendingAddSubscribers  PendingKind = "add_subscribers"
	PendingDropSubscriber  PendingKind = "drop_subscriber"
	PendingChannelViews    PendingKind = "channel_views"
)

// BroadcastAudience selects the recipient set of a broadcast run.
type BroadcastAudience string

const (
	AudienceUsers    BroadcastAudience = "all_users"
	AudienceChats    BroadcastAudience = "chats"
	AudienceChannels BroadcastAudience = "channels"
)
