package realtime

type SSEEvent string

const (
	// SSEEventNotification carries a transient user-facing notice.
	SSEEventNotification   SSEEvent = "Notification"
	SSEEventStreamFragment SSEEvent = "StreamFragment"
	SSEEventEntryChanged   SSEEvent = "EntryChanged"
	SSEEventThemesChanged  SSEEvent = "ThemesChanged"
	SSEEventSessionOpened  SSEEvent = "SessionOpened"
)

// SessionChannel is the channel every session event is broadcast on.
const SessionChannel = "session"

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Title   string            `json:"title"`
	Message string            `json:"message,omitempty"`
}

type StreamFragment struct {
	EntryID  string `json:"entry_id"`
	Fragment string `json:"fragment"`
}
