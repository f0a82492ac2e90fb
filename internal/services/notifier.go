package services

import (
	"context"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/expansion"
	"github.com/yungbote/noteeline-backend/internal/realtime"
)

// SessionNotifier turns session activity into SSE messages on the session channel.
type SessionNotifier interface {
	Notify(level realtime.NotificationLevel, title, message string)
	EntryChanged(entry expansion.Entry)
	Fragment(entryID, fragment string)
	ThemesChanged(items []types.ThemeItem)
	SessionOpened(note string)
}

type sessionNotifier struct {
	emit SSEEmitter
}

func NewSessionNotifier(emit SSEEmitter) SessionNotifier {
	return &sessionNotifier{emit: emit}
}

func (n *sessionNotifier) send(event realtime.SSEEvent, data any) {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.SessionChannel,
		Event:   event,
		Data:    data,
	})
}

func (n *sessionNotifier) Notify(level realtime.NotificationLevel, title, message string) {
	n.send(realtime.SSEEventNotification, realtime.Notification{Level: level, Title: title, Message: message})
}

func (n *sessionNotifier) EntryChanged(entry expansion.Entry) {
	n.send(realtime.SSEEventEntryChanged, entry)
}

func (n *sessionNotifier) Fragment(entryID, fragment string) {
	n.send(realtime.SSEEventStreamFragment, realtime.StreamFragment{EntryID: entryID, Fragment: fragment})
}

func (n *sessionNotifier) ThemesChanged(items []types.ThemeItem) {
	n.send(realtime.SSEEventThemesChanged, map[string]any{"themes": items})
}

func (n *sessionNotifier) SessionOpened(note string) {
	n.send(realtime.SSEEventSessionOpened, map[string]any{"note": note})
}
