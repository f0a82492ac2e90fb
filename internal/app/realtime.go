package app

import (
	"fmt"

	"github.com/yungbote/noteeline-backend/internal/data/kv"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/realtime"
	"github.com/yungbote/noteeline-backend/internal/realtime/bus"
	"github.com/yungbote/noteeline-backend/internal/services"
)

type realtimeSet struct {
	Hub     *realtime.SSEHub
	Bus     bus.Bus
	Emitter services.SSEEmitter
}

// wireRealtime fans events through redis pub/sub when the KV store is redis, so every
// replica's hub sees them; otherwise events go straight to the local hub.
func wireRealtime(log *logger.Logger, store kv.Store, prefix string) (realtimeSet, error) {
	hub := realtime.NewSSEHub(log)
	rs, ok := store.(*kv.Redis)
	if !ok {
		return realtimeSet{Hub: hub, Emitter: &services.HubEmitter{Hub: hub}}, nil
	}
	b, err := bus.NewRedisBus(rs.Client(), prefix+"sse", log)
	if err != nil {
		return realtimeSet{}, fmt.Errorf("init SSE bus: %w", err)
	}
	log.Info("SSE events fan out through redis")
	return realtimeSet{Hub: hub, Bus: b, Emitter: &services.RedisEmitter{Bus: b, Log: log}}, nil
}
