package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/noteeline-backend/internal/config"
)

func TestMemoryStoreAndAPIKeys(t *testing.T) {
	ctx := context.Background()
	store, err := Open(config.KVConfig{Type: "memory", Prefix: "noteeline:"}, nil)
	require.NoError(t, err)

	key, err := APIKeys{Store: store}.APIKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, store.Set(ctx, KeyAPIKey, " sk-test \n"))
	key, err = APIKeys{Store: store}.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	require.NoError(t, store.Delete(ctx, KeyAPIKey))
	_, ok, err := store.Get(ctx, KeyAPIKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreamBuffersRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := StreamBuffers{Store: NewMemory("")}

	got, err := b.Load(ctx, "Bio 101")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, b.Save(ctx, "Bio 101", []string{"", "Cells are", ""}))
	got, err = b.Load(ctx, "Bio 101")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Cells are", ""}, got)

	raw, ok, _ := b.Store.Get(ctx, "pointStreams:Bio 101")
	require.True(t, ok)
	assert.Equal(t, `["","Cells are",""]`, raw)

	require.NoError(t, b.Reset(ctx, "Bio 101"))
	got, err = b.Load(ctx, "Bio 101")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(config.KVConfig{Type: "etcd"}, nil)
	require.Error(t, err)
}
