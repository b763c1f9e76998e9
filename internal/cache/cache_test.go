package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	ID    string `json:"id"`
	Price int    `json:"price"`
}

func TestClient_JSONRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.SetJSON(ctx, "k", []listing{{ID: "p1", Price: 900}}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	var got []listing
	require.True(t, c.GetJSON(ctx, "k", &got))
	assert.Equal(t, []listing{{ID: "p1", Price: 900}}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, c.GetJSON(ctx, "k", &got))
}

func TestClient_UndecodableValueIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c := New(mr.Addr(), "", 0)
	require.NoError(t, mr.Set("k", "not json"))

	var got []listing
	assert.False(t, c.GetJSON(ctx, "k", &got))
}

func TestClient_NilAndUnreachable(t *testing.T) {
	ctx := context.Background()

	var nilClient *Client
	_, ok := nilClient.Get(ctx, "k", 0)
	assert.False(t, ok)
	assert.NoError(t, nilClient.Set(ctx, "k", []byte("v"), 0))
	assert.NoError(t, nilClient.Ping(ctx))
	assert.NoError(t, nilClient.Close())

	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	mr.Close()
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok = c.Get(ctx, "k", time.Minute)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
}
