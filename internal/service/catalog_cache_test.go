package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCachedLogsUnencodableValue(t *testing.T) {
	// nothing listens here, so every cache read fails and falls through to load
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	s := &CatalogService{cache: rdb, ttl: time.Minute, log: zap.New(core)}

	var dest struct{ Updates chan int }
	loaded := false
	err := s.cached(context.Background(), "catalog:test", &dest, func() error {
		loaded = true
		dest.Updates = make(chan int)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, loaded)

	encode := logs.FilterMessage("catalog cache encode failed").All()
	require.Len(t, encode, 1)
	assert.Equal(t, "catalog:test", encode[0].ContextMap()["key"])
	assert.Empty(t, logs.FilterMessage("catalog cache write failed").All())
}
