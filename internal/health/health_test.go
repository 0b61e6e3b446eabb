package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckBasic(t *testing.T) {
	h := NewHealthChecker(pingFunc(func(context.Context) error { return nil }), "memory")
	s := h.CheckBasic(context.Background())

	assert.Equal(t, "healthy", s.Status)
	assert.Equal(t, "memory", s.Storage)
	assert.Equal(t, "healthy", s.Database.Status)
	assert.Equal(t, "disabled", s.Cache)
}

func TestCheckBasicDatabaseDown(t *testing.T) {
	h := NewHealthChecker(pingFunc(func(context.Context) error { return errors.New("refused") }), "postgres")
	s := h.CheckBasic(context.Background())

	assert.Equal(t, "unhealthy", s.Status)
	assert.Equal(t, "unhealthy", s.Database.Status)
}

func TestCacheDownIsNotFatal(t *testing.T) {
	h := NewHealthChecker(pingFunc(func(context.Context) error { return nil }), "memory")
	h.redis = func() (bool, bool) { return true, false }

	s := h.CheckBasic(context.Background())
	assert.Equal(t, "healthy", s.Status)
	assert.Equal(t, "unhealthy", s.Cache)
}

func TestCheckDetailed(t *testing.T) {
	h := NewHealthChecker(pingFunc(func(context.Context) error { return nil }), "memory")
	d := h.CheckDetailed(context.Background())

	assert.Equal(t, "healthy", d.Status)
	assert.NotEmpty(t, d.Uptime)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512.0 MB", formatBytes(512*1024*1024))
	assert.Equal(t, "2.0 GB", formatBytes(2*1024*1024*1024))
}
