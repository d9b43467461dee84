package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, zerolog.DebugLevel)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, s := range []string{"DBG", "dbg", "a=1", "INF", "inf", "b=two", "WRN", "wrn", "ERR", "err", "d=4"} {
		assert.Contains(t, out, s)
	}
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, zerolog.InfoLevel).With("module", "http")

	log.Info(context.Background(), "hello", "k", "v")
	log.Debug(context.Background(), "filtered")

	out := buf.String()
	assert.Contains(t, out, "module=http")
	assert.Contains(t, out, "k=v")
	assert.NotContains(t, out, "filtered")
}
