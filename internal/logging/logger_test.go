package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithField(context.Background(), "request_id", "req-123")
	log.Error(ctx, "boom", errors.New("boom"))

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"app":"autoparts"`)
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: zerolog.WarnLevel, Output: buf})

	log.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	log.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "nothing", errors.New("x"))
}
