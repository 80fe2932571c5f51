package collector

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@daily", false},
		{"5 0 * * *", false},
		{"@every 1h", false},
		{"not a schedule", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := ValidateSchedule(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchedule_InvalidSpec(t *testing.T) {
	c := New(testConfig(t, "http://127.0.0.1:1"))
	err := c.Schedule(context.Background(), "every day")
	assert.Error(t, err)
}

func TestSchedule_RunsUntilCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping scheduler timing test in short mode")
	}

	reg := newRegistry(t)
	cfg := testConfig(t, reg.srv.URL)
	c := New(cfg, WithOutput(&bytes.Buffer{}))

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Schedule(ctx, "@every 1s") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Schedule did not return after context cancellation")
	}

	assert.GreaterOrEqual(t, reg.hits.Load(), int32(1))
	_, err := os.Stat(cfg.HistoryPath)
	assert.NoError(t, err)
}
