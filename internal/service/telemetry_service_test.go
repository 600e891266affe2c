package service

import (
	"context"
	"testing"
	"time"

	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelemetryServiceReconfigureAppliesToNewTrackers(t *testing.T) {
	store := repository.NewMemorySessionStore(30 * time.Minute)
	svc := NewTelemetryService(store, testConfig().Telemetry)

	fresh := testConfig()
	fresh.Telemetry.MinSelectionChars = 3
	svc.Reconfigure(fresh)

	svc.Start("sess-1", "article-1")
	require.NoError(t, svc.HandleEvent("sess-1", "article-1", model.TelemetryEvent{
		Type:            model.EventSelection,
		SelectionLength: 5,
	}))

	m, err := svc.Snapshot(context.Background(), "sess-1", "article-1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.HighlightCount)

	svc.StopAll()
}
