package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/catalog"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/rupture"
)

func TestRuptureServiceNoHistory(t *testing.T) {
	svc := NewRuptureService(catalog.NewStore(), nil)

	_, err := svc.Coverage(context.Background())
	assert.ErrorIs(t, err, ErrNoSalesHistory)
	_, err = svc.Trend(context.Background(), 7, 7)
	assert.ErrorIs(t, err, ErrNoSalesHistory)
	_, err = svc.Summary(context.Background())
	assert.ErrorIs(t, err, ErrNoSalesHistory)
}

func TestRuptureServiceUploadedFrame(t *testing.T) {
	cat := catalog.NewStore()
	cat.LoadInventory(frame.New(
		[]string{"codigo", "estoque_atual"},
		[][]string{{"prod-a", "4"}},
	))
	svc := NewRuptureService(cat, nil)

	svc.SetSalesFrame(frame.New(
		[]string{"codigo", "quantidade", "data"},
		[][]string{
			{"prod-a", "10", "2026-01-01"},
			{"prod-a", "10", "2026-01-10"},
		},
	))

	coverage, err := svc.Coverage(context.Background())
	require.NoError(t, err)
	require.Len(t, coverage, 1)
	assert.Equal(t, rupture.TierCritical, coverage[0].Tier)
	assert.InDelta(t, 2, coverage[0].DaysOfCover, 1e-9)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CriticalCount)
}

func TestRuptureServiceEmptyUploadStillNoHistory(t *testing.T) {
	svc := NewRuptureService(catalog.NewStore(), nil)
	svc.SetSalesFrame(&frame.Frame{})

	_, err := svc.Coverage(context.Background())
	assert.ErrorIs(t, err, ErrNoSalesHistory)
}
