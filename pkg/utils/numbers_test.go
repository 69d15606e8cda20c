package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecordNumberNoCollision(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 8, 29, 14, 30, 55, 0, time.UTC)

	number, err := generateRecordNumberAt(ctx, TicketNumberPrefix, at, func(ctx context.Context, n string) (bool, error) {
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "TK20260829143055", number)
}

func TestGenerateRecordNumberCollisionSuffix(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 8, 29, 14, 30, 55, 0, time.UTC)

	taken := map[string]bool{
		"RSV20260829143055":    true,
		"RSV20260829143055001": true,
		"RSV20260829143055002": true,
	}

	number, err := generateRecordNumberAt(ctx, ReservationNumberPrefix, at, func(ctx context.Context, n string) (bool, error) {
		return taken[n], nil
	})

	require.NoError(t, err)
	assert.Equal(t, "RSV20260829143055003", number)
}

func TestGenerateRecordNumberDeterministic(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	taken := map[string]bool{"SEC20260102030405": true}
	exists := func(ctx context.Context, n string) (bool, error) {
		return taken[n], nil
	}

	first, err := generateRecordNumberAt(ctx, IncidentNumberPrefix, at, exists)
	require.NoError(t, err)
	second, err := generateRecordNumberAt(ctx, IncidentNumberPrefix, at, exists)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "SEC20260102030405001", first)
}

func TestGenerateRecordNumberExhausted(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	_, err := generateRecordNumberAt(ctx, BackupJobNumberPrefix, at, func(ctx context.Context, n string) (bool, error) {
		return true, nil
	})

	assert.Error(t, err)
}
