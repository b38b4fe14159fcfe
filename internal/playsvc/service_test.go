package playsvc

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg Config, rolls ...int) *Service {
	t.Helper()
	if cfg.StartingBalance.IsZero() {
		cfg.StartingBalance = decimal.NewFromInt(100)
	}
	svc, err := NewService(cfg, NewEngine(sequence(rolls...)))
	require.NoError(t, err)
	return svc
}

func TestService_PlaySettlesBalance(t *testing.T) {
	// Three cherries: stake 10 pays 20
	svc := newTestService(t, Config{}, 400, 400, 400)

	resp, err := svc.Play(context.Background(), "s-1", decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.True(t, resp.Payout.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(110)))
	assert.True(t, svc.Balance().Equal(decimal.NewFromInt(110)))
	assert.Len(t, resp.Reels, ReelCount)
}

func TestService_PlayIsIdempotentPerRequestID(t *testing.T) {
	svc := newTestService(t, Config{}, 0, 400, 700)

	first, err := svc.Play(context.Background(), "s-1", decimal.NewFromInt(10))
	require.NoError(t, err)
	again, err := svc.Play(context.Background(), "s-1", decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.True(t, svc.Balance().Equal(decimal.NewFromInt(90)), "retry must not charge twice")

	_, err = svc.Play(context.Background(), "s-2", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, svc.Balance().Equal(decimal.NewFromInt(80)))
}

func TestService_PlayValidation(t *testing.T) {
	svc := newTestService(t, Config{StartingBalance: decimal.NewFromInt(5)}, 0)

	_, err := svc.Play(context.Background(), "a", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = svc.Play(context.Background(), "b", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = svc.Play(context.Background(), "c", decimal.NewFromInt(6))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.True(t, svc.Balance().Equal(decimal.NewFromInt(5)))
}

func TestService_ShouldFail(t *testing.T) {
	never := newTestService(t, Config{FailureRate: 0}, 0)
	assert.False(t, never.shouldFail())

	always := newTestService(t, Config{FailureRate: 1}, 999_999)
	assert.True(t, always.shouldFail())

	half := newTestService(t, Config{FailureRate: 0.5}, 499_999, 500_000)
	assert.True(t, half.shouldFail())
	assert.False(t, half.shouldFail())
}

func TestService_DelayHonoursContext(t *testing.T) {
	svc := newTestService(t, Config{Latency: time.Hour}, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := svc.delay(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, newTestService(t, Config{}, 0).delay(context.Background()))
}
