package spin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/outcome"
	"github.com/osse101/ReelSpin_Go/internal/reel"
	"github.com/osse101/ReelSpin_Go/internal/theme"
	"github.com/osse101/ReelSpin_Go/internal/wallet"
)

type recordingAudio struct {
	noAudio
	skin string
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	w, err := wallet.New(ctx, wallet.NewMemoryRepository(), "p", decimal.NewFromInt(100))
	require.NoError(t, err)
	rec := outcome.NewReconciler(&stubPlayClient{balance: decimal.NewFromInt(95)}, nil, outcome.Config{})
	defer rec.Shutdown(ctx)

	classic := testSkin()
	classic.ID = "classic"
	neon := testSkin()
	neon.ID = "neon"
	neon.Reels = 5

	var built []string
	reg, err := NewRegistry([]theme.Skin{classic, neon}, fastConfig(), Deps{Wallet: w, Reconciler: rec}, func(s theme.Skin) AudioCues {
		built = append(built, s.ID)
		return recordingAudio{skin: s.ID}
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"classic", "neon"}, reg.IDs())
	assert.Equal(t, []string{"classic", "neon"}, built, "each machine gets its own cue dispatcher")

	m, err := reg.Get("neon")
	require.NoError(t, err)
	assert.Equal(t, 5, m.Skin().Reels)
	assert.Equal(t, "neon", m.deps.Audio.(recordingAudio).skin)

	_, err = reg.Get("steampunk")
	assert.ErrorIs(t, err, domain.ErrThemeNotFound)

	// Machines are independent: one busy machine does not block another
	_, err = reg.machines["classic"].StartSpin(ctx, decimal.NewFromInt(5))
	require.NoError(t, err)
	snaps := reg.Snapshots(ctx)
	require.Len(t, snaps, 2)
	assert.False(t, snaps[0].SpinEnabled)
	assert.True(t, snaps[1].SpinEnabled)

	sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, reg.Shutdown(sctx))
	for _, s := range reg.Snapshots(ctx) {
		assert.False(t, s.SpinEnabled)
		assert.Equal(t, domain.MachineIdle, s.Phase)
	}
}

func twoMachines(t *testing.T, client *stubPlayClient, w wallet.Wallet) (*Registry, *Orchestrator, *Orchestrator) {
	t.Helper()
	rec := outcome.NewReconciler(client, nil, outcome.Config{RequestTimeout: time.Minute})

	classic := testSkin()
	classic.ID = "classic"
	neon := testSkin()
	neon.ID = "neon"

	reg, err := NewRegistry([]theme.Skin{classic, neon}, fastConfig(), Deps{Wallet: w, Reconciler: rec}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = reg.Shutdown(ctx)
		_ = rec.Shutdown(ctx)
	})

	a, err := reg.Get("classic")
	require.NoError(t, err)
	b, err := reg.Get("neon")
	require.NoError(t, err)
	return reg, a, b
}

func waitIdle(t *testing.T, machines ...*Orchestrator) {
	t.Helper()
	for _, m := range machines {
		require.Eventually(t, m.SpinEnabled, 2*time.Second, 5*time.Millisecond, "machine %s never went idle", m.Skin().ID)
	}
}

func TestRegistry_SharedWalletCannotBeOverstaked(t *testing.T) {
	ctx := context.Background()
	w, err := wallet.New(ctx, wallet.NewMemoryRepository(), "p", decimal.NewFromInt(100))
	require.NoError(t, err)

	block := make(chan struct{})
	reg, classic, neon := twoMachines(t, &stubPlayClient{block: block}, w)

	_, err = classic.StartSpin(ctx, decimal.NewFromInt(100))
	require.NoError(t, err)

	// The first machine's stake is already out of the wallet
	_, err = neon.StartSpin(ctx, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	_, err = neon.StartSpin(ctx, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, neon.SpinEnabled(), "a rejected spin leaves the machine idle")

	close(block)
	waitIdle(t, classic, neon)

	b, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, b.IsZero(), "got %s", b)
	for _, snap := range reg.Snapshots(ctx) {
		assert.True(t, snap.DisplayedBalance.IsZero(), "%s shows %s", snap.Theme, snap.DisplayedBalance)
	}
}

func TestRegistry_ConcurrentLossesAreBothDebited(t *testing.T) {
	ctx := context.Background()
	w, err := wallet.New(ctx, wallet.NewMemoryRepository(), "p", decimal.NewFromInt(100))
	require.NoError(t, err)

	client := &stubPlayClient{err: fmt.Errorf("%w: connection refused", domain.ErrPlayServiceUnreachable)}
	reg, classic, neon := twoMachines(t, client, w)

	_, err = classic.StartSpin(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = neon.StartSpin(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)
	waitIdle(t, classic, neon)

	b, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(80)), "got %s", b)
	for _, snap := range reg.Snapshots(ctx) {
		assert.True(t, snap.DisplayedBalance.Equal(decimal.NewFromInt(80)), "%s shows %s", snap.Theme, snap.DisplayedBalance)
	}
}

func TestRegistry_ConcurrentWinsCreditEachPayout(t *testing.T) {
	ctx := context.Background()
	w, err := wallet.New(ctx, wallet.NewMemoryRepository(), "p", decimal.NewFromInt(100))
	require.NoError(t, err)

	// Each result reports the balance as if it were the only spin
	client := &stubPlayClient{delay: 20 * time.Millisecond, payout: decimal.NewFromInt(15), balance: decimal.NewFromInt(105)}
	_, classic, neon := twoMachines(t, client, w)

	_, err = classic.StartSpin(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = neon.StartSpin(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)
	waitIdle(t, classic, neon)

	b, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(110)), "got %s", b)
}

func TestNewRegistry_RejectsBrokenSkin(t *testing.T) {
	broken := testSkin()
	broken.Symbols = broken.Symbols[:1]

	ctx := context.Background()
	w, err := wallet.New(ctx, wallet.NewMemoryRepository(), "p", decimal.NewFromInt(100))
	require.NoError(t, err)
	rec := outcome.NewReconciler(&stubPlayClient{}, nil, outcome.Config{})
	defer rec.Shutdown(ctx)

	_, err = NewRegistry([]theme.Skin{broken}, fastConfig(), Deps{Wallet: w, Reconciler: rec}, nil)
	assert.ErrorIs(t, err, reel.ErrTooFewSymbols)
}
