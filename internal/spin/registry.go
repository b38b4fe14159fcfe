package spin

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/theme"
)

// AudioFactory builds the cue dispatcher for one skin
type AudioFactory func(skin theme.Skin) AudioCues

// Registry holds one machine per skin. All machines share the wallet,
// reconciler, history and bus in deps.
type Registry struct {
	machines map[string]*Orchestrator
	order    []string
}

// NewRegistry builds an orchestrator for every skin
func NewRegistry(skins []theme.Skin, cfg Config, deps Deps, audio AudioFactory) (*Registry, error) {
	r := &Registry{machines: make(map[string]*Orchestrator, len(skins))}
	for _, skin := range skins {
		d := deps
		if audio != nil {
			d.Audio = audio(skin)
		}
		o, err := New(skin, cfg, d)
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", skin.ID, err)
		}
		r.machines[skin.ID] = o
		r.order = append(r.order, skin.ID)
	}
	return r, nil
}

// Get returns the machine for a theme id
func (r *Registry) Get(themeID string) (*Orchestrator, error) {
	o, ok := r.machines[themeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrThemeNotFound, themeID)
	}
	return o, nil
}

// IDs returns theme ids in registration order
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Snapshots returns every machine's state in registration order
func (r *Registry) Snapshots(ctx context.Context) []domain.MachineSnapshot {
	out := make([]domain.MachineSnapshot, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.machines[id].Snapshot(ctx))
	}
	return out
}

// Shutdown shuts every machine down, finalizing any running sessions
func (r *Registry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, id := range r.order {
		if err := r.machines[id].Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("machine %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
