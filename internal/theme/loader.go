package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/validation"
)

//go:embed skins/*.yaml
var embeddedSkins embed.FS

//go:embed skin.schema.json
var schemaFS embed.FS

// Registry holds validated skins keyed by id
type Registry struct {
	mu    sync.RWMutex
	skins map[string]Skin
	order []string
}

// LoadEmbedded loads the built-in skins
func LoadEmbedded() (*Registry, error) {
	sub, err := fs.Sub(embeddedSkins, SkinDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadSkinDir, err)
	}
	return Load(sub)
}

// Load reads every YAML file at the root of fsys and validates it
func Load(fsys fs.FS) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadSkinDir, err)
	}

	v := validator.New()
	schemas := validation.NewSchemaValidator(schemaFS)
	r := &Registry{skins: make(map[string]Skin)}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SkinFileExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), SkinFileExt)
		skin, err := loadSkinFile(fsys, entry.Name(), v, schemas)
		if err != nil {
			return nil, fmt.Errorf("skin %s: %w", name, err)
		}
		if skin.ID != name {
			return nil, fmt.Errorf("skin %s: %s (%q)", name, ErrMsgIDMismatch, skin.ID)
		}
		if _, dup := r.skins[skin.ID]; dup {
			return nil, fmt.Errorf("%s: %s", ErrMsgDuplicateSkin, skin.ID)
		}

		r.skins[skin.ID] = skin
		r.order = append(r.order, skin.ID)
	}

	if len(r.order) == 0 {
		return nil, errors.New(ErrMsgNoSkins)
	}
	sort.Strings(r.order)
	return r, nil
}

// loadSkinFile checks the raw document against the skin schema, which
// rejects unknown keys, then decodes and validates the typed skin.
func loadSkinFile(fsys fs.FS, name string, v *validator.Validate, schemas validation.SchemaValidator) (Skin, error) {
	data, err := fs.ReadFile(fsys, path.Clean(name))
	if err != nil {
		return Skin{}, fmt.Errorf("%s: %w", ErrMsgReadSkinFile, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Skin{}, fmt.Errorf("%s: %w", ErrMsgParseSkin, err)
	}
	if err := schemas.ValidateDocument(doc, SkinSchemaFile); err != nil {
		return Skin{}, fmt.Errorf("%s: %w", ErrMsgInvalidSkin, err)
	}

	var skin Skin
	if err := yaml.Unmarshal(data, &skin); err != nil {
		return Skin{}, fmt.Errorf("%s: %w", ErrMsgParseSkin, err)
	}
	if err := v.Struct(skin); err != nil {
		return Skin{}, fmt.Errorf("%s: %w", ErrMsgInvalidSkin, err)
	}
	if err := skin.Geometry.Validate(); err != nil {
		return Skin{}, fmt.Errorf("%s: %w", ErrMsgInvalidSkin, err)
	}

	minBet, maxBet := skin.MinBetAmount(), skin.MaxBetAmount()
	if !minBet.IsPositive() || minBet.GreaterThan(maxBet) {
		return Skin{}, fmt.Errorf("%s: %s", ErrMsgInvalidSkin, ErrMsgBetRange)
	}
	return skin, nil
}

// Get returns a skin by id
func (r *Registry) Get(id string) (Skin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skin, ok := r.skins[id]
	if !ok {
		return Skin{}, fmt.Errorf("%w: %s", domain.ErrThemeNotFound, id)
	}
	return skin, nil
}

// IDs returns skin ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// All returns every skin in id order
func (r *Registry) All() []Skin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Skin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.skins[id])
	}
	return out
}
