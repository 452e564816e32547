package strategy

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Registry errors. Check with errors.Is.
var (
	ErrNotFound          = errors.New("strategy not registered")
	ErrAlreadyRegistered = errors.New("strategy already registered")
	errNilFactory        = errors.New("nil strategy factory")
)

// Retained completed-game records per strategy.
const historyCapPerStrategy = 100

// Factory constructs a fresh strategy instance with the given
// configuration. Factories must tolerate a nil config.
type Factory func(cfg map[string]any) (Strategy, error)

type registration struct {
	meta    Metadata
	factory Factory
}

// Registry holds the known strategies and their bounded performance
// history. Not safe for concurrent mutation; a host sharing one
// registry across goroutines must serialize access itself. Construct
// one explicitly and pass it around, there is no package-level
// instance.
type Registry struct {
	entries map[string]registration
	order   []string // registration order, the ranking tie-break
	history map[string][]GameResult
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registration),
		history: make(map[string][]GameResult),
	}
}

// Register adds a strategy under its metadata ID. Duplicate IDs are
// rejected unless override is set, in which case the replacement keeps
// the original registration slot.
func (r *Registry) Register(meta Metadata, factory Factory, override bool) error {
	if factory == nil {
		return errNilFactory
	}
	id := meta.ID()
	if _, ok := r.entries[id]; ok && !override {
		return errors.Wrap(ErrAlreadyRegistered, id)
	} else if !ok {
		r.order = append(r.order, id)
	}
	r.entries[id] = registration{meta: meta, factory: factory}
	log.Debug().Str("strategy", id).Str("category", string(meta.Category)).Msg("registered strategy")
	return nil
}

// NewStrategy constructs a fresh instance of a registered strategy.
func (r *Registry) NewStrategy(id string, cfg map[string]any) (Strategy, error) {
	reg, ok := r.entries[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	s, err := reg.factory(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "constructing %s", id)
	}
	return s, nil
}

// Metadata returns the registered metadata for an identifier.
func (r *Registry) Metadata(id string) (Metadata, error) {
	reg, ok := r.entries[id]
	if !ok {
		return Metadata{}, errors.Wrap(ErrNotFound, id)
	}
	return reg.meta, nil
}

// List returns metadata for registered strategies in registration
// order, optionally filtered by category ("" keeps everything).
func (r *Registry) List(category Category) []Metadata {
	var out []Metadata
	for _, id := range r.order {
		meta := r.entries[id].meta
		if category != "" && meta.Category != category {
			continue
		}
		out = append(out, meta)
	}
	return out
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// RecordResult appends a completed game to a strategy's history,
// keeping only the most recent entries once the cap is reached.
func (r *Registry) RecordResult(id string, g GameResult) error {
	if _, ok := r.entries[id]; !ok {
		return errors.Wrap(ErrNotFound, id)
	}
	h := append(r.history[id], g)
	if len(h) > historyCapPerStrategy {
		h = h[len(h)-historyCapPerStrategy:]
	}
	r.history[id] = h
	return nil
}

// History returns a copy of a strategy's recorded games.
func (r *Registry) History(id string) []GameResult {
	h := r.history[id]
	out := make([]GameResult, len(h))
	copy(out, h)
	return out
}
