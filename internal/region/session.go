package region

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateEmpty holds no seeds.
	StateEmpty State = iota
	// StateActive holds at least one seed and its mask.
	StateActive
	// StateFinalized is terminal; a new session is required for more work.
	StateFinalized
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateActive:
		return "active"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Region is one entry of a session's history.
type Region struct {
	Index int // 1-based, in insertion order
	Seed  Seed
	Mask  *Mask
	Steps int
}

// Result is what Finalize hands to the display side: every region's own
// mask plus the combined overlay.
type Result struct {
	Regions  []Region
	Combined *Mask
	Overlay  *image.RGBA
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for per-seed diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// Session holds a raster and the ordered seed/mask history grown on it.
//
// Seeds and masks are kept in lockstep: every successful AddSeed appends
// one of each, Clear drops both. Failed operations leave the history
// untouched.
type Session struct {
	raster *Raster
	cfg    Config
	seeds  []Seed
	masks  []*Mask
	steps  []int
	state  State
	log    zerolog.Logger
}

// NewSession validates cfg and returns an Empty session over raster.
func NewSession(raster *Raster, cfg Config, opts ...Option) (*Session, error) {
	if raster == nil {
		return nil, fmt.Errorf("nil raster: %w", ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		raster: raster,
		cfg:    cfg,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Raster returns the session's input raster.
func (s *Session) Raster() *Raster { return s.raster }

// Config returns the growth policy fixed at construction.
func (s *Session) Config() Config { return s.cfg }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Len returns the number of seeds (and masks).
func (s *Session) Len() int { return len(s.seeds) }

// Seeds returns a copy of the seeds in insertion order.
func (s *Session) Seeds() []Seed {
	out := make([]Seed, len(s.seeds))
	copy(out, s.seeds)
	return out
}

// Masks returns the masks in insertion order. The slice is a copy; masks
// themselves are immutable.
func (s *Session) Masks() []*Mask {
	out := make([]*Mask, len(s.masks))
	copy(out, s.masks)
	return out
}

// Region returns the 1-based region at index.
func (s *Session) Region(index int) (Region, error) {
	if index < 1 || index > len(s.seeds) {
		return Region{}, fmt.Errorf("region %d does not exist (session has %d)", index, len(s.seeds))
	}
	i := index - 1
	return Region{Index: index, Seed: s.seeds[i], Mask: s.masks[i], Steps: s.steps[i]}, nil
}

// Regions returns every region in insertion order.
func (s *Session) Regions() []Region {
	out := make([]Region, len(s.seeds))
	for i := range s.seeds {
		out[i] = Region{Index: i + 1, Seed: s.seeds[i], Mask: s.masks[i], Steps: s.steps[i]}
	}
	return out
}

// AddSeed grows a region from seed and appends it to the history.
//
// Returns the new mask and the number of frontier pops. An out of bounds
// seed returns ErrOutOfBoundsSeed and is never clamped.
func (s *Session) AddSeed(seed Seed) (*Mask, int, error) {
	if s.state == StateFinalized {
		return nil, 0, ErrSessionFinalized
	}
	mask, steps, err := Grow(s.raster, seed, s.cfg)
	if err != nil {
		return nil, 0, err
	}
	s.append(seed, mask, steps)
	return mask, steps, nil
}

// AddSeeds grows every seed in order. All seeds are bounds-checked before
// any growth, so either all are appended or none are.
func (s *Session) AddSeeds(seeds []Seed) ([]Region, error) {
	if s.state == StateFinalized {
		return nil, ErrSessionFinalized
	}
	for _, seed := range seeds {
		if !s.raster.Contains(seed) {
			return nil, fmt.Errorf("seed %s in %dx%d raster: %w", seed, s.raster.width, s.raster.height, ErrOutOfBoundsSeed)
		}
	}

	type grown struct {
		mask  *Mask
		steps int
	}
	results := make([]grown, len(seeds))
	for i, seed := range seeds {
		mask, steps, err := Grow(s.raster, seed, s.cfg)
		if err != nil {
			return nil, err
		}
		results[i] = grown{mask: mask, steps: steps}
	}

	out := make([]Region, len(seeds))
	for i, seed := range seeds {
		s.append(seed, results[i].mask, results[i].steps)
		out[i] = Region{Index: len(s.seeds), Seed: seed, Mask: results[i].mask, Steps: results[i].steps}
	}
	return out, nil
}

func (s *Session) append(seed Seed, mask *Mask, steps int) {
	s.seeds = append(s.seeds, seed)
	s.masks = append(s.masks, mask)
	s.steps = append(s.steps, steps)
	s.state = StateActive
	s.log.Info().
		Int("seed", len(s.seeds)).
		Int("row", seed.Row).
		Int("col", seed.Col).
		Int("steps", steps).
		Int("area", mask.Count()).
		Msg("region grown")
}

// Clear discards all seeds and masks together and returns to Empty.
// Clearing an Empty session is a no-op.
func (s *Session) Clear() error {
	if s.state == StateFinalized {
		return ErrSessionFinalized
	}
	s.seeds = nil
	s.masks = nil
	s.steps = nil
	s.state = StateEmpty
	s.log.Info().Msg("cleared all seeds")
	return nil
}

// Preview returns the LabeledPreview of the current masks.
func (s *Session) Preview() (*LabeledPreview, error) {
	return LabelPreview(s.masks)
}

// Finalize computes the combined overlay and moves the session to
// Finalized. With no regions it returns ErrNoRegions and changes nothing.
// Finalizing twice returns the same result again.
func (s *Session) Finalize() (*Result, error) {
	if len(s.masks) == 0 {
		s.log.Info().Msg("no regions to show")
		return nil, ErrNoRegions
	}
	overlay, err := Overlay(s.raster, s.masks)
	if err != nil {
		return nil, err
	}
	s.state = StateFinalized
	s.log.Info().Int("seeds", len(s.seeds)).Msg("session finalized")

	return &Result{
		Regions:  s.Regions(),
		Combined: Union(s.raster.width, s.raster.height, s.masks...),
		Overlay:  overlay,
	}, nil
}
