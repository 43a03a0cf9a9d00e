package region

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how the reference intensity evolves during a growth run.
type Mode int

const (
	// ModeConstant keeps the reference at the seed's intensity.
	ModeConstant Mode = iota
	// ModeRunningAverage sets the reference to the mean of all admitted
	// pixels, updated after every admission.
	ModeRunningAverage
)

// String returns the canonical configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeConstant:
		return "constant"
	case ModeRunningAverage:
		return "average"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configuration string to a Mode.
//
// Accepted values (case-insensitive): "constant", "average",
// "running_average", "running-average".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "constant":
		return ModeConstant, nil
	case "average", "running_average", "running-average":
		return ModeRunningAverage, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: %w", s, ErrInvalidConfiguration)
	}
}

// Config is the homogeneity policy of a growth run.
type Config struct {
	// Threshold is the exclusive upper bound on |pixel - reference|.
	Threshold float64
	// Mode selects constant or running average reference.
	Mode Mode
	// MaxSteps bounds the number of frontier pops. Zero means unbounded.
	MaxSteps int
}

// Validate checks the configuration before any growth takes place.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return fmt.Errorf("threshold %v must be a finite value >= 0: %w", c.Threshold, ErrInvalidConfiguration)
	}
	if c.Mode != ModeConstant && c.Mode != ModeRunningAverage {
		return fmt.Errorf("mode %v: %w", c.Mode, ErrInvalidConfiguration)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps %d must be >= 0: %w", c.MaxSteps, ErrInvalidConfiguration)
	}
	return nil
}

// offset is a 4-connected neighbor displacement.
type offset struct {
	dRow, dCol int
}

// neighbors is the canonical enumeration order: up, right, down, left.
var neighbors = [4]offset{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// reference tracks the homogeneity reference of one run.
type reference struct {
	mode  Mode
	value float64
	sum   float64
	count int
}

func (r *reference) admit(v float64) {
	if r.mode != ModeRunningAverage {
		return
	}
	r.sum += v
	r.count++
	r.value = r.sum / float64(r.count)
}

// Grow runs one breadth-first region growing pass from seed.
//
// Parameters:
//   - raster: Intensity source. Never modified.
//   - seed: Start pixel. Always a member of the returned mask.
//   - cfg: Homogeneity policy. Validated before traversal.
//
// Returns:
//   - *Mask: Every pixel admitted during the run.
//   - int: Number of frontier pops, a diagnostic only.
//   - error: ErrInvalidConfiguration or ErrOutOfBoundsSeed (wrapped).
//
// # Algorithm
//
// The frontier is a FIFO queue. For each popped pixel the neighbors are
// visited up, right, down, left; a neighbor is admitted iff it is unvisited
// and |value - reference| < Threshold. Admission marks it visited, enqueues
// it and, in running average mode, immediately folds its value into the
// reference so later comparisons in the same layer see the new mean.
func Grow(raster *Raster, seed Seed, cfg Config) (*Mask, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	if !raster.Contains(seed) {
		return nil, 0, fmt.Errorf("seed %s in %dx%d raster: %w", seed, raster.width, raster.height, ErrOutOfBoundsSeed)
	}

	w, h := raster.width, raster.height
	mask := newMask(w, h)

	seedVal := raster.At(seed.Row, seed.Col)
	ref := reference{mode: cfg.Mode, value: seedVal, sum: seedVal, count: 1}

	queue := make([]Seed, 0, 64)
	queue = append(queue, seed)
	mask.bits[seed.Row*w+seed.Col] = true

	steps := 0
	for head := 0; head < len(queue); head++ {
		if cfg.MaxSteps > 0 && steps >= cfg.MaxSteps {
			break
		}
		curr := queue[head]
		steps++

		for _, d := range neighbors {
			ny, nx := curr.Row+d.dRow, curr.Col+d.dCol
			if ny < 0 || ny >= h || nx < 0 || nx >= w {
				continue
			}
			idx := ny*w + nx
			if mask.bits[idx] {
				continue
			}
			v := float64(raster.pix[idx])
			if math.Abs(v-ref.value) < cfg.Threshold {
				mask.bits[idx] = true
				queue = append(queue, Seed{Row: ny, Col: nx})
				ref.admit(v)
			}
		}
	}

	return mask, steps, nil
}
