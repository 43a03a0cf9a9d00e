package server

import (
	"fmt"

	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// sessionEntry is one open segmentation session.
type sessionEntry struct {
	id      string
	path    string
	session *region.Session
}

// policyArgs are the optional per-session overrides of the growth policy.
type policyArgs struct {
	Threshold *float64 `json:"threshold,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	MaxSteps  *int     `json:"max_steps,omitempty"`
}

// resolve applies the overrides to the server defaults and validates the
// result.
func (p policyArgs) resolve(defaults region.Config) (region.Config, error) {
	cfg := defaults
	if p.Threshold != nil {
		cfg.Threshold = *p.Threshold
	}
	if p.Mode != "" {
		mode, err := region.ParseMode(p.Mode)
		if err != nil {
			return region.Config{}, err
		}
		cfg.Mode = mode
	}
	if p.MaxSteps != nil {
		cfg.MaxSteps = *p.MaxSteps
	}
	if err := cfg.Validate(); err != nil {
		return region.Config{}, err
	}
	return cfg, nil
}

// openSession loads path, builds a session and registers it.
func (s *Server) openSession(path string, cfg region.Config) (*sessionEntry, error) {
	raster, err := s.cache.LoadRaster(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("rg-%d", s.nextID)

	sess, err := region.NewSession(raster, cfg,
		region.WithLogger(s.log.With().Str("session", id).Logger()))
	if err != nil {
		return nil, err
	}

	e := &sessionEntry{id: id, path: path, session: sess}
	s.sessions[id] = e
	s.log.Info().
		Str("session", id).
		Str("path", path).
		Float64("threshold", cfg.Threshold).
		Str("mode", cfg.Mode.String()).
		Msg("session opened")
	return e, nil
}

// withSession runs fn with the session registry locked. Sessions are not
// safe for concurrent use, and the HTTP transport serves requests in
// parallel.
func (s *Server) withSession(id string, fn func(e *sessionEntry) (interface{}, error)) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session: %q", id)
	}
	return fn(e)
}

// closeSession removes a session from the registry.
func (s *Server) closeSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("unknown session: %q", id)
	}
	delete(s.sessions, id)
	s.log.Info().Str("session", id).Msg("session closed")
	return nil
}

// sessionCount returns the number of open sessions.
func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
