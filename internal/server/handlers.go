package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/region-grow-mcp/internal/imaging"
	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_add_seed").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Stateless growth
	case "region_grow":
		return s.handleRegionGrow(args)

	// Session lifecycle
	case "region_session_open":
		return s.handleSessionOpen(args)
	case "region_add_seed":
		return s.handleAddSeed(args)
	case "region_add_seeds":
		return s.handleAddSeeds(args)
	case "region_clear":
		return s.handleClear(args)
	case "region_status":
		return s.handleStatus(args)
	case "region_session_close":
		return s.handleSessionClose(args)

	// Visualization
	case "region_preview":
		return s.handlePreview(args)
	case "region_markers":
		return s.handleMarkers(args)
	case "region_outline":
		return s.handleOutline(args)

	// Analysis
	case "region_measure":
		return s.handleMeasure(args)
	case "region_crop":
		return s.handleCrop(args)
	case "region_finalize":
		return s.handleFinalize(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating a missing object as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Stateless Growth ===

type regionGrowArgs struct {
	policyArgs
	Path  string  `json:"path"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Scale float64 `json:"scale"`
}

// GrowResult is the outcome of a single-seed growth.
type GrowResult struct {
	Seed  region.Seed          `json:"seed"`
	Steps int                  `json:"steps"`
	Stats region.RegionStats   `json:"stats"`
	Mask  *imaging.ImageResult `json:"mask"`
}

func (s *Server) handleRegionGrow(args json.RawMessage) (interface{}, error) {
	var a regionGrowArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.resolve(s.defaults)
	if err != nil {
		return nil, err
	}
	raster, err := s.cache.LoadRaster(a.Path)
	if err != nil {
		return nil, err
	}

	seed := region.Seed{Row: a.Y, Col: a.X}
	mask, steps, err := region.Grow(raster, seed, cfg)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(mask.Image(), a.Scale)
	if err != nil {
		return nil, err
	}

	return &GrowResult{
		Seed:  seed,
		Steps: steps,
		Stats: region.Measure(raster, mask),
		Mask:  enc,
	}, nil
}

// === Session Lifecycle Handlers ===

type sessionOpenArgs struct {
	policyArgs
	Path string `json:"path"`
}

// SessionInfo describes an open session.
type SessionInfo struct {
	SessionID string  `json:"session_id"`
	Path      string  `json:"path"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Threshold float64 `json:"threshold"`
	Mode      string  `json:"mode"`
	MaxSteps  int     `json:"max_steps"`
	State     string  `json:"state"`
	Seeds     int     `json:"seeds"`
}

func sessionInfo(e *sessionEntry) *SessionInfo {
	cfg := e.session.Config()
	r := e.session.Raster()
	return &SessionInfo{
		SessionID: e.id,
		Path:      e.path,
		Width:     r.Width(),
		Height:    r.Height(),
		Threshold: cfg.Threshold,
		Mode:      cfg.Mode.String(),
		MaxSteps:  cfg.MaxSteps,
		State:     e.session.State().String(),
		Seeds:     e.session.Len(),
	}
}

func (s *Server) handleSessionOpen(args json.RawMessage) (interface{}, error) {
	var a sessionOpenArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.resolve(s.defaults)
	if err != nil {
		return nil, err
	}
	e, err := s.openSession(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	return sessionInfo(e), nil
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type addSeedArgs struct {
	SessionID   string `json:"session_id"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	IncludeMask bool   `json:"include_mask"`
}

// SeedResult reports one grown region.
type SeedResult struct {
	Index int                  `json:"index"`
	X     int                  `json:"x"`
	Y     int                  `json:"y"`
	Steps int                  `json:"steps"`
	Stats region.RegionStats   `json:"stats"`
	State string               `json:"state"`
	Mask  *imaging.ImageResult `json:"mask,omitempty"`
}

func (s *Server) handleAddSeed(args json.RawMessage) (interface{}, error) {
	var a addSeedArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		seed := region.Seed{Row: a.Y, Col: a.X}
		mask, steps, err := e.session.AddSeed(seed)
		if err != nil {
			return nil, err
		}

		res := &SeedResult{
			Index: e.session.Len(),
			X:     a.X,
			Y:     a.Y,
			Steps: steps,
			Stats: region.Measure(e.session.Raster(), mask),
			State: e.session.State().String(),
		}
		if a.IncludeMask {
			enc, err := imaging.EncodePNG(mask.Image(), 1)
			if err != nil {
				return nil, err
			}
			res.Mask = enc
		}
		return res, nil
	})
}

type addSeedsArgs struct {
	SessionID string `json:"session_id"`
	Points    []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"points"`
}

// SeedsResult reports a batch of grown regions.
type SeedsResult struct {
	Seeds []SeedResult `json:"seeds"`
	State string       `json:"state"`
	Total int          `json:"total"`
}

func (s *Server) handleAddSeeds(args json.RawMessage) (interface{}, error) {
	var a addSeedsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("points must not be empty")
	}

	seeds := make([]region.Seed, len(a.Points))
	for i, p := range a.Points {
		seeds[i] = region.Seed{Row: p.Y, Col: p.X}
	}

	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		regions, err := e.session.AddSeeds(seeds)
		if err != nil {
			return nil, err
		}

		state := e.session.State().String()
		out := &SeedsResult{State: state, Total: e.session.Len()}
		for _, r := range regions {
			out.Seeds = append(out.Seeds, SeedResult{
				Index: r.Index,
				X:     r.Seed.Col,
				Y:     r.Seed.Row,
				Steps: r.Steps,
				Stats: region.Measure(e.session.Raster(), r.Mask),
				State: state,
			})
		}
		return out, nil
	})
}

func (s *Server) handleClear(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		if err := e.session.Clear(); err != nil {
			return nil, err
		}
		return sessionInfo(e), nil
	})
}

// SeedSummary is one row of region_status.
type SeedSummary struct {
	Index int `json:"index"`
	X     int `json:"x"`
	Y     int `json:"y"`
	Area  int `json:"area"`
	Steps int `json:"steps"`
}

// StatusResult describes a session and its seeds.
type StatusResult struct {
	SessionInfo
	Regions []SeedSummary `json:"regions"`
}

func (s *Server) handleStatus(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		out := &StatusResult{SessionInfo: *sessionInfo(e), Regions: []SeedSummary{}}
		for _, r := range e.session.Regions() {
			out.Regions = append(out.Regions, SeedSummary{
				Index: r.Index,
				X:     r.Seed.Col,
				Y:     r.Seed.Row,
				Area:  r.Mask.Count(),
				Steps: r.Steps,
			})
		}
		return out, nil
	})
}

func (s *Server) handleSessionClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.closeSession(a.SessionID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"session_id": a.SessionID, "closed": true}, nil
}

// === Visualization Handlers ===

type previewArgs struct {
	SessionID string  `json:"session_id"`
	Colorize  bool    `json:"colorize"`
	Scale     float64 `json:"scale"`
}

// PreviewResult is a labeled preview image.
type PreviewResult struct {
	imaging.ImageResult
	Regions int                  `json:"regions"`
	Legend  []imaging.LabelColor `json:"legend,omitempty"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		if a.Colorize {
			img, legend, err := imaging.ColorizeLabels(e.session.Masks())
			if err != nil {
				return nil, err
			}
			enc, err := imaging.EncodePNG(img, a.Scale)
			if err != nil {
				return nil, err
			}
			return &PreviewResult{ImageResult: *enc, Regions: len(legend), Legend: legend}, nil
		}

		preview, err := e.session.Preview()
		if err != nil {
			return nil, err
		}
		enc, err := imaging.EncodePNG(preview.Image(), a.Scale)
		if err != nil {
			return nil, err
		}
		return &PreviewResult{ImageResult: *enc, Regions: e.session.Len()}, nil
	})
}

type colorArgs struct {
	SessionID string  `json:"session_id"`
	Color     string  `json:"color"`
	Scale     float64 `json:"scale"`
}

func (s *Server) handleMarkers(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		img := imaging.SeedMarkers(e.session.Raster(), e.session.Seeds(), a.Color)
		return imaging.EncodePNG(img, a.Scale)
	})
}

func (s *Server) handleOutline(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		img, err := imaging.Outline(e.session.Raster(), e.session.Masks(), a.Color)
		if err != nil {
			return nil, err
		}
		return imaging.EncodePNG(img, a.Scale)
	})
}

// === Analysis Handlers ===

type regionIndexArgs struct {
	SessionID string  `json:"session_id"`
	Index     int     `json:"index"`
	Scale     float64 `json:"scale"`
}

// MeasureResult is region_measure's output.
type MeasureResult struct {
	Index int                `json:"index"`
	X     int                `json:"x"`
	Y     int                `json:"y"`
	Steps int                `json:"steps"`
	Stats region.RegionStats `json:"stats"`
}

func (s *Server) handleMeasure(args json.RawMessage) (interface{}, error) {
	var a regionIndexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		r, err := e.session.Region(a.Index)
		if err != nil {
			return nil, err
		}
		return &MeasureResult{
			Index: r.Index,
			X:     r.Seed.Col,
			Y:     r.Seed.Row,
			Steps: r.Steps,
			Stats: region.Measure(e.session.Raster(), r.Mask),
		}, nil
	})
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a regionIndexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		r, err := e.session.Region(a.Index)
		if err != nil {
			return nil, err
		}
		return imaging.CropRegion(e.session.Raster(), r.Mask, a.Scale)
	})
}

type finalizeArgs struct {
	SessionID      string  `json:"session_id"`
	IncludeRegions *bool   `json:"include_regions"`
	Scale          float64 `json:"scale"`
}

// FinalRegion is one region of a finalized session.
type FinalRegion struct {
	Index int                  `json:"index"`
	X     int                  `json:"x"`
	Y     int                  `json:"y"`
	Area  int                  `json:"area"`
	Mask  *imaging.ImageResult `json:"mask,omitempty"`
}

// FinalizeResult is region_finalize's output. Status is "finalized" or
// "no_regions"; the latter carries no images.
type FinalizeResult struct {
	Status       string               `json:"status"`
	Message      string               `json:"message,omitempty"`
	CombinedArea int                  `json:"combined_area"`
	Overlay      *imaging.ImageResult `json:"overlay,omitempty"`
	Regions      []FinalRegion        `json:"regions,omitempty"`
}

func (s *Server) handleFinalize(args json.RawMessage) (interface{}, error) {
	var a finalizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	includeRegions := a.IncludeRegions == nil || *a.IncludeRegions

	return s.withSession(a.SessionID, func(e *sessionEntry) (interface{}, error) {
		res, err := e.session.Finalize()
		if errors.Is(err, region.ErrNoRegions) {
			return &FinalizeResult{Status: "no_regions", Message: err.Error()}, nil
		}
		if err != nil {
			return nil, err
		}

		overlay, err := imaging.EncodePNG(res.Overlay, a.Scale)
		if err != nil {
			return nil, err
		}
		out := &FinalizeResult{
			Status:       "finalized",
			CombinedArea: res.Combined.Count(),
			Overlay:      overlay,
		}
		for _, r := range res.Regions {
			fr := FinalRegion{Index: r.Index, X: r.Seed.Col, Y: r.Seed.Row, Area: r.Mask.Count()}
			if includeRegions {
				if fr.Mask, err = imaging.EncodePNG(r.Mask.Image(), a.Scale); err != nil {
					return nil, err
				}
			}
			out.Regions = append(out.Regions, fr)
		}
		return out, nil
	})
}
