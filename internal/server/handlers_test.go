package server

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/region-grow-mcp/internal/imaging"
	"github.com/ironsheep/region-grow-mcp/internal/region"
)

// createTwoToneImageFile writes a 10x10 PNG whose left half is dark gray and
// right half light gray, and returns its path.
func createTwoToneImageFile(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := uint8(50)
			if x >= 5 {
				v = 200
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}

	path := filepath.Join(t.TempDir(), "two-tone.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tool through executeTool with args marshaled to JSON.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (interface{}, error) {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	return s.executeTool(name, argsJSON)
}

// mustCallTool is callTool that fails the test on error.
func mustCallTool(t *testing.T, s *Server, name string, args map[string]interface{}) interface{} {
	t.Helper()
	result, err := callTool(t, s, name, args)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	if result == nil {
		t.Fatalf("%s returned nil result", name)
	}
	return result
}

// openTestSession opens a session on a fresh two-tone image.
func openTestSession(t *testing.T, s *Server) string {
	t.Helper()
	info, ok := mustCallTool(t, s, "region_session_open", map[string]interface{}{
		"path": createTwoToneImageFile(t),
	}).(*SessionInfo)
	if !ok {
		t.Fatal("region_session_open should return *SessionInfo")
	}
	return info.SessionID
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)

	params := map[string]interface{}{
		"name": "image_load",
		"arguments": map[string]interface{}{
			"path": createTwoToneImageFile(t),
		},
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("content: got %v", content)
	}

	var info imaging.ImageInfo
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &info); err != nil {
		t.Fatalf("content text is not ImageInfo JSON: %v", err)
	}
	if info.Width != 10 || info.Height != 10 {
		t.Errorf("size: got %dx%d, want 10x10", info.Width, info.Height)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer(t)

	params := map[string]interface{}{
		"name":      "image_dimensions",
		"arguments": map[string]interface{}{"path": "/nonexistent/image.png"},
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})

	if resp.Error == nil {
		t.Fatal("expected error for non-existent file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})

	if resp.Error == nil {
		t.Fatal("expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_UnknownSession(t *testing.T) {
	s := newTestServer(t)

	params := map[string]interface{}{
		"name":      "region_status",
		"arguments": map[string]interface{}{"session_id": "rg-99"},
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})

	if resp.Error == nil {
		t.Fatal("expected error for unknown session")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestRegionGrow_Stateless(t *testing.T) {
	s := newTestServer(t)
	path := createTwoToneImageFile(t)

	res, ok := mustCallTool(t, s, "region_grow", map[string]interface{}{
		"path": path, "x": 7, "y": 2,
	}).(*GrowResult)
	if !ok {
		t.Fatal("region_grow should return *GrowResult")
	}

	if res.Stats.Area != 50 {
		t.Errorf("area: got %d, want 50", res.Stats.Area)
	}
	if res.Steps != res.Stats.Area {
		t.Errorf("unbounded growth pops every member: steps %d, area %d", res.Steps, res.Stats.Area)
	}
	if res.Seed != (region.Seed{Row: 2, Col: 7}) {
		t.Errorf("seed: got %v", res.Seed)
	}
	if res.Mask == nil || res.Mask.Width != 10 || res.Mask.Height != 10 {
		t.Errorf("mask: got %+v", res.Mask)
	}
	if s.sessionCount() != 0 {
		t.Error("region_grow must not open a session")
	}
}

func TestRegionGrow_PolicyOverrides(t *testing.T) {
	s := newTestServer(t)
	path := createTwoToneImageFile(t)

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantArea int
		wantErr  bool
	}{
		{"threshold zero", map[string]interface{}{"threshold": 0}, 1, false},
		{"wide threshold", map[string]interface{}{"threshold": 200, "mode": "constant"}, 100, false},
		{"max steps", map[string]interface{}{"max_steps": 1}, 0, false},
		{"negative threshold", map[string]interface{}{"threshold": -1}, 0, true},
		{"unknown mode", map[string]interface{}{"mode": "median"}, 0, true},
		{"negative max steps", map[string]interface{}{"max_steps": -3}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{"path": path, "x": 0, "y": 0}
			for k, v := range tt.args {
				args[k] = v
			}

			result, err := callTool(t, s, "region_grow", args)
			if tt.wantErr {
				if !errors.Is(err, region.ErrInvalidConfiguration) {
					t.Fatalf("got %v, want ErrInvalidConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("region_grow: %v", err)
			}

			res := result.(*GrowResult)
			if tt.name == "max steps" {
				if res.Steps != 1 {
					t.Errorf("steps: got %d, want 1", res.Steps)
				}
				return
			}
			if res.Stats.Area != tt.wantArea {
				t.Errorf("area: got %d, want %d", res.Stats.Area, tt.wantArea)
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	id := openTestSession(t, s)

	if id != "rg-1" {
		t.Errorf("session id: got %s, want rg-1", id)
	}

	// Grow the dark half, then the light half.
	first := mustCallTool(t, s, "region_add_seed", map[string]interface{}{
		"session_id": id, "x": 2, "y": 3, "include_mask": true,
	}).(*SeedResult)
	if first.Index != 1 || first.Stats.Area != 50 || first.State != "active" {
		t.Errorf("first seed: got %+v", first)
	}
	if first.Mask == nil {
		t.Error("include_mask should return the mask")
	}

	second := mustCallTool(t, s, "region_add_seed", map[string]interface{}{
		"session_id": id, "x": 7, "y": 3,
	}).(*SeedResult)
	if second.Index != 2 || second.Stats.Area != 50 {
		t.Errorf("second seed: got %+v", second)
	}
	if second.Mask != nil {
		t.Error("mask should be omitted by default")
	}

	status := mustCallTool(t, s, "region_status", map[string]interface{}{"session_id": id}).(*StatusResult)
	if status.Seeds != 2 || len(status.Regions) != 2 {
		t.Fatalf("status: got %+v", status)
	}
	if status.Regions[1].X != 7 || status.Regions[1].Y != 3 {
		t.Errorf("second region seed: got (%d,%d), want (7,3)", status.Regions[1].X, status.Regions[1].Y)
	}

	preview := mustCallTool(t, s, "region_preview", map[string]interface{}{"session_id": id}).(*PreviewResult)
	if preview.Regions != 2 || preview.Width != 10 || preview.Legend != nil {
		t.Errorf("preview: got regions=%d width=%d legend=%v", preview.Regions, preview.Width, preview.Legend)
	}

	colored := mustCallTool(t, s, "region_preview", map[string]interface{}{
		"session_id": id, "colorize": true, "scale": 2.0,
	}).(*PreviewResult)
	if len(colored.Legend) != 2 || colored.Width != 20 {
		t.Errorf("colorized preview: got legend=%v width=%d", colored.Legend, colored.Width)
	}

	for _, tool := range []string{"region_markers", "region_outline"} {
		img, ok := mustCallTool(t, s, tool, map[string]interface{}{"session_id": id}).(*imaging.ImageResult)
		if !ok || img.ImageBase64 == "" {
			t.Errorf("%s: got %+v", tool, img)
		}
	}

	measure := mustCallTool(t, s, "region_measure", map[string]interface{}{
		"session_id": id, "index": 2,
	}).(*MeasureResult)
	if measure.Index != 2 || measure.Stats.Area != 50 || measure.Stats.StdDev != 0 {
		t.Errorf("measure: got %+v", measure)
	}

	crop := mustCallTool(t, s, "region_crop", map[string]interface{}{
		"session_id": id, "index": 1,
	}).(*imaging.CropResult)
	if crop.Width != 5 || crop.Height != 10 {
		t.Errorf("crop size: got %dx%d, want 5x10", crop.Width, crop.Height)
	}

	if _, err := callTool(t, s, "region_measure", map[string]interface{}{"session_id": id, "index": 3}); err == nil {
		t.Error("region_measure should fail for an index past the last region")
	}

	final := mustCallTool(t, s, "region_finalize", map[string]interface{}{"session_id": id}).(*FinalizeResult)
	if final.Status != "finalized" || final.CombinedArea != 100 || final.Overlay == nil {
		t.Errorf("finalize: got %+v", final)
	}
	if len(final.Regions) != 2 || final.Regions[0].Mask == nil {
		t.Errorf("finalize regions: got %+v", final.Regions)
	}

	// Finalized sessions reject further edits.
	_, err := callTool(t, s, "region_add_seed", map[string]interface{}{"session_id": id, "x": 0, "y": 0})
	if !errors.Is(err, region.ErrSessionFinalized) {
		t.Errorf("add after finalize: got %v, want ErrSessionFinalized", err)
	}
	_, err = callTool(t, s, "region_clear", map[string]interface{}{"session_id": id})
	if !errors.Is(err, region.ErrSessionFinalized) {
		t.Errorf("clear after finalize: got %v, want ErrSessionFinalized", err)
	}

	mustCallTool(t, s, "region_session_close", map[string]interface{}{"session_id": id})
	if _, err := callTool(t, s, "region_status", map[string]interface{}{"session_id": id}); err == nil {
		t.Error("closed session should be unknown")
	}
	if _, err := callTool(t, s, "region_session_close", map[string]interface{}{"session_id": id}); err == nil {
		t.Error("closing twice should fail")
	}
}

func TestAddSeed_OutOfBounds(t *testing.T) {
	s := newTestServer(t)
	id := openTestSession(t, s)

	tests := []struct {
		name string
		x, y int
	}{
		{"past right edge", 10, 0},
		{"past bottom edge", 0, 10},
		{"negative x", -1, 4},
		{"negative y", 4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callTool(t, s, "region_add_seed", map[string]interface{}{
				"session_id": id, "x": tt.x, "y": tt.y,
			})
			if !errors.Is(err, region.ErrOutOfBoundsSeed) {
				t.Errorf("got %v, want ErrOutOfBoundsSeed", err)
			}
		})
	}

	status := mustCallTool(t, s, "region_status", map[string]interface{}{"session_id": id}).(*StatusResult)
	if status.Seeds != 0 || status.State != "empty" {
		t.Errorf("rejected seeds must not change the session: got %+v", status)
	}
}

func TestAddSeeds_AllOrNothing(t *testing.T) {
	s := newTestServer(t)
	id := openTestSession(t, s)

	_, err := callTool(t, s, "region_add_seeds", map[string]interface{}{
		"session_id": id,
		"points":     []map[string]interface{}{{"x": 1, "y": 1}, {"x": 50, "y": 1}},
	})
	if !errors.Is(err, region.ErrOutOfBoundsSeed) {
		t.Fatalf("got %v, want ErrOutOfBoundsSeed", err)
	}

	status := mustCallTool(t, s, "region_status", map[string]interface{}{"session_id": id}).(*StatusResult)
	if status.Seeds != 0 {
		t.Fatalf("no seed should be added, got %d", status.Seeds)
	}

	res := mustCallTool(t, s, "region_add_seeds", map[string]interface{}{
		"session_id": id,
		"points":     []map[string]interface{}{{"x": 1, "y": 1}, {"x": 8, "y": 8}},
	}).(*SeedsResult)
	if res.Total != 2 || len(res.Seeds) != 2 {
		t.Fatalf("add_seeds: got %+v", res)
	}
	if res.Seeds[1].Index != 2 || res.Seeds[1].X != 8 {
		t.Errorf("second seed: got %+v", res.Seeds[1])
	}

	if _, err := callTool(t, s, "region_add_seeds", map[string]interface{}{"session_id": id, "points": []interface{}{}}); err == nil {
		t.Error("empty points should fail")
	}
}

func TestClear_ThenFinalizeEmpty(t *testing.T) {
	s := newTestServer(t)
	id := openTestSession(t, s)

	mustCallTool(t, s, "region_add_seed", map[string]interface{}{"session_id": id, "x": 1, "y": 1})

	cleared := mustCallTool(t, s, "region_clear", map[string]interface{}{"session_id": id}).(*SessionInfo)
	if cleared.Seeds != 0 || cleared.State != "empty" {
		t.Errorf("clear: got %+v", cleared)
	}

	final := mustCallTool(t, s, "region_finalize", map[string]interface{}{"session_id": id}).(*FinalizeResult)
	if final.Status != "no_regions" || final.Overlay != nil || final.Message == "" {
		t.Errorf("finalize empty: got %+v", final)
	}

	// The session stays usable after an empty finalize.
	mustCallTool(t, s, "region_add_seed", map[string]interface{}{"session_id": id, "x": 1, "y": 1})
}

func TestSessionOpen_Policy(t *testing.T) {
	s := newTestServer(t)

	info := mustCallTool(t, s, "region_session_open", map[string]interface{}{
		"path":      createTwoToneImageFile(t),
		"threshold": 12.5,
		"mode":      "constant",
		"max_steps": 40,
	}).(*SessionInfo)

	if info.Threshold != 12.5 || info.Mode != "constant" || info.MaxSteps != 40 {
		t.Errorf("policy: got %+v", info)
	}
	if info.Width != 10 || info.Height != 10 || info.State != "empty" {
		t.Errorf("session info: got %+v", info)
	}

	other := openTestSession(t, s)
	if other == info.SessionID {
		t.Error("session ids must be unique")
	}
	if s.sessionCount() != 2 {
		t.Errorf("sessionCount: got %d, want 2", s.sessionCount())
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}
