// Package server implements the MCP (Model Context Protocol) server for
// interactive region growing.
//
// A client opens a session on an image, drops seed pixels on it and gets
// back one grown region per seed. Previews, markers, outlines, crops and
// measurements can be requested at any point; finalizing returns the
// combined color overlay.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over one of two transports:
//   - stdio: one request per line on stdin, responses on stdout
//   - HTTP: POST /mcp with one request per body, plus GET /health and
//     GET /version
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Growth:
//   - region_grow: Grow one region without a session
//
// Session Lifecycle:
//   - region_session_open: Open a session with a fixed growth policy
//   - region_add_seed: Grow one seed
//   - region_add_seeds: Grow several seeds, all or nothing
//   - region_clear: Drop all seeds
//   - region_status: List state and seeds
//   - region_session_close: Release a session
//
// Visualization:
//   - region_preview: Labeled preview (gray bands or hues)
//   - region_markers: Numbered seed markers
//   - region_outline: Region boundaries
//
// Analysis:
//   - region_measure: Area, bounds, centroid, intensity statistics
//   - region_crop: Cut one region out of the color image
//   - region_finalize: Combined overlay and per-region masks
//
// # Coordinates
//
// Tools take (x, y) with x the column and y the row, origin top-left.
// Seeds outside the image are rejected, never clamped.
//
// # Sessions
//
// Sessions live in memory until closed or the process exits. All session
// access is serialized by one mutex, so the HTTP transport may serve
// requests concurrently.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Finalizing a session with no seeds is not an error: the result reports
// status "no_regions" and the session stays open.
//
// # Usage
//
//	srv := server.New(region.Config{Threshold: 30, Mode: region.ModeRunningAverage}, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal().Err(err).Msg("server error")
//	}
package server
