// Package imaging adapts files and pictures to and from the region growing
// engine.
//
// On the input side ImageCache decodes PNG, JPEG and GIF files once and turns
// them into region.Raster values: a BT.601 grayscale channel for growth and
// the original pixels for visualization. On the output side it renders
// masks, label previews, seed markers, region outlines and crops, and
// encodes them as base64 PNG for MCP clients.
//
// # Coordinate System
//
// Image coordinates are (x, y) with (0,0) at the top-left. Seeds and masks
// use (row, col), so x = col and y = row throughout this package.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Rendering functions only read
// their inputs.
package imaging
