// Package region implements multi-seed region growing segmentation.
//
// A region is grown from a single seed pixel by breadth-first expansion over
// 4-connected neighbors. A neighbor is admitted while its intensity stays
// strictly within a threshold of a reference value. The reference is either
// the seed's own intensity (ModeConstant) or the running mean of every pixel
// admitted so far (ModeRunningAverage).
//
// # Coordinate System
//
// Seeds use raster index space: Row grows downward from 0, Col grows
// rightward from 0. This matches image (x, y) as (Col, Row).
//
// # Traversal Order
//
// Neighbors are always enumerated up, right, down, left and the frontier is
// a FIFO queue. In running average mode the final mask can depend on the
// order in which pixels are admitted, so this order is fixed to keep results
// bit-identical across runs.
//
// # Composition
//
// Independently grown masks are combined in seed order:
//   - LabelPreview assigns region i (1-based) the value i*(255/n); later
//     regions overwrite earlier ones where they overlap.
//   - Union and Overlay take the logical OR of all masks.
//
// # Sessions
//
// Session holds the raster, the growth Config and the ordered seed/mask
// history. It is not safe for concurrent use; callers that share a session
// between goroutines must serialize access.
package region
