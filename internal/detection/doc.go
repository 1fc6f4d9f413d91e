// Package detection separates foreground objects from the cloth.
//
// Segmentation works on a PixelBuffer and a known cloth color:
//
//  1. Smoothing: optional Gaussian blur to even out cloth texture
//  2. Masking: each pixel is converted to LAB and scored against the cloth
//     color; scores at or above the threshold are foreground
//  3. Opening: optional erosion then dilation to drop isolated specks
//  4. Labeling: 8-connected flood fill groups foreground pixels into blobs
//  5. Measuring: bounds, area, centroid and roundness per blob
//
// # Determinism
//
// The mask sweep runs on several goroutines, but each owns a disjoint band of
// rows, so the mask is the same as a serial sweep. Blobs are seeded in
// row-major order and numbered in that order.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection
