// Package table finds balls on a pool table photo and places them on the
// physical play field.
//
// An Analyzer moves one image through a fixed sequence of states:
//
//	Unloaded -> Decoded -> ClothColorKnown -> Segmented -> Done
//
// Decoding produces a PixelBuffer. The cloth color is the most frequent exact
// pixel value in the centered quadrant. Segmentation keeps pixels whose
// Delta-E94 distance from the cloth reaches the threshold and groups them
// into 8-connected objects. Each object becomes a BallOnTable carrying its
// raw pixel bytes, its image geometry and its size in inches for the chosen
// TableSize.
//
// A failure at any step returns a *StageError naming the state that was not
// reached, with no partial results.
//
// A Session keeps one decoded image across several tool calls and remembers
// the last successful analysis.
package table
