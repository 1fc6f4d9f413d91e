// Package colorspace converts 8-bit sRGB pixels to and from CIE-LAB and
// measures perceptual color difference.
//
// # Conversion
//
// RGBToLab follows the classic sRGB (D65) pipeline: gamma expansion, a fixed
// RGB to XYZ matrix, normalization by the reference white and the CIE cube
// root nonlinearity. LabToRGB is its inverse. Colors derived from pixels are
// clamped rather than rejected; only NewLabColor validates its inputs.
//
// # Difference
//
// DeltaE94 implements CIE94 with the graphic-arts and textiles coefficient
// profiles. CIE94 weights chroma and hue by the chroma of the first argument,
// so the first argument should be the reference color. CIE76 and CIEDE2000
// are available through Metric for comparison.
package colorspace
