// Package interp provides fractional-position interpolation primitives used
// by the resampling stage.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default)
//   - [LanczosN]: 2a-point Lanczos windowed-sinc (band-limited)
//
// Each method is also available as a [Kernel], which lets streaming callers
// keep Width()-1 frames of history and interpolate across block boundaries
// without discontinuities.
package interp
