// Package fastmath selects between exact and approximate implementations of
// the few transcendental functions on hot correlation paths.
//
// Builds with the fastmath tag route through algo-approx; default builds use
// the math package.
package fastmath
