// Package quality defines the ordinal rendering quality ladder (low,
// balanced, high, ultra) with its encoder settings, and the adaptive monitor
// that steps the active level while a render runs based on the achieved
// frame rate.
package quality
