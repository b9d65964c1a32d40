// Package visualize owns the visualization mode registry: named
// filter-graph templates for the transcoder's filter_complex option, color
// scheme mappings, and the fallback table consulted when an elaborate graph
// fails at runtime.
package visualize
