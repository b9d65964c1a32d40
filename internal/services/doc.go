// Package services defines shared utilities consumed by the render pipeline
// stages and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp render job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (retry with a fallback filter vs abort) consistent.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
