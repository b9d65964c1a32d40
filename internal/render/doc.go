// Package render drives ffmpeg: it builds argument lists for frame
// extraction, encoding, muxing, and capture, executes them with progress
// reporting, and retries failed filter graphs with their fallback form.
package render
