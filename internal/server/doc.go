// Package server implements the MCP (Model Context Protocol) server for pool
// table analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes the table analyzer
// through the MCP protocol, so an assistant can load a table photo, probe its
// colors, find the cloth and the balls, and look at the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Sessions:
//   - table_load: Load an image and open a session
//   - table_close: Drop a session
//   - table_sizes: List table sizes and play field dimensions
//
// Color Operations:
//   - table_sample_color: Color at a pixel (hex, RGB, HSL, LAB)
//   - table_sample_colors: Colors along a path with Delta-E between steps
//   - table_sample_region: Dominant color, palette and preview of a region
//   - table_cloth_color: Cloth color of the image
//   - table_delta_e: Perceptual distance between two colors
//
// Analysis:
//   - table_analyze: Find the balls and their physical geometry
//   - table_annotate: Outline the detected balls, optionally over a grid
//
// Measurement:
//   - table_measure: Distance between two pixels, in pixels and inches
//   - table_compare_regions: Pixel-by-pixel Delta-E comparison
//
// # Sessions
//
// table_load decodes a file into a pixel buffer and returns a session_id.
// Every image tool accepts either session_id or path; a path with no session
// is loaded on first use. Decoded files are cached by path, and a session
// remembers its cloth color and last successful analysis.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, log, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
