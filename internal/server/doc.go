// Package server implements the MCP (Model Context Protocol) server for label
// vectorisation.
//
// This package provides a JSON-RPC 2.0 server that exposes the vectoriser
// through the MCP protocol, so an MCP client can turn segmentation label
// images into vector features and look at the result drawn over the imagery.
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
//   - label_vectorize: Extract the feature record of a label image
//   - label_classes: Class ids present in a label image, with pixel counts
//   - categories_list: The category table and overlay colours
//   - vector_render: The feature record drawn over its imagery
//
// label_vectorize returns the same record the batch command writes for the
// file, plus a per-kind count.
//
// # Label Caching
//
// Decoded label grids are cached by path for the lifetime of the process,
// so vectorising and then rendering the same file decodes it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A label image holding a class id outside the category table fails the
// call; no partial record is returned.
//
// # Usage
//
//	ex, _ := vectorize.New(vectorize.DefaultOptions())
//	srv := server.New(ex, server.Options{ImageDir: "images"})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
