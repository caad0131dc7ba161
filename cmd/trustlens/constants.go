package main

// Default limits and addresses for CLI commands.
const (
	DefaultHistoryLimit = 20
	DefaultServeAddr    = "127.0.0.1:8591"
)

// Valid import formats.
var validFormats = []string{"json", "csv"}
