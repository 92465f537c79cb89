package main

import "embed"

// The UI bundle is built into frontend/dist before the Go build.
//
//go:embed all:frontend/dist
var assets embed.FS
