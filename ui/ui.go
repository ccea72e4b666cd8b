// Package ui embeds the HTML templates and static assets.
package ui

import "embed"

//go:embed html/*.html static/*
var Files embed.FS
