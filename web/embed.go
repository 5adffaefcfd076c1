package web

import "embed"

// TemplatesFS embeds the page and table templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and other static assets.
//
//go:embed static/*
var StaticFS embed.FS
