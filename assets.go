// Package lingua provides embedded frontend assets for production builds.
package lingua

import "embed"

// In dev mode templates and assets are read from disk instead.

// StaticFS holds the built CSS, JavaScript and manifest.json.
//
//go:embed all:frontend/static
var StaticFS embed.FS

// TemplateFS holds the page templates.
//
//go:embed all:frontend/templates
var TemplateFS embed.FS
