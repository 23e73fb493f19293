package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/http/assets"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS            // Filesystem containing templates (required)
	Resolver   *assets.Resolver // Asset resolver for hashed filenames (optional)
	Logger     *slog.Logger     // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	t, err := template.New("root").Funcs(templateFuncs(&t, cfg.Resolver)).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// ContentTemplateFor maps a page identifier to its content template.
func ContentTemplateFor(page string) string { return page + "-content" }

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderInput{name: "layout", status: status, data: data})
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderInput{name: "content", status: status, data: data})
}

// RenderError renders an error page using the error template.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderInput{name: "error-layout", status: status, data: data})
}

type renderInput struct {
	name   string
	status int
	data   any
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, in renderInput) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, in.name, in.data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", in.name),
			slog.Any("error", err),
		)
		return err
	}

	if in.status == 0 {
		in.status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(in.status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", in.name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func templateFuncs(t **template.Template, resolver *assets.Resolver) template.FuncMap {
	return template.FuncMap{
		"renderSection": func(page string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			// #nosec G203 - rendered by our own html/template set; values were escaped above.
			return template.HTML(buf.String()), nil
		},
		"asset": func(name string) string {
			if resolver == nil {
				return routes.StaticPrefix + "/" + strings.TrimPrefix(name, "/")
			}
			return resolver.Resolve(name)
		},
		"toJSON": func(v any) (template.JS, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			// #nosec G203 - json.Marshal escapes <, > and & for script contexts.
			return template.JS(b), nil
		},
		"friendlyTime": friendlyTime,
		"hasPrefix":    strings.HasPrefix,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"lower":        strings.ToLower,
		"list":         func(items ...string) []string { return items },
		"dict":         dict,
	}
}

// dict builds a map from key/value pairs for passing several values to a
// nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires key/value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

func friendlyTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format("Jan 2, 2006 15:04 UTC")
}
