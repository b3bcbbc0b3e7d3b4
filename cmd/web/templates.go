package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/myrjola/cyclefit/internal/contexthelpers"
	"github.com/myrjola/cyclefit/internal/cycle"
	"github.com/myrjola/cyclefit/internal/errors"
	"github.com/myrjola/cyclefit/internal/i18n"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// BaseTemplateData is embedded in the data of every page.
type BaseTemplateData struct {
	CurrentPath string
	Phases      []cycle.Phase
	Language    i18n.Language
	Languages   []i18n.Language
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
		Phases:      cycle.Phases(),
		Language:    contexthelpers.Language(r.Context()),
		Languages:   i18n.SupportedLanguages(),
	}
}

// templateCache holds the parsed pages keyed by page name.
type templateCache map[string]*template.Template

// formatFloat formats a float to remove trailing zeros and unnecessary precision.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//nolint:gochecknoglobals // goldmark renderers are safe for concurrent use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// baseTemplateFuncs returns placeholders for the context-dependent functions so that the pages parse.
func baseTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"nonce": func() template.HTMLAttr {
			panic("not implemented")
		},
		"mdToHTML": func(string) template.HTML {
			panic("not implemented")
		},
		"t": func(string) string {
			panic("not implemented")
		},
		"formatFloat": formatFloat,
	}
}

// contextTemplateFuncs returns template.FuncMap with context-dependent function implementations.
func (app *application) contextTemplateFuncs(ctx context.Context) template.FuncMap {
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	lang := contexthelpers.Language(ctx)
	return template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"mdToHTML": func(md string) template.HTML {
			return app.renderMarkdownToHTML(ctx, md)
		},
		"t": func(key string) string {
			return i18n.Translate(lang, key)
		},
		"formatFloat": formatFloat,
	}
}

// renderMarkdownToHTML converts catalog markdown to HTML. html/template escapes nothing in the result, so only
// trusted markdown from the embedded catalog may be passed in.
func (app *application) renderMarkdownToHTML(ctx context.Context, md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to render markdown", errors.SlogError(err))
		return template.HTML(template.HTMLEscapeString(md)) //nolint:gosec // escaped
	}
	return template.HTML(buf.String()) //nolint:gosec // catalog content is trusted
}

// parseTemplates parses every directory in pages together with base.gohtml.
//
// Each page directory has to include a template named "page".
func parseTemplates(templateFS fs.FS) (templateCache, error) {
	entries, err := fs.ReadDir(templateFS, "pages")
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	cache := make(templateCache, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		var t *template.Template
		if t, err = template.New(name).Funcs(baseTemplateFuncs()).
			ParseFS(templateFS, "base.gohtml", fmt.Sprintf("pages/%s/*.gohtml", name)); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		cache[name] = t
	}
	return cache, nil
}

func (app *application) renderToBuf(ctx context.Context, pageName string, data any) (*bytes.Buffer, error) {
	page, ok := app.templates[pageName]
	if !ok {
		return nil, fmt.Errorf("page template %s does not exist", pageName)
	}
	t, err := page.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone page template %s: %w", pageName, err)
	}

	buf := new(bytes.Buffer)
	t.Funcs(app.contextTemplateFuncs(ctx))
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", pageName, err)
	}
	return buf, nil
}

// render renders the page in ui/templates/pages/{pageName} and writes it to the response writer.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	buf, err := app.renderToBuf(r.Context(), pageName, data)
	if err != nil {
		if pageName == "error" {
			app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to render error page", errors.SlogError(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// findModuleDir locates the directory containing the go.mod file.
func findModuleDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		if _, err = os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// resolveAndVerifyTemplatePath returns templatePath or, when it is empty, ui/templates in the module root.
func resolveAndVerifyTemplatePath(templatePath string) (string, error) {
	if templatePath == "" {
		modulePath, err := findModuleDir()
		if err != nil {
			return "", fmt.Errorf("find module dir: %w", err)
		}
		templatePath = filepath.Join(modulePath, "ui", "templates")
	}
	stat, err := os.Stat(templatePath)
	if err != nil {
		return "", fmt.Errorf("template path not found %s: %w", templatePath, err)
	}
	if !stat.IsDir() {
		return "", fmt.Errorf("template path is not a directory: %s", templatePath)
	}
	return templatePath, nil
}
