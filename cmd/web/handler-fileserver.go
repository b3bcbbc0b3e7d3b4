package main

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// fileServerHandler serves ui/static and renders the not found page for anything else.
func (app *application) fileServerHandler() (http.Handler, error) {
	fileRoot := path.Join(".", "ui", "static")
	var err error
	if _, err = os.Stat(fileRoot); os.IsNotExist(err) {
		var dir string
		if dir, err = findModuleDir(); err != nil {
			return nil, fmt.Errorf("findModuleDir: %w", err)
		}
		fileRoot = path.Join(dir, "ui", "static")
	}
	var stat os.FileInfo
	if stat, err = os.Stat(fileRoot); os.IsNotExist(err) || !stat.IsDir() {
		return nil, fmt.Errorf("file server root %s does not exist or is not a directory", fileRoot)
	}
	fileServer := http.FileServer(http.Dir(fileRoot))

	wrap := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
			commonContext(app.timeout(next))))))
	}
	notFound := noCache(http.HandlerFunc(app.notFound))

	return wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleanPath := filepath.Clean(r.URL.Path)
		if strings.Contains(cleanPath, "..") || strings.HasSuffix(r.URL.Path, "/") {
			notFound.ServeHTTP(w, r)
			return
		}
		if stat, statErr := os.Stat(filepath.Join(fileRoot, cleanPath)); statErr != nil || stat.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		cacheForever(fileServer).ServeHTTP(w, r)
	})), nil
}
