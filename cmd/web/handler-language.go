package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/myrjola/cyclefit/internal/i18n"
)

const (
	languageCookie    = "language"
	languageCookieAge = 365 * 24 * 60 * 60 // one year in seconds
)

// isRelativePath checks if a path is a relative path without scheme or host and doesn't allow ambiguous slashes.
func isRelativePath(path string) bool {
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return false
	}
	if strings.HasPrefix(path, "/") {
		if len(path) == 1 || (path[1] != '/' && path[1] != '\\') {
			return true
		}
	}
	return false
}

// sameOriginReferer returns the path of the Referer header when it points to this host.
func sameOriginReferer(r *http.Request) string {
	referer, err := url.Parse(r.Header.Get("Referer"))
	if err != nil || referer.Host != r.Host {
		return "/"
	}
	path := referer.EscapedPath()
	if referer.RawQuery != "" {
		path += "?" + referer.RawQuery
	}
	if !isRelativePath(path) {
		return "/"
	}
	return path
}

// setLanguagePOST stores the interface language in a cookie and sends the user back where they came from.
func (app *application) setLanguagePOST(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Language(r.FormValue("language"))
	if !i18n.IsSupported(lang) {
		http.Error(w, "Invalid language", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct // defaults are fine
		Name:     languageCookie,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   languageCookieAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, sameOriginReferer(r), http.StatusSeeOther)
}

// requestLanguage prefers the language cookie and falls back to Accept-Language.
func requestLanguage(r *http.Request) i18n.Language {
	if cookie, err := r.Cookie(languageCookie); err == nil && i18n.IsSupported(i18n.Language(cookie.Value)) {
		return i18n.Language(cookie.Value)
	}
	return i18n.Negotiate(r.Header.Get("Accept-Language"))
}
