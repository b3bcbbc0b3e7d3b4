package main

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/myrjola/cyclefit/internal/i18n"
)

func Test_isRelativePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/", want: true},
		{path: "/exercises?phase=luteal", want: true},
		{path: "//evil.example.com", want: false},
		{path: "/\\evil.example.com", want: false},
		{path: "https://evil.example.com/", want: false},
		{path: "exercises", want: false},
		{path: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isRelativePath(tt.path); got != tt.want {
				t.Errorf("isRelativePath(%q) = %t, want %t", tt.path, got, tt.want)
			}
		})
	}
}

func Test_application_language(t *testing.T) {
	var (
		ctx    = t.Context()
		server = startTestServer(t, nil)
		client = server.Client()
	)

	t.Run("Defaults to English", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/exercises")
		if err != nil {
			t.Fatalf("get exercises: %v", err)
		}
		if got := doc.Find("html").AttrOr("lang", ""); got != string(i18n.English) {
			t.Errorf("lang = %q", got)
		}
		if got := doc.Find("h1").Text(); got != "Exercises" {
			t.Errorf("heading = %q", got)
		}
	})

	t.Run("Cookie selects Finnish", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL()+"/language",
			strings.NewReader("language=fi"))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", server.URL()+"/exercises?phase=luteal")
		resp, err := noRedirectClient().Do(req)
		if err != nil {
			t.Fatalf("set language: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", resp.StatusCode)
		}
		if got := resp.Header.Get("Location"); got != "/exercises?phase=luteal" {
			t.Errorf("Location = %q", got)
		}
		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == languageCookie {
				cookie = c
			}
		}
		if cookie == nil || cookie.Value != string(i18n.Finnish) {
			t.Fatalf("language cookie = %v", cookie)
		}

		req, err = http.NewRequestWithContext(ctx, http.MethodGet, server.URL()+"/exercises/999", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.AddCookie(cookie)
		resp, err = noRedirectClient().Do(req)
		if err != nil {
			t.Fatalf("get not found page: %v", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		body := new(strings.Builder)
		if _, err = io.Copy(body, resp.Body); err != nil {
			t.Fatalf("read body: %v", err)
		}
		for _, want := range []string{`lang="fi"`, "Sivua ei löytynyt", "Etusivulle"} {
			if !strings.Contains(body.String(), want) {
				t.Errorf("Finnish page does not contain %q", want)
			}
		}
	})

	t.Run("Accept-Language", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL()+"/exercises", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Accept-Language", "fi-FI,fi;q=0.9,en;q=0.8")
		resp, err := noRedirectClient().Do(req)
		if err != nil {
			t.Fatalf("get exercises: %v", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		body := new(strings.Builder)
		if _, err = io.Copy(body, resp.Body); err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(body.String(), "<h1>Liikkeet</h1>") {
			t.Errorf("expected the Finnish heading in %s", body.String())
		}
	})

	t.Run("Unsupported language", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL()+"/language",
			strings.NewReader("language=sv"))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := noRedirectClient().Do(req)
		if err != nil {
			t.Fatalf("set language: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func noRedirectClient() *http.Client {
	return &http.Client{ //nolint:exhaustruct // defaults are fine
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
