package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func Test_application_notFound(t *testing.T) {
	var (
		ctx    = t.Context()
		server = startTestServer(t, nil)
		client = server.Client()
	)

	tests := []struct {
		name string
		path string
	}{
		{name: "Nonexistent path", path: "/nonexistent"},
		{name: "Unknown exercise", path: "/exercises/999"},
		{name: "Invalid exercise ID", path: "/exercises/push-ups"},
		{name: "Static directory", path: "/static/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := client.GetDocStatus(ctx, tt.path, http.StatusNotFound)
			if err != nil {
				t.Fatalf("Failed to get %s: %v", tt.path, err)
			}
			checkCustom404Content(t, doc)
		})
	}

	t.Run("API routes answer with JSON", func(t *testing.T) {
		statusErr := wantStatus(t, client.GetJSON(ctx, "/api/exercises/999/difficulty", nil), http.StatusNotFound)
		if !strings.Contains(statusErr.Body, `"NOT_FOUND"`) {
			t.Errorf("body = %s", statusErr.Body)
		}
	})
}

func checkCustom404Content(t *testing.T, doc *goquery.Document) {
	t.Helper()

	if title := doc.Find("h1").First().Text(); !strings.Contains(title, "404") {
		t.Errorf("Expected 404 page to contain '404' in title, got: %s", title)
	}
	if subtitle := doc.Find("h2").First().Text(); !strings.Contains(subtitle, "Page Not Found") {
		t.Errorf("Expected 404 page to contain 'Page Not Found' subtitle, got: %s", subtitle)
	}

	homeLinks := doc.Find("a[href='/']")
	if homeLinks.Length() == 0 {
		t.Error("Expected 404 page to contain a link to home page (/)")
	} else if homeText := homeLinks.First().Text(); !strings.Contains(homeText, "Go Home") {
		t.Errorf("Expected home link to contain 'Go Home', got: %s", homeText)
	}

	if doc.Find("button:contains('Go Back')").Length() == 0 {
		t.Error("Expected 404 page to contain a 'Go Back' button")
	}
}
