package main

import (
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
)

func Test_application_exercisesAPI(t *testing.T) {
	var (
		ctx    = t.Context()
		server = startTestServer(t, nil)
		client = server.Client()
	)

	var all []catalog.Exercise
	if err := client.GetJSON(ctx, "/api/exercises", &all); err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected exercises")
	}

	t.Run("Category filter", func(t *testing.T) {
		var got []catalog.Exercise
		if err := client.GetJSON(ctx, "/api/exercises?category=cardio", &got); err != nil {
			t.Fatalf("list exercises: %v", err)
		}
		if len(got) == 0 || len(got) >= len(all) {
			t.Fatalf("got %d cardio exercises out of %d", len(got), len(all))
		}
		for _, ex := range got {
			if ex.Category != catalog.CategoryCardio {
				t.Errorf("exercise %d has category %q", ex.ID, ex.Category)
			}
		}
	})

	t.Run("Phase filter", func(t *testing.T) {
		var got []catalog.Exercise
		if err := client.GetJSON(ctx, "/api/exercises?phase=Menstrual", &got); err != nil {
			t.Fatalf("list exercises: %v", err)
		}
		for _, ex := range got {
			if !ex.SuitableFor(cycle.Menstrual) {
				t.Errorf("exercise %d is not suitable for the menstrual phase", ex.ID)
			}
		}
		// Barbell Deadlift is reserved for the follicular and ovulation phases.
		if slices.ContainsFunc(got, func(ex catalog.Exercise) bool { return ex.ID == 4 }) {
			t.Error("expected Barbell Deadlift to be filtered out")
		}
	})

	t.Run("Invalid filters", func(t *testing.T) {
		statusErr := wantStatus(t, client.GetJSON(ctx, "/api/exercises?category=yoga", nil), http.StatusBadRequest)
		if !strings.Contains(statusErr.Body, "category") {
			t.Errorf("body = %s", statusErr.Body)
		}
		wantStatus(t, client.GetJSON(ctx, "/api/exercises?phase=winter", nil), http.StatusBadRequest)
	})

	t.Run("Difficulty", func(t *testing.T) {
		var got exerciseDifficultyResponse
		if err := client.GetJSON(ctx, "/api/exercises/1/difficulty", &got); err != nil {
			t.Fatalf("difficulty: %v", err)
		}
		if got.ExerciseID != 1 || got.Name != "Push-ups" || got.BaseDifficulty != 2 {
			t.Errorf("difficulty = %+v", got)
		}
		if got.PredictedDifficulty < 1 || got.PredictedDifficulty > 5 {
			t.Errorf("predicted difficulty %d out of range", got.PredictedDifficulty)
		}
		wantStatus(t, client.GetJSON(ctx, "/api/exercises/999/difficulty", nil), http.StatusNotFound)
	})
}

func Test_application_exercisesPage(t *testing.T) {
	var (
		ctx    = t.Context()
		server = startTestServer(t, nil)
		client = server.Client()
	)

	t.Run("Grouped by category", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/exercises")
		if err != nil {
			t.Fatalf("get exercises: %v", err)
		}
		var categories []string
		doc.Find("section.category").Each(func(_ int, s *goquery.Selection) {
			categories = append(categories, s.AttrOr("data-category", ""))
		})
		for _, want := range []catalog.Category{catalog.CategoryStrength, catalog.CategoryCardio,
			catalog.CategoryFlexibility, catalog.CategoryRecovery} {
			if !slices.Contains(categories, string(want)) {
				t.Errorf("categories %v missing %q", categories, want)
			}
		}
		if doc.Find("a[href='/exercises/1']").Length() != 1 {
			t.Error("expected a link to Push-ups")
		}
	})

	t.Run("Phase filter", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/exercises?phase=menstrual")
		if err != nil {
			t.Fatalf("get exercises: %v", err)
		}
		if h1 := doc.Find("h1").Text(); !strings.Contains(h1, "Menstrual") {
			t.Errorf("heading = %q", h1)
		}
		if doc.Find("a[href='/exercises/4']").Length() != 0 {
			t.Error("expected Barbell Deadlift to be filtered out")
		}
	})

	t.Run("Unknown phase", func(t *testing.T) {
		if _, err := client.GetDocStatus(ctx, "/exercises?phase=winter", http.StatusNotFound); err != nil {
			t.Fatalf("get exercises: %v", err)
		}
	})

	t.Run("Root redirects", func(t *testing.T) {
		resp, err := client.Get(ctx, "/")
		if err != nil {
			t.Fatalf("get root: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/exercises" {
			t.Errorf("status = %d, location = %q", resp.StatusCode, resp.Header.Get("Location"))
		}
	})
}

func Test_application_exerciseInfo(t *testing.T) {
	var (
		ctx    = t.Context()
		server = startTestServer(t, nil)
		client = server.Client()
	)

	doc, err := client.GetDoc(ctx, "/exercises/1")
	if err != nil {
		t.Fatalf("get exercise: %v", err)
	}

	if got := doc.Find("h1").Text(); got != "Push-ups" {
		t.Errorf("heading = %q", got)
	}
	category := doc.Find("dd.category")
	if got := category.AttrOr("data-category", ""); got != string(catalog.CategoryStrength) {
		t.Errorf("category = %q", got)
	}
	if got := strings.TrimSpace(category.Text()); got != "Strength" {
		t.Errorf("category label = %q", got)
	}
	// The description is markdown.
	if got := doc.Find(".description strong").Text(); got != "rigid torso" {
		t.Errorf("bold description text = %q", got)
	}
	if got := doc.Find("ul.form-tips li").Length(); got != 2 {
		t.Errorf("form tips = %d, want 2", got)
	}

	// Push-ups suit every phase.
	var phases []string
	doc.Find("section.phase-advice").Each(func(_ int, s *goquery.Selection) {
		phases = append(phases, s.AttrOr("data-phase", ""))
	})
	want := make([]string, 0, len(cycle.Phases()))
	for _, p := range cycle.Phases() {
		want = append(want, string(p))
	}
	if !slices.Equal(phases, want) {
		t.Errorf("advice phases = %v, want %v", phases, want)
	}
	menstrual := doc.Find("section.phase-advice[data-phase='menstrual'] p").Text()
	if !strings.Contains(menstrual, "lighter weights") {
		t.Errorf("menstrual advice = %q", menstrual)
	}
}
