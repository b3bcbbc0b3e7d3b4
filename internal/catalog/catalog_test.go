package catalog_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/cyclefit/internal/catalog"
	"github.com/myrjola/cyclefit/internal/cycle"
)

func TestLoad(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	all := c.All()
	for _, category := range catalog.Categories() {
		if len(all[category]) == 0 {
			t.Errorf("bundled catalog has no %s exercises", category)
		}
		for _, ex := range all[category] {
			if ex.Category != category {
				t.Errorf("exercise %d grouped under %s but has category %s", ex.ID, category, ex.Category)
			}
		}
	}

	pushups, ok := c.Get(1)
	if !ok {
		t.Fatal("expected exercise 1 in the bundled catalog")
	}
	if pushups.Name != "Push-ups" {
		t.Errorf("exercise 1 name = %q, want Push-ups", pushups.Name)
	}
	if diff := cmp.Diff([]string{"chest", "shoulders", "triceps"}, pushups.TargetMuscles); diff != "" {
		t.Errorf("Push-ups target muscles mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_FilterByPhase(t *testing.T) {
	c := catalog.New(map[catalog.Category][]catalog.Exercise{
		catalog.CategoryStrength: {
			{ID: 1, Name: "All phases", Category: catalog.CategoryStrength, BaseDifficulty: 2},
			{ID: 2, Name: "Ovulation only", Category: catalog.CategoryStrength, BaseDifficulty: 4,
				SuitableForPhases: []cycle.Phase{cycle.Ovulation}},
		},
		catalog.CategoryCardio: {
			{ID: 3, Name: "Follicular only", Category: catalog.CategoryCardio, BaseDifficulty: 3,
				SuitableForPhases: []cycle.Phase{cycle.Follicular}},
		},
	})

	tests := []struct {
		name  string
		phase cycle.Phase
		want  map[catalog.Category][]int
	}{
		{
			name:  "ovulation",
			phase: cycle.Ovulation,
			want: map[catalog.Category][]int{
				catalog.CategoryStrength: {1, 2},
				catalog.CategoryCardio:   {},
			},
		},
		{
			name:  "follicular",
			phase: cycle.Follicular,
			want: map[catalog.Category][]int{
				catalog.CategoryStrength: {1},
				catalog.CategoryCardio:   {3},
			},
		},
		{
			name:  "unknown phase keeps untagged exercises",
			phase: cycle.Phase("unknown"),
			want: map[catalog.Category][]int{
				catalog.CategoryStrength: {1},
				catalog.CategoryCardio:   {},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[catalog.Category][]int)
			for category, list := range c.FilterByPhase(tt.phase) {
				ids := []int{}
				for _, ex := range list {
					ids = append(ids, ex.ID)
				}
				got[category] = ids
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterByPhase(%s) mismatch (-want +got):\n%s", tt.phase, diff)
			}
		})
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	muscles := []string{"glutes"}
	c := catalog.New(map[catalog.Category][]catalog.Exercise{
		catalog.CategoryStrength: {
			{ID: 1, Name: "Bridge", Category: catalog.CategoryStrength, BaseDifficulty: 1, TargetMuscles: muscles},
		},
	})

	// Mutating the constructor input must not leak into the catalog.
	muscles[0] = "changed"

	all := c.All()
	all[catalog.CategoryStrength][0].Name = "mutated"
	all[catalog.CategoryStrength][0].TargetMuscles = append(all[catalog.CategoryStrength][0].TargetMuscles, "x")

	filtered := c.FilterByPhase(cycle.Menstrual)
	filtered[catalog.CategoryStrength][0].TargetMuscles[0] = "mutated"

	got, ok := c.Get(1)
	if !ok {
		t.Fatal("exercise 1 missing")
	}
	want := catalog.Exercise{
		ID: 1, Name: "Bridge", Category: catalog.CategoryStrength, BaseDifficulty: 1,
		TargetMuscles: []string{"glutes"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog was mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, c.All()[catalog.CategoryStrength][0]); diff != "" {
		t.Errorf("category list was mutated (-want +got):\n%s", diff)
	}
}

func TestCatalog_ListAndHas(t *testing.T) {
	c := catalog.New(map[catalog.Category][]catalog.Exercise{
		catalog.CategoryRecovery: {{ID: 4, Category: catalog.CategoryRecovery, BaseDifficulty: 1}},
		catalog.CategoryStrength: {
			{ID: 2, Category: catalog.CategoryStrength, BaseDifficulty: 1},
			{ID: 1, Category: catalog.CategoryStrength, BaseDifficulty: 1},
		},
		catalog.CategoryCardio: {},
	})

	var ids []int
	for _, ex := range c.List() {
		ids = append(ids, ex.ID)
	}
	if diff := cmp.Diff([]int{2, 1, 4}, ids); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
	if !c.Has(catalog.CategoryCardio) {
		t.Error("empty category should still be present")
	}
	if c.Has(catalog.CategoryFlexibility) {
		t.Error("flexibility was never added")
	}
	if _, ok := c.Get(99); ok {
		t.Error("Get(99) should not find anything")
	}
}

func TestSortCategories(t *testing.T) {
	got := []catalog.Category{"yoga", catalog.CategoryRecovery, "hiit", catalog.CategoryStrength, catalog.CategoryCardio}
	catalog.SortCategories(got)
	want := []catalog.Category{catalog.CategoryStrength, catalog.CategoryCardio, catalog.CategoryRecovery, "hiit", "yoga"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortCategories mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	t.Run("defaults intensities", func(t *testing.T) {
		c, err := catalog.Parse([]byte(`
exercises:
  - id: 7
    name: Plank
    category: strength
    difficulty: 2
    target_muscles: [core]
`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		ex, _ := c.Get(7)
		if ex.CardioIntensity != 1 || ex.StrengthIntensity != 1 {
			t.Errorf("intensities = %d/%d, want 1/1", ex.CardioIntensity, ex.StrengthIntensity)
		}
	})

	errorTests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "duplicate id",
			doc: `
exercises:
  - {id: 1, name: a, category: strength, difficulty: 1}
  - {id: 1, name: b, category: cardio, difficulty: 1}
`,
			wantErr: "duplicate exercise id 1",
		},
		{
			name:    "unknown category",
			doc:     `exercises: [{id: 1, name: a, category: hiit, difficulty: 1}]`,
			wantErr: "unknown category",
		},
		{
			name:    "difficulty out of range",
			doc:     `exercises: [{id: 1, name: a, category: strength, difficulty: 6}]`,
			wantErr: "difficulty 6 out of range",
		},
		{
			name:    "unknown phase",
			doc:     `exercises: [{id: 1, name: a, category: strength, difficulty: 1, suitable_for_phases: [winter]}]`,
			wantErr: "unknown phase",
		},
		{
			name:    "intensity out of range",
			doc:     `exercises: [{id: 1, name: a, category: cardio, difficulty: 1, cardio_intensity: 9}]`,
			wantErr: "intensity out of range",
		},
		{
			name:    "malformed yaml",
			doc:     `exercises: {`,
			wantErr: "unmarshal catalog",
		},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExercise_SuitableFor(t *testing.T) {
	untagged := catalog.Exercise{}
	for _, p := range cycle.Phases() {
		if !untagged.SuitableFor(p) {
			t.Errorf("untagged exercise should suit %s", p)
		}
	}
	tagged := catalog.Exercise{SuitableForPhases: []cycle.Phase{cycle.Luteal}}
	if tagged.SuitableFor(cycle.Menstrual) {
		t.Error("luteal-only exercise should not suit menstrual")
	}
	if !tagged.SuitableFor(cycle.Luteal) {
		t.Error("luteal-only exercise should suit luteal")
	}
}
