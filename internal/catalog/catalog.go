// Package catalog provides the read-only library of exercises that workout plans are drawn from.
package catalog

import (
	"cmp"
	_ "embed"
	"fmt"
	"slices"

	"github.com/myrjola/cyclefit/internal/cycle"
	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var defaultCatalog []byte

// Category represents the type of exercise.
type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryCardio      Category = "cardio"
	CategoryFlexibility Category = "flexibility"
	CategoryRecovery    Category = "recovery"
)

// Categories returns the known categories in their canonical order.
func Categories() []Category {
	return []Category{CategoryStrength, CategoryCardio, CategoryFlexibility, CategoryRecovery}
}

// Known reports whether c is one of the known categories.
func (c Category) Known() bool {
	return slices.Contains(Categories(), c)
}

// Intensity bounds shared by difficulty and intensity attributes.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Exercise is an immutable catalog entry.
type Exercise struct {
	ID             int      `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Category       Category `json:"category" yaml:"category"`
	BaseDifficulty int      `json:"base_difficulty" yaml:"difficulty"`
	// TargetMuscles lists the muscle groups trained by the exercise.
	TargetMuscles []string `json:"target_muscles" yaml:"target_muscles"`
	// EquipmentNeeded is empty for body weight exercises.
	EquipmentNeeded []string `json:"equipment_needed" yaml:"equipment_needed"`
	// SuitableForPhases is empty when the exercise suits every phase.
	SuitableForPhases []cycle.Phase `json:"suitable_for_phases" yaml:"suitable_for_phases"`
	CardioIntensity   int           `json:"cardio_intensity" yaml:"cardio_intensity"`
	StrengthIntensity int           `json:"strength_intensity" yaml:"strength_intensity"`
	// Description is Markdown.
	Description string   `json:"description" yaml:"description"`
	FormTips    []string `json:"form_tips" yaml:"form_tips"`
}

// SuitableFor reports whether the exercise may be performed during phase p.
func (e Exercise) SuitableFor(p cycle.Phase) bool {
	return len(e.SuitableForPhases) == 0 || slices.Contains(e.SuitableForPhases, p)
}

// clone returns a copy that shares no slices with e.
func (e Exercise) clone() Exercise {
	e.TargetMuscles = slices.Clone(e.TargetMuscles)
	e.EquipmentNeeded = slices.Clone(e.EquipmentNeeded)
	e.SuitableForPhases = slices.Clone(e.SuitableForPhases)
	e.FormTips = slices.Clone(e.FormTips)
	return e
}

// Catalog is a categorised exercise collection. It is never mutated after construction
// and is safe for concurrent use.
type Catalog struct {
	byCategory map[Category][]Exercise
	byID       map[int]Exercise
}

// New constructs a catalog from the given exercises. The input is copied.
func New(exercises map[Category][]Exercise) *Catalog {
	c := &Catalog{
		byCategory: make(map[Category][]Exercise, len(exercises)),
		byID:       make(map[int]Exercise),
	}
	for category, list := range exercises {
		copied := make([]Exercise, len(list))
		for i, ex := range list {
			copied[i] = ex.clone()
			c.byID[ex.ID] = ex.clone()
		}
		c.byCategory[category] = copied
	}
	return c
}

// Load parses the catalog bundled with the binary.
func Load() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("parse bundled catalog: %w", err)
	}
	return c, nil
}

type catalogFile struct {
	Exercises []Exercise `yaml:"exercises"`
}

// Parse decodes and validates a YAML catalog document.
//
// Intensity attributes left out of the document default to 1.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	seen := make(map[int]bool, len(file.Exercises))
	grouped := make(map[Category][]Exercise)
	for _, ex := range file.Exercises {
		if seen[ex.ID] {
			return nil, fmt.Errorf("duplicate exercise id %d", ex.ID)
		}
		seen[ex.ID] = true

		if !ex.Category.Known() {
			return nil, fmt.Errorf("exercise %d: unknown category %q", ex.ID, ex.Category)
		}
		if ex.BaseDifficulty < MinLevel || ex.BaseDifficulty > MaxLevel {
			return nil, fmt.Errorf("exercise %d: difficulty %d out of range", ex.ID, ex.BaseDifficulty)
		}
		for _, p := range ex.SuitableForPhases {
			if !p.Known() {
				return nil, fmt.Errorf("exercise %d: unknown phase %q", ex.ID, p)
			}
		}
		ex.CardioIntensity = defaultLevel(ex.CardioIntensity)
		ex.StrengthIntensity = defaultLevel(ex.StrengthIntensity)
		if ex.CardioIntensity > MaxLevel || ex.StrengthIntensity > MaxLevel {
			return nil, fmt.Errorf("exercise %d: intensity out of range", ex.ID)
		}

		grouped[ex.Category] = append(grouped[ex.Category], ex)
	}

	return New(grouped), nil
}

func defaultLevel(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	return v
}

// All returns every exercise grouped by category. The result is a copy.
func (c *Catalog) All() map[Category][]Exercise {
	return c.filter(func(Exercise) bool { return true })
}

// FilterByPhase returns the exercises suitable for phase grouped by category.
//
// Categories where no exercise suits the phase map to an empty slice. Falling back to the
// unfiltered list is the caller's decision.
func (c *Catalog) FilterByPhase(phase cycle.Phase) map[Category][]Exercise {
	return c.filter(func(ex Exercise) bool { return ex.SuitableFor(phase) })
}

func (c *Catalog) filter(keep func(Exercise) bool) map[Category][]Exercise {
	out := make(map[Category][]Exercise, len(c.byCategory))
	for category, list := range c.byCategory {
		filtered := make([]Exercise, 0, len(list))
		for _, ex := range list {
			if keep(ex) {
				filtered = append(filtered, ex.clone())
			}
		}
		out[category] = filtered
	}
	return out
}

// Has reports whether category is present in the catalog.
func (c *Catalog) Has(category Category) bool {
	_, ok := c.byCategory[category]
	return ok
}

// Get returns the exercise with the given id.
func (c *Catalog) Get(id int) (Exercise, bool) {
	ex, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return ex.clone(), true
}

// List returns all exercises ordered by category and then by catalog order.
func (c *Catalog) List() []Exercise {
	var out []Exercise
	for _, category := range c.orderedCategories() {
		for _, ex := range c.byCategory[category] {
			out = append(out, ex.clone())
		}
	}
	return out
}

// orderedCategories lists the categories present in the catalog, known categories first.
func (c *Catalog) orderedCategories() []Category {
	categories := make([]Category, 0, len(c.byCategory))
	for category := range c.byCategory {
		categories = append(categories, category)
	}
	SortCategories(categories)
	return categories
}

// SortCategories sorts categories in canonical order. Unknown categories are sorted by
// name after the known ones.
func SortCategories(categories []Category) {
	rank := func(c Category) int {
		if i := slices.Index(Categories(), c); i >= 0 {
			return i
		}
		return len(Categories())
	}
	slices.SortStableFunc(categories, func(a, b Category) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return cmp.Compare(a, b)
	})
}
