package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/five82/ladle/internal/recipes"
)

// OptionsAPI lists the values offered by the filter panel.
type OptionsAPI interface {
	MealTypes(ctx context.Context) ([]recipes.Option, error)
	Cuisines(ctx context.Context) ([]recipes.Option, error)
}

var _ OptionsAPI = (recipes.API)(nil)

// Panel holds the filter options and the current selection. At most one meal
// type and one cuisine are selected.
type Panel struct {
	MealTypes []string
	Cuisines  []string

	mealType string
	cuisine  string
}

// LoadPanel fetches both option lists concurrently. If either request fails
// the panel has no options; the failure is logged and not returned.
func LoadPanel(ctx context.Context, api OptionsAPI, logger *slog.Logger) *Panel {
	var mealTypes, cuisines []recipes.Option
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mealTypes, err = api.MealTypes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cuisines, err = api.Cuisines(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if logger != nil {
			logger.Warn("filter options unavailable", slog.String("error", err.Error()))
		}
		return &Panel{}
	}
	return &Panel{
		MealTypes: recipes.OptionValues(mealTypes),
		Cuisines:  recipes.OptionValues(cuisines),
	}
}

// MealType returns the selected meal type, or "".
func (p *Panel) MealType() string { return p.mealType }

// Cuisine returns the selected cuisine, or "".
func (p *Panel) Cuisine() string { return p.cuisine }

// SelectMealType sets the meal type; "" clears it.
func (p *Panel) SelectMealType(v string) { p.mealType = strings.TrimSpace(v) }

// SelectCuisine sets the cuisine; "" clears it.
func (p *Panel) SelectCuisine(v string) { p.cuisine = strings.TrimSpace(v) }

// ToggleMealType selects v, or clears it when v is already selected.
func (p *Panel) ToggleMealType(v string) {
	if p.mealType == v {
		p.mealType = ""
		return
	}
	p.SelectMealType(v)
}

// ToggleCuisine selects v, or clears it when v is already selected.
func (p *Panel) ToggleCuisine(v string) {
	if p.cuisine == v {
		p.cuisine = ""
		return
	}
	p.SelectCuisine(v)
}

// CanApply reports whether at least one value is selected.
func (p *Panel) CanApply() bool {
	return p.mealType != "" || p.cuisine != ""
}

// Apply returns the selected subset as a filter set.
func (p *Panel) Apply() (recipes.Filters, bool) {
	if !p.CanApply() {
		return recipes.Filters{}, false
	}
	return recipes.Filters{MealType: p.mealType, Cuisine: p.cuisine}, true
}

// Clear resets both selections. Callers follow up with Controller.ClearFilters.
func (p *Panel) Clear() {
	p.mealType = ""
	p.cuisine = ""
}

// Narrow returns the options fuzzily matching pattern, best match first. An
// empty pattern returns options unchanged.
func Narrow(options []string, pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return options
	}
	matches := fuzzy.Find(pattern, options)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
