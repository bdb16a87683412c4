package state

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/five82/ladle/internal/recipes"
)

// RecipeAPI is the subset of the backend used by the controller.
type RecipeAPI interface {
	ListAll(ctx context.Context) ([]recipes.Recipe, error)
	Create(ctx context.Context, draft recipes.Draft) (recipes.Recipe, error)
	Update(ctx context.Context, id int64, draft recipes.Draft) (recipes.Recipe, error)
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]recipes.Recipe, error)
	Filter(ctx context.Context, filters recipes.Filters) ([]recipes.Recipe, error)
}

var _ RecipeAPI = (recipes.API)(nil)

// Action identifies a controller operation for error reporting.
type Action string

const (
	ActionFetch  Action = "fetch"
	ActionSearch Action = "search"
	ActionFilter Action = "filter"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Message is the user-facing text shown when the action fails.
func (a Action) Message() string {
	switch a {
	case ActionFetch:
		return "Failed to fetch recipes. Make sure the backend server is running."
	case ActionSearch:
		return "Failed to search recipes"
	case ActionFilter:
		return "Failed to filter recipes"
	case ActionCreate:
		return "Failed to create recipe"
	case ActionUpdate:
		return "Failed to update recipe"
	case ActionDelete:
		return "Failed to delete recipe"
	default:
		return "Request failed"
	}
}

// FormState tracks the create/edit form. Editing is nil for a new recipe.
type FormState struct {
	Open    bool
	Editing *recipes.Recipe
}

// Snapshot represents the latest view state available to the UI.
type Snapshot struct {
	Recipes     []recipes.Recipe
	Mode        Mode
	Loading     bool
	Error       string
	Cause       error
	Form        FormState
	Detail      *recipes.Recipe
	LastUpdated time.Time
}

// Controller owns the recipe collection and display mode. Transitions may be
// called from any goroutine; the API call runs outside the lock and its
// result is applied atomically.
type Controller struct {
	api    RecipeAPI
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	inflight int
}

// NewController builds a controller with an empty collection in unfiltered
// mode. A nil logger discards output.
func NewController(api RecipeAPI, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		api:      api,
		logger:   logger,
		snapshot: Snapshot{Recipes: []recipes.Recipe{}, Mode: Unfiltered()},
	}
}

// Snapshot returns a deep copy of the current state. Cause is shared; errors
// are treated as immutable.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.snapshot
	snap.Recipes = cloneRecipes(c.snapshot.Recipes)
	snap.Loading = c.inflight > 0
	snap.Detail = cloneRecipePtr(c.snapshot.Detail)
	snap.Form.Editing = cloneRecipePtr(c.snapshot.Form.Editing)
	return snap
}

// Load fetches every recipe and switches to unfiltered mode.
func (c *Controller) Load(ctx context.Context) error {
	return c.replace(ctx, ActionFetch, Unfiltered(), func(ctx context.Context) ([]recipes.Recipe, error) {
		return c.api.ListAll(ctx)
	})
}

// Search runs a free-text search. A blank query reverts instead.
func (c *Controller) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return c.Revert(ctx)
	}
	return c.replace(ctx, ActionSearch, Searched(query), func(ctx context.Context) ([]recipes.Recipe, error) {
		return c.api.Search(ctx, query)
	})
}

// Revert leaves search: back to the active filter set if there is one,
// otherwise to the full list.
func (c *Controller) Revert(ctx context.Context) error {
	mode := c.mode()
	if mode.Kind() == ModeFiltered {
		return c.Filter(ctx, mode.Filters())
	}
	return c.Load(ctx)
}

// Filter narrows the list by meal type and cuisine. An empty set loads the
// full list.
func (c *Controller) Filter(ctx context.Context, filters recipes.Filters) error {
	if filters.IsEmpty() {
		return c.Load(ctx)
	}
	return c.replace(ctx, ActionFilter, Filtered(filters), func(ctx context.Context) ([]recipes.Recipe, error) {
		return c.api.Filter(ctx, filters)
	})
}

// ClearFilters drops the filter set immediately, then reloads.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.snapshot.Mode = Unfiltered()
	c.mu.Unlock()
	return c.Load(ctx)
}

// Reapply re-runs the query that produced the current mode.
func (c *Controller) Reapply(ctx context.Context) error {
	mode := c.mode()
	switch mode.Kind() {
	case ModeSearched:
		return c.Search(ctx, mode.Query())
	case ModeFiltered:
		return c.Filter(ctx, mode.Filters())
	default:
		return c.Load(ctx)
	}
}

// Create submits a draft and prepends the stored recipe to the current
// collection without re-querying.
func (c *Controller) Create(ctx context.Context, draft recipes.Draft) error {
	created, err := c.api.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked(ActionCreate, err)
		return err
	}
	c.snapshot.Recipes = append([]recipes.Recipe{created}, c.snapshot.Recipes...)
	c.snapshot.Form = FormState{}
	c.succeedLocked()
	c.logger.Info("recipe created", slog.Int64("id", created.ID))
	return nil
}

// Update replaces the recipe with the given id in place and closes the form
// and detail view.
func (c *Controller) Update(ctx context.Context, id int64, draft recipes.Draft) error {
	updated, err := c.api.Update(ctx, id, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked(ActionUpdate, err)
		return err
	}
	for i := range c.snapshot.Recipes {
		if c.snapshot.Recipes[i].ID == id {
			c.snapshot.Recipes[i] = updated
		}
	}
	c.snapshot.Form = FormState{}
	c.snapshot.Detail = nil
	c.succeedLocked()
	c.logger.Info("recipe updated", slog.Int64("id", id))
	return nil
}

// Delete removes the recipe after confirm returns true. A nil confirm or a
// denial leaves everything untouched.
func (c *Controller) Delete(ctx context.Context, id int64, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}
	err := c.api.Remove(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked(ActionDelete, err)
		return err
	}
	kept := c.snapshot.Recipes[:0:0]
	for _, r := range c.snapshot.Recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	c.snapshot.Recipes = kept
	if c.snapshot.Detail != nil && c.snapshot.Detail.ID == id {
		c.snapshot.Detail = nil
	}
	c.succeedLocked()
	c.logger.Info("recipe deleted", slog.Int64("id", id))
	return nil
}

// OpenCreateForm opens an empty form.
func (c *Controller) OpenCreateForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Form = FormState{Open: true}
}

// OpenEditForm opens the form pre-filled from r and closes the detail view.
func (c *Controller) OpenEditForm(r recipes.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Form = FormState{Open: true, Editing: &r}
	c.snapshot.Detail = nil
}

// CloseForm discards the form.
func (c *Controller) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Form = FormState{}
}

// ShowDetail selects r for the detail view.
func (c *Controller) ShowDetail(r recipes.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Detail = &r
}

// CloseDetail clears the detail view.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Detail = nil
}

func (c *Controller) mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.Mode
}

// replace runs a list-replacing fetch with the loading indicator raised.
func (c *Controller) replace(ctx context.Context, action Action, mode Mode, fetch func(context.Context) ([]recipes.Recipe, error)) error {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()

	list, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err != nil {
		c.failLocked(action, err)
		return err
	}
	c.snapshot.Recipes = cloneRecipes(list)
	c.snapshot.Mode = mode
	c.succeedLocked()
	c.logger.Debug("recipes replaced",
		slog.String("action", string(action)),
		slog.String("mode", mode.Kind().String()),
		slog.Int("count", len(list)),
	)
	return nil
}

func (c *Controller) succeedLocked() {
	c.snapshot.Error = ""
	c.snapshot.Cause = nil
	c.snapshot.LastUpdated = time.Now()
}

func (c *Controller) failLocked(action Action, err error) {
	c.snapshot.Error = action.Message()
	c.snapshot.Cause = err
	c.snapshot.LastUpdated = time.Now()

	attrs := []any{
		slog.String("action", string(action)),
		slog.String("error", err.Error()),
	}
	if status := recipes.StatusCode(err); status > 0 {
		attrs = append(attrs, slog.Int("status", status))
	}
	c.logger.Error("recipe action failed", attrs...)
}

func cloneRecipes(list []recipes.Recipe) []recipes.Recipe {
	dup := make([]recipes.Recipe, len(list))
	for i, r := range list {
		dup[i] = cloneRecipe(r)
	}
	return dup
}

func cloneRecipePtr(r *recipes.Recipe) *recipes.Recipe {
	if r == nil {
		return nil
	}
	dup := cloneRecipe(*r)
	return &dup
}

// cloneRecipe copies r including its opaque extra fields.
func cloneRecipe(r recipes.Recipe) recipes.Recipe {
	if r.Extra == nil {
		return r
	}
	extra := make(map[string]json.RawMessage, len(r.Extra))
	for k, v := range r.Extra {
		extra[k] = slices.Clone(v)
	}
	r.Extra = extra
	return r
}
