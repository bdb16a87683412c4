package recipes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Draft is the editable recipe payload submitted on create and update.
type Draft struct {
	Title        string `json:"title" yaml:"title"`
	Ingredients  string `json:"ingredients" yaml:"ingredients"`
	Instructions string `json:"instructions" yaml:"instructions"`
	MealType     string `json:"meal_type,omitempty" yaml:"meal_type,omitempty"`
	Cuisine      string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
}

// Recipe mirrors the payload returned by the /recipes endpoints.
//
// Fields the client does not model (owner_id, tags, ...) are kept in Extra
// and written back unchanged by MarshalJSON.
type Recipe struct {
	ID           int64  `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Ingredients  string `json:"ingredients" yaml:"ingredients"`
	Instructions string `json:"instructions" yaml:"instructions"`
	MealType     string `json:"meal_type" yaml:"meal_type"`
	Cuisine      string `json:"cuisine" yaml:"cuisine"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// knownFields lists the JSON keys decoded into Recipe's typed fields.
var knownFields = map[string]struct{}{
	"id":           {},
	"title":        {},
	"ingredients":  {},
	"instructions": {},
	"meal_type":    {},
	"cuisine":      {},
}

type recipeFields struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Ingredients  string  `json:"ingredients"`
	Instructions string  `json:"instructions"`
	MealType     *string `json:"meal_type"`
	Cuisine      *string `json:"cuisine"`
}

// UnmarshalJSON decodes the typed fields and keeps everything else in Extra.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var fields recipeFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Recipe{
		ID:           fields.ID,
		Title:        fields.Title,
		Ingredients:  fields.Ingredients,
		Instructions: fields.Instructions,
	}
	if fields.MealType != nil {
		r.MealType = *fields.MealType
	}
	if fields.Cuisine != nil {
		r.Cuisine = *fields.Cuisine
	}
	for key, value := range raw {
		if _, ok := knownFields[key]; ok {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[key] = value
	}
	return nil
}

// MarshalJSON writes the typed fields followed by the opaque Extra payload.
func (r Recipe) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(knownFields)+len(r.Extra))
	for key, value := range r.Extra {
		out[key] = value
	}
	typed := map[string]any{
		"id":           r.ID,
		"title":        r.Title,
		"ingredients":  r.Ingredients,
		"instructions": r.Instructions,
		"meal_type":    nullable(r.MealType),
		"cuisine":      nullable(r.Cuisine),
	}
	for key, value := range typed {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		out[key] = encoded
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// Draft returns the editable subset of the recipe.
func (r Recipe) Draft() Draft {
	return Draft{
		Title:        r.Title,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		MealType:     r.MealType,
		Cuisine:      r.Cuisine,
	}
}

// DisplayTitle returns the title, falling back to the id for untitled recipes.
func (r Recipe) DisplayTitle() string {
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	return fmt.Sprintf("Recipe #%d", r.ID)
}

// IngredientList splits the ingredients text into one entry per line or comma.
func (r Recipe) IngredientList() []string {
	text := strings.TrimSpace(r.Ingredients)
	if text == "" {
		return nil
	}
	sep := "\n"
	if !strings.Contains(text, "\n") {
		sep = ","
	}
	var out []string
	for _, part := range strings.Split(text, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Filters is the optional meal-type/cuisine combination used to narrow the list.
// Both fields empty means no filter.
type Filters struct {
	MealType string `json:"meal_type,omitempty" yaml:"meal_type,omitempty"`
	Cuisine  string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
}

// IsEmpty reports whether no filter key is set.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.MealType) == "" && strings.TrimSpace(f.Cuisine) == ""
}

// Values encodes the non-empty keys as query parameters.
func (f Filters) Values() url.Values {
	values := url.Values{}
	if mealType := strings.TrimSpace(f.MealType); mealType != "" {
		values.Set("meal_type", mealType)
	}
	if cuisine := strings.TrimSpace(f.Cuisine); cuisine != "" {
		values.Set("cuisine", cuisine)
	}
	return values
}

// String renders the filters as "meal_type=x cuisine=y".
func (f Filters) String() string {
	var parts []string
	if f.MealType != "" {
		parts = append(parts, "meal_type="+f.MealType)
	}
	if f.Cuisine != "" {
		parts = append(parts, "cuisine="+f.Cuisine)
	}
	return strings.Join(parts, " ")
}

// Option is one entry of the /meal-types/ and /cuisines/ listings.
type Option struct {
	Value string `json:"value" yaml:"value"`
}

// OptionValues flattens options into their non-blank values.
func OptionValues(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if v := strings.TrimSpace(opt.Value); v != "" {
			out = append(out, v)
		}
	}
	return out
}
