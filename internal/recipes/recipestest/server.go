// Package recipestest provides an in-memory recipe backend for tests.
package recipestest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/five82/ladle/internal/recipes"
)

// Request records one call received by the fake backend.
type Request struct {
	Method    string
	Path      string
	RawPath   string
	Query     string
	RequestID string
	UserAgent string
}

// Server is a gin-backed fake of the recipe REST API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int64
	recipes  []recipes.Recipe
	failures map[string]int
	requests []Request
}

// NewServer starts a fake backend seeded with the given recipes.
// Callers must Close it.
func NewServer(seed ...recipes.Recipe) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{failures: make(map[string]int)}
	for _, r := range seed {
		s.recipes = append(s.recipes, r)
		if r.ID > s.nextID {
			s.nextID = r.ID
		}
	}

	router := gin.New()
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(s.record, s.injectFailure)

	router.GET("/recipes/", s.list)
	router.POST("/recipes/", s.create)
	router.GET("/recipes/search/:query", s.search)
	router.GET("/recipes/filter/", s.filter)
	router.GET("/recipes/:id", s.get)
	router.PUT("/recipes/:id", s.update)
	router.DELETE("/recipes/:id", s.remove)
	router.GET("/meal-types/", s.options(func(r recipes.Recipe) string { return r.MealType }))
	router.GET("/cuisines/", s.options(func(r recipes.Recipe) string { return r.Cuisine }))

	s.Server = httptest.NewServer(router)
	return s
}

// Fail makes every request matching route answer with status until Heal is
// called. Route is "METHOD /gin/path", e.g. "GET /recipes/search/:query".
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Heal clears all injected failures.
func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
}

// Recipes returns a copy of the stored recipes in insertion order.
func (s *Server) Recipes() []recipes.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recipes.Recipe(nil), s.recipes...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		RawPath:   c.Request.URL.EscapedPath(),
		Query:     c.Request.URL.RawQuery,
		RequestID: c.GetHeader("X-Request-ID"),
		UserAgent: c.GetHeader("User-Agent"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	s.mu.Lock()
	status, ok := s.failures[c.Request.Method+" "+c.FullPath()]
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"detail": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	c.JSON(http.StatusOK, s.Recipes())
}

func (s *Server) get(c *gin.Context) {
	idx, ok := s.lookup(c)
	if !ok {
		return
	}
	s.mu.Lock()
	r := s.recipes[idx]
	s.mu.Unlock()
	c.JSON(http.StatusOK, r)
}

func (s *Server) create(c *gin.Context) {
	var draft recipes.Draft
	if !bindDraft(c, &draft) {
		return
	}
	s.mu.Lock()
	s.nextID++
	r := fromDraft(s.nextID, draft)
	s.recipes = append(s.recipes, r)
	s.mu.Unlock()
	c.JSON(http.StatusOK, r)
}

func (s *Server) update(c *gin.Context) {
	idx, ok := s.lookup(c)
	if !ok {
		return
	}
	var draft recipes.Draft
	if !bindDraft(c, &draft) {
		return
	}
	s.mu.Lock()
	r := fromDraft(s.recipes[idx].ID, draft)
	r.Extra = s.recipes[idx].Extra
	s.recipes[idx] = r
	s.mu.Unlock()
	c.JSON(http.StatusOK, r)
}

func (s *Server) remove(c *gin.Context) {
	idx, ok := s.lookup(c)
	if !ok {
		return
	}
	s.mu.Lock()
	s.recipes = append(s.recipes[:idx], s.recipes[idx+1:]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// search matches title, cuisine, meal type and ingredients case-insensitively.
func (s *Server) search(c *gin.Context) {
	needle := strings.ToLower(c.Param("query"))
	out := []recipes.Recipe{}
	for _, r := range s.Recipes() {
		for _, field := range []string{r.Title, r.Cuisine, r.MealType, r.Ingredients} {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, r)
				break
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

// filter matches meal type and cuisine exactly; absent keys match anything.
func (s *Server) filter(c *gin.Context) {
	mealType, hasMeal := c.GetQuery("meal_type")
	cuisine, hasCuisine := c.GetQuery("cuisine")
	out := []recipes.Recipe{}
	for _, r := range s.Recipes() {
		if hasMeal && r.MealType != mealType {
			continue
		}
		if hasCuisine && r.Cuisine != cuisine {
			continue
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) options(field func(recipes.Recipe) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		seen := map[string]struct{}{}
		var values []string
		for _, r := range s.Recipes() {
			v := field(r)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		out := make([]recipes.Option, 0, len(values))
		for _, v := range values {
			out = append(out, recipes.Option{Value: v})
		}
		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) lookup(c *gin.Context) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{
			"loc":  []string{"path", "recipe_id"},
			"msg":  "Input should be a valid integer",
			"type": "int_parsing",
		}}})
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recipes {
		if r.ID == id {
			return i, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
	return 0, false
}

func bindDraft(c *gin.Context, draft *recipes.Draft) bool {
	if err := c.ShouldBindJSON(draft); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return false
	}
	if strings.TrimSpace(draft.Title) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{
			"loc":  []string{"body", "title"},
			"msg":  "Field required",
			"type": "missing",
		}}})
		return false
	}
	return true
}

func fromDraft(id int64, d recipes.Draft) recipes.Recipe {
	return recipes.Recipe{
		ID:           id,
		Title:        d.Title,
		Ingredients:  d.Ingredients,
		Instructions: d.Instructions,
		MealType:     d.MealType,
		Cuisine:      d.Cuisine,
	}
}
