// Package recipes provides an HTTP client for the recipe backend API.
//
// # Overview
//
// The client maps each backend operation to exactly one HTTP request. It
// does not retry, cache or batch. Callers decide what a failure means.
//
//   - client.go: the Client, its options and request handling
//   - types.go: Recipe, Draft, Filters and Option mirroring the JSON schema
//   - errors.go: NetworkError, HTTPError and ErrNotFound
//
// # Client Usage
//
//	client, err := recipes.NewClient("http://127.0.0.1:8000",
//		recipes.WithTimeout(5*time.Second),
//		recipes.WithUserAgent("ladle/1.0"))
//	if err != nil {
//		return err
//	}
//	list, err := client.Filter(ctx, recipes.Filters{MealType: "breakfast"})
//
// # API Endpoints
//
//   - GET    /recipes/                  list every recipe
//   - GET    /recipes/{id}              fetch one recipe
//   - POST   /recipes/                  create from a Draft
//   - PUT    /recipes/{id}              replace from a Draft
//   - DELETE /recipes/{id}              remove
//   - GET    /recipes/search/{query}    free-text search, query path-escaped
//   - GET    /recipes/filter/           meal_type and cuisine query parameters
//   - GET    /meal-types/               [{"value": ...}]
//   - GET    /cuisines/                 [{"value": ...}]
//
// The base URL may carry a path prefix ("http://host/api"); endpoint paths
// are resolved relative to it.
//
// # Errors
//
// Transport failures are returned as *NetworkError. Responses with status
// >= 400 are returned as *HTTPError holding the status, a bounded copy of the
// body and the backend's detail message. errors.Is(err, ErrNotFound) reports
// 404 responses.
//
// # Tracing
//
// Every request runs in an OpenTelemetry client span named
// "recipes.<Operation>". Without a configured provider the global no-op
// tracer is used.
//
// # Request Headers
//
// Each request carries Accept: application/json, a User-Agent, and a fresh
// X-Request-ID so backend logs can be correlated with ladle's log file.
package recipes
