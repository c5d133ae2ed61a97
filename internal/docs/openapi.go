// Package docs builds the OpenAPI 3 description of the FocusFlow HTTP
// API, served by the router at /api/v1/openapi.json.
package docs

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Version is the API version advertised in the OpenAPI document
const Version = "1.0.0"

// BuildSpec assembles the OpenAPI document for the insights API
func BuildSpec(serverURL string) *openapi3.T {
	insightSchema := openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema().WithEnum("pattern", "recommendation", "warning", "achievement")).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("data", openapi3.NewObjectSchema().WithAnyAdditionalProperties()).
		WithProperty("confidence", openapi3.NewFloat64Schema().WithMin(0).WithMax(1)).
		WithProperty("actionable", openapi3.NewBoolSchema()).
		WithProperty("suggested_actions", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))

	insightList := openapi3.NewObjectSchema().
		WithProperty("user_id", openapi3.NewStringSchema()).
		WithProperty("generated_at", openapi3.NewDateTimeSchema()).
		WithProperty("insights", openapi3.NewArraySchema().WithItems(insightSchema))

	userParam := &openapi3.ParameterRef{
		Value: openapi3.NewQueryParameter("user").
			WithRequired(true).
			WithDescription("User whose activity is analyzed").
			WithSchema(openapi3.NewStringSchema()),
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "FocusFlow Insights API",
			Version:     Version,
			Description: "Deterministic productivity insights derived from tasks, goals, habits, and time entries.",
		},
		Servers: openapi3.Servers{
			&openapi3.Server{URL: serverURL},
		},
		Paths: openapi3.NewPaths(),
	}

	spec.Paths.Set("/api/v1/insights", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getInsights",
			Summary:     "Generate (or fetch cached) insights for a user",
			Parameters:  openapi3.Parameters{userParam},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().
						WithDescription("Ranked insight list, confidence descending").
						WithJSONSchema(insightList),
				}),
			),
		},
	})

	spec.Paths.Set("/api/v1/insights/refresh", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "refreshInsights",
			Summary:     "Regenerate insights, bypassing the cache",
			Parameters:  openapi3.Parameters{userParam},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().
						WithDescription("Freshly generated insight list").
						WithJSONSchema(insightList),
				}),
			),
		},
	})

	spec.Paths.Set("/api/v1/reports/daily", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getDailyReport",
			Summary:     "Daily insight report as Markdown or HTML",
			Parameters: openapi3.Parameters{
				userParam,
				&openapi3.ParameterRef{
					Value: openapi3.NewQueryParameter("format").
						WithDescription("markdown (default) or html").
						WithSchema(openapi3.NewStringSchema().WithEnum("markdown", "html")),
				},
			},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription("Rendered report"),
				}),
			),
		},
	})

	for _, kind := range []struct{ path, name string }{
		{"/api/v1/tasks", "task"},
		{"/api/v1/goals", "goal"},
		{"/api/v1/habits", "habit"},
		{"/api/v1/time-entries", "time entry"},
	} {
		spec.Paths.Set(kind.path, &openapi3.PathItem{
			Get: &openapi3.Operation{
				Summary:    "List " + kind.name + " records for a user",
				Parameters: openapi3.Parameters{userParam},
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(200, &openapi3.ResponseRef{
						Value: openapi3.NewResponse().WithDescription("Record list"),
					}),
				),
			},
			Post: &openapi3.Operation{
				Summary: "Create or update a " + kind.name,
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(201, &openapi3.ResponseRef{
						Value: openapi3.NewResponse().WithDescription("Stored record"),
					}),
				),
			},
		})
	}

	return spec
}
