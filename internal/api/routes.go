package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/tasks").
			To(handler.Tasks).
			Doc("List grading tasks and the judge panel").
			Metadata(restfulspec.KeyOpenAPITags, []string{"grade"}).
			Writes(TasksResponse{}).
			Returns(200, "OK", TasksResponse{}))

	ws.
		Route(ws.POST("/grade").
			To(handler.Grade).
			Doc("Grade a candidate output on every requested task").
			Metadata(restfulspec.KeyOpenAPITags, []string{"grade"}).
			Reads(models.GradeRequest{}).
			Writes(models.ItemResult{}).
			Returns(200, "OK", models.ItemResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Task Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/grade/{task}").
			To(handler.GradeTask).
			Doc("Grade a candidate output on a single task").
			Metadata(restfulspec.KeyOpenAPITags, []string{"grade"}).
			Param(ws.PathParameter("task", "Task name (direction_of_effect, numbers_accurate, completeness)").DataType("string")).
			Reads(models.GradeRequest{}).
			Writes(models.ItemResult{}).
			Returns(200, "OK", models.ItemResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Task Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterMetrics exposes the Prometheus registry at /metrics.
func RegisterMetrics(container *restful.Container) {
	container.Handle("/metrics", promhttp.Handler())
}
