package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Clients      *ClientHandler
	WorkItems    *WorkItemHandler
	Revisions    *RevisionHandler
	Deliverables *DeliverableHandler
	SocialPosts  *SocialPostHandler
	CallLogs     *CallLogHandler
	Statistics   *StatisticsHandler
	Exports      *ExportHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the ops endpoints on r and the API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	clients := api.Group("/clients")
	clients.GET("", h.Clients.List)
	clients.POST("", h.Clients.Create)
	clients.POST("/import", h.Clients.Import)
	clients.GET("/:id", h.Clients.Get)
	clients.PUT("/:id", h.Clients.Update)
	clients.GET("/:id/deliverables", h.Clients.Deliverables)
	clients.GET("/:id/metrics", h.Clients.Metrics)
	clients.GET("/:id/report", h.Clients.Report)

	workItems := api.Group("/work-items")
	workItems.GET("", h.WorkItems.List)
	workItems.POST("", h.WorkItems.Create)
	workItems.GET("/:id", h.WorkItems.Detail)
	workItems.PUT("/:id", h.WorkItems.Edit)
	workItems.POST("/:id/revisions", h.WorkItems.SubmitRevision)
	workItems.POST("/:id/send-to-approval", h.WorkItems.SendToApproval)
	workItems.POST("/:id/approve", h.WorkItems.Approve)
	workItems.POST("/:id/reject", h.WorkItems.Reject)
	workItems.POST("/:id/resend-to-revision", h.WorkItems.ResendToRevision)

	api.GET("/revisions", h.Revisions.List)

	deliverables := api.Group("/deliverables")
	deliverables.GET("", h.Deliverables.List)
	deliverables.POST("", h.Deliverables.Create)
	deliverables.GET("/:id", h.Deliverables.Get)
	deliverables.PUT("/:id", h.Deliverables.Update)
	deliverables.DELETE("/:id", h.Deliverables.Delete)

	posts := api.Group("/social-posts")
	posts.GET("", h.SocialPosts.List)
	posts.POST("", h.SocialPosts.Create)
	posts.GET("/:id", h.SocialPosts.Get)

	calls := api.Group("/call-logs")
	calls.GET("", h.CallLogs.List)
	calls.GET("/follow-ups", h.CallLogs.FollowUps)
	calls.POST("", h.CallLogs.Create)
	calls.GET("/:id", h.CallLogs.Get)
	calls.PUT("/:id", h.CallLogs.Update)
	calls.DELETE("/:id", h.CallLogs.Delete)

	stats := api.Group("/statistics")
	stats.GET("/dashboard", h.Statistics.Dashboard)
	stats.GET("/work-types", h.Statistics.WorkTypes)
	stats.GET("/daily", h.Statistics.Daily)
	stats.GET("/owners", h.Statistics.Owners)
	stats.GET("/deliverable-statuses", h.Statistics.DeliverableStatuses)
	stats.GET("/clients", h.Statistics.Clients)
	stats.GET("/monthly", h.Statistics.Monthly)

	exports := api.Group("/exports")
	exports.GET("/workbook", h.Exports.Workbook)
	exports.GET("/csv/:entity", h.Exports.CSV)
	exports.POST("/jobs", h.Exports.CreateJob)
	exports.GET("/jobs/:id", h.Exports.JobStatus)
	exports.GET("/download", h.Exports.Download)
}
