package router

import (
	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "workshop-management-service",
		})
	})

	// Public progress check, outside the versioned API group
	progressHandler := handler.NewProgressHandler(db)
	r.POST("/progress/check", progressHandler.Check)

	v1 := r.Group("/api/v1")
	{
		projectHandler := handler.NewProjectHandler(db, cfg.Upload)
		taskHandler := handler.NewTaskHandler(db, cfg.Upload)
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)
			projects.POST("/:id/photos", projectHandler.UploadPhotos)

			projects.POST("/:id/tasks", taskHandler.CreateTask)
			projects.GET("/:id/tasks", taskHandler.GetTasks)
			projects.POST("/:id/tasks/bulk", taskHandler.BulkUpdate)
			projects.POST("/:id/recalculate", taskHandler.Recalculate)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/start", taskHandler.StartTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/progress", taskHandler.UpdateProgress)
			tasks.POST("/:id/quality-check", taskHandler.QualityCheck)
			tasks.POST("/:id/photos", taskHandler.UploadPhotos)
		}

		userHandler := handler.NewUserHandler(db)
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		reportHandler := handler.NewReportHandler(db)
		reports := v1.Group("/reports")
		{
			reports.GET("/chart-data", reportHandler.ChartData)
			reports.GET("/export/excel", reportHandler.ExportExcel)
			reports.GET("/export/pdf", reportHandler.ExportPDF)
		}
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
