package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/handlers"
	"github.com/taskdeck-dev/taskdeck/internal/logger"
	"github.com/taskdeck-dev/taskdeck/internal/middleware"
	"github.com/taskdeck-dev/taskdeck/internal/store"
	"gorm.io/gorm"
)

func New(db *gorm.DB, allowedOrigins []string) *gin.Engine {
	access := store.NewAccessEvaluator(db)
	projects := store.NewProjectStore(db, access, logger.Log)
	members := store.NewMemberStore(db, access)
	tasks := store.NewTaskStore(db, access)

	authHandler := handlers.NewAuthHandler(db)
	projectHandler := handlers.NewProjectHandler(projects)
	memberHandler := handlers.NewMemberHandler(members)
	taskHandler := handlers.NewTaskHandler(tasks)
	socketHandler := handlers.NewSocketHandler(access, allowedOrigins)

	r := gin.Default()

	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(db)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", authRequired, socketHandler.Serve)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		projectRoutes := api.Group("/projects", authRequired)
		{
			projectRoutes.POST("", projectHandler.Create)
			projectRoutes.GET("", projectHandler.List)
			projectRoutes.GET("/:project_id", projectHandler.Get)
			projectRoutes.PATCH("/:project_id", projectHandler.Update)
			projectRoutes.DELETE("/:project_id", projectHandler.Delete)

			// Roster
			projectRoutes.GET("/:project_id/members", memberHandler.List)
			projectRoutes.POST("/:project_id/members", memberHandler.Add)
			projectRoutes.DELETE("/:project_id/members/:member_id", memberHandler.Remove)

			// Tasks scoped to a project
			projectRoutes.POST("/:project_id/tasks", taskHandler.Create)
			projectRoutes.GET("/:project_id/tasks", taskHandler.List)
		}

		// Task mutation resolves the owning project from the task row,
		// so these routes take only the task id.
		taskRoutes := api.Group("/tasks", authRequired)
		{
			taskRoutes.PATCH("/:task_id", taskHandler.Update)
			taskRoutes.DELETE("/:task_id", taskHandler.Delete)
		}
	}

	return r
}
