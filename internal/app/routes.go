package app

import (
	"net/http"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, s Services) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	cookieMaxAge := int(cfg.Auth.SessionTTL.Duration().Seconds())
	browser := r.Group("",
		auth.Browser(s.Tokens, cookieMaxAge, cfg.HTTP.SecureCookies),
		handlers.Workspace(s.Registry),
	)

	pages := handlers.NewPageHandler()
	registerPageRoutes(browser, pages)

	api := browser.Group("/api/v1")
	api.GET("", rootHandler(cfg))
	registerAuthRoutes(api, handlers.NewAuthHandler(s.Tokens))
	registerNavigationRoutes(api, pages)
	api.GET("/notifications", handlers.Notifications)
	registerJobRoutes(api, handlers.NewJobHandler(s.Runner))

	protected := api.Group("", handlers.RequireUser())
	registerTaskRoutes(protected, handlers.NewTaskHandler())
	registerArticleRoutes(protected, handlers.NewArticleHandler())
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "TaskFlow API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"pages":   []string{"/", "/articles", "/news", "/profile"},
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerPageRoutes(r *gin.RouterGroup, h *handlers.PageHandler) {
	for _, path := range []string{"/", "/articles", "/news", "/profile"} {
		r.GET(path, h.Page)
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.GET("/session", h.Session)
	api.POST("/auth/signin", h.SignIn)
	api.POST("/auth/signup", h.SignUp)
	api.POST("/auth/oauth", h.OAuth)
	api.POST("/auth/signout", h.SignOut)
}

func registerNavigationRoutes(api *gin.RouterGroup, h *handlers.PageHandler) {
	api.GET("/navigation", h.Navigation)
	api.POST("/navigation", h.Navigate)
	api.POST("/navigation/back", h.Back)
	api.POST("/navigation/forward", h.Forward)
	api.POST("/forms/open", h.OpenForm)
	api.POST("/forms/close", h.CloseForm)
}

func registerJobRoutes(api *gin.RouterGroup, h *handlers.JobHandler) {
	api.POST("/jobs", h.Enqueue)
	api.GET("/jobs/:id", h.Status)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.POST("/tasks/status", h.ChangeStatuses)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.POST("/tasks/:id/status", h.ChangeStatus)
}

func registerArticleRoutes(api *gin.RouterGroup, h *handlers.ArticleHandler) {
	api.GET("/articles", h.List)
	api.POST("/articles", h.Create)
	api.PATCH("/articles/:id", h.Update)
	api.DELETE("/articles/:id", h.Delete)
	api.GET("/news", h.News)
}
