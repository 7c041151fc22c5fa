package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	auth := middleware.AuthMiddleware(c.JWTManager)
	librarian := middleware.LibrarianOnly()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c, auth, librarian)
		setupAuthorRoutes(v1, c, auth, librarian)
		setupClientRoutes(v1, c, auth, librarian)
		setupUserRoutes(v1, c, auth, librarian)
		setupLoanRoutes(v1, c, auth, librarian)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

// Catalog reads are public, every mutation needs a librarian.
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, auth, librarian gin.HandlerFunc) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)

		books.POST("", auth, librarian, c.BookHandler.Create)
		books.PATCH("/:id", auth, librarian, c.BookHandler.Update)
		books.DELETE("/:id", auth, librarian, c.BookHandler.Delete)
		books.POST("/batch-delete", auth, librarian, c.BookHandler.BatchDelete)
		books.POST("/:id/cover", auth, librarian, c.BookHandler.UploadCover)
		books.POST("/bulk-import", auth, librarian, c.BulkImportHandler.ImportBooks)
	}
}

func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container, auth, librarian gin.HandlerFunc) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.GetAll)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.GET("/:id/books", c.AuthorHandler.GetBooks)

		authors.POST("", auth, librarian, c.AuthorHandler.Create)
		authors.PATCH("/:id", auth, librarian, c.AuthorHandler.Update)
		authors.DELETE("/:id", auth, librarian, c.AuthorHandler.Delete)
	}
}

func setupClientRoutes(v1 *gin.RouterGroup, c *container.Container, auth, librarian gin.HandlerFunc) {
	clients := v1.Group("/clients", auth, librarian)
	{
		clients.POST("", c.ClientHandler.Create)
		clients.GET("", c.ClientHandler.List)
		clients.GET("/:id", c.ClientHandler.GetByID)
		clients.PATCH("/:id", c.ClientHandler.Update)
		clients.DELETE("/:id", c.ClientHandler.Delete)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container, auth, librarian gin.HandlerFunc) {
	// Registration and login stay open on the resource path as well.
	v1.POST("/users", c.UserHandler.Register)
	v1.POST("/users/login", c.UserHandler.Login)

	users := v1.Group("/users", auth, librarian)
	{
		users.GET("", c.UserHandler.List)
		users.GET("/:id", c.UserHandler.GetByID)
		users.PATCH("/:id", c.UserHandler.Update)
		users.DELETE("/:id", c.UserHandler.Delete)
	}
}

// Loans keep the historical /sales path.
func setupLoanRoutes(v1 *gin.RouterGroup, c *container.Container, auth, librarian gin.HandlerFunc) {
	sales := v1.Group("/sales", auth, librarian)
	{
		sales.POST("", c.LoanHandler.Create)
		sales.GET("", c.LoanHandler.List)
		sales.GET("/:id", c.LoanHandler.GetByID)
		sales.PATCH("/:id/return", c.LoanHandler.MarkReturned)
		sales.DELETE("/:id", c.LoanHandler.Delete)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "healthy"
		httpStatus := http.StatusOK

		checks := gin.H{
			"database": "ok",
			"cache":    "ok",
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			checks["database"] = err.Error()
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			checks["cache"] = err.Error()
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		response.Success(ctx, httpStatus, status, gin.H{
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
