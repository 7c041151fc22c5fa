package container

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/config"
	infracache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"

	authorHandler "library-backend/internal/domains/author/handler"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"
	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	clientHandler "library-backend/internal/domains/client/handler"
	clientRepo "library-backend/internal/domains/client/repository"
	clientService "library-backend/internal/domains/client/service"
	loanHandler "library-backend/internal/domains/loan/handler"
	loanRepo "library-backend/internal/domains/loan/repository"
	loanService "library-backend/internal/domains/loan/service"
	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order: config, then
// infrastructure, then repositories, services and handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infracache.RedisClient
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	AuthorRepo authorRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface
	ClientRepo clientRepo.RepositoryInterface
	LoanRepo   loanRepo.RepositoryInterface
	UserRepo   userRepo.RepositoryInterface

	AuthorService     authorService.ServiceInterface
	BookService       bookService.ServiceInterface
	BulkImportService bookService.BulkImportServiceInterface
	ClientService     clientService.ServiceInterface
	LoanService       loanService.ServiceInterface
	UserService       userService.ServiceInterface

	AuthorHandler     *authorHandler.AuthorHandler
	BookHandler       *bookHandler.Handler
	BulkImportHandler *bookHandler.BulkImportHandler
	ClientHandler     *clientHandler.Handler
	LoanHandler       *loanHandler.Handler
	UserHandler       *userHandler.Handler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	redisClient := infracache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient
	c.Cache = infracache.NewRedisCache(redisClient)

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = minioStorage

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Repositories.
	c.AuthorRepo = authorRepo.NewPostgresRepository(db.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.ClientRepo = clientRepo.NewPostgresRepository(db.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.LoanRepo = loanRepo.NewPostgresRepository(db.Pool, c.Cache)

	// Services.
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.Storage)
	c.BulkImportService = bookService.NewBulkImportService(db.Pool, c.BookRepo)
	c.ClientService = clientService.NewClientService(c.ClientRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.LoanService = loanService.NewLoanService(c.LoanRepo, c.ClientRepo, c.UserRepo, cfg.Loan.PeriodDays)

	// Handlers.
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.BulkImportHandler = bookHandler.NewBulkImportHandler(c.BulkImportService)
	c.ClientHandler = clientHandler.NewHandler(c.ClientService)
	c.UserHandler = userHandler.NewHandler(c.UserService)
	c.LoanHandler = loanHandler.NewHandler(c.LoanService)

	logger.Info("dependency container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

// Cleanup releases infrastructure connections. Safe to call on a
// partially built container.
func (c *Container) Cleanup() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis connection", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
