package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"homelibrary-backend/internal/config"
	infraCache "homelibrary-backend/internal/infrastructure/cache"
	"homelibrary-backend/internal/infrastructure/database"
	"homelibrary-backend/internal/infrastructure/events"
	"homelibrary-backend/internal/infrastructure/storage"
	"homelibrary-backend/pkg/cache"
	"homelibrary-backend/pkg/jwt"
	"homelibrary-backend/pkg/waiter"

	authorHandler "homelibrary-backend/internal/domains/author/handler"
	authorRepo "homelibrary-backend/internal/domains/author/repository"
	authorService "homelibrary-backend/internal/domains/author/service"
	bookHandler "homelibrary-backend/internal/domains/book/handler"
	bookRepo "homelibrary-backend/internal/domains/book/repository"
	bookService "homelibrary-backend/internal/domains/book/service"
	downloadHandler "homelibrary-backend/internal/domains/download/handler"
	downloadRegistry "homelibrary-backend/internal/domains/download/registry"
	downloadService "homelibrary-backend/internal/domains/download/service"
	"homelibrary-backend/internal/domains/feed"
	feedHandler "homelibrary-backend/internal/domains/feed/handler"
	userHandler "homelibrary-backend/internal/domains/user/handler"
	userRepo "homelibrary-backend/internal/domains/user/repository"
	userService "homelibrary-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Lifecycle: Singleton (1 instance duy nhất trong app lifetime)

	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	Bus         *events.Bus
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	Waiters     *waiter.Registry

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	BookRepo         bookRepo.RepositoryInterface
	AuthorRepo       authorRepo.RepositoryInterface
	UserRepo         userRepo.RepositoryInterface
	TransferRegistry *downloadRegistry.Registry

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	BookService     bookService.ServiceInterface
	AuthorService   authorService.ServiceInterface
	UserService     userService.ServiceInterface
	DownloadService downloadService.ServiceInterface

	// Feed components (in-process, fed by the catalog bus)
	FeedReconciler *feed.Reconciler
	FeedSubscriber *feed.Subscriber
	FeedWatcher    *feed.Watcher

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	BookHandler     *bookHandler.BookHandler
	AuthorHandler   *authorHandler.AuthorHandler
	UserHandler     *userHandler.UserHandler
	DownloadHandler *downloadHandler.DownloadHandler
	FeedHandler     *feedHandler.FeedHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Redis, MinIO, bus, asynq) - phụ thuộc Config
// 3. Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

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
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE REDIS
	// ========================================
	// Redis là hard dependency ở đây: cache, transfer registry, event bus
	// và asynq đều chạy trên nó.
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = redisCache
	log.Println("✅ Redis connected")

	c.Bus = events.NewBus(redisCache.Client())

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE
	// ========================================
	log.Println("📦 Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ MinIO connected")

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	c.Waiters = waiter.NewRegistry()

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool, c.Cache)
	c.UserRepo = userRepo.NewPostgresRepository(pool)

	redisClient := c.Cache.(*infraCache.RedisCache).Client()
	transferTTL := time.Duration(c.Config.Library.TransferTTL) * time.Hour
	c.TransferRegistry = downloadRegistry.NewRegistry(redisClient, transferTTL)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewService(c.AuthorRepo)
	c.BookService = bookService.NewService(c.BookRepo, c.AuthorService, c.Storage, c.Bus)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	c.DownloadService = downloadService.NewDownloadService(
		c.BookRepo,
		c.UserService,
		c.TransferRegistry,
		c.AsynqClient,
		c.Waiters,
		c.Bus,
		c.Config.Library.Dir,
	)

	c.FeedReconciler = feed.NewReconciler()
	c.FeedWatcher = feed.NewWatcher()
	c.FeedSubscriber = feed.NewSubscriber(c.Bus, c.FeedReconciler, c.FeedWatcher)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.DownloadHandler = downloadHandler.NewDownloadHandler(c.DownloadService)
	c.FeedHandler = feedHandler.NewFeedHandler(c.FeedReconciler, c.FeedSubscriber, c.FeedWatcher)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup đóng các connections theo thứ tự ngược với khởi tạo.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Error closing asynq client: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok && rc != nil {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Error closing redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Cleanup complete")
}
