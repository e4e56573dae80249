package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/config"
	"rtis.uz/deptrecords/internal/handler"
	"rtis.uz/deptrecords/internal/middleware"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/internal/service"
	"rtis.uz/deptrecords/pkg/storage"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	fileStorage := buildStorage(cfg)

	// Meilisearch is optional; without it the list endpoints fall back
	// to SQL title matching.
	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := service.NewSearchService(meiliClient)

	userRepo := repository.NewUserRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	fileRepo := repository.NewFileRepository(db)

	methodicalRepo := repository.NewWorkRepository[model.MethodicalWork](db, model.MethodicalWorkTables)
	researchRepo := repository.NewWorkRepository[model.ResearchWork](db, model.ResearchWorkTables)
	certificateRepo := repository.NewWorkRepository[model.Certificate](db, model.CertificateTables)
	softwareRepo := repository.NewWorkRepository[model.SoftwareCertificate](db, model.SoftwareCertificateTables)

	authSvc := service.NewAuthService(userRepo, fileStorage, redisClient, cfg)
	authHandler := handler.NewAuthHandler(authSvc)

	userSvc := service.NewUserService(userRepo, lookupRepo, fileStorage)
	userHandler := handler.NewUserHandler(userSvc)

	lookupSvc := service.NewLookupService(lookupRepo)
	lookupHandler := handler.NewLookupHandler(lookupSvc)

	methodicalHandler := handler.NewWorkHandler(
		service.NewMethodicalService(methodicalRepo, userRepo, lookupRepo, fileStorage, searchSvc))
	researchHandler := handler.NewWorkHandler(
		service.NewResearchService(researchRepo, userRepo, lookupRepo, fileStorage, searchSvc))
	certificateHandler := handler.NewWorkHandler(
		service.NewCertificateService(certificateRepo, userRepo, lookupRepo, fileStorage, searchSvc))
	softwareHandler := handler.NewWorkHandler(
		service.NewSoftwareCertificateService(softwareRepo, userRepo, lookupRepo, fileStorage, searchSvc))

	fileSvc := service.NewFileService(fileRepo, fileStorage, cfg.FilesAdminCanView)
	fileHandler := handler.NewFileHandler(fileSvc)

	statsSvc := service.NewStatsService(methodicalRepo, researchRepo, certificateRepo, softwareRepo)
	statsHandler := handler.NewStatsHandler(statsSvc)

	searchHandler := handler.NewSearchHandler(searchSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.Metrics())
	setupCORS(router, cfg)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Local uploads are served straight from disk; with cloudinary the
	// response URLs point at the CDN and this mount goes unused.
	router.Static("/media", cfg.MediaRoot)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.PATCH("/auth/me", authHandler.UpdateMe)
		protected.POST("/auth/me/avatar", authHandler.UpdateAvatar)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.GET("/users", userHandler.List)
		protected.GET("/users/:id", userHandler.Get)

		protected.GET("/departments", lookupHandler.ListDepartments)
		protected.GET("/positions", lookupHandler.ListPositions)

		methodicalHandler.Register(protected.Group("/methodical"))
		researchHandler.Register(protected.Group("/research"))
		certificateHandler.Register(protected.Group("/certificates"))
		softwareHandler.Register(protected.Group("/software-certificates"))

		protected.GET("/files", fileHandler.List)
		protected.POST("/files", fileHandler.Upload)
		protected.GET("/files/:id", fileHandler.Get)
		protected.DELETE("/files/:id", fileHandler.Delete)

		protected.GET("/search", searchHandler.Search)

		protected.GET("/stats/me", authMiddleware.RequireTeacherAccess(), statsHandler.Personal)

		stats := protected.Group("/stats")
		stats.GET("/admin", authMiddleware.RequireAdmin(), statsHandler.Admin)
		stats.GET("/department", authMiddleware.RequireRoles(model.RoleHOD), statsHandler.Department)

		admin := protected.Group("")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.PATCH("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.POST("/departments", lookupHandler.CreateDepartment)
			admin.POST("/positions", lookupHandler.CreatePosition)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func buildStorage(cfg *config.Config) storage.FileStorage {
	if cfg.CloudinaryCloudName != "" {
		fileStorage, err := storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
		return fileStorage
	}

	fileStorage, err := storage.NewLocalStorage(cfg.MediaRoot)
	if err != nil {
		log.Fatalf("failed to initialize local storage: %v", err)
	}
	return fileStorage
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
