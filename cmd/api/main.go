package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-api/internal/appointment"
	"github.com/harentsoaR/clinic-api/internal/config"
	"github.com/harentsoaR/clinic-api/internal/handlers"
	"github.com/harentsoaR/clinic-api/internal/middleware"
	"github.com/harentsoaR/clinic-api/internal/redislock"
	"github.com/harentsoaR/clinic-api/internal/resolver"
	"github.com/harentsoaR/clinic-api/internal/services"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	// --- Redis (slot locks) ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// --- Repository, indexes ---
	repo := appointment.NewMongoRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create appointment indexes")
	}
	if err := ensureAuthIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create auth indexes")
	}

	// --- Services ---
	dir := resolver.NewMongoDirectory(db)
	res := resolver.New(dir)
	locker := redislock.NewRedisSlotLocker(rdb, cfg.LockTTL)
	notificationSvc := services.NewNotificationService(log)
	appointmentSvc := appointment.NewService(repo, res, locker, notificationSvc, log)

	h := handlers.NewHandler(db, appointmentSvc, log)

	// --- Gin router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware())
	{
		apiRoutes.GET("/me", h.GetCurrentUser)
		apiRoutes.PUT("/me", h.UpdateCurrentUser)

		// Staff/admin channel
		staffRoutes := apiRoutes.Group("/appointments")
		staffRoutes.Use(middleware.RequireRole("staff", "admin"))
		{
			staffRoutes.POST("", middleware.RequirePermission("appointments", "create"), h.CreateAppointment)
			staffRoutes.GET("", middleware.RequirePermission("appointments", "read"), h.GetAppointments)
			staffRoutes.GET("/:id", middleware.RequirePermission("appointments", "read"), h.GetAppointment)
			staffRoutes.PUT("/:id", middleware.RequirePermission("appointments", "update"), h.UpdateAppointment)
			staffRoutes.PATCH("/:id/status", middleware.RequirePermission("appointments", "status"), h.UpdateAppointmentStatus)
			staffRoutes.DELETE("/:id", middleware.RequirePermission("appointments", "delete"), h.DeleteAppointment)
		}

		// Patient channel (ownership-scoped in the service)
		myRoutes := apiRoutes.Group("/my/appointments")
		myRoutes.Use(middleware.RequireRole("patient"))
		{
			myRoutes.POST("", middleware.RequirePermission("appointments", "create"), h.CreateMyAppointment)
			myRoutes.GET("", middleware.RequirePermission("appointments", "read"), h.GetMyAppointments)
			myRoutes.GET("/:id", middleware.RequirePermission("appointments", "read"), h.GetMyAppointment)
			myRoutes.PUT("/:id", middleware.RequirePermission("appointments", "update"), h.UpdateMyAppointment)
			myRoutes.PATCH("/:id/cancel", middleware.RequirePermission("appointments", "cancel"), h.CancelMyAppointment)
		}
	}

	log.Info().Str("port", cfg.APIPort).Msg("starting server")
	if err := r.Run(":" + cfg.APIPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func ensureAuthIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("patients").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	return err
}
