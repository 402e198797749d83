package container

import (
	"fmt"

	"github.com/campuslink24/campuslink-backend/internal/config"
	"github.com/campuslink24/campuslink-backend/internal/delivery/http"
	"github.com/campuslink24/campuslink-backend/internal/delivery/http/handler"
	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/infrastructure/database"
	"github.com/campuslink24/campuslink-backend/internal/infrastructure/gemini"
	"github.com/campuslink24/campuslink-backend/internal/infrastructure/server"
	corepersonality "github.com/campuslink24/campuslink-backend/internal/personality"
	"github.com/campuslink24/campuslink-backend/internal/repository/postgres"
	redisrepo "github.com/campuslink24/campuslink-backend/internal/repository/redis"
	"github.com/campuslink24/campuslink-backend/internal/usecase/auth"
	"github.com/campuslink24/campuslink-backend/internal/usecase/compat"
	"github.com/campuslink24/campuslink-backend/internal/usecase/connection"
	"github.com/campuslink24/campuslink-backend/internal/usecase/nearby"
	"github.com/campuslink24/campuslink-backend/internal/usecase/personality"
	"github.com/campuslink24/campuslink-backend/internal/usecase/profile"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg.Logging)

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis (refresh session store)
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize Gemini client; AI features are optional
	geminiClient, err := gemini.NewClient(cfg.GeminiAPIKey)
	if err != nil {
		logger.WithError(err).Warn("gemini client unavailable, continuing without AI features")
		geminiClient = nil
	}

	// Load the questionnaire definition once at startup
	definitions, err := corepersonality.LoadDefinitions(cfg.QuestionnairePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire definition: %w", err)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	referenceRepo := postgres.NewReferenceRepository(db)
	questionRepo := postgres.NewQuestionRepository(db)
	answerRepo := postgres.NewAnswerRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	connectionRepo := postgres.NewConnectionRepository(db)
	sessionRepo := redisrepo.NewSessionRepository(redisClient)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		cfg.JWT,
	)

	profileUseCase := profile.NewProfileUseCase(
		userRepo,
		profileRepo,
		referenceRepo,
		questionRepo,
		answerRepo,
	)

	personalityUseCase := personality.NewPersonalityUseCase(
		questionRepo,
		answerRepo,
		profileRepo,
		definitions,
	)

	scorer := compat.NewScorer(
		answerRepo,
		questionRepo,
		profileRepo,
		cfg.Matching.RecommendThreshold,
	)

	finder := nearby.NewFinder(locationRepo, cfg.Matching.NearbyRadiusKm)

	connectionManager := connection.NewManager(
		connectionRepo,
		locationRepo,
		profileRepo,
		finder,
		scorer,
		geminiClient,
		logger,
		cfg.Matching,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase, authUseCase)
	personalityHandler := handler.NewPersonalityHandler(personalityUseCase)
	compatHandler := handler.NewCompatHandler(scorer)
	locationHandler := handler.NewLocationHandler(connectionManager)
	connectionHandler := handler.NewConnectionHandler(connectionManager)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		personalityHandler,
		compatHandler,
		locationHandler,
		connectionHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
	}, nil
}

// Close releases held resources
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return err
		}
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
