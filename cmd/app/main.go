package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/sbelyaev/blogsite/internal/blogservice"
	"github.com/sbelyaev/blogsite/internal/common"
	"github.com/sbelyaev/blogsite/internal/session"
	"github.com/sbelyaev/blogsite/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	renderer    Renderer
	sessions    *session.Manager
	userService *userservice.UserService
	blogService *blogservice.BlogService
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Parse the view templates
	renderer, err := newTemplateRenderer(cfg.TemplateGlob)
	if err != nil {
		logger.Error("failed to load templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		renderer:    renderer,
		sessions:    session.NewManager([]byte(cfg.SessionSecret), 30*24*time.Hour, cfg.Environment == "production"),
		userService: userservice.NewUserService(db),
		blogService: blogservice.NewBlogService(db, cache),
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
