package main

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/cris6h16/notes-api/internal/audit"
	"github.com/cris6h16/notes-api/internal/config"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/domain/policy"
	"github.com/cris6h16/notes-api/internal/domain/sqlite"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
	"github.com/cris6h16/notes-api/internal/http/handler"
	"github.com/cris6h16/notes-api/internal/http/middleware"
	"github.com/cris6h16/notes-api/internal/service"
	"github.com/cris6h16/notes-api/internal/utils"
	"github.com/cris6h16/notes-api/internal/validators"
	"github.com/cris6h16/notes-api/pkg/logger"
)

func main() {
	// Loads from .env outside production
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	validate := validator.New()
	registerValidators(validate)

	db, err := sqlite.Init(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init database")
	}

	auditSink, err := audit.NewFileSink(cfg.AuditDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init audit sink")
	}

	// Getting repos
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)

	if err := seedAdmin(userRepo, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	// Getting services
	accessPolicy := policy.NewAccessPolicy()
	userService := service.NewUserService(userRepo, validate, accessPolicy, auditSink, log, cfg.BcryptCost)
	noteService := service.NewNoteService(noteRepo, validate, accessPolicy, auditSink, log)

	// Getting handlers
	noteRoutes := handler.NewNoteDefault(noteService)
	userRoutes := handler.NewUserDefault(userService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log, auditSink)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddleware("notes"))

	// Registration is the only unauthenticated mutation
	e.POST("/api/v1/users", userRoutes.CreateUser)

	auth := middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{UserRepo: userRepo})

	// Own account
	me := e.Group("/api/v1/users/me", auth)
	me.GET("", userRoutes.GetMe)
	me.PATCH("", userRoutes.UpdateMe)
	me.DELETE("", userRoutes.DeleteMe)

	// User administration
	admin := e.Group("/api/v1/users", auth, middleware.RequireRoles(entity.RoleAdmin))
	admin.GET("", userRoutes.GetUsers)
	admin.GET("/:id", userRoutes.GetUser)
	admin.DELETE("/:id", userRoutes.DeleteUser)

	// Notes
	notes := e.Group("/api/v1/notes", auth)
	notes.GET("", noteRoutes.GetNotes)
	notes.GET("/:id", noteRoutes.GetNote)
	notes.POST("", noteRoutes.CreateNote)
	notes.PATCH("/:id", noteRoutes.UpdateNote)
	notes.DELETE("/:id", noteRoutes.DeleteNote)

	// Observability
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

// seedAdmin creates the administrator account on first boot when the
// credentials are configured. An existing username wins; the seed never
// overwrites it.
func seedAdmin(userRepo *repository.DefaultUserRepository, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	username := strings.ToLower(strings.TrimSpace(cfg.AdminUsername))
	existing, err := userRepo.FindByUsername(username)
	if err != nil || existing != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return err
	}

	var roles []entity.Role
	for _, name := range []string{entity.RoleUser, entity.RoleAdmin} {
		role, err := userRepo.FindRoleByName(name)
		if err != nil {
			return err
		}
		if role != nil {
			roles = append(roles, *role)
		}
	}

	now := utils.NowUTC()
	return userRepo.Save(&entity.User{
		Username:     username,
		Email:        strings.ToLower(cfg.AdminEmail),
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
