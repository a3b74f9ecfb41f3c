package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	_ "github.com/steptzi/api/docs"
	"github.com/steptzi/api/internal/adapters/handler/http"
	"github.com/steptzi/api/internal/adapters/mail"
	"github.com/steptzi/api/internal/adapters/repository/postgres"
	"github.com/steptzi/api/internal/config"
	"github.com/steptzi/api/internal/core/services"
)

// @title           Steptzi API
// @version         1.0
// @description     Blog backend with JWT authentication.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	userRepo := postgres.NewUserRepository(db)
	usedTokenRepo := postgres.NewUsedTokenRepository(db)
	tagRepo := postgres.NewTagRepository(db)
	postRepo := postgres.NewPostRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.Fatal(err)
	}

	codec := services.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.EmailTokenTTL)
	hasher := services.NewBcryptHasher()

	authService := services.NewAuthService(userRepo, usedTokenRepo, codec, hasher, mailer, logger, cfg.LinkBase())
	userService := services.NewUserService(userRepo, authService)
	tagService := services.NewTagService(tagRepo)
	postService := services.NewPostService(postRepo)
	commentService := services.NewCommentService(commentRepo, postRepo)

	handler := http.NewRouter(
		http.RouterConfig{AllowedOrigins: cfg.CORSOrigins},
		http.NewAuthMiddleware(authService),
		http.NewAuthHandler(authService),
		http.NewUserHandler(userService),
		http.NewTagHandler(tagService),
		http.NewPostHandler(postService),
		http.NewCommentHandler(commentService),
	)

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
