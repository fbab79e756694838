package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/atelier-numerique/agency-api/internal/api"
	"github.com/atelier-numerique/agency-api/internal/api/handler"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/service"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/config"
	mongodb "github.com/atelier-numerique/agency-api/internal/infrastructure/db/mongo"
	redisdb "github.com/atelier-numerique/agency-api/internal/infrastructure/db/redis"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/mail"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/queue"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/ratelimit"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/storage"
	"github.com/atelier-numerique/agency-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "agency-api",
		Env:     cfg.Env,
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	users := mongodb.NewUserRepository(db)
	projects := mongodb.NewProjectRepository(db)
	messages := mongodb.NewContactRepository(db)
	categories := mongodb.NewCategoryRepository(db)
	blobs := mongodb.NewImageRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, projects, messages, categories, blobs); err != nil {
		return err
	}

	checks := map[string]handler.Check{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// --- Infrastructure adapters ---
	var loginLimiter ports.AttemptLimiter
	switch cfg.RateLimit.Backend {
	case "redis":
		loginLimiter = redisdb.NewAttemptLimiter(redisClient, "login", cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	default:
		loginLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	}

	var images ports.ImageStore = blobs
	if cfg.Upload.Backend == "disk" {
		disk, err := storage.NewDiskStore(cfg.Upload.Dir)
		if err != nil {
			return err
		}
		images = disk
	}

	var mailer ports.Mailer
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			Timeout:  cfg.Mail.Timeout,
		})
	} else {
		log.Warn().Msg("SMTP_HOST is empty, emails are only logged")
		mailer = mail.NewLogMailer(log)
	}

	mailCtx, stopMail := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mailer, log)
	dispatcher.Start(mailCtx)
	defer func() {
		stopMail()
		dispatcher.Wait()
	}()

	// --- Services ---
	validate := validation.New()

	authOpts := []service.AuthOption{service.WithAuthLogger(log)}
	if cfg.Auth.DenylistEnabled {
		authOpts = append(authOpts, service.WithDenylist(redisdb.NewTokenDenylist(redisClient)))
	}
	authService := service.NewAuthService(users, service.TokenConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
	}, validate, authOpts...)

	projectService := service.NewProjectService(projects, images, categories, validate, log)
	contactService := service.NewContactService(messages, dispatcher, service.ContactConfig{
		NotifyTo: cfg.Mail.NotifyTo,
		SiteName: cfg.Mail.SiteName,
	}, validate, log)
	categoryService := service.NewCategoryService(categories, projects, validate, log)
	imageService := service.NewImageService(images, projects, service.UploadLimits{
		MaxFileSize: cfg.Upload.MaxFileSize,
		MaxFiles:    cfg.Upload.MaxFiles,
	}, log)

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		CORSOrigins:   cfg.CORSOrigins,
		TrustProxy:    cfg.TrustProxy,
		HideInternal:  cfg.IsProduction(),
		CookieName:    cfg.Auth.CookieName,
		BodyLimit:     bodyLimit(cfg.Upload),
		ContactLimit:  cfg.RateLimit.ContactLimit,
		ContactWindow: cfg.RateLimit.ContactWindow,
	}, api.Deps{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Name:     cfg.Auth.CookieName,
			SameSite: sameSite(cfg.Auth.CookieSameSite),
			Secure:   cfg.IsProduction(),
		}),
		Projects:     handler.NewProjectHandler(projectService),
		Contact:      handler.NewContactHandler(contactService),
		Category:     handler.NewCategoryHandler(categoryService),
		Upload:       handler.NewUploadHandler(imageService, cfg.Upload.MaxFileSize),
		Health:       handler.NewHealthHandler("mongodb", checks),
		Verifier:     authService,
		LoginLimiter: loginLimiter,
		Validator:    validate,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).
			Str("upload_backend", cfg.Upload.Backend).
			Str("rate_limit_backend", cfg.RateLimit.Backend).
			Msg("http server listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

// bodyLimit lets a full multi-file upload through echo's BodyLimit, with
// headroom for multipart framing.
func bodyLimit(u config.UploadConfig) string {
	total := u.MaxFileSize*int64(u.MaxFiles) + 1<<20
	return fmt.Sprintf("%dK", total/1024+1)
}

func sameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
