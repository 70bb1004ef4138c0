package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kana-2024/influmojo-backend/internal/config"
	"github.com/kana-2024/influmojo-backend/internal/infra/httpclient"
	s3infra "github.com/kana-2024/influmojo-backend/internal/infra/s3"
	"github.com/kana-2024/influmojo-backend/internal/infra/smsverify"
	pgrepo "github.com/kana-2024/influmojo-backend/internal/repo/postgres"
	redrepo "github.com/kana-2024/influmojo-backend/internal/repo/redis"
	authsvc "github.com/kana-2024/influmojo-backend/internal/services/auth"
	creatorssvc "github.com/kana-2024/influmojo-backend/internal/services/creators"
	mediasvc "github.com/kana-2024/influmojo-backend/internal/services/media"
	verificationsvc "github.com/kana-2024/influmojo-backend/internal/services/verification"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	attemptRepo := redrepo.NewAttemptRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	verificationRepo := pgrepo.NewVerificationRepo(pool)
	profileRepo := pgrepo.NewCreatorProfileRepo(pool)
	packageRepo := pgrepo.NewPackageRepo(pool)
	portfolioRepo := pgrepo.NewPortfolioRepo(pool)
	kycRepo := pgrepo.NewKYCRepo(pool)

	externalHTTP := httpclient.New(0)
	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	googleVerifier := authsvc.NewGoogleVerifier(cfg.Google.ClientID, externalHTTP)
	authService := authsvc.NewService(jwtManager, userRepo, googleVerifier)

	var provider verificationsvc.Provider
	if cfg.SMS.Configured() {
		client, err := smsverify.NewClient(smsverify.Config{
			AccountID:  cfg.SMS.AccountID,
			AuthSecret: cfg.SMS.AuthSecret,
			ServiceID:  cfg.SMS.VerifyServiceID,
			BaseURL:    cfg.SMS.BaseURL,
		}, externalHTTP)
		if err != nil {
			log.Warn("sms provider init failed, using local verification only", zap.Error(err))
		} else {
			provider = client
		}
	} else {
		log.Warn("sms provider not configured, using local verification only")
	}

	verificationService := verificationsvc.NewService(verificationsvc.Config{
		SendCooldown:     cfg.Verification.SendCooldown,
		CodeTTL:          cfg.Verification.CodeTTL,
		MaxCheckAttempts: cfg.Verification.MaxCheckAttempts,
		CheckWindow:      cfg.Verification.CheckWindow,
		DevMode:          cfg.Env == "dev",
	}, verificationRepo, userRepo, provider, attemptRepo, authService, log)

	creatorsService := creatorssvc.NewService(profileRepo, packageRepo, portfolioRepo, kycRepo)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}
	mediaService := mediasvc.NewService(mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket))

	RegisterRoutes(r, Dependencies{
		AuthService:         authService,
		VerificationService: verificationService,
		CreatorsService:     creatorsService,
		MediaService:        mediaService,
		Logger:              log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
