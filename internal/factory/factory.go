package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"linkbio/internal/client"
	"linkbio/internal/config"
	"linkbio/internal/imaging"
	redisrepo "linkbio/internal/repository/redis"
	"linkbio/internal/service"
	"linkbio/internal/session"
	"linkbio/internal/tls"
	"linkbio/internal/util"
)

// Factory manages the lifecycle of all application dependencies: it loads
// config, initializes clients with startup health checks, builds the
// services, and closes everything exactly once.
type Factory struct {
	config     *config.Config
	tlsManager *tls.TLSManager

	redisClient   *client.RedisClient
	storageClient *client.ObjectStorageClient

	codec          *session.Codec
	authService    *service.AuthService
	profileService *service.ProfileService
	linkService    *service.LinkService
	uploadService  *service.UploadService

	closeOnce sync.Once
}

// NewFactory creates and initializes all application dependencies.
func NewFactory() (*Factory, error) {
	cfg := config.LoadConfig()

	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	f := &Factory{config: cfg}

	if cfg.Session.Secret == "" {
		util.Warn("SESSION_SECRET is not set, using the development fallback; sessions are forgeable")
	}
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		util.Warn("Admin credentials are not configured; all logins will fail")
	}
	if cfg.Server.AllowedOrigin == "" {
		util.Warn("APP_ORIGIN is not set; the same-origin guard is disabled")
	}

	if cfg.Server.EnableTLS {
		f.tlsManager = tls.NewTLSManager(&tls.TLSConfig{
			EnableTLS:   cfg.Server.EnableTLS,
			AutoCert:    cfg.Server.AutoCert,
			Domain:      cfg.Server.Domain,
			CertFile:    cfg.Server.CertFile,
			KeyFile:     cfg.Server.KeyFile,
			AutoCertDir: cfg.Server.AutoCertDir,
			Email:       cfg.Server.Email,
			Environment: cfg.Environment,
		})
	}

	if err := f.initializeClients(); err != nil {
		return nil, fmt.Errorf("failed to initialize clients: %w", err)
	}
	f.initializeServices()

	util.Info("Factory initialized successfully",
		util.String("environment", cfg.Environment),
		util.Bool("tls_enabled", cfg.Server.EnableTLS),
		util.Bool("uploads_enabled", f.storageClient != nil),
	)

	return f, nil
}

func (f *Factory) initializeClients() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	redisClient, err := client.NewRedisClient(f.config, util.Get())
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	f.redisClient = redisClient
	if err := f.redisClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis health check: %w", err)
	}

	// Object storage is optional: without it the service runs with
	// uploads disabled.
	if storageClient, err := client.NewObjectStorageClient(f.config, util.Get()); err != nil {
		util.Warn("Object storage initialization failed - uploads disabled", util.ErrorField(err))
	} else {
		f.storageClient = storageClient
	}

	return nil
}

func (f *Factory) initializeServices() {
	cfg := f.config
	logger := util.Get()

	f.codec = session.NewCodec(cfg.Session.Secret, cfg.Session.MaxAge, cfg.IsProduction())

	attempts := redisrepo.NewLoginAttemptCache(f.redisClient)
	profiles := redisrepo.NewProfileStore(f.redisClient)
	links := redisrepo.NewLinkStore(f.redisClient)

	f.authService = service.NewAuthService(attempts, f.codec, cfg.Admin, logger)
	f.linkService = service.NewLinkService(links, logger)
	f.profileService = service.NewProfileService(profiles, links, logger)

	processor := imaging.NewProcessor(cfg.Upload.MaxWidth, cfg.Upload.Format, cfg.Upload.Quality)
	var storage service.ObjectStorage
	if f.storageClient != nil {
		storage = f.storageClient
	}
	f.uploadService = service.NewUploadService(processor, storage, logger)
}

func (f *Factory) Config() *config.Config                  { return f.config }
func (f *Factory) TLSManager() *tls.TLSManager             { return f.tlsManager }
func (f *Factory) Codec() *session.Codec                   { return f.codec }
func (f *Factory) AuthService() *service.AuthService       { return f.authService }
func (f *Factory) ProfileService() *service.ProfileService { return f.profileService }
func (f *Factory) LinkService() *service.LinkService       { return f.linkService }
func (f *Factory) UploadService() *service.UploadService   { return f.uploadService }

// Close shuts down clients. Safe to call more than once.
func (f *Factory) Close() {
	f.closeOnce.Do(func() {
		if f.redisClient != nil {
			_ = f.redisClient.Close()
		}
		util.Sync()
	})
}
