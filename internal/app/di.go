// Package app provides a lazily-initialized dependency injection
// container assembling the configuration engine, its supporting
// cryptography/cache/audit components, and the HTTP surface. Each
// dependency is built at most once, on first access, guarded by its
// own sync.Once.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	cacheManager "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/cache"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/storage"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/usecase"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/config"
	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
	cryptoService "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/service"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/httpapi"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/metrics"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/security"

	auditService "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/service"
)

// buildVersion is stamped into /health responses; overridden at link
// time via -ldflags to match the CLI's own Version string.
var buildVersion = "dev"

// Container holds every application dependency, built on first access.
type Container struct {
	config *config.Config

	mu sync.Mutex

	logger        *slog.Logger
	loggerInit    sync.Once
	storageInst   *storage.Storage
	storageInit   sync.Once
	cacheInst     *cacheManager.Manager
	cacheInit     sync.Once
	cryptoInst    cryptoService.CryptoService
	cryptoKey     *cryptoDomain.SecretKey
	cryptoInit    sync.Once
	auditInst     *auditService.Service
	auditInit     sync.Once
	managerInst   *usecase.Manager
	managerInit   sync.Once
	pipelineInst  *security.Pipeline
	pipelineInit  sync.Once
	metricsInst   *metrics.Provider
	metricsInit   sync.Once
	httpServer    *httpapi.Server
	httpInit      sync.Once
	metricsServer *httpapi.MetricsServer
	metricsSrvInit sync.Once

	initErrors map[string]error
}

// NewContainer builds an empty Container bound to cfg; nothing is
// constructed until the corresponding accessor is called.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg, initErrors: make(map[string]error)}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config { return c.config }

// Logger returns the structured logger, built on first access.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() { c.logger = c.initLogger() })
	return c.logger
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Storage returns the on-disk configuration store.
func (c *Container) Storage() (*storage.Storage, error) {
	c.storageInit.Do(func() {
		s, err := storage.New(c.config.StorageDir, c.Logger())
		if err != nil {
			c.initErrors["storage"] = fmt.Errorf("init storage: %w", err)
			return
		}
		c.storageInst = s
	})
	if err, ok := c.initErrors["storage"]; ok {
		return nil, err
	}
	return c.storageInst, nil
}

// Cache returns the two-tier cache manager.
func (c *Container) Cache() (*cacheManager.Manager, error) {
	c.cacheInit.Do(func() {
		tier2, err := cacheManager.NewTier2(c.config.CacheDir, c.Logger())
		if err != nil {
			c.initErrors["cache"] = fmt.Errorf("init cache tier2: %w", err)
			return
		}
		tier1 := cacheManager.NewTier1(c.config.CacheTier1Capacity)
		c.cacheInst = cacheManager.NewManager(tier1, tier2, c.Logger())
	})
	if err, ok := c.initErrors["cache"]; ok {
		return nil, err
	}
	return c.cacheInst, nil
}

// Crypto returns the envelope encryption service and the active secret
// key derived from config.EncryptionKey. The key is nil when no
// encryption key is configured, matching the CLI's "secrets disabled
// until --encryption-key/LLM_CONFIG_KEY is set" behavior.
func (c *Container) Crypto() (cryptoService.CryptoService, *cryptoDomain.SecretKey, error) {
	c.cryptoInit.Do(func() {
		c.cryptoInst = cryptoService.NewCryptoManager(cryptoService.NewAEADManager())
		if len(c.config.EncryptionKey) == 0 {
			return
		}
		key, err := cryptoDomain.KeyFromBytes(cryptoDomain.AESGCM, c.config.EncryptionKey)
		if err != nil {
			c.initErrors["crypto"] = fmt.Errorf("invalid encryption key: %w", err)
			return
		}
		c.cryptoKey = key
	})
	if err, ok := c.initErrors["crypto"]; ok {
		return nil, nil, err
	}
	return c.cryptoInst, c.cryptoKey, nil
}

// Audit returns the audit log service, writing its signed append-only
// log under config.AuditDir and HMAC-signing entries with the
// configured encryption key (a nil key disables signing).
func (c *Container) Audit() (*auditService.Service, error) {
	c.auditInit.Do(func() {
		path := c.config.AuditDir + "/audit.log"
		svc, err := auditService.New(path, c.config.EncryptionKey, c.Logger())
		if err != nil {
			c.initErrors["audit"] = fmt.Errorf("init audit service: %w", err)
			return
		}
		c.auditInst = svc
	})
	if err, ok := c.initErrors["audit"]; ok {
		return nil, err
	}
	return c.auditInst, nil
}

// Manager returns the configuration engine use case, wired to storage,
// cache, crypto, and the audit service's ConfigAuditor adapter.
func (c *Container) Manager() (*usecase.Manager, error) {
	var err error
	c.managerInit.Do(func() {
		var st *storage.Storage
		if st, err = c.Storage(); err != nil {
			return
		}
		var ch *cacheManager.Manager
		if ch, err = c.Cache(); err != nil {
			return
		}
		crypto, key, cerr := c.Crypto()
		if cerr != nil {
			err = cerr
			return
		}
		audit, aerr := c.Audit()
		if aerr != nil {
			err = aerr
			return
		}
		c.managerInst = usecase.NewManager(st, ch, crypto, key, auditService.NewConfigAuditor(audit), c.Logger())
	})
	if err != nil {
		c.initErrors["manager"] = err
		return nil, err
	}
	if storedErr, ok := c.initErrors["manager"]; ok {
		return nil, storedErr
	}
	return c.managerInst, nil
}

// SecurityPipeline returns the request security pipeline, auditing
// rejections through the same audit service as the configuration engine.
func (c *Container) SecurityPipeline() (*security.Pipeline, error) {
	var err error
	c.pipelineInit.Do(func() {
		audit, aerr := c.Audit()
		if aerr != nil {
			err = aerr
			return
		}
		cfg := c.config
		c.pipelineInst = security.NewPipeline(security.Config{
			RateLimit: security.RateLimitConfig{
				AuthenticatedRPS:   cfg.AuthenticatedRPS,
				UnauthenticatedRPS: cfg.UnauthenticatedRPS,
				Burst:              cfg.RateLimitBurst,
				BanThreshold:       cfg.BanThreshold,
				BanDuration:        secondsToDuration(cfg.BanDurationSeconds),
			},
			IPBlocklist:        cfg.IPBlocklist,
			RequireTLS:         cfg.RequireTLS,
			MinTLSVersion:      cfg.MinTLSVersion,
			EndpointBlocklist:  cfg.EndpointBlocklist,
			EndpointAllowlist:  cfg.EndpointAllowlist,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		}, audit, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	return c.pipelineInst, nil
}

// Metrics returns the Prometheus/OpenTelemetry metrics provider. A
// failure to construct it is logged and metrics are left disabled
// (nil), since metrics are not essential to serving requests.
func (c *Container) Metrics() *metrics.Provider {
	c.metricsInit.Do(func() {
		provider, err := metrics.NewProvider("llm_config_manager")
		if err != nil {
			c.Logger().Error("failed to init metrics provider", slog.Any("error", err))
			return
		}
		c.metricsInst = provider
	})
	return c.metricsInst
}

// HTTPServer returns the main API server, with its router fully wired.
func (c *Container) HTTPServer() (*httpapi.Server, error) {
	var err error
	c.httpInit.Do(func() {
		mgr, merr := c.Manager()
		if merr != nil {
			err = merr
			return
		}
		pipeline, perr := c.SecurityPipeline()
		if perr != nil {
			err = perr
			return
		}
		handler := httpapi.NewConfigHandler(mgr, buildVersion, c.Logger())
		server := httpapi.NewServer(c.config.ServerHost, c.config.ServerPort, c.Logger())
		server.SetupRouter(c.config, handler, pipeline, c.Metrics(), "llm_config_manager")
		c.httpServer = server
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the standalone Prometheus /metrics server.
func (c *Container) MetricsServer() (*httpapi.MetricsServer, error) {
	c.metricsSrvInit.Do(func() {
		c.metricsServer = httpapi.NewMetricsServer(c.config.MetricsHost, c.config.MetricsPort, c.Logger(), c.Metrics())
	})
	return c.metricsServer, nil
}

// Shutdown closes every initialized resource that owns a file handle or
// background goroutine.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.auditInst != nil {
		if err := c.auditInst.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audit service close: %w", err))
		}
	}
	if c.pipelineInst != nil {
		c.pipelineInst.Cleanup()
	}
	if c.metricsInst != nil {
		if err := c.metricsInst.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
