package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/benedict-erwin/auth-gateway/config"
	authevents "github.com/benedict-erwin/auth-gateway/internal/entities/auth_events"
	"github.com/benedict-erwin/auth-gateway/internal/repository/users"
	"github.com/benedict-erwin/auth-gateway/internal/services/accounts"
	"github.com/benedict-erwin/auth-gateway/internal/services/audit"
	"github.com/benedict-erwin/auth-gateway/internal/services/health"
	asynqPkg "github.com/benedict-erwin/auth-gateway/pkg/asynq"
	"github.com/benedict-erwin/auth-gateway/pkg/auth"
	"github.com/benedict-erwin/auth-gateway/pkg/influxdb"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
	"github.com/benedict-erwin/auth-gateway/pkg/maxmind"
	"github.com/benedict-erwin/auth-gateway/pkg/password"
	"github.com/benedict-erwin/auth-gateway/pkg/redis"
)

// Dependencies holds everything the HTTP layer of one service role needs
type Dependencies struct {
	Config    *config.Config
	Mode      string
	Validator *auth.Validator
	Health    *health.Checker

	// auth-service only
	Issuer   *auth.Issuer
	Accounts *accounts.Service
	Events   audit.Publisher

	// gateway only
	Upstreams []*url.URL

	closers []func()
}

// New builds the dependencies for mode. Configuration errors are returned
// before anything is served.
func New(cfg *config.Config, mode string) (*Dependencies, error) {
	authCfg := cfg.JWT.AuthConfig()

	validator, err := auth.NewValidator(authCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}

	d := &Dependencies{
		Config:    cfg,
		Mode:      mode,
		Validator: validator,
		Health:    health.NewChecker(mode, cfg.App.Version),
	}

	switch mode {
	case config.ModeAuth:
		if err := d.buildAuthService(authCfg); err != nil {
			d.Close()
			return nil, err
		}
	case config.ModeGateway:
		if err := d.buildGateway(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown service mode %q", mode)
	}

	return d, nil
}

func (d *Dependencies) buildAuthService(authCfg auth.Config) error {
	cfg := d.Config
	log := logger.WithScope("dependencies")

	issuer, err := auth.NewIssuer(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	d.Issuer = issuer

	store, err := d.buildUserStore()
	if err != nil {
		return err
	}

	svc, err := accounts.NewService(store, password.NewHasher(cfg.Users.BcryptCost), issuer)
	if err != nil {
		return fmt.Errorf("failed to create account service: %w", err)
	}
	d.Accounts = svc

	if cfg.Asynq.Enabled {
		if err := asynqPkg.InitClient(cfg); err != nil {
			return fmt.Errorf("failed to initialize Asynq client: %w", err)
		}
		d.closers = append(d.closers, asynqPkg.CloseClient)
		d.Events = audit.NewQueuePublisher(asynqPkg.GetClient())
		d.Health.Add("asynq", health.ClientCheck("asynq", func() bool { return asynqPkg.GetClient() != nil }))
	} else {
		log.Info().Msg("Asynq disabled, auth events are logged inline")
		if err := d.initEventSinks(); err != nil {
			return err
		}
		d.Events = audit.NewLogPublisher()
	}

	return nil
}

// initEventSinks prepares the optional enrichment and storage used when events
// are recorded inline instead of by the worker
func (d *Dependencies) initEventSinks() error {
	cfg := d.Config
	log := logger.WithScope("dependencies")

	if err := maxmind.Init(cfg.GeoIP); err != nil {
		log.Warn().Err(err).Msg("GeoIP unavailable, auth events are not geolocated")
	} else if maxmind.Enabled() {
		d.closers = append(d.closers, maxmind.Close)
	}

	if err := influxdb.Init(cfg.InfluxDB); err != nil {
		return fmt.Errorf("failed to initialize InfluxDB: %w", err)
	}
	if influxdb.Enabled() {
		d.closers = append(d.closers, influxdb.Close)
		d.Health.Add("influxdb", influxdb.HealthCheck)
	}
	return nil
}

func (d *Dependencies) buildUserStore() (users.Store, error) {
	cfg := d.Config

	var store users.Store
	switch cfg.Users.Store {
	case "memory":
		store = users.NewMemoryStore()
	default:
		if err := redis.Init(cfg.Redis); err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = redis.Close() })
		d.Health.Add("redis", health.RedisCheck())
		store = users.NewRedisStore(redis.GetClient())
	}

	if cfg.Users.CacheSize > 0 {
		store = users.NewCachedStore(store, cfg.Users.CacheSize, cfg.Users.CacheTTL)
	}
	return store, nil
}

func (d *Dependencies) buildGateway() error {
	if len(d.Config.Gateway.Upstreams) == 0 {
		return fmt.Errorf("gateway.upstreams must list at least one auth-service URL")
	}

	client := &http.Client{Timeout: d.Config.Gateway.Timeout}
	for i, upstream := range d.Config.Gateway.Upstreams {
		u, err := url.Parse(strings.TrimSuffix(upstream, "/"))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid gateway upstream %q", upstream)
		}
		d.Upstreams = append(d.Upstreams, u)
		d.Health.Add(fmt.Sprintf("upstream_%d", i), health.HTTPCheck(client, u.String()+"/health/live"))
	}
	return nil
}

// PublishEvent records an auth event. Failures are logged, never returned.
func (d *Dependencies) PublishEvent(ctx context.Context, event authevents.Event) {
	if d.Events == nil {
		return
	}
	if err := d.Events.Publish(ctx, event); err != nil {
		logger.WithScope("audit").Warn().
			Err(err).
			Str("event", string(event.Type)).
			Msg("Failed to publish auth event")
	}
}

// Close releases connections opened by New
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
