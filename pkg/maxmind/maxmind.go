package maxmind

import (
	"sync"

	"github.com/benedict-erwin/auth-gateway/config"
	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

var (
	mu     sync.RWMutex
	reader *Reader
)

// Init opens the configured databases. Disabled GeoIP is not an error.
func Init(cfg config.GeoIPConfig) error {
	if !cfg.Enabled {
		logger.WithScope("maxmind").Debug().Msg("GeoIP lookups disabled")
		return nil
	}

	r, err := Open(cfg.CityDB, cfg.ASNDB, cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return err
	}
	set(r)
	return nil
}

func set(r *Reader) {
	mu.Lock()
	old := reader
	reader = r
	mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}

// Enabled reports whether lookups are served
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return reader != nil
}

// Lookup resolves ip with the global reader. ok is false when GeoIP is
// disabled or the address is unknown.
func Lookup(ip string) (Location, bool) {
	mu.RLock()
	r := reader
	mu.RUnlock()
	if r == nil || ip == "" {
		return Location{}, false
	}

	loc, err := r.Lookup(ip)
	if err != nil {
		logger.WithScope("maxmind").Debug().Err(err).Msg("GeoIP lookup failed")
		return Location{}, false
	}
	return loc, loc.Found()
}

// Close releases the global reader
func Close() {
	set(nil)
}
