package maxmind

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/oschwald/geoip2-golang/v2"

	"github.com/benedict-erwin/auth-gateway/pkg/logger"
)

// ErrInvalidIP is returned for addresses that cannot be parsed
var ErrInvalidIP = errors.New("invalid ip address")

// Reader looks addresses up in the City and (optional) ASN databases.
// Results are cached in an expirable LRU.
type Reader struct {
	city  *geoip2.Reader
	asn   *geoip2.Reader
	cache *expirable.LRU[netip.Addr, Location]

	lookup func(addr netip.Addr) (Location, error)
}

// Open loads the databases. cityPath is required, asnPath may be empty.
func Open(cityPath, asnPath string, cacheSize int, cacheTTL time.Duration) (*Reader, error) {
	if cityPath == "" {
		return nil, errors.New("city database path is required")
	}

	city, err := geoip2.Open(cityPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open city database %s: %w", cityPath, err)
	}

	r := &Reader{city: city}
	if asnPath != "" {
		asn, err := geoip2.Open(asnPath)
		if err != nil {
			_ = city.Close()
			return nil, fmt.Errorf("failed to open ASN database %s: %w", asnPath, err)
		}
		r.asn = asn
	}

	r.lookup = r.readDatabases
	r.initCache(cacheSize, cacheTTL)

	logger.WithScope("maxmind").Info().
		Str("city_db", cityPath).
		Bool("asn_loaded", r.asn != nil).
		Int("cache_size", cacheSize).
		Msg("GeoIP databases loaded")
	return r, nil
}

func (r *Reader) initCache(size int, ttl time.Duration) {
	if size > 0 {
		r.cache = expirable.NewLRU[netip.Addr, Location](size, nil, ttl)
	}
}

// Lookup resolves ip. Private and loopback addresses resolve to an empty Location.
func (r *Reader) Lookup(ip string) (Location, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	addr = addr.Unmap()

	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
		return Location{IP: addr.String()}, nil
	}

	if r.cache != nil {
		if loc, ok := r.cache.Get(addr); ok {
			return loc, nil
		}
	}

	loc, err := r.lookup(addr)
	if err != nil {
		return Location{IP: addr.String()}, err
	}
	if r.cache != nil {
		r.cache.Add(addr, loc)
	}
	return loc, nil
}

func (r *Reader) readDatabases(addr netip.Addr) (Location, error) {
	loc := Location{IP: addr.String()}

	record, err := r.city.City(addr)
	if err != nil {
		return loc, fmt.Errorf("city lookup failed: %w", err)
	}
	loc.Country = record.Country.Names.English
	loc.CountryCode = record.Country.ISOCode
	loc.City = record.City.Names.English

	if r.asn != nil {
		asn, err := r.asn.ASN(addr)
		if err != nil {
			return loc, fmt.Errorf("ASN lookup failed: %w", err)
		}
		loc.ASN = asn.AutonomousSystemNumber
		loc.Organization = asn.AutonomousSystemOrganization
	}
	return loc, nil
}

// Close releases the database files
func (r *Reader) Close() error {
	var errs []error
	if r.city != nil {
		errs = append(errs, r.city.Close())
	}
	if r.asn != nil {
		errs = append(errs, r.asn.Close())
	}
	return errors.Join(errs...)
}
