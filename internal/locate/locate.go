// Package locate resolves a visitor IP address to a place on the globe
// using a MaxMind GeoLite2 City database.
package locate

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

var (
	// ErrDisabled is returned when no database is configured.
	ErrDisabled = errors.New("geoip lookup disabled")
	// ErrNoLocation is returned for addresses the database cannot place.
	ErrNoLocation = errors.New("address has no location")
)

// Place is where an address is located.
type Place struct {
	Country string  `json:"country,omitempty"`
	ISO     string  `json:"iso,omitempty"`
	City    string  `json:"city,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Locator looks up addresses. A nil or zero Locator is disabled.
type Locator struct {
	db *geoip2.Reader
}

// Open loads the database at path. An empty path yields a disabled locator.
func Open(path string) (*Locator, error) {
	if path == "" {
		return &Locator{}, nil
	}

	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &Locator{db: db}, nil
}

// Enabled reports whether lookups can succeed.
func (l *Locator) Enabled() bool {
	return l != nil && l.db != nil
}

// Lookup places an IP address.
func (l *Locator) Lookup(ip net.IP) (Place, error) {
	if !l.Enabled() {
		return Place{}, ErrDisabled
	}
	if ip == nil {
		return Place{}, fmt.Errorf("%w: invalid address", ErrNoLocation)
	}

	rec, err := l.db.City(ip)
	if err != nil {
		return Place{}, fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return Place{}, fmt.Errorf("%w: %s", ErrNoLocation, ip)
	}

	return Place{
		Country: rec.Country.Names["en"],
		ISO:     rec.Country.IsoCode,
		City:    rec.City.Names["en"],
		Lat:     rec.Location.Latitude,
		Lng:     rec.Location.Longitude,
	}, nil
}

// Close releases the database.
func (l *Locator) Close() error {
	if !l.Enabled() {
		return nil
	}
	return l.db.Close()
}

// ClientIP extracts the visitor address from a request, preferring the
// first X-Forwarded-For entry, then X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request) net.IP {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		if ip := net.ParseIP(xr); ip != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
