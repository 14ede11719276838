package geoip

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"proxyconf/internal/logger"

	"github.com/oschwald/geoip2-golang"
)

var (
	asnReader     *geoip2.Reader
	countryReader *geoip2.Reader
	once          sync.Once
	initErr       error
)

// Init loads the MMDB files from specific paths. Either path may be empty;
// lookups then return only what the loaded databases know.
func Init(asnPath, countryPath string) error {
	once.Do(func() {
		if asnPath != "" {
			var err error
			asnReader, err = geoip2.Open(asnPath)
			if err != nil {
				initErr = fmt.Errorf("failed to open ASN DB at %s: %w", asnPath, err)
				return
			}
		}

		if countryPath != "" {
			var err error
			countryReader, err = geoip2.Open(countryPath)
			if err != nil {
				// Country data is cosmetic; keep going without it.
				logger.Log.Warnf("Failed to open Country DB at %s: %v. Country data will be missing.", countryPath, err)
			}
		}
	})
	return initErr
}

// Enabled reports whether any database is loaded.
func Enabled() bool {
	return asnReader != nil || countryReader != nil
}

type GeoResult struct {
	ISP     string
	Country string
}

// Lookup resolves an IP-literal host. Hostnames are not resolved.
func Lookup(host string) (*GeoResult, error) {
	if !Enabled() {
		return nil, fmt.Errorf("geoip database not initialized")
	}

	ip := net.ParseIP(strings.Trim(host, "[]"))
	if ip == nil {
		return nil, fmt.Errorf("not an ip address: %s", host)
	}

	res := &GeoResult{ISP: "Unknown", Country: "XX"}

	if asnReader != nil {
		if asn, err := asnReader.ASN(ip); err == nil {
			res.ISP = asn.AutonomousSystemOrganization
		}
	}

	if countryReader != nil {
		if c, err := countryReader.Country(ip); err == nil && c.Country.IsoCode != "" {
			res.Country = c.Country.IsoCode
		}
	}

	return res, nil
}

// Describe renders a short location label for host, or "" when unknown.
func Describe(host string) string {
	res, err := Lookup(host)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s (%s)", FlagEmoji(res.Country), res.Country, res.ISP)
}

func FlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return "🌐"
	}
	countryCode = strings.ToUpper(countryCode)
	return string(rune(countryCode[0])+127397) + string(rune(countryCode[1])+127397)
}

func Close() {
	if asnReader != nil {
		asnReader.Close()
	}
	if countryReader != nil {
		countryReader.Close()
	}
}
