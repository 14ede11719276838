package xray

import (
	"encoding/json"
	"fmt"

	"proxyconf/internal/logger"
	"proxyconf/internal/model"

	"github.com/xtls/xray-core/infra/conf"
)

// Config is the subset of an Xray config file this package emits.
type Config struct {
	Outbounds []conf.OutboundDetourConfig `json:"outbounds"`
}

// ToOutbound converts a stored profile into an Xray outbound, tagged with
// the profile name. The outbound is built with xray-core's own loader, so a
// profile Xray would refuse to load (for instance a stream cipher Xray no
// longer ships) is returned as an error here.
func ToOutbound(p model.Proxy) (*conf.OutboundDetourConfig, error) {
	var protocol string
	var settings json.RawMessage

	switch p.Type {
	case model.ProxyTypeShadowsocks:
		if p.Authscheme == nil || p.Password == nil {
			return nil, fmt.Errorf("profile %q has no credentials", p.Name)
		}
		protocol = "shadowsocks"
		settings = buildShadowsocks(p)
	default:
		return nil, fmt.Errorf("protocol conversion not implemented: %s", p.Type)
	}

	if p.OTA {
		// Xray dropped one-time auth; the outbound is still emitted without it.
		logger.Log.Warnf("Profile %q uses one-time auth, which Xray ignores", p.Name)
	}

	out := &conf.OutboundDetourConfig{
		Tag:      p.Name,
		Protocol: protocol,
		Settings: &settings,
	}
	if _, err := out.Build(); err != nil {
		return nil, fmt.Errorf("xray rejects profile %q: %w", p.Name, err)
	}
	return out, nil
}

// Skipped is a profile BuildConfig left out of the config.
type Skipped struct {
	Name string
	Err  error
}

// BuildConfig converts every profile, skipping those that cannot be expressed.
func BuildConfig(profiles []model.Proxy) (Config, []Skipped) {
	cfg := Config{Outbounds: []conf.OutboundDetourConfig{}}
	var skipped []Skipped
	for _, p := range profiles {
		out, err := ToOutbound(p)
		if err != nil {
			logger.Log.Warnf("Skipping profile %q: %v", p.Name, err)
			skipped = append(skipped, Skipped{Name: p.Name, Err: err})
			continue
		}
		cfg.Outbounds = append(cfg.Outbounds, *out)
	}
	return cfg, skipped
}

func buildShadowsocks(p model.Proxy) json.RawMessage {
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{
				"address":  p.Host,
				"port":     p.Port,
				"method":   *p.Authscheme,
				"password": *p.Password,
			},
		},
	})
}

func jsonRaw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return json.RawMessage(b)
}
