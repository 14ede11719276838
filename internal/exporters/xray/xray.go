package xray

import (
	"encoding/json"
	"fmt"

	"proxyconf/internal/exporters"
	"proxyconf/internal/model"
	xrayconf "proxyconf/internal/xray"
)

type Exporter struct{}

func (e *Exporter) Export(profiles []model.Proxy) (string, error) {
	cfg, skipped := xrayconf.BuildConfig(profiles)
	if len(profiles) > 0 && len(cfg.Outbounds) == 0 {
		return "", fmt.Errorf("none of the %d profiles can be loaded by xray: %w", len(profiles), skipped[0].Err)
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode xray config: %w", err)
	}
	return string(b), nil
}

func init() {
	exporters.Register("xray", func() exporters.Exporter { return &Exporter{} })
}
