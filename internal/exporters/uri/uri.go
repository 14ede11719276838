package uri

import (
	"proxyconf/internal/exporters"
	"proxyconf/internal/model"
)

type Exporter struct {
	Base64 bool
}

func (e *Exporter) Export(profiles []model.Proxy) (string, error) {
	return exporters.GenerateSubscriptionPayload(profiles, e.Base64), nil
}

func init() {
	exporters.Register("uri", func() exporters.Exporter { return &Exporter{} })
	exporters.Register("subscription", func() exporters.Exporter { return &Exporter{Base64: true} })
}
