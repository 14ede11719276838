package exporters

import (
	"encoding/base64"
	"strings"

	"proxyconf/internal/logger"
	"proxyconf/internal/model"
	"proxyconf/internal/sharelink"
)

// GenerateSubscriptionPayload renders one share link per profile, optionally
// wrapped in base64 as subscription endpoints serve it.
func GenerateSubscriptionPayload(profiles []model.Proxy, useBase64 bool) string {
	var lines []string
	for _, p := range profiles {
		link, err := sharelink.Format(p)
		if err != nil {
			logger.Log.Debugf("Exporter dropped profile %q: %v", p.Name, err)
			continue
		}
		lines = append(lines, link)
	}

	finalText := strings.Join(lines, "\n")
	if useBase64 {
		return base64.StdEncoding.EncodeToString([]byte(finalText))
	}
	return finalText
}
