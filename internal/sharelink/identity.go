package sharelink

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"proxyconf/internal/model"
)

// Fingerprint identifies the server a profile points at, independent of its
// name. Two profiles with the same fingerprint are the same proxy.
func Fingerprint(p model.Proxy) string {
	parts := []string{
		strings.ToLower(p.Type.String()),
		strings.ToLower(p.Host),
		strconv.Itoa(p.Port),
		deref(p.Authscheme),
		deref(p.Password),
		strconv.FormatBool(p.OTA),
	}
	signature := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(hash[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Fingerprint of the server the link points at, comparable with stored
// profiles.
func (l *Link) Fingerprint() string {
	method, password := l.Method, l.Password
	return Fingerprint(model.Proxy{
		Type:       model.ProxyTypeShadowsocks,
		Host:       strings.TrimSpace(l.Host),
		Port:       l.Port,
		Authscheme: &method,
		Password:   &password,
		OTA:        l.OTA,
	})
}
