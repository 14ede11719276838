package sharelink

import (
	"encoding/base64"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"proxyconf/internal/model"
)

// Format converts a stored profile into a SIP002 ss:// link. One-time auth
// is carried as the "-auth" method suffix understood by older clients.
func Format(p model.Proxy) (string, error) {
	if p.Type != model.ProxyTypeShadowsocks {
		return "", fmt.Errorf("no share link format for proxy type %q", p.Type)
	}
	if p.Authscheme == nil || p.Password == nil {
		return "", fmt.Errorf("profile %q has no credentials", p.Name)
	}

	method := *p.Authscheme
	if p.OTA {
		method += otaSuffix
	}
	userInfo := fmt.Sprintf("%s:%s", method, *p.Password)

	// SIP002 (safe for special chars)
	safeUser := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(userInfo))

	u := url.URL{
		Scheme:   "ss",
		User:     url.User(safeUser),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Fragment: p.Name,
	}
	return u.String(), nil
}
