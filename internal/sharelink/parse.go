// Package sharelink converts between stored profiles and the ss:// links
// users paste from providers.
package sharelink

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"proxyconf/internal/model"
	"proxyconf/internal/profile"
)

// otaSuffix marks one-time auth on the method of a legacy link, e.g. "aes-256-cfb-auth".
const otaSuffix = "-auth"

var ErrUnsupportedScheme = errors.New("unsupported link scheme")

// Link is a decoded share link. Port is 0 when the link carried none or an
// unparsable one.
type Link struct {
	Method   string
	Password string
	Host     string
	Port     int
	Remarks  string
	OTA      bool
}

// Parse decodes an ss:// link in either SIP002 form
// (ss://base64url(method:password)@host:port#name) or the legacy form
// (ss://base64(method:password@host:port)#name).
func Parse(raw string) (*Link, error) {
	raw = FixIllegalUrl(raw)
	parts := strings.SplitN(raw, "://", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid uri format")
	}
	switch strings.ToLower(parts[0]) {
	case "ss", "shadowsocks":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, parts[0])
	}

	body, fragment, _ := strings.Cut(parts[1], "#")
	remarks, err := url.PathUnescape(fragment)
	if err != nil {
		remarks = fragment
	}

	var l *Link
	if strings.Contains(body, "@") {
		l, err = parseSIP002(body)
	} else {
		l, err = parseLegacy(body)
	}
	if err != nil {
		return nil, err
	}
	l.Remarks = remarks

	if m, ok := strings.CutSuffix(l.Method, otaSuffix); ok {
		l.Method = m
		l.OTA = true
	}
	return l, nil
}

func parseSIP002(body string) (*Link, error) {
	u, err := url.Parse("ss://" + body)
	if err != nil {
		return nil, err
	}
	l := &Link{Host: u.Hostname()}
	l.Port, _ = strconv.Atoi(u.Port())

	userInfo := u.User.String()
	// SIP002 Logic: If no colon, Base64 decode the whole block
	if !strings.Contains(userInfo, ":") {
		if decoded, err := DecodeBase64(userInfo); err == nil {
			userInfo = decoded
		}
	} else if unescaped, err := url.PathUnescape(userInfo); err == nil {
		userInfo = unescaped
	}

	method, password, ok := strings.Cut(userInfo, ":")
	if !ok {
		return nil, fmt.Errorf("invalid shadowsocks userinfo")
	}
	l.Method, l.Password = method, password

	if v := u.Query().Get("ota"); v == "1" || v == "true" {
		l.OTA = true
	}
	return l, nil
}

func parseLegacy(body string) (*Link, error) {
	body, _, _ = strings.Cut(body, "?")
	decoded, err := DecodeBase64(body)
	if err != nil {
		return nil, fmt.Errorf("shadowsocks base64 error: %w", err)
	}

	// The password may itself contain '@' or ':', so split on the last '@'
	// and the first ':'.
	at := strings.LastIndex(decoded, "@")
	if at < 0 {
		return nil, fmt.Errorf("invalid shadowsocks link: missing server")
	}
	method, password, ok := strings.Cut(decoded[:at], ":")
	if !ok {
		return nil, fmt.Errorf("invalid shadowsocks userinfo")
	}

	l := &Link{Method: method, Password: password}
	host, port, err := net.SplitHostPort(decoded[at+1:])
	if err != nil {
		l.Host = decoded[at+1:]
		return l, nil
	}
	l.Host = host
	l.Port, _ = strconv.Atoi(port)
	return l, nil
}

// Fields maps the link onto raw form input so imports go through the same
// validation as hand-entered profiles. name overrides the link's remarks
// when non-empty.
func (l *Link) Fields(name string) profile.RawFields {
	typ := model.ProxyTypeShadowsocks.String()
	if name == "" {
		name = l.Remarks
	}
	if name == "" {
		name = net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
	}
	host, method, password, ota := l.Host, l.Method, l.Password, l.OTA
	raw := profile.RawFields{
		Type:       &typ,
		Name:       &name,
		Host:       &host,
		Encryption: &method,
		Password:   &password,
		OTA:        &ota,
	}
	if l.Port != 0 {
		port := l.Port
		raw.Port = &port
	}
	return raw
}
