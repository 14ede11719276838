package model

import (
	"time"
)

// ProxyType identifies the kind of upstream proxy a profile describes.
type ProxyType string

const (
	ProxyTypeShadowsocks ProxyType = "shadowsocks"
)

// ProxyTypes lists every type the validator recognises, in display order.
var ProxyTypes = []ProxyType{ProxyTypeShadowsocks}

// ParseProxyType resolves a user-supplied identifier. "ss" is accepted as an
// alias for shadowsocks since that is the link scheme users paste.
func ParseProxyType(s string) (ProxyType, bool) {
	switch ProxyType(s) {
	case ProxyTypeShadowsocks, "ss", "Shadowsocks":
		return ProxyTypeShadowsocks, true
	}
	return "", false
}

func (t ProxyType) String() string { return string(t) }

type Proxy struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Type      ProxyType `gorm:"size:32;not null"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Connection Details
	Host string
	Port int

	// Authentication. Authscheme and Password are set together for
	// shadowsocks and nil for every other type.
	Authscheme *string // cipher identifier
	User       *string // reserved, always nil for now
	Password   *string
	OTA        bool // one-time auth
}

// Clone returns a value copy with its own optional fields, so edits never
// reach the stored original.
func (p Proxy) Clone() Proxy {
	c := p
	c.Authscheme = cloneString(p.Authscheme)
	c.User = cloneString(p.User)
	c.Password = cloneString(p.Password)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
