// Package profile validates user-entered proxy definitions and drives the
// edit sessions that commit them to the store.
package profile

import (
	"strings"

	"proxyconf/internal/model"
)

// Field identifiers, as used by forms, flags and share links.
const (
	FieldType       = "type"
	FieldName       = "name"
	FieldHost       = "host"
	FieldPort       = "port"
	FieldEncryption = "encryption"
	FieldPassword   = "password"
	FieldOTA        = "ota"
)

const maxPort = 65535

// RawFields holds the loosely-typed values a user entered. A nil member
// means the field was left absent.
type RawFields struct {
	Type       *string
	Name       *string
	Host       *string
	Port       *int
	Encryption *string
	Password   *string
	OTA        *bool
}

// NameSet is the set of profile names already taken in the store.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s NameSet) lookup(name string) (bool, error) { return s.Has(name), nil }

// NameLookup reports whether a trimmed name is already taken.
type NameLookup func(name string) (bool, error)

// Validate turns raw input into a normalized profile, checking rules in a
// fixed order and returning only the first violation. The returned profile
// has no ID; identity belongs to the session that commits it.
//
// Name uniqueness is only checked when isEdit is false.
func Validate(raw RawFields, isEdit bool, existing NameSet) (model.Proxy, error) {
	return ValidateWith(raw, isEdit, existing.lookup)
}

// ValidateWith is Validate with the taken-name set behind a lookup. taken is
// called at most once, and only after the type and name rules pass. If the
// lookup itself fails, the remaining rules still run: a definite rule
// violation is reported ahead of the lookup error.
func ValidateWith(raw RawFields, isEdit bool, taken NameLookup) (model.Proxy, error) {
	var p model.Proxy
	var lookupErr error

	if raw.Type == nil {
		return p, ErrMissingType
	}
	typ, ok := model.ParseProxyType(*raw.Type)
	if !ok {
		return p, ErrMissingType
	}

	name := trimmed(raw.Name)
	if name == "" {
		return p, ErrEmptyName
	}
	if !isEdit && taken != nil {
		dup, err := taken(name)
		if err != nil {
			lookupErr = err
		} else if dup {
			return p, ErrDuplicateName
		}
	}

	host := trimmed(raw.Host)
	if host == "" {
		return p, ErrEmptyHost
	}

	if raw.Port == nil {
		return p, ErrMissingPort
	}
	port := *raw.Port
	if port <= 0 || port > maxPort {
		return p, ErrInvalidPort
	}

	var authscheme, password *string
	switch typ {
	case model.ProxyTypeShadowsocks:
		if raw.Encryption == nil || !IsSupportedCipher(*raw.Encryption) {
			return p, ErrMissingEncryption
		}
		if raw.Password == nil || *raw.Password == "" {
			return p, ErrEmptyPassword
		}
		enc, pass := *raw.Encryption, *raw.Password
		authscheme, password = &enc, &pass
	}

	if lookupErr != nil {
		return p, lookupErr
	}

	ota := false
	if raw.OTA != nil {
		ota = *raw.OTA
	}

	p = model.Proxy{
		Type:       typ,
		Name:       name,
		Host:       host,
		Port:       port,
		Authscheme: authscheme,
		User:       nil,
		Password:   password,
		OTA:        ota,
	}
	return p, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// FieldsOf returns the raw fields that would reproduce p, for prefilling an
// edit form.
func FieldsOf(p model.Proxy) RawFields {
	typ := p.Type.String()
	name, host, port, ota := p.Name, p.Host, p.Port, p.OTA
	raw := RawFields{
		Name: &name,
		Host: &host,
		OTA:  &ota,
	}
	if typ != "" {
		raw.Type = &typ
	}
	if port > 0 {
		raw.Port = &port
	}
	if p.Authscheme != nil {
		enc := *p.Authscheme
		raw.Encryption = &enc
	}
	if p.Password != nil {
		pass := *p.Password
		raw.Password = &pass
	}
	return raw
}

// clone copies every present value so the result shares no memory with r.
func (r RawFields) clone() RawFields {
	return RawFields{
		Type:       clonePtr(r.Type),
		Name:       clonePtr(r.Name),
		Host:       clonePtr(r.Host),
		Port:       clonePtr(r.Port),
		Encryption: clonePtr(r.Encryption),
		Password:   clonePtr(r.Password),
		OTA:        clonePtr(r.OTA),
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Merge overlays every non-nil member of patch onto base.
func Merge(base, patch RawFields) RawFields {
	if patch.Type != nil {
		base.Type = patch.Type
	}
	if patch.Name != nil {
		base.Name = patch.Name
	}
	if patch.Host != nil {
		base.Host = patch.Host
	}
	if patch.Port != nil {
		base.Port = patch.Port
	}
	if patch.Encryption != nil {
		base.Encryption = patch.Encryption
	}
	if patch.Password != nil {
		base.Password = patch.Password
	}
	if patch.OTA != nil {
		base.OTA = patch.OTA
	}
	return base
}
