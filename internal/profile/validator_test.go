package profile

import (
	"errors"
	"strings"
	"testing"

	"proxyconf/internal/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validRaw() RawFields {
	return RawFields{
		Type:       ptr("shadowsocks"),
		Name:       ptr("Home"),
		Host:       ptr("1.2.3.4"),
		Port:       ptr(8388),
		Encryption: ptr("aes-256-cfb"),
		Password:   ptr("secret"),
		OTA:        ptr(true),
	}
}

func TestValidate_Success(t *testing.T) {
	p, err := Validate(validRaw(), false, nil)
	require.NoError(t, err)

	assert.Equal(t, model.ProxyTypeShadowsocks, p.Type)
	assert.Equal(t, "Home", p.Name)
	assert.Equal(t, "1.2.3.4", p.Host)
	assert.Equal(t, 8388, p.Port)
	require.NotNil(t, p.Authscheme)
	assert.Equal(t, "aes-256-cfb", *p.Authscheme)
	require.NotNil(t, p.Password)
	assert.Equal(t, "secret", *p.Password)
	assert.True(t, p.OTA)
	assert.Nil(t, p.User)
	assert.Empty(t, p.ID, "identity is assigned by the session, not the validator")
}

func TestValidate_Trims(t *testing.T) {
	raw := validRaw()
	raw.Name = ptr("  Home  ")
	raw.Host = ptr("\t1.2.3.4 ")

	p, err := Validate(raw, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "Home", p.Name)
	assert.Equal(t, "1.2.3.4", p.Host)
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RawFields)
		want   error
	}{
		{"missing type", func(r *RawFields) { r.Type = nil }, ErrMissingType},
		{"unknown type", func(r *RawFields) { r.Type = ptr("vmess") }, ErrMissingType},
		{"missing name", func(r *RawFields) { r.Name = nil }, ErrEmptyName},
		{"whitespace name", func(r *RawFields) { r.Name = ptr("   ") }, ErrEmptyName},
		{"missing host", func(r *RawFields) { r.Host = nil }, ErrEmptyHost},
		{"blank host", func(r *RawFields) { r.Host = ptr(" ") }, ErrEmptyHost},
		{"missing port", func(r *RawFields) { r.Port = nil }, ErrMissingPort},
		{"zero port", func(r *RawFields) { r.Port = ptr(0) }, ErrInvalidPort},
		{"negative port", func(r *RawFields) { r.Port = ptr(-1) }, ErrInvalidPort},
		{"port too large", func(r *RawFields) { r.Port = ptr(65536) }, ErrInvalidPort},
		{"missing encryption", func(r *RawFields) { r.Encryption = nil }, ErrMissingEncryption},
		{"empty encryption", func(r *RawFields) { r.Encryption = ptr("") }, ErrMissingEncryption},
		{"unsupported encryption", func(r *RawFields) { r.Encryption = ptr("aes-256-gcm") }, ErrMissingEncryption},
		{"missing password", func(r *RawFields) { r.Password = nil }, ErrEmptyPassword},
		{"empty password", func(r *RawFields) { r.Password = ptr("") }, ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			_, err := Validate(raw, false, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.want.(*ValidationError).Code, ve.Code)
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	// Every field is wrong; the type check runs first.
	raw := RawFields{Name: ptr(" "), Port: ptr(70000), Password: ptr("")}
	_, err := Validate(raw, false, nil)
	assert.ErrorIs(t, err, ErrMissingType)

	// Whitespace name is reported before host/port/credentials are looked at.
	raw = RawFields{Type: ptr("shadowsocks"), Name: ptr("  ")}
	_, err = Validate(raw, false, nil)
	assert.ErrorIs(t, err, ErrEmptyName)

	// Duplicate name precedes the host check.
	raw = RawFields{Type: ptr("shadowsocks"), Name: ptr("proxy1")}
	_, err = Validate(raw, false, NewNameSet("proxy1"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestValidate_Uniqueness(t *testing.T) {
	existing := NewNameSet("proxy1")

	raw := validRaw()
	raw.Name = ptr("proxy1")

	_, err := Validate(raw, false, existing)
	assert.ErrorIs(t, err, ErrDuplicateName)

	p, err := Validate(raw, true, existing)
	require.NoError(t, err)
	assert.Equal(t, "proxy1", p.Name)

	// Trimmed value is what is compared.
	raw.Name = ptr(" proxy1 ")
	_, err = Validate(raw, false, existing)
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Case-sensitive exact match.
	raw.Name = ptr("Proxy1")
	_, err = Validate(raw, false, existing)
	assert.NoError(t, err)
}

func TestValidateWith_LookupOrder(t *testing.T) {
	lookupErr := errors.New("locked")
	calls := 0
	failing := func(string) (bool, error) {
		calls++
		return false, lookupErr
	}

	raw := validRaw()
	raw.Type = nil
	_, err := ValidateWith(raw, false, failing)
	assert.ErrorIs(t, err, ErrMissingType)
	assert.Zero(t, calls)

	raw = validRaw()
	_, err = ValidateWith(raw, true, failing)
	assert.NoError(t, err, "edits never look names up")
	assert.Zero(t, calls)

	_, err = ValidateWith(raw, false, failing)
	assert.ErrorIs(t, err, lookupErr, "a fully valid input reports the failed lookup")
	assert.Equal(t, 1, calls)

	raw.Port = ptr(0)
	_, err = ValidateWith(raw, false, failing)
	assert.ErrorIs(t, err, ErrInvalidPort, "a definite violation is reported ahead of the lookup error")
	assert.Equal(t, 2, calls)

	var seen string
	_, err = ValidateWith(RawFields{Type: ptr("ss"), Name: ptr("  Home ")}, false, func(name string) (bool, error) {
		seen = name
		return true, nil
	})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, "Home", seen)

	_, err = ValidateWith(validRaw(), false, nil)
	assert.NoError(t, err)
}

func TestValidate_OTADefaultsFalse(t *testing.T) {
	raw := validRaw()
	raw.OTA = nil

	p, err := Validate(raw, false, nil)
	require.NoError(t, err)
	assert.False(t, p.OTA)
}

func TestValidate_TypeAlias(t *testing.T) {
	raw := validRaw()
	raw.Type = ptr("ss")

	p, err := Validate(raw, false, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ProxyTypeShadowsocks, p.Type)
}

func TestValidate_DoesNotAliasInput(t *testing.T) {
	raw := validRaw()
	p, err := Validate(raw, false, nil)
	require.NoError(t, err)

	*raw.Password = "changed"
	*raw.Encryption = "rc4"
	assert.Equal(t, "secret", *p.Password)
	assert.Equal(t, "aes-256-cfb", *p.Authscheme)
}

func TestValidate_AllCiphers(t *testing.T) {
	for _, c := range Ciphers {
		raw := validRaw()
		raw.Encryption = ptr(c)
		p, err := Validate(raw, false, nil)
		require.NoError(t, err, c)
		assert.Equal(t, c, *p.Authscheme)
	}
	assert.Equal(t, "rc4-md5", DefaultCipher)
	assert.Len(t, Ciphers, 13)
}

func TestFieldsOf_RoundTrip(t *testing.T) {
	p, err := Validate(validRaw(), false, nil)
	require.NoError(t, err)

	again, err := Validate(FieldsOf(p), true, nil)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestMerge(t *testing.T) {
	base := validRaw()
	patch := RawFields{Host: ptr("5.6.7.8"), OTA: ptr(false)}

	merged := Merge(base, patch)
	assert.Equal(t, "5.6.7.8", *merged.Host)
	assert.False(t, *merged.OTA)
	assert.Equal(t, "Home", *merged.Name)
	assert.Equal(t, 8388, *merged.Port)
}

func TestCodeOf(t *testing.T) {
	_, err := Validate(RawFields{}, false, nil)
	assert.Equal(t, MissingType, CodeOf(err))
	assert.Equal(t, "MissingType", CodeOf(err).String())
	assert.Equal(t, Code(0), CodeOf(errors.New("boom")))
}

func TestValidate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("port is accepted iff 1..65535", prop.ForAll(
		func(port int) bool {
			raw := validRaw()
			raw.Port = &port
			_, err := Validate(raw, false, nil)
			if port >= 1 && port <= 65535 {
				return err == nil
			}
			return errors.Is(err, ErrInvalidPort)
		},
		gen.IntRange(-200000, 200000),
	))

	properties.Property("empty or missing password is always EmptyPassword", prop.ForAll(
		func(name, host string, port int, cipher string, missing bool) bool {
			raw := RawFields{
				Type:       ptr("shadowsocks"),
				Name:       ptr(name),
				Host:       ptr(host),
				Port:       ptr(port),
				Encryption: ptr(cipher),
			}
			if !missing {
				raw.Password = ptr("")
			}
			_, err := Validate(raw, false, nil)
			return errors.Is(err, ErrEmptyPassword)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.IntRange(1, 65535),
		gen.OneConstOf(Ciphers[0], Ciphers[4], Ciphers[12]),
		gen.Bool(),
	))

	properties.Property("validation is pure", prop.ForAll(
		func(name, host, password string, port int, ota bool) bool {
			raw := validRaw()
			raw.Name, raw.Host, raw.Password, raw.Port, raw.OTA = &name, &host, &password, &port, &ota

			p1, err1 := Validate(raw, false, nil)
			p2, err2 := Validate(raw, false, nil)
			if err1 != nil || err2 != nil {
				return errors.Is(err1, err2)
			}
			return *p1.Password == *p2.Password && p1.Name == p2.Name && p1.Host == p2.Host &&
				p1.Port == p2.Port && p1.OTA == p2.OTA && *p1.Authscheme == *p2.Authscheme
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
		gen.IntRange(-10, 70000),
		gen.Bool(),
	))

	properties.Property("stored strings are trimmed", prop.ForAll(
		func(pad int, name string) bool {
			padding := strings.Repeat(" ", pad)
			raw := validRaw()
			raw.Name = ptr(padding + name + padding)

			p, err := Validate(raw, false, nil)
			return err == nil && p.Name == name
		},
		gen.IntRange(0, 5),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
