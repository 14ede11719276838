package main

import (
	"strconv"

	"proxyconf/internal/model"
	"proxyconf/internal/profile"
	"proxyconf/internal/sharelink"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// formFlags mirrors the profile form: one flag per field. Only flags the
// user actually set become present fields.
type formFlags struct {
	typ        string
	name       string
	host       string
	port       string
	encryption string
	password   string
	ota        bool
	link       string
}

func (f *formFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.typ, profile.FieldType, "", "proxy type (shadowsocks)")
	fs.StringVar(&f.name, profile.FieldName, "", "profile name")
	fs.StringVar(&f.host, profile.FieldHost, "", "proxy server host")
	fs.StringVar(&f.port, profile.FieldPort, "", "proxy server port")
	fs.StringVar(&f.encryption, profile.FieldEncryption, "", "encryption method (see 'ciphers')")
	fs.StringVar(&f.password, profile.FieldPassword, "", "proxy password")
	fs.BoolVar(&f.ota, profile.FieldOTA, false, "enable one time auth")
	fs.StringVar(&f.link, "link", "", "prefill fields from an ss:// link")
}

// fields returns the values entered on the command line. A port that does
// not parse as an integer counts as absent, like an empty numeric input.
func (f *formFlags) fields(cmd *cobra.Command) (profile.RawFields, error) {
	var raw profile.RawFields

	if f.link != "" {
		l, err := sharelink.Parse(f.link)
		if err != nil {
			return raw, err
		}
		raw = l.Fields("")
		if l.Remarks == "" {
			raw.Name = nil
		}
	}

	changed := cmd.Flags().Changed
	if changed(profile.FieldType) {
		raw.Type = &f.typ
	}
	if changed(profile.FieldName) {
		raw.Name = &f.name
	}
	if changed(profile.FieldHost) {
		raw.Host = &f.host
	}
	if changed(profile.FieldPort) {
		raw.Port = nil
		if port, err := strconv.Atoi(f.port); err == nil {
			raw.Port = &port
		}
	}
	if changed(profile.FieldEncryption) {
		raw.Encryption = &f.encryption
	}
	if changed(profile.FieldPassword) {
		raw.Password = &f.password
	}
	if changed(profile.FieldOTA) {
		raw.OTA = &f.ota
	}
	return raw, nil
}

// newFormDefaults is what an empty add form starts with.
func newFormDefaults() profile.RawFields {
	typ := model.ProxyTypeShadowsocks.String()
	enc := profile.DefaultCipher
	return profile.RawFields{Type: &typ, Encryption: &enc}
}
