package profile

// Ciphers is the closed set of Shadowsocks encryption methods a profile may
// name. Order is display order only.
var Ciphers = []string{
	"rc4-md5",
	"table",
	"salsa20",
	"chacha20",
	"aes-256-cfb",
	"aes-192-cfb",
	"aes-128-cfb",
	"bf-cfb",
	"cast5-cfb",
	"des-cfb",
	"rc2-cfb",
	"rc4",
	"seed-cfb",
}

// DefaultCipher is preselected when a new shadowsocks profile is started.
var DefaultCipher = Ciphers[0]

var supportedCiphers = func() map[string]bool {
	m := make(map[string]bool, len(Ciphers))
	for _, c := range Ciphers {
		m[c] = true
	}
	return m
}()

func IsSupportedCipher(method string) bool {
	return supportedCiphers[method]
}
