package ports

// Scheme couples a wallet address format with its signature algorithm
type Scheme interface {
	// Name identifies the scheme in identities and logs
	Name() string

	// ParseWallet decodes an address into key material, failing on malformed input
	ParseWallet(address string) ([]byte, error)

	// Verify reports whether sig is valid for message under publicKey.
	// It must return false rather than panic on malformed input.
	Verify(publicKey, message, sig []byte) bool
}
