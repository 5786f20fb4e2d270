// Package client answers x403 challenges on behalf of a wallet.
//
// A Client sends the request unsigned, and when the server replies with a
// 403 challenge it signs METHOD, path, challenge and nonce with the wallet
// key and retries once with the x-auth-* headers set.
package client
