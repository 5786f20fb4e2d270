package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/adapters/scheme"
	"github.com/layer-3/x403auth/core"
	"github.com/mr-tron/base58"
)

// Handlers contains the example application's HTTP handlers
type Handlers struct{}

// NewHandlers creates the example handlers
func NewHandlers() *Handlers {
	return &Handlers{}
}

// Public is reachable without authentication
func (h *Handlers) Public(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "This is a public route"})
}

// Profile returns the wallet that signed the request
func (h *Handlers) Profile(c *gin.Context) {
	// Identity is set by the auth middleware
	identity, exists := IdentityFromGin(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Identity not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":    identity.WalletAddress,
		"publicKey": encodeKey(identity),
		"scheme":    identity.Scheme,
		"message":   "Access granted!",
	})
}

// encodeKey renders the key in the wallet's native address format
func encodeKey(identity core.Identity) string {
	if identity.Scheme == scheme.NameEVM {
		return common.BytesToAddress(identity.PublicKey).Hex()
	}
	return base58.Encode(identity.PublicKey)
}
