package eth

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewLocalSigner(key)

	msg := []byte("GET\n/api/profile\nc\nc")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[64])

	addr, err := RecoverAddress(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), addr)

	ok, err := VerifySignatureAgainstAddress(msg, sig, signer.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySignatureAgainstAddress([]byte("other"), sig, signer.Address())
	if err == nil {
		assert.False(t, ok)
	}
}

func TestRecoverAddressRejectsMalformed(t *testing.T) {
	_, err := RecoverAddress([]byte("m"), []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedSignature)

	sig := make([]byte, SignatureLength)
	sig[64] = 40
	_, err = RecoverAddress([]byte("m"), sig)
	assert.ErrorIs(t, err, ErrMalformedSignature)

	ok, err := VerifySignatureAgainstAddress([]byte("m"), []byte{}, common.Address{})
	assert.Error(t, err)
	assert.False(t, ok)
}
