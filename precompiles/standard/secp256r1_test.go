package standard

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecp256R1VerifyGasIsFlat(t *testing.T) {
	var c Secp256R1Verify
	require.Equal(t, Secp256R1VerifyGas, c.RequiredGas(nil))
}

func TestSecp256R1VerifyRejectsShortInput(t *testing.T) {
	var c Secp256R1Verify
	out, err := c.Run(make([]byte, 159))
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestSecp256R1VerifyAcceptsValidSignature(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("message"))
	r, s, err := ecdsa.Sign(rand.Reader, priv, hash[:])
	require.NoError(t, err)

	in := make([]byte, 160)
	copy(in[0:32], hash[:])
	rb := r.Bytes()
	copy(in[64-len(rb):64], rb)
	sb := s.Bytes()
	copy(in[96-len(sb):96], sb)
	xb := priv.PublicKey.X.Bytes()
	copy(in[128-len(xb):128], xb)
	yb := priv.PublicKey.Y.Bytes()
	copy(in[160-len(yb):160], yb)

	var c Secp256R1Verify
	out, err := c.Run(in)
	require.NoError(t, err)
	require.Equal(t, byte(1), out[31])
}
