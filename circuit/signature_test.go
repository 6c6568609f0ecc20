package circuit

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signatureCircuit struct {
	Data      [128]frontend.Variable
	Length    frontend.Variable
	Signature [LimbCount]frontend.Variable
	Modulus   [LimbCount]frontend.Variable
}

func (c *signatureCircuit) Define(api frontend.API) error {
	return verifySignature(api, c.Data[:], c.Length, c.Signature[:], c.Modulus[:])
}

func splitLimbs(v *big.Int) [LimbCount]frontend.Variable {
	var out [LimbCount]frontend.Variable
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), LimbBits), big.NewInt(1))
	rest := new(big.Int).Set(v)
	for i := range out {
		out[i] = new(big.Int).And(rest, mask)
		rest.Rsh(rest, LimbBits)
	}
	return out
}

type signedMessage struct {
	key       *rsa.PrivateKey
	message   []byte
	signature *big.Int
}

func signMessage(t *testing.T, n int) signedMessage {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, ModulusBits)
	require.NoError(t, err)
	message := make([]byte, n)
	for i := range message {
		message[i] = byte(i*7 + 3)
	}
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return signedMessage{key: key, message: message, signature: new(big.Int).SetBytes(sig)}
}

func (m signedMessage) assignment() *signatureCircuit {
	c := &signatureCircuit{Length: len(m.message)}
	for i := range c.Data {
		c.Data[i] = 0
		if i < len(m.message) {
			c.Data[i] = m.message[i]
		}
	}
	c.Signature = splitLimbs(m.signature)
	c.Modulus = splitLimbs(m.key.N)
	return c
}

func TestEncodedPrefixMatchesPKCS1(t *testing.T) {
	m := signMessage(t, 100)
	digest := sha256.Sum256(m.message)

	em := new(big.Int).Lsh(encodedPrefix(), 8*digestSize)
	em.Or(em, new(big.Int).SetBytes(digest[:]))

	got := new(big.Int).Exp(m.signature, big.NewInt(PublicExponent), m.key.N)
	assert.Equal(t, 0, em.Cmp(got))
}

func TestVerifySignature(t *testing.T) {
	field := Curve.ScalarField()
	m := signMessage(t, 100)

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, test.IsSolved(&signatureCircuit{}, m.assignment(), field))
	})

	t.Run("bytes past length are not signed", func(t *testing.T) {
		c := m.assignment()
		c.Data[120] = 42
		require.NoError(t, test.IsSolved(&signatureCircuit{}, c, field))
	})

	t.Run("tampered message", func(t *testing.T) {
		c := m.assignment()
		c.Data[10] = 0
		assert.Error(t, test.IsSolved(&signatureCircuit{}, c, field))
	})

	t.Run("shorter length", func(t *testing.T) {
		c := m.assignment()
		c.Length = 99
		assert.Error(t, test.IsSolved(&signatureCircuit{}, c, field))
	})

	t.Run("tampered signature", func(t *testing.T) {
		c := m.assignment()
		c.Signature = splitLimbs(new(big.Int).Add(m.signature, big.NewInt(1)))
		assert.Error(t, test.IsSolved(&signatureCircuit{}, c, field))
	})

	t.Run("other key", func(t *testing.T) {
		c := m.assignment()
		c.Modulus = splitLimbs(signMessage(t, 1).key.N)
		assert.Error(t, test.IsSolved(&signatureCircuit{}, c, field))
	})
}
