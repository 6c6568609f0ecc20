package circuit

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/bits"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/pkg/errors"
)

// PublicExponent is the exponent of the issuer's RSA key.
const PublicExponent = 65537

// digestInfo is the DER header of a SHA-256 digest in an EMSA-PKCS1-v1_5 encoding.
var digestInfo = []byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
	0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

const digestSize = 32

// rsaParams parametrizes emulated arithmetic for variable moduli of up to
// ModulusBits bits.
type rsaParams struct{}

func (rsaParams) NbLimbs() uint     { return ModulusBits / 64 }
func (rsaParams) BitsPerLimb() uint { return 64 }
func (rsaParams) IsPrime() bool     { return false }
func (rsaParams) Modulus() *big.Int {
	one := big.NewInt(1)
	return new(big.Int).Sub(new(big.Int).Lsh(one, ModulusBits), one)
}

// verifySignature asserts that signature is a PKCS#1 v1.5 RSA signature
// under modulus of the SHA-256 digest of the first length bytes of data.
// The bytes of data must already be range checked.
func verifySignature(api frontend.API, data []frontend.Variable, length frontend.Variable, signature, modulus []frontend.Variable) error {
	h, err := sha2.New(api)
	if err != nil {
		return errors.Wrap(err, "new sha256")
	}
	in := make([]uints.U8, len(data))
	for i := range data {
		in[i] = uints.U8{Val: data[i]}
	}
	h.Write(in)
	digest := h.FixedLengthSum(length)

	f, err := emulated.NewField[rsaParams](api)
	if err != nil {
		return errors.Wrap(err, "new rsa field")
	}
	n := f.FromBits(limbBits(api, modulus)...)
	s := f.FromBits(limbBits(api, signature)...)

	// s^65537 = s^(2^16) * s
	r := s
	for i := 0; i < 16; i++ {
		r = f.ModMul(r, r, n)
	}
	r = f.ModMul(r, s, n)

	f.ModAssertIsEqual(r, f.FromBits(encodedBits(api, digest)...), n)
	return nil
}

// limbBits decomposes LimbBits-wide limbs into ModulusBits little-endian
// bits. The top limb is constrained to the bits left over.
func limbBits(api frontend.API, limbs []frontend.Variable) []frontend.Variable {
	out := make([]frontend.Variable, 0, ModulusBits)
	for i := range limbs {
		width := LimbBits
		if i == len(limbs)-1 {
			width = ModulusBits - (len(limbs)-1)*LimbBits
		}
		out = append(out, bits.ToBinary(api, limbs[i], bits.WithNbDigits(width))...)
	}
	return out
}

// encodedBits returns the little-endian bits of the encoded message
// 0x00 0x01 0xff.. 0x00 digestInfo digest.
func encodedBits(api frontend.API, digest []uints.U8) []frontend.Variable {
	out := make([]frontend.Variable, 0, ModulusBits)
	for i := len(digest) - 1; i >= 0; i-- {
		out = append(out, bits.ToBinary(api, digest[i].Val, bits.WithNbDigits(8))...)
	}
	prefix := encodedPrefix()
	for j := 0; j < ModulusBits-8*digestSize; j++ {
		out = append(out, int(prefix.Bit(j)))
	}
	return out
}

// encodedPrefix is the part of the encoded message above the digest.
func encodedPrefix() *big.Int {
	size := ModulusBits/8 - digestSize
	b := make([]byte, 0, size)
	b = append(b, 0x00, 0x01)
	b = append(b, bytes.Repeat([]byte{0xff}, size-3-len(digestInfo))...)
	b = append(b, 0x00)
	b = append(b, digestInfo...)
	return new(big.Int).SetBytes(b)
}
