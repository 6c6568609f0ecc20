package circuit

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Sizes of the fixed circuit. Changing any of them changes the bytecode.
const (
	// MaxDataLength is the number of storage cells of the padded QR payload.
	MaxDataLength = 1536
	// DelimiterCount is the number of 0xFF separators located by the prover.
	DelimiterCount = 17
	// LimbCount is the number of limbs of a 2048-bit RSA integer.
	LimbCount = 18
	// LimbBits is the width of one limb.
	LimbBits = 120
	// ModulusBits is the size of the issuer's RSA modulus.
	ModulusBits = 2048
	// LengthBits bounds every length and index of the payload.
	LengthBits = 16

	// Delimiter separates the fields of the QR payload.
	Delimiter = 255

	// Field positions in the QR payload. Field p starts right after delimiter p-1.
	ReferenceIDPosition = 2
	DOBPosition         = 4
	GenderPosition      = 5
	PinCodePosition     = 11
	StatePosition       = 13

	// The reference id starts with the last four Aadhaar digits, then the
	// signing timestamp as YYYYMMDDhhmmssSSS.
	TimestampOffset = 4
	// Date of birth is DD-MM-YYYY.
	DOBLength     = 10
	PinCodeLength = 6
	// StateMaxLength is the number of state name bytes that fit one field element.
	StateMaxLength = 31

	AdultAge = 18

	asciiZero = 48

	// compareBits bounds the operands of the in-circuit comparisons.
	compareBits = 32
)

// PublicCount is the number of public signals bound by a proof.
const PublicCount = 8

// Field is one named entry of the witness schema. Arity is the number of
// consecutive slots the field occupies.
type Field struct {
	Name  string
	Arity int

	bind func(in *Inputs) []*fr.Element
}

// Schema is the canonical input order of the circuit. Callers must supply
// values in exactly this order; it mirrors the field order of AnonAadhaar.
var Schema = []Field{
	{Name: "qrDataPadded.storage", Arity: MaxDataLength, bind: func(in *Inputs) []*fr.Element { return refs(in.QrDataPadded[:]) }},
	{Name: "qrDataPadded.len", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.QrDataLength) }},
	{Name: "qrDataPaddedLength", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.QrDataPaddedLength) }},
	{Name: "delimiterIndices", Arity: DelimiterCount, bind: func(in *Inputs) []*fr.Element { return refs(in.DelimiterIndices[:]) }},
	{Name: "signature_limbs", Arity: LimbCount, bind: func(in *Inputs) []*fr.Element { return refs(in.SignatureLimbs[:]) }},
	{Name: "modulus_limbs", Arity: LimbCount, bind: func(in *Inputs) []*fr.Element { return refs(in.ModulusLimbs[:]) }},
	{Name: "redc_limbs", Arity: LimbCount, bind: func(in *Inputs) []*fr.Element { return refs(in.RedcLimbs[:]) }},
	{Name: "revealAgeAbove18", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.RevealAgeAbove18) }},
	{Name: "revealGender", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.RevealGender) }},
	{Name: "revealPinCode", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.RevealPinCode) }},
	{Name: "revealState", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.RevealState) }},
	{Name: "nullifierSeed", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.NullifierSeed) }},
	{Name: "signalHash", Arity: 1, bind: func(in *Inputs) []*fr.Element { return refs1(&in.SignalHash) }},
}

// SlotCount is the total number of input values the circuit expects.
func SlotCount() int {
	n := 0
	for _, f := range Schema {
		n += f.Arity
	}
	return n
}

// Slots returns pointers to the slots of in that f occupies, in order.
func (f Field) Slots(in *Inputs) []*fr.Element {
	return f.bind(in)
}

// Locate maps a flat slot index to its schema field and the offset inside it.
func Locate(index int) (Field, int, bool) {
	if index < 0 {
		return Field{}, 0, false
	}
	for _, f := range Schema {
		if index < f.Arity {
			return f, index, true
		}
		index -= f.Arity
	}
	return Field{}, 0, false
}

func refs(s []fr.Element) []*fr.Element {
	out := make([]*fr.Element, len(s))
	for i := range s {
		out[i] = &s[i]
	}
	return out
}

func refs1(e *fr.Element) []*fr.Element {
	return []*fr.Element{e}
}

func toBig(e *fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}
