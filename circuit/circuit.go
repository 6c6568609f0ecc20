// Package circuit defines the anon-aadhaar disclosure circuit: it verifies the
// RSA signature over an Aadhaar secure-QR payload, derives a nullifier and a
// public key hash from it and selectively reveals the age-above-18 flag,
// gender, pin code and state.
package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/lookup/logderivlookup"
	"github.com/consensys/gnark/std/math/bits"
	"github.com/consensys/gnark/std/rangecheck"
)

// AnonAadhaar is the circuit. The declaration order of the secret fields is
// the canonical witness order, see Schema.
type AnonAadhaar struct {
	QrDataPadded       [MaxDataLength]frontend.Variable
	QrDataLength       frontend.Variable
	QrDataPaddedLength frontend.Variable
	DelimiterIndices   [DelimiterCount]frontend.Variable
	SignatureLimbs     [LimbCount]frontend.Variable
	ModulusLimbs       [LimbCount]frontend.Variable
	RedcLimbs          [LimbCount]frontend.Variable
	RevealAgeAbove18   frontend.Variable
	RevealGender       frontend.Variable
	RevealPinCode      frontend.Variable
	RevealState        frontend.Variable

	NullifierSeed frontend.Variable `gnark:",public"`
	SignalHash    frontend.Variable `gnark:",public"`

	Nullifier  frontend.Variable `gnark:",public"`
	PubkeyHash frontend.Variable `gnark:",public"`
	AgeAbove18 frontend.Variable `gnark:",public"`
	Gender     frontend.Variable `gnark:",public"`
	PinCode    frontend.Variable `gnark:",public"`
	State      frontend.Variable `gnark:",public"`
}

// lookupTable is the part of logderivlookup.Table the circuit uses.
type lookupTable interface {
	Insert(frontend.Variable) int
	Lookup(...frontend.Variable) []frontend.Variable
}

func (c *AnonAadhaar) Define(api frontend.API) error {
	rc := rangecheck.New(api)

	var data lookupTable = logderivlookup.New(api)
	for i := range c.QrDataPadded {
		rc.Check(c.QrDataPadded[i], 8)
		data.Insert(c.QrDataPadded[i])
	}

	// len <= paddedLength <= MaxDataLength
	rc.Check(c.QrDataLength, LengthBits)
	rc.Check(api.Sub(c.QrDataPaddedLength, c.QrDataLength), LengthBits)
	rc.Check(api.Sub(MaxDataLength, c.QrDataPaddedLength), LengthBits)

	delimiters := data.Lookup(c.DelimiterIndices[:]...)
	for i := range delimiters {
		api.AssertIsEqual(delimiters[i], Delimiter)
		if i > 0 {
			rc.Check(api.Sub(c.DelimiterIndices[i], c.DelimiterIndices[i-1], 1), LengthBits)
		}
	}
	rc.Check(api.Sub(c.QrDataLength, c.DelimiterIndices[DelimiterCount-1], 1), LengthBits)

	// The reduction constant is carried for witness compatibility only.
	for i := 0; i < LimbCount; i++ {
		rc.Check(c.RedcLimbs[i], LimbBits)
	}
	if err := verifySignature(api, c.QrDataPadded[:], c.QrDataLength, c.SignatureLimbs[:], c.ModulusLimbs[:]); err != nil {
		return err
	}

	api.AssertIsBoolean(c.RevealAgeAbove18)
	api.AssertIsBoolean(c.RevealGender)
	api.AssertIsBoolean(c.RevealPinCode)
	api.AssertIsBoolean(c.RevealState)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.NullifierSeed)
	h.Write(c.SignatureLimbs[:]...)
	api.AssertIsEqual(c.Nullifier, h.Sum())

	h.Reset()
	h.Write(c.ModulusLimbs[:]...)
	api.AssertIsEqual(c.PubkeyHash, h.Sum())

	x := &extractor{api: api, data: data, delimiters: c.DelimiterIndices[:]}
	api.AssertIsEqual(c.AgeAbove18, api.Mul(c.RevealAgeAbove18, x.ageAbove18()))
	api.AssertIsEqual(c.Gender, api.Mul(c.RevealGender, x.gender()))
	api.AssertIsEqual(c.PinCode, api.Mul(c.RevealPinCode, x.pinCode()))
	api.AssertIsEqual(c.State, api.Mul(c.RevealState, x.state()))

	return nil
}

// extractor reads the delimited fields of the payload through the lookup table.
type extractor struct {
	api        frontend.API
	data       lookupTable
	delimiters []frontend.Variable
}

func (x *extractor) fieldStart(position int) frontend.Variable {
	return x.api.Add(x.delimiters[position-1], 1)
}

func (x *extractor) bytesAt(start frontend.Variable, n int) []frontend.Variable {
	idx := make([]frontend.Variable, n)
	for j := range idx {
		idx[j] = x.api.Add(start, j)
	}
	return x.data.Lookup(idx...)
}

// digits returns the numeric value of n ASCII digits starting at start.
func (x *extractor) digits(start frontend.Variable, n int) []frontend.Variable {
	b := x.bytesAt(start, n)
	for j := range b {
		b[j] = x.api.Sub(b[j], asciiZero)
	}
	return b
}

func (x *extractor) decimal(digits []frontend.Variable) frontend.Variable {
	var acc frontend.Variable = 0
	for _, d := range digits {
		acc = x.api.Add(x.api.Mul(acc, 10), d)
	}
	return acc
}

func (x *extractor) gender() frontend.Variable {
	return x.bytesAt(x.fieldStart(GenderPosition), 1)[0]
}

func (x *extractor) pinCode() frontend.Variable {
	return x.decimal(x.digits(x.fieldStart(PinCodePosition), PinCodeLength))
}

// state packs the state name little-endian. Bytes past the next delimiter
// are masked out.
func (x *extractor) state() frontend.Variable {
	api := x.api
	start := x.fieldStart(StatePosition)
	length := api.Sub(x.delimiters[StatePosition], start)

	b := x.bytesAt(start, StateMaxLength)
	var packed frontend.Variable = 0
	var active frontend.Variable = 1
	for j := range b {
		active = api.Mul(active, api.Sub(1, api.IsZero(api.Sub(length, j))))
		packed = api.Add(packed, api.Mul(active, b[j], new(big.Int).Lsh(big.NewInt(1), uint(8*j))))
	}
	return packed
}

// ageAbove18 compares the date of birth (DD-MM-YYYY) with the signing date
// embedded in the reference id (YYYYMMDD...).
func (x *extractor) ageAbove18() frontend.Variable {
	api := x.api

	dob := x.digits(x.fieldStart(DOBPosition), DOBLength)
	dobDay := x.decimal(dob[0:2])
	dobMonth := x.decimal(dob[3:5])
	dobYear := x.decimal(dob[6:10])

	ts := x.digits(api.Add(x.fieldStart(ReferenceIDPosition), TimestampOffset), 8)
	year := x.decimal(ts[0:4])
	month := x.decimal(ts[4:6])
	day := x.decimal(ts[6:8])

	pending := lessThan(api, monthDay(api, month, day), monthDay(api, dobMonth, dobDay))
	age := api.Sub(year, dobYear, pending)
	return api.Sub(1, lessThan(api, age, AdultAge))
}

func monthDay(api frontend.API, month, day frontend.Variable) frontend.Variable {
	return api.Add(api.Mul(month, 100), day)
}

// lessThan returns 1 if a < b, 0 otherwise. Both operands must fit compareBits.
func lessThan(api frontend.API, a, b frontend.Variable) frontend.Variable {
	shifted := api.Sub(api.Add(a, new(big.Int).Lsh(big.NewInt(1), compareBits)), b)
	d := bits.ToBinary(api, shifted, bits.WithNbDigits(compareBits+1))
	return api.Sub(1, d[compareBits])
}
