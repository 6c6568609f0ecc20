package circuit

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/pkg/errors"
)

// ErrOutOfDocument is returned by Derive when a field lookup falls outside
// the padded payload or a date is not made of digits.
var ErrOutOfDocument = errors.New("field lookup outside the document")

// Inputs holds the private and public inputs of the circuit as field elements.
type Inputs struct {
	QrDataPadded       [MaxDataLength]fr.Element
	QrDataLength       fr.Element
	QrDataPaddedLength fr.Element
	DelimiterIndices   [DelimiterCount]fr.Element
	SignatureLimbs     [LimbCount]fr.Element
	ModulusLimbs       [LimbCount]fr.Element
	RedcLimbs          [LimbCount]fr.Element
	RevealAgeAbove18   fr.Element
	RevealGender       fr.Element
	RevealPinCode      fr.Element
	RevealState        fr.Element
	NullifierSeed      fr.Element
	SignalHash         fr.Element
}

// PublicSignals are the public values bound by a proof, in witness order.
type PublicSignals struct {
	NullifierSeed fr.Element
	SignalHash    fr.Element
	Nullifier     fr.Element
	PubkeyHash    fr.Element
	AgeAbove18    fr.Element
	Gender        fr.Element
	PinCode       fr.Element
	State         fr.Element
}

// Elements returns the signals in public witness order.
func (s *PublicSignals) Elements() [PublicCount]fr.Element {
	return [PublicCount]fr.Element{
		s.NullifierSeed, s.SignalHash, s.Nullifier, s.PubkeyHash,
		s.AgeAbove18, s.Gender, s.PinCode, s.State,
	}
}

// SignalsFromElements is the inverse of Elements.
func SignalsFromElements(e [PublicCount]fr.Element) PublicSignals {
	return PublicSignals{
		NullifierSeed: e[0],
		SignalHash:    e[1],
		Nullifier:     e[2],
		PubkeyHash:    e[3],
		AgeAbove18:    e[4],
		Gender:        e[5],
		PinCode:       e[6],
		State:         e[7],
	}
}

// Assign sets the public fields of c.
func (s *PublicSignals) Assign(c *AnonAadhaar) {
	c.NullifierSeed = toBig(&s.NullifierSeed)
	c.SignalHash = toBig(&s.SignalHash)
	c.Nullifier = toBig(&s.Nullifier)
	c.PubkeyHash = toBig(&s.PubkeyHash)
	c.AgeAbove18 = toBig(&s.AgeAbove18)
	c.Gender = toBig(&s.Gender)
	c.PinCode = toBig(&s.PinCode)
	c.State = toBig(&s.State)
}

// Assign returns a full assignment of the circuit: in as the private part,
// the public inputs of in and the given outputs as the public part.
func (in *Inputs) Assign(signals *PublicSignals) *AnonAadhaar {
	c := &AnonAadhaar{}
	for i := range in.QrDataPadded {
		c.QrDataPadded[i] = toBig(&in.QrDataPadded[i])
	}
	c.QrDataLength = toBig(&in.QrDataLength)
	c.QrDataPaddedLength = toBig(&in.QrDataPaddedLength)
	for i := range in.DelimiterIndices {
		c.DelimiterIndices[i] = toBig(&in.DelimiterIndices[i])
	}
	for i := 0; i < LimbCount; i++ {
		c.SignatureLimbs[i] = toBig(&in.SignatureLimbs[i])
		c.ModulusLimbs[i] = toBig(&in.ModulusLimbs[i])
		c.RedcLimbs[i] = toBig(&in.RedcLimbs[i])
	}
	c.RevealAgeAbove18 = toBig(&in.RevealAgeAbove18)
	c.RevealGender = toBig(&in.RevealGender)
	c.RevealPinCode = toBig(&in.RevealPinCode)
	c.RevealState = toBig(&in.RevealState)
	signals.Assign(c)
	return c
}

// Derive computes the public outputs the circuit constrains, natively.
// It does not check the other constraints; a proof over inputs that violate
// them fails in the backend.
func Derive(in *Inputs) (PublicSignals, error) {
	s := PublicSignals{
		NullifierSeed: in.NullifierSeed,
		SignalHash:    in.SignalHash,
	}

	var err error
	seeded := append([]fr.Element{in.NullifierSeed}, in.SignatureLimbs[:]...)
	if s.Nullifier, err = mimcHash(seeded); err != nil {
		return s, err
	}
	if s.PubkeyHash, err = mimcHash(in.ModulusLimbs[:]); err != nil {
		return s, err
	}

	x := &nativeExtractor{data: in.QrDataPadded[:], delimiters: in.DelimiterIndices[:]}

	age, err := x.ageAbove18()
	if err != nil {
		return s, errors.Wrap(err, "age above 18")
	}
	gender, err := x.gender()
	if err != nil {
		return s, errors.Wrap(err, "gender")
	}
	pin, err := x.pinCode()
	if err != nil {
		return s, errors.Wrap(err, "pin code")
	}
	state, err := x.state()
	if err != nil {
		return s, errors.Wrap(err, "state")
	}

	s.AgeAbove18.Mul(&in.RevealAgeAbove18, &age)
	s.Gender.Mul(&in.RevealGender, &gender)
	s.PinCode.Mul(&in.RevealPinCode, &pin)
	s.State.Mul(&in.RevealState, &state)
	return s, nil
}

func mimcHash(elems []fr.Element) (fr.Element, error) {
	var out fr.Element
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return out, errors.Wrap(err, "mimc")
		}
	}
	out.SetBytes(h.Sum(nil))
	return out, nil
}

type nativeExtractor struct {
	data       []fr.Element
	delimiters []fr.Element
}

func (x *nativeExtractor) fieldStart(position int) fr.Element {
	var s fr.Element
	one := fr.One()
	s.Add(&x.delimiters[position-1], &one)
	return s
}

func (x *nativeExtractor) bytesAt(start fr.Element, n int) ([]fr.Element, error) {
	out := make([]fr.Element, n)
	for j := range out {
		var idx fr.Element
		idx.SetUint64(uint64(j))
		idx.Add(&idx, &start)
		if !idx.IsUint64() || idx.Uint64() >= uint64(len(x.data)) {
			return nil, errors.Wrapf(ErrOutOfDocument, "index %s", idx.BigInt(new(big.Int)))
		}
		out[j] = x.data[idx.Uint64()]
	}
	return out, nil
}

func (x *nativeExtractor) digits(start fr.Element, n int) ([]fr.Element, error) {
	b, err := x.bytesAt(start, n)
	if err != nil {
		return nil, err
	}
	var zero fr.Element
	zero.SetUint64(asciiZero)
	for j := range b {
		b[j].Sub(&b[j], &zero)
	}
	return b, nil
}

func decimal(digits []fr.Element) fr.Element {
	var acc, ten fr.Element
	ten.SetUint64(10)
	for i := range digits {
		acc.Mul(&acc, &ten).Add(&acc, &digits[i])
	}
	return acc
}

func (x *nativeExtractor) gender() (fr.Element, error) {
	b, err := x.bytesAt(x.fieldStart(GenderPosition), 1)
	if err != nil {
		return fr.Element{}, err
	}
	return b[0], nil
}

func (x *nativeExtractor) pinCode() (fr.Element, error) {
	d, err := x.digits(x.fieldStart(PinCodePosition), PinCodeLength)
	if err != nil {
		return fr.Element{}, err
	}
	return decimal(d), nil
}

func (x *nativeExtractor) state() (fr.Element, error) {
	start := x.fieldStart(StatePosition)
	var length fr.Element
	length.Sub(&x.delimiters[StatePosition], &start)

	b, err := x.bytesAt(start, StateMaxLength)
	if err != nil {
		return fr.Element{}, err
	}
	var packed, weight, j, term fr.Element
	weight.SetOne()
	var base fr.Element
	base.SetUint64(256)
	for i := range b {
		j.SetUint64(uint64(i))
		if j.Equal(&length) {
			break
		}
		term.Mul(&b[i], &weight)
		packed.Add(&packed, &term)
		weight.Mul(&weight, &base)
	}
	return packed, nil
}

func (x *nativeExtractor) ageAbove18() (fr.Element, error) {
	dob, err := x.digits(x.fieldStart(DOBPosition), DOBLength)
	if err != nil {
		return fr.Element{}, err
	}
	dobDay, dobMonth, dobYear := decimal(dob[0:2]), decimal(dob[3:5]), decimal(dob[6:10])

	var tsStart, offset fr.Element
	offset.SetUint64(TimestampOffset)
	tsStart = x.fieldStart(ReferenceIDPosition)
	tsStart.Add(&tsStart, &offset)
	ts, err := x.digits(tsStart, 8)
	if err != nil {
		return fr.Element{}, err
	}
	year, month, day := decimal(ts[0:4]), decimal(ts[4:6]), decimal(ts[6:8])

	pending, err := nativeLessThan(nativeMonthDay(month, day), nativeMonthDay(dobMonth, dobDay))
	if err != nil {
		return fr.Element{}, err
	}
	var age, adult fr.Element
	age.Sub(&year, &dobYear).Sub(&age, &pending)
	adult.SetUint64(AdultAge)
	minor, err := nativeLessThan(age, adult)
	if err != nil {
		return fr.Element{}, err
	}
	var above fr.Element
	above.SetOne().Sub(&above, &minor)
	return above, nil
}

func nativeMonthDay(month, day fr.Element) fr.Element {
	var hundred, out fr.Element
	hundred.SetUint64(100)
	out.Mul(&month, &hundred).Add(&out, &day)
	return out
}

var compareOffset = func() fr.Element {
	var e fr.Element
	e.SetBigInt(new(big.Int).Lsh(big.NewInt(1), compareBits))
	return e
}()

// nativeLessThan mirrors lessThan, which is only satisfiable when
// a + 2^compareBits - b fits compareBits+1 bits.
func nativeLessThan(a, b fr.Element) (fr.Element, error) {
	var d fr.Element
	d.Add(&a, &compareOffset).Sub(&d, &b)
	v := d.BigInt(new(big.Int))
	if v.BitLen() > compareBits+1 {
		return fr.Element{}, errors.Wrapf(ErrOutOfDocument, "comparison operand out of range: %s", v)
	}
	var out fr.Element
	if v.Bit(compareBits) == 0 {
		out.SetOne()
	}
	return out, nil
}
