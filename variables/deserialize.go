// Package variables turns the ordered list of decimal inputs handed over by
// a host application into a circuit witness.
package variables

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
)

var (
	ErrSlotCount    = errors.New("wrong number of inputs")
	ErrFieldElement = errors.New("not a base-10 field element")
)

// Encode assigns values to the circuit slots in the order of circuit.Schema
// and derives the public outputs.
func Encode(values []string) (*Assignment, error) {
	if want := circuit.SlotCount(); len(values) != want {
		return nil, zkerr.Encoding("encode witness",
			errors.Wrapf(ErrSlotCount, "got %d, want %d", len(values), want))
	}

	a := &Assignment{}
	i := 0
	for _, f := range circuit.Schema {
		for offset, slot := range f.Slots(&a.Inputs) {
			if err := parseElement(values[i], slot); err != nil {
				return nil, zkerr.Encoding("encode witness",
					errors.Wrapf(err, "%s[%d] (input %d)", f.Name, offset, i))
			}
			i++
		}
	}

	signals, err := circuit.Derive(&a.Inputs)
	if err != nil {
		return nil, zkerr.Encoding("derive public signals", err)
	}
	a.Signals = signals
	return a, nil
}

// Describe names the schema field and element offset of input slot index.
func Describe(index int) (string, int, bool) {
	f, offset, ok := circuit.Locate(index)
	if !ok {
		return "", 0, false
	}
	return f.Name, offset, true
}

func parseElement(s string, dst *fr.Element) error {
	if s == "" {
		return errors.Wrap(ErrFieldElement, "empty")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return errors.Wrapf(ErrFieldElement, "%q", s)
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return errors.Wrapf(ErrFieldElement, "%q", s)
	}
	if v.Cmp(fr.Modulus()) >= 0 {
		return errors.Wrapf(ErrFieldElement, "%q exceeds the field modulus", s)
	}
	dst.SetBigInt(v)
	return nil
}
