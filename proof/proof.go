// Package proof serializes a PLONK proof together with the public signals it
// binds, so that a verifier needs nothing but the bytes.
//
// Layout: PublicCount field elements, the Bsb22 commitment count and the
// claimed value count (one byte each), then LRO, Z, H, the Bsb22
// commitments, the batched opening and the shifted opening. Points are
// compressed, field elements are 32-byte big-endian.
package proof

import (
	"bytes"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/plonk"
	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"
	"github.com/pkg/errors"
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
)

const (
	pointSize = bn254.SizeOfG1AffineCompressed
	maxCount  = 255

	headerSize = circuit.PublicCount*fr.Bytes + 2

	// MaxSize is the size of an envelope with the largest counts the header can hold.
	MaxSize = headerSize + (3+1+3+maxCount+1+1)*pointSize + (maxCount+1)*fr.Bytes
)

var (
	ErrEmpty     = errors.New("empty proof")
	ErrTooLarge  = errors.New("proof exceeds the maximum envelope size")
	ErrMalformed = errors.New("malformed proof")
)

// Envelope is a decoded proof.
type Envelope struct {
	Signals circuit.PublicSignals
	Proof   *plonk_bn254.Proof
}

// Encode serializes signals and p.
func Encode(signals *circuit.PublicSignals, p plonk.Proof) ([]byte, error) {
	proof, ok := p.(*plonk_bn254.Proof)
	if !ok {
		return nil, errors.Errorf("unsupported proof type %T", p)
	}
	if len(proof.Bsb22Commitments) > maxCount || len(proof.BatchedProof.ClaimedValues) > maxCount {
		return nil, errors.Wrap(ErrTooLarge, "too many commitments")
	}

	var buf bytes.Buffer
	for _, e := range signals.Elements() {
		b := e.Bytes()
		buf.Write(b[:])
	}
	buf.WriteByte(byte(len(proof.Bsb22Commitments)))
	buf.WriteByte(byte(len(proof.BatchedProof.ClaimedValues)))

	writePoint := func(p *bn254.G1Affine) {
		b := p.Bytes()
		buf.Write(b[:])
	}
	writeElement := func(e *fr.Element) {
		b := e.Bytes()
		buf.Write(b[:])
	}
	for i := range proof.LRO {
		writePoint(&proof.LRO[i])
	}
	writePoint(&proof.Z)
	for i := range proof.H {
		writePoint(&proof.H[i])
	}
	for i := range proof.Bsb22Commitments {
		writePoint(&proof.Bsb22Commitments[i])
	}
	writePoint(&proof.BatchedProof.H)
	for i := range proof.BatchedProof.ClaimedValues {
		writeElement(&proof.BatchedProof.ClaimedValues[i])
	}
	writePoint(&proof.ZShiftedOpening.H)
	writeElement(&proof.ZShiftedOpening.ClaimedValue)
	return buf.Bytes(), nil
}

// Size is the length of an envelope with the given counts.
func Size(nbCommitments, nbClaimed int) int {
	return headerSize + (3+1+3+nbCommitments+1+1)*pointSize + (nbClaimed+1)*fr.Bytes
}

// Decode parses an envelope. Every point must be on the curve and in the
// prime subgroup and every field element canonical.
func Decode(b []byte) (*Envelope, error) {
	if len(b) == 0 {
		return nil, ErrEmpty
	}
	if len(b) > MaxSize {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes", len(b))
	}
	if len(b) < headerSize {
		return nil, errors.Wrapf(ErrMalformed, "%d bytes is shorter than the header", len(b))
	}

	nbCommitments, nbClaimed := int(b[headerSize-2]), int(b[headerSize-1])
	if want := Size(nbCommitments, nbClaimed); len(b) != want {
		return nil, errors.Wrapf(ErrMalformed, "%d bytes, want %d", len(b), want)
	}

	d := decoder{buf: b}
	var signals [circuit.PublicCount]fr.Element
	for i := range signals {
		d.element(&signals[i])
	}
	d.off += 2

	p := &plonk_bn254.Proof{
		Bsb22Commitments: make([]bn254.G1Affine, nbCommitments),
	}
	p.BatchedProof.ClaimedValues = make([]fr.Element, nbClaimed)
	for i := range p.LRO {
		d.point(&p.LRO[i])
	}
	d.point(&p.Z)
	for i := range p.H {
		d.point(&p.H[i])
	}
	for i := range p.Bsb22Commitments {
		d.point(&p.Bsb22Commitments[i])
	}
	d.point(&p.BatchedProof.H)
	for i := range p.BatchedProof.ClaimedValues {
		d.element(&p.BatchedProof.ClaimedValues[i])
	}
	d.point(&p.ZShiftedOpening.H)
	d.element(&p.ZShiftedOpening.ClaimedValue)
	if d.err != nil {
		return nil, d.err
	}

	return &Envelope{Signals: circuit.SignalsFromElements(signals), Proof: p}, nil
}

// Signals decodes only the public signals of an envelope.
func Signals(b []byte) (circuit.PublicSignals, error) {
	env, err := Decode(b)
	if err != nil {
		return circuit.PublicSignals{}, err
	}
	return env.Signals, nil
}

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) point(p *bn254.G1Affine) {
	if d.err != nil {
		return
	}
	if _, err := p.SetBytes(d.buf[d.off : d.off+pointSize]); err != nil {
		d.err = errors.Wrapf(ErrMalformed, "point at offset %d: %v", d.off, err)
		return
	}
	d.off += pointSize
}

func (d *decoder) element(e *fr.Element) {
	if d.err != nil {
		return
	}
	if err := e.SetBytesCanonical(d.buf[d.off : d.off+fr.Bytes]); err != nil {
		d.err = errors.Wrapf(ErrMalformed, "field element at offset %d: %v", d.off, err)
		return
	}
	d.off += fr.Bytes
}
