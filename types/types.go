package types

import (
	"github.com/zkmopro/anon-aadhaar-prover/circuit"
)

type QrDataPadded struct {
	Len     string   `toml:"len" json:"len"`
	Storage []string `toml:"storage" json:"storage"`
}

// ProverInput is the named input document of the circuit, as found in
// Prover.toml or in the JSON asset bundled with mobile apps.
type ProverInput struct {
	QrDataPadded       QrDataPadded `toml:"qrDataPadded" json:"qrDataPadded"`
	QrDataPaddedLength string       `toml:"qrDataPaddedLength" json:"qrDataPaddedLength"`
	DelimiterIndices   []string     `toml:"delimiterIndices" json:"delimiterIndices"`
	SignatureLimbs     []string     `toml:"signature_limbs" json:"signature_limbs"`
	ModulusLimbs       []string     `toml:"modulus_limbs" json:"modulus_limbs"`
	RedcLimbs          []string     `toml:"redc_limbs" json:"redc_limbs"`
	RevealGender       string       `toml:"revealGender" json:"revealGender"`
	RevealAgeAbove18   string       `toml:"revealAgeAbove18" json:"revealAgeAbove18"`
	RevealPinCode      string       `toml:"revealPinCode" json:"revealPinCode"`
	RevealState        string       `toml:"revealState" json:"revealState"`
	NullifierSeed      string       `toml:"nullifierSeed" json:"nullifierSeed"`
	SignalHash         string       `toml:"signalHash" json:"signalHash"`
}

func (p *ProverInput) byField() map[string][]string {
	return map[string][]string{
		"qrDataPadded.storage": p.QrDataPadded.Storage,
		"qrDataPadded.len":     {p.QrDataPadded.Len},
		"qrDataPaddedLength":   {p.QrDataPaddedLength},
		"delimiterIndices":     p.DelimiterIndices,
		"signature_limbs":      p.SignatureLimbs,
		"modulus_limbs":        p.ModulusLimbs,
		"redc_limbs":           p.RedcLimbs,
		"revealAgeAbove18":     {p.RevealAgeAbove18},
		"revealGender":         {p.RevealGender},
		"revealPinCode":        {p.RevealPinCode},
		"revealState":          {p.RevealState},
		"nullifierSeed":        {p.NullifierSeed},
		"signalHash":           {p.SignalHash},
	}
}

// Flatten lists the values in the canonical input order of the circuit.
// Arrays are copied as they are; a wrong length is reported by the encoder.
func (p *ProverInput) Flatten() []string {
	named := p.byField()
	out := make([]string, 0, circuit.SlotCount())
	for _, f := range circuit.Schema {
		out = append(out, named[f.Name]...)
	}
	return out
}
