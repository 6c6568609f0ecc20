package srs

import (
	"bytes"
	"crypto/sha256"
	"math/big"
	"os"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/pkg/errors"
)

// DevelopmentLabel seeds the setup used when no ceremony file is configured.
const DevelopmentLabel = "anon-aadhaar development srs v1"

var ErrSourceTooSmall = errors.New("srs source has too few points")

// Source yields the canonical SRS every reference string file is cut from.
// Files, paths and devices built from one source derive identical keys.
type Source interface {
	// Canonical returns the first n canonical points.
	Canonical(n uint64) (*kzg_bn254.SRS, error)
	// Origin identifies the setup. A file with another origin is replaced.
	Origin() (kzg_bn254.VerifyingKey, error)
}

// Development returns a setup whose secret is derived from label. Whoever
// knows the label can forge proofs: it is meant for tests and local runs.
func Development(label string) Source {
	sum := sha256.Sum256([]byte(label))
	var tau fr.Element
	tau.SetBytes(sum[:])
	d := &development{label: label}
	tau.BigInt(&d.tau)
	return d
}

type development struct {
	label string
	tau   big.Int
}

func (d *development) Canonical(n uint64) (*kzg_bn254.SRS, error) {
	return kzg_bn254.NewSRS(n, &d.tau)
}

func (d *development) Origin() (kzg_bn254.VerifyingKey, error) {
	srs, err := kzg_bn254.NewSRS(2, &d.tau)
	if err != nil {
		return kzg_bn254.VerifyingKey{}, err
	}
	return srs.Vk, nil
}

// Ceremony reads the canonical SRS of a trusted setup from path, in the
// gnark-crypto kzg encoding (compressed or raw). The file is read once.
func Ceremony(path string) Source {
	return &ceremony{path: path}
}

type ceremony struct {
	path string
	once sync.Once
	srs  *kzg_bn254.SRS
	err  error
}

func (c *ceremony) load() (*kzg_bn254.SRS, error) {
	c.once.Do(func() {
		raw, err := os.ReadFile(c.path)
		if err != nil {
			c.err = errors.Wrap(err, "failed to read srs source")
			return
		}
		var srs kzg_bn254.SRS
		if _, err := srs.ReadFrom(bytes.NewReader(raw)); err != nil {
			srs = kzg_bn254.SRS{}
			if _, rawErr := srs.UnsafeReadFrom(bytes.NewReader(raw)); rawErr != nil {
				c.err = errors.Wrap(err, "failed to decode srs source")
				return
			}
		}
		c.srs = &srs
	})
	return c.srs, c.err
}

func (c *ceremony) Canonical(n uint64) (*kzg_bn254.SRS, error) {
	srs, err := c.load()
	if err != nil {
		return nil, err
	}
	if uint64(len(srs.Pk.G1)) < n {
		return nil, errors.Wrapf(ErrSourceTooSmall, "need %d points, %s has %d", n, c.path, len(srs.Pk.G1))
	}
	return &kzg_bn254.SRS{Pk: kzg_bn254.ProvingKey{G1: srs.Pk.G1[:n]}, Vk: srs.Vk}, nil
}

func (c *ceremony) Origin() (kzg_bn254.VerifyingKey, error) {
	srs, err := c.load()
	if err != nil {
		return kzg_bn254.VerifyingKey{}, err
	}
	return srs.Vk, nil
}

func sameOrigin(rs *ReferenceString, origin *kzg_bn254.VerifyingKey) bool {
	vk := &rs.Canonical.Vk
	return vk.G1.Equal(&origin.G1) && vk.G2[0].Equal(&origin.G2[0]) && vk.G2[1].Equal(&origin.G2[1])
}
