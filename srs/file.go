package srs

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/pkg/errors"
)

// File layout: magic, canonical size, Lagrange domain, then the canonical
// and Lagrange SRS, each prefixed with its byte length. All integers are
// big-endian uint64.
var magic = [8]byte{'A', 'A', 'D', 'S', 'R', 'S', '0', '1'}

var ErrCorrupt = errors.New("corrupt reference string file")

// maxSection bounds a section length read from disk before allocating.
const maxSection = 1 << 32

type header struct {
	Magic     [8]byte
	Canonical uint64
	Domain    uint64
}

func readFile(path string) (*ReferenceString, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(raw)

	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if h.Magic != magic {
		return nil, errors.Wrap(ErrCorrupt, "bad magic")
	}

	canonical, err := readSection(r)
	if err != nil {
		return nil, errors.Wrap(err, "canonical")
	}
	lagrange, err := readSection(r)
	if err != nil {
		return nil, errors.Wrap(err, "lagrange")
	}
	if uint64(len(canonical.Pk.G1)) != h.Canonical || uint64(len(lagrange.Pk.G1)) != h.Domain {
		return nil, errors.Wrapf(ErrCorrupt, "header announces %d/%d points, file has %d/%d",
			h.Canonical, h.Domain, len(canonical.Pk.G1), len(lagrange.Pk.G1))
	}
	return &ReferenceString{Canonical: canonical, Lagrange: lagrange}, nil
}

func readSection(r *bytes.Reader) (*kzg_bn254.SRS, error) {
	var n uint64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	if n > maxSection || n > uint64(r.Len()) {
		return nil, errors.Wrapf(ErrCorrupt, "section of %d bytes", n)
	}
	section := make([]byte, n)
	if _, err := io.ReadFull(r, section); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	var srs kzg_bn254.SRS
	if _, err := srs.ReadFrom(bytes.NewReader(section)); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}
	return &srs, nil
}

// writeFile replaces path atomically: readers see the old file or the new one.
func writeFile(path string, rs *ReferenceString) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	h := header{Magic: magic, Canonical: rs.CanonicalSize(), Domain: rs.Domain()}
	if err := binary.Write(w, binary.BigEndian, &h); err != nil {
		tmp.Close()
		return err
	}
	for _, srs := range []*kzg_bn254.SRS{rs.Canonical, rs.Lagrange} {
		var section bytes.Buffer
		if _, err := srs.WriteTo(&section); err != nil {
			tmp.Close()
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint64(section.Len())); err != nil {
			tmp.Close()
			return err
		}
		if _, err := section.WriteTo(w); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
