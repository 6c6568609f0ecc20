// Package srs sizes and caches the KZG structured reference string a circuit
// needs, cut from a fixed Source, and derives PLONK keys from it.
package srs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"
	"github.com/gofrs/flock"
	"github.com/karlseguin/ccache/v3"
	"github.com/pkg/errors"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/zkerr"
	"golang.org/x/sync/singleflight"
)

var ErrNotEnsured = errors.New("reference string was not ensured for this circuit")

// Size is the reference string a circuit needs: Domain Lagrange points and
// at least Canonical canonical points.
type Size struct {
	Domain    uint64
	Canonical uint64
}

// RequiredSize derives the size from the constraint system alone.
func RequiredSize(ccs constraint.ConstraintSystem) Size {
	n := ecc.NextPowerOfTwo(uint64(ccs.GetNbConstraints() + ccs.GetNbPublicVariables()))
	return Size{Domain: n, Canonical: n + 3}
}

// ReferenceString is a canonical KZG SRS and its Lagrange form.
type ReferenceString struct {
	Canonical *kzg_bn254.SRS
	Lagrange  *kzg_bn254.SRS
}

func (rs *ReferenceString) CanonicalSize() uint64 { return uint64(len(rs.Canonical.Pk.G1)) }

func (rs *ReferenceString) Domain() uint64 { return uint64(len(rs.Lagrange.Pk.G1)) }

// Fits reports whether rs can be used as is for a circuit of size s.
func (rs *ReferenceString) Fits(s Size) bool {
	return rs.CanonicalSize() >= s.Canonical && rs.Domain() == s.Domain
}

type loaded struct {
	rs      *ReferenceString
	size    int64
	modTime time.Time
}

// Manager owns the reference string files used by this process.
type Manager struct {
	source Source
	group  singleflight.Group
	loaded *ccache.Cache[*loaded]
	ttl    time.Duration

	// active is keyed by circuit digest and path
	mu     sync.RWMutex
	active map[string]*ReferenceString
}

type Option func(*Manager)

// WithCacheSize bounds the number of reference strings kept in memory.
func WithCacheSize(n int64) Option {
	return func(m *Manager) {
		m.loaded = ccache.New(ccache.Configure[*loaded]().MaxSize(n))
	}
}

// WithSource sets the setup the files are cut from. The default is
// Development(DevelopmentLabel).
func WithSource(s Source) Option {
	return func(m *Manager) {
		m.source = s
	}
}

// WithCacheTTL sets how long a loaded reference string is reused without
// reading the file again.
func WithCacheTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		ttl:    time.Hour,
		active: make(map[string]*ReferenceString),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loaded == nil {
		m.loaded = ccache.New(ccache.Configure[*loaded]().MaxSize(4))
	}
	if m.source == nil {
		m.source = Development(DevelopmentLabel)
	}
	return m
}

// Close stops the cache worker.
func (m *Manager) Close() {
	m.loaded.Stop()
}

// Ensure makes sure path holds a reference string large enough for c and
// binds it to c. A second call for the same circuit and path does not write.
func (m *Manager) Ensure(c *artifact.Circuit, path string) error {
	if path == "" {
		return zkerr.SRS("ensure srs", errors.New("empty srs path"))
	}
	size := RequiredSize(c.ConstraintSystem())
	key := fmt.Sprintf("%s#%d", path, size.Domain)
	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		return m.ensure(path, size)
	})
	if err != nil {
		return zkerr.SRS("ensure srs", err)
	}
	m.mu.Lock()
	m.active[activeKey(c, path)] = v.(*ReferenceString)
	m.mu.Unlock()
	return nil
}

func activeKey(c *artifact.Circuit, path string) string {
	return c.Digest() + "@" + path
}

func (m *Manager) ensure(path string, size Size) (*ReferenceString, error) {
	log := logger.Logger()

	if rs := m.cached(path, size); rs != nil {
		return rs, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create srs directory")
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrap(err, "failed to lock srs file")
	}
	defer lock.Unlock()

	origin, err := m.source.Origin()
	if err != nil {
		return nil, err
	}
	rs, err := readFile(path)
	switch {
	case err == nil && !sameOrigin(rs, &origin):
		log.Warn().Str("path", path).Msg("srs file comes from another setup, replacing")
		rs, err = m.build(size)
	case err == nil && rs.Fits(size):
		return m.remember(path, rs)
	case err == nil && rs.CanonicalSize() >= size.Canonical:
		log.Info().Str("path", path).Uint64("domain", size.Domain).Msg("deriving lagrange srs")
		rs, err = withLagrange(rs.Canonical, size)
	default:
		if err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("unusable srs file, rebuilding")
		}
		rs, err = m.build(size)
	}
	if err != nil {
		return nil, err
	}
	if err := writeFile(path, rs); err != nil {
		return nil, errors.Wrap(err, "failed to write srs file")
	}
	return m.remember(path, rs)
}

func (m *Manager) cached(path string, size Size) *ReferenceString {
	item := m.loaded.Get(path)
	if item == nil || item.Expired() {
		return nil
	}
	l := item.Value()
	info, err := os.Stat(path)
	if err != nil || info.Size() != l.size || !info.ModTime().Equal(l.modTime) || !l.rs.Fits(size) {
		return nil
	}
	return l.rs
}

func (m *Manager) remember(path string, rs *ReferenceString) (*ReferenceString, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	m.loaded.Set(path, &loaded{rs: rs, size: info.Size(), modTime: info.ModTime()}, m.ttl)
	return rs, nil
}

// build cuts a reference string of the given size from the source.
func (m *Manager) build(size Size) (*ReferenceString, error) {
	log := logger.Logger()
	start := time.Now()

	if d, ok := m.source.(*development); ok {
		log.Warn().Str("label", d.label).Msg("using the development srs, proofs are not sound against whoever knows the label")
	}
	canonical, err := m.source.Canonical(size.Canonical)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build srs")
	}
	rs, err := withLagrange(canonical, size)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	log.Info().Uint64("points", size.Canonical).Msg("Successfully built srs, time: " + elapsed.String())
	return rs, nil
}

func withLagrange(canonical *kzg_bn254.SRS, size Size) (*ReferenceString, error) {
	lagrange := &kzg_bn254.SRS{Vk: canonical.Vk}
	points, err := kzg_bn254.ToLagrangeG1(canonical.Pk.G1[:size.Domain])
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive lagrange srs")
	}
	lagrange.Pk.G1 = points
	return &ReferenceString{Canonical: canonical, Lagrange: lagrange}, nil
}

// Lookup returns the reference string bound to c and path by Ensure.
func (m *Manager) Lookup(c *artifact.Circuit, path string) (*ReferenceString, error) {
	m.mu.RLock()
	rs, ok := m.active[activeKey(c, path)]
	m.mu.RUnlock()
	if !ok {
		return nil, zkerr.SRS("lookup srs", ErrNotEnsured)
	}
	return rs, nil
}

// ProvingKey runs the PLONK setup of c against the reference string ensured
// at path.
func (m *Manager) ProvingKey(c *artifact.Circuit, path string) (plonk.ProvingKey, plonk.VerifyingKey, error) {
	rs, err := m.Lookup(c, path)
	if err != nil {
		return nil, nil, err
	}
	log := logger.Logger()
	start := time.Now()
	pk, vk, err := plonk.Setup(c.ConstraintSystem(), rs.Canonical, rs.Lagrange)
	if err != nil {
		return nil, nil, zkerr.Backend("plonk setup", err)
	}
	elapsed := time.Since(start)
	log.Debug().Msg("Successfully derived keys, time: " + elapsed.String())
	return pk, vk, nil
}

// VerificationKey derives the verifying key of c. It is a pure function of
// the bytecode and the source.
func (m *Manager) VerificationKey(c *artifact.Circuit, path string) (plonk.VerifyingKey, error) {
	_, vk, err := m.ProvingKey(c, path)
	return vk, err
}
