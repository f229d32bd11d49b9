package store

import (
	"bytes"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
)

// viewEstimator is an idempotent-add unique-fingerprint estimator: a roaring
// bitmap over 32-bit folded fingerprint hashes. Adding the same fingerprint
// twice is a no-op by set semantics; error is bounded by hash collisions,
// which is zero for the small cardinalities the tests assert on.
type viewEstimator struct {
	bits *roaring.Bitmap
}

func newViewEstimator() *viewEstimator {
	return &viewEstimator{bits: roaring.New()}
}

func foldFingerprint(fingerprint string) uint32 {
	h := xxhash.Sum64String(fingerprint)
	return uint32(h>>32) ^ uint32(h)
}

func (e *viewEstimator) Add(fingerprint string) {
	e.bits.Add(foldFingerprint(fingerprint))
}

func (e *viewEstimator) Cardinality() int64 {
	return int64(e.bits.GetCardinality())
}

func (e *viewEstimator) ToBytes() ([]byte, error) {
	return e.bits.ToBytes()
}

func (e *viewEstimator) FromBytes(data []byte) error {
	_, err := e.bits.ReadFrom(bytes.NewReader(data))
	return err
}
