// Package hashid encodes numeric primary keys into opaque strings for use at
// API boundaries, and decodes them back.
package hashid

import (
	"errors"
	"fmt"
	"math"

	"github.com/speps/go-hashids/v2"
)

// ErrInvalidID is returned for strings that are not a valid encoding of one id
var ErrInvalidID = errors.New("invalid hashed id")

const defaultMinLength = 10

// Config holds encoder settings
type Config struct {
	Salt      string
	MinLength int
	Alphabet  string
}

// Encoder is a stateless, concurrency-safe id encoder
type Encoder struct {
	h *hashids.HashID
}

// New builds an encoder. A zero MinLength means 10.
func New(cfg Config) (*Encoder, error) {
	hd := hashids.NewData()
	hd.Salt = cfg.Salt
	hd.MinLength = cfg.MinLength
	if hd.MinLength <= 0 {
		hd.MinLength = defaultMinLength
	}
	if cfg.Alphabet != "" {
		hd.Alphabet = cfg.Alphabet
	}

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("failed to create hashids encoder: %w", err)
	}
	return &Encoder{h: h}, nil
}

// Encode returns the external form of id
func (e *Encoder) Encode(id uint64) string {
	if id > math.MaxInt64 {
		return ""
	}
	s, err := e.h.EncodeInt64([]int64{int64(id)})
	if err != nil {
		return ""
	}
	return s
}

// EncodeOptional encodes a nullable key; absent keys become the empty string
func (e *Encoder) EncodeOptional(id *uint64) string {
	if id == nil {
		return ""
	}
	return e.Encode(*id)
}

// Decode reverses Encode. Anything that does not round-trip to exactly one
// non-negative number is rejected with ErrInvalidID.
func (e *Encoder) Decode(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	nums, err := e.h.DecodeInt64WithError(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(nums) != 1 || nums[0] < 0 {
		return 0, fmt.Errorf("%w: expected exactly one id", ErrInvalidID)
	}
	id := uint64(nums[0])
	if e.Encode(id) != s {
		return 0, fmt.Errorf("%w: not canonical", ErrInvalidID)
	}
	return id, nil
}

// DecodeOptional decodes a nullable key; the empty string means absent
func (e *Encoder) DecodeOptional(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := e.Decode(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// DecodeMany decodes each string, returning the ids in input order with
// duplicates removed, plus the inputs that failed to decode.
func (e *Encoder) DecodeMany(in []string) ([]uint64, []string) {
	ids := make([]uint64, 0, len(in))
	var rejected []string
	seen := make(map[uint64]struct{}, len(in))
	for _, s := range in {
		id, err := e.Decode(s)
		if err != nil {
			rejected = append(rejected, s)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, rejected
}
