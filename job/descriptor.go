package job

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
)

// Kind tags the two job variants sharing the registry.
type Kind string

const (
	// KindSimple is the direct Submitter→Executor path, no bidding.
	KindSimple Kind = "simple"
	// KindAuction is the reverse-auction path.
	KindAuction Kind = "auction"
)

// Descriptor is the full declaration of a call to be performed later:
// who to call, how much value to attach, and what to call it with.
// For auction jobs the committed value is the ceiling reward and Timeout
// bounds the execution window after the delay elapses.
type Descriptor struct {
	Kind      Kind            `json:"kind"`
	Target    id.AccountID    `json:"target"`
	Value     timelock.Amount `json:"value"`
	Signature string          `json:"signature,omitempty"`
	Payload   []byte          `json:"payload,omitempty"`
	Timeout   time.Duration   `json:"timeout,omitempty"`
}

// Fingerprint is the collision-resistant digest identifying a job by its
// descriptor. It is the registry's primary key.
type Fingerprint [32]byte

// Fingerprint computes the descriptor's digest. The encoding is
// length-prefixed and field-ordered, so it is sensitive to both argument
// order and content; collision resistance is delegated to SHA-256.
func (d Descriptor) Fingerprint() Fingerprint {
	h := sha256.New()

	// Kind tag first: simple and auction descriptors never alias even if
	// the remaining tuple happens to encode identically.
	writeBytes(h, []byte(d.Kind))
	writeBytes(h, []byte(d.Target.String()))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(d.Value))
	h.Write(buf[:])

	writeBytes(h, []byte(d.Signature))
	writeBytes(h, d.Payload)

	if d.Kind == KindAuction {
		binary.BigEndian.PutUint64(buf[:], uint64(d.Timeout))
		h.Write(buf[:])
	}

	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// writeBytes writes a big-endian length prefix followed by the bytes,
// keeping adjacent variable-length fields from bleeding into each other.
func writeBytes(h interface{ Write([]byte) (int, error) }, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	h.Write(n[:])
	h.Write(b)
}

// String returns the lowercase hex representation.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether the fingerprint is all zero bytes.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// ParseFingerprint parses the hex representation produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return fp, fmt.Errorf("job: parse fingerprint %q: %w", s, err)
	}
	if len(b) != len(fp) {
		return fp, fmt.Errorf("job: parse fingerprint %q: want %d bytes, got %d", s, len(fp), len(b))
	}
	copy(fp[:], b)
	return fp, nil
}

// selectorSize is the length of the call selector prefixed to the payload
// when a signature is present.
const selectorSize = 4

// Selector derives the 4-byte call selector from a signature string.
func Selector(signature string) [selectorSize]byte {
	sum := sha256.Sum256([]byte(signature))
	var sel [selectorSize]byte
	copy(sel[:], sum[:selectorSize])
	return sel
}

// CallData builds the bytes handed to the call dispatcher. An empty
// signature means the payload is the complete call data; otherwise the
// selector for the signature is prefixed to it.
func CallData(signature string, payload []byte) []byte {
	if signature == "" {
		return payload
	}
	sel := Selector(signature)
	data := make([]byte, 0, selectorSize+len(payload))
	data = append(data, sel[:]...)
	return append(data, payload...)
}
