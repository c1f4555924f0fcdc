package flhash

import (
	"encoding/binary"
	"hash"
	"math/bits"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EntityHasher calculates the 32-bit hash the game uses for ships,
// commodities, bases and almost every other nickname.
type EntityHasher struct {
	table *EntityTable
}

// NewEntityHasher returns a hasher reading the given table. A nil table is
// generated on the spot.
func NewEntityHasher(table *EntityTable) *EntityHasher {
	if table == nil {
		t := BuildEntityTable()
		table = &t
	}
	return &EntityHasher{table: table}
}

// Table returns the lookup table the hasher reads. It must not be modified.
func (h *EntityHasher) Table() *EntityTable {
	return h.table
}

// Hash returns the entity hash of nickname, or an undefined value when the
// nickname is empty.
func (h *EntityHasher) Hash(nickname string) Optional[uint32] {
	if nickname == "" {
		return NewUndefined[uint32]()
	}
	d := h.NewDigest()
	d.Write([]byte(normalize(nickname)))
	return NewDefined(d.Sum32())
}

// NewDigest returns a streaming entity hash over raw bytes. The input is
// hashed as is, callers wanting nickname semantics must lowercase it first.
func (h *EntityHasher) NewDigest() *EntityDigest {
	return &EntityDigest{table: h.table}
}

// EntityDigest is the hash.Hash32 form of the entity hash.
type EntityDigest struct {
	table *EntityTable
	sum   uint32
}

var _ hash.Hash32 = (*EntityDigest)(nil)

func (d *EntityDigest) Size() int      { return 4 }
func (d *EntityDigest) BlockSize() int { return 1 }
func (d *EntityDigest) Reset()         { d.sum = 0 }

func (d *EntityDigest) Write(p []byte) (int, error) {
	sum := d.sum
	for _, b := range p {
		sum = (sum >> 8) ^ d.table[byte(sum)^b]
	}
	d.sum = sum
	return len(p), nil
}

// Sum32 returns the finalized hash: the register is byte-swapped, its low two
// bits dropped and the top bit set.
func (d *EntityDigest) Sum32() uint32 {
	return bits.ReverseBytes32(d.sum)>>2 | 0x80000000
}

func (d *EntityDigest) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, d.Sum32())
}

// normalize lowercases a nickname the way the game does before hashing.
// A Caser is stateful, so one is created per call.
func normalize(nickname string) string {
	return cases.Lower(language.Und).String(nickname)
}

var sharedEntity = sync.OnceValue(func() *EntityHasher {
	return NewEntityHasher(nil)
})

// DefaultEntityHasher returns the process-wide entity hasher. Its table is
// generated on first use and never changes afterwards.
func DefaultEntityHasher() *EntityHasher {
	return sharedEntity()
}

// EntityHash calculates the entity hash of nickname with the default hasher.
func EntityHash(nickname string) Optional[uint32] {
	return sharedEntity().Hash(nickname)
}
