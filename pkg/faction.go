package flhash

import (
	"encoding/binary"
	"hash"
	"sync"
)

const factionSeed = 0xFFFF

// FactionHasher calculates the 16-bit hash used for faction (affiliation)
// nicknames.
type FactionHasher struct {
	table *FactionTable
}

// NewFactionHasher returns a hasher reading the given table. A nil table is
// generated on the spot.
func NewFactionHasher(table *FactionTable) *FactionHasher {
	if table == nil {
		t := BuildFactionTable()
		table = &t
	}
	return &FactionHasher{table: table}
}

func (h *FactionHasher) Table() *FactionTable {
	return h.table
}

// Hash returns the faction hash of nickname, or an undefined value when the
// nickname is empty.
func (h *FactionHasher) Hash(nickname string) Optional[uint16] {
	if nickname == "" {
		return NewUndefined[uint16]()
	}
	d := h.NewDigest()
	d.Write([]byte(normalize(nickname)))
	return NewDefined(d.Sum16())
}

// NewDigest returns a streaming faction hash over raw bytes.
func (h *FactionHasher) NewDigest() *FactionDigest {
	return &FactionDigest{table: h.table, sum: factionSeed}
}

// FactionDigest is the hash.Hash32 form of the faction hash. Only the low
// 16 bits of Sum32 are ever set.
type FactionDigest struct {
	table *FactionTable
	sum   uint16
}

var _ hash.Hash32 = (*FactionDigest)(nil)

func (d *FactionDigest) Size() int      { return 2 }
func (d *FactionDigest) BlockSize() int { return 1 }
func (d *FactionDigest) Reset()         { d.sum = factionSeed }

func (d *FactionDigest) Write(p []byte) (int, error) {
	sum := d.sum
	for _, b := range p {
		sum = (sum >> 8) ^ d.table[byte(sum)^b]
	}
	d.sum = sum
	return len(p), nil
}

func (d *FactionDigest) Sum16() uint16 {
	return d.sum
}

func (d *FactionDigest) Sum32() uint32 {
	return uint32(d.sum)
}

func (d *FactionDigest) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, d.sum)
}

var sharedFaction = sync.OnceValue(func() *FactionHasher {
	return NewFactionHasher(nil)
})

// DefaultFactionHasher returns the process-wide faction hasher.
func DefaultFactionHasher() *FactionHasher {
	return sharedFaction()
}

// FactionHash calculates the faction hash of nickname with the default hasher.
func FactionHash(nickname string) Optional[uint16] {
	return sharedFaction().Hash(nickname)
}
