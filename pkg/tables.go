package flhash

const (
	// entityPolynomial is 0xA001 shifted into bits 14..29 of the 32-bit register.
	entityPolynomial  = 0xA001 << 14
	factionPolynomial = 0x1021
)

// EntityTable is the per-byte lookup table of the entity hash.
type EntityTable [256]uint32

// FactionTable is the per-byte lookup table of the faction hash.
type FactionTable [256]uint16

// BuildEntityTable generates the entity lookup table.
func BuildEntityTable() EntityTable {
	var table EntityTable
	for i := range table {
		x := uint32(i)
		for j := 0; j < 8; j++ {
			if x&1 != 0 {
				x = (x >> 1) ^ entityPolynomial
			} else {
				x >>= 1
			}
		}
		table[i] = x
	}
	return table
}

// BuildFactionTable generates the faction lookup table, which is the
// CRC16-CCITT (0x1021) table.
func BuildFactionTable() FactionTable {
	var table FactionTable
	for i := range table {
		y := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if y&0x8000 != 0 {
				y = (y << 1) ^ factionPolynomial
			} else {
				y <<= 1
			}
		}
		table[i] = y
	}
	return table
}
