package types

// DaysInWeek is the width of a weekly bitset.
const DaysInWeek = 7

// Bitsets are indexed from the left: position 0 is the most significant of
// the totalLen bits.

// IsBitSet reports whether position d of a totalLen-bit set is set.
// Positions outside [0, totalLen) are never set.
func IsBitSet(bits uint32, d, totalLen int) bool {
	if d < 0 || d >= totalLen {
		return false
	}
	return bits&(1<<(totalLen-1-d)) != 0
}

// SetBit returns bits with position index set.
func SetBit(bits uint32, index, totalLen int) uint32 {
	if index < 0 || index >= totalLen {
		return bits
	}
	return bits | 1<<(totalLen-1-index)
}

// SetDayOfWeek sets day d (0 is Sunday) in a weekly bitset.
func SetDayOfWeek(bits uint32, d int) uint32 { return SetBit(bits, d, DaysInWeek) }

// IsDayOfWeekSet reports whether day d (0 is Sunday) is set in a weekly bitset.
func IsDayOfWeekSet(bits uint32, d int) bool { return IsBitSet(bits, d, DaysInWeek) }
