package canusb

// Predefined bitrate codes for the S command.
var bitrateCodes = map[int]uint64{
	10000:   0,
	20000:   1,
	50000:   2,
	100000:  3,
	125000:  4,
	250000:  5,
	500000:  6,
	800000:  7,
	1000000: 8,
}

// BitrateCode returns the S-command code for a predefined bitrate.
func BitrateCode(bitrate int) (uint64, bool) {
	code, ok := bitrateCodes[bitrate]
	return code, ok
}

// BTR0/BTR1 register pairs for the predefined rates, SJA1000 at 16 MHz with
// SJW=1: bitrate = 16000000 / (2*(BRP+1)*(3+TSEG1+TSEG2)). Adapters are
// matched against this exact table; do not recompute the values.
var btrValues = map[int]uint16{
	10000:   0x711C,
	20000:   0x581C,
	50000:   0x491C,
	100000:  0x441C,
	125000:  0x431C,
	250000:  0x411C,
	500000:  0x401C,
	800000:  0x4016,
	1000000: 0x4014,
}

// BTRValue returns the 16-bit BTR0/BTR1 constant for a predefined bitrate,
// for use with the s command.
func BTRValue(bitrate int) (uint16, bool) {
	btr, ok := btrValues[bitrate]
	return btr, ok
}

// Bitrates lists the predefined bitrates in ascending order.
func Bitrates() []int {
	return []int{10000, 20000, 50000, 100000, 125000, 250000, 500000, 800000, 1000000}
}
