package regmap

import "math/bits"

// defaultAddressMask returns the widest run of low-order one bits that shares
// no set bit with addr: every bit below the lowest set bit of addr. An
// address of zero yields the all-ones mask.
func defaultAddressMask(addr uint32) uint32 {
	if addr == 0 {
		return 0xFFFFFFFF
	}
	return uint32(1)<<bits.TrailingZeros32(addr) - 1
}
