package timelock

import "strconv"

// Amount is a quantity of escrowable value, in the smallest indivisible
// unit of whatever currency the surrounding system settles in. Amounts are
// never negative; all arithmetic on them is guarded by prior validation.
type Amount uint64

// String returns the decimal representation.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}
