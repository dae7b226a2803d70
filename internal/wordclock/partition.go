package wordclock

// Partition reorders the cell indices so that lit cells occupy [0,split) and
// dark cells occupy [split,len(active)), each range in ascending order.
// perm[i] is the physical cell shown at logical position i.
func Partition(active []bool) (perm []int, split int) {
	perm = make([]int, 0, len(active))
	for i, on := range active {
		if on {
			perm = append(perm, i)
		}
	}
	split = len(perm)
	for i, on := range active {
		if !on {
			perm = append(perm, i)
		}
	}
	return perm, split
}
