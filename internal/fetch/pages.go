package fetch

// PageOffsets returns the skip offset of every page needed to cover total
// records at pageSize records per page.
func PageOffsets(total int64, pageSize int) []int {
	if total <= 0 || pageSize <= 0 {
		return nil
	}
	size := int64(pageSize)
	pages := (total + size - 1) / size

	offsets := make([]int, 0, pages)
	for i := int64(0); i < pages; i++ {
		offsets = append(offsets, int(i*size))
	}
	return offsets
}
