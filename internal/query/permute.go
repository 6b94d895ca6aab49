package query

// Permutations returns every ordering of tokens. The index matches token
// lists by order, so an exact set match needs one query per ordering. The
// result grows as n!; callers only use it for pairs.
func Permutations(tokens []string) [][]string {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) == 1 {
		return [][]string{{tokens[0]}}
	}

	var out [][]string
	for i, head := range tokens {
		rest := make([]string, 0, len(tokens)-1)
		rest = append(rest, tokens[:i]...)
		rest = append(rest, tokens[i+1:]...)
		for _, tail := range Permutations(rest) {
			perm := make([]string, 0, len(tokens))
			perm = append(perm, head)
			perm = append(perm, tail...)
			out = append(out, perm)
		}
	}
	return out
}
