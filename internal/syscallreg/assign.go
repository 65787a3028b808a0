package syscallreg

// Assign allocates a ConstIdx to every syscall in reg that lacks one,
// in file order, taking the next index past the highest one already
// in use. The registry must already satisfy Validate's duplicate-name
// and no-gap checks (Assign does not re-validate; call Validate first).
// Returns the name of each syscall a new index was allocated to, in
// allocation order, so the caller can report what changed the way
// original_source/api/src/main.rs's println! did.
func Assign(reg Registry) []string {
	next := 0
	for _, sub := range reg {
		for _, sc := range sub.Syscalls {
			if sc.ConstIdx != nil && *sc.ConstIdx >= next {
				next = *sc.ConstIdx + 1
			}
		}
	}

	var allocated []string
	for i := range reg {
		for j := range reg[i].Syscalls {
			sc := &reg[i].Syscalls[j]
			if sc.ConstIdx == nil {
				idx := next
				sc.ConstIdx = &idx
				next++
				allocated = append(allocated, sc.Name)
			}
		}
	}
	return allocated
}
