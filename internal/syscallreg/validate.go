package syscallreg

import "fmt"

// Validate checks every subsystem/syscall name is a valid identifier,
// that no two syscalls share a name, and that explicit ConstIdx values
// leave no gaps in [0, max]. It does not allocate indices; see Assign.
func Validate(reg Registry) error {
	seen := make(map[string]bool)
	var maxIdx = -1
	assigned := make(map[int]string)

	for _, sub := range reg {
		if !isValidIdent(sub.Subsystem) {
			return fmt.Errorf("subsystem %q: not a valid identifier", sub.Subsystem)
		}
		for _, sc := range sub.Syscalls {
			if !isValidIdent(sc.Name) {
				return fmt.Errorf("subsystem %q: syscall %q: not a valid identifier", sub.Subsystem, sc.Name)
			}
			if seen[sc.Name] {
				return fmt.Errorf("syscall %q: duplicate name", sc.Name)
			}
			seen[sc.Name] = true

			if sc.ConstIdx == nil {
				continue
			}
			idx := *sc.ConstIdx
			if idx < 0 {
				return fmt.Errorf("syscall %q: negative const_idx %d", sc.Name, idx)
			}
			if prev, dup := assigned[idx]; dup {
				return fmt.Errorf("syscall %q: const_idx %d already used by %q", sc.Name, idx, prev)
			}
			assigned[idx] = sc.Name
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}

	for idx := 0; idx <= maxIdx; idx++ {
		if _, ok := assigned[idx]; !ok {
			return fmt.Errorf("const_idx %d has no assigned syscall (gap in [0, %d])", idx, maxIdx)
		}
	}

	return nil
}

// isValidIdent reports whether name is a valid lowercase ASCII
// identifier, per original_source/api/src/main.rs's is_valid_ident:
// non-empty, already lowercase, starting with a letter or underscore,
// and containing only ASCII alphanumerics and underscores thereafter.
func isValidIdent(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if first != '_' && !isAsciiLower(first) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !isAsciiLower(c) && !isAsciiDigit(c) {
			return false
		}
	}
	return true
}

func isAsciiLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isAsciiDigit(c byte) bool { return c >= '0' && c <= '9' }
