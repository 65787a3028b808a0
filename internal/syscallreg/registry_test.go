package syscallreg

import (
	"path/filepath"
	"testing"
)

func intPtr(v int) *int { return &v }

func sampleRegistry() Registry {
	return Registry{
		{
			Subsystem: "fs",
			Syscalls: []Syscall{
				{Name: "open", Args: []Arg{{Name: "path", Type: "str"}}, Returns: Returns{Name: "fd", Type: "i32"}, Permission: "fs.read", ConstIdx: intPtr(0)},
				{Name: "close", Args: []Arg{{Name: "fd", Type: "i32"}}, Returns: Returns{Name: "ok", Type: "bool"}, Permission: "fs.read", ConstIdx: intPtr(1)},
			},
		},
		{
			Subsystem: "net",
			Syscalls: []Syscall{
				{Name: "connect", Args: nil, Returns: Returns{Name: "fd", Type: "i32"}, Permission: "net.connect"},
			},
		},
	}
}

func TestValidateAcceptsWellFormedRegistry(t *testing.T) {
	if err := Validate(sampleRegistry()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBadIdentifier(t *testing.T) {
	reg := sampleRegistry()
	reg[0].Syscalls[0].Name = "Open"
	if err := Validate(reg); err == nil {
		t.Fatalf("expected error for uppercase identifier")
	}
}

func TestValidateRejectsDuplicateName(t *testing.T) {
	reg := sampleRegistry()
	reg[0].Syscalls[1].Name = "open"
	if err := Validate(reg); err == nil {
		t.Fatalf("expected error for duplicate syscall name")
	}
}

func TestValidateRejectsConstIdxGap(t *testing.T) {
	reg := sampleRegistry()
	reg[0].Syscalls[1].ConstIdx = intPtr(5) // leaves a gap at 1..4
	if err := Validate(reg); err == nil {
		t.Fatalf("expected error for const_idx gap")
	}
}

func TestValidateRejectsDuplicateConstIdx(t *testing.T) {
	reg := sampleRegistry()
	reg[0].Syscalls[1].ConstIdx = intPtr(0)
	if err := Validate(reg); err == nil {
		t.Fatalf("expected error for duplicate const_idx")
	}
}

func TestAssignAllocatesNextFreeIndexInFileOrder(t *testing.T) {
	reg := sampleRegistry()
	allocated := Assign(reg)
	if len(allocated) != 1 || allocated[0] != "connect" {
		t.Fatalf("allocated = %v, want [connect]", allocated)
	}
	if reg[1].Syscalls[0].ConstIdx == nil || *reg[1].Syscalls[0].ConstIdx != 2 {
		t.Fatalf("connect const_idx = %v, want 2", reg[1].Syscalls[0].ConstIdx)
	}
}

func TestAssignIsNoopWhenEveryEntryHasAnIndex(t *testing.T) {
	reg := sampleRegistry()
	reg[1].Syscalls[0].ConstIdx = intPtr(2)
	allocated := Assign(reg)
	if len(allocated) != 0 {
		t.Fatalf("allocated = %v, want none", allocated)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syscalls.json")

	reg := sampleRegistry()
	if err := Save(path, reg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(reg) {
		t.Fatalf("loaded %d subsystems, want %d", len(loaded), len(reg))
	}
	if loaded[0].Syscalls[0].Name != "open" {
		t.Fatalf("loaded[0].Syscalls[0].Name = %q, want open", loaded[0].Syscalls[0].Name)
	}
	if loaded[1].Syscalls[0].ConstIdx != nil {
		t.Fatalf("connect should still have no const_idx after a plain round trip")
	}
}
