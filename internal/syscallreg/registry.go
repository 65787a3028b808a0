// Package syscallreg loads, validates and re-serializes the syscall
// registry, the auxiliary tool described in spec.md §1 and grounded on
// original_source/api/src/main.rs's is_valid_ident/main shape: verify
// every subsystem and syscall name is a valid lowercase ASCII
// identifier, no two syscalls share a name, explicit const_idx values
// leave no gaps, and syscalls lacking one get the next free index
// allocated in file order.
package syscallreg

import (
	"encoding/json"
	"fmt"
	"os"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Arg is one (name, type) syscall parameter pair.
type Arg struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Returns is the (name, type) pair describing a syscall's return value.
type Returns struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Syscall is one named entry point within a subsystem.
type Syscall struct {
	Name        string  `json:"name"`
	Args        []Arg   `json:"args"`
	Returns     Returns `json:"returns"`
	Permission  string  `json:"permission"`
	ConstIdx    *int    `json:"const_idx"`
	Description *string `json:"description,omitempty"`
}

// Subsystem groups a set of related syscalls under one name.
type Subsystem struct {
	Subsystem   string    `json:"subsystem"`
	Description *string   `json:"description,omitempty"`
	Syscalls    []Syscall `json:"syscalls"`
}

// Registry is the full, ordered syscalls.json document.
type Registry []Subsystem

// ---------------------
// ----- functions -----
// ---------------------

// Load reads and decodes a registry from path.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return reg, nil
}

// Save re-serializes reg back to path with an indented encoder,
// mirroring serde_json::to_string_pretty's output shape.
func Save(path string, reg Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
