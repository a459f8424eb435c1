package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MemoryUnit is the unit suffix Slurm expects on --mem values.
type MemoryUnit string

const (
	MegaBytes MemoryUnit = "M"
	GigaBytes MemoryUnit = "G"
)

// Memory is a unit-tagged memory quantity for a job's --mem request.
type Memory struct {
	Amount int64
	Unit   MemoryUnit
}

// MB returns a Memory of n megabytes.
func MB(n int64) Memory {
	return Memory{Amount: n, Unit: MegaBytes}
}

// GB returns a Memory of n gigabytes.
func GB(n int64) Memory {
	return Memory{Amount: n, Unit: GigaBytes}
}

// String renders the quantity the way sbatch wants it, e.g. "100M" or "4G".
func (m Memory) String() string {
	return fmt.Sprintf("%d%s", m.Amount, m.Unit)
}

// IsPositive returns true when the amount is greater than zero.
func (m Memory) IsPositive() bool {
	return m.Amount > 0
}

// ParseMemory parses a quantity like "100M" or "4G". The suffix is required.
func ParseMemory(s string) (Memory, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Memory{}, fmt.Errorf("parse memory %q: want <amount><M|G>", s)
	}

	var unit MemoryUnit
	switch strings.ToUpper(s[len(s)-1:]) {
	case "M":
		unit = MegaBytes
	case "G":
		unit = GigaBytes
	default:
		return Memory{}, fmt.Errorf("parse memory %q: unknown unit %q", s, s[len(s)-1:])
	}

	amount, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil {
		return Memory{}, fmt.Errorf("parse memory %q: %w", s, err)
	}
	return Memory{Amount: amount, Unit: unit}, nil
}
