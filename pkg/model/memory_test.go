package model

import "testing"

// TestMemory_String verifies the sbatch rendering of both units.
func TestMemory_String(t *testing.T) {
	if got := MB(100).String(); got != "100M" {
		t.Errorf("MB(100).String() = %q, want 100M", got)
	}
	if got := GB(4).String(); got != "4G" {
		t.Errorf("GB(4).String() = %q, want 4G", got)
	}
}

// TestParseMemory covers the round-trip and the rejection paths.
func TestParseMemory(t *testing.T) {
	tests := []struct {
		in      string
		want    Memory
		wantErr bool
	}{
		{"100M", MB(100), false},
		{"4G", GB(4), false},
		{"2g", GB(2), false},
		{" 512M ", MB(512), false},
		{"", Memory{}, true},
		{"M", Memory{}, true},
		{"100", Memory{}, true},
		{"100K", Memory{}, true},
		{"lotsG", Memory{}, true},
	}

	for _, tt := range tests {
		got, err := ParseMemory(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMemory(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMemory(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMemory(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
