package utils

import "testing"

func TestCleanIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"evpn_vpws_12345", "evpnvpws12345"},
		{"L2-Circuit 7", "l2circuit7"},
		{"12345_evpn", "str12345evpn"},
		{"___", "unknown"},
		{"", "unknown"},
		{"Ünïcode-x", "ncodex"},
	}
	for _, tt := range tests {
		if got := CleanIdentifier(tt.in, "unknown"); got != tt.want {
			t.Errorf("CleanIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	tests := map[string]bool{
		"1000":  true,
		"0":     true,
		"":      false,
		"10G":   false,
		"-100":  false,
		"1 000": false,
		"1.5":   false,
	}
	for in, want := range tests {
		if got := IsNumeric(in); got != want {
			t.Errorf("IsNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}
