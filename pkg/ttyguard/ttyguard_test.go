package ttyguard

import "testing"

func TestShouldSuppressTTYQueries(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		envJSON bool
		envTest bool
		want    bool
	}{
		{"tui", []string{"sentiboard"}, false, false, false},
		{"json flag", []string{"sentiboard", "rank", "--json"}, false, false, true},
		{"json with value", []string{"sentiboard", "summary", "--json=true"}, false, false, true},
		{"version", []string{"sentiboard", "version"}, false, false, true},
		{"help", []string{"sentiboard", "--help"}, false, false, true},
		{"env json", []string{"sentiboard"}, true, false, true},
		{"test mode", []string{"sentiboard"}, false, true, true},
		{"program name ignored", []string{"--json"}, false, false, false},
		{"text rank", []string{"sentiboard", "rank", "--top", "5"}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldSuppressTTYQueries(tt.args, tt.envJSON, tt.envTest); got != tt.want {
				t.Fatalf("ShouldSuppressTTYQueries(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
