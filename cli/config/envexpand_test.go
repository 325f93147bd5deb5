package config

import (
	"slices"
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("DC_SET", "hello")
	t.Setenv("DC_EMPTY", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set var", "value: ${DC_SET}", "value: hello"},
		{"unset var", "value: ${DC_UNSET_12345}", "value: "},
		{"default when unset", "value: ${DC_UNSET_12345:-fallback}", "value: fallback"},
		{"default ignored when set", "value: ${DC_SET:-fallback}", "value: hello"},
		{"default when empty", "value: ${DC_EMPTY:-fallback}", "value: fallback"},
		{"multiple", "${DC_SET}/${DC_UNSET_12345:-x}", "hello/x"},
		{"no pattern", "plain $DC_SET text", "plain $DC_SET text"},
		{"default with colon", "${DC_UNSET_12345:-redis://localhost:6379}", "redis://localhost:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandEnv_ReportsUnset(t *testing.T) {
	t.Setenv("DC_SET", "x")

	_, unset := expandEnv("${DC_B_UNSET} ${DC_SET} ${DC_A_UNSET} ${DC_B_UNSET} ${DC_C_UNSET:-d}")
	want := []string{"DC_A_UNSET", "DC_B_UNSET"}
	if !slices.Equal(unset, want) {
		t.Errorf("unset = %v, want %v", unset, want)
	}
}
