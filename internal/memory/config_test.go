package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestResolveLimit(t *testing.T) {
	var gib = int64(1 << 30)

	tests := []struct {
		name    string
		env     map[string]string
		current int64
		want    Limit
	}{
		{
			name:    "nothing set",
			env:     map[string]string{},
			current: math.MaxInt64,
			want:    Limit{Source: SourceNone},
		},
		{
			name:    "GOMEMLIMIT wins",
			env:     map[string]string{"GOMEMLIMIT": "512MiB", "MEMORY_LIMIT": "1073741824"},
			current: 512 << 20,
			want:    Limit{Source: SourceGOMEMLIMIT, GoLimit: 512 << 20},
		},
		{
			name:    "GOMEMLIMIT off",
			env:     map[string]string{"GOMEMLIMIT": "off"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceGOMEMLIMIT},
		},
		{
			name:    "container default ratio",
			env:     map[string]string{"MEMORY_LIMIT": "1073741824"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceContainer, Container: gib, GoLimit: int64(float64(gib) * DefaultMemoryRatio), Ratio: DefaultMemoryRatio},
		},
		{
			name:    "container custom ratio",
			env:     map[string]string{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "0.5"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceContainer, Container: gib, GoLimit: gib / 2, Ratio: 0.5},
		},
		{
			name:    "ratio out of range",
			env:     map[string]string{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "1.5"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceContainer, Container: gib, GoLimit: int64(float64(gib) * DefaultMemoryRatio), Ratio: DefaultMemoryRatio},
		},
		{
			name:    "ratio not a number",
			env:     map[string]string{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "half"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceContainer, Container: gib, GoLimit: int64(float64(gib) * DefaultMemoryRatio), Ratio: DefaultMemoryRatio},
		},
		{
			name:    "invalid limit",
			env:     map[string]string{"MEMORY_LIMIT": "1Gi"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceNone},
		},
		{
			name:    "negative limit",
			env:     map[string]string{"MEMORY_LIMIT": "-5"},
			current: math.MaxInt64,
			want:    Limit{Source: SourceNone},
		},
		{
			name:    "empty values are unset",
			env:     map[string]string{"GOMEMLIMIT": "", "MEMORY_LIMIT": ""},
			current: math.MaxInt64,
			want:    Limit{Source: SourceNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveLimit(lookupFrom(tt.env), tt.current)
			if got != tt.want {
				t.Errorf("resolveLimit() = %+v, want %+v", got, tt.want)
			}
			if got.Configured() != (tt.want.GoLimit > 0) {
				t.Errorf("Configured() = %v", got.Configured())
			}
		})
	}
}

func TestConfigureFromEnvSetsRuntimeLimit(t *testing.T) {
	old := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(old) })

	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "2147483648")
	t.Setenv("MEMORY_RATIO", "0.5")

	l := ConfigureFromEnv()
	if l.Source != SourceContainer || l.GoLimit != 1<<30 {
		t.Fatalf("ConfigureFromEnv() = %+v", l)
	}
	if got := debug.SetMemoryLimit(-1); got != 1<<30 {
		t.Errorf("runtime limit = %d, want %d", got, int64(1<<30))
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{1 << 30, "1.0 GiB"},
		{3 << 40, "3.0 TiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
