package labelprune_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/abemedia/labelprune"
)

func TestResolvePattern(t *testing.T) {
	re := regexp.MustCompile("(?i)^feat_")

	tests := []struct {
		name string
		opts *labelprune.Options
		want string
	}{
		{name: "nil_options", opts: nil, want: labelprune.DefaultPrefix.String()},
		{name: "unset", opts: &labelprune.Options{}, want: labelprune.DefaultPrefix.String()},
		{name: "regexp", opts: &labelprune.Options{Prefix: labelprune.PrefixRegexp(re)}, want: "(?i)^feat_"},
		{name: "string", opts: &labelprune.Options{Prefix: labelprune.PrefixString("feat_")}, want: "feat_"},
		{name: "bad_string", opts: &labelprune.Options{Prefix: labelprune.PrefixString("[")}, want: labelprune.DefaultPrefix.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labelprune.Resolve(tt.opts).Pattern().String()
			if got != tt.want {
				t.Errorf("pattern = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveRegexpVerbatim(t *testing.T) {
	re := regexp.MustCompile("feat_")
	config := labelprune.Resolve(&labelprune.Options{Prefix: labelprune.PrefixRegexp(re)})
	if config.Pattern() != re {
		t.Error("compiled prefix was not used as is")
	}
}

func TestResolveCopiesMap(t *testing.T) {
	features := map[string]any{"bar": true}
	config := labelprune.Resolve(&labelprune.Options{Map: features})
	features["bar"] = false

	if action, _ := config.Decide("case$_bar"); action != labelprune.Unwrap {
		t.Errorf("action = %v after mutating the caller's map, want unwrap", action)
	}
}

func TestEnabled(t *testing.T) {
	type toggle bool
	type level int8

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{name: "nil", v: nil, want: false},
		{name: "true", v: true, want: true},
		{name: "false", v: false, want: false},
		{name: "empty_string", v: "", want: false},
		{name: "string", v: "false", want: true},
		{name: "zero_int", v: 0, want: false},
		{name: "int", v: 2, want: true},
		{name: "negative_int64", v: int64(-1), want: true},
		{name: "zero_uint64", v: uint64(0), want: false},
		{name: "zero_float", v: 0.0, want: false},
		{name: "float", v: 0.5, want: true},
		{name: "nan", v: math.NaN(), want: false},
		{name: "float32", v: float32(1), want: true},
		{name: "uint8_zero", v: uint8(0), want: false},
		{name: "named_int", v: level(3), want: true},
		{name: "map", v: map[string]any{}, want: true},
		{name: "slice", v: []any{}, want: true},
		{name: "named_bool", v: toggle(false), want: false},
		{name: "named_bool_true", v: toggle(true), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labelprune.Enabled(tt.v); got != tt.want {
				t.Errorf("Enabled(%#v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
