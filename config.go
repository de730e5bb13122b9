package labelprune

import (
	"maps"
	"math"
	"reflect"
	"regexp"
)

// DefaultPrefix is the label pattern used when no prefix is configured.
// It matches labels beginning with the literal text "case$_".
var DefaultPrefix = regexp.MustCompile(`^case\$_`)

type prefixKind uint8

const (
	prefixUnset prefixKind = iota
	prefixRegexp
	prefixString
)

// Prefix selects the pattern a label must match to be handled.
// The zero value selects DefaultPrefix.
type Prefix struct {
	kind prefixKind
	re   *regexp.Regexp
	src  string
}

// PrefixRegexp returns a Prefix that uses re as is. The caller is responsible
// for anchoring and flags.
func PrefixRegexp(re *regexp.Regexp) Prefix {
	return Prefix{kind: prefixRegexp, re: re}
}

// PrefixString returns a Prefix compiled from src at resolution time. No
// anchoring is added beyond what src itself expresses.
func PrefixString(src string) Prefix {
	return Prefix{kind: prefixString, src: src}
}

// resolve returns the concrete pattern for p. It never fails: anything that
// does not yield a usable pattern falls back to DefaultPrefix.
func (p Prefix) resolve() *regexp.Regexp {
	switch p.kind {
	case prefixRegexp:
		if p.re != nil {
			return p.re
		}
	case prefixString:
		if re, err := regexp.Compile(p.src); err == nil {
			return re
		}
	}
	return DefaultPrefix
}

// Options holds the caller supplied settings for a rewrite.
type Options struct {
	// Prefix selects which labels are acted upon. The feature key of a
	// matching label is the label with the first match removed.
	Prefix Prefix

	// Map maps feature keys to enablement values. Values are interpreted
	// with Enabled. A nil map disables every feature.
	Map map[string]any

	// KeepImports disables removal of imports that become unused after
	// labeled statements are pruned.
	KeepImports bool
}

// Config is the resolved, read-only form of Options.
type Config struct {
	pattern     *regexp.Regexp
	features    map[string]any
	keepImports bool
}

// Resolve turns opts into a Config. A nil opts is treated as the zero
// Options value.
func Resolve(opts *Options) *Config {
	if opts == nil {
		opts = &Options{}
	}
	features := maps.Clone(opts.Map)
	if features == nil {
		features = map[string]any{}
	}
	return &Config{
		pattern:     opts.Prefix.resolve(),
		features:    features,
		keepImports: opts.KeepImports,
	}
}

// Pattern returns the resolved label pattern.
func (c *Config) Pattern() *regexp.Regexp { return c.pattern }

// Enabled reports whether a feature map value switches its feature on.
//
// nil, false, the empty string, zero and NaN are disabled. Every other value
// is enabled.
func Enabled(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() != 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}
