// Package labelprune rewrites Go source by keeping, unwrapping, or removing
// labeled statements whose label follows a naming convention.
//
// A label is handled when it matches the configured prefix pattern. The
// feature key is the label with the first match removed, and the key is
// looked up in a feature map:
//   - Enabled feature: the label is dropped and its statement is kept in place.
//   - Disabled or unknown feature: the labeled statement is removed entirely.
//   - Labels that do not match the pattern are left alone.
//
// For example, with the prefix "^feature_" and the map {"fast": true}:
//
//	feature_fast:
//		{
//			useFastPath()
//		}
//	feature_legacy:
//		{
//			useLegacyPath()
//		}
//
// becomes:
//
//	{
//		useFastPath()
//	}
//
// The default prefix matches labels beginning with "case$_". Since Go
// identifiers cannot contain '$', Go sources need an explicit prefix.
//
// Basic usage:
//
//	opts := &labelprune.Options{
//		Prefix: labelprune.PrefixString("^feature_"),
//		Map:    map[string]any{"fast": true},
//	}
//	out, err := labelprune.Format(src, opts)
//
// Imports that were used before the rewrite and are unused afterwards are
// removed unless Options.KeepImports is set. References to removed labels
// (break, continue, goto) are not rewritten.
package labelprune
