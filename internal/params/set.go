// Package params holds the parameter set handed to the template renderer and
// the rules for building it from defaults and user overrides.
package params

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Parameter names understood by the built-in template and the hooks.
const (
	KeyProjectName      = "project_name"
	KeyProjectSlug      = "project_slug"
	KeyPackageName      = "package_name"
	KeyAuthor           = "author"
	KeyAuthorEmail      = "author_email"
	KeyLicense          = "license"
	KeyProjectURL       = "project_url"
	KeyShortDescription = "project_short_description"
	KeyProjectHost      = "project_host"
	KeyCreateCIFile     = "create_ci_file"
	KeyHasCLI           = "has_cli"
	KeyCreateDate       = "create_date"
)

// Yes and No are the values of boolean-like parameters.
const (
	Yes = "y"
	No  = "n"
)

// DateLayout is the ISO-8601 calendar date layout used for create_date.
const DateLayout = time.DateOnly

// Set maps parameter names to values. A Set is treated as immutable once it
// has been validated; stages that need to change it work on a Clone.
type Set map[string]string

// Get returns the value for key, or "" when it is absent.
func (s Set) Get(key string) string {
	return s[key]
}

// Has reports whether key is present.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// IsYes reports whether a boolean-like parameter is set to "y".
func (s Set) IsYes(key string) bool {
	return s[key] == Yes
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	return maps.Clone(s)
}

// Keys returns the parameter names in sorted order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Defaults returns the built-in default parameters for a run started at now.
func Defaults(now time.Time) Set {
	return Set{
		KeyCreateDate: now.Format(DateLayout),
	}
}

// Merge overlays layers left to right: a key in a later layer replaces the
// same key from any earlier layer, keys absent from later layers keep their
// earlier value. None of the inputs is modified.
func Merge(layers ...Set) Set {
	merged := Set{}
	for _, layer := range layers {
		maps.Copy(merged, layer)
	}
	return merged
}

// FromMap converts a loosely typed mapping, as produced by config decoding,
// into a Set. Only scalar values are accepted.
func FromMap(m map[string]any) (Set, error) {
	s := make(Set, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			s[k] = val
		case bool:
			if val {
				s[k] = Yes
			} else {
				s[k] = No
			}
		case int, int64, float64, uint64:
			s[k] = fmt.Sprint(val)
		case nil:
			s[k] = ""
		default:
			return nil, fmt.Errorf("parameter %q: value of type %T is not a literal", k, v)
		}
	}
	return s, nil
}
