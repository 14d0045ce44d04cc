package screp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// HashAlgorithm selects the digest screp uses for the map data hash.
type HashAlgorithm string

const (
	HashSHA1   HashAlgorithm = "sha1"
	HashSHA256 HashAlgorithm = "sha256"
	HashSHA512 HashAlgorithm = "sha512"
	HashMD5    HashAlgorithm = "md5"
)

// Valid reports whether h is one of the algorithms screp accepts.
func (h HashAlgorithm) Valid() bool {
	switch h {
	case HashSHA1, HashSHA256, HashSHA512, HashMD5:
		return true
	}
	return false
}

// Option keys as they appear in JSON/YAML options documents.
const (
	KeyIncludeCommands             = "includeCommands"
	KeyIncludeComputedData         = "includeComputedData"
	KeyIncludeReplayHeader         = "includeReplayHeader"
	KeyIncludeMapData              = "includeMapData"
	KeyIncludeMapDataHash          = "includeMapDataHash"
	KeyIncludeMapGraphics          = "includeMapGraphics"
	KeyIncludeMapResourceLocations = "includeMapResourceLocations"
	KeyIncludeMapTiles             = "includeMapTiles"
	KeyMapDataHashAlgorithm        = "mapDataHashAlgorithm"
)

// Options selects which sections screp includes in its output.
// A nil flag is absent; Resolve fills absent flags from DefaultOptions.
type Options struct {
	IncludeCommands             *bool         `json:"includeCommands,omitempty" yaml:"includeCommands,omitempty"`
	IncludeComputedData         *bool         `json:"includeComputedData,omitempty" yaml:"includeComputedData,omitempty"`
	IncludeReplayHeader         *bool         `json:"includeReplayHeader,omitempty" yaml:"includeReplayHeader,omitempty"`
	IncludeMapData              *bool         `json:"includeMapData,omitempty" yaml:"includeMapData,omitempty"`
	IncludeMapDataHash          *bool         `json:"includeMapDataHash,omitempty" yaml:"includeMapDataHash,omitempty"`
	IncludeMapGraphics          *bool         `json:"includeMapGraphics,omitempty" yaml:"includeMapGraphics,omitempty"`
	IncludeMapResourceLocations *bool         `json:"includeMapResourceLocations,omitempty" yaml:"includeMapResourceLocations,omitempty"`
	IncludeMapTiles             *bool         `json:"includeMapTiles,omitempty" yaml:"includeMapTiles,omitempty"`
	MapDataHashAlgorithm        HashAlgorithm `json:"mapDataHashAlgorithm,omitempty" yaml:"mapDataHashAlgorithm,omitempty"`
}

// Bool returns a pointer to v, for filling Options literals.
func Bool(v bool) *bool { return &v }

func isTrue(b *bool) bool { return b != nil && *b }

// boolKeys lists the boolean option keys in table order.
var boolKeys = []string{
	KeyIncludeCommands,
	KeyIncludeComputedData,
	KeyIncludeReplayHeader,
	KeyIncludeMapData,
	KeyIncludeMapDataHash,
	KeyIncludeMapGraphics,
	KeyIncludeMapResourceLocations,
	KeyIncludeMapTiles,
}

// field returns the address of the boolean field for key.
func (o *Options) field(key string) **bool {
	switch key {
	case KeyIncludeCommands:
		return &o.IncludeCommands
	case KeyIncludeComputedData:
		return &o.IncludeComputedData
	case KeyIncludeReplayHeader:
		return &o.IncludeReplayHeader
	case KeyIncludeMapData:
		return &o.IncludeMapData
	case KeyIncludeMapDataHash:
		return &o.IncludeMapDataHash
	case KeyIncludeMapGraphics:
		return &o.IncludeMapGraphics
	case KeyIncludeMapResourceLocations:
		return &o.IncludeMapResourceLocations
	case KeyIncludeMapTiles:
		return &o.IncludeMapTiles
	}
	return nil
}

// AsMap returns the set options keyed by their document names.
func (o Options) AsMap() map[string]any {
	m := make(map[string]any, len(boolKeys)+1)
	for _, k := range boolKeys {
		if v := *o.field(k); v != nil {
			m[k] = *v
		}
	}
	if o.MapDataHashAlgorithm != "" {
		m[KeyMapDataHashAlgorithm] = string(o.MapDataHashAlgorithm)
	} else {
		m[KeyMapDataHashAlgorithm] = nil
	}
	return m
}

// DefaultOptions mirrors what screp does when run on a file without flags.
func DefaultOptions() Options {
	return Options{
		IncludeCommands:             Bool(false),
		IncludeComputedData:         Bool(true),
		IncludeReplayHeader:         Bool(true),
		IncludeMapData:              Bool(false),
		IncludeMapDataHash:          Bool(false),
		IncludeMapGraphics:          Bool(false),
		IncludeMapResourceLocations: Bool(false),
		IncludeMapTiles:             Bool(false),
	}
}

// Resolve overlays the set fields of o on DefaultOptions. It does not
// validate; call Validate on the caller's options first.
func Resolve(o Options) Options {
	out := DefaultOptions()
	for _, k := range boolKeys {
		if v := *o.field(k); v != nil {
			*out.field(k) = Bool(*v)
		}
	}
	if o.MapDataHashAlgorithm != "" {
		out.MapDataHashAlgorithm = o.MapDataHashAlgorithm
	}
	return out
}

// ErrInvalidOptions matches every *ValidationError.
var ErrInvalidOptions = errors.New("invalid screp options")

// Rule identifies which consistency check an options value failed.
type Rule int

// Rules in the order they are checked.
const (
	RuleHashWithoutAlgorithm Rule = iota + 1
	RuleAlgorithmWithoutHash
	RuleAlgorithmValue
	RuleMapGraphicsWithoutMap
	RuleMapResourcesWithoutMap
	RuleMapTilesWithoutMap
	RuleBooleanType
	RuleUnknownKey
)

// ValidationError reports the first rule an options value broke.
type ValidationError struct {
	Rule Rule
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidOptions }

func invalid(rule Rule, format string, args ...any) error {
	return &ValidationError{Rule: rule, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the cross-field rules of a typed options value and
// returns the first violation.
func Validate(o Options) error {
	return checkConsistency(
		isTrue(o.IncludeMapDataHash),
		string(o.MapDataHashAlgorithm),
		o.MapDataHashAlgorithm != "",
		isTrue(o.IncludeMapData),
		isTrue(o.IncludeMapGraphics),
		isTrue(o.IncludeMapResourceLocations),
		isTrue(o.IncludeMapTiles),
	)
}

func checkConsistency(hash bool, algo string, algoSet, mapData, gfx, res, tiles bool) error {
	if hash && !algoSet {
		return invalid(RuleHashWithoutAlgorithm, "if %s is true, a %s must be set as well", KeyIncludeMapDataHash, KeyMapDataHashAlgorithm)
	}
	if algoSet && !hash {
		return invalid(RuleAlgorithmWithoutHash, "if a %s is set, %s must be set to true", KeyMapDataHashAlgorithm, KeyIncludeMapDataHash)
	}
	if algoSet && !HashAlgorithm(algo).Valid() {
		return invalid(RuleAlgorithmValue, "%s must be one of sha1, sha256, sha512, md5; got %q", KeyMapDataHashAlgorithm, algo)
	}
	if !mapData {
		if gfx {
			return invalid(RuleMapGraphicsWithoutMap, "if %s is true, %s must be set to true as well", KeyIncludeMapGraphics, KeyIncludeMapData)
		}
		if res {
			return invalid(RuleMapResourcesWithoutMap, "if %s is true, %s must be set to true as well", KeyIncludeMapResourceLocations, KeyIncludeMapData)
		}
		if tiles {
			return invalid(RuleMapTilesWithoutMap, "if %s is true, %s must be set to true as well", KeyIncludeMapTiles, KeyIncludeMapData)
		}
	}
	return nil
}

// ParseOptions validates an untyped options document (decoded JSON, YAML or
// a protobuf Struct) and converts it to Options. Rules are checked in Rule
// order and the first failure is returned.
func ParseOptions(raw map[string]any) (Options, error) {
	isTrueKey := func(k string) bool {
		v, ok := raw[k].(bool)
		return ok && v
	}
	algoVal := raw[KeyMapDataHashAlgorithm]
	algo, isString := algoVal.(string)
	if algoVal != nil && !isString {
		if isTrueKey(KeyIncludeMapDataHash) {
			return Options{}, invalid(RuleAlgorithmValue, "value %s must be absent, null or a string", KeyMapDataHashAlgorithm)
		}
		return Options{}, invalid(RuleAlgorithmWithoutHash, "if a %s is set, %s must be set to true", KeyMapDataHashAlgorithm, KeyIncludeMapDataHash)
	}
	if err := checkConsistency(
		isTrueKey(KeyIncludeMapDataHash),
		algo,
		algoVal != nil,
		isTrueKey(KeyIncludeMapData),
		isTrueKey(KeyIncludeMapGraphics),
		isTrueKey(KeyIncludeMapResourceLocations),
		isTrueKey(KeyIncludeMapTiles),
	); err != nil {
		return Options{}, err
	}

	var o Options
	for _, k := range boolKeys {
		v, present := raw[k]
		if !present {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return Options{}, invalid(RuleBooleanType, "value %s should be true, false or absent, got %T", k, v)
		}
		*o.field(k) = Bool(b)
	}
	o.MapDataHashAlgorithm = HashAlgorithm(algo)

	var unknown []string
	for k := range raw {
		if !isKnownKey(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Options{}, invalid(RuleUnknownKey, "unknown options were passed: %s", strings.Join(unknown, ", "))
	}
	return o, nil
}

// IsValidOptions reports whether v is an acceptable options value. It
// accepts Options, *Options and untyped maps; anything else is invalid.
func IsValidOptions(v any) bool {
	switch o := v.(type) {
	case Options:
		return Validate(o) == nil
	case *Options:
		return o != nil && Validate(*o) == nil
	case map[string]any:
		if o == nil {
			return false
		}
		_, err := ParseOptions(o)
		return err == nil
	}
	return false
}
