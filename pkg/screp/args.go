package screp

import (
	"fmt"
	"strconv"
)

// Switches screp understands besides the option flags.
const (
	SwitchVersion = "-version"
	SwitchStdin   = "-stdin"
)

// argTable maps option keys to screp flag names, in argument order.
// An empty flag marks a key that only feeds another flag's value.
var argTable = []struct {
	key  string
	flag string
}{
	{KeyIncludeCommands, "cmds"},
	{KeyIncludeComputedData, "computed"},
	{KeyIncludeReplayHeader, "header"},
	{KeyIncludeMapData, "map"},
	{KeyIncludeMapDataHash, "mapDataHash"},
	{KeyIncludeMapGraphics, "mapgfx"},
	{KeyIncludeMapResourceLocations, "mapres"},
	{KeyIncludeMapTiles, "maptiles"},
	{KeyMapDataHashAlgorithm, ""},
}

// FlagName returns the screp flag for an option key. ok is false for keys
// without a flag of their own and for unknown keys.
func FlagName(key string) (flag string, ok bool) {
	for _, e := range argTable {
		if e.key == key {
			return e.flag, e.flag != ""
		}
	}
	return "", false
}

func isKnownKey(key string) bool {
	for _, e := range argTable {
		if e.key == key {
			return true
		}
	}
	return false
}

// BuildArguments renders options as screp command line switches. Absent
// flags are skipped; explicit false values are emitted since screp's own
// defaults may differ. When stdin is true, -stdin is appended last.
func BuildArguments(o Options, stdin bool) ([]string, error) {
	args := make([]string, 0, len(argTable)+1)
	for _, e := range argTable {
		if e.flag == "" {
			continue
		}
		v := *o.field(e.key)
		if v == nil {
			continue
		}
		value := strconv.FormatBool(*v)
		if e.key == KeyIncludeMapDataHash {
			if !*v {
				continue
			}
			if o.MapDataHashAlgorithm == "" {
				return nil, invalid(RuleHashWithoutAlgorithm, "if %s is set, a %s must be set as well", KeyIncludeMapDataHash, KeyMapDataHashAlgorithm)
			}
			value = string(o.MapDataHashAlgorithm)
		}
		args = append(args, fmt.Sprintf("-%s=%s", e.flag, value))
	}
	if stdin {
		args = append(args, SwitchStdin)
	}
	return args, nil
}
