package screp

import "strings"

// VersionKey is a field name in the output of screp -version.
type VersionKey string

const (
	VersionScrep     VersionKey = "screp version"
	VersionParser    VersionKey = "Parser version"
	VersionEAPM      VersionKey = "EAPM algorithm version"
	VersionPlatform  VersionKey = "Platform"
	VersionBuiltWith VersionKey = "Built with"
	VersionAuthor    VersionKey = "Author"
	VersionHomePage  VersionKey = "Home page"
)

// VersionKeys lists the recognized keys in the order screp prints them.
var VersionKeys = []VersionKey{
	VersionScrep,
	VersionParser,
	VersionEAPM,
	VersionPlatform,
	VersionBuiltWith,
	VersionAuthor,
	VersionHomePage,
}

// Version is the parsed output of screp -version. A nil Version means the
// version could not be determined.
type Version map[VersionKey]string

func isVersionKey(k string) bool {
	for _, v := range VersionKeys {
		if string(v) == k {
			return true
		}
	}
	return false
}

// ParseVersion parses "Key: Value" lines. Unknown keys are skipped, as
// newer screp releases may add fields.
func ParseVersion(text string) Version {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v := Version{}
	for _, line := range strings.Split(text, "\n") {
		key, value, _ := strings.Cut(strings.TrimRight(line, "\r"), ": ")
		if !isVersionKey(key) {
			continue
		}
		v[VersionKey(key)] = value
	}
	return v
}
