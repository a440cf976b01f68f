package state

import (
	"strings"

	"golang.org/x/text/language"
)

// PlatformPath converts a platform string into a Path.
// "" is the empty path, which matches every platform; "linux/gtk"
// becomes [linux gtk].
func PlatformPath(platform string) (Path, error) {
	return NewPath(splitTokens(platform, "/")...)
}

// LocalePath converts a locale string into a Path of
// [language, region, variants...]. "" is the empty path.
// Both "en_US" and "en-US" are accepted. Strings that are not BCP 47
// tags are split on '-' and '_'.
func LocalePath(locale string) (Path, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return Path{}, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return NewPath(splitTokens(locale, "-_")...)
	}

	base, _ := tag.Base()
	tokens := []string{base.String()}
	if region, conf := tag.Region(); conf == language.Exact {
		tokens = append(tokens, region.String())
	}
	for _, v := range tag.Variants() {
		tokens = append(tokens, v.String())
	}
	return NewPath(tokens...)
}

// EnvState combines a platform and a locale into the two slot State
// used for environment matching.
func EnvState(platform, locale string) (State, error) {
	pp, err := PlatformPath(platform)
	if err != nil {
		return State{}, err
	}
	lp, err := LocalePath(locale)
	if err != nil {
		return State{}, err
	}
	return NewState(pp, lp)
}

func splitTokens(s, seps string) []string {
	return strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

// CanonicalPlatform returns the normalised spelling of platform, so that
// spellings resolving to the same Path share one index key.
func CanonicalPlatform(platform string) (string, error) {
	p, err := PlatformPath(platform)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// CanonicalLocale returns the normalised spelling of locale ("en_US").
// LocalePath of the result yields the same Path as LocalePath of locale.
func CanonicalLocale(locale string) (string, error) {
	p, err := LocalePath(locale)
	if err != nil {
		return "", err
	}
	return strings.Join(p.tokens, "_"), nil
}
