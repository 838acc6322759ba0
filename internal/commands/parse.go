package commands

import (
	"errors"
	"regexp"
	"strings"
)

var (
	errMissingArg  = errors.New("please enter the player name, e.g. $ss \"Name#Tag\"")
	errMissingQuot = errors.New("make sure to quote the player name, e.g. $ss \"Name#Tag\"")
	errBadTag      = errors.New("tag error: the name needs exactly one #, e.g. $ss \"Name#Tag\"")
)

var quotedArg = regexp.MustCompile(`"([^"]*)"`)

// parseRiotID pulls the quoted Name#Tag out of the raw command text.
func parseRiotID(content string) (name, tag string, err error) {
	rest := strings.TrimSpace(content)
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		rest = strings.TrimSpace(rest[i:])
	} else {
		return "", "", errMissingArg
	}
	if rest == "" {
		return "", "", errMissingArg
	}

	m := quotedArg.FindStringSubmatch(rest)
	if m == nil {
		return "", "", errMissingQuot
	}
	id := m[1]

	if strings.Count(id, "#") != 1 {
		return "", "", errBadTag
	}

	idx := strings.Index(id, "#")
	name = strings.TrimSpace(id[:idx])
	tag = strings.TrimSpace(id[idx+1:])
	if name == "" || tag == "" {
		return "", "", errBadTag
	}
	return name, tag, nil
}
