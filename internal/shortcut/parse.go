package shortcut

import (
	"regexp"
	"strconv"
)

// storyTagPattern matches a story tag such as [sc-123] at the very start of
// a commit message. The prefix is case-sensitive and no leading whitespace
// is allowed.
var storyTagPattern = regexp.MustCompile(`^\[sc-([0-9]+)\]`)

// ParseStoryID extracts the story id referenced at the start of a commit
// message. It returns false when the message carries no tag at position zero
// or when the numeric suffix does not parse as a valid id; such commits are
// classified as unparsed rather than treated as errors.
func ParseStoryID(message string) (int64, bool) {
	m := storyTagPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
