package highlight

import "strings"

// HashPrefix is the URL fragment prefix that selects a highlight.
const HashPrefix = "highlight-"

// Hash returns the fragment (without '#') that navigates to id.
func Hash(id string) string {
	return HashPrefix + id
}

// ParseIDFromHash extracts the highlight id from a "#highlight-<id>" fragment.
// The leading '#' is optional. The fragment is plain text; nothing is decoded.
// Fragments without the prefix yield "".
func ParseIDFromHash(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	if !strings.HasPrefix(fragment, HashPrefix) {
		return ""
	}
	return fragment[len(HashPrefix):]
}
