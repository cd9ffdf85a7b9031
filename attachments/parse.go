// Package attachments extracts attachment identifiers from URLs and text that
// reference uploaded files.
package attachments

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var (
	redirectRegex = regexp.MustCompile(`/api/attachments\.redirect\?id=(` + uuidPattern + `)`)
	// uploads/<userId>/<attachmentId>/<filename>
	uploadKeyRegex = regexp.MustCompile(`uploads/` + uuidPattern + `/(` + uuidPattern + `)/`)
)

// ParseIDs returns the attachment ids referenced in text in order of
// appearance, without duplicates. With singleResult only the first is returned.
func ParseIDs(text string, singleResult bool) []string {
	type match struct {
		pos int
		id  string
	}
	var matches []match
	for _, re := range []*regexp.Regexp{redirectRegex, uploadKeyRegex} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			matches = append(matches, match{pos: m[2], id: text[m[2]:m[3]]})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id, err := uuid.Parse(m.id)
		if err != nil {
			continue
		}
		s := strings.ToLower(id.String())
		if seen[s] {
			continue
		}
		seen[s] = true
		ids = append(ids, s)
		if singleResult {
			break
		}
	}
	return ids
}
