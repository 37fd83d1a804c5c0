package catalog

import (
	"strings"
)

// ParseTags splits a catalog comment into its leading smart-tag lines and
// the remaining description. A smart tag is a line of the form "@key" or
// "@key value"; tag lines stop at the first non-tag line.
//
//	@omit
//	@name account_holder
//	The person owning the account.
//
// yields {"omit": "", "name": "account_holder"} and the trailing sentence.
func ParseTags(comment string) (map[string]string, string) {
	if comment == "" {
		return nil, ""
	}

	var tags map[string]string
	lines := strings.Split(comment, "\n")

	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "@") {
			break
		}

		key, value, _ := strings.Cut(line[1:], " ")
		if key == "" {
			break
		}
		if tags == nil {
			tags = make(map[string]string)
		}
		tags[key] = strings.TrimSpace(value)
	}

	return tags, strings.TrimSpace(strings.Join(lines[i:], "\n"))
}
