package search

import (
	"strconv"
	"strings"
)

// Query is the structured form of a search box input. It decouples what the
// user typed from what the index needs.
type Query struct {
	RawInput string // The original input
	Terms    string // The words matched against message content
	SenderID string // Only messages of this sender, when set
	Limit    int    // Zero leaves the default to the caller
}

// NewSearchQuery extracts command-line style flags from raw input.
// Example: lunch friday --from alice --limit 5
func NewSearchQuery(input string) Query {
	query := Query{RawInput: input}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		// Handle flags like --from alice or --limit 5
		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			switch strings.TrimPrefix(part, "--") {
			case "from":
				query.SenderID = parts[i+1]
			case "limit":
				if n, err := strconv.Atoi(parts[i+1]); err == nil && n > 0 {
					query.Limit = n
				}
			default:
				// Unknown flags are searched as plain words
				textTerms = append(textTerms, part)
				continue
			}
			i++ // Skip the value part in next iteration
			continue
		}
		textTerms = append(textTerms, part)
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
