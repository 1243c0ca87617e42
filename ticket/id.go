package ticket

import (
	"fmt"
	"time"

	"github.com/amonks/tix/internal/ids"
)

// GenerateID creates a random 8-character lowercase base32 ID. The title and
// timestamp are mixed into the hash so IDs stay well distributed.
func GenerateID(title string, timestamp time.Time) string {
	return ids.New(title, timestamp, ids.DefaultLength)
}

// IDIndex indexes ticket IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of tickets.
func NewIDIndex(tickets []Ticket) IDIndex {
	ticketIDs := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ticketIDs = append(ticketIDs, t.ID)
	}
	return IDIndex{ids: ids.NormalizeUniqueIDs(ticketIDs)}
}

// Resolve returns the full ticket ID for a prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", notFound(prefix)
	}

	match, found, ambiguous := ids.MatchPrefixNormalized(index.ids, prefix)
	if !found {
		return "", notFound(prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
	}

	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengthsNormalized(index.ids)
}
