package ticket

// Stats is a point-in-time aggregate over a ticket collection.
type Stats struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"byStatus"`
	ByPriority map[Priority]int `json:"byPriority"`
	ByType     map[Type]int     `json:"byType"`
	ByPrivacy  map[Privacy]int  `json:"byPrivacy"`
}

// ComputeStats counts tickets in a single pass. Every enumerated value has an
// entry, so each breakdown sums to Total.
func ComputeStats(tickets []Ticket) Stats {
	stats := Stats{
		ByStatus:   make(map[Status]int),
		ByPriority: make(map[Priority]int),
		ByType:     make(map[Type]int),
		ByPrivacy:  make(map[Privacy]int),
	}
	for _, s := range ValidStatuses() {
		stats.ByStatus[s] = 0
	}
	for _, p := range ValidPriorities() {
		stats.ByPriority[p] = 0
	}
	for _, t := range ValidTypes() {
		stats.ByType[t] = 0
	}
	for _, p := range ValidPrivacies() {
		stats.ByPrivacy[p] = 0
	}

	for _, t := range tickets {
		stats.Total++
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		stats.ByType[t.Type]++
		stats.ByPrivacy[t.Privacy]++
	}
	return stats
}
