package friends

import (
	models "Cardex/models/postgres"
	"sort"
	"strings"
)

// Filter selects which slice of a relation snapshot a view shows.
type Filter string

const (
	// FilterAll is the default friends tab: accepted relations only
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterSent      Filter = "sent"
	FilterFavorites Filter = "favorites"
)

// ParseFilter maps a query-string value onto a Filter, falling back to
// FilterAll for anything unknown.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(s)) {
	case FilterPending:
		return FilterPending
	case FilterSent:
		return FilterSent
	case FilterFavorites:
		return FilterFavorites
	default:
		return FilterAll
	}
}

func matches(rel *models.FriendRelation, filter Filter) bool {
	switch filter {
	case FilterPending:
		return rel.Status == models.RelationPending
	case FilterSent:
		return rel.Status == models.RelationSent
	case FilterFavorites:
		return rel.Status == models.RelationAccepted && rel.IsFavorite
	default:
		return rel.Status == models.RelationAccepted
	}
}

// ApplyFilter returns the relations matching the status filter, narrowed
// by a case-insensitive substring match on username when search is
// non-empty. The search runs after the status filter. The result is a
// fresh slice ordered by username, the input is never modified.
func ApplyFilter(relations []models.FriendRelation, filter Filter, search string) []models.FriendRelation {
	search = strings.ToLower(search)
	filtered := make([]models.FriendRelation, 0, len(relations))
	for i := range relations {
		rel := &relations[i]
		if !matches(rel, filter) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rel.FriendUsername), search) {
			continue
		}
		filtered = append(filtered, *rel)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].FriendUsername < filtered[j].FriendUsername
	})
	return filtered
}

// CountFor counts the relations a filter would show, ignoring any
// search text. It always equals len(ApplyFilter(relations, filter, "")).
func CountFor(relations []models.FriendRelation, filter Filter) int {
	count := 0
	for i := range relations {
		if matches(&relations[i], filter) {
			count++
		}
	}
	return count
}
