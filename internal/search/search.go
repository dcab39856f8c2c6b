package search

import (
	"sort"
	"strings"

	"github.com/agendadigital/forms-service/internal/models"
)

const (
	// MinQueryLength is the typing threshold below which no lookup happens.
	MinQueryLength = 2

	// MaxResults caps the ranked result list.
	MaxResults = 10
)

// Match filters and ranks the roster against a query. Matching is a
// case-insensitive substring test on the student name. Names that start with
// the query rank before names that merely contain it; ties are broken by
// case-insensitive alphabetical order. The result is truncated to MaxResults.
//
// Queries shorter than MinQueryLength always yield an empty result.
func Match(roster []models.Student, query string) []models.Student {
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	q := strings.ToLower(query)

	matched := make([]models.Student, 0, len(roster))
	for _, s := range roster {
		if strings.Contains(strings.ToLower(s.Name), q) {
			matched = append(matched, s)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a := strings.ToLower(matched[i].Name)
		b := strings.ToLower(matched[j].Name)

		aStarts := strings.HasPrefix(a, q)
		bStarts := strings.HasPrefix(b, q)
		if aStarts != bStarts {
			return aStarts
		}
		return a < b
	})

	if len(matched) > MaxResults {
		matched = matched[:MaxResults]
	}
	return matched
}
