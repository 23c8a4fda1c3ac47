package catalog

import (
	"strings"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// Scoring tiers. Each tier dominates every score the tier below can
// produce, so penalties within a tier never cross tiers.
const (
	scoreExactCode    = 1_000_000
	scoreCodePrefix   = 800_000
	scoreCodeContains = 600_000
	scoreNameContains = 400_000
)

// bestMatch resolves query to exactly one product, highest score wins, ties
// broken by catalog order. Matching is case-insensitive. A score of zero is
// below the floor and yields ErrNoMatchFound.
func bestMatch(products []domain.Product, query string) (domain.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.Product{}, domain.ErrNoMatchFound
	}

	var best domain.Product
	bestScore := 0
	for _, p := range products {
		if s := score(p, q); s > bestScore {
			best, bestScore = p, s
		}
	}
	if bestScore == 0 {
		return domain.Product{}, domain.ErrNoMatchFound
	}
	return best, nil
}

func score(p domain.Product, q string) int {
	code := strings.ToLower(p.Code)
	name := strings.ToLower(p.Name)

	switch {
	case code == q:
		return scoreExactCode
	case strings.HasPrefix(code, q):
		// Shorter codes are more specific matches.
		return scoreCodePrefix - (len(code) - len(q))
	case strings.Contains(code, q):
		return scoreCodeContains - strings.Index(code, q)
	case strings.Contains(name, q):
		return scoreNameContains - strings.Index(name, q)
	}
	return 0
}
