package service

import (
	"strings"

	"github.com/noah-isme/respub-api/internal/models"
)

// minSearchLen is the shortest search term that actually filters. Shorter
// input matches every paper so single keystrokes do not blank the table.
const minSearchLen = 2

// FilterPapers returns the papers matching every active criterion, in input
// order. It never mutates the input slice.
func FilterPapers(papers []models.Paper, criteria models.PaperCriteria) []models.Paper {
	search := strings.ToLower(criteria.SearchTerm)
	searchActive := len(criteria.SearchTerm) >= minSearchLen

	filtered := make([]models.Paper, 0, len(papers))
	for _, paper := range papers {
		if searchActive && !matchesSearch(paper, search) {
			continue
		}
		if criteria.Department != "" && paper.Department != criteria.Department {
			continue
		}
		if criteria.Year != "" && paper.Year() != criteria.Year {
			continue
		}
		filtered = append(filtered, paper)
	}
	return filtered
}

// matchesSearch reports whether the lowercased term occurs in any author
// name or in the paper's Scopus identifier. An empty Scopus identifier
// never matches.
func matchesSearch(paper models.Paper, term string) bool {
	for _, author := range paper.Authors {
		if strings.Contains(strings.ToLower(author.Name), term) {
			return true
		}
	}
	if paper.ScopusID != "" && strings.Contains(strings.ToLower(paper.ScopusID), term) {
		return true
	}
	return false
}
