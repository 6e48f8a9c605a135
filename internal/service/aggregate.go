package service

import (
	"sort"

	"github.com/noah-isme/respub-api/internal/dto"
	"github.com/noah-isme/respub-api/internal/models"
)

// CountByYear buckets papers by publication year, ascending. The sum of
// the counts always equals the input length.
func CountByYear(papers []models.Paper) []dto.SeriesPoint {
	counts := make(map[string]int)
	for _, paper := range papers {
		counts[paper.Year()]++
	}
	years := make([]string, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Strings(years)

	series := make([]dto.SeriesPoint, 0, len(years))
	for _, year := range years {
		series = append(series, dto.SeriesPoint{Name: year, Total: counts[year]})
	}
	return series
}

// CountByDepartment buckets papers by department in first-seen input order.
func CountByDepartment(papers []models.Paper) []dto.SeriesPoint {
	return countFirstSeen(papers, func(p models.Paper) string { return p.Department })
}

// CountByCollege counts papers per college preserving the order of the
// provided list, including zero-count entries. Papers whose college is not
// in the list are ignored.
func CountByCollege(papers []models.Paper, colleges []string) []dto.SeriesPoint {
	counts := make(map[string]int, len(colleges))
	for _, paper := range papers {
		counts[paper.College]++
	}
	series := make([]dto.SeriesPoint, 0, len(colleges))
	for _, college := range colleges {
		series = append(series, dto.SeriesPoint{Name: college, Total: counts[college]})
	}
	return series
}

// CountByType buckets papers by publication type in first-seen input order.
func CountByType(papers []models.Paper) []dto.SeriesPoint {
	return countFirstSeen(papers, func(p models.Paper) string { return string(p.Type) })
}

// CountByCategory counts papers per category preserving the order of the
// provided list, including zero-count entries. Papers whose category is not
// in the list are ignored.
func CountByCategory(papers []models.Paper, categories []string) []dto.SeriesPoint {
	counts := make(map[string]int, len(categories))
	for _, paper := range papers {
		counts[paper.Category]++
	}
	series := make([]dto.SeriesPoint, 0, len(categories))
	for _, category := range categories {
		series = append(series, dto.SeriesPoint{Name: category, Total: counts[category]})
	}
	return series
}

// UniqueAuthorCount counts distinct author names across all papers. Names
// compare by exact string equality; spelling variants count separately.
func UniqueAuthorCount(papers []models.Paper) int {
	seen := make(map[string]struct{})
	for _, paper := range papers {
		for _, author := range paper.Authors {
			seen[author.Name] = struct{}{}
		}
	}
	return len(seen)
}

// UniqueDepartmentCount counts distinct department values present.
func UniqueDepartmentCount(papers []models.Paper) int {
	seen := make(map[string]struct{})
	for _, paper := range papers {
		seen[paper.Department] = struct{}{}
	}
	return len(seen)
}

func countFirstSeen(papers []models.Paper, key func(models.Paper) string) []dto.SeriesPoint {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, paper := range papers {
		k := key(paper)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	series := make([]dto.SeriesPoint, 0, len(order))
	for _, k := range order {
		series = append(series, dto.SeriesPoint{Name: k, Total: counts[k]})
	}
	return series
}
