package dto

import "github.com/noah-isme/respub-api/internal/models"

// SeriesPoint is one bar/slice of a chart-ready series.
type SeriesPoint struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// DashboardTotals are the headline stat cards.
type DashboardTotals struct {
	Papers      int `json:"papers"`
	Authors     int `json:"authors"`
	Departments int `json:"departments"`
}

// OverviewResponse is the role-scoped dashboard payload: totals plus the
// department and year series for the caller's visible papers, and the
// filtered paper table.
type OverviewResponse struct {
	Scope        ScopeInfo       `json:"scope"`
	Totals       DashboardTotals `json:"totals"`
	ByDepartment []SeriesPoint   `json:"byDepartment"`
	ByYear       []SeriesPoint   `json:"byYear"`
	ByCollege    []SeriesPoint   `json:"byCollege,omitempty"`
	Papers       []models.Paper  `json:"papers"`
}

// ScopeInfo echoes the restriction the payload was computed under.
type ScopeInfo struct {
	College  string `json:"college,omitempty"`
	Category string `json:"category,omitempty"`
}

// CollegeDashboardResponse is the admin drill-down for a single college.
type CollegeDashboardResponse struct {
	CollegeID    string          `json:"collegeId"`
	CollegeName  string          `json:"collegeName"`
	Totals       DashboardTotals `json:"totals"`
	Categories   int             `json:"categories"`
	ByCategory   []SeriesPoint   `json:"byCategory"`
	ByDepartment []SeriesPoint   `json:"byDepartment"`
	ByType       []SeriesPoint   `json:"byType"`
	Papers       []models.Paper  `json:"papers"`
}

// CategoryDashboardResponse is the admin drill-down for one category within
// a college.
type CategoryDashboardResponse struct {
	CollegeID    string          `json:"collegeId"`
	CollegeName  string          `json:"collegeName"`
	Category     string          `json:"category"`
	Totals       DashboardTotals `json:"totals"`
	ByDepartment []SeriesPoint   `json:"byDepartment"`
	ByYear       []SeriesPoint   `json:"byYear"`
	Papers       []models.Paper  `json:"papers"`
}
