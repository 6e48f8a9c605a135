package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// College is seed configuration: a group institution with its ordered
// research categories. Not editable at runtime.
type College struct {
	ID         string       `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	Categories CategoryList `db:"categories" json:"categories"`
}

// Department is seed configuration scoped to a college and one of its
// categories.
type Department struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CollegeID string `db:"college_id" json:"college_id"`
	Category  string `db:"category" json:"category"`
}

// CategoryList persists the ordered category sequence as a text array.
type CategoryList []string

// Value renders the list as a Postgres text array.
func (c CategoryList) Value() (driver.Value, error) {
	return pq.Array([]string(c)).Value()
}

// Scan reads a Postgres text array into the list.
func (c *CategoryList) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return fmt.Errorf("scan category list: %w", err)
	}
	*c = CategoryList(arr)
	return nil
}

// HasCategory reports whether the college declares the given category.
func (c College) HasCategory(category string) bool {
	for _, candidate := range c.Categories {
		if candidate == category {
			return true
		}
	}
	return false
}
