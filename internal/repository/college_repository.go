package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/respub-api/internal/models"
)

// CollegeRepository reads the seeded college and department configuration.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository constructs a CollegeRepository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// List returns every college in seed order.
func (r *CollegeRepository) List(ctx context.Context) ([]models.College, error) {
	const query = `SELECT id, name, categories FROM colleges ORDER BY position ASC`
	var colleges []models.College
	if err := r.db.SelectContext(ctx, &colleges, query); err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	return colleges, nil
}

// FindByID fetches a single college.
func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*models.College, error) {
	const query = `SELECT id, name, categories FROM colleges WHERE id = $1 LIMIT 1`
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find college by id: %w", err)
	}
	return &college, nil
}

// FindByName fetches a college by its display name. Names are unique and
// compared case-sensitively, matching how papers reference colleges.
func (r *CollegeRepository) FindByName(ctx context.Context, name string) (*models.College, error) {
	const query = `SELECT id, name, categories FROM colleges WHERE name = $1 LIMIT 1`
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find college by name: %w", err)
	}
	return &college, nil
}

// ListDepartments returns a college's departments, optionally narrowed to a
// category, in seed order.
func (r *CollegeRepository) ListDepartments(ctx context.Context, collegeID, category string) ([]models.Department, error) {
	query := `SELECT id, name, college_id, category FROM departments WHERE college_id = $1`
	args := []interface{}{collegeID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY position ASC`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query, args...); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// DepartmentExists reports whether the named department belongs to the
// given college and category.
func (r *CollegeRepository) DepartmentExists(ctx context.Context, college, category, department string) (bool, error) {
	const query = `SELECT 1 FROM departments d JOIN colleges c ON c.id = d.college_id
		WHERE c.name = $1 AND d.category = $2 AND d.name = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, college, category, department); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department: %w", err)
	}
	return true, nil
}
