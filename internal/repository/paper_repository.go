package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/respub-api/internal/models"
)

// PaperRepository manages persistence for publication records.
type PaperRepository struct {
	db *sqlx.DB
}

// NewPaperRepository constructs a PaperRepository.
func NewPaperRepository(db *sqlx.DB) *PaperRepository {
	return &PaperRepository{db: db}
}

const paperColumns = `id, title, authors, faculty_id, scopus_id, category, department, college,
	publication_date, journal, volume, volume_name, issue, page_no, doi, type, has_scopus,
	claimed_by, author_no, is_student_scholar, student_scholars, q1, q2, version, created_at, updated_at`

// ListByScope returns every paper visible under the given access scope,
// ordered by submission time. Search, department, and year narrowing happen
// in-process so all callers share one filtering semantics.
func (r *PaperRepository) ListByScope(ctx context.Context, scope models.Scope) ([]models.Paper, error) {
	base := "SELECT " + paperColumns + " FROM papers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if scope.College != "" {
		conditions = append(conditions, fmt.Sprintf("college = $%d", len(args)+1))
		args = append(args, scope.College)
	}
	if scope.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, scope.Category)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY created_at ASC, id ASC"

	var papers []models.Paper
	if err := r.db.SelectContext(ctx, &papers, base, args...); err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return papers, nil
}

// FindByID fetches a single paper.
func (r *PaperRepository) FindByID(ctx context.Context, id string) (*models.Paper, error) {
	query := "SELECT " + paperColumns + " FROM papers WHERE id = $1 LIMIT 1"
	var paper models.Paper
	if err := r.db.GetContext(ctx, &paper, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find paper by id: %w", err)
	}
	return &paper, nil
}

// Create inserts a new paper at version 1.
func (r *PaperRepository) Create(ctx context.Context, paper *models.Paper) error {
	if paper.ID == "" {
		paper.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now
	if paper.Version == 0 {
		paper.Version = 1
	}
	const query = `INSERT INTO papers (id, title, authors, faculty_id, scopus_id, category, department, college,
		publication_date, journal, volume, volume_name, issue, page_no, doi, type, has_scopus,
		claimed_by, author_no, is_student_scholar, student_scholars, q1, q2, version, created_at, updated_at)
		VALUES (:id, :title, :authors, :faculty_id, :scopus_id, :category, :department, :college,
		:publication_date, :journal, :volume, :volume_name, :issue, :page_no, :doi, :type, :has_scopus,
		:claimed_by, :author_no, :is_student_scholar, :student_scholars, :q1, :q2, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, paper); err != nil {
		return fmt.Errorf("create paper: %w", err)
	}
	return nil
}

// Update replaces mutable fields guarded by the optimistic version column.
// Returns sql.ErrNoRows when the stored version no longer matches.
func (r *PaperRepository) Update(ctx context.Context, paper *models.Paper) error {
	paper.UpdatedAt = time.Now().UTC()
	const query = `UPDATE papers SET title = :title, authors = :authors, faculty_id = :faculty_id,
		scopus_id = :scopus_id, category = :category, department = :department, college = :college,
		publication_date = :publication_date, journal = :journal, volume = :volume, volume_name = :volume_name,
		issue = :issue, page_no = :page_no, doi = :doi, type = :type, has_scopus = :has_scopus,
		claimed_by = :claimed_by, author_no = :author_no, is_student_scholar = :is_student_scholar,
		student_scholars = :student_scholars, q1 = :q1, q2 = :q2,
		version = :version + 1, updated_at = :updated_at
		WHERE id = :id AND version = :version`
	res, err := r.db.NamedExecContext(ctx, query, paper)
	if err != nil {
		return fmt.Errorf("update paper: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update paper rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	paper.Version++
	return nil
}

// Delete removes a paper record. Returns sql.ErrNoRows when no paper with
// the given id exists.
func (r *PaperRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM papers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete paper rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
