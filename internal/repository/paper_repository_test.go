package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/respub-api/internal/models"
)

func paperRows(t *testing.T, ids ...string) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "authors", "faculty_id", "scopus_id", "category", "department", "college",
		"publication_date", "journal", "volume", "volume_name", "issue", "page_no", "doi", "type",
		"has_scopus", "claimed_by", "author_no", "is_student_scholar", "student_scholars", "q1", "q2",
		"version", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "Paper "+id, []byte(`[{"name":"Alice Brown","isCorresponding":true}]`),
			"F-1", "SC-1", "Engineering", "CSE", "SRM Engineering College",
			now, "Journal", "12", "", "3", "1-9", "10.1000/x"+id, string(models.PaperTypeJournal),
			true, "", "1", false, []byte(`[]`), "Q1", "",
			1, now, now)
	}
	return rows
}

func TestListByScopeRestricted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM papers WHERE 1=1 AND college = \\$1 AND category = \\$2 ORDER BY created_at ASC, id ASC").
		WithArgs("SRM Engineering College", "Engineering").
		WillReturnRows(paperRows(t, "p1", "p2"))

	papers, err := repo.ListByScope(context.Background(), models.Scope{College: "SRM Engineering College", Category: "Engineering"})
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "p1", papers[0].ID)
	assert.Equal(t, "Alice Brown", papers[0].Authors[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByScopeUnrestricted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM papers WHERE 1=1 ORDER BY created_at ASC, id ASC").
		WillReturnRows(paperRows(t, "p1"))

	papers, err := repo.ListByScope(context.Background(), models.Scope{})
	require.NoError(t, err)
	assert.Len(t, papers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaperDefaultsVersion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectExec("INSERT INTO papers").WillReturnResult(sqlmock.NewResult(1, 1))

	paper := &models.Paper{Title: "New", College: "SRM Engineering College", Category: "Engineering", Department: "CSE"}
	require.NoError(t, repo.Create(context.Background(), paper))
	assert.NotEmpty(t, paper.ID)
	assert.Equal(t, 1, paper.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePaper(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectExec("DELETE FROM papers WHERE id").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePaperUnknownID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectExec("DELETE FROM papers WHERE id").
		WithArgs("missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing-id")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaperStaleVersion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectExec("UPDATE papers SET").WillReturnResult(sqlmock.NewResult(0, 0))

	paper := &models.Paper{ID: "p1", Title: "Stale", Version: 3}
	err := repo.Update(context.Background(), paper)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
