package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PaperType enumerates supported publication kinds.
type PaperType string

const (
	PaperTypeJournal    PaperType = "journal"
	PaperTypeConference PaperType = "conference"
	PaperTypeBook       PaperType = "book"
)

// Author is an ordered entry in a paper's author list. Exactly one author
// should be marked corresponding; this is not enforced at write time.
type Author struct {
	Name            string `json:"name"`
	IsCorresponding bool   `json:"isCorresponding"`
}

// StudentScholar identifies a student contributor on a paper.
type StudentScholar struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// AuthorList persists the ordered author sequence as JSONB.
type AuthorList []Author

// Value marshals the author list for persistence.
func (a AuthorList) Value() (driver.Value, error) {
	if a == nil {
		a = AuthorList{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal author list: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the author list.
func (a *AuthorList) Scan(value interface{}) error {
	return scanJSON(value, a, "AuthorList")
}

// StudentScholarList persists the ordered student-scholar sequence as JSONB.
type StudentScholarList []StudentScholar

// Value marshals the scholar list for persistence.
func (s StudentScholarList) Value() (driver.Value, error) {
	if s == nil {
		s = StudentScholarList{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal student scholar list: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the scholar list.
func (s *StudentScholarList) Scan(value interface{}) error {
	return scanJSON(value, s, "StudentScholarList")
}

// Paper represents a submitted research publication record.
type Paper struct {
	ID               string             `db:"id" json:"id"`
	Title            string             `db:"title" json:"title"`
	Authors          AuthorList         `db:"authors" json:"authors"`
	FacultyID        string             `db:"faculty_id" json:"faculty_id"`
	ScopusID         string             `db:"scopus_id" json:"scopus_id"`
	Category         string             `db:"category" json:"category"`
	Department       string             `db:"department" json:"department"`
	College          string             `db:"college" json:"college"`
	PublicationDate  time.Time          `db:"publication_date" json:"publication_date"`
	Journal          string             `db:"journal" json:"journal"`
	Volume           string             `db:"volume" json:"volume"`
	VolumeName       string             `db:"volume_name" json:"volume_name"`
	Issue            string             `db:"issue" json:"issue"`
	PageNo           string             `db:"page_no" json:"page_no"`
	DOI              string             `db:"doi" json:"doi"`
	Type             PaperType          `db:"type" json:"type"`
	HasScopus        bool               `db:"has_scopus" json:"has_scopus"`
	ClaimedBy        string             `db:"claimed_by" json:"claimed_by"`
	AuthorNo         string             `db:"author_no" json:"author_no"`
	IsStudentScholar bool               `db:"is_student_scholar" json:"is_student_scholar"`
	StudentScholars  StudentScholarList `db:"student_scholars" json:"student_scholars"`
	Q1               string             `db:"q1" json:"q1"`
	Q2               string             `db:"q2" json:"q2"`
	Version          int                `db:"version" json:"version"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at" json:"updated_at"`
}

// Year returns the 4-digit publication year used by filters and charts.
func (p Paper) Year() string {
	return p.PublicationDate.Format("2006")
}

// PaperCriteria captures the user-supplied dashboard filter inputs. All
// fields are optional; empty values apply no constraint.
type PaperCriteria struct {
	SearchTerm string
	Department string
	Year       string
}

// PaperListRequest combines filter criteria with pagination.
type PaperListRequest struct {
	Criteria PaperCriteria
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

func scanJSON(value interface{}, dest interface{}, kind string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, kind)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	return nil
}
