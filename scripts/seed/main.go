package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/pkg/config"
	"github.com/noah-isme/respub-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS colleges (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	categories TEXT[] NOT NULL DEFAULT '{}',
	position   INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS departments (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	college_id TEXT NOT NULL REFERENCES colleges(id),
	category   TEXT NOT NULL,
	position   INT NOT NULL DEFAULT 0,
	UNIQUE (college_id, category, name)
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	college       TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS papers (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	authors            JSONB NOT NULL DEFAULT '[]',
	faculty_id         TEXT NOT NULL DEFAULT '',
	scopus_id          TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL,
	department         TEXT NOT NULL,
	college            TEXT NOT NULL,
	publication_date   TIMESTAMPTZ NOT NULL,
	journal            TEXT NOT NULL DEFAULT '',
	volume             TEXT NOT NULL DEFAULT '',
	volume_name        TEXT NOT NULL DEFAULT '',
	issue              TEXT NOT NULL DEFAULT '',
	page_no            TEXT NOT NULL DEFAULT '',
	doi                TEXT NOT NULL DEFAULT '',
	type               TEXT NOT NULL,
	has_scopus         BOOLEAN NOT NULL DEFAULT FALSE,
	claimed_by         TEXT NOT NULL DEFAULT '',
	author_no          TEXT NOT NULL DEFAULT '',
	is_student_scholar BOOLEAN NOT NULL DEFAULT FALSE,
	student_scholars   JSONB NOT NULL DEFAULT '[]',
	q1                 TEXT NOT NULL DEFAULT '',
	q2                 TEXT NOT NULL DEFAULT '',
	version            INT NOT NULL DEFAULT 1,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_papers_college_category ON papers (college, category);
CREATE INDEX IF NOT EXISTS idx_papers_created_at ON papers (created_at);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token      TEXT NOT NULL UNIQUE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	revoked    BOOLEAN NOT NULL DEFAULT FALSE,
	revoked_at TIMESTAMPTZ,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id          TEXT PRIMARY KEY,
	user_id     TEXT,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT,
	old_values  JSONB,
	new_values  JSONB,
	ip_address  TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS report_jobs (
	id            TEXT PRIMARY KEY,
	params        JSONB NOT NULL DEFAULT '{}',
	status        TEXT NOT NULL DEFAULT 'QUEUED',
	result_path   TEXT,
	created_by    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at   TIMESTAMPTZ,
	error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_report_jobs_status ON report_jobs (status);
`

type collegeSeed struct {
	name       string
	categories []string
	// category -> ordered department names
	departments map[string][]string
}

var colleges = []collegeSeed{
	{
		name:       "College of Engineering and Technology",
		categories: []string{"Engineering", "Science and Humanities"},
		departments: map[string][]string{
			"Engineering": {
				"Computer Science and Engineering",
				"Electronics and Communication Engineering",
				"Mechanical Engineering",
				"Civil Engineering",
			},
			"Science and Humanities": {
				"Mathematics",
				"Physics",
				"Chemistry",
				"English",
			},
		},
	},
	{
		name:       "College of Science and Humanities",
		categories: []string{"Science", "Humanities"},
		departments: map[string][]string{
			"Science":    {"Biotechnology", "Computer Applications", "Data Science"},
			"Humanities": {"Commerce", "Economics", "Visual Communication"},
		},
	},
	{
		name:       "College of Management",
		categories: []string{"Management"},
		departments: map[string][]string{
			"Management": {"Business Administration", "Hotel Management"},
		},
	},
}

func main() {
	var (
		adminEmail    string
		adminPassword string
		userEmail     string
		userPassword  string
	)
	flag.StringVar(&adminEmail, "admin-email", "admin@respub.local", "seed admin account email")
	flag.StringVar(&adminPassword, "admin-password", "admin123", "seed admin account password")
	flag.StringVar(&userEmail, "user-email", "user@respub.local", "seed scoped user account email")
	flag.StringVar(&userPassword, "user-password", "user123", "seed scoped user account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	if err := seedColleges(ctx, db); err != nil {
		log.Fatalf("failed to seed colleges: %v", err)
	}

	scoped := colleges[0]
	if err := seedUser(ctx, db, adminEmail, adminPassword, models.RoleAdmin, "", ""); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := seedUser(ctx, db, userEmail, userPassword, models.RoleUser, scoped.name, scoped.categories[0]); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	log.Println("seed complete")
}

func seedColleges(ctx context.Context, db *sqlx.DB) error {
	for pos, college := range colleges {
		collegeID := uuid.NewString()
		err := db.QueryRowContext(ctx,
			`INSERT INTO colleges (id, name, categories, position) VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET categories = EXCLUDED.categories, position = EXCLUDED.position
			RETURNING id`,
			collegeID, college.name, models.CategoryList(college.categories), pos,
		).Scan(&collegeID)
		if err != nil {
			return err
		}

		for _, category := range college.categories {
			for dpos, department := range college.departments[category] {
				_, err := db.ExecContext(ctx,
					`INSERT INTO departments (id, name, college_id, category, position) VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT (college_id, category, name) DO UPDATE SET position = EXCLUDED.position`,
					uuid.NewString(), department, collegeID, category, dpos,
				)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedUser(ctx context.Context, db *sqlx.DB, email, password string, role models.UserRole, college, category string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, college, category, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $7)
		ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), email, string(hash), role, college, category, now,
	)
	return err
}
