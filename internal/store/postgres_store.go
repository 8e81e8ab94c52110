package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	_ "github.com/lib/pq"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'web',
	technologies TEXT NOT NULL DEFAULT '',
	project_date TIMESTAMPTZ NOT NULL,
	live_url TEXT NOT NULL DEFAULT '',
	github_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'published',
	is_published BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	screenshot_path TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS personal_details (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	job_title TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	phone2 TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	professional_summary TEXT NOT NULL DEFAULT '',
	years_of_experience TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	github_url TEXT NOT NULL DEFAULT '',
	twitter_url TEXT NOT NULL DEFAULT '',
	website_url TEXT NOT NULL DEFAULT '',
	cv_path TEXT NOT NULL DEFAULT '',
	profile_image TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contact_messages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	read_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS skills (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	percentage INTEGER NOT NULL CHECK (percentage BETWEEN 0 AND 100),
	category TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS education (
	id BIGSERIAL PRIMARY KEY,
	school TEXT NOT NULL,
	level TEXT NOT NULL DEFAULT '',
	degree TEXT NOT NULL DEFAULT '',
	field_of_study TEXT NOT NULL DEFAULT '',
	gpa TEXT NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE,
	description TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS work_experience (
	id BIGSERIAL PRIMARY KEY,
	company TEXT NOT NULL,
	position TEXT NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE,
	description TEXT NOT NULL DEFAULT '',
	is_current BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS professional_references (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ
);
`

const (
	projectColumns = `id, title, description, image_url, category, technologies, project_date,
	live_url, github_url, status, is_published, display_order, screenshot_path, created_at, updated_at`

	profileColumns = `id, full_name, job_title, email, phone, phone2, location, address,
	professional_summary, years_of_experience, linkedin_url, github_url, twitter_url, website_url,
	cv_path, profile_image, is_active, created_at, updated_at`

	messageColumns = `id, name, email, phone, subject, message, is_read, read_at, created_at`
)

type PostgresStore struct {
	db         *sql.DB
	skills     *pgSection[domain.Skill, *domain.Skill]
	education  *pgSection[domain.Education, *domain.Education]
	experience *pgSection[domain.WorkExperience, *domain.WorkExperience]
	references *pgSection[domain.Reference, *domain.Reference]
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:         db,
		skills:     &pgSection[domain.Skill, *domain.Skill]{db: db, table: skillsTable},
		education:  &pgSection[domain.Education, *domain.Education]{db: db, table: educationTable},
		experience: &pgSection[domain.WorkExperience, *domain.WorkExperience]{db: db, table: experienceTable},
		references: &pgSection[domain.Reference, *domain.Reference]{db: db, table: referencesTable},
	}
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := newPostgresStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Skills() SectionStore[domain.Skill]                  { return s.skills }
func (s *PostgresStore) Education() SectionStore[domain.Education]           { return s.education }
func (s *PostgresStore) WorkExperience() SectionStore[domain.WorkExperience] { return s.experience }
func (s *PostgresStore) References() SectionStore[domain.Reference]          { return s.references }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p         domain.Project
		updatedAt sql.NullTime
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Category, &p.Technologies, &p.ProjectDate,
		&p.LiveURL, &p.GithubURL, &p.Status, &p.IsPublished, &p.DisplayOrder, &p.ScreenshotPath,
		&p.CreatedAt, &updatedAt,
	); err != nil {
		return domain.Project{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

func (s *PostgresStore) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO projects (title, description, image_url, category, technologies, project_date,
		 live_url, github_url, status, is_published, display_order, screenshot_path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		p.Title, p.Description, p.ImageURL, p.Category, p.Technologies, p.ProjectDate,
		p.LiveURL, p.GithubURL, p.Status, p.IsPublished, p.DisplayOrder, p.ScreenshotPath, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, fmt.Errorf("query project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE projects
		 SET title = $1, description = $2, image_url = $3, category = $4, technologies = $5,
		     project_date = $6, live_url = $7, github_url = $8, status = $9, is_published = $10,
		     display_order = $11, screenshot_path = $12, updated_at = $13
		 WHERE id = $14`,
		p.Title, p.Description, p.ImageURL, p.Category, p.Technologies, p.ProjectDate,
		p.LiveURL, p.GithubURL, p.Status, p.IsPublished, p.DisplayOrder, p.ScreenshotPath, now, p.ID,
	)
	if err != nil {
		return domain.Project{}, fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Project{}, domain.ErrNotFound
	}
	p.UpdatedAt = &now
	return p, nil
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListProjects(ctx context.Context, publishedOnly bool) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if publishedOnly {
		query += ` WHERE is_published AND status = 'published'`
	}
	query += ` ORDER BY display_order ASC, created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	out := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfile(row rowScanner) (domain.PersonalDetails, error) {
	var d domain.PersonalDetails
	err := row.Scan(
		&d.ID, &d.FullName, &d.JobTitle, &d.Email, &d.Phone, &d.Phone2, &d.Location, &d.Address,
		&d.ProfessionalSummary, &d.YearsOfExperience, &d.LinkedinURL, &d.GithubURL, &d.TwitterURL,
		&d.WebsiteURL, &d.CVPath, &d.ProfileImage, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (s *PostgresStore) ActiveProfile(ctx context.Context) (domain.PersonalDetails, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+` FROM personal_details WHERE is_active ORDER BY updated_at DESC LIMIT 1`,
	)
	d, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PersonalDetails{}, domain.ErrNotFound
		}
		return domain.PersonalDetails{}, fmt.Errorf("query personal details: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, d domain.PersonalDetails) (domain.PersonalDetails, error) {
	now := time.Now().UTC()
	d.UpdatedAt = now

	if d.ID == 0 {
		d.CreatedAt = now
		err := s.db.QueryRowContext(
			ctx,
			`INSERT INTO personal_details (full_name, job_title, email, phone, phone2, location, address,
			 professional_summary, years_of_experience, linkedin_url, github_url, twitter_url, website_url,
			 cv_path, profile_image, is_active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			 RETURNING id`,
			d.FullName, d.JobTitle, d.Email, d.Phone, d.Phone2, d.Location, d.Address,
			d.ProfessionalSummary, d.YearsOfExperience, d.LinkedinURL, d.GithubURL, d.TwitterURL, d.WebsiteURL,
			d.CVPath, d.ProfileImage, d.IsActive, d.CreatedAt, d.UpdatedAt,
		).Scan(&d.ID)
		if err != nil {
			return domain.PersonalDetails{}, fmt.Errorf("insert personal details: %w", err)
		}
		return d, nil
	}

	err := s.db.QueryRowContext(
		ctx,
		`UPDATE personal_details
		 SET full_name = $1, job_title = $2, email = $3, phone = $4, phone2 = $5, location = $6,
		     address = $7, professional_summary = $8, years_of_experience = $9, linkedin_url = $10,
		     github_url = $11, twitter_url = $12, website_url = $13, cv_path = $14, profile_image = $15,
		     is_active = $16, updated_at = $17
		 WHERE id = $18
		 RETURNING created_at`,
		d.FullName, d.JobTitle, d.Email, d.Phone, d.Phone2, d.Location, d.Address,
		d.ProfessionalSummary, d.YearsOfExperience, d.LinkedinURL, d.GithubURL, d.TwitterURL, d.WebsiteURL,
		d.CVPath, d.ProfileImage, d.IsActive, d.UpdatedAt, d.ID,
	).Scan(&d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PersonalDetails{}, domain.ErrNotFound
		}
		return domain.PersonalDetails{}, fmt.Errorf("update personal details: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) CreateMessage(ctx context.Context, m domain.ContactMessage) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO contact_messages (id, name, email, phone, subject, message, is_read, read_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.IsRead, m.ReadAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func scanMessage(row rowScanner) (domain.ContactMessage, error) {
	var (
		m      domain.ContactMessage
		readAt sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.IsRead, &readAt, &m.CreatedAt); err != nil {
		return domain.ContactMessage{}, err
	}
	if readAt.Valid {
		t := readAt.Time
		m.ReadAt = &t
	}
	return m, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	out := []domain.ContactMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkMessageRead(ctx context.Context, id string) (domain.ContactMessage, error) {
	row := s.db.QueryRowContext(
		ctx,
		`UPDATE contact_messages
		 SET is_read = TRUE, read_at = COALESCE(read_at, $1)
		 WHERE id = $2
		 RETURNING `+messageColumns,
		time.Now().UTC(),
		id,
	)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ContactMessage{}, domain.ErrNotFound
		}
		return domain.ContactMessage{}, fmt.Errorf("mark contact message read: %w", err)
	}
	return m, nil
}

// ToggleMessageRead flips is_read; the right-hand sides see the old row, so
// read_at is stamped when marking read and cleared when marking unread.
func (s *PostgresStore) ToggleMessageRead(ctx context.Context, id string) (domain.ContactMessage, error) {
	row := s.db.QueryRowContext(
		ctx,
		`UPDATE contact_messages
		 SET is_read = NOT is_read,
		     read_at = CASE WHEN is_read THEN NULL ELSE $1::timestamptz END
		 WHERE id = $2
		 RETURNING `+messageColumns,
		time.Now().UTC(),
		id,
	)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ContactMessage{}, domain.ErrNotFound
		}
		return domain.ContactMessage{}, fmt.Errorf("toggle contact message read: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
