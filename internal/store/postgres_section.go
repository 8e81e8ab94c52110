package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dunamismax/folio/internal/domain"
)

// sectionTable maps one resume section onto its table. fields lists the
// record's own columns; the EntryMeta columns are handled by pgSection.
type sectionTable[T any] struct {
	name    string
	fields  []string
	values  func(*T) []any
	targets func(*T) []any
	orderBy string
}

type pgSection[T any, P domain.Entry[T]] struct {
	db    *sql.DB
	table sectionTable[T]
}

func (s *pgSection[T, P]) columns() string {
	return "id, " + strings.Join(s.table.fields, ", ") + ", is_active, display_order, created_at, updated_at"
}

func (s *pgSection[T, P]) scan(row rowScanner) (T, error) {
	var (
		entry     T
		updatedAt sql.NullTime
	)
	meta := P(&entry).Meta()
	dest := append([]any{&meta.ID}, s.table.targets(&entry)...)
	dest = append(dest, &meta.IsActive, &meta.DisplayOrder, &meta.CreatedAt, &updatedAt)
	if err := row.Scan(dest...); err != nil {
		return entry, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		meta.UpdatedAt = &t
	}
	return entry, nil
}

func (s *pgSection[T, P]) List(ctx context.Context, activeOnly bool) ([]T, error) {
	query := `SELECT ` + s.columns() + ` FROM ` + s.table.name
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY display_order ASC, ` + s.table.orderBy + `, created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		entry, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.name, err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *pgSection[T, P]) Get(ctx context.Context, id int64) (T, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+s.columns()+` FROM `+s.table.name+` WHERE id = $1`, id)
	entry, err := s.scan(row)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("query %s: %w", s.table.name, err)
	}
	return entry, nil
}

func (s *pgSection[T, P]) Create(ctx context.Context, entry T) (T, error) {
	meta := P(&entry).Meta()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	meta.UpdatedAt = nil

	args := append(s.table.values(&entry), meta.IsActive, meta.DisplayOrder, meta.CreatedAt)
	cols := append(append([]string{}, s.table.fields...), "is_active", "display_order", "created_at")
	query := `INSERT INTO ` + s.table.name + ` (` + strings.Join(cols, ", ") + `) VALUES (` +
		placeholders(1, len(args)) + `) RETURNING id`

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&meta.ID); err != nil {
		var zero T
		return zero, fmt.Errorf("insert into %s: %w", s.table.name, err)
	}
	return entry, nil
}

func (s *pgSection[T, P]) Update(ctx context.Context, entry T) (T, error) {
	meta := P(&entry).Meta()
	now := time.Now().UTC()

	args := append(s.table.values(&entry), meta.IsActive, meta.DisplayOrder, now)
	cols := append(append([]string{}, s.table.fields...), "is_active", "display_order", "updated_at")
	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, meta.ID)
	query := `UPDATE ` + s.table.name + ` SET ` + strings.Join(assignments, ", ") +
		fmt.Sprintf(` WHERE id = $%d RETURNING created_at`, len(args))

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&meta.CreatedAt); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("update %s: %w", s.table.name, err)
	}
	meta.UpdatedAt = &now
	return entry, nil
}

func (s *pgSection[T, P]) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table.name+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", s.table.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// placeholders renders "$from, ..., $(from+n-1)".
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

var (
	skillsTable = sectionTable[domain.Skill]{
		name:   "skills",
		fields: []string{"name", "percentage", "category"},
		values: func(s *domain.Skill) []any { return []any{s.Name, s.Percentage, s.Category} },
		targets: func(s *domain.Skill) []any {
			return []any{&s.Name, &s.Percentage, &s.Category}
		},
		orderBy: "percentage DESC",
	}

	educationTable = sectionTable[domain.Education]{
		name:   "education",
		fields: []string{"school", "level", "degree", "field_of_study", "gpa", "start_date", "end_date", "description"},
		values: func(e *domain.Education) []any {
			return []any{e.School, e.Level, e.Degree, e.FieldOfStudy, e.GPA, e.StartDate, e.EndDate, e.Description}
		},
		targets: func(e *domain.Education) []any {
			return []any{&e.School, &e.Level, &e.Degree, &e.FieldOfStudy, &e.GPA, &e.StartDate, &e.EndDate, &e.Description}
		},
		orderBy: "start_date DESC NULLS LAST",
	}

	experienceTable = sectionTable[domain.WorkExperience]{
		name:   "work_experience",
		fields: []string{"company", "position", "start_date", "end_date", "description", "is_current"},
		values: func(w *domain.WorkExperience) []any {
			return []any{w.Company, w.Position, w.StartDate, w.EndDate, w.Description, w.IsCurrent}
		},
		targets: func(w *domain.WorkExperience) []any {
			return []any{&w.Company, &w.Position, &w.StartDate, &w.EndDate, &w.Description, &w.IsCurrent}
		},
		orderBy: "start_date DESC NULLS LAST",
	}

	referencesTable = sectionTable[domain.Reference]{
		name:   "professional_references",
		fields: []string{"name", "title", "company", "email", "phone"},
		values: func(r *domain.Reference) []any {
			return []any{r.Name, r.Title, r.Company, r.Email, r.Phone}
		},
		targets: func(r *domain.Reference) []any {
			return []any{&r.Name, &r.Title, &r.Company, &r.Email, &r.Phone}
		},
		orderBy: "name ASC",
	}
)
