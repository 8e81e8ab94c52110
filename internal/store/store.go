package store

import (
	"context"

	"github.com/dunamismax/folio/internal/domain"
)

type ProjectStore interface {
	CreateProject(ctx context.Context, p domain.Project) (domain.Project, error)
	GetProject(ctx context.Context, id int64) (domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context, publishedOnly bool) ([]domain.Project, error)
}

type ProfileStore interface {
	// ActiveProfile returns the most recently updated active record.
	ActiveProfile(ctx context.Context) (domain.PersonalDetails, error)
	SaveProfile(ctx context.Context, d domain.PersonalDetails) (domain.PersonalDetails, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m domain.ContactMessage) error
	ListMessages(ctx context.Context) ([]domain.ContactMessage, error)
	MarkMessageRead(ctx context.Context, id string) (domain.ContactMessage, error)
	ToggleMessageRead(ctx context.Context, id string) (domain.ContactMessage, error)
	DeleteMessage(ctx context.Context, id string) error
}

// SectionStore persists one kind of resume section record.
type SectionStore[T any] interface {
	List(ctx context.Context, activeOnly bool) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, entry T) (T, error)
	Update(ctx context.Context, entry T) (T, error)
	Delete(ctx context.Context, id int64) error
}

type ResumeStore interface {
	Skills() SectionStore[domain.Skill]
	Education() SectionStore[domain.Education]
	WorkExperience() SectionStore[domain.WorkExperience]
	References() SectionStore[domain.Reference]
}

// Store bundles every record kind the portfolio persists.
type Store interface {
	ProjectStore
	ProfileStore
	MessageStore
	ResumeStore
}
