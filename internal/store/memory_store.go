package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dunamismax/folio/internal/domain"
)

type MemoryStore struct {
	mu            sync.RWMutex
	projects      map[int64]domain.Project
	profiles      map[int64]domain.PersonalDetails
	messages      map[string]domain.ContactMessage
	nextProjectID int64
	nextProfileID int64
	now           func() time.Time

	skills     *memorySection[domain.Skill, *domain.Skill]
	education  *memorySection[domain.Education, *domain.Education]
	experience *memorySection[domain.WorkExperience, *domain.WorkExperience]
	references *memorySection[domain.Reference, *domain.Reference]
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		projects: make(map[int64]domain.Project),
		profiles: make(map[int64]domain.PersonalDetails),
		messages: make(map[string]domain.ContactMessage),
		now:      func() time.Time { return time.Now().UTC() },
	}
	clock := func() time.Time { return s.now() }
	s.skills = newMemorySection[domain.Skill, *domain.Skill](clock, skillsByPercentage)
	s.education = newMemorySection[domain.Education, *domain.Education](clock, func(a, b *domain.Education) bool {
		return startedLater(a.StartDate, b.StartDate)
	})
	s.experience = newMemorySection[domain.WorkExperience, *domain.WorkExperience](clock, func(a, b *domain.WorkExperience) bool {
		return startedLater(a.StartDate, b.StartDate)
	})
	s.references = newMemorySection[domain.Reference, *domain.Reference](clock, func(a, b *domain.Reference) bool {
		return a.Name < b.Name
	})
	return s
}

func (s *MemoryStore) Skills() SectionStore[domain.Skill]                  { return s.skills }
func (s *MemoryStore) Education() SectionStore[domain.Education]           { return s.education }
func (s *MemoryStore) WorkExperience() SectionStore[domain.WorkExperience] { return s.experience }
func (s *MemoryStore) References() SectionStore[domain.Reference]          { return s.references }

func (s *MemoryStore) CreateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProjectID++
	p.ID = s.nextProjectID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.projects[p.ID] = p
	return p, nil
}

func (s *MemoryStore) GetProject(_ context.Context, id int64) (domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	now := s.now()
	p.UpdatedAt = &now
	s.projects[p.ID] = p
	return p, nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) ListProjects(_ context.Context, publishedOnly bool) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if publishedOnly && !(p.IsPublished && p.Status == domain.ProjectStatusPublished) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ActiveProfile(_ context.Context) (domain.PersonalDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  domain.PersonalDetails
		found bool
	)
	for _, d := range s.profiles {
		if !d.IsActive {
			continue
		}
		if !found || d.UpdatedAt.After(best.UpdatedAt) {
			best, found = d, true
		}
	}
	if !found {
		return domain.PersonalDetails{}, domain.ErrNotFound
	}
	return best, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, d domain.PersonalDetails) (domain.PersonalDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if d.ID == 0 {
		s.nextProfileID++
		d.ID = s.nextProfileID
		d.CreatedAt = now
	} else if existing, ok := s.profiles[d.ID]; ok {
		d.CreatedAt = existing.CreatedAt
	} else {
		return domain.PersonalDetails{}, domain.ErrNotFound
	}
	d.UpdatedAt = now
	s.profiles[d.ID] = d
	return d, nil
}

func (s *MemoryStore) CreateMessage(_ context.Context, m domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = m
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context) ([]domain.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) MarkMessageRead(_ context.Context, id string) (domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domain.ContactMessage{}, domain.ErrNotFound
	}
	m.MarkRead(s.now())
	s.messages[id] = m
	return m, nil
}

func (s *MemoryStore) ToggleMessageRead(_ context.Context, id string) (domain.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domain.ContactMessage{}, domain.ErrNotFound
	}
	m.ToggleRead(s.now())
	s.messages[id] = m
	return m, nil
}

func (s *MemoryStore) DeleteMessage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.messages, id)
	return nil
}
