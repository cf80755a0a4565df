package course

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrNotFound is returned when a course id resolves to nothing.
var ErrNotFound = errors.New("course not found")

// Summary is the course-list projection shown on the learner dashboard.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Chapters    int    `json:"chapters"`
	Topics      int    `json:"topics"`
}

// Store persists course documents. Each course is one nested document;
// chapters, topics, blocks and questions are embedded, which keeps order-based
// sequencing and first-incomplete scans free of joins.
type Store interface {
	GetCourse(id string) (*Course, error)
	ListCourses() ([]Summary, error)
	PutCourse(c *Course) error
	DeleteCourse(id string) error
}

// MemoryStore is an in-memory Store used in tests and when no database is
// configured.
type MemoryStore struct {
	courses map[string]*Course
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory course store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{courses: make(map[string]*Course)}
}

func (s *MemoryStore) GetCourse(id string) (*Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.Clone(), nil
}

func (s *MemoryStore) ListCourses() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.courses))
	for _, c := range s.courses {
		summaries = append(summaries, Summary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Chapters:    len(c.Chapters),
			Topics:      c.TotalTopics(),
		})
	}
	SortSummaries(summaries)
	return summaries, nil
}

func (s *MemoryStore) PutCourse(c *Course) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c.Clone()
	return nil
}

func (s *MemoryStore) DeleteCourse(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.courses, id)
	return nil
}

// SortSummaries orders course summaries by title using Dutch collation, which
// keeps IJ/ij and accented titles where a Dutch learner expects them.
func SortSummaries(summaries []Summary) {
	c := collate.New(language.Dutch)
	c.Sort(summaryList(summaries))
}

type summaryList []Summary

func (l summaryList) Len() int           { return len(l) }
func (l summaryList) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }
func (l summaryList) Bytes(i int) []byte { return []byte(l[i].Title) }

// Clone returns a deep copy of the course via a JSON round-trip. Mutation
// operations edit a clone and persist it only after validation passes.
func (c *Course) Clone() *Course {
	data, err := json.Marshal(c)
	if err != nil {
		// The aggregate is plain data; marshalling cannot fail.
		panic(fmt.Sprintf("clone course %s: %v", c.ID, err))
	}
	var clone Course
	if err := json.Unmarshal(data, &clone); err != nil {
		panic(fmt.Sprintf("clone course %s: %v", c.ID, err))
	}
	return &clone
}
