package progress

import (
	"sort"
	"sync"
	"time"
)

// Store persists progress records. Get never fails for a missing record: the
// record is created lazily, so an unseen (user, course) pair reads as empty.
type Store interface {
	Get(userID, courseID string) (*Record, error)
	ListByCourse(courseID string) ([]*Record, error)
	Start(userID, courseID, chapterID, topicID string) error
	MarkTopicComplete(userID, courseID, topicID string) error
	PutQuizResult(userID, courseID, quizKey string, result QuizResult) error
}

// MemoryStore is an in-memory Store for tests and database-less runs.
type MemoryStore struct {
	records map[string]*Record
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func recordKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (s *MemoryStore) Get(userID, courseID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[recordKey(userID, courseID)]
	if !ok {
		return NewRecord(userID, courseID), nil
	}
	return r.clone(), nil
}

func (s *MemoryStore) ListByCourse(courseID string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*Record
	for _, r := range s.records {
		if r.CourseID == courseID {
			records = append(records, r.clone())
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })
	return records, nil
}

func (s *MemoryStore) Start(userID, courseID, chapterID, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.getOrCreate(userID, courseID)
	r.Start(chapterID, topicID)
	r.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) MarkTopicComplete(userID, courseID, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.getOrCreate(userID, courseID)
	r.MarkTopicComplete(topicID)
	r.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) PutQuizResult(userID, courseID, quizKey string, result QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.getOrCreate(userID, courseID)
	r.PutQuizResult(quizKey, result)
	r.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) getOrCreate(userID, courseID string) *Record {
	key := recordKey(userID, courseID)
	r, ok := s.records[key]
	if !ok {
		r = NewRecord(userID, courseID)
		s.records[key] = r
	}
	return r
}

func (r *Record) clone() *Record {
	cp := &Record{
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		Topics:    make(map[string]bool, len(r.Topics)),
		Quizzes:   make(map[string]QuizResult, len(r.Quizzes)),
		UpdatedAt: r.UpdatedAt,
	}
	for k, v := range r.Topics {
		cp.Topics[k] = v
	}
	for k, v := range r.Quizzes {
		cp.Quizzes[k] = v
	}
	if r.LastPosition != nil {
		pos := *r.LastPosition
		cp.LastPosition = &pos
	}
	return cp
}
