// Package progress tracks per-learner, per-course completion state.
package progress

import "time"

// QuizResult is the stored outcome of the latest attempt at one quiz.
// Resubmission overwrites it; the events log keeps the attempt trail.
type QuizResult struct {
	Passed      bool      `json:"passed"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

// Position points at the learner's last visited topic.
type Position struct {
	ChapterID string `json:"chapterId"`
	TopicID   string `json:"topicId"`
}

// Record is the progress document for one (user, course) pair. It is created
// lazily on the first topic visit and only ever grows.
type Record struct {
	UserID       string                `json:"userId"`
	CourseID     string                `json:"courseId"`
	Topics       map[string]bool       `json:"topics"`
	Quizzes      map[string]QuizResult `json:"quizzes"`
	LastPosition *Position             `json:"lastPosition,omitempty"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// NewRecord creates an empty progress record.
func NewRecord(userID, courseID string) *Record {
	return &Record{
		UserID:   userID,
		CourseID: courseID,
		Topics:   make(map[string]bool),
		Quizzes:  make(map[string]QuizResult),
	}
}

// Start records the learner's position. Idempotent: revisiting a topic just
// rewrites the same position.
func (r *Record) Start(chapterID, topicID string) {
	r.LastPosition = &Position{ChapterID: chapterID, TopicID: topicID}
}

// MarkTopicComplete sets the topic's completion flag. Idempotent and
// commutative across topics: each call only ever sets its own key to true.
func (r *Record) MarkTopicComplete(topicID string) {
	if r.Topics == nil {
		r.Topics = make(map[string]bool)
	}
	r.Topics[topicID] = true
}

// TopicComplete reports whether the topic has been completed.
func (r *Record) TopicComplete(topicID string) bool {
	return r.Topics[topicID]
}

// PutQuizResult upserts the result for a quiz key (chapter id or the final
// quiz key). Last write wins.
func (r *Record) PutQuizResult(key string, result QuizResult) {
	if r.Quizzes == nil {
		r.Quizzes = make(map[string]QuizResult)
	}
	r.Quizzes[key] = result
}

// QuizPassed reports whether the quiz under the given key has a passing
// result on record.
func (r *Record) QuizPassed(key string) bool {
	res, ok := r.Quizzes[key]
	return ok && res.Passed
}
