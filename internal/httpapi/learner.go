package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/gating"
	"github.com/staplero/staplero/internal/progress"
	"github.com/staplero/staplero/internal/quiz"
)

// chapterView annotates a chapter with the learner's derived state. Status is
// recomputed from progress on every read; a stored status is never trusted.
type chapterView struct {
	course.Chapter
	Accessible bool `json:"accessible"`
	Progress   int  `json:"progress"`
	NeedsQuiz  bool `json:"needsQuiz"`
}

type courseView struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description,omitempty"`
	Chapters            []chapterView `json:"chapters"`
	HasFinalQuiz        bool          `json:"hasFinalQuiz"`
	FinalQuizAccessible bool          `json:"finalQuizAccessible"`
	Progress            int           `json:"progress"`
	NextAction          gating.Action `json:"nextAction"`
}

type lockedBody struct {
	Error    string        `json:"error"`
	Redirect gating.Action `json:"redirect"`
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.courses.ListCourses()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}

	view := courseView{
		ID:                  c.ID,
		Title:               c.Title,
		Description:         c.Description,
		Chapters:            make([]chapterView, 0, len(c.Chapters)),
		HasFinalQuiz:        c.FinalQuiz != nil,
		FinalQuizAccessible: c.FinalQuiz != nil && gating.FinalQuizAccessible(c, rec),
		Progress:            gating.CourseProgress(c, rec),
		NextAction:          gating.NextAction(c, rec),
	}

	for i := range c.Chapters {
		ch := c.Chapters[i]
		ch.Status = gating.ChapterStatus(c, rec, i)
		// Chapter quizzes ship without answer keys; submissions are scored
		// server-side.
		if ch.Quiz != nil {
			ch.Quiz = quiz.Sanitize(ch.Quiz)
		}
		view.Chapters = append(view.Chapters, chapterView{
			Chapter:    ch,
			Accessible: gating.ChapterAccessible(c, rec, i),
			Progress:   gating.ChapterProgress(&c.Chapters[i], rec),
			NeedsQuiz:  gating.NeedsQuiz(&c.Chapters[i], rec),
		})
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record":     rec,
		"progress":   gating.CourseProgress(c, rec),
		"nextAction": gating.NextAction(c, rec),
	})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, gating.Resume(c, rec))
}

func (s *Server) handleStartTopic(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	chapterID := r.PathValue("chapterID")
	topicID := r.PathValue("topicID")

	if _, found := c.FindTopic(chapterID, topicID); !found {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "topic not found"})
		return
	}
	if !gating.TopicAccessible(c, rec, chapterID, topicID) {
		writeJSON(w, http.StatusForbidden, lockedBody{
			Error:    "topic is locked",
			Redirect: gating.NextAction(c, rec),
		})
		return
	}

	userID := UserID(r.Context())
	if err := s.progress.Start(userID, c.ID, chapterID, topicID); err != nil {
		writeError(w, err)
		return
	}
	s.logEvent(userID, c.ID, progress.EventTopicStarted, map[string]any{
		"chapter_id": chapterID,
		"topic_id":   topicID,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteTopic(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	chapterID := r.PathValue("chapterID")
	topicID := r.PathValue("topicID")

	if _, found := c.FindTopic(chapterID, topicID); !found {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "topic not found"})
		return
	}
	if !gating.TopicAccessible(c, rec, chapterID, topicID) {
		writeJSON(w, http.StatusForbidden, lockedBody{
			Error:    "topic is locked",
			Redirect: gating.NextAction(c, rec),
		})
		return
	}

	userID := UserID(r.Context())
	if err := s.progress.MarkTopicComplete(userID, c.ID, topicID); err != nil {
		writeError(w, err)
		return
	}
	s.logEvent(userID, c.ID, progress.EventTopicCompleted, map[string]any{
		"chapter_id": chapterID,
		"topic_id":   topicID,
	})
	s.publishProgress(userID, c)

	rec.MarkTopicComplete(topicID)
	writeJSON(w, http.StatusOK, map[string]any{
		"progress":   gating.CourseProgress(c, rec),
		"nextAction": gating.NextAction(c, rec),
	})
}

func (s *Server) handleGetChapterQuiz(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	chapterID := r.PathValue("chapterID")

	ch, found := c.FindChapter(chapterID)
	if !found || ch.Quiz == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "quiz not found"})
		return
	}

	if !gating.ChapterAccessible(c, rec, chapterIndexOf(c, chapterID)) {
		writeJSON(w, http.StatusForbidden, lockedBody{
			Error:    "chapter is locked",
			Redirect: gating.NextAction(c, rec),
		})
		return
	}

	writeJSON(w, http.StatusOK, quiz.Sanitize(ch.Quiz))
}

type submission struct {
	Answers      map[string]quiz.Answer `json:"answers"`
	TimerExpired bool                   `json:"timerExpired"`
}

func (s *Server) handleSubmitChapterQuiz(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	chapterID := r.PathValue("chapterID")

	ch, found := c.FindChapter(chapterID)
	if !found || ch.Quiz == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "quiz not found"})
		return
	}
	if !gating.ChapterAccessible(c, rec, chapterIndexOf(c, chapterID)) {
		writeJSON(w, http.StatusForbidden, lockedBody{
			Error:    "chapter is locked",
			Redirect: gating.NextAction(c, rec),
		})
		return
	}

	s.submitQuiz(w, r, c, rec, ch.Quiz, chapterID)
}

func (s *Server) handleGetFinalQuiz(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	if c.FinalQuiz == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "course has no final quiz"})
		return
	}
	if !gating.FinalQuizAccessible(c, rec) {
		writeJSON(w, http.StatusForbidden, lockedBody{
			Error:    "final quiz is locked",
			Redirect: gating.NextAction(c, rec),
		})
		return
	}

	body := map[string]any{"quiz": quiz.Sanitize(c.FinalQuiz)}
	if prev, found := rec.Quizzes[course.FinalQuizKey]; found {
		body["previousResult"] = prev
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSubmitFinalQuiz(w http.ResponseWriter, r *http.Request) {
	c, rec, ok := s.loadCourseAndProgress(w, r)
	if !ok {
		return
	}
	if c.FinalQuiz == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "course has no final quiz"})
		return
	}
	if !gating.FinalQuizAccessible(c, rec) {
		writeJSON(w, http.StatusForbidden, lockedBody{
			Error:    "final quiz is locked",
			Redirect: gating.NextAction(c, rec),
		})
		return
	}

	s.submitQuiz(w, r, c, rec, c.FinalQuiz, course.FinalQuizKey)
}

// submitQuiz evaluates a submission and persists the result under the given
// progress key. The stored result is overwritten wholesale per attempt.
func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request, c *course.Course, rec *progress.Record, q *course.Quiz, quizKey string) {
	var sub submission
	if !decodeBody(w, r, &sub) {
		return
	}

	result, err := quiz.Evaluate(q, sub.Answers, sub.TimerExpired)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := UserID(r.Context())
	stored := progress.QuizResult{
		Passed:      result.Passed,
		Score:       result.Score,
		CompletedAt: time.Now(),
	}
	if err := s.progress.PutQuizResult(userID, c.ID, quizKey, stored); err != nil {
		writeError(w, err)
		return
	}
	s.logEvent(userID, c.ID, progress.EventQuizSubmitted, map[string]any{
		"quiz_key":      quizKey,
		"score":         result.Score,
		"passed":        result.Passed,
		"timer_expired": sub.TimerExpired,
	})
	s.publishProgress(userID, c)

	writeJSON(w, http.StatusOK, result)
}

func chapterIndexOf(c *course.Course, chapterID string) int {
	for i := range c.Chapters {
		if c.Chapters[i].ID == chapterID {
			return i
		}
	}
	return -1
}

func (s *Server) loadCourseAndProgress(w http.ResponseWriter, r *http.Request) (*course.Course, *progress.Record, bool) {
	courseID := r.PathValue("courseID")

	c, err := s.courses.GetCourse(courseID)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}

	rec, err := s.progress.Get(UserID(r.Context()), courseID)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return c, rec, true
}

func (s *Server) logEvent(userID, courseID, eventType string, data map[string]any) {
	err := s.events.LogEvent(progress.Event{
		UserID:    userID,
		CourseID:  courseID,
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		slog.Warn("event logging failed", "type", eventType, "error", err)
	}
}

// publishProgress pushes a fresh progress snapshot to the learner's live
// dashboard subscriptions.
func (s *Server) publishProgress(userID string, c *course.Course) {
	rec, err := s.progress.Get(userID, c.ID)
	if err != nil {
		slog.Warn("live progress fetch failed", "user_id", userID, "error", err)
		return
	}
	s.hub.Publish(userID, c.ID, progressUpdate{
		Progress:   gating.CourseProgress(c, rec),
		NextAction: gating.NextAction(c, rec),
	})
}
