// Package httpapi exposes the learner and authoring APIs over HTTP.
package httpapi

import (
	"net/http"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/progress"
)

// Server holds the handler dependencies.
type Server struct {
	courses  course.Store
	editor   *course.Editor
	progress progress.Store
	events   progress.EventLogger
	verifier TokenVerifier
	hub      *Hub

	adminTokenHash []byte // bcrypt hash of the admin token
}

// ServerConfig wires a Server.
type ServerConfig struct {
	Courses        course.Store
	Progress       progress.Store
	Events         progress.EventLogger
	Verifier       TokenVerifier
	AdminTokenHash []byte
}

// NewServer creates the API server. Nil optional dependencies fall back to
// in-memory or no-op implementations.
func NewServer(cfg ServerConfig) *Server {
	courses := cfg.Courses
	if courses == nil {
		courses = course.NewMemoryStore()
	}
	prog := cfg.Progress
	if prog == nil {
		prog = progress.NewMemoryStore()
	}
	events := cfg.Events
	if events == nil {
		events = progress.NopEventLogger{}
	}
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = PassthroughVerifier{}
	}

	return &Server{
		courses:        courses,
		editor:         course.NewEditor(courses),
		progress:       prog,
		events:         events,
		verifier:       verifier,
		hub:            NewHub(),
		adminTokenHash: cfg.AdminTokenHash,
	}
}

// Routes registers all API routes on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	// Learner surface.
	mux.HandleFunc("GET /api/courses", s.requireUser(s.handleListCourses))
	mux.HandleFunc("GET /api/courses/{courseID}", s.requireUser(s.handleGetCourse))
	mux.HandleFunc("GET /api/courses/{courseID}/progress", s.requireUser(s.handleGetProgress))
	mux.HandleFunc("GET /api/courses/{courseID}/resume", s.requireUser(s.handleResume))
	mux.HandleFunc("POST /api/courses/{courseID}/chapters/{chapterID}/topics/{topicID}/start", s.requireUser(s.handleStartTopic))
	mux.HandleFunc("POST /api/courses/{courseID}/chapters/{chapterID}/topics/{topicID}/complete", s.requireUser(s.handleCompleteTopic))
	mux.HandleFunc("GET /api/courses/{courseID}/chapters/{chapterID}/quiz", s.requireUser(s.handleGetChapterQuiz))
	mux.HandleFunc("POST /api/courses/{courseID}/chapters/{chapterID}/quiz", s.requireUser(s.handleSubmitChapterQuiz))
	mux.HandleFunc("GET /api/courses/{courseID}/final-quiz", s.requireUser(s.handleGetFinalQuiz))
	mux.HandleFunc("POST /api/courses/{courseID}/final-quiz", s.requireUser(s.handleSubmitFinalQuiz))
	mux.HandleFunc("GET /api/courses/{courseID}/live", s.requireUser(s.handleLive))

	// Authoring surface.
	mux.HandleFunc("POST /api/admin/courses", s.requireAdmin(s.handleCreateCourse))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}", s.requireAdmin(s.handleDeleteCourse))
	mux.HandleFunc("POST /api/admin/courses/{courseID}/chapters", s.requireAdmin(s.handleAddChapter))
	mux.HandleFunc("POST /api/admin/courses/{courseID}/chapters/reorder", s.requireAdmin(s.handleReorderChapters))
	mux.HandleFunc("PUT /api/admin/courses/{courseID}/chapters/{chapterID}", s.requireAdmin(s.handleUpdateChapter))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}/chapters/{chapterID}", s.requireAdmin(s.handleDeleteChapter))
	mux.HandleFunc("POST /api/admin/courses/{courseID}/chapters/{chapterID}/topics", s.requireAdmin(s.handleAddTopic))
	mux.HandleFunc("PUT /api/admin/courses/{courseID}/chapters/{chapterID}/topics/{topicID}", s.requireAdmin(s.handleUpdateTopic))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}/chapters/{chapterID}/topics/{topicID}", s.requireAdmin(s.handleDeleteTopic))
	mux.HandleFunc("POST /api/admin/courses/{courseID}/chapters/{chapterID}/topics/{topicID}/blocks", s.requireAdmin(s.handleAddBlock))
	mux.HandleFunc("POST /api/admin/courses/{courseID}/chapters/{chapterID}/topics/{topicID}/blocks/reorder", s.requireAdmin(s.handleReorderBlocks))
	mux.HandleFunc("PUT /api/admin/courses/{courseID}/chapters/{chapterID}/topics/{topicID}/blocks/{blockID}", s.requireAdmin(s.handleUpdateBlock))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}/chapters/{chapterID}/topics/{topicID}/blocks/{blockID}", s.requireAdmin(s.handleDeleteBlock))
	mux.HandleFunc("PUT /api/admin/courses/{courseID}/chapters/{chapterID}/quiz", s.requireAdmin(s.handlePutChapterQuiz))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}/chapters/{chapterID}/quiz", s.requireAdmin(s.handleDeleteChapterQuiz))
	mux.HandleFunc("PUT /api/admin/courses/{courseID}/final-quiz", s.requireAdmin(s.handlePutFinalQuiz))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}/final-quiz", s.requireAdmin(s.handleDeleteFinalQuiz))
	mux.HandleFunc("POST /api/admin/courses/{courseID}/quizzes/{quizKey}/questions", s.requireAdmin(s.handleAddQuestion))
	mux.HandleFunc("PUT /api/admin/courses/{courseID}/quizzes/{quizKey}/questions/{questionID}", s.requireAdmin(s.handleUpdateQuestion))
	mux.HandleFunc("DELETE /api/admin/courses/{courseID}/quizzes/{quizKey}/questions/{questionID}", s.requireAdmin(s.handleDeleteQuestion))
	mux.HandleFunc("GET /api/admin/courses/{courseID}/export", s.requireAdmin(s.handleExport))
}
