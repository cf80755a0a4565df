package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/export"
)

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var c course.Course
	if !decodeBody(w, r, &c) {
		return
	}
	if err := s.editor.CreateCourse(&c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID})
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteCourse(r.PathValue("courseID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	var ch course.Chapter
	if !decodeBody(w, r, &ch) {
		return
	}
	if err := s.editor.AddChapter(r.PathValue("courseID"), ch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": ch.ID})
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Title == "" {
		writeError(w, course.ValidationError{Field: "title", Msg: "chapter title is required"})
		return
	}
	err := s.editor.UpdateChapter(r.PathValue("courseID"), r.PathValue("chapterID"), body.Title, body.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteChapter(r.PathValue("courseID"), r.PathValue("chapterID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderChapters(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChapterIDs []string `json:"chapterIds"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.editor.ReorderChapters(r.PathValue("courseID"), body.ChapterIDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTopic(w http.ResponseWriter, r *http.Request) {
	var t course.Topic
	if !decodeBody(w, r, &t) {
		return
	}
	if err := s.editor.AddTopic(r.PathValue("courseID"), r.PathValue("chapterID"), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": t.ID})
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	var t course.Topic
	if !decodeBody(w, r, &t) {
		return
	}
	t.ID = r.PathValue("topicID")
	if err := s.editor.UpdateTopic(r.PathValue("courseID"), r.PathValue("chapterID"), t); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	err := s.editor.DeleteTopic(r.PathValue("courseID"), r.PathValue("chapterID"), r.PathValue("topicID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddBlock(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBlock(w, r)
	if !ok {
		return
	}
	err := s.editor.AddBlock(r.PathValue("courseID"), r.PathValue("chapterID"), r.PathValue("topicID"), b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": b.ID})
}

func (s *Server) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBlock(w, r)
	if !ok {
		return
	}
	b.ID = r.PathValue("blockID")
	err := s.editor.UpdateBlock(r.PathValue("courseID"), r.PathValue("chapterID"), r.PathValue("topicID"), b)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	err := s.editor.DeleteBlock(r.PathValue("courseID"), r.PathValue("chapterID"), r.PathValue("topicID"), r.PathValue("blockID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderBlocks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BlockIDs []string `json:"blockIds"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	err := s.editor.ReorderBlocks(r.PathValue("courseID"), r.PathValue("chapterID"), r.PathValue("topicID"), body.BlockIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePutChapterQuiz(w http.ResponseWriter, r *http.Request) {
	var q course.Quiz
	if !decodeBody(w, r, &q) {
		return
	}
	if err := s.editor.PutChapterQuiz(r.PathValue("courseID"), r.PathValue("chapterID"), q); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteChapterQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteChapterQuiz(r.PathValue("courseID"), r.PathValue("chapterID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePutFinalQuiz(w http.ResponseWriter, r *http.Request) {
	var q course.Quiz
	if !decodeBody(w, r, &q) {
		return
	}
	if err := s.editor.PutFinalQuiz(r.PathValue("courseID"), q); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteFinalQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteFinalQuiz(r.PathValue("courseID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var q course.QuizQuestion
	if !decodeBody(w, r, &q) {
		return
	}
	if err := s.editor.AddQuestion(r.PathValue("courseID"), r.PathValue("quizKey"), q); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": q.ID})
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var q course.QuizQuestion
	if !decodeBody(w, r, &q) {
		return
	}
	q.ID = r.PathValue("questionID")
	if err := s.editor.UpdateQuestion(r.PathValue("courseID"), r.PathValue("quizKey"), q); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	err := s.editor.DeleteQuestion(r.PathValue("courseID"), r.PathValue("quizKey"), r.PathValue("questionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")

	c, err := s.courses.GetCourse(courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := s.progress.ListByCourse(courseID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Render into a buffer first so a workbook failure still gets a clean
	// JSON error response instead of a truncated attachment.
	var buf bytes.Buffer
	if err := export.WriteProgressXLSX(&buf, c, records); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-progress.xlsx"`, courseID))
	w.Write(buf.Bytes())
}

// decodeBlock reads a content block from the request, checking interactive
// payloads against their JSON Schema before unmarshalling so editor mistakes
// come back with the offending field named.
func decodeBlock(w http.ResponseWriter, r *http.Request) (course.ContentBlock, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return course.ContentBlock{}, false
	}

	if err := checkInteractiveSchema(body); err != nil {
		writeError(w, err)
		return course.ContentBlock{}, false
	}

	var b course.ContentBlock
	if err := json.Unmarshal(body, &b); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return course.ContentBlock{}, false
	}
	return b, true
}

func checkInteractiveSchema(body []byte) error {
	var probe struct {
		Type        course.BlockType `json:"type"`
		Interactive *struct {
			Kind           course.InteractiveKind `json:"kind"`
			DragOrder      json.RawMessage        `json:"dragOrder"`
			Hotspot        json.RawMessage        `json:"hotspot"`
			TrueFalse      json.RawMessage        `json:"trueFalse"`
			AnnotatedImage json.RawMessage        `json:"annotatedImage"`
		} `json:"interactive"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return course.ValidationError{Field: "block", Msg: "invalid block payload"}
	}
	if probe.Type != course.BlockInteractive || probe.Interactive == nil {
		return nil
	}

	var raw json.RawMessage
	switch probe.Interactive.Kind {
	case course.InteractiveDragOrder:
		raw = probe.Interactive.DragOrder
	case course.InteractiveHotspot:
		raw = probe.Interactive.Hotspot
	case course.InteractiveTrueFalse:
		raw = probe.Interactive.TrueFalse
	case course.InteractiveAnnotatedImage:
		raw = probe.Interactive.AnnotatedImage
	}
	if raw == nil {
		// Missing payloads are caught by the structural validation.
		return nil
	}
	return course.ValidateInteractiveJSON(probe.Interactive.Kind, raw)
}
