package httpapi_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestAdmin_RejectsLearnerToken(t *testing.T) {
	mux, _, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/chapters", "anna",
		`{"id": "ch-nieuw", "title": "Nieuw hoofdstuk"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/chapters", "",
		`{"id": "ch-nieuw", "title": "Nieuw hoofdstuk"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", rec.Code)
	}
}

func TestAdmin_ChapterCRUD(t *testing.T) {
	mux, courses, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/chapters", adminToken,
		`{"id": "ch-onderhoud", "title": "Onderhoud"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add chapter = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodPut, "/api/admin/courses/heftruck-basis/chapters/ch-onderhoud", adminToken,
		`{"title": "Dagelijks onderhoud", "description": "Checklist voor elke dienst"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update chapter = %d, body %s", rec.Code, rec.Body.String())
	}

	c, _ := courses.GetCourse("heftruck-basis")
	ch, ok := c.FindChapter("ch-onderhoud")
	if !ok || ch.Title != "Dagelijks onderhoud" || ch.Order != 2 {
		t.Errorf("chapter after update = %+v", ch)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/admin/courses/heftruck-basis/chapters/ch-onderhoud", adminToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete chapter = %d", rec.Code)
	}
	c, _ = courses.GetCourse("heftruck-basis")
	if len(c.Chapters) != 2 {
		t.Errorf("chapters after delete = %d, want 2", len(c.Chapters))
	}
}

func TestAdmin_UpdateChapterRequiresTitle(t *testing.T) {
	mux, _, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPut, "/api/admin/courses/heftruck-basis/chapters/ch-intro", adminToken,
		`{"title": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Field string `json:"field"`
	}
	decode(t, rec, &body)
	if body.Field != "title" {
		t.Errorf("field = %q, want title", body.Field)
	}
}

func TestAdmin_ReorderChapters(t *testing.T) {
	mux, courses, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/chapters/reorder", adminToken,
		`{"chapterIds": ["ch-techniek", "ch-intro"]}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reorder = %d, body %s", rec.Code, rec.Body.String())
	}

	c, _ := courses.GetCourse("heftruck-basis")
	if c.Chapters[0].ID != "ch-techniek" || c.Chapters[0].Order != 0 {
		t.Errorf("first chapter = %s order %d, want ch-techniek order 0", c.Chapters[0].ID, c.Chapters[0].Order)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/chapters/reorder", adminToken,
		`{"chapterIds": ["ch-intro"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("partial reorder = %d, want 400", rec.Code)
	}
}

func TestAdmin_AddBlock(t *testing.T) {
	mux, courses, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost,
		"/api/admin/courses/heftruck-basis/chapters/ch-intro/topics/t1/blocks", adminToken,
		`{"id": "b1", "type": "callout", "callout": {"style": "warning", "body": "Draag altijd je gordel"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add block = %d, body %s", rec.Code, rec.Body.String())
	}

	c, _ := courses.GetCourse("heftruck-basis")
	topic, _ := c.FindTopic("ch-intro", "t1")
	if len(topic.Blocks) != 1 || topic.Blocks[0].Callout == nil {
		t.Errorf("blocks = %+v, want one callout", topic.Blocks)
	}
}

func TestAdmin_AddBlock_RejectsMixedPayload(t *testing.T) {
	mux, _, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost,
		"/api/admin/courses/heftruck-basis/chapters/ch-intro/topics/t1/blocks", adminToken,
		`{"id": "b1", "type": "video", "video": {"url": "https://cdn.staplero.nl/v.mp4"}, "image": {"url": "https://cdn.staplero.nl/i.jpg"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mixed payload = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_AddBlock_InteractiveSchemaChecked(t *testing.T) {
	mux, _, _ := newTestServer(t)

	// correctOrder missing: the schema names the payload before unmarshalling.
	rec := doJSON(t, mux, http.MethodPost,
		"/api/admin/courses/heftruck-basis/chapters/ch-intro/topics/t1/blocks", adminToken,
		`{"id": "b1", "type": "interactive", "interactive": {"kind": "drag-order", "dragOrder": {"title": "Stappen", "items": [{"id": "a", "label": "x"}]}}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid interactive = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "interactive") {
		t.Errorf("error should name the interactive field, got %s", rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodPost,
		"/api/admin/courses/heftruck-basis/chapters/ch-intro/topics/t1/blocks", adminToken,
		`{"id": "b2", "type": "interactive", "interactive": {"kind": "drag-order", "dragOrder": {"title": "Stappen", "items": [{"id": "a", "label": "Vorken zakken"}, {"id": "b", "label": "Handrem aan"}], "correctOrder": ["a", "b"]}}}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("valid interactive = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_QuizLifecycle(t *testing.T) {
	mux, courses, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPut, "/api/admin/courses/heftruck-basis/final-quiz", adminToken,
		`{"id": "q-final", "title": "Eindtoets", "passingScore": 80, "questions": [
			{"id": "f1", "type": "single", "prompt": "Maximale snelheid binnen?", "options": ["6 km/u", "15 km/u"], "correctAnswer": 0}
		]}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put final quiz = %d, body %s", rec.Code, rec.Body.String())
	}

	c, _ := courses.GetCourse("heftruck-basis")
	if c.FinalQuiz == nil || !c.FinalQuiz.IsFinalQuiz {
		t.Fatal("final quiz not stored or not flagged")
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/quizzes/final/questions", adminToken,
		`{"id": "f2", "type": "truefalse", "prompt": "Een lege pallet mag blijven liggen", "correctBool": false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add question = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/admin/courses/heftruck-basis/quizzes/final/questions/f1", adminToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete question = %d", rec.Code)
	}

	c, _ = courses.GetCourse("heftruck-basis")
	if len(c.FinalQuiz.Questions) != 1 || c.FinalQuiz.Questions[0].ID != "f2" {
		t.Errorf("questions = %+v, want only f2", c.FinalQuiz.Questions)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/admin/courses/heftruck-basis/final-quiz", adminToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete final quiz = %d", rec.Code)
	}
	c, _ = courses.GetCourse("heftruck-basis")
	if c.FinalQuiz != nil {
		t.Error("final quiz should be gone, not emptied")
	}
}

func TestAdmin_InvalidQuestionRejected(t *testing.T) {
	mux, _, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/admin/courses/heftruck-basis/quizzes/ch-intro/questions", adminToken,
		`{"id": "q9", "type": "single", "prompt": "Eén optie is te weinig", "options": ["enige optie"], "correctAnswer": 0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_Export(t *testing.T) {
	mux, _, _ := newTestServer(t)

	if rec := doJSON(t, mux, http.MethodPost, "/api/courses/heftruck-basis/chapters/ch-intro/topics/t1/complete", "anna", ""); rec.Code != http.StatusOK {
		t.Fatal("seed progress failed")
	}

	rec := doJSON(t, mux, http.MethodGet, "/api/admin/courses/heftruck-basis/export", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("content-type = %q, want xlsx", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "heftruck-basis-progress.xlsx") {
		t.Errorf("content-disposition = %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("export body is empty")
	}

	// The body must be the whole workbook and nothing else.
	if _, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Errorf("export body does not reopen as a workbook: %v", err)
	}
}

func TestAdmin_Export_FailureIsPlainJSONError(t *testing.T) {
	// A failed export must come back as a JSON error, never as attachment
	// headers with a broken workbook behind them.
	mux, _, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/admin/courses/onbekend/export", adminToken, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("export of unknown course = %d, want 404", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); strings.Contains(got, "spreadsheetml") {
		t.Errorf("content-type = %q, want a JSON error body", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "" {
		t.Errorf("content-disposition = %q, want unset on failure", got)
	}

	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	if body.Error == "" {
		t.Error("error body missing its message")
	}
}

func TestAdmin_CreateAndDeleteCourse(t *testing.T) {
	mux, courses, _ := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/admin/courses", adminToken,
		`{"id": "reachtruck", "title": "Reachtruck Opleiding", "chapters": [
			{"id": "rt-ch1", "title": "Basis", "topics": [{"id": "rt-t1", "title": "Introductie"}]}
		]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create course = %d, body %s", rec.Code, rec.Body.String())
	}

	c, err := courses.GetCourse("reachtruck")
	if err != nil {
		t.Fatalf("GetCourse() error = %v", err)
	}
	if c.Chapters[0].Topics[0].ChapterID != "rt-ch1" {
		t.Error("topic back-reference not set on create")
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/admin/courses/reachtruck", adminToken, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete course = %d", rec.Code)
	}
}
