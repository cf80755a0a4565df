package gating_test

import (
	"testing"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/gating"
	"github.com/staplero/staplero/internal/progress"
)

// twoChapterCourse returns a course with a quiz-gated first chapter of three
// topics and a second chapter of two topics.
func twoChapterCourse() *course.Course {
	return &course.Course{
		ID:    "heftruck-basis",
		Title: "Heftruck Basisopleiding",
		Chapters: []course.Chapter{
			{
				ID:    "ch-intro",
				Title: "Introductie",
				Topics: []course.Topic{
					{ID: "t1", ChapterID: "ch-intro", Title: "Welkom"},
					{ID: "t2", ChapterID: "ch-intro", Title: "Veiligheidsregels"},
					{ID: "t3", ChapterID: "ch-intro", Title: "Persoonlijke bescherming"},
				},
				Quiz: &course.Quiz{ID: "q-intro", ChapterID: "ch-intro", Title: "Toets", PassingScore: 70},
			},
			{
				ID:    "ch-techniek",
				Title: "Techniek",
				Topics: []course.Topic{
					{ID: "t4", ChapterID: "ch-techniek", Title: "De mast"},
					{ID: "t5", ChapterID: "ch-techniek", Title: "Contragewicht"},
				},
			},
		},
		FinalQuiz: &course.Quiz{ID: "q-final", Title: "Eindtoets", PassingScore: 80, IsFinalQuiz: true},
	}
}

func passed(score int) progress.QuizResult {
	return progress.QuizResult{Passed: true, Score: score}
}

func TestChapterAccessible_FirstAlwaysOpen(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	if !gating.ChapterAccessible(c, rec, 0) {
		t.Error("first chapter must be open for a fresh learner")
	}
	if gating.ChapterAccessible(c, rec, 1) {
		t.Error("second chapter must be locked for a fresh learner")
	}
}

func TestChapterAccessible_RequiresTopicsAndQuiz(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	for _, id := range []string{"t1", "t2", "t3"} {
		rec.MarkTopicComplete(id)
	}
	if gating.ChapterAccessible(c, rec, 1) {
		t.Error("chapter 2 must stay locked until the chapter 1 quiz is passed")
	}

	rec.PutQuizResult("ch-intro", passed(85))
	if !gating.ChapterAccessible(c, rec, 1) {
		t.Error("chapter 2 should open after topics and quiz")
	}
}

func TestTopicAccessible_SequentialWithinChapter(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	if !gating.TopicAccessible(c, rec, "ch-intro", "t1") {
		t.Error("t1 must be open")
	}
	if gating.TopicAccessible(c, rec, "ch-intro", "t2") {
		t.Error("t2 must be locked until t1 is complete")
	}

	rec.MarkTopicComplete("t1")
	if !gating.TopicAccessible(c, rec, "ch-intro", "t2") {
		t.Error("t2 should open after t1")
	}
}

func TestTopicAccessible_ChapterCrossingNeedsQuiz(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)
	for _, id := range []string{"t1", "t2", "t3"} {
		rec.MarkTopicComplete(id)
	}

	// All chapter 1 topics done but quiz not passed: t4 stays locked.
	if gating.TopicAccessible(c, rec, "ch-techniek", "t4") {
		t.Error("t4 must stay locked behind the chapter 1 quiz")
	}

	rec.PutQuizResult("ch-intro", passed(70))
	if !gating.TopicAccessible(c, rec, "ch-techniek", "t4") {
		t.Error("t4 should open once the chapter 1 quiz is passed")
	}
}

func TestTopicAccessible_PrecedingTopicOpensNextChapter(t *testing.T) {
	// Completing the last topic of a chapter opens the next chapter's first
	// topic even while earlier topics of that chapter are incomplete, as
	// happens when a topic is inserted into an already-finished chapter.
	c := &course.Course{
		ID:    "heftruck-basis",
		Title: "Heftruck Basisopleiding",
		Chapters: []course.Chapter{
			{
				ID:    "ch-intro",
				Title: "Introductie",
				Topics: []course.Topic{
					{ID: "t1", ChapterID: "ch-intro", Title: "Welkom"},
					{ID: "t2", ChapterID: "ch-intro", Title: "Veiligheidsregels"},
				},
			},
			{
				ID:     "ch-techniek",
				Title:  "Techniek",
				Topics: []course.Topic{{ID: "t3", ChapterID: "ch-techniek", Title: "De mast"}},
			},
		},
	}
	rec := progress.NewRecord("anna", c.ID)
	rec.MarkTopicComplete("t2")

	if !gating.TopicAccessible(c, rec, "ch-techniek", "t3") {
		t.Error("t3 should open once its preceding topic t2 is complete")
	}
	if gating.ChapterAccessible(c, rec, 1) {
		t.Error("chapter 2 itself must stay locked while t1 is incomplete")
	}

	// A quiz on the first chapter still gates the crossing.
	c.Chapters[0].Quiz = &course.Quiz{ID: "q-intro", ChapterID: "ch-intro", Title: "Toets", PassingScore: 70}
	if gating.TopicAccessible(c, rec, "ch-techniek", "t3") {
		t.Error("t3 must stay locked behind the chapter 1 quiz")
	}
	rec.PutQuizResult("ch-intro", passed(80))
	if !gating.TopicAccessible(c, rec, "ch-techniek", "t3") {
		t.Error("t3 should open once the chapter 1 quiz is passed")
	}
}

func TestTopicAccessible_Monotonic(t *testing.T) {
	// Completing more work never locks previously accessible content.
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	accessible := func() map[string]bool {
		out := make(map[string]bool)
		for _, ch := range c.Chapters {
			for _, topic := range ch.Topics {
				out[topic.ID] = gating.TopicAccessible(c, rec, ch.ID, topic.ID)
			}
		}
		return out
	}

	before := accessible()
	rec.MarkTopicComplete("t1")
	rec.MarkTopicComplete("t2")
	after := accessible()

	for id, was := range before {
		if was && !after[id] {
			t.Errorf("topic %s was accessible and became locked after progress", id)
		}
	}
}

func TestTopicAccessible_UnknownIDs(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	if gating.TopicAccessible(c, rec, "ch-intro", "ghost") {
		t.Error("unknown topic must not be accessible")
	}
	if gating.TopicAccessible(c, rec, "ghost", "t1") {
		t.Error("unknown chapter must not be accessible")
	}
}

func TestNeedsQuiz(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)
	ch := &c.Chapters[0]

	if gating.NeedsQuiz(ch, rec) {
		t.Error("quiz not due while topics are incomplete")
	}

	for _, id := range []string{"t1", "t2", "t3"} {
		rec.MarkTopicComplete(id)
	}
	if !gating.NeedsQuiz(ch, rec) {
		t.Error("quiz due once all topics are complete")
	}

	rec.PutQuizResult("ch-intro", passed(90))
	if gating.NeedsQuiz(ch, rec) {
		t.Error("quiz no longer due after passing")
	}

	if gating.NeedsQuiz(&c.Chapters[1], rec) {
		t.Error("chapter without a quiz never needs one")
	}
}

func TestFinalQuizAccessible(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	if gating.FinalQuizAccessible(c, rec) {
		t.Error("final quiz locked for a fresh learner")
	}

	for _, id := range []string{"t1", "t2", "t3", "t4", "t5"} {
		rec.MarkTopicComplete(id)
	}
	if gating.FinalQuizAccessible(c, rec) {
		t.Error("final quiz locked while a chapter quiz is unpassed")
	}

	rec.PutQuizResult("ch-intro", passed(75))
	if !gating.FinalQuizAccessible(c, rec) {
		t.Error("final quiz should open once every chapter is satisfied")
	}
}

func TestCourseProgress_Rounding(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	if got := gating.CourseProgress(c, rec); got != 0 {
		t.Errorf("fresh progress = %d, want 0", got)
	}

	rec.MarkTopicComplete("t1")
	rec.MarkTopicComplete("t2")
	if got := gating.CourseProgress(c, rec); got != 40 {
		t.Errorf("2 of 5 topics = %d, want 40", got)
	}

	rec.MarkTopicComplete("t1") // repeat must not count twice
	if got := gating.CourseProgress(c, rec); got != 40 {
		t.Errorf("after repeat completion = %d, want 40", got)
	}
}

func TestCourseProgress_EmptyCourse(t *testing.T) {
	c := &course.Course{ID: "leeg", Title: "Leeg", Chapters: []course.Chapter{{ID: "ch", Title: "Leeg hoofdstuk"}}}
	rec := progress.NewRecord("anna", c.ID)

	if got := gating.CourseProgress(c, rec); got != 0 {
		t.Errorf("progress of a course without topics = %d, want 0", got)
	}
	if got := gating.ChapterProgress(&c.Chapters[0], rec); got != 0 {
		t.Errorf("progress of a chapter without topics = %d, want 0", got)
	}
}

func TestChapterStatus(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	if got := gating.ChapterStatus(c, rec, 1); got != course.StatusBlocked {
		t.Errorf("chapter 2 status = %s, want blocked", got)
	}
	if got := gating.ChapterStatus(c, rec, 0); got != course.StatusPending {
		t.Errorf("fresh chapter 1 status = %s, want pending", got)
	}

	for _, id := range []string{"t1", "t2", "t3"} {
		rec.MarkTopicComplete(id)
	}
	// All topics done but quiz unpassed: still pending, not complete.
	if got := gating.ChapterStatus(c, rec, 0); got != course.StatusPending {
		t.Errorf("chapter 1 with unpassed quiz = %s, want pending", got)
	}

	rec.PutQuizResult("ch-intro", passed(70))
	if got := gating.ChapterStatus(c, rec, 0); got != course.StatusComplete {
		t.Errorf("chapter 1 status = %s, want complete", got)
	}
	if got := gating.ChapterStatus(c, rec, 1); got != course.StatusPending {
		t.Errorf("unlocked chapter 2 status = %s, want pending", got)
	}
}
