package gating_test

import (
	"testing"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/gating"
	"github.com/staplero/staplero/internal/progress"
)

func TestResume_LivePosition(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)
	rec.Start("ch-intro", "t2")

	got := gating.Resume(c, rec)
	want := gating.Action{Kind: gating.ActionTopic, ChapterID: "ch-intro", TopicID: "t2"}
	if got != want {
		t.Errorf("Resume() = %+v, want %+v", got, want)
	}
}

func TestResume_StalePositionFallsBack(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	// The topic was deleted by an admin after the learner last visited it.
	rec.Start("ch-intro", "t-verwijderd")

	got := gating.Resume(c, rec)
	want := gating.Action{Kind: gating.ActionTopic, ChapterID: "ch-intro", TopicID: "t1"}
	if got != want {
		t.Errorf("Resume() with stale position = %+v, want %+v", got, want)
	}
}

func TestResume_NoPosition(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	got := gating.Resume(c, rec)
	want := gating.Action{Kind: gating.ActionTopic, ChapterID: "ch-intro", TopicID: "t1"}
	if got != want {
		t.Errorf("Resume() without position = %+v, want %+v", got, want)
	}
}

func TestResume_CourseWithoutTopics(t *testing.T) {
	c := &course.Course{ID: "leeg", Title: "Leeg", Chapters: []course.Chapter{{ID: "ch", Title: "Leeg hoofdstuk"}}}
	rec := progress.NewRecord("anna", c.ID)
	rec.Start("ch", "weg")

	got := gating.Resume(c, rec)
	if got.Kind != gating.ActionSummary {
		t.Errorf("Resume() on empty course = %+v, want summary", got)
	}
}

func TestNextAction_WalksTheCourse(t *testing.T) {
	c := twoChapterCourse()
	rec := progress.NewRecord("anna", c.ID)

	steps := []struct {
		name string
		do   func()
		want gating.Action
	}{
		{
			name: "fresh learner starts at the first topic",
			do:   func() {},
			want: gating.Action{Kind: gating.ActionTopic, ChapterID: "ch-intro", TopicID: "t1"},
		},
		{
			name: "next incomplete topic",
			do:   func() { rec.MarkTopicComplete("t1") },
			want: gating.Action{Kind: gating.ActionTopic, ChapterID: "ch-intro", TopicID: "t2"},
		},
		{
			name: "chapter quiz once topics are done",
			do: func() {
				rec.MarkTopicComplete("t2")
				rec.MarkTopicComplete("t3")
			},
			want: gating.Action{Kind: gating.ActionChapterQuiz, ChapterID: "ch-intro"},
		},
		{
			name: "next chapter after passing the quiz",
			do:   func() { rec.PutQuizResult("ch-intro", passed(80)) },
			want: gating.Action{Kind: gating.ActionTopic, ChapterID: "ch-techniek", TopicID: "t4"},
		},
		{
			name: "final quiz after the last topic",
			do: func() {
				rec.MarkTopicComplete("t4")
				rec.MarkTopicComplete("t5")
			},
			want: gating.Action{Kind: gating.ActionFinalQuiz},
		},
		{
			name: "course complete after the final quiz",
			do:   func() { rec.PutQuizResult(course.FinalQuizKey, passed(90)) },
			want: gating.Action{Kind: gating.ActionCourseComplete},
		},
	}

	for _, step := range steps {
		step.do()
		if got := gating.NextAction(c, rec); got != step.want {
			t.Errorf("%s: NextAction() = %+v, want %+v", step.name, got, step.want)
		}
	}
}

func TestNextAction_EmptyCourse(t *testing.T) {
	c := &course.Course{ID: "leeg", Title: "Leeg"}
	rec := progress.NewRecord("anna", c.ID)

	if got := gating.NextAction(c, rec); got.Kind != gating.ActionSummary {
		t.Errorf("NextAction() on empty course = %+v, want summary", got)
	}
}
