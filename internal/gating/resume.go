package gating

import (
	"log/slog"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/progress"
)

// ActionKind names the learner's next required action.
type ActionKind string

const (
	ActionTopic          ActionKind = "topic"
	ActionChapterQuiz    ActionKind = "chapter_quiz"
	ActionFinalQuiz      ActionKind = "final_quiz"
	ActionCourseComplete ActionKind = "course_complete"
	ActionSummary        ActionKind = "summary"
)

// Action is where the learner should go next.
type Action struct {
	Kind      ActionKind `json:"kind"`
	ChapterID string     `json:"chapterId,omitempty"`
	TopicID   string     `json:"topicId,omitempty"`
}

// Resume resolves the learner's stored position against the live course
// structure. Content referenced by a stale position may have been deleted by
// an admin, so the position is re-validated on every use: a dangling
// reference falls back to the first topic of the first chapter, and a course
// without topics falls back to the summary view.
func Resume(c *course.Course, rec *progress.Record) Action {
	if pos := rec.LastPosition; pos != nil {
		if _, ok := c.FindTopic(pos.ChapterID, pos.TopicID); ok {
			return Action{Kind: ActionTopic, ChapterID: pos.ChapterID, TopicID: pos.TopicID}
		}
		slog.Debug("stale last position",
			"course_id", c.ID,
			"chapter_id", pos.ChapterID,
			"topic_id", pos.TopicID,
		)
	}

	return firstTopic(c)
}

// NextAction computes the learner's next required step through the course:
// the first incomplete accessible topic, the quiz holding up a finished
// chapter, the final quiz, or done.
func NextAction(c *course.Course, rec *progress.Record) Action {
	for i := range c.Chapters {
		ch := &c.Chapters[i]
		if !ChapterAccessible(c, rec, i) {
			// Chapters unlock strictly in order; the previous chapter's quiz
			// is what is holding this one back.
			prev := &c.Chapters[i-1]
			return Action{Kind: ActionChapterQuiz, ChapterID: prev.ID}
		}

		for _, t := range ch.Topics {
			if !rec.TopicComplete(t.ID) {
				return Action{Kind: ActionTopic, ChapterID: ch.ID, TopicID: t.ID}
			}
		}

		if NeedsQuiz(ch, rec) {
			return Action{Kind: ActionChapterQuiz, ChapterID: ch.ID}
		}
	}

	if c.FinalQuiz != nil && !rec.QuizPassed(course.FinalQuizKey) {
		return Action{Kind: ActionFinalQuiz}
	}

	if c.TotalTopics() == 0 {
		return Action{Kind: ActionSummary}
	}
	return Action{Kind: ActionCourseComplete}
}

func firstTopic(c *course.Course) Action {
	for i := range c.Chapters {
		if len(c.Chapters[i].Topics) > 0 {
			return Action{
				Kind:      ActionTopic,
				ChapterID: c.Chapters[i].ID,
				TopicID:   c.Chapters[i].Topics[0].ID,
			}
		}
	}
	return Action{Kind: ActionSummary}
}
