// Package gating decides which chapters, topics and quizzes a learner may
// currently open. Every function is pure over a (course, progress) snapshot
// fetched at request time; locked content is a normal outcome, never an error.
package gating

import (
	"math"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/progress"
)

// ChapterAccessible reports whether the chapter at the given index is open.
// The first chapter always is; a later chapter opens once every topic of the
// previous chapter is complete and its quiz, if present, has been passed.
func ChapterAccessible(c *course.Course, rec *progress.Record, chapterIndex int) bool {
	if chapterIndex < 0 || chapterIndex >= len(c.Chapters) {
		return false
	}
	if chapterIndex == 0 {
		return true
	}

	prev := &c.Chapters[chapterIndex-1]
	if !allTopicsComplete(prev, rec) {
		return false
	}
	if prev.Quiz != nil && !rec.QuizPassed(prev.ID) {
		return false
	}
	return true
}

// TopicAccessible reports whether the learner may open the given topic. The
// first topic of the course is always open. A topic is open when it is the
// first of an accessible chapter, or when the immediately preceding topic in
// chapter-then-topic order is complete. When the preceding topic belongs to a
// different chapter, the crossing additionally requires that chapter's quiz
// passed, if it has one. The two rules are a disjunction: completing the
// preceding topic opens a first-of-chapter topic even while earlier topics of
// the previous chapter are still incomplete.
func TopicAccessible(c *course.Course, rec *progress.Record, chapterID, topicID string) bool {
	chapterIndex := -1
	topicIndex := -1
	for i := range c.Chapters {
		if c.Chapters[i].ID != chapterID {
			continue
		}
		chapterIndex = i
		for j := range c.Chapters[i].Topics {
			if c.Chapters[i].Topics[j].ID == topicID {
				topicIndex = j
				break
			}
		}
		break
	}
	if chapterIndex < 0 || topicIndex < 0 {
		return false
	}

	if topicIndex > 0 {
		prev := c.Chapters[chapterIndex].Topics[topicIndex-1]
		return rec.TopicComplete(prev.ID)
	}

	if ChapterAccessible(c, rec, chapterIndex) {
		return true
	}
	if chapterIndex == 0 {
		return false
	}

	// The preceding topic lives in the previous chapter: its completion plus
	// that chapter's quiz, if any, opens this topic on its own.
	prev := &c.Chapters[chapterIndex-1]
	if len(prev.Topics) == 0 {
		return false
	}
	last := prev.Topics[len(prev.Topics)-1]
	if !rec.TopicComplete(last.ID) {
		return false
	}
	return prev.Quiz == nil || rec.QuizPassed(prev.ID)
}

// NeedsQuiz reports whether the learner's next required action in this
// chapter is its quiz: all topics done, quiz present, quiz not yet passed.
// The UI routes to the quiz view instead of the next topic when this is true.
func NeedsQuiz(ch *course.Chapter, rec *progress.Record) bool {
	if ch.Quiz == nil {
		return false
	}
	if !allTopicsComplete(ch, rec) {
		return false
	}
	return !rec.QuizPassed(ch.ID)
}

// FinalQuizAccessible reports whether the course's final quiz is open: every
// chapter's topics complete and every chapter quiz passed.
func FinalQuizAccessible(c *course.Course, rec *progress.Record) bool {
	for i := range c.Chapters {
		ch := &c.Chapters[i]
		if !allTopicsComplete(ch, rec) {
			return false
		}
		if ch.Quiz != nil && !rec.QuizPassed(ch.ID) {
			return false
		}
	}
	return true
}

// CourseProgress returns the rounded percentage of completed topics across
// the course. A course with no topics reads as 0, never a division error.
func CourseProgress(c *course.Course, rec *progress.Record) int {
	total := 0
	done := 0
	for i := range c.Chapters {
		for _, t := range c.Chapters[i].Topics {
			total++
			if rec.TopicComplete(t.ID) {
				done++
			}
		}
	}
	return percent(done, total)
}

// ChapterProgress returns the rounded topic-completion percentage for one
// chapter, 0 for a chapter without topics.
func ChapterProgress(ch *course.Chapter, rec *progress.Record) int {
	done := 0
	for _, t := range ch.Topics {
		if rec.TopicComplete(t.ID) {
			done++
		}
	}
	return percent(done, len(ch.Topics))
}

// ChapterStatus derives the chapter's state for this learner: blocked until
// the previous chapter is satisfied, complete once all topics are done and
// the quiz (if any) is passed, pending in between. A chapter with all topics
// done but an unpassed quiz stays pending.
func ChapterStatus(c *course.Course, rec *progress.Record, chapterIndex int) course.ChapterStatus {
	if !ChapterAccessible(c, rec, chapterIndex) {
		return course.StatusBlocked
	}

	ch := &c.Chapters[chapterIndex]
	if !allTopicsComplete(ch, rec) {
		return course.StatusPending
	}
	if ch.Quiz != nil && !rec.QuizPassed(ch.ID) {
		return course.StatusPending
	}
	return course.StatusComplete
}

func allTopicsComplete(ch *course.Chapter, rec *progress.Record) bool {
	for _, t := range ch.Topics {
		if !rec.TopicComplete(t.ID) {
			return false
		}
	}
	return true
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
