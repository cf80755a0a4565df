package quiz

import (
	"math/rand"

	"github.com/staplero/staplero/internal/course"
)

// Sanitize returns a copy of the quiz with every answer key and explanation
// stripped, safe to hand to a learner before submission.
func Sanitize(q *course.Quiz) *course.Quiz {
	out := *q
	out.Questions = make([]course.QuizQuestion, len(q.Questions))

	for i, question := range q.Questions {
		s := question
		s.Explanation = ""
		s.CorrectAnswer = 0
		s.CorrectAnswers = nil
		s.CorrectBool = nil

		// The authored item order is the drag-order answer, so the learner
		// gets a shuffled copy.
		if s.Type == course.QuestionDragOrder {
			s.Items = shuffleItems(question.Items)
		}

		// Hotspot correctness must not leak: expose positions only.
		if s.Type == course.QuestionHotspot {
			spots := make([]course.Hotspot, len(question.Hotspots))
			for j, h := range question.Hotspots {
				h.IsHazard = false
				spots[j] = h
			}
			s.Hotspots = spots
		}

		out.Questions[i] = s
	}

	return &out
}

func shuffleItems(items []course.DragOrderItem) []course.DragOrderItem {
	shuffled := make([]course.DragOrderItem, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
