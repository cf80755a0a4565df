// Package quiz scores learner submissions against a quiz definition.
package quiz

import (
	"fmt"
	"math"

	"github.com/staplero/staplero/internal/course"
)

// Answer carries the learner's response to one question. The populated field
// depends on the question type: Option for single, Options for multi, Bool
// for truefalse, OrderedIDs for drag-order, HotspotIDs for hotspot (the set
// of points flagged as hazards).
type Answer struct {
	Option     string   `json:"option,omitempty"`
	Options    []int    `json:"options,omitempty"`
	Bool       *bool    `json:"bool,omitempty"`
	OrderedIDs []string `json:"orderedIds,omitempty"`
	HotspotIDs []string `json:"hotspotIds,omitempty"`
}

// QuestionResult is the post-submission verdict for one question. Canonical
// answers and explanations appear here and only here; pre-submission payloads
// never carry them.
type QuestionResult struct {
	ID         string `json:"id"`
	WasCorrect bool   `json:"wasCorrect"`
	Answered   bool   `json:"answered"`

	CorrectAnswer  string   `json:"correctAnswer,omitempty"`
	CorrectAnswers []int    `json:"correctAnswers,omitempty"`
	CorrectBool    *bool    `json:"correctBool,omitempty"`
	CorrectOrder   []string `json:"correctOrder,omitempty"`
	CorrectHazards []string `json:"correctHazards,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

// Result is the outcome of one quiz attempt.
type Result struct {
	Score     int              `json:"score"`
	Passed    bool             `json:"passed"`
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
	Questions []QuestionResult `json:"questions"`
}

// IncompleteError rejects a manual submission with unanswered questions. No
// scoring happens and nothing is persisted.
type IncompleteError struct {
	Missing int
}

func (e IncompleteError) Error() string {
	return fmt.Sprintf("submission incomplete: %d questions unanswered", e.Missing)
}

// Evaluate scores a submission. Manual submissions must answer every
// question; a timer-triggered submission waives that precondition and any
// absent answer scores as wrong. The engine itself is deadline-agnostic: it
// scores whatever answer map it is handed.
func Evaluate(q *course.Quiz, answers map[string]Answer, timerTriggered bool) (*Result, error) {
	if !timerTriggered {
		missing := 0
		for _, question := range q.Questions {
			if _, ok := answers[question.ID]; !ok {
				missing++
			}
		}
		if missing > 0 {
			return nil, IncompleteError{Missing: missing}
		}
	}

	result := &Result{
		Total:     len(q.Questions),
		Questions: make([]QuestionResult, 0, len(q.Questions)),
	}

	for i := range q.Questions {
		question := &q.Questions[i]
		answer, answered := answers[question.ID]

		qr := QuestionResult{
			ID:          question.ID,
			Answered:    answered,
			Explanation: question.Explanation,
		}
		revealAnswer(question, &qr)

		if answered {
			qr.WasCorrect = scoreQuestion(question, answer)
		}
		if qr.WasCorrect {
			result.Correct++
		}
		result.Questions = append(result.Questions, qr)
	}

	if result.Total > 0 {
		result.Score = int(math.Round(100 * float64(result.Correct) / float64(result.Total)))
	}
	result.Passed = result.Score >= q.PassingScore
	return result, nil
}

func scoreQuestion(q *course.QuizQuestion, a Answer) bool {
	switch q.Type {
	case course.QuestionSingle:
		return scoreSingle(q, a)
	case course.QuestionMulti:
		return scoreMulti(q, a)
	case course.QuestionTrueFalse:
		return a.Bool != nil && q.CorrectBool != nil && *a.Bool == *q.CorrectBool
	case course.QuestionDragOrder:
		return scoreDragOrder(q, a)
	case course.QuestionHotspot:
		return scoreHotspot(q, a)
	default:
		return false
	}
}

// scoreSingle: the submitted option text must equal the option at the
// authored index.
func scoreSingle(q *course.QuizQuestion, a Answer) bool {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return false
	}
	return a.Option == q.Options[q.CorrectAnswer]
}

// scoreMulti: exact set equality with the authored indices. No partial
// credit: an extra or missing selection fails the question.
func scoreMulti(q *course.QuizQuestion, a Answer) bool {
	if len(a.Options) != len(q.CorrectAnswers) {
		return false
	}
	want := make(map[int]bool, len(q.CorrectAnswers))
	for _, idx := range q.CorrectAnswers {
		want[idx] = true
	}
	seen := make(map[int]bool, len(a.Options))
	for _, idx := range a.Options {
		if !want[idx] || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// scoreDragOrder: full-sequence match against the authored item order.
func scoreDragOrder(q *course.QuizQuestion, a Answer) bool {
	if len(a.OrderedIDs) != len(q.Items) {
		return false
	}
	for i, it := range q.Items {
		if a.OrderedIDs[i] != it.ID {
			return false
		}
	}
	return true
}

// scoreHotspot: the flagged set must equal the authored hazard set exactly —
// every hazard found, no safe point flagged.
func scoreHotspot(q *course.QuizQuestion, a Answer) bool {
	hazards := make(map[string]bool)
	for _, h := range q.Hotspots {
		if h.IsHazard {
			hazards[h.ID] = true
		}
	}
	if len(a.HotspotIDs) != len(hazards) {
		return false
	}
	seen := make(map[string]bool, len(a.HotspotIDs))
	for _, id := range a.HotspotIDs {
		if !hazards[id] || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

func revealAnswer(q *course.QuizQuestion, qr *QuestionResult) {
	switch q.Type {
	case course.QuestionSingle:
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			qr.CorrectAnswer = q.Options[q.CorrectAnswer]
		}
	case course.QuestionMulti:
		qr.CorrectAnswers = append([]int{}, q.CorrectAnswers...)
	case course.QuestionTrueFalse:
		qr.CorrectBool = q.CorrectBool
	case course.QuestionDragOrder:
		for _, it := range q.Items {
			qr.CorrectOrder = append(qr.CorrectOrder, it.ID)
		}
	case course.QuestionHotspot:
		for _, h := range q.Hotspots {
			if h.IsHazard {
				qr.CorrectHazards = append(qr.CorrectHazards, h.ID)
			}
		}
	}
}
