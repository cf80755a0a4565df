package course

import "fmt"

// Validate checks the whole aggregate: required titles, unique chapter and
// topic ids, valid blocks and quizzes. It is run before any write is applied,
// so a failing mutation leaves the stored course untouched.
func (c *Course) Validate() error {
	if c.ID == "" {
		return ValidationError{Field: "id", Msg: "course id is required"}
	}
	if c.Title == "" {
		return ValidationError{Field: "title", Msg: "course title is required"}
	}

	chapterIDs := make(map[string]bool, len(c.Chapters))
	topicIDs := make(map[string]bool)

	for _, ch := range c.Chapters {
		if ch.ID == "" {
			return ValidationError{Field: "chapters", Msg: "chapter id is required"}
		}
		if chapterIDs[ch.ID] {
			return ValidationError{Field: "chapters", Msg: fmt.Sprintf("duplicate chapter id %q", ch.ID)}
		}
		chapterIDs[ch.ID] = true

		if ch.Title == "" {
			return ValidationError{Field: "chapters.title", Msg: fmt.Sprintf("chapter %q title is required", ch.ID)}
		}

		for _, t := range ch.Topics {
			if t.ID == "" {
				return ValidationError{Field: "topics", Msg: fmt.Sprintf("topic id is required in chapter %q", ch.ID)}
			}
			if topicIDs[t.ID] {
				return ValidationError{Field: "topics", Msg: fmt.Sprintf("duplicate topic id %q", t.ID)}
			}
			topicIDs[t.ID] = true

			if t.Title == "" {
				return ValidationError{Field: "topics.title", Msg: fmt.Sprintf("topic %q title is required", t.ID)}
			}

			for _, b := range t.Blocks {
				if err := b.Validate(); err != nil {
					return err
				}
			}
		}

		if ch.Quiz != nil {
			if err := ch.Quiz.Validate(); err != nil {
				return err
			}
		}
	}

	if c.FinalQuiz != nil {
		if err := c.FinalQuiz.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks quiz-level fields and every question.
func (q *Quiz) Validate() error {
	if q.ID == "" {
		return ValidationError{Field: "quiz.id", Msg: "quiz id is required"}
	}
	if q.Title == "" {
		return ValidationError{Field: "quiz.title", Msg: "quiz title is required"}
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return ValidationError{Field: "quiz.passingScore", Msg: "passing score must be between 0 and 100"}
	}
	if q.TimeLimitSeconds < 0 {
		return ValidationError{Field: "quiz.timeLimitSeconds", Msg: "time limit must be non-negative"}
	}

	seen := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		if question.ID == "" {
			return ValidationError{Field: "quiz.questions", Msg: "question id is required"}
		}
		if seen[question.ID] {
			return ValidationError{Field: "quiz.questions", Msg: fmt.Sprintf("duplicate question id %q", question.ID)}
		}
		seen[question.ID] = true

		if err := question.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the question's type-specific shape.
func (q *QuizQuestion) Validate() error {
	if q.Prompt == "" {
		return ValidationError{Field: "question.prompt", Msg: fmt.Sprintf("question %q prompt is required", q.ID)}
	}

	switch q.Type {
	case QuestionSingle:
		if len(q.Options) < 2 {
			return ValidationError{Field: "question.options", Msg: fmt.Sprintf("question %q needs at least two options", q.ID)}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return ValidationError{Field: "question.correctAnswer", Msg: fmt.Sprintf("question %q correct answer index out of range", q.ID)}
		}
	case QuestionMulti:
		if len(q.Options) < 2 {
			return ValidationError{Field: "question.options", Msg: fmt.Sprintf("question %q needs at least two options", q.ID)}
		}
		if len(q.CorrectAnswers) == 0 {
			return ValidationError{Field: "question.correctAnswers", Msg: fmt.Sprintf("question %q needs at least one correct answer", q.ID)}
		}
		seen := make(map[int]bool, len(q.CorrectAnswers))
		for _, idx := range q.CorrectAnswers {
			if idx < 0 || idx >= len(q.Options) {
				return ValidationError{Field: "question.correctAnswers", Msg: fmt.Sprintf("question %q correct answer index out of range", q.ID)}
			}
			if seen[idx] {
				return ValidationError{Field: "question.correctAnswers", Msg: fmt.Sprintf("question %q lists answer index %d twice", q.ID, idx)}
			}
			seen[idx] = true
		}
	case QuestionTrueFalse:
		if q.CorrectBool == nil {
			return ValidationError{Field: "question.correctBool", Msg: fmt.Sprintf("question %q needs a correct boolean", q.ID)}
		}
	case QuestionDragOrder:
		if len(q.Items) < 2 {
			return ValidationError{Field: "question.items", Msg: fmt.Sprintf("question %q needs at least two items", q.ID)}
		}
		seen := make(map[string]bool, len(q.Items))
		for _, it := range q.Items {
			if it.ID == "" {
				return ValidationError{Field: "question.items", Msg: fmt.Sprintf("question %q item id is required", q.ID)}
			}
			if seen[it.ID] {
				return ValidationError{Field: "question.items", Msg: fmt.Sprintf("question %q duplicate item id %q", q.ID, it.ID)}
			}
			seen[it.ID] = true
		}
	case QuestionHotspot:
		if q.HotspotImageURL == "" {
			return ValidationError{Field: "question.hotspotImageUrl", Msg: fmt.Sprintf("question %q needs a hotspot image", q.ID)}
		}
		if len(q.Hotspots) == 0 {
			return ValidationError{Field: "question.hotspots", Msg: fmt.Sprintf("question %q needs at least one hotspot", q.ID)}
		}
		for _, h := range q.Hotspots {
			if h.X < 0 || h.X > 100 || h.Y < 0 || h.Y > 100 {
				return ValidationError{Field: "question.hotspots", Msg: fmt.Sprintf("question %q hotspot coordinates must be percentages between 0 and 100", q.ID)}
			}
		}
	default:
		return ValidationError{Field: "question.type", Msg: fmt.Sprintf("unknown question type %q", q.Type)}
	}

	return nil
}

// ResequenceChapters assigns contiguous zero-based order values following the
// current slice order. Run after any chapter insert, delete, or reorder.
func (c *Course) ResequenceChapters() {
	for i := range c.Chapters {
		c.Chapters[i].Order = i
	}
}

// ResequenceTopics does the same for one chapter's topics.
func (ch *Chapter) ResequenceTopics() {
	for i := range ch.Topics {
		ch.Topics[i].Order = i
	}
}

// ResequenceBlocks does the same for one topic's blocks.
func (t *Topic) ResequenceBlocks() {
	for i := range t.Blocks {
		t.Blocks[i].Order = i
	}
}
