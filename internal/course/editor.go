package course

import (
	"fmt"
	"log/slog"
)

// Editor applies authoring mutations to stored courses. Every operation loads
// the document, mutates a copy, validates the whole aggregate, and persists
// only on success, so a rejected write leaves nothing half-applied.
type Editor struct {
	store Store
}

// NewEditor creates an editor over the given store.
func NewEditor(store Store) *Editor {
	return &Editor{store: store}
}

// CreateCourse persists a new course after validation.
func (e *Editor) CreateCourse(c *Course) error {
	c.ResequenceChapters()
	for i := range c.Chapters {
		ch := &c.Chapters[i]
		ch.ResequenceTopics()
		for j := range ch.Topics {
			ch.Topics[j].ChapterID = ch.ID
			ch.Topics[j].ResequenceBlocks()
		}
	}
	if err := e.store.PutCourse(c); err != nil {
		return err
	}
	slog.Info("course created", "course_id", c.ID, "chapters", len(c.Chapters))
	return nil
}

// DeleteCourse removes a course document.
func (e *Editor) DeleteCourse(courseID string) error {
	return e.store.DeleteCourse(courseID)
}

func (e *Editor) update(courseID string, mutate func(c *Course) error) error {
	c, err := e.store.GetCourse(courseID)
	if err != nil {
		return err
	}
	if err := mutate(c); err != nil {
		return err
	}
	return e.store.PutCourse(c)
}

// AddChapter appends a chapter and resequences chapter order.
func (e *Editor) AddChapter(courseID string, ch Chapter) error {
	return e.update(courseID, func(c *Course) error {
		if ch.ID == "" {
			return ValidationError{Field: "chapter.id", Msg: "chapter id is required"}
		}
		ch.ResequenceTopics()
		for i := range ch.Topics {
			ch.Topics[i].ChapterID = ch.ID
		}
		c.Chapters = append(c.Chapters, ch)
		c.ResequenceChapters()
		return nil
	})
}

// UpdateChapter replaces a chapter's title and description. Topics, quiz and
// order are managed by their own operations.
func (e *Editor) UpdateChapter(courseID, chapterID, title, description string) error {
	return e.update(courseID, func(c *Course) error {
		ch, ok := c.FindChapter(chapterID)
		if !ok {
			return fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
		}
		ch.Title = title
		ch.Description = description
		return nil
	})
}

// DeleteChapter removes a chapter and resequences the remainder.
func (e *Editor) DeleteChapter(courseID, chapterID string) error {
	return e.update(courseID, func(c *Course) error {
		for i := range c.Chapters {
			if c.Chapters[i].ID == chapterID {
				c.Chapters = append(c.Chapters[:i], c.Chapters[i+1:]...)
				c.ResequenceChapters()
				return nil
			}
		}
		return fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
	})
}

// ReorderChapters rearranges chapters to match the given id sequence, which
// must be a permutation of the current chapter ids.
func (e *Editor) ReorderChapters(courseID string, chapterIDs []string) error {
	return e.update(courseID, func(c *Course) error {
		if len(chapterIDs) != len(c.Chapters) {
			return ValidationError{Field: "chapters", Msg: "reorder must list every chapter exactly once"}
		}
		byID := make(map[string]Chapter, len(c.Chapters))
		for _, ch := range c.Chapters {
			byID[ch.ID] = ch
		}
		reordered := make([]Chapter, 0, len(chapterIDs))
		for _, id := range chapterIDs {
			ch, ok := byID[id]
			if !ok {
				return ValidationError{Field: "chapters", Msg: fmt.Sprintf("unknown chapter id %q", id)}
			}
			delete(byID, id)
			reordered = append(reordered, ch)
		}
		c.Chapters = reordered
		c.ResequenceChapters()
		return nil
	})
}

// AddTopic appends a topic to a chapter and resequences topic order.
func (e *Editor) AddTopic(courseID, chapterID string, t Topic) error {
	return e.update(courseID, func(c *Course) error {
		ch, ok := c.FindChapter(chapterID)
		if !ok {
			return fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
		}
		t.ChapterID = chapterID
		t.ResequenceBlocks()
		ch.Topics = append(ch.Topics, t)
		ch.ResequenceTopics()
		return nil
	})
}

// UpdateTopic replaces a topic's fields, keeping its id, order and blocks.
func (e *Editor) UpdateTopic(courseID, chapterID string, t Topic) error {
	return e.update(courseID, func(c *Course) error {
		existing, ok := c.FindTopic(chapterID, t.ID)
		if !ok {
			return fmt.Errorf("%w: topic %s", ErrNotFound, t.ID)
		}
		existing.Title = t.Title
		existing.Duration = t.Duration
		existing.VideoURL = t.VideoURL
		existing.MinDurationSeconds = t.MinDurationSeconds
		existing.RequireMinDuration = t.RequireMinDuration
		return nil
	})
}

// DeleteTopic removes a topic and resequences the chapter's remainder.
func (e *Editor) DeleteTopic(courseID, chapterID, topicID string) error {
	return e.update(courseID, func(c *Course) error {
		ch, ok := c.FindChapter(chapterID)
		if !ok {
			return fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
		}
		for i := range ch.Topics {
			if ch.Topics[i].ID == topicID {
				ch.Topics = append(ch.Topics[:i], ch.Topics[i+1:]...)
				ch.ResequenceTopics()
				return nil
			}
		}
		return fmt.Errorf("%w: topic %s", ErrNotFound, topicID)
	})
}

// AddBlock appends a block to a topic. The block lands at the end; deletion
// never renumbers siblings, so order stays stable until an explicit reorder.
func (e *Editor) AddBlock(courseID, chapterID, topicID string, b ContentBlock) error {
	return e.update(courseID, func(c *Course) error {
		t, ok := c.FindTopic(chapterID, topicID)
		if !ok {
			return fmt.Errorf("%w: topic %s", ErrNotFound, topicID)
		}
		// Deletions leave gaps in order, so append past the current maximum
		// rather than reusing len.
		next := 0
		for _, existing := range t.Blocks {
			if existing.Order >= next {
				next = existing.Order + 1
			}
		}
		b.Order = next
		t.Blocks = append(t.Blocks, b)
		return nil
	})
}

// UpdateBlock replaces a block's payload and width, keeping id and order.
func (e *Editor) UpdateBlock(courseID, chapterID, topicID string, b ContentBlock) error {
	return e.update(courseID, func(c *Course) error {
		t, ok := c.FindTopic(chapterID, topicID)
		if !ok {
			return fmt.Errorf("%w: topic %s", ErrNotFound, topicID)
		}
		for i := range t.Blocks {
			if t.Blocks[i].ID == b.ID {
				b.Order = t.Blocks[i].Order
				t.Blocks[i] = b
				return nil
			}
		}
		return fmt.Errorf("%w: block %s", ErrNotFound, b.ID)
	})
}

// DeleteBlock removes a block without renumbering its siblings.
func (e *Editor) DeleteBlock(courseID, chapterID, topicID, blockID string) error {
	return e.update(courseID, func(c *Course) error {
		t, ok := c.FindTopic(chapterID, topicID)
		if !ok {
			return fmt.Errorf("%w: topic %s", ErrNotFound, topicID)
		}
		for i := range t.Blocks {
			if t.Blocks[i].ID == blockID {
				t.Blocks = append(t.Blocks[:i], t.Blocks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: block %s", ErrNotFound, blockID)
	})
}

// ReorderBlocks rearranges a topic's blocks to match the given id sequence
// and resequences order contiguously.
func (e *Editor) ReorderBlocks(courseID, chapterID, topicID string, blockIDs []string) error {
	return e.update(courseID, func(c *Course) error {
		t, ok := c.FindTopic(chapterID, topicID)
		if !ok {
			return fmt.Errorf("%w: topic %s", ErrNotFound, topicID)
		}
		if len(blockIDs) != len(t.Blocks) {
			return ValidationError{Field: "blocks", Msg: "reorder must list every block exactly once"}
		}
		byID := make(map[string]ContentBlock, len(t.Blocks))
		for _, b := range t.Blocks {
			byID[b.ID] = b
		}
		reordered := make([]ContentBlock, 0, len(blockIDs))
		for _, id := range blockIDs {
			b, ok := byID[id]
			if !ok {
				return ValidationError{Field: "blocks", Msg: fmt.Sprintf("unknown block id %q", id)}
			}
			delete(byID, id)
			reordered = append(reordered, b)
		}
		t.Blocks = reordered
		t.ResequenceBlocks()
		return nil
	})
}

// PutChapterQuiz sets or replaces a chapter's quiz.
func (e *Editor) PutChapterQuiz(courseID, chapterID string, q Quiz) error {
	return e.update(courseID, func(c *Course) error {
		ch, ok := c.FindChapter(chapterID)
		if !ok {
			return fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
		}
		q.ChapterID = chapterID
		q.IsFinalQuiz = false
		ch.Quiz = &q
		return nil
	})
}

// DeleteChapterQuiz clears the chapter's quiz pointer. Learners then see "no
// quiz", which is distinct from an empty quiz.
func (e *Editor) DeleteChapterQuiz(courseID, chapterID string) error {
	return e.update(courseID, func(c *Course) error {
		ch, ok := c.FindChapter(chapterID)
		if !ok {
			return fmt.Errorf("%w: chapter %s", ErrNotFound, chapterID)
		}
		ch.Quiz = nil
		return nil
	})
}

// PutFinalQuiz sets or replaces the course's final quiz.
func (e *Editor) PutFinalQuiz(courseID string, q Quiz) error {
	return e.update(courseID, func(c *Course) error {
		q.ChapterID = ""
		q.IsFinalQuiz = true
		c.FinalQuiz = &q
		return nil
	})
}

// DeleteFinalQuiz removes the course's final quiz.
func (e *Editor) DeleteFinalQuiz(courseID string) error {
	return e.update(courseID, func(c *Course) error {
		c.FinalQuiz = nil
		return nil
	})
}

// AddQuestion appends a question to the quiz stored under the given key
// (chapter id, or FinalQuizKey).
func (e *Editor) AddQuestion(courseID, quizKey string, q QuizQuestion) error {
	return e.update(courseID, func(c *Course) error {
		quiz, ok := c.QuizFor(quizKey)
		if !ok {
			return fmt.Errorf("%w: quiz %s", ErrNotFound, quizKey)
		}
		quiz.Questions = append(quiz.Questions, q)
		return nil
	})
}

// UpdateQuestion replaces a question in place.
func (e *Editor) UpdateQuestion(courseID, quizKey string, q QuizQuestion) error {
	return e.update(courseID, func(c *Course) error {
		quiz, ok := c.QuizFor(quizKey)
		if !ok {
			return fmt.Errorf("%w: quiz %s", ErrNotFound, quizKey)
		}
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == q.ID {
				quiz.Questions[i] = q
				return nil
			}
		}
		return fmt.Errorf("%w: question %s", ErrNotFound, q.ID)
	})
}

// DeleteQuestion removes a question from the quiz.
func (e *Editor) DeleteQuestion(courseID, quizKey, questionID string) error {
	return e.update(courseID, func(c *Course) error {
		quiz, ok := c.QuizFor(quizKey)
		if !ok {
			return fmt.Errorf("%w: quiz %s", ErrNotFound, quizKey)
		}
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == questionID {
				quiz.Questions = append(quiz.Questions[:i], quiz.Questions[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: question %s", ErrNotFound, questionID)
	})
}
