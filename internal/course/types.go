package course

import "fmt"

// Topic is the smallest navigable learning unit.
type Topic struct {
	ID                 string         `json:"id" yaml:"id"`
	ChapterID          string         `json:"chapterId" yaml:"chapterId"`
	Title              string         `json:"title" yaml:"title"`
	Duration           string         `json:"duration,omitempty" yaml:"duration,omitempty"`
	Order              int            `json:"order" yaml:"order"`
	VideoURL           string         `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	MinDurationSeconds int            `json:"minDurationSeconds,omitempty" yaml:"minDurationSeconds,omitempty"`
	RequireMinDuration bool           `json:"requireMinDuration,omitempty" yaml:"requireMinDuration,omitempty"`
	Blocks             []ContentBlock `json:"blocks" yaml:"blocks"`
}

// QuestionType discriminates the quiz question union.
type QuestionType string

const (
	QuestionSingle    QuestionType = "single"
	QuestionMulti     QuestionType = "multi"
	QuestionTrueFalse QuestionType = "truefalse"
	QuestionDragOrder QuestionType = "drag-order"
	QuestionHotspot   QuestionType = "hotspot"
)

// QuizQuestion is one question in a quiz. The fields populated depend on Type:
// single uses Options+CorrectAnswer, multi uses Options+CorrectAnswers,
// truefalse uses CorrectBool, drag-order uses Items (the array order is the
// correct order), hotspot uses HotspotImageURL+Hotspots.
type QuizQuestion struct {
	ID          string       `json:"id" yaml:"id"`
	Type        QuestionType `json:"type" yaml:"type"`
	Prompt      string       `json:"prompt" yaml:"prompt"`
	ImageURL    string       `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Explanation string       `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	Options         []string        `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer   int             `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	CorrectAnswers  []int           `json:"correctAnswers,omitempty" yaml:"correctAnswers,omitempty"`
	CorrectBool     *bool           `json:"correctBool,omitempty" yaml:"correctBool,omitempty"`
	Items           []DragOrderItem `json:"items,omitempty" yaml:"items,omitempty"`
	HotspotImageURL string          `json:"hotspotImageUrl,omitempty" yaml:"hotspotImageUrl,omitempty"`
	Hotspots        []Hotspot       `json:"hotspots,omitempty" yaml:"hotspots,omitempty"`
}

// Quiz gates a chapter, or the whole course when it is the final quiz
// (ChapterID empty).
type Quiz struct {
	ID               string         `json:"id" yaml:"id"`
	ChapterID        string         `json:"chapterId,omitempty" yaml:"chapterId,omitempty"`
	Title            string         `json:"title" yaml:"title"`
	Description      string         `json:"description,omitempty" yaml:"description,omitempty"`
	PassingScore     int            `json:"passingScore" yaml:"passingScore"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty" yaml:"timeLimitSeconds,omitempty"`
	Questions        []QuizQuestion `json:"questions" yaml:"questions"`
	IsFinalQuiz      bool           `json:"isFinalQuiz,omitempty" yaml:"isFinalQuiz,omitempty"`
}

// ChapterStatus is a derived view of a chapter's state for one learner. It is
// recomputed from progress on every read and never authoritative when stored.
type ChapterStatus string

const (
	StatusBlocked  ChapterStatus = "blocked"
	StatusPending  ChapterStatus = "pending"
	StatusComplete ChapterStatus = "complete"
)

// Chapter is an ordered group of topics, optionally gated by a quiz.
type Chapter struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Order       int     `json:"order" yaml:"order"`
	Topics      []Topic `json:"topics" yaml:"topics"`
	Quiz        *Quiz   `json:"quiz,omitempty" yaml:"quiz,omitempty"`

	// Status is a cached projection; see gating.ChapterStatus for the source
	// of truth.
	Status ChapterStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Course is the root aggregate: ordered chapters plus an optional final quiz.
type Course struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Chapters    []Chapter `json:"chapters" yaml:"chapters"`
	FinalQuiz   *Quiz     `json:"finalQuiz,omitempty" yaml:"finalQuiz,omitempty"`
}

// ValidationError is an authoring rejection tied to a field, surfaced to the
// admin UI verbatim.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// FindChapter returns the chapter with the given id.
func (c *Course) FindChapter(chapterID string) (*Chapter, bool) {
	for i := range c.Chapters {
		if c.Chapters[i].ID == chapterID {
			return &c.Chapters[i], true
		}
	}
	return nil, false
}

// FindTopic returns the topic with the given id within the given chapter.
func (c *Course) FindTopic(chapterID, topicID string) (*Topic, bool) {
	ch, ok := c.FindChapter(chapterID)
	if !ok {
		return nil, false
	}
	for i := range ch.Topics {
		if ch.Topics[i].ID == topicID {
			return &ch.Topics[i], true
		}
	}
	return nil, false
}

// QuizFor returns the quiz stored under the given progress key: a chapter id
// for chapter quizzes, or FinalQuizKey for the final quiz.
func (c *Course) QuizFor(key string) (*Quiz, bool) {
	if key == FinalQuizKey {
		if c.FinalQuiz == nil {
			return nil, false
		}
		return c.FinalQuiz, true
	}
	ch, ok := c.FindChapter(key)
	if !ok || ch.Quiz == nil {
		return nil, false
	}
	return ch.Quiz, true
}

// TotalTopics counts the topics across all chapters.
func (c *Course) TotalTopics() int {
	n := 0
	for _, ch := range c.Chapters {
		n += len(ch.Topics)
	}
	return n
}

// FinalQuizKey is the progress-map key used for a course's final quiz, where
// chapter quizzes use their chapter id.
const FinalQuizKey = "final"
