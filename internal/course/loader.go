package course

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDir walks a directory of course YAML files and loads every valid course
// into the store. Used to seed development and demo environments; production
// content is authored through the admin API.
func LoadDir(rootDir string, store Store) (int, error) {
	loaded := 0
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		c, err := LoadFile(path)
		if err != nil {
			slog.Warn("skipping invalid course file", "path", path, "error", err)
			return nil
		}
		if err := store.PutCourse(c); err != nil {
			return fmt.Errorf("store course %s from %s: %w", c.ID, path, err)
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("loading courses: %w", err)
	}

	slog.Info("courses loaded", "count", loaded, "dir", rootDir)
	return loaded, nil
}

// LoadFile reads and validates one course document from YAML.
func LoadFile(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("%s: not a course file", path)
	}

	// Fixture files rely on array position; assign the order fields and
	// back-references the editor would have maintained.
	c.ResequenceChapters()
	for i := range c.Chapters {
		ch := &c.Chapters[i]
		ch.ResequenceTopics()
		if ch.Quiz != nil {
			ch.Quiz.ChapterID = ch.ID
		}
		for j := range ch.Topics {
			ch.Topics[j].ChapterID = ch.ID
			ch.Topics[j].ResequenceBlocks()
		}
	}
	if c.FinalQuiz != nil {
		c.FinalQuiz.IsFinalQuiz = true
		c.FinalQuiz.ChapterID = ""
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
