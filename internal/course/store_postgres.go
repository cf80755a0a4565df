package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore keeps each course as a single JSONB document in the courses
// table. The nested document shape is what makes order-based sequencing and
// first-incomplete scans work without joins.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed course store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) GetCourse(id string) (*Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM courses WHERE id = $1`,
		id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	var c Course
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", id, err)
	}
	return &c, nil
}

func (s *PostgresStore) ListCourses() ([]Summary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT document FROM courses`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		var c Course
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		summaries = append(summaries, Summary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Chapters:    len(c.Chapters),
			Topics:      c.TotalTopics(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	SortSummaries(summaries)
	return summaries, nil
}

func (s *PostgresStore) PutCourse(c *Course) error {
	if err := c.Validate(); err != nil {
		return err
	}

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode course %s: %w", c.ID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO courses (id, document, updated_at)
		 VALUES ($1, $2::jsonb, NOW())
		 ON CONFLICT (id) DO UPDATE SET document = $2::jsonb, updated_at = NOW()`,
		c.ID,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("put course: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteCourse(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
