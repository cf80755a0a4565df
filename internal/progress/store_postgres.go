package progress

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

// PostgresStore keeps one JSONB progress document per (user, course) row.
// Every mutation is a single INSERT ... ON CONFLICT statement using jsonb_set,
// so concurrent submissions cannot interleave partial writes: the whole
// quiz-result upsert is one atomic update and last write wins.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed progress store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(userID, courseID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM progress WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lazily created: an unseen pair reads as an empty record.
			return NewRecord(userID, courseID), nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	r := NewRecord(userID, courseID)
	if err := json.Unmarshal(doc, r); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	r.UserID = userID
	r.CourseID = courseID
	return r, nil
}

func (s *PostgresStore) ListByCourse(courseID string) ([]*Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT user_id, document FROM progress WHERE course_id = $1 ORDER BY user_id`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var userID string
		var doc []byte
		if err := rows.Scan(&userID, &doc); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		r := NewRecord(userID, courseID)
		if err := json.Unmarshal(doc, r); err != nil {
			return nil, fmt.Errorf("decode progress: %w", err)
		}
		r.UserID = userID
		r.CourseID = courseID
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Start(userID, courseID, chapterID, topicID string) error {
	pos, err := json.Marshal(Position{ChapterID: chapterID, TopicID: topicID})
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}

	fresh := fmt.Sprintf(`{"topics":{},"quizzes":{},"lastPosition":%s}`, pos)
	return s.upsert(userID, courseID, fresh,
		`jsonb_set(progress.document, '{lastPosition}', $4::jsonb, true)`,
		string(pos),
	)
}

func (s *PostgresStore) MarkTopicComplete(userID, courseID, topicID string) error {
	fresh := fmt.Sprintf(`{"topics":{%s:true},"quizzes":{}}`, jsonString(topicID))
	return s.upsert(userID, courseID, fresh,
		`jsonb_set(progress.document, ARRAY['topics',$4], 'true'::jsonb, true)`,
		topicID,
	)
}

func (s *PostgresStore) PutQuizResult(userID, courseID, quizKey string, result QuizResult) error {
	res, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode quiz result: %w", err)
	}

	fresh := fmt.Sprintf(`{"topics":{},"quizzes":{%s:%s}}`, jsonString(quizKey), res)
	return s.upsert(userID, courseID, fresh,
		`jsonb_set(progress.document, ARRAY['quizzes',$4], $5::jsonb, true)`,
		quizKey,
		string(res),
	)
}

// upsert inserts a fresh document for a new (user, course) pair or applies
// the jsonb_set expression to the existing one, in a single statement.
// Parameters: $1 user, $2 course, $3 fresh document, $4.. expression args.
func (s *PostgresStore) upsert(userID, courseID, freshDoc, setExpr string, args ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	query := fmt.Sprintf(
		`INSERT INTO progress (user_id, course_id, document, updated_at)
		 VALUES ($1, $2, $3::jsonb, NOW())
		 ON CONFLICT (user_id, course_id)
		 DO UPDATE SET document = %s, updated_at = NOW()`,
		setExpr,
	)

	queryArgs := append([]any{userID, courseID, freshDoc}, args...)
	if _, err := s.pool.Exec(ctx, query, queryArgs...); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return string(b)
}
