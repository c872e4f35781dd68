package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yourturn/internal/models"
)

// PostgresSource reads questions from the content database maintained
// by the admin panel. Schema: categories(id, name), questions(id, text,
// category_id), answers(id, text, is_correct, question_id).
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to the database and verifies the
// connection.
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to questions database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping questions database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Random returns one random eligible question with its correct answer,
// or ErrNoQuestions.
func (s *PostgresSource) Random(ctx context.Context, category string, exclude []int) (*models.Question, error) {
	if exclude == nil {
		exclude = []int{}
	}

	var q models.Question
	err := s.pool.QueryRow(ctx,
		`SELECT q.id, q.text, a.text
		 FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 JOIN answers a ON a.question_id = q.id AND a.is_correct
		 WHERE c.name = $1
		   AND NOT (q.id = ANY($2))
		 ORDER BY random()
		 LIMIT 1`,
		category, exclude,
	).Scan(&q.ID, &q.Text, &q.Answer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoQuestions
		}
		return nil, fmt.Errorf("get random question: %w", err)
	}
	return &q, nil
}

// Categories lists the category names that have at least one question.
func (s *PostgresSource) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT c.name
		 FROM categories c
		 JOIN questions q ON q.category_id = c.id
		 ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}
