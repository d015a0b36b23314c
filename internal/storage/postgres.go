package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/content-studio/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Challenges

// CreateChallenge inserts a new challenge record
func (r *PostgresRepository) CreateChallenge(ctx context.Context, ch *models.Challenge) error {
	tagsJSON, err := json.Marshal(ch.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	casesJSON, err := json.Marshal(ch.TestCases)
	if err != nil {
		return fmt.Errorf("failed to marshal test cases: %w", err)
	}

	query := `
		INSERT INTO challenges (
			id, title, short_description, problem_statement, difficulty_level,
			reward_points, estimated_time, tags, status, test_cases,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		ch.ID, ch.Title, ch.ShortDescription, ch.ProblemStatement, ch.DifficultyLevel,
		ch.RewardPoints, ch.EstimatedTime, tagsJSON, ch.Status, casesJSON,
		ch.CreatedAt, ch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}

	return nil
}

// GetChallenge retrieves a challenge by id; returns (nil, nil) when missing
func (r *PostgresRepository) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	query := `
		SELECT id, title, short_description, problem_statement, difficulty_level,
		       reward_points, estimated_time, tags, status, test_cases,
		       created_at, updated_at
		FROM challenges
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	ch, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return ch, nil
}

// UpdateChallenge updates an existing challenge record
func (r *PostgresRepository) UpdateChallenge(ctx context.Context, ch *models.Challenge) error {
	tagsJSON, err := json.Marshal(ch.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	casesJSON, err := json.Marshal(ch.TestCases)
	if err != nil {
		return fmt.Errorf("failed to marshal test cases: %w", err)
	}

	query := `
		UPDATE challenges
		SET title = $2, short_description = $3, problem_statement = $4,
		    difficulty_level = $5, reward_points = $6, estimated_time = $7,
		    tags = $8, status = $9, test_cases = $10, updated_at = $11
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		ch.ID, ch.Title, ch.ShortDescription, ch.ProblemStatement,
		ch.DifficultyLevel, ch.RewardPoints, ch.EstimatedTime,
		tagsJSON, ch.Status, casesJSON, ch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("challenge %s not found", ch.ID)
	}

	return nil
}

// DeleteChallenge removes a challenge record
func (r *PostgresRepository) DeleteChallenge(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// ListChallenges retrieves challenges matching the given filters
func (r *PostgresRepository) ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error) {
	query := `
		SELECT id, title, short_description, problem_statement, difficulty_level,
		       reward_points, estimated_time, tags, status, test_cases,
		       created_at, updated_at
		FROM challenges
	`

	args := []interface{}{}
	if filters.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filters.Status)
	}
	query += orderClause(filters)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}

	return challenges, rows.Err()
}

// Quizzes

// CreateQuiz inserts a new quiz record
func (r *PostgresRepository) CreateQuiz(ctx context.Context, q *models.Quiz) error {
	instructionsJSON, err := json.Marshal(q.Instructions)
	if err != nil {
		return fmt.Errorf("failed to marshal instructions: %w", err)
	}

	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		INSERT INTO quizzes (
			id, title, description, instructions, time_limit, passing_score,
			due_date, notify_students, status, questions, notified_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		q.ID, q.Title, q.Description, instructionsJSON, q.TimeLimit, q.PassingScore,
		q.DueDate, q.NotifyStudents, q.Status, questionsJSON, q.NotifiedAt,
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	return nil
}

// GetQuiz retrieves a quiz by id; returns (nil, nil) when missing
func (r *PostgresRepository) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	query := quizSelect + ` WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	q, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return q, nil
}

// UpdateQuiz updates an existing quiz record
func (r *PostgresRepository) UpdateQuiz(ctx context.Context, q *models.Quiz) error {
	instructionsJSON, err := json.Marshal(q.Instructions)
	if err != nil {
		return fmt.Errorf("failed to marshal instructions: %w", err)
	}

	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		UPDATE quizzes
		SET title = $2, description = $3, instructions = $4, time_limit = $5,
		    passing_score = $6, due_date = $7, notify_students = $8,
		    status = $9, questions = $10, notified_at = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		q.ID, q.Title, q.Description, instructionsJSON, q.TimeLimit,
		q.PassingScore, q.DueDate, q.NotifyStudents,
		q.Status, questionsJSON, q.NotifiedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quiz %s not found", q.ID)
	}

	return nil
}

// DeleteQuiz removes a quiz record
func (r *PostgresRepository) DeleteQuiz(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	return nil
}

// ListQuizzes retrieves quizzes matching the given filters
func (r *PostgresRepository) ListQuizzes(ctx context.Context, filters models.ListFilters) ([]*models.Quiz, error) {
	query := quizSelect

	args := []interface{}{}
	if filters.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filters.Status)
	}
	query += orderClause(filters)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}

	return quizzes, rows.Err()
}

// GetDueQuizzes returns published quizzes whose due date has passed, with
// the notify flag set and no notification recorded yet
func (r *PostgresRepository) GetDueQuizzes(ctx context.Context, now time.Time) ([]*models.Quiz, error) {
	query := quizSelect + `
		WHERE status = 'published'
		  AND notify_students = TRUE
		  AND due_date IS NOT NULL
		  AND due_date <= $1
		  AND notified_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}

	return quizzes, rows.Err()
}

// MarkQuizNotified records that a due-date notification has been emitted
func (r *PostgresRepository) MarkQuizNotified(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE quizzes SET notified_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark quiz notified: %w", err)
	}
	return nil
}

// Scan helpers

const quizSelect = `
	SELECT id, title, description, instructions, time_limit, passing_score,
	       due_date, notify_students, status, questions, notified_at,
	       created_at, updated_at
	FROM quizzes
`

func scanChallenge(row pgx.Row) (*models.Challenge, error) {
	var ch models.Challenge
	var tagsJSON, casesJSON []byte

	err := row.Scan(
		&ch.ID, &ch.Title, &ch.ShortDescription, &ch.ProblemStatement,
		&ch.DifficultyLevel, &ch.RewardPoints, &ch.EstimatedTime,
		&tagsJSON, &ch.Status, &casesJSON, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &ch.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(casesJSON, &ch.TestCases); err != nil {
		return nil, fmt.Errorf("failed to unmarshal test cases: %w", err)
	}

	return &ch, nil
}

func scanQuiz(row pgx.Row) (*models.Quiz, error) {
	var q models.Quiz
	var instructionsJSON, questionsJSON []byte

	err := row.Scan(
		&q.ID, &q.Title, &q.Description, &instructionsJSON, &q.TimeLimit,
		&q.PassingScore, &q.DueDate, &q.NotifyStudents, &q.Status,
		&questionsJSON, &q.NotifiedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(instructionsJSON, &q.Instructions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instructions: %w", err)
	}
	if err := json.Unmarshal(questionsJSON, &q.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}

	return &q, nil
}

// orderClause builds an ORDER BY clause from a whitelist of sortable columns
func orderClause(filters models.ListFilters) string {
	column := "created_at"
	switch filters.OrderBy {
	case "", "created_at":
	case "updated_at":
		column = "updated_at"
	case "title":
		column = "title"
	}

	direction := "DESC"
	if filters.OrderDirection == "asc" {
		direction = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}
