package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inbox_service/internal/config"
	"inbox_service/internal/models"
	"inbox_service/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Pool is the part of *pgxpool.Pool the repository uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type PostgresRepo struct {
	pool Pool
}

func NewWithPool(pool Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return NewWithPool(pool), nil
}

const userColumns = `id, username, email, password_hash, verify_code, verify_code_expiry,
	is_verified, is_accepting_messages, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PassHash,
		&u.VerifyCode,
		&u.VerifyCodeExpiry,
		&u.IsVerified,
		&u.IsAcceptingMessages,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, storage.ErrUserNotFound
	}

	return u, err
}

func (r *PostgresRepo) SaveUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (username, email, password_hash, verify_code, verify_code_expiry,
			is_verified, is_accepting_messages)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`

	var id int64

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PassHash,
		user.VerifyCode,
		user.VerifyCodeExpiry,
		user.IsVerified,
		user.IsAcceptingMessages,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return 0, storage.ErrUserExists
		}

		return 0, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

// UpdateUnverifiedUser refreshes credentials and code of an account that has not been verified yet.
func (r *PostgresRepo) UpdateUnverifiedUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.UpdateUnverifiedUser"

	query := `
		UPDATE users
		SET password_hash = $1, verify_code = $2, verify_code_expiry = $3
		WHERE id = $4 AND is_verified = FALSE;
	`

	tag, err := r.pool.Exec(ctx, query, user.PassHash, user.VerifyCode, user.VerifyCodeExpiry, user.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) UserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1 ORDER BY id LIMIT 1;`

	return scanUser(r.pool.QueryRow(ctx, query, identifier))
}

func (r *PostgresRepo) UserByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`

	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *PostgresRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`

	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) UserByID(ctx context.Context, id int64) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) SetVerified(ctx context.Context, id int64) error {
	const op = "storage.postgres.SetVerified"

	query := `UPDATE users SET is_verified = TRUE, verify_code = '' WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) AcceptingMessages(ctx context.Context, id int64) (bool, error) {
	query := `SELECT is_accepting_messages FROM users WHERE id = $1`

	var accepting bool

	err := r.pool.QueryRow(ctx, query, id).Scan(&accepting)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, storage.ErrUserNotFound
	}

	return accepting, err
}

// SetAcceptingMessages updates the flag and returns the row as stored after the update.
func (r *PostgresRepo) SetAcceptingMessages(ctx context.Context, id int64, accepting bool) (models.User, error) {
	query := `
		UPDATE users SET is_accepting_messages = $1
		WHERE id = $2
		RETURNING ` + userColumns + `;`

	return scanUser(r.pool.QueryRow(ctx, query, accepting, id))
}

func (r *PostgresRepo) AddMessage(ctx context.Context, userID int64, msg models.Message) error {
	const op = "storage.postgres.AddMessage"

	query := `
		INSERT INTO messages (id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4);
	`

	_, err := r.pool.Exec(ctx, query, msg.ID, userID, msg.Content, msg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return storage.ErrUserNotFound
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Messages(ctx context.Context, userID int64) ([]models.Message, error) {
	const op = "storage.postgres.Messages"

	query := `
		SELECT id, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)

	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return messages, nil
}

// DeleteMessage removes a message only if it belongs to userID.
func (r *PostgresRepo) DeleteMessage(ctx context.Context, userID int64, messageID uuid.UUID) error {
	const op = "storage.postgres.DeleteMessage"

	query := `DELETE FROM messages WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, messageID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrMessageNotFound
	}

	return nil
}

// DeleteUser removes a user; the messages table cascades.
func (r *PostgresRepo) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteUser"

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// * DSN builds the pgx connection string from config.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
