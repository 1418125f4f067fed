package database

import (
	"context"
	"errors"
	"fmt"

	"careerhub/server/internal/messaging"
	"careerhub/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, sender_id, receiver_id, content, file_url, read, created_at`

type PostgresMessageStore struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageStore(pool *pgxpool.Pool) *PostgresMessageStore {
	return &PostgresMessageStore{pool: pool}
}

func (s *PostgresMessageStore) Append(ctx context.Context, message models.Message) (models.Message, error) {
	if message.SenderID == message.ReceiverID {
		return models.Message{}, messaging.ErrSelfMessage
	}
	rows, err := s.pool.Query(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING `+messageColumns,
		message.ID, message.SenderID, message.ReceiverID, message.Content, message.FileURL, message.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "messages_no_self" {
			return models.Message{}, messaging.ErrSelfMessage
		}
		return models.Message{}, err
	}
	return created, nil
}

func (s *PostgresMessageStore) FindBySender(ctx context.Context, userID string) ([]models.Message, error) {
	return s.query(ctx, `SELECT `+messageColumns+` FROM messages WHERE sender_id = $1`, userID)
}

func (s *PostgresMessageStore) FindByReceiver(ctx context.Context, userID string) ([]models.Message, error) {
	return s.query(ctx, `SELECT `+messageColumns+` FROM messages WHERE receiver_id = $1`, userID)
}

func (s *PostgresMessageStore) Get(ctx context.Context, messageID string) (models.Message, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, messageID)
	if err != nil {
		return models.Message{}, err
	}
	message, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Message{}, fmt.Errorf("%w: %s", messaging.ErrMessageNotFound, messageID)
	}
	return message, err
}

func (s *PostgresMessageStore) MarkRead(ctx context.Context, messageIDs []string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE messages SET read = TRUE WHERE id = ANY($1) AND read = FALSE`, messageIDs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresMessageStore) query(ctx context.Context, sql string, args ...any) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Message])
}

// PostgresDirectory resolves profiles from the account service's users table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

func (d *PostgresDirectory) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var user models.User
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, email, name, avatar FROM users WHERE id::text = $1
	`, userID).Scan(&user.ID, &user.Email, &user.Name, &user.Avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	profile := user.ToProfile()
	return &profile, nil
}
