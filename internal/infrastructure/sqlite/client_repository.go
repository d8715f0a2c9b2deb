package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

const clientColumns = `id, secret, label, scopes, created_at, updated_at`

// clientRow stores scopes as a JSON array.
type clientRow struct {
	ID        string    `db:"id"`
	Secret    string    `db:"secret"`
	Label     string    `db:"label"`
	Scopes    string    `db:"scopes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newClientRow(c *domain.Client) (clientRow, error) {
	scopes, err := json.Marshal(c.Scopes)
	if err != nil {
		return clientRow{}, fmt.Errorf("failed to marshal scopes of client %s: %w", c.ID, err)
	}
	return clientRow{
		ID:        c.ID,
		Secret:    c.Secret,
		Label:     c.Label,
		Scopes:    string(scopes),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func (row clientRow) toDomain() (*domain.Client, error) {
	c := &domain.Client{
		ID:        row.ID,
		Secret:    row.Secret,
		Label:     row.Label,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Scopes), &c.Scopes); err != nil {
		return nil, fmt.Errorf("client %s has malformed scopes: %w", row.ID, err)
	}
	return c, nil
}

type clientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	row, err := newClientRow(client)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx,
		`INSERT INTO client (`+clientColumns+`) VALUES (:id, :secret, :label, :scopes, :created_at, :updated_at)`,
		row)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var row clientRow
	err := r.db.GetContext(ctx, &row, `SELECT `+clientColumns+` FROM client WHERE id = ?`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("client %s: %w", id, repository.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("failed to find client %s: %w", id, err)
	}
	return row.toDomain()
}

// Update writes label, scopes and updated_at; the secret never changes.
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	row, err := newClientRow(client)
	if err != nil {
		return err
	}
	result, err := r.db.NamedExecContext(ctx,
		`UPDATE client SET label = :label, scopes = :scopes, updated_at = :updated_at WHERE id = :id`,
		row)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", client.ID, err)
	}
	return requireRow(result, "client", client.ID)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM client WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	return requireRow(result, "client", id)
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	var rows []clientRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+clientColumns+` FROM client ORDER BY label, id`); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*domain.Client, len(rows))
	for i, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		clients[i] = c
	}
	return clients, nil
}
