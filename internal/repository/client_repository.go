package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

const clientColumns = `id, code, name, sector, contract_start, monthly_fee, contact_person, phone, email, notes, created_at, updated_at`

// ClientRepository manages persistence for clients.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs a ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns a page of clients ordered by name.
func (r *ClientRepository) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, int, error) {
	var conds conditions
	if filter.Search != "" {
		conds.add("(LOWER(name) LIKE $%[1]d OR LOWER(code) LIKE $%[1]d)", "%"+strings.ToLower(filter.Search)+"%")
	}
	_, size, offset := paginate(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM clients%s ORDER BY name ASC, id ASC LIMIT %d OFFSET %d", clientColumns, conds.where(), size, offset)
	var clients []models.Client
	if err := sqlx.SelectContext(ctx, r.db, &clients, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM clients"+conds.where(), conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	return clients, total, nil
}

// ListAll returns every client ordered by id.
func (r *ClientRepository) ListAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := sqlx.SelectContext(ctx, r.db, &clients, "SELECT "+clientColumns+" FROM clients ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	return clients, nil
}

// FindByID fetches a client. Missing rows surface as sql.ErrNoRows.
func (r *ClientRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Client, error) {
	var client models.Client
	if err := sqlx.GetContext(ctx, r.exec(exec), &client, "SELECT "+clientColumns+" FROM clients WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &client, nil
}

// LastCode returns the code of the most recently inserted client, or "" when there is none.
func (r *ClientRepository) LastCode(ctx context.Context, exec sqlx.ExtContext) (string, error) {
	var code string
	if err := sqlx.GetContext(ctx, r.exec(exec), &code, "SELECT code FROM clients ORDER BY id DESC LIMIT 1"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last client code: %w", err)
	}
	return code, nil
}

// CodeExists reports whether a client already uses code.
func (r *ClientRepository) CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, r.exec(exec), &exists, "SELECT EXISTS(SELECT 1 FROM clients WHERE code = $1)", code); err != nil {
		return false, fmt.Errorf("check client code: %w", err)
	}
	return exists, nil
}

// Create inserts a client and assigns its id.
func (r *ClientRepository) Create(ctx context.Context, exec sqlx.ExtContext, client *models.Client) error {
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now
	const query = `INSERT INTO clients (code, name, sector, contract_start, monthly_fee, contact_person, phone, email, notes, created_at, updated_at)
VALUES (:code, :name, :sector, :contract_start, :monthly_fee, :contact_person, :phone, :email, :notes, :created_at, :updated_at)
RETURNING id`
	if err := namedGet(ctx, r.exec(exec), &client.ID, query, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// Update rewrites the editable client fields. The code never changes.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now().UTC()
	const query = `UPDATE clients SET name = :name, sector = :sector, contract_start = :contract_start, monthly_fee = :monthly_fee,
contact_person = :contact_person, phone = :phone, email = :email, notes = :notes, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, r.db, query, client)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return affectedOne(result)
}
