package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kpool "github.com/JarcauCristian/notebook-manager/pkg/conn/db/postgres/pool"
	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	kdb "github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/db"
)

type pgNotebook struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdb.Interface {
	return &pgNotebook{pool: pool}
}

// Init creates the notebooks table unless it exists.
func Init(ctx context.Context, pool kpool.Pool) error {
	_, err := pool.Exec(
		ctx,
		`
		create table if not exists "notebooks" (
			"notebook_id" varchar(36) primary key,
			"user_id" varchar not null,
			"description" varchar not null default '',
			"dataset_url" varchar not null default '',
			"port" integer not null,
			"notebook_type" varchar not null,
			"created_at" timestamp with time zone not null default now(),
			"last_accessed" timestamp with time zone not null default now()
		);
		`,
	)
	return err
}

func (m *pgNotebook) Register(ctx context.Context, n *domain.Notebook) error {
	_, err := m.pool.Exec(
		ctx,
		`
		insert into "notebooks" (
			"notebook_id", "user_id", "description", "dataset_url",
			"port", "notebook_type", "created_at", "last_accessed"
		) values ($1, $2, $3, $4, $5, $6, $7, $8);
		`,
		n.NotebookId, n.UserId, n.Description, n.DatasetURL,
		n.Port, n.Variant.String(), n.CreatedAt, n.LastAccessed,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: notebook %s", domain.ErrConflict, n.NotebookId)
		}
		return err
	}
	return nil
}

func (m *pgNotebook) Get(ctx context.Context, notebookId string) (*domain.Notebook, error) {
	n := domain.Notebook{}
	var variant string
	err := m.pool.QueryRow(
		ctx,
		`
		select
			"notebook_id", "user_id", "description", "dataset_url",
			"port", "notebook_type", "created_at", "last_accessed"
		from "notebooks" where "notebook_id" = $1;
		`,
		notebookId,
	).Scan(
		&n.NotebookId, &n.UserId, &n.Description, &n.DatasetURL,
		&n.Port, &variant, &n.CreatedAt, &n.LastAccessed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: notebook %s", domain.ErrMissing, notebookId)
		}
		return nil, err
	}
	n.Variant = domain.NotebookVariant(variant)
	return &n, nil
}

func (m *pgNotebook) ListForUser(ctx context.Context, userId string) ([]domain.Notebook, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select
			"notebook_id", "user_id", "description", "dataset_url",
			"port", "notebook_type", "created_at", "last_accessed"
		from "notebooks"
		where "user_id" = $1
		order by "created_at";
		`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := []domain.Notebook{}
	for rows.Next() {
		n := domain.Notebook{}
		var variant string
		if err := rows.Scan(
			&n.NotebookId, &n.UserId, &n.Description, &n.DatasetURL,
			&n.Port, &variant, &n.CreatedAt, &n.LastAccessed,
		); err != nil {
			return nil, err
		}
		n.Variant = domain.NotebookVariant(variant)
		found = append(found, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

func (m *pgNotebook) Touch(ctx context.Context, notebookId string) error {
	tag, err := m.pool.Exec(
		ctx,
		`update "notebooks" set "last_accessed" = now() where "notebook_id" = $1;`,
		notebookId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notebook %s", domain.ErrMissing, notebookId)
	}
	return nil
}

func (m *pgNotebook) Delete(ctx context.Context, notebookId string) error {
	tag, err := m.pool.Exec(
		ctx,
		`delete from "notebooks" where "notebook_id" = $1;`,
		notebookId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notebook %s", domain.ErrMissing, notebookId)
	}
	return nil
}
