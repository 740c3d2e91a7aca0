package applicationinfra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/application"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) application.Repository {
	return &PostgresRepository{db: db}
}

const selectApplicationColumns = `
	SELECT
		id, reference_no, type, status,
		owner_first_name, owner_middle_name, owner_last_name,
		business_name, business_address, tin,
		declared_id_type, declared_id_number,
		created_at, updated_at
	FROM permit_applications
`

func (r *PostgresRepository) Create(ctx context.Context, app *application.PermitApplication) error {
	query := `
		INSERT INTO permit_applications (
			id, reference_no, type, status,
			owner_first_name, owner_middle_name, owner_last_name,
			business_name, business_address, tin,
			declared_id_type, declared_id_number,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12,
			$13, $14
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		app.ID.String(), app.ReferenceNo.String(), string(app.Type), string(app.Status),
		app.OwnerFirstName, app.OwnerMiddleName, app.OwnerLastName,
		app.BusinessName, app.BusinessAddress, string(app.TIN),
		app.DeclaredIDType, app.DeclaredIDNumber,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("application already exists: %w", err)
		}
		return fmt.Errorf("create application: %w", err)
	}

	logx.Infof("Created application: %s (%s)", app.ID, app.ReferenceNo)
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, app *application.PermitApplication) error {
	query := `
		UPDATE permit_applications SET
			status = $2,
			owner_first_name = $3,
			owner_middle_name = $4,
			owner_last_name = $5,
			business_name = $6,
			business_address = $7,
			declared_id_type = $8,
			declared_id_number = $9,
			updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		app.ID.String(), string(app.Status),
		app.OwnerFirstName, app.OwnerMiddleName, app.OwnerLastName,
		app.BusinessName, app.BusinessAddress,
		app.DeclaredIDType, app.DeclaredIDNumber,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("application not found: %s", app.ID)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.PermitApplication, error) {
	query := selectApplicationColumns + ` WHERE id = $1`

	var app application.PermitApplication
	if err := r.db.GetContext(ctx, &app, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("application not found: %s", id)
		}
		return nil, fmt.Errorf("get application: %w", err)
	}

	return &app, nil
}

func (r *PostgresRepository) GetByReferenceNo(ctx context.Context, ref kernel.ReferenceNo) (*application.PermitApplication, error) {
	query := selectApplicationColumns + ` WHERE reference_no = $1`

	var app application.PermitApplication
	if err := r.db.GetContext(ctx, &app, query, ref.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("application not found: %s", ref)
		}
		return nil, fmt.Errorf("get application by reference: %w", err)
	}

	return &app, nil
}

func (r *PostgresRepository) List(ctx context.Context, req application.ListApplicationsRequest) (*kernel.Paginated[application.PermitApplication], error) {
	where := " WHERE 1=1"
	args := []any{}
	argN := 1

	if req.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, string(req.Status))
		argN++
	}
	if req.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argN)
		args = append(args, string(req.Type))
		argN++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM permit_applications" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	query := selectApplicationColumns + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, req.Pagination.PageSize, req.Pagination.Offset())

	var apps []application.PermitApplication
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	totalPages := int(total) / req.Pagination.PageSize
	if int(total)%req.Pagination.PageSize > 0 {
		totalPages++
	}

	return &kernel.Paginated[application.PermitApplication]{
		Items:      apps,
		Total:      total,
		Page:       req.Pagination.Page,
		PageSize:   req.Pagination.PageSize,
		TotalPages: totalPages,
	}, nil
}
