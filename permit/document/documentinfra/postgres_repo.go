package documentinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kabalen/permitdocs/pkg/kernel"
	"github.com/kabalen/permitdocs/pkg/logx"
	"github.com/kabalen/permitdocs/permit/document"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) document.Repository {
	return &PostgresRepository{db: db}
}

// dbRecord is the database model; the verdict is stored as a JSONB column
type dbRecord struct {
	ID            string `db:"id"`
	ApplicationID string `db:"application_id"`
	Category      string `db:"category"`
	Status        string `db:"status"`

	FileName string `db:"file_name"`
	FilePath string `db:"file_path"`
	FileType string `db:"file_type"`

	Verdict        sql.NullString `db:"verdict"`
	InvalidReasons pq.StringArray `db:"invalid_reasons"`
	ErrorMessage   string         `db:"error_message"`

	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

func (r *PostgresRepository) Create(ctx context.Context, record *document.Record) error {
	query := `
		INSERT INTO verification_records (
			id, application_id, category, status,
			file_name, file_path, file_type,
			verdict, invalid_reasons, error_message,
			created_at, completed_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12
		)
	`

	dbRec, err := toDBRecord(record)
	if err != nil {
		return fmt.Errorf("convert record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		dbRec.ID, dbRec.ApplicationID, dbRec.Category, dbRec.Status,
		dbRec.FileName, dbRec.FilePath, dbRec.FileType,
		dbRec.Verdict, dbRec.InvalidReasons, dbRec.ErrorMessage,
		dbRec.CreatedAt, dbRec.CompletedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("record already exists: %w", err)
		}
		return fmt.Errorf("create record: %w", err)
	}

	logx.Infof("Created verification record: %s (%s/%s, %s)",
		record.ID, record.ApplicationID, record.Category, record.Status)
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, record *document.Record) error {
	query := `
		UPDATE verification_records SET
			status = $2,
			file_path = $3,
			verdict = $4,
			invalid_reasons = $5,
			error_message = $6,
			completed_at = $7
		WHERE id = $1
	`

	dbRec, err := toDBRecord(record)
	if err != nil {
		return fmt.Errorf("convert record: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		dbRec.ID, dbRec.Status, dbRec.FilePath,
		dbRec.Verdict, dbRec.InvalidReasons, dbRec.ErrorMessage,
		dbRec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record not found: %s", record.ID)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id kernel.VerificationID) (*document.Record, error) {
	query := selectRecordColumns + ` WHERE id = $1`

	var dbRec dbRecord
	if err := r.db.GetContext(ctx, &dbRec, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("record not found: %s", id)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	return toDomainRecord(&dbRec)
}

func (r *PostgresRepository) ListByApplicationID(ctx context.Context, appID kernel.ApplicationID) ([]*document.Record, error) {
	query := selectRecordColumns + `
		WHERE application_id = $1
		ORDER BY created_at DESC
	`

	var dbRecs []dbRecord
	if err := r.db.SelectContext(ctx, &dbRecs, query, appID.String()); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]*document.Record, 0, len(dbRecs))
	for i := range dbRecs {
		rec, err := toDomainRecord(&dbRecs[i])
		if err != nil {
			logx.Errorf("Failed to convert record %s: %v", dbRecs[i].ID, err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *PostgresRepository) GetLatest(ctx context.Context, appID kernel.ApplicationID, category document.Category) (*document.Record, error) {
	query := selectRecordColumns + `
		WHERE application_id = $1 AND category = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var dbRec dbRecord
	if err := r.db.GetContext(ctx, &dbRec, query, appID.String(), category.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no record for %s/%s", appID, category)
		}
		return nil, fmt.Errorf("get latest record: %w", err)
	}

	return toDomainRecord(&dbRec)
}

func (r *PostgresRepository) ClearFilePath(ctx context.Context, id kernel.VerificationID) error {
	query := `UPDATE verification_records SET file_path = '' WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("clear file path: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record not found: %s", id)
	}

	return nil
}

const selectRecordColumns = `
	SELECT
		id, application_id, category, status,
		file_name, file_path, file_type,
		verdict, invalid_reasons, error_message,
		created_at, completed_at
	FROM verification_records
`

func toDBRecord(record *document.Record) (*dbRecord, error) {
	var verdict sql.NullString
	if record.Verdict != nil {
		data, err := json.Marshal(record.Verdict)
		if err != nil {
			return nil, fmt.Errorf("marshal verdict: %w", err)
		}
		verdict = sql.NullString{String: string(data), Valid: true}
	}

	return &dbRecord{
		ID:             record.ID.String(),
		ApplicationID:  record.ApplicationID.String(),
		Category:       record.Category.String(),
		Status:         string(record.Status),
		FileName:       record.FileName,
		FilePath:       record.FilePath,
		FileType:       record.FileType,
		Verdict:        verdict,
		InvalidReasons: pq.StringArray(record.InvalidReasons),
		ErrorMessage:   record.ErrorMessage,
		CreatedAt:      record.CreatedAt,
		CompletedAt:    record.CompletedAt,
	}, nil
}

func toDomainRecord(dbRec *dbRecord) (*document.Record, error) {
	var verdict *document.Verdict
	if dbRec.Verdict.Valid && dbRec.Verdict.String != "" {
		verdict = &document.Verdict{}
		if err := json.Unmarshal([]byte(dbRec.Verdict.String), verdict); err != nil {
			return nil, fmt.Errorf("unmarshal verdict: %w", err)
		}
	}

	return &document.Record{
		ID:             kernel.VerificationID(dbRec.ID),
		ApplicationID:  kernel.ApplicationID(dbRec.ApplicationID),
		Category:       document.Category(dbRec.Category),
		Status:         document.Status(dbRec.Status),
		FileName:       dbRec.FileName,
		FilePath:       dbRec.FilePath,
		FileType:       dbRec.FileType,
		Verdict:        verdict,
		InvalidReasons: []string(dbRec.InvalidReasons),
		ErrorMessage:   dbRec.ErrorMessage,
		CreatedAt:      dbRec.CreatedAt,
		CompletedAt:    dbRec.CompletedAt,
	}, nil
}
