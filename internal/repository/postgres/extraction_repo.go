package postgres

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxextract/internal/domain"
	"taxextract/internal/port"
)

type extractionRepo struct {
	db *sqlx.DB
}

// NewExtractionRepo creates a new PostgreSQL-backed ExtractionRepository.
func NewExtractionRepo(db *sqlx.DB) port.ExtractionRepository {
	return &extractionRepo{db: db}
}

const insertExtractionQuery = `INSERT INTO document_extractions (
		id, client_id, doc_url, doc_name, doc_status, doc_type,
		document_index, field_name, field_value, confidence, access_id, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id`

// InsertFields writes every row inside one transaction. Either all rows are
// committed or none are.
func (r *extractionRepo) InsertFields(ctx context.Context, rows []domain.Extraction) ([]uuid.UUID, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("extractionRepo.InsertFields begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.DocStatus == "" {
			row.DocStatus = domain.DocStatusExtracted
		}
		row.CreatedAt = now

		var id uuid.UUID
		err := tx.QueryRowxContext(ctx, insertExtractionQuery,
			row.ID, row.ClientID, row.DocURL, row.DocName, row.DocStatus, row.DocType,
			row.DocumentIndex, row.FieldName, row.FieldValue, row.Confidence, row.AccessID, row.CreatedAt,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("extractionRepo.InsertFields field %q: %w", row.FieldName, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("extractionRepo.InsertFields commit: %w", err)
	}
	log.Printf("extractionRepo.InsertFields: wrote %d rows for %s/%s, last inserted id %s",
		len(ids), rows[0].ClientID, rows[0].DocName, ids[len(ids)-1])
	return ids, nil
}

func (r *extractionRepo) ListByClient(ctx context.Context, clientID, docName string, offset, limit int) ([]domain.Extraction, int, error) {
	where, args := extractionFilter(clientID, docName)

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM document_extractions WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("extractionRepo.ListByClient count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT * FROM document_extractions WHERE %s
		ORDER BY created_at DESC, doc_name, document_index, field_name
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	var rows []domain.Extraction
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("extractionRepo.ListByClient: %w", err)
	}
	return rows, total, nil
}

func (r *extractionRepo) ListForExport(ctx context.Context, clientID, docName string) ([]domain.Extraction, error) {
	where, args := extractionFilter(clientID, docName)
	query := `SELECT * FROM document_extractions WHERE ` + where + `
		ORDER BY doc_name, document_index, field_name`

	var rows []domain.Extraction
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("extractionRepo.ListForExport: %w", err)
	}
	return rows, nil
}

func (r *extractionRepo) DeleteByDocument(ctx context.Context, clientID, docName string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM document_extractions WHERE client_id = $1 AND doc_name = $2", clientID, docName)
	if err != nil {
		return 0, fmt.Errorf("extractionRepo.DeleteByDocument: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("extractionRepo.DeleteByDocument rows: %w", err)
	}
	return n, nil
}

// extractionFilter builds the WHERE clause for a client, optionally narrowed to one document.
func extractionFilter(clientID, docName string) (string, []interface{}) {
	if docName == "" {
		return "client_id = $1", []interface{}{clientID}
	}
	return "client_id = $1 AND doc_name = $2", []interface{}{clientID, docName}
}
