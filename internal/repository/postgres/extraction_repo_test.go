package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxextract/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func sampleRows() []domain.Extraction {
	return []domain.Extraction{
		{
			ClientID: "client-1", DocURL: "https://bucket/client-1/w2.pdf", DocName: "w2.pdf",
			DocType: domain.FormTypeW2, FieldName: "Employee_Name",
			FieldValue: strPtr("JANE DOE"), Confidence: floatPtr(0.96), AccessID: "acc-1",
		},
		{
			ClientID: "client-1", DocURL: "https://bucket/client-1/w2.pdf", DocName: "w2.pdf",
			DocType: domain.FormTypeW2, FieldName: "TaxYear",
			FieldValue: nil, Confidence: nil, AccessID: "acc-1",
		},
	}
}

func TestExtractionRepo_InsertFields_CommitsAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExtractionRepo(db)

	id1, id2 := uuid.New(), uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO document_extractions").
		WithArgs(sqlmock.AnyArg(), "client-1", "https://bucket/client-1/w2.pdf", "w2.pdf", "extracted", "W-2",
			0, "Employee_Name", "JANE DOE", 0.96, "acc-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id1.String()))
	mock.ExpectQuery("INSERT INTO document_extractions").
		WithArgs(sqlmock.AnyArg(), "client-1", "https://bucket/client-1/w2.pdf", "w2.pdf", "extracted", "W-2",
			0, "TaxYear", nil, nil, "acc-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id2.String()))
	mock.ExpectCommit()

	ids, err := repo.InsertFields(context.Background(), sampleRows())

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id1, id2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractionRepo_InsertFields_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExtractionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO document_extractions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery("INSERT INTO document_extractions").
		WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	ids, err := repo.InsertFields(context.Background(), sampleRows())

	assert.Nil(t, ids)
	assert.ErrorContains(t, err, "TaxYear")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractionRepo_InsertFields_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExtractionRepo(db)

	ids, err := repo.InsertFields(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractionRepo_ListByClient_FiltersByDocument(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExtractionRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM document_extractions WHERE client_id = \$1 AND doc_name = \$2`).
		WithArgs("client-1", "w2.pdf").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM document_extractions WHERE client_id = \$1 AND doc_name = \$2`).
		WithArgs("client-1", "w2.pdf", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "doc_name", "field_name", "field_value"}).
			AddRow(uuid.New().String(), "client-1", "w2.pdf", "TaxYear", "2023"))

	rows, total, err := repo.ListByClient(context.Background(), "client-1", "w2.pdf", 0, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "TaxYear", rows[0].FieldName)
	assert.Equal(t, "2023", *rows[0].FieldValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractionRepo_ListForExport_AllDocuments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExtractionRepo(db)

	mock.ExpectQuery(`SELECT \* FROM document_extractions WHERE client_id = \$1\s+ORDER BY doc_name`).
		WithArgs("client-1").
		WillReturnRows(sqlmock.NewRows([]string{"field_name"}).AddRow("TaxYear").AddRow("Employee_Name"))

	rows, err := repo.ListForExport(context.Background(), "client-1", "")

	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractionRepo_DeleteByDocument(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExtractionRepo(db)

	mock.ExpectExec("DELETE FROM document_extractions").
		WithArgs("client-1", "w2.pdf").
		WillReturnResult(sqlmock.NewResult(0, 14))

	n, err := repo.DeleteByDocument(context.Background(), "client-1", "w2.pdf")

	require.NoError(t, err)
	assert.Equal(t, int64(14), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
