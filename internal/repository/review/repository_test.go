package review

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

var reviewColumns = []string{
	"id", "product_id", "user_id", "rating", "comment", "is_fake", "confidence_score", "created_at", "name",
}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return New(db), mock, func() { _ = db.Close() }
}

func sampleReview(t *testing.T) domrev.Review {
	t.Helper()
	v, err := verdict.New(verdict.Fake, 0.91)
	if err != nil {
		t.Fatalf("verdict.New: %v", err)
	}
	rv, err := domrev.New(uuid.New(), uuid.New(), 2, "BUY NOW!!!", v, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("review.New: %v", err)
	}
	return rv
}

func TestInsert_StoresRealVerdict(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()
	rv := sampleReview(t)

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID().String(), rv.ProductID().String(), rv.UserID().String(),
			2, "BUY NOW!!!", true, 0.91, rv.CreatedAt()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Insert(context.Background(), rv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsert_UnknownProductIsNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	err := repo.Insert(context.Background(), sampleReview(t))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsert_ConnectionErrorIsStoreUnavailable(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO reviews").WillReturnError(sql.ErrConnDone)

	err := repo.Insert(context.Background(), sampleReview(t))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestListByProduct(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	productID := uuid.New()
	newer := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows(reviewColumns).
		AddRow(uuid.NewString(), productID.String(), uuid.NewString(), 5, "Works as described.", false, 0.87, newer, "").
		AddRow(uuid.NewString(), productID.String(), uuid.NewString(), 1, "BEST EVER!!!", true, 0.99, older, "")

	mock.ExpectQuery("SELECT r.id, r.product_id").
		WithArgs(productID.String()).
		WillReturnRows(rows)

	got, err := repo.ListByProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(got))
	}
	if got[0].IsFake() || got[0].Verdict().Confidence() != 0.87 {
		t.Errorf("unexpected first review verdict %v", got[0].Verdict())
	}
	if !got[1].IsFake() || got[1].Rating() != 1 {
		t.Errorf("unexpected second review %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByProduct_NullableVerdictColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	productID := uuid.New()
	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(reviewColumns).
		AddRow(uuid.NewString(), productID.String(), uuid.NewString(), 5, "Works as described.", false, 0.87, now, "").
		AddRow(uuid.NewString(), productID.String(), uuid.NewString(), 3, "Legacy row.", true, nil, now, "").
		AddRow(uuid.NewString(), productID.String(), uuid.NewString(), 4, "Imported.", nil, nil, now, "")

	mock.ExpectQuery("SELECT r.id, r.product_id").
		WithArgs(productID.String()).
		WillReturnRows(rows)

	got, err := repo.ListByProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(got))
	}
	if !got[0].Verdict().Scored() || got[0].Verdict().Confidence() != 0.87 {
		t.Errorf("first review verdict = %v", got[0].Verdict())
	}
	if !got[1].IsFake() || got[1].Verdict().Scored() {
		t.Errorf("label-only review: IsFake()=%v Scored()=%v", got[1].IsFake(), got[1].Verdict().Scored())
	}
	if got[2].Classified() {
		t.Errorf("review without is_fake should be unclassified, got %v", got[2].Verdict())
	}

	st := domrev.Count(got)
	if st.Genuine != 1 || st.Fake != 1 || st.Unclassified != 1 {
		t.Errorf("Count() = %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByProduct_Empty(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT r.id").WillReturnRows(sqlmock.NewRows(reviewColumns))

	got, err := repo.ListByProduct(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestListAll_JoinsProductName(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows(reviewColumns).
		AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), 4, "Nice kettle.", false, 0.7, time.Now(), "Kettle")

	mock.ExpectQuery("LEFT JOIN products").WillReturnRows(rows)

	got, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ProductName() != "Kettle" {
		t.Errorf("unexpected reviews %+v", got)
	}
}

func TestListAll_InvalidStoredConfidence(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows(reviewColumns).
		AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), 4, "x", false, 3.5, time.Now(), "Kettle")
	mock.ExpectQuery("LEFT JOIN products").WillReturnRows(rows)

	if _, err := repo.ListAll(context.Background()); err == nil {
		t.Fatal("expected error for out-of-range confidence")
	}
}

func TestListAll_QueryError(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("LEFT JOIN products").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListAll(context.Background())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()
	id := uuid.New()

	mock.ExpectExec("DELETE FROM reviews").
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_MissingIsNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM reviews").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	repo := New(db)

	mock.ExpectPing()
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("down"))
	if err := repo.Ping(context.Background()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
