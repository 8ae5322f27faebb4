package candidates

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetByIDDecodesAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	uploadedAt := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	analysisJSON := `{"overallScore":8,"summary":"Good","extractedInfo":{"name":"Jane","email":"jane@example.com","phone":"","skills":["Go"],"education":[],"experience":[],"yearsOfExperience":5},"criteria":[{"criterion":"Go","score":8,"met":"true","evidence":"5 years"}],"redFlags":[],"analyzedAt":"2026-08-01T10:05:00Z"}`

	rows := sqlmock.NewRows([]string{"id", "job_id", "full_name", "email", "phone", "cv_file_name", "cv_file_key", "status", "uploaded_at", "analysis"}).
		AddRow("cand-1", 1, "Jane", "jane@example.com", "", "cv.pdf", "cvs/1/abc_cv.pdf", StatusPending, uploadedAt, analysisJSON)

	mock.ExpectQuery("SELECT id, job_id, full_name").
		WithArgs("cand-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "cand-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Analysis == nil || got.Analysis.OverallScore != 8 {
		t.Fatalf("expected decoded analysis, got %+v", got.Analysis)
	}
	if got.Analysis.Criteria[0].Met != MetTrue {
		t.Fatalf("unexpected met value: %s", got.Analysis.Criteria[0].Met)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, job_id, full_name").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSetStatusReportsMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE candidates SET status = $2 WHERE id = $1`)).
		WithArgs("cand-1", StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SetStatus(context.Background(), "cand-1", StatusApproved)
	if err != nil || !ok {
		t.Fatalf("expected ok=true err=nil, got ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE candidates SET status = $2 WHERE id = $1`)).
		WithArgs("missing", StatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.SetStatus(context.Background(), "missing", StatusApproved)
	if err != nil || ok {
		t.Fatalf("expected ok=false err=nil, got ok=%v err=%v", ok, err)
	}
}

func TestPGRepoSetAnalysisWritesSingleColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE candidates SET analysis = $2 WHERE id = $1`)).
		WithArgs("cand-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	analysis := Analysis{OverallScore: 5, Summary: "ok", AnalyzedAt: time.Now().UTC()}
	ok, err := repo.SetAnalysis(context.Background(), "cand-1", analysis)
	if err != nil || !ok {
		t.Fatalf("expected ok=true err=nil, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoListByJobAppendsStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	uploadedAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "job_id", "full_name", "email", "phone", "cv_file_name", "cv_file_key", "status", "uploaded_at", "analysis"}).
		AddRow("cand-2", 1, "A", "a@example.com", "", "a.pdf", "cvs/1/a.pdf", StatusPending, uploadedAt, nil)

	mock.ExpectQuery("AND status = \\$2").
		WithArgs(1, StatusPending).
		WillReturnRows(rows)

	list, err := repo.ListByJob(context.Background(), 1, StatusPending)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Analysis != nil {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	c := Candidate{
		ID:         "cand-9",
		JobID:      3,
		FullName:   "B",
		Email:      "b@example.com",
		CVFileName: "b.pdf",
		CVFileKey:  "cvs/3/b.pdf",
		Status:     StatusPending,
		UploadedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO candidates").
		WithArgs(c.ID, c.JobID, c.FullName, c.Email, c.Phone, c.CVFileName, c.CVFileKey, c.Status, c.UploadedAt, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
