package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/internal/repository"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
	"github.com/noah-isme/respub-api/pkg/jobs"
)

type mockReportStore struct {
	jobs map[string]*models.ReportJob
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{jobs: make(map[string]*models.ReportJob)}
}

func (m *mockReportStore) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = "job-1"
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *mockReportStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (m *mockReportStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.ResultPath != nil {
		job.ResultPath = params.ResultPath
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *mockReportStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var out []models.ReportJob
	for _, job := range m.jobs {
		if job.Status == models.ReportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *mockReportStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type mockQueue struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockQueue) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

type fakeGenerator struct {
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ExportResult{RelPath: "reports/" + job.ID + ".csv"}, nil
}

func TestReportServiceCreateJobCarriesScope(t *testing.T) {
	store := newMockReportStore()
	queue := &mockQueue{}
	svc := NewReportService(store, queue, nil, zap.NewNop(), ReportServiceConfig{})

	scope := models.Scope{College: "SRM Engineering College", Category: "Engineering"}
	status, err := svc.CreateJob(context.Background(), scope, ReportRequest{Format: models.ReportFormatCSV, Year: "2024"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, status.Status)
	require.Len(t, queue.enqueued, 1)

	job := store.jobs[status.ID]
	assert.Equal(t, "SRM Engineering College", job.Params.College)
	assert.Equal(t, "2024", job.Params.Year)
	assert.Equal(t, "user-1", job.CreatedBy)
}

func TestReportServiceCreateJobRejectsUnknownFormat(t *testing.T) {
	svc := NewReportService(newMockReportStore(), &mockQueue{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), models.Scope{}, ReportRequest{Format: "xlsx"}, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	store := newMockReportStore()
	svc := NewReportService(store, &mockQueue{err: errors.New("queue down")}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), models.Scope{}, ReportRequest{Format: models.ReportFormatCSV}, "user-1")
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusFailed, store.jobs["job-1"].Status)
}

func TestReportServiceGetStatusOwnership(t *testing.T) {
	store := newMockReportStore()
	require.NoError(t, store.Create(context.Background(), &models.ReportJob{
		ID: "job-1", Status: models.ReportStatusProcessing, CreatedBy: "owner",
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	}))
	svc := NewReportService(store, &mockQueue{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.GetStatus(context.Background(), "job-1", "intruder", models.RoleUser)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	status, err := svc.GetStatus(context.Background(), "job-1", "owner", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusProcessing, status.Status)

	// Admins can inspect any job.
	_, err = svc.GetStatus(context.Background(), "job-1", "someone", models.RoleAdmin)
	require.NoError(t, err)
}

func TestReportWorkerHandleSuccess(t *testing.T) {
	store := newMockReportStore()
	require.NoError(t, store.Create(context.Background(), &models.ReportJob{
		ID: "job-1", Status: models.ReportStatusQueued,
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	}))
	worker := NewReportWorker(store, &fakeGenerator{}, nil, 3, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "q1", ReportID: "job-1"}))
	job := store.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	require.NotNil(t, job.ResultPath)
	assert.Equal(t, "reports/job-1.csv", *job.ResultPath)
	assert.NotNil(t, job.FinishedAt)
}

func TestReportWorkerHandleFailureRetriesThenFails(t *testing.T) {
	store := newMockReportStore()
	require.NoError(t, store.Create(context.Background(), &models.ReportJob{
		ID: "job-1", Status: models.ReportStatusQueued,
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	}))
	worker := NewReportWorker(store, &fakeGenerator{err: errors.New("render failed")}, nil, 2, zap.NewNop())

	// Below the retry ceiling the job goes back to queued.
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ReportID: "job-1", Attempt: 0}))
	assert.Equal(t, models.ReportStatusQueued, store.jobs["job-1"].Status)

	// At the ceiling it is terminally failed.
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ReportID: "job-1", Attempt: 2}))
	assert.Equal(t, models.ReportStatusFailed, store.jobs["job-1"].Status)
	require.NotNil(t, store.jobs["job-1"].ErrorMessage)
	assert.Equal(t, "render failed", *store.jobs["job-1"].ErrorMessage)
}
