package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
)

const jobColumns = `id, recruiter_id, title, company, description, location, job_type, skills, salary, status, application_deadline, application_count, view_count, bookmark_count, created_at, updated_at`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, recruiter_id, title, company, description, location, job_type, skills, salary, status, application_deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		j.ID, j.RecruiterID, j.Title, j.Company, j.Description, j.Location, j.Type, pq.Array(j.Skills), j.Salary, j.Status, j.ApplicationDeadline, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &j, nil
}

// Update never touches the counters; they only move through the dedicated methods.
func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	j.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, company = $2, description = $3, location = $4, job_type = $5, skills = $6, salary = $7, status = $8, application_deadline = $9, updated_at = $10
		WHERE id = $11 AND recruiter_id = $12`,
		j.Title, j.Company, j.Description, j.Location, j.Type, pq.Array(j.Skills), j.Salary, j.Status, j.ApplicationDeadline, j.UpdatedAt, j.ID, j.RecruiterID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	if rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return &j, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return j, nil
}

func (r *JobRepository) ListActive(ctx context.Context, limit, offset int) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, job.StatusActive, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC`, recruiterID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list recruiter jobs", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) IncrementApplicationCount(ctx context.Context, id common.UUID) error {
	return r.bump(ctx, `UPDATE jobs SET application_count = application_count + 1 WHERE id = $1`, id)
}

func (r *JobRepository) IncrementViewCount(ctx context.Context, id common.UUID) error {
	return r.bump(ctx, `UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`, id)
}

func (r *JobRepository) AddBookmarkCount(ctx context.Context, id common.UUID, delta int) error {
	return r.bump(ctx, `UPDATE jobs SET bookmark_count = GREATEST(bookmark_count + $2, 0) WHERE id = $1`, id, delta)
}

func (r *JobRepository) bump(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update job counters", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update job counters", err)
	}
	if rows == 0 {
		return common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return nil
}

func (r *JobRepository) RecomputeCounters(ctx context.Context, id common.UUID) (*job.Counters, error) {
	var counters job.Counters
	err := r.db.QueryRowContext(ctx, `UPDATE jobs SET
			application_count = (SELECT count(*) FROM applications WHERE job_id = $1),
			bookmark_count = (SELECT count(*) FROM bookmarks WHERE job_id = $1)
		WHERE id = $1
		RETURNING application_count, view_count, bookmark_count`, id).
		Scan(&counters.ApplicationCount, &counters.ViewCount, &counters.BookmarkCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to recompute job counters", err)
	}
	return &counters, nil
}

func collectJobs(rows *sql.Rows) ([]job.Job, error) {
	defer rows.Close()
	items := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	return items, nil
}

func scanJob(scanner rowScanner) (*job.Job, error) {
	var j job.Job
	var deadline sql.NullTime
	if err := scanner.Scan(&j.ID, &j.RecruiterID, &j.Title, &j.Company, &j.Description, &j.Location, &j.Type,
		pq.Array(&j.Skills), &j.Salary, &j.Status, &deadline, &j.ApplicationCount, &j.ViewCount, &j.BookmarkCount,
		&j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	if deadline.Valid {
		at := deadline.Time
		j.ApplicationDeadline = &at
	}
	return &j, nil
}

var (
	_ job.Repository         = (*JobRepository)(nil)
	_ job.BookmarkRepository = (*BookmarkRepository)(nil)
)
