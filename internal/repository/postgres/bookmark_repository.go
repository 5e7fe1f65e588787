package postgres

import (
	"context"
	"database/sql"
	"time"

	"jobboard/internal/common"
)

type BookmarkRepository struct {
	db *sql.DB
}

func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) Add(ctx context.Context, jobID, studentID common.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO bookmarks (job_id, student_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (job_id, student_id) DO NOTHING`, jobID, studentID, time.Now().UTC())
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to add bookmark", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to add bookmark", err)
	}
	return rows > 0, nil
}

func (r *BookmarkRepository) Remove(ctx context.Context, jobID, studentID common.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE job_id = $1 AND student_id = $2`, jobID, studentID)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to remove bookmark", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to remove bookmark", err)
	}
	return rows > 0, nil
}

func (r *BookmarkRepository) CountByJob(ctx context.Context, jobID common.UUID) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookmarks WHERE job_id = $1`, jobID).Scan(&total); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count bookmarks", err)
	}
	return total, nil
}
