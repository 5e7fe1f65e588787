package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gocraft/dbr/v2"
	"github.com/gocraft/dbr/v2/dialect"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
)

const applicationColumns = `id, job_id, student_id, recruiter_id, status, cover_letter, resume, answers, notes, timeline, interview, feedback, created_at, updated_at, version`

type ApplicationRepository struct {
	db   *sql.DB
	sess *dbr.Session
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	conn := &dbr.Connection{DB: db, Dialect: dialect.PostgreSQL, EventReceiver: &dbr.NullEventReceiver{}}
	return &ApplicationRepository{db: db, sess: conn.NewSession(nil)}
}

// Create relies on the unique (job_id, student_id) index; a concurrent
// duplicate comes back as CodeConflict.
func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	app.Version = 1
	doc, err := encodeDocument(app)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.JobID, app.StudentID, app.RecruiterID, app.Status, app.CoverLetter,
		doc.resume, doc.answers, doc.notes, doc.timeline, doc.interview, doc.feedback,
		app.CreatedAt, app.UpdatedAt, app.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "already applied", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

// Update writes the mutable part of the record. Status and timeline are always
// written together, and only over the version the caller read; a record that
// moved on since comes back as CodeConflict.
func (r *ApplicationRepository) Update(ctx context.Context, app application.Application) (*application.Application, error) {
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = time.Now().UTC()
	}
	doc, err := encodeDocument(app)
	if err != nil {
		return nil, err
	}
	result, err := r.db.ExecContext(ctx, `UPDATE applications
		SET status = $1, notes = $2, timeline = $3, interview = $4, feedback = $5, updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8`,
		app.Status, doc.notes, doc.timeline, doc.interview, doc.feedback, app.UpdatedAt, app.ID, app.Version)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	if rows == 0 {
		return nil, r.missingOrStale(ctx, app.ID)
	}
	app.Version++
	return &app, nil
}

func (r *ApplicationRepository) missingOrStale(ctx context.Context, id common.UUID) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return common.NewError(common.CodeInternal, "failed to update application", err)
	}
	if !exists {
		return common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return common.NewError(common.CodeConflict, "application was changed by another request", nil)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) FindByJobAndStudent(ctx context.Context, jobID, studentID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND student_id = $2`, jobID, studentID)
	return scanApplication(row)
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter, limit, offset int) ([]application.Application, int, error) {
	var total int
	countStmt := applyFilter(r.sess.Select("count(*)").From("applications"), filter)
	if _, err := countStmt.LoadContext(ctx, &total); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	var rows []applicationRow
	stmt := applyFilter(r.sess.Select(applicationColumns).From("applications"), filter).
		OrderDesc("created_at").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if _, err := stmt.LoadContext(ctx, &rows); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	items := make([]application.Application, 0, len(rows))
	for _, row := range rows {
		app, err := row.decode()
		if err != nil {
			return nil, 0, err
		}
		items = append(items, app)
	}
	return items, total, nil
}

type statusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context, recruiterID common.UUID) (map[application.Status]int, error) {
	stmt := r.sess.Select("status", "count(*) AS total").From("applications").GroupBy("status")
	if !recruiterID.IsZero() {
		stmt = stmt.Where(dbr.Eq("recruiter_id", recruiterID.String()))
	}
	var rows []statusCount
	if _, err := stmt.LoadContext(ctx, &rows); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	counts := make(map[application.Status]int, len(rows))
	for _, row := range rows {
		counts[application.Status(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *ApplicationRepository) CountByJob(ctx context.Context, jobID common.UUID) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE job_id = $1`, jobID).Scan(&total); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	return total, nil
}

func applyFilter(stmt *dbr.SelectStmt, filter application.Filter) *dbr.SelectStmt {
	if !filter.StudentID.IsZero() {
		stmt = stmt.Where(dbr.Eq("student_id", filter.StudentID.String()))
	}
	if !filter.RecruiterID.IsZero() {
		stmt = stmt.Where(dbr.Eq("recruiter_id", filter.RecruiterID.String()))
	}
	if !filter.JobID.IsZero() {
		stmt = stmt.Where(dbr.Eq("job_id", filter.JobID.String()))
	}
	if filter.Status != "" {
		stmt = stmt.Where(dbr.Eq("status", string(filter.Status)))
	}
	return stmt
}

type rowScanner interface {
	Scan(dest ...any) error
}

// applicationRow is the column layout shared by the database/sql and dbr read paths.
type applicationRow struct {
	ID          string    `db:"id"`
	JobID       string    `db:"job_id"`
	StudentID   string    `db:"student_id"`
	RecruiterID string    `db:"recruiter_id"`
	Status      string    `db:"status"`
	CoverLetter string    `db:"cover_letter"`
	Resume      []byte    `db:"resume"`
	Answers     []byte    `db:"answers"`
	Notes       []byte    `db:"notes"`
	Timeline    []byte    `db:"timeline"`
	Interview   []byte    `db:"interview"`
	Feedback    []byte    `db:"feedback"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Version     int       `db:"version"`
}

func scanApplication(scanner rowScanner) (*application.Application, error) {
	var row applicationRow
	err := scanner.Scan(&row.ID, &row.JobID, &row.StudentID, &row.RecruiterID, &row.Status, &row.CoverLetter,
		&row.Resume, &row.Answers, &row.Notes, &row.Timeline, &row.Interview, &row.Feedback,
		&row.CreatedAt, &row.UpdatedAt, &row.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	app, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (row applicationRow) decode() (application.Application, error) {
	app := application.Application{
		ID:          common.UUID(row.ID),
		JobID:       common.UUID(row.JobID),
		StudentID:   common.UUID(row.StudentID),
		RecruiterID: common.UUID(row.RecruiterID),
		Status:      application.Status(row.Status),
		CoverLetter: row.CoverLetter,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Version:     row.Version,
	}
	fields := []struct {
		raw  []byte
		dest any
	}{
		{row.Resume, &app.Resume},
		{row.Answers, &app.Answers},
		{row.Notes, &app.Notes},
		{row.Timeline, &app.Timeline},
		{row.Interview, &app.Interview},
		{row.Feedback, &app.Feedback},
	}
	for _, field := range fields {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return application.Application{}, common.NewError(common.CodeInternal, "failed to decode application", err)
		}
	}
	if app.Answers == nil {
		app.Answers = []application.Answer{}
	}
	return app, nil
}

type applicationDocument struct {
	resume    []byte
	answers   []byte
	notes     []byte
	timeline  []byte
	interview []byte
	feedback  []byte
}

func encodeDocument(app application.Application) (applicationDocument, error) {
	var doc applicationDocument
	var err error
	if app.Answers == nil {
		app.Answers = []application.Answer{}
	}
	if doc.answers, err = json.Marshal(app.Answers); err != nil {
		return doc, common.NewError(common.CodeInternal, "failed to encode answers", err)
	}
	if doc.notes, err = json.Marshal(app.Notes); err != nil {
		return doc, common.NewError(common.CodeInternal, "failed to encode notes", err)
	}
	if doc.timeline, err = json.Marshal(app.Timeline); err != nil {
		return doc, common.NewError(common.CodeInternal, "failed to encode timeline", err)
	}
	if app.Resume != nil {
		if doc.resume, err = json.Marshal(app.Resume); err != nil {
			return doc, common.NewError(common.CodeInternal, "failed to encode resume", err)
		}
	}
	if app.Interview != nil {
		if doc.interview, err = json.Marshal(app.Interview); err != nil {
			return doc, common.NewError(common.CodeInternal, "failed to encode interview", err)
		}
	}
	if app.Feedback != nil {
		if doc.feedback, err = json.Marshal(app.Feedback); err != nil {
			return doc, common.NewError(common.CodeInternal, "failed to encode feedback", err)
		}
	}
	return doc, nil
}

var _ application.Repository = (*ApplicationRepository)(nil)
