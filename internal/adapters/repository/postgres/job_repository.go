package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/jobboard-api/internal/core/job"
	pgdb "github.com/ogurasousui/jobboard-api/internal/platform/db/postgres"
)

const jobForeignKeyViolationCode = "23503"

// JobRepository は PostgreSQL を利用した求人永続化の実装です。
type JobRepository struct {
	pool pgdb.Queryer
}

// NewJobRepository は JobRepository を生成します。
func NewJobRepository(pool pgdb.Queryer) *JobRepository {
	return &JobRepository{pool: pool}
}

// Create は求人を新規作成します。存在しない会社を参照している場合は
// ErrCompanyNotFound を返します。
func (r *JobRepository) Create(ctx context.Context, j *job.Job) (*job.Job, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO jobs (title, salary, equity, company_handle)
        VALUES ($1, $2, $3, $4)
        RETURNING id, title, salary, equity::text, company_handle
    `, j.Title, nullableInt(j.Salary), nullableString(j.Equity), j.CompanyHandle)

	created, err := scanJob(row)
	if err != nil {
		return nil, translateJobPgError(err)
	}
	return created, nil
}

// List はフィルタ条件に一致する求人の一覧をタイトル順で取得します。
// 会社名を companies との結合で補完します。
func (r *JobRepository) List(ctx context.Context, filter job.ListFilter) ([]*job.Listing, error) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 3)

	if filter.Title != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "j.title ILIKE "+placeholder)
		args = append(args, "%"+*filter.Title+"%")
	}
	if filter.MinSalary != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "j.salary >= "+placeholder)
		args = append(args, *filter.MinSalary)
	}
	if filter.HasEquity {
		conditions = append(conditions, "j.equity > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT j.id, j.title, j.salary, j.equity::text, j.company_handle, c.name
          FROM jobs j
          LEFT JOIN companies c ON c.handle = j.company_handle` + whereClause + `
         ORDER BY j.title
    `

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateJobPgError(err)
	}
	defer rows.Close()

	var listings []*job.Listing
	for rows.Next() {
		var (
			id            int64
			title         string
			salary        sql.NullInt64
			equity        sql.NullString
			companyHandle string
			companyName   sql.NullString
		)
		if err := rows.Scan(&id, &title, &salary, &equity, &companyHandle, &companyName); err != nil {
			return nil, translateJobPgError(err)
		}

		listing := &job.Listing{
			Job: job.Job{ID: id, Title: title, CompanyHandle: companyHandle},
		}
		if salary.Valid {
			value := int(salary.Int64)
			listing.Salary = &value
		}
		if equity.Valid {
			value := equity.String
			listing.Equity = &value
		}
		if companyName.Valid {
			listing.CompanyName = companyName.String
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, translateJobPgError(err)
	}

	return listings, nil
}

// FindByID は ID で求人を取得します。
func (r *JobRepository) FindByID(ctx context.Context, id int64) (*job.Job, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, title, salary, equity::text, company_handle
          FROM jobs
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanJob(row)
	if err != nil {
		return nil, translateJobPgError(err)
	}
	return found, nil
}

// FindCompany は求人が参照する会社の概要を取得します。
func (r *JobRepository) FindCompany(ctx context.Context, handle string) (*job.CompanySnapshot, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT handle, name, description, num_employees, logo_url
          FROM companies
         WHERE handle = $1
         LIMIT 1
    `, handle)

	var (
		snapshotHandle string
		name           string
		description    sql.NullString
		numEmployees   sql.NullInt64
		logoURL        sql.NullString
	)
	if err := row.Scan(&snapshotHandle, &name, &description, &numEmployees, &logoURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, job.ErrCompanyNotFound
		}
		return nil, err
	}

	snapshot := &job.CompanySnapshot{Handle: snapshotHandle, Name: name}
	if description.Valid {
		snapshot.Description = description.String
	}
	if numEmployees.Valid {
		value := int(numEmployees.Int64)
		snapshot.NumEmployees = &value
	}
	if logoURL.Valid {
		value := logoURL.String
		snapshot.LogoURL = &value
	}
	return snapshot, nil
}

// Update は指定されたフィールドのみを部分更新します。
func (r *JobRepository) Update(ctx context.Context, id int64, input job.UpdateInput) (*job.Job, error) {
	assignments := make([]pgdb.Assignment, 0, 3)
	if input.Title != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "title", Value: *input.Title})
	}
	if input.Salary != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "salary", Value: *input.Salary})
	}
	if input.Equity != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "equity", Value: *input.Equity})
	}

	setClause, args, err := pgdb.BuildSetClause(assignments, nil)
	if err != nil {
		if errors.Is(err, pgdb.ErrEmptyUpdate) {
			return nil, job.ErrNoUpdateFields
		}
		return nil, err
	}

	idPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, id)

	row := r.pool.QueryRow(ctx, `
        UPDATE jobs
           SET `+setClause+`
         WHERE id = `+idPlaceholder+`
        RETURNING id, title, salary, equity::text, company_handle
    `, args...)

	updated, err := scanJob(row)
	if err != nil {
		return nil, translateJobPgError(err)
	}
	return updated, nil
}

// Delete は求人を削除します。
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return translateJobPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*job.Job, error) {
	var (
		id            int64
		title         string
		salary        sql.NullInt64
		equity        sql.NullString
		companyHandle string
	)

	if err := row.Scan(&id, &title, &salary, &equity, &companyHandle); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, job.ErrJobNotFound
		}
		return nil, err
	}

	found := &job.Job{ID: id, Title: title, CompanyHandle: companyHandle}
	if salary.Valid {
		value := int(salary.Int64)
		found.Salary = &value
	}
	if equity.Valid {
		value := equity.String
		found.Equity = &value
	}
	return found, nil
}

func translateJobPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == jobForeignKeyViolationCode {
			return job.ErrCompanyNotFound
		}
	}
	return err
}
