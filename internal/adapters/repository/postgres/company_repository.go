package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/jobboard-api/internal/core/company"
	pgdb "github.com/ogurasousui/jobboard-api/internal/platform/db/postgres"
)

const companyUniqueViolationCode = "23505"

// companyUpdateColumns は更新入力のフィールド名と列名の対応表です。
var companyUpdateColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

// CompanyRepository は PostgreSQL を利用した会社永続化の実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create は会社を新規作成します。handle が重複している場合は
// ErrHandleAlreadyExists を返します。
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO companies (handle, name, description, num_employees, logo_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING handle, name, description, num_employees, logo_url
    `, c.Handle, c.Name, c.Description, nullableInt(c.NumEmployees), nullableString(c.LogoURL))

	created, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return created, nil
}

// List はフィルタ条件に一致する会社の一覧を名前順で取得します。
func (r *CompanyRepository) List(ctx context.Context, filter company.ListFilter) ([]*company.Company, error) {
	args := make([]any, 0, 3)
	conditions := make([]string, 0, 3)

	if filter.Name != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "name ILIKE "+placeholder)
		args = append(args, "%"+*filter.Name+"%")
	}
	if filter.MinEmployees != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "num_employees >= "+placeholder)
		args = append(args, *filter.MinEmployees)
	}
	if filter.MaxEmployees != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "num_employees <= "+placeholder)
		args = append(args, *filter.MaxEmployees)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT handle, name, description, num_employees, logo_url
          FROM companies` + whereClause + `
         ORDER BY name
    `

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	defer rows.Close()

	var companies []*company.Company
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, translateCompanyPgError(err)
		}
		companies = append(companies, found)
	}

	if err := rows.Err(); err != nil {
		return nil, translateCompanyPgError(err)
	}

	return companies, nil
}

// FindByHandle は handle で会社を取得します。
func (r *CompanyRepository) FindByHandle(ctx context.Context, handle string) (*company.Company, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT handle, name, description, num_employees, logo_url
          FROM companies
         WHERE handle = $1
         LIMIT 1
    `, handle)

	found, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// ListJobs は会社に紐づく求人の一覧を ID 順で取得します。
func (r *CompanyRepository) ListJobs(ctx context.Context, handle string) ([]company.JobSummary, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, title, salary, equity::text
          FROM jobs
         WHERE company_handle = $1
         ORDER BY id
    `, handle)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	defer rows.Close()

	var jobs []company.JobSummary
	for rows.Next() {
		var (
			id     int64
			title  string
			salary sql.NullInt64
			equity sql.NullString
		)
		if err := rows.Scan(&id, &title, &salary, &equity); err != nil {
			return nil, translateCompanyPgError(err)
		}

		summary := company.JobSummary{ID: id, Title: title}
		if salary.Valid {
			value := int(salary.Int64)
			summary.Salary = &value
		}
		if equity.Valid {
			value := equity.String
			summary.Equity = &value
		}
		jobs = append(jobs, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, translateCompanyPgError(err)
	}

	return jobs, nil
}

// Update は指定されたフィールドのみを部分更新します。
func (r *CompanyRepository) Update(ctx context.Context, handle string, input company.UpdateInput) (*company.Company, error) {
	assignments := make([]pgdb.Assignment, 0, 4)
	if input.Name != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "name", Value: *input.Name})
	}
	if input.Description != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "description", Value: *input.Description})
	}
	if input.NumEmployees != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "numEmployees", Value: *input.NumEmployees})
	}
	if input.LogoURL != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "logoUrl", Value: *input.LogoURL})
	}

	setClause, args, err := pgdb.BuildSetClause(assignments, companyUpdateColumns)
	if err != nil {
		if errors.Is(err, pgdb.ErrEmptyUpdate) {
			return nil, company.ErrNoUpdateFields
		}
		return nil, err
	}

	handlePlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, handle)

	row := r.pool.QueryRow(ctx, `
        UPDATE companies
           SET `+setClause+`
         WHERE handle = `+handlePlaceholder+`
        RETURNING handle, name, description, num_employees, logo_url
    `, args...)

	updated, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return updated, nil
}

// Delete は会社を削除します。
func (r *CompanyRepository) Delete(ctx context.Context, handle string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE handle = $1`, handle)
	if err != nil {
		return translateCompanyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		handle       string
		name         string
		description  sql.NullString
		numEmployees sql.NullInt64
		logoURL      sql.NullString
	)

	if err := row.Scan(&handle, &name, &description, &numEmployees, &logoURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	found := &company.Company{
		Handle: handle,
		Name:   name,
	}
	if description.Valid {
		found.Description = description.String
	}
	if numEmployees.Valid {
		value := int(numEmployees.Int64)
		found.NumEmployees = &value
	}
	if logoURL.Valid {
		value := logoURL.String
		found.LogoURL = &value
	}
	return found, nil
}

func translateCompanyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == companyUniqueViolationCode {
			return company.ErrHandleAlreadyExists
		}
	}
	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
