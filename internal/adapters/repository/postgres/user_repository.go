package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
	pgdb "github.com/ogurasousui/jobboard-api/internal/platform/db/postgres"
)

const userUniqueViolationCode = "23505"

// userUpdateColumns は更新入力のフィールド名と列名の対応表です。
var userUpdateColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

// UserRepository は PostgreSQL を利用したユーザー永続化の実装です。
type UserRepository struct {
	pool pgdb.Queryer
}

// NewUserRepository は UserRepository を生成します。
func NewUserRepository(pool pgdb.Queryer) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create はユーザーを新規作成します。username が重複している場合は
// ErrUsernameAlreadyExists を返します。
func (r *UserRepository) Create(ctx context.Context, u *user.User, passwordHash string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (username, password, first_name, last_name, email, is_admin)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING username, first_name, last_name, email, is_admin
    `, u.Username, passwordHash, u.FirstName, u.LastName, u.Email, u.IsAdmin)

	created, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return created, nil
}

// List はユーザーの一覧を username 順で取得します。
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT username, first_name, last_name, email, is_admin
          FROM users
         ORDER BY username
    `)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		found, err := scanUser(rows)
		if err != nil {
			return nil, translateUserPgError(err)
		}
		users = append(users, found)
	}

	if err := rows.Err(); err != nil {
		return nil, translateUserPgError(err)
	}

	return users, nil
}

// FindByUsername は username でユーザーを取得します。
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT username, first_name, last_name, email, is_admin
          FROM users
         WHERE username = $1
         LIMIT 1
    `, username)

	found, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return found, nil
}

// CredentialsByUsername は認証に必要なパスワードハッシュを含めて取得します。
func (r *UserRepository) CredentialsByUsername(ctx context.Context, username string) (*user.Credentials, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT username, password, first_name, last_name, email, is_admin
          FROM users
         WHERE username = $1
         LIMIT 1
    `, username)

	var creds user.Credentials
	if err := row.Scan(&creds.Username, &creds.PasswordHash, &creds.FirstName, &creds.LastName, &creds.Email, &creds.IsAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, translateUserPgError(err)
	}
	return &creds, nil
}

// ListAppliedJobIDs はユーザーが応募した求人 ID の一覧を取得します。
func (r *UserRepository) ListAppliedJobIDs(ctx context.Context, username string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT job_id
          FROM applications
         WHERE username = $1
         ORDER BY job_id
    `, username)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	defer rows.Close()

	var jobIDs []int64
	for rows.Next() {
		var jobID int64
		if err := rows.Scan(&jobID); err != nil {
			return nil, translateUserPgError(err)
		}
		jobIDs = append(jobIDs, jobID)
	}

	if err := rows.Err(); err != nil {
		return nil, translateUserPgError(err)
	}

	return jobIDs, nil
}

// Update は指定されたフィールドのみを部分更新します。
func (r *UserRepository) Update(ctx context.Context, username string, fields user.UpdateFields) (*user.User, error) {
	assignments := make([]pgdb.Assignment, 0, 5)
	if fields.FirstName != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "firstName", Value: *fields.FirstName})
	}
	if fields.LastName != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "lastName", Value: *fields.LastName})
	}
	if fields.Email != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "email", Value: *fields.Email})
	}
	if fields.PasswordHash != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "password", Value: *fields.PasswordHash})
	}
	if fields.IsAdmin != nil {
		assignments = append(assignments, pgdb.Assignment{Field: "isAdmin", Value: *fields.IsAdmin})
	}

	setClause, args, err := pgdb.BuildSetClause(assignments, userUpdateColumns)
	if err != nil {
		if errors.Is(err, pgdb.ErrEmptyUpdate) {
			return nil, user.ErrNoUpdateFields
		}
		return nil, err
	}

	usernamePlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, username)

	row := r.pool.QueryRow(ctx, `
        UPDATE users
           SET `+setClause+`
         WHERE username = `+usernamePlaceholder+`
        RETURNING username, first_name, last_name, email, is_admin
    `, args...)

	updated, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return updated, nil
}

// Delete はユーザーを削除します。
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return translateUserPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Apply はユーザーの求人への応募を記録します。ユーザー・求人の不存在と
// 重複応募はそれぞれ専用のエラーで区別されます。
func (r *UserRepository) Apply(ctx context.Context, username string, jobID int64) (*user.Application, error) {
	var found string
	if err := r.pool.QueryRow(ctx, `SELECT username FROM users WHERE username = $1`, username).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, translateUserPgError(err)
	}

	var foundJob int64
	if err := r.pool.QueryRow(ctx, `SELECT id FROM jobs WHERE id = $1`, jobID).Scan(&foundJob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrJobNotFound
		}
		return nil, translateUserPgError(err)
	}

	var application user.Application
	row := r.pool.QueryRow(ctx, `
        INSERT INTO applications (username, job_id)
        VALUES ($1, $2)
        RETURNING username, job_id
    `, username, jobID)
	if err := row.Scan(&application.Username, &application.JobID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == userUniqueViolationCode {
			return nil, user.ErrAlreadyApplied
		}
		return nil, err
	}
	return &application, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var found user.User
	if err := row.Scan(&found.Username, &found.FirstName, &found.LastName, &found.Email, &found.IsAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &found, nil
}

func translateUserPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == userUniqueViolationCode {
			return user.ErrUsernameAlreadyExists
		}
	}
	return err
}
