package job

import (
	"context"
	"strconv"
	"strings"
)

// Service は求人に関するユースケースをまとめます。
type Service struct {
	repo Repository
}

// UseCase は求人ユースケースの公開インターフェースです。
type UseCase interface {
	CreateJob(ctx context.Context, in CreateJobInput) (*Job, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]*Listing, error)
	GetJob(ctx context.Context, id int64) (*Detail, error)
	UpdateJob(ctx context.Context, id int64, in UpdateInput) (*Job, error)
	DeleteJob(ctx context.Context, id int64) error
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateJobInput は求人作成時の入力です。
type CreateJobInput struct {
	Title         string
	Salary        *int
	Equity        *string
	CompanyHandle string
}

// CreateJob は新しい求人を登録します。同一会社に同名の求人が複数あっても
// 重複とはみなしません。
func (s *Service) CreateJob(ctx context.Context, in CreateJobInput) (*Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}

	if strings.TrimSpace(in.CompanyHandle) == "" {
		return nil, ErrCompanyNotFound
	}

	if in.Salary != nil && *in.Salary < 0 {
		return nil, ErrInvalidSalary
	}

	if err := validateEquity(in.Equity); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Job{
		Title:         title,
		Salary:        in.Salary,
		Equity:        in.Equity,
		CompanyHandle: in.CompanyHandle,
	})
}

// ListJobs はフィルタ条件に合致する求人をタイトル昇順で返します。
// フィルタが空の場合は全件が対象です。
func (s *Service) ListJobs(ctx context.Context, filter ListFilter) ([]*Listing, error) {
	if filter.MinSalary != nil && *filter.MinSalary < 0 {
		return nil, ErrInvalidSalary
	}

	return s.repo.List(ctx, filter)
}

// GetJob は ID で求人を取得し、所属会社の情報を付与して返します。
func (s *Service) GetJob(ctx context.Context, id int64) (*Detail, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	companySnapshot, err := s.repo.FindCompany(ctx, found.CompanyHandle)
	if err != nil {
		return nil, err
	}

	return &Detail{Job: *found, Company: *companySnapshot}, nil
}

// UpdateJob は求人を部分更新します。タイトル・給与・持分以外は変更できません。
func (s *Service) UpdateJob(ctx context.Context, id int64, in UpdateInput) (*Job, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	if in.Title == nil && in.Salary == nil && in.Equity == nil {
		return nil, ErrNoUpdateFields
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, ErrInvalidTitle
	}

	if in.Salary != nil && *in.Salary < 0 {
		return nil, ErrInvalidSalary
	}

	if err := validateEquity(in.Equity); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, in)
}

// DeleteJob は求人を削除します。会社のライフサイクルには影響しません。
func (s *Service) DeleteJob(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	return s.repo.Delete(ctx, id)
}

// validateEquity は equity が 0 以上 1.0 以下の小数表現であることを検証します。
func validateEquity(raw *string) error {
	if raw == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return ErrInvalidEquity
	}

	if value < 0 || value > 1.0 {
		return ErrInvalidEquity
	}

	return nil
}
