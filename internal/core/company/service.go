package company

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Service は会社に関するユースケースをまとめます。
type Service struct {
	repo Repository
}

// UseCase は会社ユースケースの公開インターフェースです。
type UseCase interface {
	CreateCompany(ctx context.Context, in CreateCompanyInput) (*Company, error)
	ListCompanies(ctx context.Context, filter ListFilter) ([]*Company, error)
	GetCompany(ctx context.Context, handle string) (*Detail, error)
	UpdateCompany(ctx context.Context, handle string, in UpdateInput) (*Company, error)
	DeleteCompany(ctx context.Context, handle string) error
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateCompanyInput は会社作成時の入力です。
type CreateCompanyInput struct {
	Handle       string
	Name         string
	Description  string
	NumEmployees *int
	LogoURL      *string
}

// CreateCompany は新しい会社を登録します。handle が既に存在する場合は
// ErrHandleAlreadyExists を返却します。
func (s *Service) CreateCompany(ctx context.Context, in CreateCompanyInput) (*Company, error) {
	handle, err := normalizeHandle(in.Handle)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if in.NumEmployees != nil && *in.NumEmployees < 0 {
		return nil, ErrInvalidNumEmployees
	}

	return s.repo.Create(ctx, &Company{
		Handle:       handle,
		Name:         name,
		Description:  in.Description,
		NumEmployees: in.NumEmployees,
		LogoURL:      in.LogoURL,
	})
}

// ListCompanies はフィルタ条件に合致する会社を名前昇順で返します。
// 従業員数の下限が上限を超える場合は ErrInvalidEmployeeRange を返却します。
func (s *Service) ListCompanies(ctx context.Context, filter ListFilter) ([]*Company, error) {
	if filter.MinEmployees != nil && filter.MaxEmployees != nil && *filter.MinEmployees > *filter.MaxEmployees {
		return nil, fmt.Errorf("min %d, max %d: %w", *filter.MinEmployees, *filter.MaxEmployees, ErrInvalidEmployeeRange)
	}

	return s.repo.List(ctx, filter)
}

// GetCompany は handle で会社を取得し、配下の求人一覧を付与して返します。
func (s *Service) GetCompany(ctx context.Context, handle string) (*Detail, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, ErrInvalidHandle
	}

	found, err := s.repo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	jobs, err := s.repo.ListJobs(ctx, handle)
	if err != nil {
		return nil, err
	}

	return &Detail{Company: *found, Jobs: jobs}, nil
}

// UpdateCompany は会社情報を部分更新します。更新対象フィールドが 1 つも
// 無い場合は ErrNoUpdateFields を返却します。
func (s *Service) UpdateCompany(ctx context.Context, handle string, in UpdateInput) (*Company, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, ErrInvalidHandle
	}

	if in.Name == nil && in.Description == nil && in.NumEmployees == nil && in.LogoURL == nil {
		return nil, ErrNoUpdateFields
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrInvalidName
	}

	if in.NumEmployees != nil && *in.NumEmployees < 0 {
		return nil, ErrInvalidNumEmployees
	}

	return s.repo.Update(ctx, handle, in)
}

// DeleteCompany は会社を削除します。
func (s *Service) DeleteCompany(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return ErrInvalidHandle
	}

	return s.repo.Delete(ctx, handle)
}

func normalizeHandle(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidHandle
	}

	lower := strings.ToLower(trimmed)
	if !handlePattern.MatchString(lower) {
		return "", ErrInvalidHandle
	}

	return lower, nil
}
