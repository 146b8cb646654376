package company

import "context"

// Repository は会社エンティティの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, company *Company) (*Company, error)
	List(ctx context.Context, filter ListFilter) ([]*Company, error)
	FindByHandle(ctx context.Context, handle string) (*Company, error)
	ListJobs(ctx context.Context, handle string) ([]JobSummary, error)
	Update(ctx context.Context, handle string, in UpdateInput) (*Company, error)
	Delete(ctx context.Context, handle string) error
}

// ListFilter は一覧検索の条件を表します。nil のフィールドは条件に含まれません。
type ListFilter struct {
	Name         *string
	MinEmployees *int
	MaxEmployees *int
}

// UpdateInput は部分更新の入力です。nil のフィールドは変更されません。
type UpdateInput struct {
	Name         *string
	Description  *string
	NumEmployees *int
	LogoURL      *string
}
