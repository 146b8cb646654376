package job

import "context"

// Repository は求人エンティティの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, job *Job) (*Job, error)
	List(ctx context.Context, filter ListFilter) ([]*Listing, error)
	FindByID(ctx context.Context, id int64) (*Job, error)
	FindCompany(ctx context.Context, handle string) (*CompanySnapshot, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Job, error)
	Delete(ctx context.Context, id int64) error
}

// ListFilter は一覧検索の条件を表します。HasEquity が真の場合は
// equity が 0 より大きい求人のみが対象になります。
type ListFilter struct {
	Title     *string
	MinSalary *int
	HasEquity bool
}

// UpdateInput は部分更新の入力です。nil のフィールドは変更されません。
type UpdateInput struct {
	Title  *string
	Salary *int
	Equity *string
}
