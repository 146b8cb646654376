package user

import "context"

// Repository はユーザーエンティティの永続化を行うインターフェースです。
// パスワードハッシュの生成・検証は Service の責務で、Repository は
// 受け取ったハッシュをそのまま保存・返却します。
type Repository interface {
	Create(ctx context.Context, user *User, passwordHash string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	CredentialsByUsername(ctx context.Context, username string) (*Credentials, error)
	ListAppliedJobIDs(ctx context.Context, username string) ([]int64, error)
	Update(ctx context.Context, username string, in UpdateFields) (*User, error)
	Delete(ctx context.Context, username string) error
	Apply(ctx context.Context, username string, jobID int64) (*Application, error)
}

// UpdateFields は部分更新の入力です。nil のフィールドは変更されません。
// PasswordHash はハッシュ済みの値のみを渡します。
type UpdateFields struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}
