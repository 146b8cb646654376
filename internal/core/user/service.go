package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ生成と照合を抽象化します。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher は bcrypt による PasswordHasher 実装です。
type BcryptHasher struct {
	Cost int
}

// Hash は設定されたコストでパスワードをハッシュ化します。
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare はハッシュと平文パスワードを照合します。
func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Service はユーザーに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// UseCase はユーザーユースケースの公開インターフェースです。
type UseCase interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, username string) (*Detail, error)
	UpdateUser(ctx context.Context, username string, in UpdateUserInput) (*User, error)
	DeleteUser(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int64) (*Application, error)
}

// NewService は Service を生成します。hasher が nil の場合は既定コストの
// bcrypt を使用します。
func NewService(repo Repository, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{repo: repo, hasher: hasher}
}

// RegisterInput はユーザー登録時の入力です。
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// UpdateUserInput は部分更新の入力です。Password は平文で受け取り、
// 保存前に再ハッシュします。IsAdmin の変更可否は呼び出し側の認可に委ねます。
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// Register は新しいユーザーを登録します。username が既に存在する場合は
// ErrUsernameAlreadyExists を返却します。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	if in.Password == "" {
		return nil, ErrInvalidPassword
	}

	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &User{
		Username:  username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		IsAdmin:   in.IsAdmin,
	}, hash)
}

// Authenticate は username とパスワードを検証します。ユーザーが存在しない
// 場合とパスワードが一致しない場合は区別せず ErrInvalidCredentials を
// 返却します。ハッシュは結果に含まれません。
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	creds, err := s.repo.CredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(creds.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	authenticated := creds.User
	return &authenticated, nil
}

// ListUsers は全ユーザーを username 昇順で返します。
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// GetUser は username でユーザーを取得し、応募済み求人 ID を付与して返します。
func (s *Service) GetUser(ctx context.Context, username string) (*Detail, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}

	found, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	jobIDs, err := s.repo.ListAppliedJobIDs(ctx, username)
	if err != nil {
		return nil, err
	}

	return &Detail{User: *found, JobsApplied: jobIDs}, nil
}

// UpdateUser はユーザーを部分更新します。Password が指定されている場合は
// 保存前に再ハッシュします。権限昇格の防止は呼び出し側のガードの責務です。
func (s *Service) UpdateUser(ctx context.Context, username string, in UpdateUserInput) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}

	if in.FirstName == nil && in.LastName == nil && in.Email == nil && in.Password == nil && in.IsAdmin == nil {
		return nil, ErrNoUpdateFields
	}

	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		return nil, ErrInvalidEmail
	}

	fields := UpdateFields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		IsAdmin:   in.IsAdmin,
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, ErrInvalidPassword
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		fields.PasswordHash = &hash
	}

	return s.repo.Update(ctx, username, fields)
}

// DeleteUser はユーザーを削除します。
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrInvalidUsername
	}

	return s.repo.Delete(ctx, username)
}

// ApplyToJob はユーザーの求人応募を登録します。ユーザーまたは求人が
// 存在しない場合は not-found を、応募済みの場合は ErrAlreadyApplied を
// 返却します。
func (s *Service) ApplyToJob(ctx context.Context, username string, jobID int64) (*Application, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}

	if jobID <= 0 {
		return nil, ErrJobNotFound
	}

	return s.repo.Apply(ctx, username, jobID)
}
