package user

// User はユーザーエンティティです。username が自然キーであり、作成後は不変です。
// パスワードハッシュはエンティティに含めず、Credentials 経由でのみ扱います。
type User struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// Credentials は認証検証のためにハッシュを付与したユーザーです。
type Credentials struct {
	User
	PasswordHash string
}

// Detail はユーザーと応募済み求人 ID をまとめた参照結果です。
type Detail struct {
	User
	JobsApplied []int64
}

// Application はユーザーと求人を結ぶ応募です。(username, jobID) が複合キーです。
type Application struct {
	Username string
	JobID    int64
}
