package job

// Job は求人エンティティです。ID は採番後不変で、必ず既存の会社を参照します。
// Equity は固定小数点の文字列表現で保持します。
type Job struct {
	ID            int64
	Title         string
	Salary        *int
	Equity        *string
	CompanyHandle string
}

// Listing は検索結果の 1 行で、会社の表示名を付与した求人です。
type Listing struct {
	Job
	CompanyName string
}

// CompanySnapshot は求人に紐づく会社情報のスナップショットです。
type CompanySnapshot struct {
	Handle       string
	Name         string
	Description  string
	NumEmployees *int
	LogoURL      *string
}

// Detail は求人と所属会社をまとめた参照結果です。
type Detail struct {
	Job
	Company CompanySnapshot
}
