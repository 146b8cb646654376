package company

// Company は会社エンティティです。handle が自然キーであり、作成後は不変です。
type Company struct {
	Handle       string
	Name         string
	Description  string
	NumEmployees *int
	LogoURL      *string
}

// JobSummary は会社配下の求人の要約です。
type JobSummary struct {
	ID     int64
	Title  string
	Salary *int
	Equity *string
}

// Detail は会社と配下求人をまとめた参照結果です。
type Detail struct {
	Company
	Jobs []JobSummary
}
