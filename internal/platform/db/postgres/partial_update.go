package postgres

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyUpdate は更新対象フィールドが 1 つも無い場合に返却されます。
var ErrEmptyUpdate = errors.New("postgres: no fields to update")

// Assignment は部分更新の 1 項目(論理フィールド名と新しい値)を表します。
type Assignment struct {
	Field string
	Value any
}

// BuildSetClause は Assignment 列から SET 句と引数列を構築します。
// columns に論理フィールド名→物理列名の対応を渡し、対応が無いフィールドは
// 論理名をそのまま列名として使用します。句と引数の順序は入力順に一致し、
// 呼び出し側は検索キーを $len(args)+1 として後置できます。
// 列名の妥当性は検証しません。フィールド名は呼び出し側の管理範囲です。
func BuildSetClause(assignments []Assignment, columns map[string]string) (string, []any, error) {
	if len(assignments) == 0 {
		return "", nil, ErrEmptyUpdate
	}

	parts := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))
	for i, a := range assignments {
		col, ok := columns[a.Field]
		if !ok {
			col = a.Field
		}
		parts = append(parts, `"`+col+`"=$`+strconv.Itoa(i+1))
		args = append(args, a.Value)
	}

	return strings.Join(parts, ", "), args, nil
}
