package repository

import "errors"

var (
	// 論理削除済みの行も「存在しない」として扱う
	ErrNotFound = errors.New("not found")

	// ストア側のユニーク制約違反（同名同時作成のレースはここで止まる）
	ErrDuplicateName = errors.New("duplicate name")
)
