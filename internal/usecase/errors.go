package usecase

import (
	"errors"
	"fmt"

	repo "catalog/internal/repository"
)

type ErrorKind int

const (
	// 対象が無い（削除済みを含む）。呼び出し側が普通に受け取る結果
	KindNotFound ErrorKind = iota + 1
	// 入力が不正（重複名・存在しないカテゴリ参照など）。書き込み前に弾く
	KindValidation
	// 参照が残っていて削除できない
	KindConflict
	// save成功後の再取得失敗など、この層の外の破損。握り潰さない
	KindInvariant
	// ストア由来の失敗。リトライはしない
	KindStorage
)

// Error はサービス層の結果種別。HTTP層はKindだけ見てステータスへ変換する。
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // 元エラー（storage/invariant用）
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewInvariantError(message string) error {
	return &Error{Kind: KindInvariant, Message: message}
}

func NewStorageError(err error) error {
	return &Error{Kind: KindStorage, Message: "db error", Err: err}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// DBの一意インデックス違反は事前チェックと同じ扱いに寄せる
func storageOrDuplicate(err error, message string) error {
	if errors.Is(err, repo.ErrDuplicateName) {
		return NewValidationError(message)
	}
	return NewStorageError(err)
}
