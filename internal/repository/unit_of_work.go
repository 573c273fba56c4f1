package repository

import "context"

// UnitOfWork は1リクエスト分の作業単位。
// 両リポジトリは同じ接続を共有し、save前の書き込みも互いに見える。
type UnitOfWork interface {
	Categories() CategoryRepository
	Products() ProductRepository

	// ステージ済みの更新をまとめて反映し確定する。戻り値は影響行数。
	// 明示的なトランザクション中は反映だけ行い、確定はCommitまで遅らせる。
	SaveChanges(ctx context.Context) (int64, error)

	// 複数saveをまたぐ明示的なトランザクション境界
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// 接続を返す。未コミットのトランザクションが残っていれば破棄する。
	Close() error
}

// UnitOfWorkFactory はリクエストごとにUnitOfWorkを作る。
// UsecaseからDB接続の持ち回りを隠す。
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
