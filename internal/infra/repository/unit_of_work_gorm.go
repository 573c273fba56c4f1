package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/domain/model"
	repo "catalog/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUnitOfWork は1つのトランザクションを両リポジトリで共有する。
// INSERTはトランザクション上で即時実行（未コミットなので外からは見えない）、
// UPDATEはステージしてSaveChangesでまとめて反映する。
type GormUnitOfWork struct {
	db *gorm.DB

	tx       *gorm.DB // 進行中のトランザクション。nilなら未開始
	explicit bool     // Beginで開いた境界かどうか

	staged   []any // SaveChanges待ちの更新
	inserted int64 // 前回save以降にINSERTした行数

	categories repo.CategoryRepository
	products   repo.ProductRepository
}

// リポジトリはコンストラクタで作り切る（遅延生成はしない）
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	u := &GormUnitOfWork{db: db}
	u.categories = NewCategoryGormRepository(u)
	u.products = NewProductGormRepository(u)
	return u
}

var _ repo.UnitOfWork = (*GormUnitOfWork)(nil)

func (u *GormUnitOfWork) Categories() repo.CategoryRepository { return u.categories }
func (u *GormUnitOfWork) Products() repo.ProductRepository    { return u.products }

// conn は進行中のトランザクションを返す。無ければ開く。
// 開始に失敗した場合はエラーを抱えた*gorm.DBが返り、後続の操作がそれを返す。
func (u *GormUnitOfWork) conn(ctx context.Context) *gorm.DB {
	if u.tx == nil {
		u.tx = u.db.WithContext(ctx).Begin()
	}
	return u.tx.WithContext(ctx)
}

func (u *GormUnitOfWork) stageUpdate(e any) {
	u.staged = append(u.staged, e)
}

func (u *GormUnitOfWork) noteInserted(n int64) {
	u.inserted += n
}

// SaveChanges はステージ済みの更新を反映して確定する。
// updated_atはここで、変更としてステージされたエンティティにだけ1回打つ。
func (u *GormUnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	affected := u.inserted
	if u.tx == nil && len(u.staged) == 0 {
		// 書き込みが一度も無かった
		return affected, nil
	}

	now := time.Now().UTC()
	for _, e := range u.staged {
		m, ok := e.(model.Mutable)
		if !ok {
			u.discard()
			return 0, fmt.Errorf("unit of work: cannot stamp updated_at on %T", e)
		}
		m.SetUpdatedAt(now)

		res := u.conn(ctx).Omit(clause.Associations).Save(e)
		if res.Error != nil {
			err := translateError(res.Error)
			u.discard()
			return 0, err
		}
		affected += res.RowsAffected
	}
	u.staged = nil
	u.inserted = 0

	if !u.explicit && u.tx != nil {
		tx := u.tx
		u.tx = nil
		if err := tx.Commit().Error; err != nil {
			return 0, translateError(err)
		}
	}
	return affected, nil
}

func (u *GormUnitOfWork) Begin(ctx context.Context) error {
	if u.explicit {
		return errors.New("unit of work: transaction already begun")
	}
	if u.tx == nil {
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return translateError(tx.Error)
		}
		u.tx = tx
	}
	u.explicit = true
	return nil
}

func (u *GormUnitOfWork) Commit(ctx context.Context) error {
	if !u.explicit || u.tx == nil {
		return errors.New("unit of work: no transaction begun")
	}
	tx := u.tx
	u.tx = nil
	u.explicit = false
	if err := tx.Commit().Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (u *GormUnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		u.explicit = false
		return nil
	}
	tx := u.tx
	u.reset()
	if err := tx.Rollback().Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Close は未コミットのトランザクションを破棄する。deferで必ず呼ぶ。
func (u *GormUnitOfWork) Close() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.reset()
	return tx.Rollback().Error
}

// ロールバックして作業単位を空に戻す
func (u *GormUnitOfWork) discard() {
	if u.tx != nil {
		u.tx.Rollback()
	}
	u.reset()
}

func (u *GormUnitOfWork) reset() {
	u.tx = nil
	u.explicit = false
	u.staged = nil
	u.inserted = 0
}

// ストアのエラーをリポジトリの語彙へ寄せる。
// 23505（unique_violation）は名前の一意インデックス。
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repo.ErrDuplicateName
	}
	return err
}

type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// DI
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

var _ repo.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)

func (f *GormUnitOfWorkFactory) New() repo.UnitOfWork {
	return NewGormUnitOfWork(f.db)
}
