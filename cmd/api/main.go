package main

import (
	"catalog/internal/config"
	"catalog/internal/handler"
	"catalog/internal/infra/db"
	infraRepo "catalog/internal/infra/repository"
	"catalog/internal/server"
	"catalog/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	// .envは無ければ無いでよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		panic(err)
	}
	if err := db.EnsureIndexes(gormDB); err != nil {
		panic(err)
	}
	if cfg.GoEnv == "dev" {
		if err := db.Seed(gormDB); err != nil {
			panic(err)
		}
	}

	//UnitOfWorkはリクエストごとにfactoryから作る
	uowFactory := infraRepo.NewGormUnitOfWorkFactory(gormDB)

	//Usecase生成
	categoryUC := usecase.NewCategoryUsecase(uowFactory)
	productUC := usecase.NewProductUsecase(uowFactory)

	//Handler生成
	categoryH := handler.NewCategoryHandler(categoryUC)
	productH := handler.NewProductHandler(productUC)

	//Server起動
	e := server.New(cfg.FEURL, categoryH, productH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(e, addr); err != nil {
		panic(err)
	}
}
