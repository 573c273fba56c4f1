package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog/internal/domain/model"
	"catalog/internal/handler"
	infra "catalog/internal/infra/repository"
	"catalog/internal/server"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteを土台にハンドラまで全部つないだechoを返す
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&model.Category{}, &model.Product{}))

	factory := infra.NewGormUnitOfWorkFactory(gdb)
	categoryH := handler.NewCategoryHandler(usecase.NewCategoryUsecase(factory))
	productH := handler.NewProductHandler(usecase.NewProductUsecase(factory))
	return server.New("", categoryH, productH)
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func createCategory(t *testing.T, e *echo.Echo, name string) int64 {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/categories", fmt.Sprintf(`{"name":%q}`, name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(decode(t, rec)["id"].(float64))
}

func createProduct(t *testing.T, e *echo.Echo, name string, categoryID int64) int64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"price":999.99,"stock":5,"category_id":%d}`, name, categoryID)
	rec := doJSON(e, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(decode(t, rec)["id"].(float64))
}

func TestCategoryLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/categories", `{"name":"Electronics","description":"gadgets"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)
	id := int64(created["id"].(float64))
	assert.Equal(t, "Electronics", created["name"])
	assert.Nil(t, created["updated_at"])

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gadgets", decode(t, rec)["description"])

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), `{"name":"Gadgets"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "Gadgets", updated["name"])
	assert.NotNil(t, updated["updated_at"])

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryCreateValidation(t *testing.T) {
	e := newTestServer(t)

	// 必須チェックはechoのバリデータで弾く
	rec := doJSON(e, http.MethodPost, "/api/categories", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 空白だけの名前はサービス層で弾く
	rec = doJSON(e, http.MethodPost, "/api/categories", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryDuplicateName(t *testing.T) {
	e := newTestServer(t)
	createCategory(t, e, "Electronics")

	// 大文字小文字だけの違いも重複
	rec := doJSON(e, http.MethodPost, "/api/categories", `{"name":"ELECTRONICS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "already exists")
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	e := newTestServer(t)
	catID := createCategory(t, e, "Electronics")
	prodID := createProduct(t, e, "Laptop", catID)

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// まだ生きている
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/categories/%d", catID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	// 商品を消せば消せるようになる
	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/products/%d", prodID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCategoryWithProducts(t *testing.T) {
	e := newTestServer(t)
	catID := createCategory(t, e, "Electronics")
	createProduct(t, e, "Laptop", catID)
	createProduct(t, e, "Smartphone", catID)

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/categories/%d/products", catID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["product_count"])
	assert.Len(t, body["products"], 2)

	// 一覧側もproduct_countが乗る
	rec = doJSON(e, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, float64(2), list[0]["product_count"])
}

func TestProductLifecycle(t *testing.T) {
	e := newTestServer(t)
	catID := createCategory(t, e, "Electronics")

	rec := doJSON(e, http.MethodPost, "/api/products",
		fmt.Sprintf(`{"name":"Laptop","description":"portable","price":999.99,"stock":50,"category_id":%d}`, catID))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)
	id := int64(created["id"].(float64))
	assert.Equal(t, "Electronics", created["category_name"])
	assert.Equal(t, 999.99, created["price"])

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/products/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Electronics", decode(t, rec)["category_name"])

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/products/%d", id),
		fmt.Sprintf(`{"name":"Laptop Pro","price":1299.99,"stock":30,"category_id":%d}`, catID))
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "Laptop Pro", updated["name"])
	assert.NotNil(t, updated["updated_at"])

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/products/%d", id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductCreateRejectsMissingCategory(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/products", `{"name":"Laptop","price":1,"category_id":42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "category does not exist")
}

// 論理削除されたカテゴリは参照先として使えない
func TestProductCreateRejectsSoftDeletedCategory(t *testing.T) {
	e := newTestServer(t)
	catID := createCategory(t, e, "Electronics")

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/products",
		fmt.Sprintf(`{"name":"Laptop","price":999.99,"category_id":%d}`, catID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "category does not exist")
}

func TestProductCreateRejectsBadPrice(t *testing.T) {
	e := newTestServer(t)
	catID := createCategory(t, e, "Electronics")

	rec := doJSON(e, http.MethodPost, "/api/products",
		fmt.Sprintf(`{"name":"Laptop","price":-5,"category_id":%d}`, catID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductSearch(t *testing.T) {
	e := newTestServer(t)
	catID := createCategory(t, e, "Electronics")
	createProduct(t, e, "Laptop", catID)
	createProduct(t, e, "Smartphone", catID)

	rec := doJSON(e, http.MethodGet, "/api/products/search?searchTerm=Lap", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Laptop", list[0]["name"])

	// 検索語なしは400
	rec = doJSON(e, http.MethodGet, "/api/products/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductsByCategory(t *testing.T) {
	e := newTestServer(t)
	elec := createCategory(t, e, "Electronics")
	books := createCategory(t, e, "Books")
	createProduct(t, e, "Laptop", elec)
	createProduct(t, e, "Programming Book", books)

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/products/category/%d", elec), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Laptop", list[0]["name"])

	// 存在しないカテゴリは空配列で200
	rec = doJSON(e, http.MethodGet, "/api/products/category/9999", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestInvalidIDPath(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/categories/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
