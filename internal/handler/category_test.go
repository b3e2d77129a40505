package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldcart/catalog-api/internal/middleware"
	"github.com/moldcart/catalog-api/internal/model"
	"github.com/moldcart/catalog-api/internal/service"
)

type stubCategoryRepo struct {
	categories map[int64]*model.Category
	nextID     int64
}

func (s *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	s.nextID++
	c.ID = s.nextID
	stored := *c
	s.categories[c.ID] = &stored
	return nil
}

func (s *stubCategoryRepo) List(context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubCategoryRepo) Rename(_ context.Context, id int64, newName string) error {
	c, ok := s.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Name = newName
	return nil
}

func (s *stubCategoryRepo) DeleteWithReassign(_ context.Context, id int64) error {
	if _, ok := s.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.categories, id)
	return nil
}

func (s *stubCategoryRepo) CreateSub(context.Context, *model.SubCategory) error { return nil }
func (s *stubCategoryRepo) ListSub(context.Context, int64) ([]model.SubCategory, error) {
	return nil, nil
}
func (s *stubCategoryRepo) UpdateSub(context.Context, int64, int64, string) error { return nil }
func (s *stubCategoryRepo) DeleteSub(context.Context, int64, int64) error         { return nil }

func categoryTestRouter(repo *stubCategoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	categoryH := NewCategoryHandler(service.NewCategoryService(repo))
	verify := middleware.Authenticate(testSecret, testAdminID)
	adminOnly := middleware.AdminOnly()

	r := gin.New()
	r.GET("/categories", categoryH.List)
	r.POST("/categories", verify, adminOnly, categoryH.Create)
	r.PUT("/categories", verify, adminOnly, categoryH.Rename)
	r.DELETE("/categories", verify, adminOnly, categoryH.Delete)
	return r
}

func TestDeleteCategory_UnknownName(t *testing.T) {
	r := categoryTestRouter(&stubCategoryRepo{categories: make(map[int64]*model.Category)})

	w := do(r, http.MethodDelete, "/categories", token(t, testAdminID), gin.H{"name": "Shoes"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Category not found"}`, w.Body.String())
}

func TestDeleteCategory_RequiresAdmin(t *testing.T) {
	repo := &stubCategoryRepo{categories: make(map[int64]*model.Category)}
	require.NoError(t, repo.Create(context.Background(), &model.Category{Name: "Shoes"}))
	r := categoryTestRouter(repo)

	w := do(r, http.MethodDelete, "/categories", token(t, 7), gin.H{"name": "Shoes"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/categories", token(t, testAdminID), gin.H{"name": "Shoes"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.categories)
}

func TestRenameCategory(t *testing.T) {
	repo := &stubCategoryRepo{categories: make(map[int64]*model.Category)}
	require.NoError(t, repo.Create(context.Background(), &model.Category{Name: "Shoes"}))
	r := categoryTestRouter(repo)

	w := do(r, http.MethodPut, "/categories", token(t, testAdminID),
		gin.H{"name": "Shoes", "newName": "Footwear"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Footwear")

	w = do(r, http.MethodPut, "/categories", token(t, testAdminID),
		gin.H{"name": "Shoes", "newName": "Footwear"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategories_NoAuthRequired(t *testing.T) {
	repo := &stubCategoryRepo{categories: make(map[int64]*model.Category)}
	require.NoError(t, repo.Create(context.Background(), &model.Category{Name: "Shoes"}))
	r := categoryTestRouter(repo)

	w := do(r, http.MethodGet, "/categories", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shoes")
}
