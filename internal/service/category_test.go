package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moldcart/catalog-api/internal/model"
	"github.com/moldcart/catalog-api/internal/repository"
)

type mockCategoryRepo struct {
	categories map[int64]*model.Category
	subs       map[int64]*model.SubCategory
	// products lets DeleteWithReassign mirror the transactional reassignment
	// the real repository performs.
	products *mockProductRepo
	nextID   int64
}

func newMockCategoryRepo(products *mockProductRepo) *mockCategoryRepo {
	return &mockCategoryRepo{
		categories: make(map[int64]*model.Category),
		subs:       make(map[int64]*model.SubCategory),
		products:   products,
	}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	m.nextID++
	category.ID = m.nextID
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var categories []model.Category
	for _, c := range m.categories {
		categories = append(categories, *c)
	}
	return categories, nil
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) Rename(_ context.Context, id int64, newName string) error {
	c, ok := m.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Name = newName
	return nil
}

func (m *mockCategoryRepo) DeleteWithReassign(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, p := range m.products.products {
		if p.SubCategoryID != nil {
			if s, ok := m.subs[*p.SubCategoryID]; ok && s.CategoryID == id {
				p.SubCategoryID = nil
			}
		}
		if p.CategoryID == id {
			p.CategoryID = repository.UncategorizedID
		}
	}
	for subID, s := range m.subs {
		if s.CategoryID == id {
			delete(m.subs, subID)
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) CreateSub(_ context.Context, sub *model.SubCategory) error {
	m.nextID++
	sub.ID = m.nextID
	stored := *sub
	m.subs[sub.ID] = &stored
	return nil
}

func (m *mockCategoryRepo) ListSub(_ context.Context, categoryID int64) ([]model.SubCategory, error) {
	var subs []model.SubCategory
	for _, s := range m.subs {
		if s.CategoryID == categoryID {
			subs = append(subs, *s)
		}
	}
	return subs, nil
}

func (m *mockCategoryRepo) UpdateSub(_ context.Context, categoryID, subID int64, name string) error {
	s, ok := m.subs[subID]
	if !ok || s.CategoryID != categoryID {
		return pgx.ErrNoRows
	}
	s.Name = name
	return nil
}

func (m *mockCategoryRepo) DeleteSub(_ context.Context, categoryID, subID int64) error {
	s, ok := m.subs[subID]
	if !ok || s.CategoryID != categoryID {
		return pgx.ErrNoRows
	}
	for _, p := range m.products.products {
		if p.SubCategoryID != nil && *p.SubCategoryID == subID {
			p.SubCategoryID = nil
		}
	}
	delete(m.subs, subID)
	return nil
}

func TestCategoryService_Rename(t *testing.T) {
	repo := newMockCategoryRepo(newMockProductRepo())
	svc := NewCategoryService(repo)

	created, err := svc.Create(context.Background(), "Shoes")
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), "Shoes", "Footwear")
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, "Footwear", renamed.Name)
}

func TestCategoryService_Rename_UnknownName(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepo(newMockProductRepo()))
	_, err := svc.Rename(context.Background(), "Shoes", "Footwear")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_Delete_ReassignsProducts(t *testing.T) {
	productRepo := newMockProductRepo()
	repo := newMockCategoryRepo(productRepo)
	svc := NewCategoryService(repo)

	category, err := svc.Create(context.Background(), "Shoes")
	require.NoError(t, err)

	product := &model.Product{Name: "Runner", CategoryID: category.ID}
	require.NoError(t, productRepo.Create(context.Background(), product))

	require.NoError(t, svc.Delete(context.Background(), "Shoes"))

	stored, err := productRepo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, repository.UncategorizedID, stored.CategoryID,
		"product must land on the sentinel category, not a dangling id")

	remaining, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCategoryService_Delete_ClearsSubcategoryReferences(t *testing.T) {
	productRepo := newMockProductRepo()
	repo := newMockCategoryRepo(productRepo)
	svc := NewCategoryService(repo)

	category, err := svc.Create(context.Background(), "Shoes")
	require.NoError(t, err)
	sub, err := svc.CreateSub(context.Background(), category.ID, "Sneakers")
	require.NoError(t, err)

	product := &model.Product{Name: "Runner", CategoryID: category.ID, SubCategoryID: &sub.ID}
	require.NoError(t, productRepo.Create(context.Background(), product))

	require.NoError(t, svc.Delete(context.Background(), "Shoes"))

	stored, err := productRepo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, repository.UncategorizedID, stored.CategoryID)
	assert.Nil(t, stored.SubCategoryID,
		"subcategory reference must not outlive the subcategory")
}

func TestCategoryService_Delete_UnknownName(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepo(newMockProductRepo()))
	err := svc.Delete(context.Background(), "Shoes")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_Subcategories(t *testing.T) {
	repo := newMockCategoryRepo(newMockProductRepo())
	svc := NewCategoryService(repo)

	category, err := svc.Create(context.Background(), "Clothing")
	require.NoError(t, err)

	sub, err := svc.CreateSub(context.Background(), category.ID, "Jackets")
	require.NoError(t, err)
	assert.Equal(t, category.ID, sub.CategoryID)

	subs, err := svc.ListSub(context.Background(), category.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	updated, err := svc.UpdateSub(context.Background(), category.ID, sub.ID, "Coats")
	require.NoError(t, err)
	assert.Equal(t, "Coats", updated.Name)

	require.NoError(t, svc.DeleteSub(context.Background(), category.ID, sub.ID))

	err = svc.DeleteSub(context.Background(), category.ID, sub.ID)
	assert.ErrorIs(t, err, ErrSubCategoryNotFound)
}
