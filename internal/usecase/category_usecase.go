package usecase

import (
	"context"
	"time"

	"github.com/nando/finper/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		idGen:        idGen,
	}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	Name        string
	Description string
}

// CreateCategory creates a new category.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	category := &domain.Category{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category by ID.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

// UpdateCategoryInput represents input for updating a category.
type UpdateCategoryInput struct {
	ID          string
	Name        string
	Description string
}

// UpdateCategory updates the name and description of a category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Description = input.Description
	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory deletes a category. Categories still referenced by
// movements are protected: domain.ErrCategoryInUse propagates as is.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.categoryRepo.Delete(ctx, id)
}

// ListCategoriesInput represents input for listing categories.
type ListCategoriesInput struct {
	Limit  int
	Offset int
}

// ListCategories lists categories with pagination.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, input ListCategoriesInput) ([]*domain.Category, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.categoryRepo.List(ctx, limit, offset)
}
