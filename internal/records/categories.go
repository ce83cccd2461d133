package records

import (
	"context"
	"fmt"

	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// AddCategory validates fields, assigns an id and persists the new category.
func (s *Store) AddCategory(ctx context.Context, fields models.NewCategory) (models.Category, error) {
	if err := fields.Validate(); err != nil {
		return models.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return models.Category{}, err
	}
	defer unlock()

	c := models.Category{
		ID:     s.newID(),
		Name:   fields.Name,
		Color:  fields.Color,
		Icon:   fields.Icon,
		Type:   fields.Type,
		UserID: s.userID,
	}
	if err := s.saveCategories(ctx, append(clone(s.categories), c)); err != nil {
		return models.Category{}, err
	}
	s.mutated(ctx, containerCategories, "add", c.ID)
	return c, nil
}

// UpdateCategory merges patch into the category with the given id.
// Changing a category's type does not revalidate transactions already
// referencing it.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	i := indexOf(s.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return false, nil
	}
	if patch.IsEmpty() {
		return true, nil
	}

	updated := patch.Apply(s.categories[i])
	if err := updated.Fields().Validate(); err != nil {
		return true, err
	}
	if err := s.saveCategories(ctx, replaced(s.categories, i, updated)); err != nil {
		return true, err
	}
	s.mutated(ctx, containerCategories, "update", id)
	return true, nil
}

// DeleteCategory removes the category with the given id. It returns a
// *CategoryInUseError while any transaction references the category.
// Budgets and transactions are never touched.
func (s *Store) DeleteCategory(ctx context.Context, id string) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	i := indexOf(s.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return false, nil
	}

	refs := 0
	for _, t := range s.transactions {
		if t.CategoryID == id {
			refs++
		}
	}
	if refs > 0 {
		err := &CategoryInUseError{CategoryID: id, Count: refs}
		s.rejected(ctx, "category_in_use", err)
		return true, err
	}

	if err := s.saveCategories(ctx, without(s.categories, i)); err != nil {
		return true, err
	}
	s.mutated(ctx, containerCategories, "delete", id)
	return true, nil
}

// saveCategories persists next and commits it to memory. Callers hold s.mu.
func (s *Store) saveCategories(ctx context.Context, next []models.Category) error {
	if err := persist(ctx, s, storage.KeyCategories, next); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	s.categories = next
	return nil
}

// Categories returns a copy of the user's categories in stored order.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.categories)
}

// CategoryByID returns the category with the given id.
func (s *Store) CategoryByID(id string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return models.Category{}, false
	}
	return s.categories[i], true
}

// CategoriesByType returns the user's categories of type t.
func (s *Store) CategoriesByType(t models.TransactionType) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Category{}
	for _, c := range s.categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// categoryByName returns the first category named name. Callers hold s.mu.
func (s *Store) categoryByName(name string) (models.Category, bool) {
	i := indexOf(s.categories, func(c models.Category) bool { return c.Name == name })
	if i < 0 {
		return models.Category{}, false
	}
	return s.categories[i], true
}
