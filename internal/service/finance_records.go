package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/models"
)

func notFound(kind, id string) error {
	return toConnectError(fmt.Errorf("%s %q: %w", kind, id, errNotFound))
}

// ListTransactions returns the caller's transactions, newest first, optionally
// filtered by description and type.
func (s *FinanceService) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Type != "" && !req.Msg.Type.Valid() {
		return nil, toConnectError(fmt.Errorf("%w: %q", models.ErrInvalidType, req.Msg.Type))
	}

	matched := calculator.Filter(store.Transactions(), calculator.TransactionFilter{
		Search: req.Msg.Search,
		Type:   req.Msg.Type,
	})
	total := len(matched)
	if req.Msg.Limit > 0 && req.Msg.Limit < total {
		matched = matched[:req.Msg.Limit]
	}
	return connect.NewResponse(&ListTransactionsResponse{Transactions: matched, Total: total}), nil
}

func (s *FinanceService) AddTransaction(ctx context.Context, req *connect.Request[AddTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	fields := models.NewTransaction{
		Amount:      req.Msg.Amount,
		Type:        req.Msg.Type,
		CategoryID:  req.Msg.CategoryID,
		Date:        req.Msg.Date,
		Description: req.Msg.Description,
	}
	if req.Msg.RecurringInterval != "" {
		if !req.Msg.RecurringInterval.Valid() {
			return nil, toConnectError(fmt.Errorf("%w: %q", models.ErrInvalidInterval, req.Msg.RecurringInterval))
		}
		fields.Recurrence = models.Recurring(req.Msg.RecurringInterval)
	}

	t, err := store.AddTransaction(ctx, fields)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TransactionResponse{Transaction: t}), nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, req *connect.Request[UpdateTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	patch := models.TransactionPatch{
		Amount:      req.Msg.Amount,
		Type:        req.Msg.Type,
		CategoryID:  req.Msg.CategoryID,
		Date:        req.Msg.Date,
		Description: req.Msg.Description,
	}
	if ri := req.Msg.RecurringInterval; ri != nil {
		r := models.NoRecurrence
		if *ri != "" {
			if !ri.Valid() {
				return nil, toConnectError(fmt.Errorf("%w: %q", models.ErrInvalidInterval, *ri))
			}
			r = models.Recurring(*ri)
		}
		patch.Recurrence = &r
	}

	found, err := store.UpdateTransaction(ctx, req.Msg.ID, patch)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !found {
		return nil, notFound("transaction", req.Msg.ID)
	}
	t, _ := store.TransactionByID(req.Msg.ID)
	return connect.NewResponse(&TransactionResponse{Transaction: t}), nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	found, err := store.DeleteTransaction(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !found {
		return nil, notFound("transaction", req.Msg.ID)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}

func (s *FinanceService) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	categories := store.Categories()
	if req.Msg.Type != "" {
		categories = store.CategoriesByType(req.Msg.Type)
	}
	return connect.NewResponse(&ListCategoriesResponse{Categories: categories}), nil
}

func (s *FinanceService) AddCategory(ctx context.Context, req *connect.Request[AddCategoryRequest]) (*connect.Response[CategoryResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	c, err := store.AddCategory(ctx, models.NewCategory{
		Name:  req.Msg.Name,
		Color: req.Msg.Color,
		Icon:  req.Msg.Icon,
		Type:  req.Msg.Type,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CategoryResponse{Category: c}), nil
}

func (s *FinanceService) UpdateCategory(ctx context.Context, req *connect.Request[UpdateCategoryRequest]) (*connect.Response[CategoryResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	found, err := store.UpdateCategory(ctx, req.Msg.ID, models.CategoryPatch{
		Name:  req.Msg.Name,
		Color: req.Msg.Color,
		Icon:  req.Msg.Icon,
		Type:  req.Msg.Type,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	if !found {
		return nil, notFound("category", req.Msg.ID)
	}
	c, _ := store.CategoryByID(req.Msg.ID)
	return connect.NewResponse(&CategoryResponse{Category: c}), nil
}

// DeleteCategory fails with CodeFailedPrecondition while transactions still
// reference the category.
func (s *FinanceService) DeleteCategory(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	found, err := store.DeleteCategory(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !found {
		return nil, notFound("category", req.Msg.ID)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}

// ListBudgets returns the caller's budgets with their progress as of today.
func (s *FinanceService) ListBudgets(ctx context.Context, _ *connect.Request[ListBudgetsRequest]) (*connect.Response[ListBudgetsResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	snap := store.Snapshot()
	progress := calculator.BudgetReport(snap.Budgets, snap.Categories, snap.Transactions, models.DateOf(s.now()))
	return connect.NewResponse(&ListBudgetsResponse{Budgets: snap.Budgets, Progress: progress}), nil
}

// AddBudget fails with CodeAlreadyExists when the category already has a budget.
func (s *FinanceService) AddBudget(ctx context.Context, req *connect.Request[AddBudgetRequest]) (*connect.Response[BudgetResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	b, err := store.AddBudget(ctx, models.NewBudget{
		CategoryID: req.Msg.CategoryID,
		Amount:     req.Msg.Amount,
		Period:     req.Msg.Period,
		StartDate:  req.Msg.StartDate,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&BudgetResponse{Budget: b}), nil
}

func (s *FinanceService) UpdateBudget(ctx context.Context, req *connect.Request[UpdateBudgetRequest]) (*connect.Response[BudgetResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	found, err := store.UpdateBudget(ctx, req.Msg.ID, models.BudgetPatch{
		CategoryID: req.Msg.CategoryID,
		Amount:     req.Msg.Amount,
		Period:     req.Msg.Period,
		StartDate:  req.Msg.StartDate,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	if !found {
		return nil, notFound("budget", req.Msg.ID)
	}
	b, _ := store.BudgetByID(req.Msg.ID)
	return connect.NewResponse(&BudgetResponse{Budget: b}), nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[DeleteResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	found, err := store.DeleteBudget(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !found {
		return nil, notFound("budget", req.Msg.ID)
	}
	return connect.NewResponse(&DeleteResponse{}), nil
}
