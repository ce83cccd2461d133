package service

import (
	"github.com/shubh-aarambh/fintrack/internal/backup"
	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/models"
)

// Auth

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type MeRequest struct{}

type UserResponse struct {
	User models.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Transactions

type ListTransactionsRequest struct {
	Search string                 `json:"search,omitempty"`
	Type   models.TransactionType `json:"type,omitempty"`

	// Limit caps the result after filtering; 0 means no cap.
	Limit int `json:"limit,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
}

type AddTransactionRequest struct {
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"`
	CategoryID  string                 `json:"categoryId"`
	Date        models.Date            `json:"date"`
	Description string                 `json:"description"`

	// RecurringInterval is empty for a one-off transaction.
	RecurringInterval models.RecurringInterval `json:"recurringInterval,omitempty"`
}

// UpdateTransactionRequest carries only the fields to change.
// A RecurringInterval of "" clears the recurrence.
type UpdateTransactionRequest struct {
	ID                string                    `json:"id"`
	Amount            *float64                  `json:"amount,omitempty"`
	Type              *models.TransactionType   `json:"type,omitempty"`
	CategoryID        *string                   `json:"categoryId,omitempty"`
	Date              *models.Date              `json:"date,omitempty"`
	Description       *string                   `json:"description,omitempty"`
	RecurringInterval *models.RecurringInterval `json:"recurringInterval,omitempty"`
}

type TransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

// Categories

type ListCategoriesRequest struct {
	Type models.TransactionType `json:"type,omitempty"`
}

type ListCategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

type AddCategoryRequest struct {
	Name  string                 `json:"name"`
	Color string                 `json:"color"`
	Icon  string                 `json:"icon"`
	Type  models.TransactionType `json:"type"`
}

type UpdateCategoryRequest struct {
	ID    string                  `json:"id"`
	Name  *string                 `json:"name,omitempty"`
	Color *string                 `json:"color,omitempty"`
	Icon  *string                 `json:"icon,omitempty"`
	Type  *models.TransactionType `json:"type,omitempty"`
}

type CategoryResponse struct {
	Category models.Category `json:"category"`
}

// Budgets

type ListBudgetsRequest struct{}

type ListBudgetsResponse struct {
	Budgets  []models.Budget       `json:"budgets"`
	Progress []calculator.Progress `json:"progress"`
}

type AddBudgetRequest struct {
	CategoryID string              `json:"categoryId"`
	Amount     float64             `json:"amount"`
	Period     models.BudgetPeriod `json:"period"`
	StartDate  models.Date         `json:"startDate"`
}

type UpdateBudgetRequest struct {
	ID         string               `json:"id"`
	CategoryID *string              `json:"categoryId,omitempty"`
	Amount     *float64             `json:"amount,omitempty"`
	Period     *models.BudgetPeriod `json:"period,omitempty"`
	StartDate  *models.Date         `json:"startDate,omitempty"`
}

type BudgetResponse struct {
	Budget models.Budget `json:"budget"`
}

// Shared

type DeleteRequest struct {
	ID string `json:"id"`
}

type DeleteResponse struct{}

// Dashboard

type GetDashboardRequest struct {
	TrendMonths int `json:"trendMonths,omitempty"`
	RecentCount int `json:"recentCount,omitempty"`
}

type GetDashboardResponse struct {
	Summary calculator.Summary `json:"summary"`
}

// Backup

type ExportRequest struct{}

type ExportResponse struct {
	Filename string          `json:"filename"`
	Document backup.Document `json:"document"`
}

type ImportRequest struct {
	Document backup.Document `json:"document"`
}

type ImportResponse struct {
	Transactions int `json:"transactions"`
	Categories   int `json:"categories"`
	Budgets      int `json:"budgets"`
}
