package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// AuthServiceName is the fully-qualified name of the auth service.
	AuthServiceName = "fintrack.v1.AuthService"
	// FinanceServiceName is the fully-qualified name of the finance service.
	FinanceServiceName = "fintrack.v1.FinanceService"
)

// Procedure paths.
const (
	AuthServiceRegisterProcedure      = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure         = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure        = "/" + AuthServiceName + "/Logout"
	AuthServiceMeProcedure            = "/" + AuthServiceName + "/Me"
	AuthServiceUpdateProfileProcedure = "/" + AuthServiceName + "/UpdateProfile"

	FinanceServiceListTransactionsProcedure  = "/" + FinanceServiceName + "/ListTransactions"
	FinanceServiceAddTransactionProcedure    = "/" + FinanceServiceName + "/AddTransaction"
	FinanceServiceUpdateTransactionProcedure = "/" + FinanceServiceName + "/UpdateTransaction"
	FinanceServiceDeleteTransactionProcedure = "/" + FinanceServiceName + "/DeleteTransaction"
	FinanceServiceListCategoriesProcedure    = "/" + FinanceServiceName + "/ListCategories"
	FinanceServiceAddCategoryProcedure       = "/" + FinanceServiceName + "/AddCategory"
	FinanceServiceUpdateCategoryProcedure    = "/" + FinanceServiceName + "/UpdateCategory"
	FinanceServiceDeleteCategoryProcedure    = "/" + FinanceServiceName + "/DeleteCategory"
	FinanceServiceListBudgetsProcedure       = "/" + FinanceServiceName + "/ListBudgets"
	FinanceServiceAddBudgetProcedure         = "/" + FinanceServiceName + "/AddBudget"
	FinanceServiceUpdateBudgetProcedure      = "/" + FinanceServiceName + "/UpdateBudget"
	FinanceServiceDeleteBudgetProcedure      = "/" + FinanceServiceName + "/DeleteBudget"
	FinanceServiceGetDashboardProcedure      = "/" + FinanceServiceName + "/GetDashboard"
	FinanceServiceExportProcedure            = "/" + FinanceServiceName + "/Export"
	FinanceServiceImportProcedure            = "/" + FinanceServiceName + "/Import"
)

func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// NewAuthServiceHandler builds an HTTP handler serving svc. It returns the
// path prefix to mount it on.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, AuthServiceRegisterProcedure, svc.Register, opts)
	handle(mux, AuthServiceLoginProcedure, svc.Login, opts)
	handle(mux, AuthServiceLogoutProcedure, svc.Logout, opts)
	handle(mux, AuthServiceMeProcedure, svc.Me, opts)
	handle(mux, AuthServiceUpdateProfileProcedure, svc.UpdateProfile, opts)
	return "/" + AuthServiceName + "/", mux
}

// NewFinanceServiceHandler builds an HTTP handler serving svc. It returns the
// path prefix to mount it on.
func NewFinanceServiceHandler(svc *FinanceService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, FinanceServiceListTransactionsProcedure, svc.ListTransactions, opts)
	handle(mux, FinanceServiceAddTransactionProcedure, svc.AddTransaction, opts)
	handle(mux, FinanceServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts)
	handle(mux, FinanceServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts)
	handle(mux, FinanceServiceListCategoriesProcedure, svc.ListCategories, opts)
	handle(mux, FinanceServiceAddCategoryProcedure, svc.AddCategory, opts)
	handle(mux, FinanceServiceUpdateCategoryProcedure, svc.UpdateCategory, opts)
	handle(mux, FinanceServiceDeleteCategoryProcedure, svc.DeleteCategory, opts)
	handle(mux, FinanceServiceListBudgetsProcedure, svc.ListBudgets, opts)
	handle(mux, FinanceServiceAddBudgetProcedure, svc.AddBudget, opts)
	handle(mux, FinanceServiceUpdateBudgetProcedure, svc.UpdateBudget, opts)
	handle(mux, FinanceServiceDeleteBudgetProcedure, svc.DeleteBudget, opts)
	handle(mux, FinanceServiceGetDashboardProcedure, svc.GetDashboard, opts)
	handle(mux, FinanceServiceExportProcedure, svc.Export, opts)
	handle(mux, FinanceServiceImportProcedure, svc.Import, opts)
	return "/" + FinanceServiceName + "/", mux
}

// NewClient returns a unary client for one procedure using the JSON codec.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
