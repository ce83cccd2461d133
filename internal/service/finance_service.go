package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shubh-aarambh/fintrack/internal/auth"
	"github.com/shubh-aarambh/fintrack/internal/backup"
	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/middleware"
	"github.com/shubh-aarambh/fintrack/internal/records"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// FinanceService serves the signed-in user's transactions, categories,
// budgets and dashboard. Each call opens the caller's record store over the
// shared blob store.
type FinanceService struct {
	blobs       storage.Store
	directory   *auth.Directory
	storeOpts   []records.Option
	trendMonths int
	now         func() time.Time
	logger      *slog.Logger
}

// FinanceOption configures a FinanceService.
type FinanceOption func(*FinanceService)

// WithRecordOptions passes options to every record store the service opens.
func WithRecordOptions(opts ...records.Option) FinanceOption {
	return func(s *FinanceService) { s.storeOpts = append(s.storeOpts, opts...) }
}

// WithTrendMonths sets the default dashboard trend length.
func WithTrendMonths(n int) FinanceOption {
	return func(s *FinanceService) { s.trendMonths = n }
}

// WithNow sets the clock used for dashboards and export file names.
func WithNow(now func() time.Time) FinanceOption {
	return func(s *FinanceService) { s.now = now }
}

// WithFinanceLogger sets the service logger.
func WithFinanceLogger(l *slog.Logger) FinanceOption {
	return func(s *FinanceService) { s.logger = l }
}

// NewFinanceService creates a finance service over blobs.
func NewFinanceService(blobs storage.Store, directory *auth.Directory, opts ...FinanceOption) *FinanceService {
	s := &FinanceService{
		blobs:       blobs,
		directory:   directory,
		trendMonths: calculator.DefaultTrendMonths,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Record stores share the service clock unless told otherwise.
	s.storeOpts = append([]records.Option{records.WithClock(s.now), records.WithLogger(s.logger)}, s.storeOpts...)
	return s
}

// open loads the caller's record store.
func (s *FinanceService) open(ctx context.Context) (*records.Store, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	store, err := records.Open(ctx, s.blobs, userID, s.storeOpts...)
	if err != nil {
		return nil, toConnectError(err)
	}
	return store, nil
}

// GetDashboard computes balance, breakdown, trend, budget progress and recent
// transactions in one call.
func (s *FinanceService) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	opts := calculator.DashboardOptions{
		TrendMonths: req.Msg.TrendMonths,
		RecentCount: req.Msg.RecentCount,
	}
	if opts.TrendMonths <= 0 {
		opts.TrendMonths = s.trendMonths
	}

	summary := calculator.Dashboard(store.Snapshot(), s.now(), opts)
	return connect.NewResponse(&GetDashboardResponse{Summary: summary}), nil
}

// Export returns the caller's records as an export document.
func (s *FinanceService) Export(ctx context.Context, _ *connect.Request[ExportRequest]) (*connect.Response[ExportResponse], error) {
	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.directory.GetUserByID(ctx, store.UserID())
	if err != nil {
		return nil, toConnectError(err)
	}

	doc, err := backup.ExportUser(*user, store.Snapshot())
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExportResponse{
		Filename: backup.Filename(s.now()),
		Document: doc,
	}), nil
}

// Import replaces the caller's records with those in the document. When the
// document names a user, only that user's records are taken. The records are
// retagged for the caller.
func (s *FinanceService) Import(ctx context.Context, req *connect.Request[ImportRequest]) (*connect.Response[ImportResponse], error) {
	recs, err := req.Msg.Document.Decode()
	if err != nil {
		return nil, toConnectError(err)
	}
	if recs.User != nil && recs.User.ID != "" {
		recs = recs.OwnedBy(recs.User.ID)
	}

	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.ReplaceAll(ctx, recs.Snapshot()); err != nil {
		return nil, toConnectError(fmt.Errorf("import failed: %w", err))
	}

	return connect.NewResponse(&ImportResponse{
		Transactions: len(recs.Transactions),
		Categories:   len(recs.Categories),
		Budgets:      len(recs.Budgets),
	}), nil
}
