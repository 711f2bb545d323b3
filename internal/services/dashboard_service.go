package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"momo-insights/pkg"
	"momo-insights/pkg/models"
	"momo-insights/pkg/repositories"
	"momo-insights/pkg/views"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// DashboardData shapes one dashboard page render: header counts, chart
// payloads, and the filtered detail listing.
type DashboardData struct {
	Summary         views.Summary
	VolumeByType    views.ChartData
	MonthlyVolume   views.ChartData
	DirectionTotals views.ChartData
	Transactions    []models.Transaction
}

type DashboardService interface {
	// Overview aggregates the requesting user's transactions only; the
	// filter narrows the listing, not the charts.
	Overview(ctx context.Context, traceID string, userID uuid.UUID, filter views.ListFilter) (DashboardData, error)
	// Detail returns a single transaction; other users' rows are not found.
	Detail(ctx context.Context, traceID string, userID uuid.UUID, id int64) (views.TransactionDetail, error)
}

type DashboardServiceImpl struct {
	logger *zap.Logger
	txRepo repositories.TransactionRepository
}

func NewDashboardService(logger *zap.Logger, txRepo repositories.TransactionRepository) DashboardService {
	return &DashboardServiceImpl{
		logger: logger,
		txRepo: txRepo,
	}
}

func (s *DashboardServiceImpl) Overview(ctx context.Context, traceID string, userID uuid.UUID, filter views.ListFilter) (DashboardData, error) {
	filter.Limit = normalizeLimit(filter.Limit)

	var data DashboardData
	var err error

	if data.Summary, err = s.txRepo.Summary(ctx, userID); err != nil {
		return DashboardData{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if data.VolumeByType, err = s.txRepo.VolumeByType(ctx, userID); err != nil {
		return DashboardData{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if data.MonthlyVolume, err = s.txRepo.MonthlyVolume(ctx, userID); err != nil {
		return DashboardData{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if data.DirectionTotals, err = s.txRepo.DirectionTotals(ctx, userID); err != nil {
		return DashboardData{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if data.Transactions, err = s.txRepo.List(ctx, userID, filter); err != nil {
		return DashboardData{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return data, nil
}

func (s *DashboardServiceImpl) Detail(ctx context.Context, traceID string, userID uuid.UUID, id int64) (views.TransactionDetail, error) {
	record, err := s.txRepo.FindByID(ctx, userID, id)
	if err != nil {
		return views.TransactionDetail{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return record.ToDetail(), nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
