package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"momo-insights/pkg"
	"momo-insights/pkg/models"
	"momo-insights/pkg/views"
)

type stubTxRepo struct {
	lastListFilter views.ListFilter
	lastListUser   uuid.UUID
	transactions   []models.Transaction
	summary        views.Summary
	volumeByType   views.ChartData
	findErr        error
}

func (s *stubTxRepo) BulkInsert(_ context.Context, _ pgx.Tx, records []models.Transaction) (int, error) {
	return len(records), nil
}

func (s *stubTxRepo) List(_ context.Context, userID uuid.UUID, filter views.ListFilter) ([]models.Transaction, error) {
	s.lastListUser = userID
	s.lastListFilter = filter
	return s.transactions, nil
}

func (s *stubTxRepo) FindByID(_ context.Context, _ uuid.UUID, id int64) (models.Transaction, error) {
	if s.findErr != nil {
		return models.Transaction{}, s.findErr
	}
	if len(s.transactions) == 0 {
		return models.Transaction{}, pgx.ErrNoRows
	}
	return s.transactions[0], nil
}

func (s *stubTxRepo) Summary(_ context.Context, _ uuid.UUID) (views.Summary, error) {
	return s.summary, nil
}

func (s *stubTxRepo) VolumeByType(_ context.Context, _ uuid.UUID) (views.ChartData, error) {
	return s.volumeByType, nil
}

func (s *stubTxRepo) MonthlyVolume(_ context.Context, _ uuid.UUID) (views.ChartData, error) {
	return views.ChartData{Labels: []string{"2024-05"}, Data: []float64{3000}}, nil
}

func (s *stubTxRepo) DirectionTotals(_ context.Context, _ uuid.UUID) (views.ChartData, error) {
	return views.ChartData{Labels: []string{"credit", "debit"}, Data: []float64{2000, 1000}}, nil
}

func (s *stubTxRepo) DeleteAll(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(s.transactions)), nil
}

func TestOverview_PassesUserAndAggregatesThrough(t *testing.T) {
	userID := uuid.New()
	repo := &stubTxRepo{
		summary:      views.Summary{Total: 3, Credits: 2, Debits: 1},
		volumeByType: views.ChartData{Labels: []string{"deposit"}, Data: []float64{2000}},
		transactions: []models.Transaction{{ID: 1, UserID: userID, TxType: pkg.TxTypeDeposit}},
	}
	svc := NewDashboardService(zap.NewNop(), repo)

	data, err := svc.Overview(context.Background(), "trace-1", userID, views.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, userID, repo.lastListUser)
	assert.Equal(t, repo.summary, data.Summary)
	assert.Equal(t, repo.volumeByType, data.VolumeByType)
	assert.Len(t, data.Transactions, 1)
}

func TestOverview_NormalizesLimit(t *testing.T) {
	repo := &stubTxRepo{}
	svc := NewDashboardService(zap.NewNop(), repo)

	cases := map[int]int{
		0:    defaultListLimit,
		-10:  defaultListLimit,
		25:   25,
		1000: maxListLimit,
	}
	for in, want := range cases {
		_, err := svc.Overview(context.Background(), "trace-1", uuid.New(), views.ListFilter{Limit: in})
		require.NoError(t, err)
		assert.Equal(t, want, repo.lastListFilter.Limit, "limit %d", in)
	}
}

func TestOverview_PreservesFilter(t *testing.T) {
	repo := &stubTxRepo{}
	svc := NewDashboardService(zap.NewNop(), repo)

	minAmount := 100.0
	filter := views.ListFilter{
		TxType:    "payment",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MinAmount: &minAmount,
		Limit:     10,
	}
	_, err := svc.Overview(context.Background(), "trace-1", uuid.New(), filter)
	require.NoError(t, err)
	assert.Equal(t, "payment", repo.lastListFilter.TxType)
	assert.Equal(t, filter.StartDate, repo.lastListFilter.StartDate)
	require.NotNil(t, repo.lastListFilter.MinAmount)
	assert.Equal(t, 100.0, *repo.lastListFilter.MinAmount)
}

func TestDetail_NotFound(t *testing.T) {
	svc := NewDashboardService(zap.NewNop(), &stubTxRepo{})

	_, err := svc.Detail(context.Background(), "trace-1", uuid.New(), 42)
	require.Error(t, err)

	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkg.ErrRecordNotFoundCode.Status, appErr.Code.Status)
}

func TestDetail_Found(t *testing.T) {
	at := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	repo := &stubTxRepo{transactions: []models.Transaction{{
		ID:           7,
		TxType:       pkg.TxTypePayment,
		Direction:    pkg.DirectionDebit,
		Amount:       1000,
		Counterparty: "Jane Smith",
		OccurredAt:   at,
		Body:         "Your payment of 1,000 RWF to Jane Smith has been completed.",
	}}}
	svc := NewDashboardService(zap.NewNop(), repo)

	detail, err := svc.Detail(context.Background(), "trace-1", uuid.New(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.ID)
	assert.Equal(t, "payment", detail.TxType)
	assert.Equal(t, 1000.0, detail.Amount)
	assert.Equal(t, at, detail.OccurredAt)
}
