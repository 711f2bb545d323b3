package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"momo-insights/pkg/database"
	"momo-insights/pkg/models"
	"momo-insights/pkg/views"
)

type TransactionRepository interface {
	// BulkInsert persists parsed records inside the caller's transaction.
	BulkInsert(ctx context.Context, tx pgx.Tx, records []models.Transaction) (int, error)
	List(ctx context.Context, userID uuid.UUID, filter views.ListFilter) ([]models.Transaction, error)
	FindByID(ctx context.Context, userID uuid.UUID, id int64) (models.Transaction, error)
	Summary(ctx context.Context, userID uuid.UUID) (views.Summary, error)
	// VolumeByType sums amounts per transaction type for the pie chart.
	VolumeByType(ctx context.Context, userID uuid.UUID) (views.ChartData, error)
	// MonthlyVolume sums amounts per YYYY-MM bucket, chronologically.
	MonthlyVolume(ctx context.Context, userID uuid.UUID) (views.ChartData, error)
	// DirectionTotals sums credited vs debited amounts.
	DirectionTotals(ctx context.Context, userID uuid.UUID) (views.ChartData, error)
	// DeleteAll removes every transaction of the user (bulk account reset).
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type TransactionRepositoryImpl struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (r TransactionRepositoryImpl) BulkInsert(ctx context.Context, tx pgx.Tx, records []models.Transaction) (int, error) {
	inserted := 0
	for _, record := range records {
		_, err := tx.Exec(ctx, `
						INSERT INTO transactions (user_id, tx_type, direction, amount, counterparty, occurred_at, body)
						VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			record.UserID,
			record.TxType,
			record.Direction,
			record.Amount,
			record.Counterparty,
			record.OccurredAt,
			record.Body,
		)
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (r TransactionRepositoryImpl) List(ctx context.Context, userID uuid.UUID, filter views.ListFilter) ([]models.Transaction, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.TxType != "" {
		args = append(args, filter.TxType)
		conditions = append(conditions, fmt.Sprintf("tx_type = $%d", len(args)))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("occurred_at <= $%d", len(args)))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		conditions = append(conditions, fmt.Sprintf("amount >= $%d", len(args)))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		conditions = append(conditions, fmt.Sprintf("amount <= $%d", len(args)))
	}
	args = append(args, filter.Limit)

	query := fmt.Sprintf(`SELECT id, user_id, tx_type, direction, amount, counterparty, occurred_at, body, created_at
		FROM transactions
		WHERE %s
		ORDER BY occurred_at DESC
		LIMIT $%d`, strings.Join(conditions, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err = rows.Scan(
			&t.ID,
			&t.UserID,
			&t.TxType,
			&t.Direction,
			&t.Amount,
			&t.Counterparty,
			&t.OccurredAt,
			&t.Body,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

func (r TransactionRepositoryImpl) FindByID(ctx context.Context, userID uuid.UUID, id int64) (models.Transaction, error) {
	var t models.Transaction
	err := r.db.QueryRow(ctx, `SELECT id, user_id, tx_type, direction, amount, counterparty, occurred_at, body, created_at
		FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(
		&t.ID,
		&t.UserID,
		&t.TxType,
		&t.Direction,
		&t.Amount,
		&t.Counterparty,
		&t.OccurredAt,
		&t.Body,
		&t.CreatedAt,
	)
	return t, err
}

func (r TransactionRepositoryImpl) Summary(ctx context.Context, userID uuid.UUID) (views.Summary, error) {
	var s views.Summary
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
			COUNT(*) FILTER (WHERE direction = 'credit'),
			COUNT(*) FILTER (WHERE direction = 'debit')
		FROM transactions
		WHERE user_id = $1`,
		userID,
	).Scan(&s.Total, &s.Credits, &s.Debits)
	return s, err
}

func (r TransactionRepositoryImpl) VolumeByType(ctx context.Context, userID uuid.UUID) (views.ChartData, error) {
	rows, err := r.db.Query(ctx, `SELECT tx_type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		GROUP BY tx_type
		ORDER BY tx_type`,
		userID,
	)
	if err != nil {
		return views.ChartData{}, err
	}
	defer rows.Close()
	return scanChart(rows)
}

func (r TransactionRepositoryImpl) MonthlyVolume(ctx context.Context, userID uuid.UUID) (views.ChartData, error) {
	rows, err := r.db.Query(ctx, `SELECT to_char(occurred_at, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		GROUP BY month
		ORDER BY month`,
		userID,
	)
	if err != nil {
		return views.ChartData{}, err
	}
	defer rows.Close()
	return scanChart(rows)
}

func (r TransactionRepositoryImpl) DirectionTotals(ctx context.Context, userID uuid.UUID) (views.ChartData, error) {
	rows, err := r.db.Query(ctx, `SELECT direction, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		GROUP BY direction
		ORDER BY direction`,
		userID,
	)
	if err != nil {
		return views.ChartData{}, err
	}
	defer rows.Close()
	return scanChart(rows)
}

func (r TransactionRepositoryImpl) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanChart(rows pgx.Rows) (views.ChartData, error) {
	chart := views.ChartData{Labels: []string{}, Data: []float64{}}
	for rows.Next() {
		var label string
		var total float64
		if err := rows.Scan(&label, &total); err != nil {
			return views.ChartData{}, err
		}
		chart.Labels = append(chart.Labels, label)
		chart.Data = append(chart.Data, total)
	}
	return chart, rows.Err()
}
