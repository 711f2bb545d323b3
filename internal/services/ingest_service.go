package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"momo-insights/internal/cleaner"
	"momo-insights/internal/parser"
	"momo-insights/pkg"
	"momo-insights/pkg/database"
	middleware "momo-insights/pkg/middlewares"
	"momo-insights/pkg/models"
	"momo-insights/pkg/repositories"
	"momo-insights/pkg/views"
)

type IngestService interface {
	// Ingest runs the upload pipeline: parse -> clean -> persist. Malformed
	// XML fails the whole upload with zero rows persisted; unrecognized
	// messages are counted as skipped.
	Ingest(ctx context.Context, traceID string, userID uuid.UUID, data []byte) (views.UploadSummary, error)
	// Reset deletes every transaction of the user.
	Reset(ctx context.Context, traceID string, userID uuid.UUID) (int64, error)
}

type IngestServiceImpl struct {
	logger *zap.Logger
	db     *database.DB
	txRepo repositories.TransactionRepository
}

func NewIngestService(logger *zap.Logger, db *database.DB, txRepo repositories.TransactionRepository) IngestService {
	return &IngestServiceImpl{
		logger: logger,
		db:     db,
		txRepo: txRepo,
	}
}

func (s *IngestServiceImpl) Ingest(ctx context.Context, traceID string, userID uuid.UUID, data []byte) (views.UploadSummary, error) {
	messages, err := parser.Parse(data)
	if err != nil {
		s.logger.Warn("upload rejected",
			zap.String(pkg.TraceId, traceID),
			zap.Error(err),
		)
		return views.UploadSummary{}, err
	}

	records := make([]parser.Record, 0, len(messages))
	for _, sms := range messages {
		if record, ok := parser.Extract(sms); ok {
			records = append(records, record)
		}
	}
	records = cleaner.Clean(records)

	rows := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.Transaction{
			UserID:       userID,
			TxType:       r.TxType,
			Direction:    r.Direction,
			Amount:       r.Amount,
			Counterparty: r.Counterparty,
			OccurredAt:   r.OccurredAt,
			Body:         r.Body,
		})
	}

	inserted := 0
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		inserted, txErr = s.txRepo.BulkInsert(ctx, tx, rows)
		return txErr
	})
	if err != nil {
		return views.UploadSummary{}, pkg.HandleSQLError(traceID, s.logger, err)
	}

	summary := views.UploadSummary{
		Messages: len(messages),
		Inserted: inserted,
		Skipped:  len(messages) - inserted,
	}
	middleware.CountUploadOutcome(summary.Inserted, summary.Skipped)

	s.logger.Info("backup ingested",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.UserId, userID.String()),
		zap.Int("messages", summary.Messages),
		zap.Int("inserted", summary.Inserted),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *IngestServiceImpl) Reset(ctx context.Context, traceID string, userID uuid.UUID) (int64, error) {
	deleted, err := s.txRepo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.logger.Info("account transactions reset",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.UserId, userID.String()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
