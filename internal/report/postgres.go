package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Table receives report rows when a PostgreSQL DSN is configured.
const Table = "expert_relevancy_scores"

const createTableSQL = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	run_id                TEXT             NOT NULL,
	expert_name           TEXT             NOT NULL,
	similarity_candidate  DOUBLE PRECISION NOT NULL,
	similarity_jd         DOUBLE PRECISION NOT NULL,
	candidate_score       DOUBLE PRECISION NOT NULL,
	jd_score              DOUBLE PRECISION NOT NULL,
	final_score           DOUBLE PRECISION NOT NULL,
	explanation_candidate TEXT             NOT NULL,
	explanation_jd        TEXT             NOT NULL,
	created_at            TIMESTAMPTZ      NOT NULL
)`

var tableColumns = []string{
	"run_id",
	"expert_name",
	"similarity_candidate",
	"similarity_jd",
	"candidate_score",
	"jd_score",
	"final_score",
	"explanation_candidate",
	"explanation_jd",
	"created_at",
}

type pgConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresSink copies report rows into PostgreSQL.
type PostgresSink struct {
	dsn    string
	logger *zap.Logger
	now    func() time.Time
}

func NewPostgresSink(dsn string, logger *zap.Logger) *PostgresSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresSink{dsn: dsn, logger: logger, now: time.Now}
}

// Save stores rows tagged with runID, creating the table when absent.
func (s *PostgresSink) Save(ctx context.Context, runID string, rows []Row) error {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	n, err := s.store(ctx, conn, runID, rows)
	if err != nil {
		return err
	}

	s.logger.Info("report stored in postgres", zap.String("table", Table), zap.Int64("rows", n))
	return nil
}

func (s *PostgresSink) store(ctx context.Context, conn pgConn, runID string, rows []Row) (int64, error) {
	if _, err := conn.Exec(ctx, createTableSQL); err != nil {
		return 0, fmt.Errorf("create table %s: %w", Table, err)
	}

	n, err := conn.CopyFrom(ctx, pgx.Identifier{Table}, tableColumns, pgx.CopyFromRows(tableRows(runID, s.now(), rows)))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", Table, err)
	}

	return n, nil
}

func tableRows(runID string, createdAt time.Time, rows []Row) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, []any{
			runID,
			row.ExpertName,
			row.SimilarityCandidate,
			row.SimilarityJD,
			row.CandidateScore,
			row.JDScore,
			row.FinalScore,
			row.ExplanationCandidate,
			row.ExplanationJD,
			createdAt,
		})
	}
	return out
}
