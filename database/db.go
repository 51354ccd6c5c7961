package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fnolab/pulse/shared"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createAnalysisTableSQL = "CREATE TABLE IF NOT EXISTS analysis (id TEXT PRIMARY KEY, timeframe TEXT, bias TEXT, confidence TEXT, momentum TEXT, volatility TEXT, risk TEXT, strategy TEXT, writerpressure TEXT, rangeupper REAL, rangelower REAL, inference TEXT, reasoning TEXT, fallback INTEGER, createdon INTEGER)"
	persistAnalysisSQL     = "INSERT INTO analysis(id, timeframe, bias, confidence, momentum, volatility, risk, strategy, writerpressure, rangeupper, rangelower, inference, reasoning, fallback, createdon) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"
	latestAnalysisSQL      = "SELECT id, bias, confidence, reasoning, fallback, createdon FROM analysis WHERE timeframe = ? ORDER BY createdon DESC LIMIT 1"
)

// AnalysisStorer defines the requirements for storing analysis results.
type AnalysisStorer interface {
	// PersistAnalysis stores the provided analysis result to the database.
	PersistAnalysis(ctx context.Context, result *shared.AnalysisResult) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the AnalysisStorer interface.
var _ AnalysisStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createAnalysisTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}
	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("creating analysis table: %d -> %s", idx, errStr)
	}

	return nil
}

// PersistAnalysis stores the provided analysis result to the database.
func (db *Database) PersistAnalysis(ctx context.Context, result *shared.AnalysisResult) error {
	if result.ID == "" {
		db.cfg.Logger.Error().Msgf("refusing to persist analysis result without an id: %s",
			spew.Sdump(result))
		return fmt.Errorf("analysis result id cannot be an empty string")
	}

	fallback := 0
	if result.Fallback {
		fallback = 1
	}

	resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistAnalysisSQL,
			PositionalParams: []any{result.ID, result.Timeframe.String(), result.Bias.String(),
				result.Confidence.String(), result.MomentumStrength.String(), result.Volatility.String(),
				result.RiskLevel.String(), result.SuggestedStrategy.String(), result.WriterPressure.String(),
				result.PriceRange.Upper, result.PriceRange.Lower, result.Inference, result.Reasoning,
				fallback, result.CreatedOn.Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}
	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("persisting analysis %s: %d -> %s", result.ID, idx, errStr)
	}

	return nil
}

// LatestAnalysisID returns the id of the most recent stored analysis for the
// provided timeframe, or an empty string when none exists.
func (db *Database) LatestAnalysisID(ctx context.Context, timeframe shared.Timeframe) (string, error) {
	resp, err := db.client.QuerySingle(ctx, latestAnalysisSQL, timeframe.String())
	if err != nil {
		return "", err
	}

	rows := resp.GetQueryResultsAssoc()
	if len(rows) == 0 || len(rows[0].Rows) == 0 {
		return "", nil
	}

	id, ok := rows[0].Rows[0]["id"].(string)
	if !ok {
		db.cfg.Logger.Error().Msgf("unexpected analysis id column type: %s", spew.Sdump(rows[0].Rows[0]))
		return "", fmt.Errorf("unexpected analysis id column type")
	}

	return id, nil
}
