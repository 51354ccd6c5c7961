// Package service wires the fetch, analysis, persistence and narrative
// components into the pulse market analysis service.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fnolab/pulse/database"
	"github.com/fnolab/pulse/engine"
	"github.com/fnolab/pulse/fetch"
	"github.com/fnolab/pulse/narrative"
	"github.com/fnolab/pulse/optionchain"
	"github.com/fnolab/pulse/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	// chainRefreshInterval is the option chain refresh cadence.
	chainRefreshInterval = time.Minute
)

// PulseConfig represents the configuration struct for the pulse service.
type PulseConfig struct {
	// Symbol represents the tracked index symbol.
	Symbol string
	// GroqAPIKey is the narrative classifier API key. It may be empty, in
	// which case every cycle uses the rule based fallback.
	GroqAPIKey string
	// DatabaseEndpoint represents the database connection endpoint. It may
	// be empty, in which case results are not persisted.
	DatabaseEndpoint string
	// DatabaseUser is the database user.
	DatabaseUser string
	// DatabasePass is the database user pass.
	DatabasePass string
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config has sane inputs.
func (cfg *PulseConfig) Validate() error {
	var errs error

	if cfg.Symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("no symbol provided for pulse service"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Pulse represents the market analysis service. It runs independent analysis
// cycles per timeframe on fixed cadences and caches the latest result of each.
type Pulse struct {
	cfg            *PulseConfig
	fetchManager   *fetch.Manager
	analysisEngine *engine.Engine
	store          database.AnalysisStorer
	jobScheduler   *gocron.Scheduler
	logger         *zerolog.Logger

	resultsMtx sync.RWMutex
	results    map[shared.Timeframe]*shared.AnalysisResult
}

// NewPulse initializes a new pulse service.
func NewPulse(ctx context.Context, cfg *PulseConfig) (*Pulse, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating pulse config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "pulse").Logger()

	nse := fetch.NewNSEClient(&fetch.NSEConfig{})

	fetchMgrLogger := logger.With().Str("component", "fetchmanager").Logger()
	fetchMgr, err := fetch.NewManager(&fetch.ManagerConfig{
		Fetcher: nse,
		Symbol:  cfg.Symbol,
		Logger:  &fetchMgrLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating fetch manager: %w", err)
	}

	var classifier engine.Classifier
	if cfg.GroqAPIKey != "" {
		classifierLogger := logger.With().Str("component", "classifier").Logger()
		groq, err := narrative.NewGroqClassifier(&narrative.GroqConfig{
			APIKey: cfg.GroqAPIKey,
			Logger: &classifierLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating groq classifier: %w", err)
		}
		classifier = groq
	} else {
		logger.Info().Msg("no groq api key provided, narrative analysis will use the rule based fallback")
	}

	var store database.AnalysisStorer
	if cfg.DatabaseEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DatabaseEndpoint,
			User:     cfg.DatabaseUser,
			Pass:     cfg.DatabasePass,
			Logger:   &dbLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating database: %w", err)
		}
		store = db
	} else {
		logger.Info().Msg("no database endpoint provided, analysis results will not be persisted")
	}

	engineLogger := logger.With().Str("component", "engine").Logger()
	analysisEngine := engine.NewEngine(&engine.EngineConfig{
		Classifier: classifier,
		Thresholds: optionchain.DefaultThresholds(),
		Logger:     &engineLogger,
	})

	_, loc, err := shared.KolkataTime()
	if err != nil {
		return nil, fmt.Errorf("fetching kolkata time: %w", err)
	}

	service := &Pulse{
		cfg:            cfg,
		fetchManager:   fetchMgr,
		analysisEngine: analysisEngine,
		store:          store,
		jobScheduler:   gocron.NewScheduler(loc),
		logger:         &logger,
		results:        make(map[shared.Timeframe]*shared.AnalysisResult),
	}

	return service, nil
}

// LatestAnalysis returns the most recent analysis result for the provided
// timeframe, or nil when no cycle has completed yet.
func (p *Pulse) LatestAnalysis(timeframe shared.Timeframe) *shared.AnalysisResult {
	p.resultsMtx.RLock()
	defer p.resultsMtx.RUnlock()

	return p.results[timeframe]
}

// refreshOptionChain refreshes the option chain capture.
func (p *Pulse) refreshOptionChain(ctx context.Context) {
	err := p.fetchManager.RefreshOptionChain(ctx)
	if err != nil {
		p.logger.Error().Msgf("refreshing option chain: %v", err)
	}
}

// analyzeTimeframe runs one analysis cycle for the provided timeframe.
func (p *Pulse) analyzeTimeframe(ctx context.Context, timeframe shared.Timeframe) {
	err := p.fetchManager.RefreshCandles(ctx, timeframe)
	if err != nil {
		// Analysis proceeds on whatever the snapshot already holds.
		p.logger.Error().Msgf("refreshing candles: %v", err)
	}

	snapshot := p.fetchManager.CandleSnapshot(timeframe)
	chain, availability := p.fetchManager.ChainSnapshot()

	result := p.analysisEngine.Analyze(ctx, &engine.Input{
		Bars:         snapshot.LastN(snapshot.Count()),
		Chain:        chain,
		SpotPrice:    p.fetchManager.SpotPrice(),
		Timeframe:    timeframe,
		Availability: availability,
	})

	p.resultsMtx.Lock()
	p.results[timeframe] = result
	p.resultsMtx.Unlock()

	p.logger.Info().Msgf("%s analysis: bias=%s momentum=%s risk=%s strategy=%s fallback=%t",
		timeframe.String(), result.Bias.String(), result.MomentumStrength.String(),
		result.RiskLevel.String(), result.SuggestedStrategy.String(), result.Fallback)

	if p.store != nil {
		err = p.store.PersistAnalysis(ctx, result)
		if err != nil {
			p.logger.Error().Msgf("persisting %s analysis: %v", timeframe.String(), err)
		}
	}
}

// Run handles the lifecycle processes of the pulse service.
func (p *Pulse) Run(ctx context.Context) {
	// Prime the option chain before the first analysis cycles fire.
	p.refreshOptionChain(ctx)

	_, err := p.jobScheduler.Every(chainRefreshInterval).Do(func() {
		p.refreshOptionChain(ctx)
	})
	if err != nil {
		p.logger.Error().Msgf("scheduling option chain refresh: %v", err)
		p.cfg.Cancel()
		return
	}

	for _, timeframe := range []shared.Timeframe{shared.OneMinute, shared.FiveMinute, shared.FifteenMinute} {
		timeframe := timeframe
		_, err := p.jobScheduler.Every(timeframe.Duration()).Do(func() {
			p.analyzeTimeframe(ctx, timeframe)
		})
		if err != nil {
			p.logger.Error().Msgf("scheduling %s analysis: %v", timeframe.String(), err)
			p.cfg.Cancel()
			return
		}
	}

	p.jobScheduler.StartAsync()

	<-ctx.Done()
	p.jobScheduler.Stop()
}
