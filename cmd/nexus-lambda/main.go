package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

// message is one queued calculation request.
type message struct {
	Tool    domain.Tool     `json:"tool"`
	Payload json.RawMessage `json:"payload"`
}

type calculator interface {
	Calculate(ctx context.Context, tool domain.Tool, payload []byte) (service.Outcome, error)
}

type historyFlusher interface {
	Flush(ctx context.Context) error
}

type processor struct {
	calc    calculator
	history historyFlusher
	log     *zap.Logger
}

// Handle computes every record of the batch. Records that can never
// succeed are logged and skipped; anything else fails the batch so SQS
// redelivers it. Calculation history is written out before Handle
// returns, since the environment may be frozen afterwards.
func (p *processor) Handle(ctx context.Context, event events.SQSEvent) error {
	err := p.process(ctx, event)
	if ferr := p.history.Flush(ctx); ferr != nil {
		p.log.Error("failed to flush calculation history", zap.Error(ferr))
		if err == nil {
			err = fmt.Errorf("flushing history: %w", ferr)
		}
	}
	return err
}

func (p *processor) process(ctx context.Context, event events.SQSEvent) error {
	for _, record := range event.Records {
		var msg message
		if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
			p.log.Warn("invalid message", zap.String("message_id", record.MessageId), zap.Error(err))
			continue
		}

		out, err := p.calc.Calculate(ctx, msg.Tool, msg.Payload)
		switch {
		case err == nil:
			p.log.Info("calculation completed",
				zap.String("message_id", record.MessageId),
				zap.String("tool", string(out.Tool)),
				zap.String("value", out.Value),
				zap.String("interpretation", out.Interpretation),
			)
		case errors.Is(err, scoring.ErrInvalidInput),
			errors.Is(err, scoring.ErrConfigurationGap),
			errors.Is(err, service.ErrUnknownTool):
			p.log.Warn("calculation skipped",
				zap.String("message_id", record.MessageId),
				zap.String("tool", string(msg.Tool)),
				zap.Error(err),
			)
		default:
			p.log.Error("calculation failed", zap.String("message_id", record.MessageId), zap.Error(err))
			return fmt.Errorf("message %s: %w", record.MessageId, err)
		}
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	m := metrics.NewCollector(cfg.App.Name, nil)

	var repo service.CalculationRepository
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		repo = repository.NewCalculationRepository(db)
	}

	history := service.NewHistoryService(repo, cfg.History, m, log)
	scoringSvc := service.NewScoringService(service.NewSessionStore(cfg.Session, m, log), history, m, log)

	p := &processor{calc: service.NewDispatcher(scoringSvc), history: history, log: log}
	lambda.Start(p.Handle)
}
