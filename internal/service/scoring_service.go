package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/report"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

const (
	outcomeOK             = "ok"
	outcomeInvalidInput   = "invalid_input"
	outcomeNotImplemented = "not_implemented"
	outcomeError          = "error"
)

// Outcome is a finished calculation in display form. Result holds the
// calculator's own result type.
type Outcome struct {
	Tool           domain.Tool `json:"tool"`
	Label          string      `json:"label"`
	Value          string      `json:"value"`
	Interpretation string      `json:"interpretation"`
	Result         any         `json:"result"`
	At             time.Time   `json:"at"`
}

func (o Outcome) Entry() report.Entry {
	return report.Entry{
		At:             o.At,
		Label:          o.Label,
		Value:          o.Value,
		Interpretation: o.Interpretation,
	}
}

// Meta ties a calculation to a session report and an operator. Both are
// optional.
type Meta struct {
	SessionID *uuid.UUID
	Operator  string
}

type ScoringService struct {
	sessions *SessionStore
	history  *HistoryService
	metrics  *metrics.Collector
	log      *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewScoringService(sessions *SessionStore, history *HistoryService, m *metrics.Collector, log *zap.Logger) *ScoringService {
	return &ScoringService{
		sessions: sessions,
		history:  history,
		metrics:  m,
		log:      log,
		tracer:   otel.Tracer("nexus/service"),
		now:      time.Now,
	}
}

func (s *ScoringService) Glasgow(ctx context.Context, m Meta, in scoring.GlasgowInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolGlasgow, in, func() (scoring.ScoreResult, string, string, error) {
		res, err := scoring.Glasgow(in)
		return res, fmt.Sprintf("%d/15", res.Total), res.Interpretation, err
	})
}

func (s *ScoringService) APGAR(ctx context.Context, m Meta, in scoring.APGARInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolAPGAR, in, func() (scoring.ScoreResult, string, string, error) {
		res, err := scoring.APGAR(in)
		return res, fmt.Sprintf("%d/10", res.Total), res.Interpretation, err
	})
}

func (s *ScoringService) NIHSS(ctx context.Context, m Meta, in scoring.NIHSSInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolNIHSS, in, func() (scoring.NIHSSResult, string, string, error) {
		res, err := scoring.NIHSS(in)
		value := fmt.Sprintf("%d/%d", res.Total, res.Max)
		if n := len(res.Untestable); n > 0 {
			value += fmt.Sprintf(" (%d untestable)", n)
		}
		return res, value, res.Interpretation, err
	})
}

func (s *ScoringService) Glycemia(ctx context.Context, m Meta, in scoring.GlycemiaInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolGlycemia, in, func() (scoring.ConversionResult, string, string, error) {
		res, err := scoring.ConvertGlycemia(in)
		value := fmt.Sprintf("%.2f g/L | %.2f mmol/L | %.0f mg/dL", res.GramsPerLiter, res.MmolPerLiter, res.MgPerDeciliter)
		return res, value, res.Interpretation, err
	})
}

func (s *ScoringService) Framingham(ctx context.Context, m Meta, in scoring.FraminghamInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolFramingham, in, func() (scoring.FraminghamResult, string, string, error) {
		res, err := scoring.Framingham(in)
		return res, fmt.Sprintf("%d%% (%d points)", res.RiskPercent, res.Points), res.Interpretation, err
	})
}

func (s *ScoringService) BMI(ctx context.Context, m Meta, in scoring.BMIInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolBMI, in, func() (scoring.BMIResult, string, string, error) {
		res, err := scoring.BMI(in)
		return res, fmt.Sprintf("%.1f kg/m²", res.BMI), res.Interpretation, err
	})
}

func (s *ScoringService) Clearance(ctx context.Context, m Meta, in scoring.ClearanceInput) (Outcome, error) {
	return record(ctx, s, m, domain.ToolClearance, in, func() (scoring.ClearanceResult, string, string, error) {
		res, err := scoring.Clearance(in)
		value := fmt.Sprintf("CG %.1f mL/min | MDRD %.1f mL/min/1.73m²", res.CockcroftGault, res.MDRD)
		return res, value, res.Interpretation, err
	})
}

// RangeCheck is a measured value placed against its reference range.
type RangeCheck struct {
	Parameter string             `json:"parameter"`
	Category  scoring.Category   `json:"category"`
	Value     float64            `json:"value"`
	Range     scoring.RangeEntry `json:"range"`
	Status    string             `json:"status"`
}

// CheckRange classifies value against the reference range of parameter.
func (s *ScoringService) CheckRange(ctx context.Context, m Meta, parameter string, value float64) (Outcome, error) {
	in := struct {
		Parameter string  `json:"parameter"`
		Value     float64 `json:"value"`
	}{parameter, value}

	return record(ctx, s, m, domain.ToolReferenceRanges, in, func() (RangeCheck, string, string, error) {
		entry, category, ok := scoring.LookupRange(parameter)
		if !ok {
			return RangeCheck{}, "", "", &scoring.InputError{Field: "parameter", Reason: fmt.Sprintf("has no reference range: %q", parameter)}
		}

		status := "Within range"
		switch {
		case entry.Contains(value):
		case value < entry.Min:
			status = "Below range"
		default:
			status = "Above range"
		}

		check := RangeCheck{Parameter: entry.Parameter, Category: category, Value: value, Range: entry, Status: status}
		display := fmt.Sprintf("%s %g %s [%g-%g]", entry.Parameter, value, entry.Unit, entry.Min, entry.Max)
		return check, display, status, nil
	})
}

// Unavailable reports a menu entry with no calculation behind it.
func (s *ScoringService) Unavailable(ctx context.Context, tool domain.Tool) error {
	_, span := s.tracer.Start(ctx, "scoring."+string(tool))
	defer span.End()

	err := fmt.Errorf("%s: %w", tool.Label(), scoring.ErrConfigurationGap)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.CalculationsTotal.WithLabelValues(string(tool), outcomeNotImplemented).Inc()
	s.log.Info("calculation not available", zap.String("tool", string(tool)))
	return err
}

func record[T any](ctx context.Context, s *ScoringService, m Meta, tool domain.Tool, inputs any, calc func() (T, string, string, error)) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "scoring."+string(tool),
		trace.WithAttributes(attribute.String("nexus.tool", string(tool))),
	)
	defer span.End()

	var rep *report.Report
	if m.SessionID != nil {
		r, err := s.sessions.Get(*m.SessionID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Outcome{}, err
		}
		rep = r
	}

	start := time.Now()
	result, value, interpretation, err := calc()
	s.metrics.CalculationDuration.WithLabelValues(string(tool)).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := outcomeError
		if errors.Is(err, scoring.ErrInvalidInput) {
			outcome = outcomeInvalidInput
		}
		s.metrics.CalculationsTotal.WithLabelValues(string(tool), outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Info("calculation rejected", zap.String("tool", string(tool)), zap.Error(err))
		return Outcome{}, err
	}

	out := Outcome{
		Tool:           tool,
		Label:          tool.Label(),
		Value:          value,
		Interpretation: interpretation,
		Result:         result,
		At:             s.now(),
	}

	s.metrics.CalculationsTotal.WithLabelValues(string(tool), outcomeOK).Inc()
	span.SetAttributes(attribute.String("nexus.interpretation", interpretation))

	if rep != nil {
		rep.Append(out.Entry())
	}

	if s.history.Enabled() {
		raw, err := json.Marshal(inputs)
		if err != nil {
			s.log.Warn("failed to encode calculation inputs", zap.Error(err))
			raw = []byte("{}")
		}
		s.history.Enqueue(&domain.CalculationRecord{
			ID:             uuid.New(),
			CreatedAt:      out.At,
			Tool:           tool,
			Inputs:         string(raw),
			Value:          value,
			Interpretation: interpretation,
			SessionID:      m.SessionID,
			Operator:       m.Operator,
		})
	}

	s.log.Debug("calculation completed",
		zap.String("tool", string(tool)),
		zap.String("value", value),
		zap.String("interpretation", interpretation),
	)

	return out, nil
}
