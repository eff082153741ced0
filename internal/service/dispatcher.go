package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
)

type operatorKey struct{}

// WithOperator attaches the authenticated operator to ctx; dispatched
// calculations record it in history.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operator)
}

func operatorFrom(ctx context.Context) string {
	op, _ := ctx.Value(operatorKey{}).(string)
	return op
}

// Dispatcher turns a tool name and a JSON payload into a calculation.
type Dispatcher struct {
	scoring  *ScoringService
	validate *validator.Validate
}

func NewDispatcher(s *ScoringService) *Dispatcher {
	return &Dispatcher{scoring: s, validate: newValidator()}
}

// Calculate decodes payload for tool, fills missing observations from the
// optional patient profile, and runs the calculation.
func (d *Dispatcher) Calculate(ctx context.Context, tool domain.Tool, payload []byte) (Outcome, error) {
	if !tool.IsValid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	if tool.Status() == domain.ToolNotImplemented {
		return Outcome{}, d.scoring.Unavailable(ctx, tool)
	}

	if len(payload) == 0 {
		payload = []byte("{}")
	}

	var env Envelope
	if err := decode(payload, &env); err != nil {
		return Outcome{}, err
	}
	if err := env.Patient.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: patient: %w", scoring.ErrInvalidInput, err)
	}

	meta := Meta{SessionID: env.SessionID, Operator: operatorFrom(ctx)}

	switch tool {
	case domain.ToolGlasgow:
		var req GlasgowRequest
		if err := d.bind(payload, &req); err != nil {
			return Outcome{}, err
		}
		return d.scoring.Glasgow(ctx, meta, scoring.GlasgowInput{
			Eyes:   *req.Eyes,
			Verbal: *req.Verbal,
			Motor:  *req.Motor,
		})

	case domain.ToolAPGAR:
		var req APGARRequest
		if err := d.bind(payload, &req); err != nil {
			return Outcome{}, err
		}
		return d.scoring.APGAR(ctx, meta, scoring.APGARInput{
			HeartRate:   *req.HeartRate,
			Respiration: *req.Respiration,
			MuscleTone:  *req.MuscleTone,
			Reflex:      *req.Reflex,
			Color:       *req.Color,
		})

	case domain.ToolNIHSS:
		var req NIHSSRequest
		if err := d.bind(payload, &req); err != nil {
			return Outcome{}, err
		}
		in, err := scoring.ParseNIHSSItems(req.Items)
		if err != nil {
			return Outcome{}, err
		}
		return d.scoring.NIHSS(ctx, meta, in)

	case domain.ToolGlycemia:
		var req GlycemiaRequest
		if err := d.bind(payload, &req); err != nil {
			return Outcome{}, err
		}
		unit, err := scoring.ParseGlycemiaUnit(req.Unit)
		if err != nil {
			return Outcome{}, err
		}
		return d.scoring.Glycemia(ctx, meta, scoring.GlycemiaInput{Value: *req.Value, Unit: unit})

	case domain.ToolFramingham:
		var req FraminghamRequest
		if err := decode(payload, &req); err != nil {
			return Outcome{}, err
		}
		if req.Age == nil {
			if age := env.Patient.Float(nil, patient.Age); age != nil {
				years := int(*age)
				req.Age = &years
			}
		}
		req.Sex = string(env.Patient.SexOr(scoring.Sex(req.Sex)))
		if err := d.check(&req); err != nil {
			return Outcome{}, err
		}
		return d.scoring.Framingham(ctx, meta, scoring.FraminghamInput{
			AgeYears:         *req.Age,
			Sex:              scoring.Sex(req.Sex),
			TotalCholesterol: *req.TotalCholesterol,
			HDL:              *req.HDL,
			SystolicBP:       *req.SystolicBP,
			Smoker:           req.Smoker,
			Diabetic:         req.Diabetic,
		})

	case domain.ToolBMI:
		var req BMIRequest
		if err := decode(payload, &req); err != nil {
			return Outcome{}, err
		}
		req.WeightKg = env.Patient.Float(req.WeightKg, patient.Weight)
		req.HeightCm = env.Patient.Float(req.HeightCm, patient.Height)
		if err := d.check(&req); err != nil {
			return Outcome{}, err
		}
		return d.scoring.BMI(ctx, meta, scoring.BMIInput{WeightKg: *req.WeightKg, HeightCm: *req.HeightCm})

	case domain.ToolClearance:
		var req ClearanceRequest
		if err := decode(payload, &req); err != nil {
			return Outcome{}, err
		}
		req.Age = env.Patient.Float(req.Age, patient.Age)
		req.WeightKg = env.Patient.Float(req.WeightKg, patient.Weight)
		req.CreatinineMgL = env.Patient.Float(req.CreatinineMgL, patient.Creatinine)
		req.Sex = string(env.Patient.SexOr(scoring.Sex(req.Sex)))
		if err := d.check(&req); err != nil {
			return Outcome{}, err
		}
		return d.scoring.Clearance(ctx, meta, scoring.ClearanceInput{
			AgeYears:      *req.Age,
			WeightKg:      *req.WeightKg,
			Sex:           scoring.Sex(req.Sex),
			CreatinineMgL: *req.CreatinineMgL,
		})

	case domain.ToolReferenceRanges:
		var req RangeRequest
		if err := d.bind(payload, &req); err != nil {
			return Outcome{}, err
		}
		if req.Parameter != "" {
			return d.scoring.CheckRange(ctx, meta, req.Parameter, *req.Value)
		}
		return d.listRanges(scoring.Category(req.Category))
	}

	return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
}

// listRanges answers a plain lookup. Nothing is calculated, so nothing is
// recorded.
func (d *Dispatcher) listRanges(category scoring.Category) (Outcome, error) {
	out := Outcome{Tool: domain.ToolReferenceRanges, Label: domain.ToolReferenceRanges.Label()}

	if category == "" {
		all := make(map[scoring.Category][]scoring.RangeEntry)
		for _, c := range scoring.Categories() {
			entries, err := scoring.ReferenceRanges(c)
			if err != nil {
				return Outcome{}, err
			}
			all[c] = entries
		}
		out.Value = fmt.Sprintf("%d categories", len(all))
		out.Result = all
		return out, nil
	}

	entries, err := scoring.ReferenceRanges(category)
	if err != nil {
		return Outcome{}, err
	}
	out.Value = fmt.Sprintf("%s: %d parameters", category, len(entries))
	out.Result = entries
	return out, nil
}

func (d *Dispatcher) bind(payload []byte, req any) error {
	if err := decode(payload, req); err != nil {
		return err
	}
	return d.check(req)
}

func (d *Dispatcher) check(req any) error {
	if err := d.validate.Struct(req); err != nil {
		return newValidationError(err)
	}
	return nil
}

func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", scoring.ErrInvalidInput, err)
	}
	return nil
}
