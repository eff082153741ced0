package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/report"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

type scoreOptions struct {
	reportPath string
	logLevel   string
}

func scoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Run one calculation and print the result",
	}
	cmd.PersistentFlags().StringVar(&opts.reportPath, "report", "", "Append the result line to this UTF-8 text file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	cmd.AddCommand(
		glasgowCmd(opts),
		apgarCmd(opts),
		nihssCmd(opts),
		glycemiaCmd(opts),
		framinghamCmd(opts),
		bmiCmd(opts),
		clearanceCmd(opts),
		unavailableCmd(opts, domain.ToolCervicalCollar, "collar"),
		unavailableCmd(opts, domain.ToolInterventionSheet, "intervention"),
	)
	return cmd
}

// calculate runs fn against a throwaway scoring service and prints the
// outcome line.
func calculate(cmd *cobra.Command, opts *scoreOptions, fn func(context.Context, *service.ScoringService) (service.Outcome, error)) error {
	log, err := logger.New(config.LogConfig{Level: opts.logLevel, Format: "console", OutputPath: "stderr"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.NewCollector("nexus", nil)
	history := service.NewHistoryService(nil, config.HistoryConfig{BufferSize: 1}, m, log)
	svc := service.NewScoringService(service.NewSessionStore(config.SessionConfig{}, m, log), history, m, log)

	out, err := fn(cmd.Context(), svc)
	if err != nil {
		return err
	}

	entry := out.Entry()
	fmt.Fprintln(cmd.OutOrStdout(), entry.Line())

	if opts.reportPath != "" {
		if err := report.AppendLine(opts.reportPath, entry); err != nil {
			return err
		}
		log.Debug("report line appended", zap.String("path", opts.reportPath))
	}
	return nil
}

func glasgowCmd(opts *scoreOptions) *cobra.Command {
	var in scoring.GlasgowInput

	cmd := &cobra.Command{
		Use:   "glasgow",
		Short: "Glasgow Coma Scale (3-15)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.Glasgow(ctx, service.Meta{}, in)
			})
		},
	}
	cmd.Flags().IntVar(&in.Eyes, "eyes", 0, "Eye opening (1-4)")
	cmd.Flags().IntVar(&in.Verbal, "verbal", 0, "Verbal response (1-5)")
	cmd.Flags().IntVar(&in.Motor, "motor", 0, "Motor response (1-6)")
	markRequired(cmd, "eyes", "verbal", "motor")
	return cmd
}

func apgarCmd(opts *scoreOptions) *cobra.Command {
	var in scoring.APGARInput

	cmd := &cobra.Command{
		Use:   "apgar",
		Short: "APGAR newborn score (0-10)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.APGAR(ctx, service.Meta{}, in)
			})
		},
	}
	cmd.Flags().IntVar(&in.HeartRate, "heart-rate", 0, "Heart rate (0-2)")
	cmd.Flags().IntVar(&in.Respiration, "respiration", 0, "Respiratory effort (0-2)")
	cmd.Flags().IntVar(&in.MuscleTone, "tone", 0, "Muscle tone (0-2)")
	cmd.Flags().IntVar(&in.Reflex, "reflex", 0, "Reflex irritability (0-2)")
	cmd.Flags().IntVar(&in.Color, "color", 0, "Skin color (0-2)")
	markRequired(cmd, "heart-rate", "respiration", "tone", "reflex", "color")
	return cmd
}

func nihssCmd(opts *scoreOptions) *cobra.Command {
	var items map[string]string

	cmd := &cobra.Command{
		Use:   "nihss",
		Short: "NIH Stroke Scale; rate every item, X marks untestable",
		Example: "  nexus score nihss --items consciousness=0,orientation=1,commands=0,gaze=0,visual_field=0,\\\n" +
			"    facial_palsy=1,upper_limb_motor=2,lower_limb_motor=X,ataxia=0,sensory=1,language=0,dysarthria=1,extinction=0",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := scoring.ParseNIHSSItems(items)
			if err != nil {
				return err
			}
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.NIHSS(ctx, service.Meta{}, in)
			})
		},
	}
	cmd.Flags().StringToStringVar(&items, "items", nil, "item=rating pairs")
	markRequired(cmd, "items")
	return cmd
}

func glycemiaCmd(opts *scoreOptions) *cobra.Command {
	var (
		value float64
		unit  string
	)

	cmd := &cobra.Command{
		Use:   "glycemia",
		Short: "Convert a glycemia between g/L, mmol/L and mg/dL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := scoring.ParseGlycemiaUnit(unit)
			if err != nil {
				return err
			}
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.Glycemia(ctx, service.Meta{}, scoring.GlycemiaInput{Value: value, Unit: u})
			})
		},
	}
	cmd.Flags().Float64Var(&value, "value", 0, "Measured value")
	cmd.Flags().StringVar(&unit, "unit", string(scoring.UnitGramsPerLiter), "g/L, mmol/L or mg/dL")
	markRequired(cmd, "value")
	return cmd
}

func framinghamCmd(opts *scoreOptions) *cobra.Command {
	var (
		in  scoring.FraminghamInput
		sex string
	)

	cmd := &cobra.Command{
		Use:   "framingham",
		Short: "Ten-year cardiac risk estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Sex = scoring.Sex(sex)
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.Framingham(ctx, service.Meta{}, in)
			})
		},
	}
	cmd.Flags().IntVar(&in.AgeYears, "age", 0, "Age in years")
	cmd.Flags().StringVar(&sex, "sex", "", "male or female")
	cmd.Flags().IntVar(&in.TotalCholesterol, "cholesterol", 0, "Total cholesterol (mg/dL)")
	cmd.Flags().IntVar(&in.HDL, "hdl", 0, "HDL cholesterol (mg/dL)")
	cmd.Flags().IntVar(&in.SystolicBP, "sbp", 0, "Systolic blood pressure (mmHg)")
	cmd.Flags().BoolVar(&in.Smoker, "smoker", false, "Current smoker")
	cmd.Flags().BoolVar(&in.Diabetic, "diabetic", false, "Diabetic")
	markRequired(cmd, "age", "sex", "cholesterol", "hdl", "sbp")
	return cmd
}

func bmiCmd(opts *scoreOptions) *cobra.Command {
	var in scoring.BMIInput

	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Body mass index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.BMI(ctx, service.Meta{}, in)
			})
		},
	}
	cmd.Flags().Float64Var(&in.WeightKg, "weight", 0, "Weight (kg)")
	cmd.Flags().Float64Var(&in.HeightCm, "height", 0, "Height (cm)")
	markRequired(cmd, "weight", "height")
	return cmd
}

func clearanceCmd(opts *scoreOptions) *cobra.Command {
	var (
		in     scoring.ClearanceInput
		gender string
	)

	cmd := &cobra.Command{
		Use:   "clearance",
		Short: "Creatinine clearance (Cockcroft-Gault and MDRD)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sex, ok := patient.Gender(gender).Sex()
			if !ok {
				return &scoring.InputError{Field: "sex", Reason: "must be male or female"}
			}
			in.Sex = sex
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return s.Clearance(ctx, service.Meta{}, in)
			})
		},
	}
	cmd.Flags().Float64Var(&in.AgeYears, "age", 0, "Age in years")
	cmd.Flags().Float64Var(&in.WeightKg, "weight", 0, "Weight (kg)")
	cmd.Flags().StringVar(&gender, "sex", "", "male or female")
	cmd.Flags().Float64Var(&in.CreatinineMgL, "creatinine", 0, "Serum creatinine (mg/L)")
	markRequired(cmd, "age", "weight", "sex", "creatinine")
	return cmd
}

func unavailableCmd(opts *scoreOptions, tool domain.Tool, use string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: tool.Label() + " (not implemented)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return calculate(cmd, opts, func(ctx context.Context, s *service.ScoringService) (service.Outcome, error) {
				return service.Outcome{}, s.Unavailable(ctx, tool)
			})
		},
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}
