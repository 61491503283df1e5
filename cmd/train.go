package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/advisor"
	"github.com/KaramelBytes/dataloom-cli/internal/regress"
	"github.com/KaramelBytes/dataloom-cli/internal/table"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	trainTarget   string
	trainFeatures []string
	trainSplit    float64
	trainMethod   string
	trainColumns  []string
	trainAdvise   bool
)

// maxShownPreds caps how many held-out predictions the report lists.
const maxShownPreds = 10

var trainCmd = &cobra.Command{
	Use:   "train <file.csv>",
	Short: "Train a linear regression model and report metrics",
	Long: `Train runs the full pipeline on a CSV file: parse, profile, optionally
clean missing values, then fit a linear model by gradient descent on the
selected target and features and evaluate it on a held-out split.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainTarget == "" {
			return errors.New("--target is required")
		}
		if len(trainFeatures) == 0 {
			return errors.New("--features is required")
		}

		t, err := readTable(args[0])
		if err != nil {
			return err
		}
		stats := table.Profile(t)

		// Optional cleaning pass before training.
		if trainMethod != "" {
			method := table.Method(trainMethod)
			if !table.ValidMethod(method) {
				return fmt.Errorf("unsupported --method: %s", trainMethod)
			}
			cols := trainColumns
			if len(cols) == 0 {
				cols = append(append([]string(nil), trainFeatures...), trainTarget)
			}
			t = table.Clean(t, stats, table.CleanSpec{Method: method, Columns: cols})
			stats = table.Profile(t)
		}

		split := trainSplit
		if !cmd.Flags().Changed("split") && cfg != nil && cfg.DefaultSplit > 0 {
			split = cfg.DefaultSplit
		}
		split = clampSplit(split)

		metrics, err := regress.Train(t, regress.Spec{
			Target:     trainTarget,
			Features:   trainFeatures,
			SplitRatio: split,
		})
		if err != nil {
			var ide *regress.InsufficientDataError
			if errors.As(err, &ide) {
				return fmt.Errorf("cannot train on this selection: %w", err)
			}
			return err
		}

		fmt.Println("[TRAINING RESULT]")
		fmt.Printf("Algorithm: linear regression (SGD)\n")
		fmt.Printf("Target: %s\n", trainTarget)
		fmt.Printf("Features: %v\n", trainFeatures)
		fmt.Printf("Split: %.2f\n", split)
		fmt.Printf("MSE: %.6f\n", metrics.MSE)
		fmt.Printf("MAE: %.6f\n", metrics.MAE)
		fmt.Printf("R²:  %.6f\n", metrics.R2)

		shown := len(metrics.Predictions)
		if shown > maxShownPreds {
			shown = maxShownPreds
		}
		if shown > 0 {
			fmt.Println("\n[PREDICTIONS]")
			for _, p := range metrics.Predictions[:shown] {
				fmt.Printf("- actual %.4g, predicted %.4g\n", p.Actual, p.Predicted)
			}
			if shown < len(metrics.Predictions) {
				fmt.Printf("… and %d more\n", len(metrics.Predictions)-shown)
			}
		}

		if trainAdvise {
			fmt.Println("\n[ADVICE]")
			fmt.Println(fetchAdvice(cmd.Context(), t, split, metrics))
		}
		return nil
	},
}

// clampSplit bounds user input to the supported split range [0.1, 0.9]
// before handing it to the trainer.
func clampSplit(r float64) float64 {
	if r < 0.1 {
		return 0.1
	}
	if r > 0.9 {
		return 0.9
	}
	return r
}

// fetchAdvice calls the advisory collaborator. Failures degrade to the
// fixed fallback string; training output never depends on this call.
func fetchAdvice(ctx context.Context, t table.Table, split float64, metrics *regress.Metrics) string {
	apiKey := ""
	model := ""
	maxTokens := 0
	temperature := 0.0
	var httpTimeout, baseDelay, maxDelay time.Duration
	retryMax := 0
	if cfg != nil {
		apiKey = cfg.APIKey
		model = cfg.DefaultModel
		maxTokens = cfg.MaxTokens
		temperature = cfg.Temperature
		httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		retryMax = cfg.RetryMaxAttempts
		baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
	}
	if apiKey == "" {
		apiKey = os.Getenv("DATALOOM_API_KEY")
	}
	if apiKey == "" {
		debugf("advice skipped: no API key configured\n")
		return advisor.FallbackAdvice
	}
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	client := advisor.NewClient(apiKey, httpTimeout, retryMax, baseDelay, maxDelay)
	req := advisor.Request{
		Algorithm:  "linear regression (SGD)",
		Target:     trainTarget,
		Features:   trainFeatures,
		Columns:    t.Columns,
		SplitRatio: split,
		R2:         metrics.R2,
		MSE:        metrics.MSE,
	}
	debugf("advice prompt ≈%d tokens\n", utils.CountTokens(advisor.BuildPrompt(req)))
	a := advisor.New(client, model, maxTokens, temperature)
	return a.Advise(ctx, req)
}

func init() {
	trainCmd.Flags().StringVar(&trainTarget, "target", "", "target column to predict (required)")
	trainCmd.Flags().StringSliceVar(&trainFeatures, "features", nil, "feature columns (required)")
	trainCmd.Flags().Float64Var(&trainSplit, "split", 0.8, "train/test split ratio, clamped to [0.1, 0.9]")
	trainCmd.Flags().StringVar(&trainMethod, "method", "", "optional cleaning method applied before training")
	trainCmd.Flags().StringSliceVar(&trainColumns, "columns", nil, "columns for the cleaning pass (defaults to features + target)")
	trainCmd.Flags().BoolVar(&trainAdvise, "advise", false, "fetch an AI-generated assessment of the results")
	rootCmd.AddCommand(trainCmd)
}
