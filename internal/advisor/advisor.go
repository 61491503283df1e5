// Package advisor turns a training run's metrics into a short natural
// language assessment by calling an external model provider. The pipeline
// never depends on this collaborator: any failure degrades to a fixed
// fallback string.
package advisor

import (
	"context"
	"fmt"
	"strings"
)

// FallbackAdvice is returned whenever the provider is unconfigured or
// unreachable, so callers can always print something useful.
const FallbackAdvice = "Automated advice is unavailable right now. " +
	"An R² close to 1.0 and a low MSE relative to the target's scale indicate a good fit; " +
	"consider cleaning missing values or revisiting the feature selection if the fit is poor."

// Request carries everything the advice prompt needs about a finished run.
type Request struct {
	Algorithm  string
	Target     string
	Features   []string
	Columns    []string
	SplitRatio float64
	R2         float64
	MSE        float64
}

// Advisor wraps a Client with the model settings to use for advice calls.
type Advisor struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

func New(client *Client, model string, maxTokens int, temperature float64) *Advisor {
	return &Advisor{client: client, model: model, maxTokens: maxTokens, temperature: temperature}
}

// Advise requests advisory text for the run. It never returns an error:
// the fallback string is the degraded result.
func (a *Advisor) Advise(ctx context.Context, req Request) string {
	if a == nil || a.client == nil {
		return FallbackAdvice
	}
	text, err := a.client.Complete(ctx, a.model, BuildPrompt(req), a.maxTokens, a.temperature)
	if err != nil || strings.TrimSpace(text) == "" {
		return FallbackAdvice
	}
	return strings.TrimSpace(text)
}

// BuildPrompt renders the advice prompt for a finished training run.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a data analysis assistant. A user trained a regression model on a CSV dataset.\n\n")
	fmt.Fprintf(&b, "Algorithm: %s\n", req.Algorithm)
	fmt.Fprintf(&b, "Target column: %s\n", req.Target)
	fmt.Fprintf(&b, "Feature columns: %s\n", strings.Join(req.Features, ", "))
	fmt.Fprintf(&b, "All columns: %s\n", strings.Join(req.Columns, ", "))
	fmt.Fprintf(&b, "Train/test split: %.2f\n", req.SplitRatio)
	fmt.Fprintf(&b, "R²: %.4f\n", req.R2)
	fmt.Fprintf(&b, "MSE: %.4f\n\n", req.MSE)
	b.WriteString("In 3-5 sentences for a non-technical user, assess the model quality and suggest one concrete next step.")
	return b.String()
}
