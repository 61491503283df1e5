// Package regress fits a linear model to numeric table columns by plain
// stochastic gradient descent and reports held-out metrics. The algorithm
// is fully deterministic: no shuffling, no random initialization.
package regress

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/dataloom-cli/internal/table"
)

// Fixed hyperparameters. The trainer is not tunable from the outside so two
// runs over identical data always produce identical metrics.
const (
	epochs       = 500
	learningRate = 1e-4
)

// Spec selects the target, the features, and where to cut the train/test
// split. Feature order only affects reporting, not the fitted model.
type Spec struct {
	Target     string
	Features   []string
	SplitRatio float64
}

// Prediction pairs a held-out row's actual target with the model's output,
// both in raw (denormalized) units.
type Prediction struct {
	Actual    float64
	Predicted float64
}

// Metrics reports the quality of one training run over the held-out split.
type Metrics struct {
	MSE         float64
	MAE         float64
	R2          float64
	Predictions []Prediction
}

// InsufficientDataError reports that the filtered row set cannot support a
// meaningful fit: an empty split, or a constant test target that leaves R²
// undefined.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for training: %s", e.Reason)
}

// Train runs the three phases of a regression pass: filter/split, fit,
// evaluate. Rows where the target or any feature is non-numeric are
// filtered out first; the remainder is split at floor(n*ratio) preserving
// original order.
func Train(t table.Table, spec Spec) (*Metrics, error) {
	if spec.SplitRatio <= 0 || spec.SplitRatio >= 1 {
		return nil, fmt.Errorf("split ratio %v outside (0,1)", spec.SplitRatio)
	}
	targetIdx := t.ColumnIndex(spec.Target)
	if targetIdx < 0 {
		return nil, fmt.Errorf("target column %q not found", spec.Target)
	}
	featIdx := make([]int, len(spec.Features))
	for i, name := range spec.Features {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("feature column %q not found", name)
		}
		featIdx[i] = idx
	}
	if len(featIdx) == 0 {
		return nil, errors.New("no feature columns selected")
	}

	// Phase 1: keep rows that are numeric in the target and every feature.
	var x [][]float64
	var y []float64
	for _, row := range t.Rows {
		if row[targetIdx].Kind != table.Number {
			continue
		}
		ok := true
		feats := make([]float64, len(featIdx))
		for i, idx := range featIdx {
			if row[idx].Kind != table.Number {
				ok = false
				break
			}
			feats[i] = row[idx].Num
		}
		if !ok {
			continue
		}
		x = append(x, feats)
		y = append(y, row[targetIdx].Num)
	}

	split := int(math.Floor(float64(len(x)) * spec.SplitRatio))
	if split == 0 {
		return nil, &InsufficientDataError{Reason: "empty training split"}
	}
	if split == len(x) {
		return nil, &InsufficientDataError{Reason: "empty test split"}
	}
	xTrain, yTrain := x[:split], y[:split]
	xTest, yTest := x[split:], y[split:]

	// Phase 2: z-score features and target on training-set statistics.
	featScale := make([]scaler, len(featIdx))
	for j := range featIdx {
		col := make([]float64, len(xTrain))
		for i := range xTrain {
			col[i] = xTrain[i][j]
		}
		featScale[j] = fitScaler(col)
	}
	targetScale := fitScaler(yTrain)

	// Phase 3: true SGD, in row order each epoch, updates applied
	// immediately per example.
	weights := make([]float64, len(featIdx))
	bias := 0.0
	for ep := 0; ep < epochs; ep++ {
		for i, feats := range xTrain {
			pred := bias
			for j, v := range feats {
				pred += weights[j] * featScale[j].norm(v)
			}
			errv := pred - targetScale.norm(yTrain[i])
			bias -= learningRate * errv
			for j, v := range feats {
				weights[j] -= learningRate * errv * featScale[j].norm(v)
			}
		}
	}

	// Phase 4: evaluate on the held-out split in raw units.
	m := &Metrics{Predictions: make([]Prediction, len(xTest))}
	var sse, sae, actualSum float64
	for i, feats := range xTest {
		pred := bias
		for j, v := range feats {
			pred += weights[j] * featScale[j].norm(v)
		}
		raw := targetScale.denorm(pred)
		m.Predictions[i] = Prediction{Actual: yTest[i], Predicted: raw}
		d := raw - yTest[i]
		sse += d * d
		sae += math.Abs(d)
		actualSum += yTest[i]
	}
	n := float64(len(xTest))
	m.MSE = sse / n
	m.MAE = sae / n
	actualMean := actualSum / n
	var ssTot float64
	for _, v := range yTest {
		d := v - actualMean
		ssTot += d * d
	}
	if ssTot == 0 {
		return nil, &InsufficientDataError{Reason: "test split target has zero variance"}
	}
	m.R2 = 1 - sse/ssTot
	return m, nil
}

// scaler is the affine map of z-score normalization and its inverse.
type scaler struct {
	mean float64
	std  float64
}

// fitScaler computes mean and population standard deviation; a zero std is
// replaced with 1 so constant columns normalize to zero instead of NaN.
func fitScaler(vals []float64) scaler {
	n := float64(len(vals))
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	variance := 0.0
	for _, v := range vals {
		d := v - mean
		variance += d * d
	}
	variance /= n
	std := math.Sqrt(variance)
	if std == 0 {
		std = 1
	}
	return scaler{mean: mean, std: std}
}

func (s scaler) norm(v float64) float64   { return (v - s.mean) / s.std }
func (s scaler) denorm(v float64) float64 { return v*s.std + s.mean }
