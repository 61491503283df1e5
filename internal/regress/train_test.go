package regress

import (
	"errors"
	"reflect"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/table"
)

// linearTable builds n rows of a,b with b = 2a exactly.
func linearTable(n int) table.Table {
	t := table.Table{Columns: []string{"a", "b"}}
	for i := 1; i <= n; i++ {
		a := float64(i)
		t.Rows = append(t.Rows, table.Row{table.Num(a), table.Num(2 * a)})
	}
	return t
}

func TestTrainConvergesOnExactLinearRelation(t *testing.T) {
	tab := linearTable(125)
	m, err := Train(tab, Spec{Target: "b", Features: []string{"a"}, SplitRatio: 0.8})
	if err != nil {
		t.Fatalf("Train returned error: %v", err)
	}
	if m.R2 < 0.98 {
		t.Fatalf("expected near-perfect fit, got r2=%v", m.R2)
	}
	if m.MSE > 5 {
		t.Fatalf("expected small mse, got %v", m.MSE)
	}
	if m.MAE > 3 {
		t.Fatalf("expected small mae, got %v", m.MAE)
	}
	if len(m.Predictions) != 25 {
		t.Fatalf("expected 25 held-out predictions, got %d", len(m.Predictions))
	}
	// Predictions stay in original row order.
	if m.Predictions[0].Actual != 202 || m.Predictions[24].Actual != 250 {
		t.Fatalf("predictions out of order: first=%+v last=%+v", m.Predictions[0], m.Predictions[24])
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	tab := linearTable(50)
	spec := Spec{Target: "b", Features: []string{"a"}, SplitRatio: 0.7}
	first, err := Train(tab, spec)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Train(tab, spec)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two identical runs disagreed:\n%+v\n%+v", first, second)
	}
}

func TestTrainFiltersNonNumericRows(t *testing.T) {
	tab := linearTable(20)
	// Corrupt two rows: text feature, missing target.
	tab.Rows[3][0] = table.Str("oops")
	tab.Rows[7][1] = table.None()
	m, err := Train(tab, Spec{Target: "b", Features: []string{"a"}, SplitRatio: 0.5})
	if err != nil {
		t.Fatalf("Train returned error: %v", err)
	}
	// 18 valid rows, floor(18*0.5) = 9 train, 9 test.
	if len(m.Predictions) != 9 {
		t.Fatalf("expected 9 predictions over the valid test rows, got %d", len(m.Predictions))
	}
}

func TestTrainSingleTestRowIsInsufficient(t *testing.T) {
	// floor(5*0.8) leaves one test row: R² is undefined there and the
	// trainer reports it instead of emitting NaN metrics.
	tab := linearTable(5)
	_, err := Train(tab, Spec{Target: "b", Features: []string{"a"}, SplitRatio: 0.8})
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestTrainNoValidRowsIsInsufficient(t *testing.T) {
	tab := table.Table{Columns: []string{"a", "b"}, Rows: []table.Row{
		{table.Str("x"), table.Num(1)},
		{table.None(), table.Num(2)},
	}}
	_, err := Train(tab, Spec{Target: "b", Features: []string{"a"}, SplitRatio: 0.5})
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestTrainConstantTestTargetIsInsufficient(t *testing.T) {
	tab := table.Table{Columns: []string{"a", "b"}}
	for i := 1; i <= 10; i++ {
		target := float64(i)
		if i > 5 {
			target = 7 // constant across the entire test split
		}
		tab.Rows = append(tab.Rows, table.Row{table.Num(float64(i)), table.Num(target)})
	}
	_, err := Train(tab, Spec{Target: "b", Features: []string{"a"}, SplitRatio: 0.5})
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestTrainValidatesSpec(t *testing.T) {
	tab := linearTable(10)
	cases := []Spec{
		{Target: "b", Features: []string{"a"}, SplitRatio: 0},
		{Target: "b", Features: []string{"a"}, SplitRatio: 1},
		{Target: "nope", Features: []string{"a"}, SplitRatio: 0.5},
		{Target: "b", Features: []string{"nope"}, SplitRatio: 0.5},
		{Target: "b", Features: nil, SplitRatio: 0.5},
	}
	for i, spec := range cases {
		if _, err := Train(tab, spec); err == nil {
			t.Fatalf("case %d: expected error for spec %+v", i, spec)
		}
	}
}
