package recommend_test

import (
	"errors"
	"math"
	"testing"

	"github.com/leettrack/backend/internal/recommend"
)

func TestDefaultWeights(t *testing.T) {
	w := recommend.DefaultWeights()

	if err := w.Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}

	if len(w) != len(recommend.Strategies) {
		t.Errorf("expected %d strategies, got %d", len(recommend.Strategies), len(w))
	}

	if got := w.Get(recommend.StrategyWeakArea); got != 0.4 {
		t.Errorf("expected weak area weight 0.4, got %v", got)
	}
}

func TestDefaultWeights_ReturnsFreshCopy(t *testing.T) {
	a := recommend.DefaultWeights()
	a[recommend.StrategyWeakArea] = 0.9

	b := recommend.DefaultWeights()
	if b.Get(recommend.StrategyWeakArea) != 0.4 {
		t.Error("mutating one default table leaked into another")
	}
}

func TestWeightTable_Clone(t *testing.T) {
	orig := recommend.DefaultWeights()
	clone := orig.Clone()
	clone[recommend.StrategyGeneral] = 0.5

	if orig.Get(recommend.StrategyGeneral) != 0.03 {
		t.Errorf("clone shares storage with original: %v", orig.Get(recommend.StrategyGeneral))
	}
}

func TestWeightTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(recommend.WeightTable)
		wantErr bool
	}{
		{
			name:   "default table",
			modify: func(w recommend.WeightTable) {},
		},
		{
			name:   "sum within tolerance",
			modify: func(w recommend.WeightTable) { w[recommend.StrategyGeneral] = 0.035 },
		},
		{
			name:    "sum outside tolerance",
			modify:  func(w recommend.WeightTable) { w[recommend.StrategyGeneral] = 0.2 },
			wantErr: true,
		},
		{
			name: "negative weight",
			modify: func(w recommend.WeightTable) {
				w[recommend.StrategyGeneral] = -0.03
				w[recommend.StrategyWeakArea] = 0.46
			},
			wantErr: true,
		},
		{
			name:    "missing strategy",
			modify:  func(w recommend.WeightTable) { delete(w, recommend.StrategySpaced) },
			wantErr: true,
		},
		{
			name:    "unknown strategy",
			modify:  func(w recommend.WeightTable) { w["lucky_dip"] = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := recommend.DefaultWeights()
			tt.modify(w)

			err := w.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr && !errors.Is(err, recommend.ErrInvalidWeights) {
				t.Errorf("expected ErrInvalidWeights, got %v", err)
			}
		})
	}
}

func TestWeightTable_Normalize(t *testing.T) {
	w := recommend.WeightTable{
		recommend.StrategyWeakArea:    4,
		recommend.StrategyProgressive: 3,
		recommend.StrategySpaced:      2,
		recommend.StrategyExploration: 0.7,
		recommend.StrategyGeneral:     0.3,
	}

	n := w.Normalize()
	if math.Abs(n.Sum()-1.0) > 1e-9 {
		t.Errorf("normalized sum = %v, want 1.0", n.Sum())
	}
	if math.Abs(n.Get(recommend.StrategyWeakArea)-0.4) > 1e-9 {
		t.Errorf("weak area = %v, want 0.4", n.Get(recommend.StrategyWeakArea))
	}
	if w.Get(recommend.StrategyWeakArea) != 4 {
		t.Error("Normalize mutated its receiver")
	}
}

func TestWeightTable_NormalizeAllZero(t *testing.T) {
	n := recommend.WeightTable{}.Normalize()

	for _, s := range recommend.Strategies {
		if math.Abs(n.Get(s)-0.2) > 1e-9 {
			t.Errorf("%s = %v, want 0.2", s, n.Get(s))
		}
	}
}

func TestStrategy_IsValid(t *testing.T) {
	for _, s := range recommend.Strategies {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if recommend.Strategy("random").IsValid() {
		t.Error("unknown strategy reported valid")
	}
}
