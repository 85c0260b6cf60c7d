package comparison

import (
	"errors"
	"math"
	"testing"

	"github.com/aristath/lattice/internal/domain"
	"github.com/aristath/lattice/internal/modules/analog"
	"github.com/aristath/lattice/internal/modules/digital"
)

const tolerance = 1e-9

func floatPtr(v float64) *float64 { return &v }

func testEstimates(t *testing.T) (analog.Estimate, digital.Estimate) {
	t.Helper()

	sim, err := analog.New(analog.Config{CircuitWidth: 5})
	if err != nil {
		t.Fatalf("analog.New returned error: %v", err)
	}

	est, err := digital.New(digital.Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 1e-3,
	})
	if err != nil {
		t.Fatalf("digital.New returned error: %v", err)
	}

	return sim.Estimate(), est.Estimate()
}

func TestCompare(t *testing.T) {
	analogEst, digitalEst := testEstimates(t)

	result, err := NewEngine().Compare(analogEst, digitalEst)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	// 189630 physical qubits against a 5-qubit analog register.
	if math.Abs(result.QubitCountRatio-37926.0) > tolerance {
		t.Errorf("QubitCountRatio = %v, want 37926", result.QubitCountRatio)
	}
	// 1000us digital target against a 20us analog window.
	if math.Abs(result.RuntimeRatio-50.0) > tolerance {
		t.Errorf("RuntimeRatio = %v, want 50", result.RuntimeRatio)
	}
	if !result.AnalogFaster {
		t.Error("AnalogFaster = false, want true when the digital target exceeds the analog window")
	}
	// 5580us digital wall clock against the same 20us window.
	if math.Abs(result.WallClockRuntimeRatio-279.0) > 1e-6 {
		t.Errorf("WallClockRuntimeRatio = %v, want 279", result.WallClockRuntimeRatio)
	}
	// 5 qubits for 2e-5 seconds.
	if math.Abs(result.AnalogQubitSeconds-1e-4) > tolerance {
		t.Errorf("AnalogQubitSeconds = %v, want 1e-4", result.AnalogQubitSeconds)
	}
	if math.Abs(result.DigitalQubitSeconds-189.63) > tolerance {
		t.Errorf("DigitalQubitSeconds = %v, want 189.63", result.DigitalQubitSeconds)
	}
	if math.Abs(result.SpaceTimeRatio-1.8963e6) > 1e-3 {
		t.Errorf("SpaceTimeRatio = %v, want 1.8963e6", result.SpaceTimeRatio)
	}
}

func TestCompareZeroFeasibleRuntime(t *testing.T) {
	_, digitalEst := testEstimates(t)

	sim, err := analog.New(analog.Config{
		CircuitWidth:         5,
		MaxRuntimeMultiplier: floatPtr(0),
	})
	if err != nil {
		t.Fatalf("analog.New returned error: %v", err)
	}

	_, err = NewEngine().Compare(sim.Estimate(), digitalEst)
	if err == nil {
		t.Fatal("Compare should fail on a zero feasible runtime, got nil error")
	}
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		t.Errorf("expected DomainError, got %T: %v", err, err)
	}
}

func TestCompareNeverProducesInfinity(t *testing.T) {
	analogEst, digitalEst := testEstimates(t)

	result, err := NewEngine().Compare(analogEst, digitalEst)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	for name, v := range map[string]float64{
		"QubitCountRatio":       result.QubitCountRatio,
		"RuntimeRatio":          result.RuntimeRatio,
		"WallClockRuntimeRatio": result.WallClockRuntimeRatio,
		"AnalogQubitSeconds":    result.AnalogQubitSeconds,
		"DigitalQubitSeconds":   result.DigitalQubitSeconds,
		"SpaceTimeRatio":        result.SpaceTimeRatio,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("%s = %v, ratios must stay finite", name, v)
		}
	}
}

func TestSpaceTimeRatioIsScaleInvariant(t *testing.T) {
	analogEst, digitalEst := testEstimates(t)

	result, err := NewEngine().Compare(analogEst, digitalEst)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	// The same ratio computed directly in microseconds must agree with
	// the qubit-seconds version: unit conversion cancels.
	digitalMicro := float64(digitalEst.TotalPhysicalQubits) * digitalEst.TargetRuntime
	analogMicro := float64(analogEst.CircuitWidth) * analogEst.FeasibleRuntime
	wantRatio := digitalMicro / analogMicro

	if math.Abs(result.SpaceTimeRatio-wantRatio)/wantRatio > 1e-12 {
		t.Errorf("SpaceTimeRatio = %v, microsecond computation gives %v", result.SpaceTimeRatio, wantRatio)
	}
}

func TestRuntimeRatioUsesLogicalTarget(t *testing.T) {
	// The headline runtime ratio compares the digital logical target,
	// not wall-clock time; wall clock always carries extra overhead, so
	// the two ratios must differ and order consistently.
	analogEst, digitalEst := testEstimates(t)

	result, err := NewEngine().Compare(analogEst, digitalEst)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	if result.WallClockRuntimeRatio <= result.RuntimeRatio {
		t.Errorf("WallClockRuntimeRatio %v should exceed RuntimeRatio %v", result.WallClockRuntimeRatio, result.RuntimeRatio)
	}

	wantLogical := digitalEst.TargetRuntime / analogEst.FeasibleRuntime
	if math.Abs(result.RuntimeRatio-wantLogical) > tolerance {
		t.Errorf("RuntimeRatio = %v, want logical target ratio %v", result.RuntimeRatio, wantLogical)
	}
}

func TestAnalogFasterVerdict(t *testing.T) {
	tests := []struct {
		name          string
		targetRuntime float64
		want          bool
	}{
		{"digital target under the analog window", 10.0, false},
		{"digital target at the analog window", 20.0, false},
		{"digital target beyond the analog window", 100.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := analog.New(analog.Config{CircuitWidth: 5})
			if err != nil {
				t.Fatalf("analog.New returned error: %v", err)
			}

			est, err := digital.New(digital.Config{
				LogicalQubits:     10,
				TargetRuntime:     tt.targetRuntime,
				PhysicalErrorRate: 1e-3,
			})
			if err != nil {
				t.Fatalf("digital.New returned error: %v", err)
			}

			result, err := NewEngine().Compare(sim.Estimate(), est.Estimate())
			if err != nil {
				t.Fatalf("Compare returned error: %v", err)
			}
			if result.AnalogFaster != tt.want {
				t.Errorf("AnalogFaster = %v, want %v", result.AnalogFaster, tt.want)
			}
		})
	}
}
