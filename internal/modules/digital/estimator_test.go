package digital

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/aristath/lattice/internal/domain"
)

const tolerance = 1e-9

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCodeDistanceFor(t *testing.T) {
	tests := []struct {
		name              string
		physicalErrorRate float64
		targetLogical     float64
		want              int
	}{
		{
			name:              "standard superconducting operating point",
			physicalErrorRate: 1e-3,
			targetLogical:     1e-10,
			want:              21,
		},
		{
			name:              "looser target shrinks the code",
			physicalErrorRate: 1e-3,
			targetLogical:     1e-4,
			want:              9,
		},
		{
			name:              "better hardware shrinks the code",
			physicalErrorRate: 1e-4,
			targetLogical:     1e-10,
			want:              11,
		},
		{
			name:              "near-threshold hardware needs a huge code",
			physicalErrorRate: 5e-3,
			targetLogical:     1e-10,
			want:              67,
		},
		{
			name:              "tiny codes clamp to distance 3",
			physicalErrorRate: 1e-6,
			targetLogical:     0.05,
			want:              3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodeDistanceFor(tt.physicalErrorRate, tt.targetLogical)
			if err != nil {
				t.Fatalf("CodeDistanceFor(%g, %g) returned error: %v", tt.physicalErrorRate, tt.targetLogical, err)
			}
			if got != tt.want {
				t.Errorf("CodeDistanceFor(%g, %g) = %d, want %d", tt.physicalErrorRate, tt.targetLogical, got, tt.want)
			}
		})
	}
}

func TestCodeDistanceForErrors(t *testing.T) {
	tests := []struct {
		name              string
		physicalErrorRate float64
		targetLogical     float64
	}{
		{"zero physical error rate", 0, 1e-10},
		{"negative physical error rate", -1e-3, 1e-10},
		{"physical error rate at threshold", 0.01, 1e-10},
		{"physical error rate above threshold", 0.02, 1e-10},
		{"zero target", 1e-3, 0},
		{"target of one", 1e-3, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CodeDistanceFor(tt.physicalErrorRate, tt.targetLogical)
			if err == nil {
				t.Fatalf("CodeDistanceFor(%g, %g) should fail, got nil error", tt.physicalErrorRate, tt.targetLogical)
			}
			var domainErr *domain.DomainError
			if !errors.As(err, &domainErr) {
				t.Errorf("expected DomainError, got %T: %v", err, err)
			}
		})
	}
}

func TestCodeDistanceIsAlwaysOddAndAtLeastThree(t *testing.T) {
	physicalRates := []float64{1e-5, 1e-4, 1e-3, 3e-3, 5e-3, 9e-3}
	targets := []float64{1e-15, 1e-10, 1e-6, 1e-3, 0.1}

	for _, p := range physicalRates {
		for _, pL := range targets {
			d, err := CodeDistanceFor(p, pL)
			if err != nil {
				t.Fatalf("CodeDistanceFor(%g, %g) returned error: %v", p, pL, err)
			}
			if d < 3 {
				t.Errorf("CodeDistanceFor(%g, %g) = %d, below minimum 3", p, pL, d)
			}
			if d%2 == 0 {
				t.Errorf("CodeDistanceFor(%g, %g) = %d, surface code distances must be odd", p, pL, d)
			}
		}
	}
}

func TestCodeDistanceMonotonicity(t *testing.T) {
	// Tighter targets must never shrink the code.
	prev := 0
	for _, pL := range []float64{1e-2, 1e-4, 1e-6, 1e-8, 1e-10, 1e-12} {
		d, err := CodeDistanceFor(1e-3, pL)
		if err != nil {
			t.Fatalf("CodeDistanceFor returned error: %v", err)
		}
		if d < prev {
			t.Errorf("distance %d for target %g is below %d for a looser target", d, pL, prev)
		}
		prev = d
	}

	// Noisier hardware must never shrink the code either.
	prev = 0
	for _, p := range []float64{1e-5, 1e-4, 1e-3, 5e-3, 9e-3} {
		d, err := CodeDistanceFor(p, 1e-10)
		if err != nil {
			t.Fatalf("CodeDistanceFor returned error: %v", err)
		}
		if d < prev {
			t.Errorf("distance %d for rate %g is below %d for quieter hardware", d, p, prev)
		}
		prev = d
	}
}

func TestResolveAppliesDefaults(t *testing.T) {
	resolved, err := Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 1e-3,
	}.Resolve()
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if resolved.TargetLogicalErrorRate != DefaultTargetLogicalErrorRate {
		t.Errorf("target logical error rate = %v, want %v", resolved.TargetLogicalErrorRate, DefaultTargetLogicalErrorRate)
	}
	if resolved.TGateCount != DefaultTGateCount {
		t.Errorf("T gate count = %d, want %d", resolved.TGateCount, DefaultTGateCount)
	}
	if resolved.MagicStateOverheadFactor != DefaultMagicStateOverheadFactor {
		t.Errorf("magic state overhead = %v, want %v", resolved.MagicStateOverheadFactor, DefaultMagicStateOverheadFactor)
	}
	if resolved.CompilationOverheadFactor != DefaultCompilationOverheadFactor {
		t.Errorf("compilation overhead = %v, want %v", resolved.CompilationOverheadFactor, DefaultCompilationOverheadFactor)
	}
	if resolved.PhysicalGateTime != DefaultPhysicalGateTime {
		t.Errorf("physical gate time = %v, want %v", resolved.PhysicalGateTime, DefaultPhysicalGateTime)
	}
}

func TestResolveRejectsInvalidConfigs(t *testing.T) {
	valid := Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 1e-3,
	}

	tests := []struct {
		name      string
		mutate    func(Config) Config
		wantParam string
	}{
		{
			name:      "zero logical qubits",
			mutate:    func(c Config) Config { c.LogicalQubits = 0; return c },
			wantParam: "logical_qubits",
		},
		{
			name:      "negative runtime",
			mutate:    func(c Config) Config { c.TargetRuntime = -1.0; return c },
			wantParam: "target_runtime_us",
		},
		{
			name:      "zero physical error rate",
			mutate:    func(c Config) Config { c.PhysicalErrorRate = 0; return c },
			wantParam: "physical_error_rate",
		},
		{
			name:      "error rate at threshold",
			mutate:    func(c Config) Config { c.PhysicalErrorRate = 0.01; return c },
			wantParam: "physical_error_rate",
		},
		{
			name:      "error rate above threshold",
			mutate:    func(c Config) Config { c.PhysicalErrorRate = 0.02; return c },
			wantParam: "physical_error_rate",
		},
		{
			name:      "negative T gate count",
			mutate:    func(c Config) Config { c.TGateCount = intPtr(-5); return c },
			wantParam: "t_gate_count",
		},
		{
			name:      "negative magic state overhead",
			mutate:    func(c Config) Config { c.MagicStateOverheadFactor = floatPtr(-0.5); return c },
			wantParam: "magic_state_overhead_factor",
		},
		{
			name:      "compilation overhead below one",
			mutate:    func(c Config) Config { c.CompilationOverheadFactor = floatPtr(0.9); return c },
			wantParam: "compilation_overhead_factor",
		},
		{
			name:      "zero physical gate time",
			mutate:    func(c Config) Config { c.PhysicalGateTime = floatPtr(0); return c },
			wantParam: "physical_gate_time_us",
		},
		{
			name:      "target logical error rate of one",
			mutate:    func(c Config) Config { c.TargetLogicalErrorRate = floatPtr(1.0); return c },
			wantParam: "target_logical_error_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mutate(valid).Resolve()
			if err == nil {
				t.Fatal("Resolve should fail, got nil error")
			}
			var cfgErr *domain.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
			}
			if cfgErr.Param != tt.wantParam {
				t.Errorf("error param = %q, want %q", cfgErr.Param, tt.wantParam)
			}
		})
	}
}

func TestResolveHonorsGeometryOverrides(t *testing.T) {
	base := Config{
		LogicalQubits:     1,
		TargetRuntime:     0.5,
		PhysicalErrorRate: 1e-3,
	}

	t.Run("pinned code distance", func(t *testing.T) {
		cfg := base
		cfg.CodeDistance = intPtr(5)
		est, err := New(cfg)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if est.CodeDistance() != 5 {
			t.Errorf("CodeDistance = %d, want the pinned 5 (derived would be 21)", est.CodeDistance())
		}
		if est.QubitsPerLogical() != 50 {
			t.Errorf("QubitsPerLogical = %d, want 50 (2 * 5^2 from the pinned distance)", est.QubitsPerLogical())
		}
		if math.Abs(est.ECCCycleTime()-0.5) > tolerance {
			t.Errorf("ECCCycleTime = %v, want 0.5 (5 * 0.1)", est.ECCCycleTime())
		}
	})

	t.Run("pinned qubits per logical", func(t *testing.T) {
		cfg := base
		cfg.QubitsPerLogical = intPtr(100)
		est, err := New(cfg)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if est.QubitsPerLogical() != 100 {
			t.Errorf("QubitsPerLogical = %d, want the pinned 100", est.QubitsPerLogical())
		}
		if est.DataQubits() != 100 {
			t.Errorf("DataQubits = %d, want 100 (1 logical qubit)", est.DataQubits())
		}
		// Distance still derives from the error rates.
		if est.CodeDistance() != 21 {
			t.Errorf("CodeDistance = %d, want the derived 21", est.CodeDistance())
		}
	})

	t.Run("gate timings override independently", func(t *testing.T) {
		cfg := base
		cfg.TargetRuntime = 1000.0
		cfg.LogicalGateTime = floatPtr(4.0)
		cfg.ECCCycleTime = floatPtr(0.7)
		est, err := New(cfg)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if math.Abs(est.LogicalGateTime()-4.0) > tolerance {
			t.Errorf("LogicalGateTime = %v, want the pinned 4.0", est.LogicalGateTime())
		}
		if math.Abs(est.ECCCycleTime()-0.7) > tolerance {
			t.Errorf("ECCCycleTime = %v, want the pinned 0.7", est.ECCCycleTime())
		}
		if est.LogicalGateCount() != 250 {
			t.Errorf("LogicalGateCount = %d, want 250 (floor(1000 / 4.0))", est.LogicalGateCount())
		}
	})
}

func TestConfigOverridesSurviveJSON(t *testing.T) {
	var cfg Config
	raw := `{"logical_qubits":1,"target_runtime_us":0.5,"physical_error_rate":0.001,"code_distance":5}`
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if cfg.CodeDistance == nil || *cfg.CodeDistance != 5 {
		t.Fatal("code_distance did not survive decoding")
	}

	est, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if est.CodeDistance() != 5 {
		t.Errorf("CodeDistance = %d, want the explicit 5", est.CodeDistance())
	}
}

func TestResolveRejectsInvalidGeometryOverrides(t *testing.T) {
	valid := Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 1e-3,
	}

	tests := []struct {
		name      string
		mutate    func(Config) Config
		wantParam string
	}{
		{
			name:      "even code distance",
			mutate:    func(c Config) Config { c.CodeDistance = intPtr(4); return c },
			wantParam: "code_distance",
		},
		{
			name:      "code distance below three",
			mutate:    func(c Config) Config { c.CodeDistance = intPtr(1); return c },
			wantParam: "code_distance",
		},
		{
			name:      "zero qubits per logical",
			mutate:    func(c Config) Config { c.QubitsPerLogical = intPtr(0); return c },
			wantParam: "qubits_per_logical",
		},
		{
			name:      "zero logical gate time",
			mutate:    func(c Config) Config { c.LogicalGateTime = floatPtr(0); return c },
			wantParam: "logical_gate_time_us",
		},
		{
			name:      "negative correction cycle time",
			mutate:    func(c Config) Config { c.ECCCycleTime = floatPtr(-1.0); return c },
			wantParam: "error_correction_cycle_time_us",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mutate(valid).Resolve()
			if err == nil {
				t.Fatal("Resolve should fail, got nil error")
			}
			var cfgErr *domain.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
			}
			if cfgErr.Param != tt.wantParam {
				t.Errorf("error param = %q, want %q", cfgErr.Param, tt.wantParam)
			}
		})
	}
}

func TestAboveThresholdErrorMessage(t *testing.T) {
	_, err := New(Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 0.02,
	})
	if err == nil {
		t.Fatal("New should fail above threshold, got nil error")
	}
	want := "physical error rate 0.02 must be below threshold 0.01"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestEstimate(t *testing.T) {
	// Ten logical qubits at the standard 1e-3 operating point, running
	// for a millisecond. This pins down the whole derivation chain.
	est, err := New(Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 1e-3,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	e := est.Estimate()

	if e.CodeDistance != 21 {
		t.Errorf("CodeDistance = %d, want 21", e.CodeDistance)
	}
	if e.QubitsPerLogical != 882 {
		t.Errorf("QubitsPerLogical = %d, want 882 (2 * 21^2)", e.QubitsPerLogical)
	}
	if e.DataQubits != 8820 {
		t.Errorf("DataQubits = %d, want 8820", e.DataQubits)
	}
	if e.MagicStateQubits != 176400 {
		t.Errorf("MagicStateQubits = %d, want 176400 (100 * 2.0 * 882)", e.MagicStateQubits)
	}
	if e.CompilationQubits != 4410 {
		t.Errorf("CompilationQubits = %d, want 4410 (8820 * 0.5)", e.CompilationQubits)
	}
	if e.TotalPhysicalQubits != 189630 {
		t.Errorf("TotalPhysicalQubits = %d, want 189630", e.TotalPhysicalQubits)
	}
	if math.Abs(e.ECCCycleTime-2.1) > tolerance {
		t.Errorf("ECCCycleTime = %v, want 2.1", e.ECCCycleTime)
	}
	if e.LogicalGateTime != e.ECCCycleTime {
		t.Errorf("LogicalGateTime = %v, want ECC cycle time %v", e.LogicalGateTime, e.ECCCycleTime)
	}
	if e.LogicalGateCount != 476 {
		t.Errorf("LogicalGateCount = %d, want 476 (floor(1000 / 2.1))", e.LogicalGateCount)
	}
	if e.PhysicalGateCount != 476*21*21*21 {
		t.Errorf("PhysicalGateCount = %d, want %d", e.PhysicalGateCount, 476*21*21*21)
	}
	// 0.1 * (0.1)^11 = 1e-12.
	if math.Abs(e.AchievedLogicalErrorRate-1e-12) > 1e-18 {
		t.Errorf("AchievedLogicalErrorRate = %v, want 1e-12", e.AchievedLogicalErrorRate)
	}
	if e.SuccessProbability < 0.999999 || e.SuccessProbability > 1 {
		t.Errorf("SuccessProbability = %v, expected just under 1", e.SuccessProbability)
	}
	if math.Abs(e.SpaceTimeVolume-1.8963e8) > tolerance {
		t.Errorf("SpaceTimeVolume = %v, want 1.8963e8 qubit-us", e.SpaceTimeVolume)
	}
	if math.Abs(e.SpaceTimeVolumeSec-189.63) > tolerance {
		t.Errorf("SpaceTimeVolumeSec = %v, want 189.63", e.SpaceTimeVolumeSec)
	}
	// 1000 * (1 + 21/10) * (1 + 2.0*0.1) * 1.5 = 1000 * 3.1 * 1.2 * 1.5.
	if math.Abs(e.WallClockTime-5580.0) > 1e-6 {
		t.Errorf("WallClockTime = %v, want 5580.0", e.WallClockTime)
	}
}

func TestQubitBreakdownSumsExactly(t *testing.T) {
	configs := []Config{
		{LogicalQubits: 10, TargetRuntime: 1000.0, PhysicalErrorRate: 1e-3},
		{LogicalQubits: 1, TargetRuntime: 50.0, PhysicalErrorRate: 5e-3},
		{LogicalQubits: 100, TargetRuntime: 1e6, PhysicalErrorRate: 1e-4, TGateCount: intPtr(0)},
		{LogicalQubits: 7, TargetRuntime: 333.0, PhysicalErrorRate: 2e-3, MagicStateOverheadFactor: floatPtr(0)},
		{LogicalQubits: 3, TargetRuntime: 10.0, PhysicalErrorRate: 9e-3, CompilationOverheadFactor: floatPtr(1.0)},
	}

	for _, cfg := range configs {
		est, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%+v) returned error: %v", cfg, err)
		}
		e := est.Estimate()
		sum := e.DataQubits + e.MagicStateQubits + e.CompilationQubits
		if e.TotalPhysicalQubits != sum {
			t.Errorf("TotalPhysicalQubits = %d, parts sum to %d", e.TotalPhysicalQubits, sum)
		}
	}
}

func TestZeroTGateCircuitNeedsNoMagicStates(t *testing.T) {
	est, err := New(Config{
		LogicalQubits:     10,
		TargetRuntime:     1000.0,
		PhysicalErrorRate: 1e-3,
		TGateCount:        intPtr(0),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	e := est.Estimate()
	if e.MagicStateQubits != 0 {
		t.Errorf("MagicStateQubits = %d, want 0 for a Clifford-only circuit", e.MagicStateQubits)
	}
	if e.TotalPhysicalQubits != e.DataQubits+e.CompilationQubits {
		t.Error("total should be data + compilation when no magic states are needed")
	}
}

func TestAchievedErrorMeetsTarget(t *testing.T) {
	for _, p := range []float64{1e-5, 1e-4, 1e-3, 5e-3} {
		for _, target := range []float64{1e-12, 1e-10, 1e-6, 1e-3} {
			est, err := New(Config{
				LogicalQubits:          5,
				TargetRuntime:          100.0,
				PhysicalErrorRate:      p,
				TargetLogicalErrorRate: floatPtr(target),
			})
			if err != nil {
				t.Fatalf("New(p=%g, target=%g) returned error: %v", p, target, err)
			}
			achieved := est.AchievedLogicalErrorRate()
			if achieved > target {
				t.Errorf("achieved rate %g exceeds target %g at p=%g", achieved, target, p)
			}
		}
	}
}

func TestSuccessProbabilityDegradesWithRuntime(t *testing.T) {
	prev := 1.0
	for _, runtime := range []float64{100.0, 1000.0, 1e5, 1e7} {
		est, err := New(Config{
			LogicalQubits:     10,
			TargetRuntime:     runtime,
			PhysicalErrorRate: 1e-3,
		})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		success := est.SuccessProbability()
		if success <= 0 || success > 1 {
			t.Errorf("SuccessProbability at runtime %g = %v, outside (0, 1]", runtime, success)
		}
		if success > prev {
			t.Errorf("SuccessProbability at runtime %g = %v, improved over shorter run %v", runtime, success, prev)
		}
		prev = success
	}
}

func TestWallClockAlwaysExceedsTarget(t *testing.T) {
	for _, runtime := range []float64{1.0, 1000.0, 1e6} {
		est, err := New(Config{
			LogicalQubits:     10,
			TargetRuntime:     runtime,
			PhysicalErrorRate: 1e-3,
		})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		// Compilation slack alone is a factor of 1.5.
		if est.WallClockTime() < runtime*1.5 {
			t.Errorf("WallClockTime = %v, below %v", est.WallClockTime(), runtime*1.5)
		}
	}
}

func BenchmarkEstimate(b *testing.B) {
	est, err := New(Config{
		LogicalQubits:     100,
		TargetRuntime:     1e6,
		PhysicalErrorRate: 1e-3,
	})
	if err != nil {
		b.Fatalf("New returned error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = est.Estimate()
	}
}
