package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTable(t *testing.T) {
	analogEst, digitalEst, cmp := referenceInputs(t)
	report := NewAssembler().Assemble(analogEst, digitalEst, cmp, "", true)

	table := FormatTable(report)
	lines := strings.Split(table, "\n")

	assert.Equal(t, strings.Repeat("=", 80), lines[0])
	assert.Contains(t, lines[1], DefaultTitle)
	assert.Contains(t, table, "Generated: ")

	assert.Contains(t, table, "ANALOG SIMULATION")
	assert.Contains(t, table, "System Size:            5 qubits")
	assert.Contains(t, table, "System T1:              20.00 μs")
	assert.Contains(t, table, "Fidelity:               0.3679")

	assert.Contains(t, table, "DIGITAL FAULT-TOLERANT COMPUTATION")
	assert.Contains(t, table, "Logical Qubits:         10")
	assert.Contains(t, table, "Code Distance:          21")
	assert.Contains(t, table, "  Data Qubits:          8,820")
	assert.Contains(t, table, "  Magic State Qubits:   176,400")
	assert.Contains(t, table, "  TOTAL Physical Qubits:189,630")
	assert.Contains(t, table, "Wall Clock Time:        5580.00 μs")
	assert.Contains(t, table, "Logical Gates:          476")
	assert.Contains(t, table, "Space-Time Volume:      1.90e+02 qubit-s")

	assert.Contains(t, table, "COMPARISON")
	assert.Contains(t, table, "Qubit Count Ratio (D/A):37926.00x")
	assert.Contains(t, table, "Runtime Ratio (D/A):    50.00x")
	assert.Contains(t, table, "→ Analog simulation is 50.00x FASTER")

	assert.Contains(t, table, "Space-Time Resources:")
	assert.Contains(t, table, "  Digital: 1.90e+02 qubit-s")

	// Table ends with a closing rule.
	assert.Equal(t, strings.Repeat("=", 80), lines[len(lines)-1])
}

func TestFormatTableDigitalFasterVerdict(t *testing.T) {
	analogEst, digitalEst, cmp := referenceInputs(t)
	report := NewAssembler().Assemble(analogEst, digitalEst, cmp, "", false)

	// Flip the verdict by hand: a runtime ratio below 1 means the
	// digital target fits inside the analog window.
	report.Comparison.AnalogFaster = false
	report.Comparison.RuntimeRatioDigitalToAnalog = 0.5

	table := FormatTable(report)
	assert.Contains(t, table, "→ Digital computation is 2.00x FASTER")
	assert.NotContains(t, table, "Analog simulation is")
}

func TestFormatTableWithoutMetadata(t *testing.T) {
	analogEst, digitalEst, cmp := referenceInputs(t)
	report := NewAssembler().Assemble(analogEst, digitalEst, cmp, "", false)

	table := FormatTable(report)
	assert.NotContains(t, table, "Generated: ")
}

func TestFormatTableTitleCentered(t *testing.T) {
	analogEst, digitalEst, cmp := referenceInputs(t)
	report := NewAssembler().Assemble(analogEst, digitalEst, cmp, "Short", false)

	lines := strings.Split(FormatTable(report), "\n")
	require.Greater(t, len(lines), 2)

	titleLine := lines[1]
	assert.True(t, strings.HasSuffix(titleLine, "Short"))
	// (80 - 5) / 2 = 37 leading spaces.
	assert.Equal(t, strings.Repeat(" ", 37)+"Short", titleLine)
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  ab", centerText("ab", 6))
	assert.Equal(t, " ab", centerText("ab", 5))
	assert.Equal(t, "ab", centerText("ab", 2))
	assert.Equal(t, "abcdef", centerText("abcdef", 4))
}
