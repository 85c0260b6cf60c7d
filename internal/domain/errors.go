package domain

import "fmt"

// ConfigurationError reports invalid input detected while constructing a
// model: mismatched array lengths, non-positive physical quantities, an error
// rate at or above the code threshold. It is permanent (the configuration
// must change before the model can be built) and is raised before any
// derived field becomes readable.
type ConfigurationError struct {
	// Param names the configuration field that failed validation.
	Param string
	// Message describes the violated constraint, including the offending value.
	Message string
}

// Error returns the constraint description.
func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError builds a ConfigurationError for the named parameter.
// The message should state both the value and the constraint, e.g.
// "physical error rate 0.02 must be below threshold 0.01".
func NewConfigurationError(param, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// DomainError reports a mathematically undefined operation over
// valid-looking inputs, such as a reciprocal sum over an empty set or a
// ratio against a zero baseline. Handled identically to a configuration
// error: fail fast, no default substitution.
type DomainError struct {
	// Op names the operation that was undefined.
	Op string
	// Message describes why the operation is undefined.
	Message string
}

// Error returns the description of the undefined operation.
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError for the named operation.
func NewDomainError(op, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}
