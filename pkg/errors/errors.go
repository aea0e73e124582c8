// Unified error handling for the CNC simulation core
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Lifecycle errors
	ErrInvalidState    ErrorCode = "INVALID_STATE"    // operation called out of lifecycle order
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT" // malformed geometry or nil collaborator

	// Geometry/validation errors
	ErrGeometryInconsistency ErrorCode = "GEOMETRY_INCONSISTENCY" // arc mismatch, discontinuity, out-of-limits value

	// Simulation errors
	ErrCollision       ErrorCode = "COLLISION"        // tool/material or tool/machine interference
	ErrResourceInvalid ErrorCode = "RESOURCE_INVALID" // material grid or machine reports itself invalid
	ErrStepFailed      ErrorCode = "STEP_FAILED"

	// Machine errors
	ErrKinematicsBounds ErrorCode = "KINEMATICS_BOUNDS"
	ErrMachineInvalid   ErrorCode = "MACHINE_INVALID"

	// Tool errors
	ErrToolInvalid ErrorCode = "TOOL_INVALID"

	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
)

// Severity represents how serious an error is
type Severity int

const (
	// SeverityWarning doesn't stop execution
	SeverityWarning Severity = iota

	// SeverityError prevents the operation
	SeverityError

	// SeverityFatal requires termination of the caller's loop
	SeverityFatal
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// SimError is the unified error type for the simulation core.
// Every failing operation returns one of these; the Recoverable flag tells
// the caller whether its step loop may continue (e.g. a flagged collision)
// or must stop (e.g. stepping an uninitialized engine).
type SimError struct {
	// Code is the error category
	Code ErrorCode

	// Severity classifies the error
	Severity Severity

	// Message is a human-readable error description
	Message string

	// Recoverable indicates the caller may continue after this error
	Recoverable bool

	// Err wraps the underlying error
	Err error

	// Context provides additional structured context
	// (move index, field, offending value, limit, ...)
	Context map[string]interface{}
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *SimError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether the caller may continue after this error.
// A nil error is trivially recoverable.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	if se, ok := err.(*SimError); ok {
		return se.Recoverable
	}
	return false
}

// SetContext adds additional context
func (e *SimError) SetContext(key string, value interface{}) *SimError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// SetRecoverable sets the recoverable flag
func (e *SimError) SetRecoverable(recoverable bool) *SimError {
	e.Recoverable = recoverable
	return e
}

// GetContext retrieves a context value, or nil if absent
func (e *SimError) GetContext(key string) interface{} {
	if e.Context == nil {
		return nil
	}
	return e.Context[key]
}

// New creates a new SimError
func New(code ErrorCode, message string) *SimError {
	return &SimError{
		Code:     code,
		Severity: SeverityError,
		Message:  message,
	}
}

// Wrap wraps an existing error with a code and message
func Wrap(err error, code ErrorCode, message string) *SimError {
	return &SimError{
		Code:     code,
		Severity: SeverityError,
		Message:  message,
		Err:      err,
	}
}

// Lifecycle errors

// InvalidState creates an error for an operation called out of lifecycle order
func InvalidState(message string) *SimError {
	return New(ErrInvalidState, message)
}

// InvalidArgument creates an error for a malformed or nil argument
func InvalidArgument(message string) *SimError {
	return New(ErrInvalidArgument, message)
}

// Geometry/validation errors

// GeometryInconsistency creates an error for inconsistent geometry
// (arc radius mismatch, discontinuity, out-of-limits value)
func GeometryInconsistency(message string) *SimError {
	return New(ErrGeometryInconsistency, message)
}

// MoveError creates a validation error localized to one toolpath move
func MoveError(index int, field, message string) *SimError {
	return New(ErrGeometryInconsistency,
		fmt.Sprintf("move %d: %s", index, message)).
		SetContext("move_index", index).
		SetContext("field", field)
}

// LimitError creates a validation error for a value outside [min, max]
func LimitError(index int, field string, value, min, max float64) *SimError {
	return New(ErrGeometryInconsistency,
		fmt.Sprintf("move %d: %s value %.6f exceeds limits [%.6f, %.6f]",
			index, field, value, min, max)).
		SetContext("move_index", index).
		SetContext("field", field).
		SetContext("value", value).
		SetContext("min", min).
		SetContext("max", max)
}

// Simulation errors

// Collision creates a recoverable collision error; the caller decides
// whether to halt, re-plan, or continue
func Collision(message string) *SimError {
	e := New(ErrCollision, message)
	e.Severity = SeverityWarning
	e.Recoverable = true
	return e
}

// ResourceInvalid creates an error for a self-invalid material grid or machine
func ResourceInvalid(resource, message string) *SimError {
	return New(ErrResourceInvalid, fmt.Sprintf("%s: %s", resource, message)).
		SetContext("resource", resource)
}

// Machine errors

// KinematicsBoundsError creates an error for an axis coordinate outside its limits
func KinematicsBoundsError(axis string, coord, min, max float64) *SimError {
	return New(ErrKinematicsBounds,
		fmt.Sprintf("%s coordinate %.3f out of bounds [%.3f, %.3f]", axis, coord, min, max)).
		SetContext("axis", axis).
		SetContext("value", coord).
		SetContext("min", min).
		SetContext("max", max)
}

// MachineInvalid creates an error for an invalid machine definition
func MachineInvalid(message string) *SimError {
	return New(ErrMachineInvalid, message)
}

// ToolInvalid creates an error for an invalid tool definition
func ToolInvalid(toolID, message string) *SimError {
	return New(ErrToolInvalid, fmt.Sprintf("tool '%s': %s", toolID, message)).
		SetContext("tool_id", toolID)
}

// Config errors

// ConfigSectionError creates an error for a missing config section
func ConfigSectionError(section string) *SimError {
	return New(ErrConfigSection, fmt.Sprintf("section '%s' not found", section)).
		SetContext("section", section)
}

// ConfigOptionError creates an error for a missing config option
func ConfigOptionError(section, option string) *SimError {
	return New(ErrConfigOption,
		fmt.Sprintf("option '%s' not found in section '%s'", option, section)).
		SetContext("section", section).
		SetContext("option", option)
}

// ConfigValidationError creates an error for a config validation failure
func ConfigValidationError(section, option, reason string) *SimError {
	return New(ErrConfigValidation,
		fmt.Sprintf("option '%s' in section '%s': %s", option, section, reason)).
		SetContext("section", section).
		SetContext("option", option)
}

// Is checks if an error matches the given error code
func Is(err error, code ErrorCode) bool {
	if se, ok := err.(*SimError); ok {
		return se.Code == code
	}
	return false
}

// IsConfig checks if the error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation)
}

// IsValidation checks if the error is a toolpath/machine validation error
func IsValidation(err error) bool {
	return Is(err, ErrGeometryInconsistency) ||
		Is(err, ErrKinematicsBounds) ||
		Is(err, ErrMachineInvalid) ||
		Is(err, ErrToolInvalid)
}
