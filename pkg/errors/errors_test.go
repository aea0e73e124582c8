// Unit tests for the unified error type
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAndError(t *testing.T) {
	e := New(ErrInvalidState, "step called before initialize")
	if e.Code != ErrInvalidState {
		t.Errorf("code = %s", e.Code)
	}
	if e.Severity != SeverityError {
		t.Errorf("severity = %s", e.Severity)
	}
	if e.Recoverable {
		t.Error("plain error should not be recoverable")
	}
	if !strings.Contains(e.Error(), "INVALID_STATE") {
		t.Errorf("message missing code: %s", e.Error())
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := Wrap(inner, ErrStepFailed, "step failed")
	if !errors.Is(e, inner) {
		t.Error("wrapped error not found by errors.Is")
	}
	if !strings.Contains(e.Error(), "boom") {
		t.Errorf("wrapped message missing: %s", e.Error())
	}
}

func TestCollisionIsRecoverable(t *testing.T) {
	e := Collision("tool hit fixture")
	if !e.Recoverable {
		t.Error("collision should be recoverable by default")
	}
	if e.Severity != SeverityWarning {
		t.Errorf("severity = %s, want WARNING", e.Severity)
	}
	if !IsRecoverable(e) {
		t.Error("IsRecoverable should report true")
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(nil) {
		t.Error("nil error should be recoverable")
	}
	if IsRecoverable(InvalidState("uninitialized")) {
		t.Error("invalid-state error should not be recoverable")
	}
	if IsRecoverable(errors.New("plain")) {
		t.Error("unknown error type should not be recoverable")
	}
}

func TestLimitErrorContext(t *testing.T) {
	e := LimitError(7, "start.x", 512.5, -500, 500)
	if got := e.GetContext("move_index"); got != 7 {
		t.Errorf("move_index = %v", got)
	}
	if got := e.GetContext("value"); got != 512.5 {
		t.Errorf("value = %v", got)
	}
	if !strings.Contains(e.Error(), "move 7") {
		t.Errorf("message missing index: %s", e.Error())
	}
	if !IsValidation(e) {
		t.Error("limit error should classify as validation")
	}
}

func TestIsHelpers(t *testing.T) {
	if !Is(ConfigSectionError("machine"), ErrConfigSection) {
		t.Error("Is failed for config section error")
	}
	if !IsConfig(ConfigOptionError("machine", "kinematics")) {
		t.Error("IsConfig failed")
	}
	if IsConfig(Collision("x")) {
		t.Error("collision should not classify as config")
	}
	if Is(errors.New("plain"), ErrCollision) {
		t.Error("plain error should not match any code")
	}
}

func TestSetContextChaining(t *testing.T) {
	e := InvalidArgument("nil engine").
		SetContext("component", "controller").
		SetRecoverable(false)
	if e.GetContext("component") != "controller" {
		t.Error("context not set")
	}
	if e.GetContext("missing") != nil {
		t.Error("missing context should be nil")
	}
}
