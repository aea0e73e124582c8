// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"DEBUG", DEBUG},
		{"info", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"bogus", INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetWriter(&buf)
	l.SetLevel(WARN)

	l.Debug("dropped debug")
	l.Info("dropped info")
	l.Warn("kept warn")
	l.Error("kept error")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("messages below level were written: %q", out)
	}
	if !strings.Contains(out, "kept warn") || !strings.Contains(out, "kept error") {
		t.Errorf("messages at or above level missing: %q", out)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("machine")
	l.SetWriter(&buf)

	l.WithField("axis", "X").WithField("pos", 1.5).Info("moved")

	out := buf.String()
	if !strings.Contains(out, "[INFO ]") {
		t.Errorf("missing level tag: %q", out)
	}
	if !strings.Contains(out, "machine: moved") {
		t.Errorf("missing prefix/message: %q", out)
	}
	if !strings.Contains(out, "axis=X") || !strings.Contains(out, "pos=1.5") {
		t.Errorf("missing fields: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("sim")
	l.SetWriter(&buf)
	l.SetFormat(FormatJSON)

	l.WithFields(Fields{"step": 42}).Warn("collision detected")

	var entry struct {
		Level   string                 `json:"level"`
		Logger  string                 `json:"logger"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "WARN" {
		t.Errorf("level = %q, want WARN", entry.Level)
	}
	if entry.Logger != "sim" {
		t.Errorf("logger = %q, want sim", entry.Logger)
	}
	if entry.Message != "collision detected" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Fields["step"] != float64(42) {
		t.Errorf("fields[step] = %v", entry.Fields["step"])
	}
}

func TestWithPrefixSharesSettings(t *testing.T) {
	var buf bytes.Buffer
	l := New("root")
	l.SetWriter(&buf)
	l.SetLevel(DEBUG)

	child := l.WithPrefix("kinematics")
	child.Debug("solving")

	if !strings.Contains(buf.String(), "kinematics: solving") {
		t.Errorf("child logger output missing: %q", buf.String())
	}
}

func TestFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetWriter(&buf)

	l.Info("axis %s at %.2f", "Z", 3.14159)
	if !strings.Contains(buf.String(), "axis Z at 3.14") {
		t.Errorf("formatted output wrong: %q", buf.String())
	}
}
