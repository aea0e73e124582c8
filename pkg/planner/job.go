// Package planner defines manufacturing jobs: the aggregate tying a
// machine, a tool set, stock and toolpaths together with a status
// lifecycle and cross-validation of the parts against each other.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"cncsim-go/pkg/errors"
	"cncsim-go/pkg/frame"
	"cncsim-go/pkg/machine"
	"cncsim-go/pkg/tool"
	"cncsim-go/pkg/toolpath"
)

// Status is the job lifecycle state.
type Status int

const (
	StatusDraft Status = iota
	StatusToolpathsReady
	StatusSimulated
	StatusReady
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusToolpathsReady:
		return "toolpaths_ready"
	case StatusSimulated:
		return "simulated"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Metadata is free-form descriptive information attached to a job.
type Metadata struct {
	Author      string
	Description string
	Version     string
	Tags        []string
}

// Job is a complete manufacturing job: machine, tools and stock as
// inputs, toolpaths as generated outputs, with a status lifecycle.
// Inputs are fixed at construction; outputs and status evolve.
type Job struct {
	id        string
	name      string
	machine   *machine.Machine
	tools     []tool.Tool
	workpiece *frame.Workpiece

	status    Status
	toolpaths []*toolpath.Toolpath

	createdAt  time.Time
	modifiedAt time.Time
	metadata   Metadata
}

// NewJob creates a job in the draft state. An empty id gets a generated
// UUID.
func NewJob(id, name string, m *machine.Machine, tools []tool.Tool, w *frame.Workpiece) *Job {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Job{
		id:         id,
		name:       name,
		machine:    m,
		tools:      append([]tool.Tool(nil), tools...),
		workpiece:  w,
		createdAt:  now,
		modifiedAt: now,
	}
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Name returns the job display name.
func (j *Job) Name() string { return j.name }

// Machine returns the target machine.
func (j *Job) Machine() *machine.Machine { return j.machine }

// Tools returns a copy of the job's tool set.
func (j *Job) Tools() []tool.Tool {
	return append([]tool.Tool(nil), j.tools...)
}

// Tool looks up a job tool by id.
func (j *Job) Tool(id string) (tool.Tool, bool) {
	for _, t := range j.tools {
		if t.ID() == id {
			return t, true
		}
	}
	return tool.Tool{}, false
}

// Workpiece returns the stock definition.
func (j *Job) Workpiece() *frame.Workpiece { return j.workpiece }

// Status returns the lifecycle state.
func (j *Job) Status() Status { return j.status }

// SetStatus updates the lifecycle state.
func (j *Job) SetStatus(s Status) {
	j.status = s
	j.touch()
}

// Toolpaths returns the generated toolpaths.
func (j *Job) Toolpaths() []*toolpath.Toolpath {
	return append([]*toolpath.Toolpath(nil), j.toolpaths...)
}

// SetToolpaths replaces the generated toolpaths and advances the status.
func (j *Job) SetToolpaths(paths []*toolpath.Toolpath) {
	j.toolpaths = append([]*toolpath.Toolpath(nil), paths...)
	j.status = StatusToolpathsReady
	j.touch()
}

// CreatedAt returns the creation timestamp.
func (j *Job) CreatedAt() time.Time { return j.createdAt }

// ModifiedAt returns the last modification timestamp.
func (j *Job) ModifiedAt() time.Time { return j.modifiedAt }

// Metadata returns the descriptive metadata.
func (j *Job) Metadata() Metadata { return j.metadata }

// SetMetadata replaces the descriptive metadata.
func (j *Job) SetMetadata(m Metadata) {
	j.metadata = m
	j.touch()
}

func (j *Job) touch() {
	j.modifiedAt = time.Now()
}

// Validate cross-checks the job's parts: the machine must pass its
// validator, every tool must be compatible with the machine, the stock
// must be valid, and every toolpath must target this machine, pass
// validation and reference only tools the job carries. Returns the first
// violation found.
func (j *Job) Validate() error {
	if j.machine == nil {
		return errors.ResourceInvalid("job", "machine is not set")
	}
	if err := machine.Validate(j.machine); err != nil {
		return err
	}
	if len(j.tools) == 0 {
		return errors.ResourceInvalid("job", "no tools specified")
	}
	for _, t := range j.tools {
		if err := machine.ValidateToolCompatibility(j.machine, t); err != nil {
			return err
		}
	}
	if j.workpiece == nil || !j.workpiece.Valid() {
		return errors.ResourceInvalid("job", "stock is missing or invalid")
	}
	for _, tp := range j.toolpaths {
		if tp.MachineID() != j.machine.ID() {
			return errors.ResourceInvalid("job", fmt.Sprintf(
				"toolpath %s targets machine %s, job machine is %s",
				tp.ID(), tp.MachineID(), j.machine.ID()))
		}
		if err := toolpath.Validate(tp, j.machine); err != nil {
			return err
		}
		for _, toolID := range tp.UsedToolIDs() {
			if _, ok := j.Tool(toolID); !ok {
				return errors.ToolInvalid(toolID, fmt.Sprintf(
					"toolpath %s uses a tool the job does not carry", tp.ID()))
			}
		}
	}
	return nil
}

// IsValid reports whether Validate accepts the job.
func (j *Job) IsValid() bool { return j.Validate() == nil }
