// Factory functions for creating kinematics instances from configuration.
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package kinematics

import (
	"fmt"
	"strings"
)

// Config describes the kinematics to build.
type Config struct {
	Type    string        // kinematics type: "cartesian3axis"
	XLimits [2]float64    // X travel [min, max]
	YLimits [2]float64    // Y travel [min, max]
	ZLimits [2]float64    // Z travel [min, max]
}

// NewFromConfig creates a kinematics instance from configuration.
func NewFromConfig(cfg Config) (Kinematics, error) {
	kinType := strings.ToLower(strings.TrimSpace(cfg.Type))

	switch kinType {
	case "", "cartesian", "cartesian3axis":
		k := NewCartesian3Axis(cfg.XLimits, cfg.YLimits, cfg.ZLimits)
		if !k.Valid() {
			return nil, fmt.Errorf("cartesian3axis: invalid travel limits x=%v y=%v z=%v",
				cfg.XLimits, cfg.YLimits, cfg.ZLimits)
		}
		return k, nil

	default:
		return nil, fmt.Errorf("unsupported kinematics type: %s", cfg.Type)
	}
}

// IsSupported reports whether the given kinematics type is recognized.
func IsSupported(kinType string) bool {
	switch strings.ToLower(strings.TrimSpace(kinType)) {
	case "cartesian", "cartesian3axis":
		return true
	default:
		return false
	}
}

// SupportedTypes lists the recognized kinematics type names.
func SupportedTypes() []string {
	return []string{"cartesian3axis"}
}
