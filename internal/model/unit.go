package model

import (
	"fmt"
	"strings"
)

// Unit identifies the physical unit of a value column.
// kW is the canonical internal unit; kWh appears only in legacy inputs and
// derived output columns.
type Unit string

const (
	UnitKW  Unit = "kW"
	UnitKWh Unit = "kWh"
)

// ParseUnit accepts the unit spellings found in series configs
// (case-insensitive "kW" / "kWh").
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kw":
		return UnitKW, nil
	case "kwh":
		return UnitKWh, nil
	default:
		return "", fmt.Errorf("unknown unit %q (expected kW or kWh)", s)
	}
}

// Role classifies a series; it governs sign conventions and how the
// analysis layer combines series.
type Role string

const (
	RoleGeneration  Role = "generation"
	RoleLoad        Role = "load"
	RoleStorage     Role = "storage"
	RoleUnspecified Role = "unspecified"
)

// ParseRole maps the German Typ values used in series configs.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erzeugung", "generation":
		return RoleGeneration
	case "last", "load":
		return RoleLoad
	case "speicher", "storage":
		return RoleStorage
	default:
		return RoleUnspecified
	}
}
