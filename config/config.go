// Package config loads the room's configuration surface from HCL,
// following the teacher's internal/server/config.go pattern
// (gohcl.DecodeBody over hclparse) adapted to the §6.2 key set.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-engine/engine"
)

// RoomConfig is the full §6.2 configuration surface for one table's room.
type RoomConfig struct {
	MinPlayers         int    `hcl:"min_players,optional"`
	StartingChips      int    `hcl:"starting_chips,optional"`
	SmallBlind         int    `hcl:"small_blind,optional"`
	BigBlind           int    `hcl:"big_blind,optional"`
	MaxRounds          int    `hcl:"max_rounds,optional"`
	AutoStartEnabled   bool   `hcl:"auto_start_enabled,optional"`
	StartDelay         string `hcl:"start_delay,optional"`
	RoundOverDelay     string `hcl:"round_over_delay,optional"`
	AutoRestartEnabled bool   `hcl:"auto_restart_enabled,optional"`
	AutoRestartDelay   string `hcl:"auto_restart_delay,optional"`
	DeterministicMode  bool   `hcl:"deterministic_mode,optional"`
	ScenarioID         string `hcl:"scenario_id,optional"`
}

// File is the top-level HCL document: one or more named `room` blocks, the
// way the teacher's ServerConfig nests `table` blocks.
type File struct {
	Rooms []struct {
		Name   string `hcl:"name,label"`
		Config RoomConfig `hcl:",remain"`
	} `hcl:"room,block"`
}

// DefaultRoomConfig returns the spec §6.2 defaults.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		MinPlayers:         2,
		StartingChips:      1000,
		SmallBlind:         10,
		BigBlind:           20,
		MaxRounds:          0,
		AutoStartEnabled:   true,
		StartDelay:         "0s",
		RoundOverDelay:     "50ms",
		AutoRestartEnabled: true,
		AutoRestartDelay:   "10s",
		DeterministicMode:  false,
		ScenarioID:         "",
	}
}

// LoadFile loads every room block from an HCL file, mirroring
// LoadServerConfig's existence-check and default-backfill passes. Defaults
// are backfilled for min_players, starting_chips, the blinds and the three
// delays when left zero or empty; an omitted boolean key (auto_start_enabled,
// auto_restart_enabled, deterministic_mode) decodes as false, not as its
// DefaultRoomConfig value.
func LoadFile(filename string) (*File, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return &File{}, nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: failed to parse %s: %s", filename, diags.Error())
	}

	var file File
	diags = gohcl.DecodeBody(f.Body, nil, &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: failed to decode %s: %s", filename, diags.Error())
	}

	defaults := DefaultRoomConfig()
	for i := range file.Rooms {
		applyDefaults(&file.Rooms[i].Config, defaults)
	}
	return &file, nil
}

func applyDefaults(c *RoomConfig, d RoomConfig) {
	if c.MinPlayers == 0 {
		c.MinPlayers = d.MinPlayers
	}
	if c.StartingChips == 0 {
		c.StartingChips = d.StartingChips
	}
	if c.SmallBlind == 0 {
		c.SmallBlind = d.SmallBlind
	}
	if c.BigBlind == 0 {
		c.BigBlind = d.BigBlind
	}
	if c.StartDelay == "" {
		c.StartDelay = d.StartDelay
	}
	if c.RoundOverDelay == "" {
		c.RoundOverDelay = d.RoundOverDelay
	}
	if c.AutoRestartDelay == "" {
		c.AutoRestartDelay = d.AutoRestartDelay
	}
}

// Validate checks the invariants spec §3's Config entity requires: all
// positive, big_blind >= small_blind.
func (c RoomConfig) Validate() error {
	if c.StartingChips <= 0 {
		return fmt.Errorf("config: starting_chips must be positive")
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		return fmt.Errorf("config: blinds must be positive")
	}
	if c.BigBlind < c.SmallBlind {
		return fmt.Errorf("config: big_blind must be >= small_blind")
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("config: min_players must be >= 2")
	}
	return nil
}

// Durations parses the three delay fields, following the teacher's
// practice of storing durations as plain config strings and parsing at load
// time rather than carrying time.Duration through HCL decoding directly.
func (c RoomConfig) Durations() (start, roundOver, autoRestart time.Duration, err error) {
	if start, err = time.ParseDuration(orDefault(c.StartDelay, "0s")); err != nil {
		return 0, 0, 0, fmt.Errorf("config: invalid start_delay: %w", err)
	}
	if roundOver, err = time.ParseDuration(orDefault(c.RoundOverDelay, "50ms")); err != nil {
		return 0, 0, 0, fmt.Errorf("config: invalid round_over_delay: %w", err)
	}
	if autoRestart, err = time.ParseDuration(orDefault(c.AutoRestartDelay, "10s")); err != nil {
		return 0, 0, 0, fmt.Errorf("config: invalid auto_restart_delay: %w", err)
	}
	return start, roundOver, autoRestart, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ToEngineConfig projects the HCL surface down to engine.Config, the subset
// the pure state machine actually consumes.
func (c RoomConfig) ToEngineConfig() engine.Config {
	return engine.Config{
		MinPlayers:         c.MinPlayers,
		StartingChips:      c.StartingChips,
		SmallBlind:         c.SmallBlind,
		BigBlind:           c.BigBlind,
		MaxRounds:          c.MaxRounds,
		AutoStartEnabled:   c.AutoStartEnabled,
		AutoRestartEnabled: c.AutoRestartEnabled,
	}
}
