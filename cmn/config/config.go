// Package config is a global-config-owner ("GCO"), shaped after the
// teacher's cmn.GCO: a YAML-loaded, atomically-swapped configuration
// singleton. wireup.Select itself stays a pure function of its explicit
// arguments (spec.md section 5 forbids hidden state) — Config is consumed
// by cmd/wireupsim, which passes the Selection sub-struct into wireup
// explicitly on every call.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/ucx-wireup/cmn/nlog"
)

// Selection holds the selector's tunable constants. Default() supplies a
// spec.md-derived value for every field; a caller that skips Load still
// gets them through GCOGet, and wireup.Select substitutes them when handed
// a nil *Selection. A zero-value Selection is not filled in.
type Selection struct {
	// Epsilon is the relative tolerance used by the score-equality
	// tie-break (spec.md section 4.1). Default 1e-9.
	Epsilon float64 `yaml:"epsilon"`
	// MaxLanes bounds the scratch lane-descriptor array (spec.md's
	// MAX_LANES). Default 16.
	MaxLanes int `yaml:"max_lanes"`
	// MaxOpMDs bounds the number of distinct remote MDs packed into
	// rma_bw_md_map (spec.md's MAX_OP_MDS). Default 4.
	MaxOpMDs int `yaml:"max_op_mds"`
	// RMABWProbeSize is the "size" constant in the bulk-RMA bandwidth
	// score formula (spec.md section 4.1). Default 262144 (256 KiB).
	RMABWProbeSize float64 `yaml:"rma_bw_probe_size"`
	// AMBWProbeScale is the 1e-5 scale factor in the AM-BW score formula.
	AMBWProbeScale float64 `yaml:"am_bw_probe_scale"`
	// RMAScoreScale is the 1e-3 scale factor shared by the small-message
	// latency, RMA, and AMO score formulas.
	RMAScoreScale float64 `yaml:"rma_md_score_scale"`
	// RndvExcludedTransports names transport substrings excluded from
	// rma_bw_md_map construction (spec.md section 4.5 step 5, and the
	// policy hook spec.md section 9 asks for instead of a hard-coded
	// transport name).
	RndvExcludedTransports []string `yaml:"rndv_excluded_transports"`
}

// clone returns a value copy of s whose RndvExcludedTransports slice has
// its own backing array, so mutating the copy never changes s.
func (s Selection) clone() Selection {
	out := s
	if s.RndvExcludedTransports != nil {
		out.RndvExcludedTransports = append([]string(nil), s.RndvExcludedTransports...)
	}
	return out
}

// Log holds cmn/nlog setup.
type Log struct {
	Level   string         `yaml:"level"`
	Format  nlog.Format    `yaml:"format"`
	Verbose map[string]int `yaml:"verbose"`
}

// Config is the top-level document loaded from wireupsim's --config file.
type Config struct {
	Selection Selection `yaml:"selection"`
	Log       Log       `yaml:"log"`
}

// Default returns a Config populated with spec.md's constants.
func Default() *Config {
	return &Config{
		Selection: Selection{
			Epsilon:        1e-9,
			MaxLanes:       16,
			MaxOpMDs:       4,
			RMABWProbeSize: 262144,
			AMBWProbeScale: 1e-5,
			RMAScoreScale:  1e-3,
		},
		Log: Log{
			Level:  "info",
			Format: nlog.FormatConsole,
		},
	}
}

// GCO is the global config owner, mirroring cmn.GCO.Get()/Put() in the
// teacher. Atomic so concurrent readers (e.g. wireupsim's bench mode,
// fanning selector calls out across an errgroup) never race a reload.
var gco atomic.Pointer[Config]

func init() {
	gco.Store(Default())
}

// GCOGet returns the current process-wide Config.
func GCOGet() *Config { return gco.Load() }

// GCOPut installs cfg as the process-wide Config and configures cmn/nlog
// from its Log section.
func GCOPut(cfg *Config) {
	gco.Store(cfg)
	nlog.Configure(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	for module, level := range cfg.Log.Verbose {
		nlog.SetVerbose(module, level)
	}
}

// Load reads and parses a YAML config file, filling in spec.md defaults for
// any field the file omits, then installs it via GCOPut.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	fillDefaults(cfg)
	GCOPut(cfg)
	return cfg, nil
}

func fillDefaults(cfg *Config) {
	d := Default()
	if cfg.Selection.Epsilon == 0 {
		cfg.Selection.Epsilon = d.Selection.Epsilon
	}
	if cfg.Selection.MaxLanes == 0 {
		cfg.Selection.MaxLanes = d.Selection.MaxLanes
	}
	if cfg.Selection.MaxOpMDs == 0 {
		cfg.Selection.MaxOpMDs = d.Selection.MaxOpMDs
	}
	if cfg.Selection.RMABWProbeSize == 0 {
		cfg.Selection.RMABWProbeSize = d.Selection.RMABWProbeSize
	}
	if cfg.Selection.AMBWProbeScale == 0 {
		cfg.Selection.AMBWProbeScale = d.Selection.AMBWProbeScale
	}
	if cfg.Selection.RMAScoreScale == 0 {
		cfg.Selection.RMAScoreScale = d.Selection.RMAScoreScale
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}
}
