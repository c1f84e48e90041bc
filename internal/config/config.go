// Package config loads the TOML run configuration: top-level defaults
// plus one [Scans.<name>] section per cross-section scan.
package config

import (
	"github.com/BurntSushi/toml"
)

// ScanParameters drives one scan: beam energy and Q2 range for the
// cross-section table, cutoff and grid settings for the generator, and
// optional event sampling.
type ScanParameters struct {
	BeamEnergy float64 // lepton beam energy [MeV]
	Q2Min      float64 // [MeV^2]
	Q2Max      float64 // [MeV^2]
	Points     int     // rows of the scan table
	VMin       float64 // soft/hard photon split [MeV^2]
	VCut       float64 // upper inelasticity cut [MeV^2], <= 0 means the kinematic limit
	MinBins    int     // minimum bin count of the sampling grids
	TPrec      float64 // relative precision of the t and Q2 grids
	VPrec      float64 // relative precision of the v grid
	Events     int     // events to sample, 0 disables sampling
	Seed       int64
	Plot       bool // render the scan to PNG next to the CSV
}

// Config mirrors the TOML file layout. The top-level fields act as
// defaults for every scan that does not set them.
type Config struct {
	OutputDir string

	BeamEnergy float64
	Q2Min      float64
	Q2Max      float64
	Points     int
	VMin       float64
	VCut       float64
	MinBins    int
	TPrec      float64
	VPrec      float64
	Events     int
	Seed       int64
	Plot       bool

	Scans map[string]ScanParameters
}

// Load decodes the TOML file at path. The returned MetaData drives
// CheckDefaults.
func Load(path string) (Config, toml.MetaData, error) {
	var c Config
	meta, err := toml.DecodeFile(path, &c)
	return c, meta, err
}

// CheckDefaults fills unset fields of the scan from the top-level
// section or the built-in defaults. It reports false when a required
// parameter (BeamEnergy, Q2Min or Q2Max) is set in neither place.
func (sp *ScanParameters) CheckDefaults(name string, c *Config, meta *toml.MetaData) bool {
	noParams := false
	if !meta.IsDefined("Scans", name, "BeamEnergy") {
		if meta.IsDefined("BeamEnergy") {
			sp.BeamEnergy = c.BeamEnergy
		} else {
			noParams = true
		}
	}
	if !meta.IsDefined("Scans", name, "Q2Min") {
		if meta.IsDefined("Q2Min") {
			sp.Q2Min = c.Q2Min
		} else {
			noParams = true
		}
	}
	if !meta.IsDefined("Scans", name, "Q2Max") {
		if meta.IsDefined("Q2Max") {
			sp.Q2Max = c.Q2Max
		} else {
			noParams = true
		}
	}
	if noParams {
		return false
	}

	if !meta.IsDefined("Scans", name, "Points") {
		if meta.IsDefined("Points") {
			sp.Points = c.Points
		} else {
			sp.Points = 100
		}
	}
	if !meta.IsDefined("Scans", name, "VMin") {
		if meta.IsDefined("VMin") {
			sp.VMin = c.VMin
		} else {
			sp.VMin = 2500.
		}
	}
	if !meta.IsDefined("Scans", name, "VCut") {
		if meta.IsDefined("VCut") {
			sp.VCut = c.VCut
		} else {
			sp.VCut = 0.
		}
	}
	if !meta.IsDefined("Scans", name, "MinBins") {
		if meta.IsDefined("MinBins") {
			sp.MinBins = c.MinBins
		} else {
			sp.MinBins = 100
		}
	}
	if !meta.IsDefined("Scans", name, "TPrec") {
		if meta.IsDefined("TPrec") {
			sp.TPrec = c.TPrec
		} else {
			sp.TPrec = 1e-3
		}
	}
	if !meta.IsDefined("Scans", name, "VPrec") {
		if meta.IsDefined("VPrec") {
			sp.VPrec = c.VPrec
		} else {
			sp.VPrec = 1e-3
		}
	}
	if !meta.IsDefined("Scans", name, "Events") {
		if meta.IsDefined("Events") {
			sp.Events = c.Events
		} else {
			sp.Events = 0
		}
	}
	if !meta.IsDefined("Scans", name, "Seed") {
		if meta.IsDefined("Seed") {
			sp.Seed = c.Seed
		} else {
			sp.Seed = 1
		}
	}
	if !meta.IsDefined("Scans", name, "Plot") {
		if meta.IsDefined("Plot") {
			sp.Plot = c.Plot
		} else {
			sp.Plot = false
		}
	}
	return true
}
