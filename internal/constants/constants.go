package constants

// Particle masses [MeV], PDG values.
const (
	ElectronMass float64 = 0.51099895
	MuonMass     float64 = 105.6583755
	TauMass      float64 = 1776.86
	ProtonMass   float64 = 938.2720813
)

// Fine structure constant.
const Alpha float64 = 1. / 137.035999084

// Proton magnetic moment in nuclear magnetons.
const ProtonMagneticMoment float64 = 2.792782

// (hbar*c)^2 [MeV^2 mbarn].
const HbarC2 float64 = 3.8937936e5

// MeVInvSqToNbarn converts a cross section from MeV^-2 to nbarn.
const MeVInvSqToNbarn float64 = HbarC2 * 1.e6

// Two-sided 95% normal quantile, for confidence intervals on sampled
// means.
const Quantile95 = 1.96
