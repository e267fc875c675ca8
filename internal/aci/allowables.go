package aci

import "math"

// ACI 318-19 constants for prestressed concrete serviceability checks.
// Stresses are in MPa, sign convention: compression negative, tension positive.

const (
	// Unit weights
	GammaConcrete = 25.0   // Concrete unit weight (kN/m³)
	SteelDensity  = 7850.0 // Prestressing steel density (kg/m³)

	// Compression limit factors at service loads (Table 24.5.4.1)
	CompressionSustained = 0.45 // Prestress plus sustained load
	CompressionTotal     = 0.60 // Prestress plus total load

	// Tension limit coefficients, metric (Section 24.5.2.1)
	TensionClassU = 0.62 // Uncracked
	TensionClassT = 1.00 // Transition
)

// AllowableCompression returns the sustained-load compression limit as a
// signed stress (negative). ACI 318-19 Table 24.5.4.1.
func AllowableCompression(fc float64) float64 {
	return -CompressionSustained * fc
}

// AllowableCompressionTotal returns the total-load compression limit as a
// signed stress (negative). ACI 318-19 Table 24.5.4.1.
func AllowableCompressionTotal(fc float64) float64 {
	return -CompressionTotal * fc
}

// AllowableTension returns the Class U extreme fiber tension limit.
// ACI 318-19 Table 24.5.2.1: ft <= 0.62 √f'c (MPa).
func AllowableTension(fc float64) float64 {
	return TensionClassU * math.Sqrt(fc)
}

// AllowableTensionClassT returns the transition-class tension limit,
// 1.0 √f'c (MPa).
func AllowableTensionClassT(fc float64) float64 {
	return TensionClassT * math.Sqrt(fc)
}
