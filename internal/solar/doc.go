// Package solar computes solar altitude and predicts threshold crossings.
//
// Position wraps the suncalc library for a fixed location and returns the
// altitude in degrees. NextCrossing samples an altitude function across a
// time window and bisects the first threshold crossing it brackets; the
// controller uses it to announce an upcoming brightness change once per
// approach instead of logging every cycle near the boundary.
package solar
