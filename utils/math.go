// Package utils contains small shared helpers used across the project.
package utils

import "math"

func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Clamp returns value bounded to the closed interval [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Float64AlmostEqual reports whether v and other are within epsilon of each other.
func Float64AlmostEqual(v, other, epsilon float64) bool {
	return math.Abs(v-other) <= epsilon
}
