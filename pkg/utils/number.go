package utils

import "math"

// SafeDiv retorna 0 quando o denominador é zero (ou o resultado não é finito)
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}

	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}

	return r
}
