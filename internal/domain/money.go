package domain

import (
	"fmt"
	"math"
)

// Money amount in minor currency units
type Money int64

// String formats the amount as "12.50"
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Commission computes price × rate rounded half away from zero to a minor unit
func Commission(price Money, rate float64) Money {
	return Money(math.Round(float64(price) * rate))
}
