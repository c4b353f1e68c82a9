package reporting

import (
	"fmt"
	"math"
)

var scaleSuffixes = []string{"", "k", "M", "B", "T", "Q"}

// Scale formats v with three decimals and a thousands suffix, e.g.
// 1234567 becomes "     1.235M".
func Scale(v float64) string {
	scale := 0
	if v > 0 {
		scale = int(math.Log10(v) / 3)
	}
	if scale < 0 || scale >= len(scaleSuffixes) {
		scale = 0
	}
	return fmt.Sprintf("%10.3f%s", v/math.Pow(1000, float64(scale)), scaleSuffixes[scale])
}
