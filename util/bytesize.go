package util

import "fmt"

var units = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// FormatBytes renders a byte count with binary prefixes and two decimal
// places. Negative values keep their sign, which matters for bonus storage
// that has been penalized below zero.
func FormatBytes(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%s%d B", sign, int64(v))
	}

	return fmt.Sprintf("%s%.2f %s", sign, v, units[i])
}
