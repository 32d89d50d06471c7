package methods

import (
	"strconv"
	"strings"
)

// parseFloatLoose parses a number written with either a '.' or ','
// decimal separator, as found in Spanish-language source text.
func parseFloatLoose(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
