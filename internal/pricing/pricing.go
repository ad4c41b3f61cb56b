// Package pricing normalizes the price strings returned by storefront APIs
// into the three canonical forms stored in game_stats: "Free", "$<amount>"
// with at most two decimal places, or the sentinel "N/A".
package pricing

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var pricePattern = regexp.MustCompile(`^\$?(\d*\.?\d{0,2})$`)

// Clean validates a raw price string and returns "Free", a formatted price
// (e.g. "$4.60") or "N/A". Every input class has a defined output.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "free") {
		return "Free"
	}
	switch s {
	case "0", "$0", "$0.00", "0.00":
		return "Free"
	}

	m := pricePattern.FindStringSubmatch(strings.ReplaceAll(s, "$", ""))
	if m != nil && m[1] != "" && m[1] != "." {
		return "$" + m[1]
	}
	log.Printf("Invalid price format: %q, defaulting to 'N/A'", raw)
	return "N/A"
}

// Amount parses a normalized price into a dollar amount. "Free" is 0.
// The second return is false for "N/A" or anything Clean never produces.
func Amount(price string) (float64, bool) {
	if price == "Free" {
		return 0, true
	}
	if !strings.HasPrefix(price, "$") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(price, "$"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
