package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddresses validates hex addresses and returns them lower-cased, the
// form the index stores them in.
func ParseAddresses(inputs []string) ([]string, error) {
	addresses := make([]string, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid address: %s", input)
		}
		addresses = append(addresses, strings.ToLower(common.HexToAddress(input).Hex()))
	}
	return addresses, nil
}

const day = 24 * time.Hour

// maxWindowDays is the largest day count a time.Duration can hold.
const maxWindowDays = int64(math.MaxInt64 / day)

// ParseWindow parses a Go duration, additionally accepting a whole number
// of days with a "d" suffix ("7d").
func ParseWindow(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("window is empty")
	}

	var window time.Duration
	if days, ok := strings.CutSuffix(input, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse days %q: %w", input, err)
		}
		if n > maxWindowDays {
			return 0, fmt.Errorf("window %q exceeds %d days", input, maxWindowDays)
		}
		window = time.Duration(n) * day
	} else {
		d, err := time.ParseDuration(input)
		if err != nil {
			return 0, err
		}
		window = d
	}

	if window < time.Second {
		return 0, fmt.Errorf("window must be at least 1s")
	}
	return window, nil
}
