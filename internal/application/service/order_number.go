package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// FormatOrderNumber renders <prefix>-<yyyy>-<seq>, seq zero-padded to four digits
func FormatOrderNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, seq)
}

// ParseOrderNumber splits an order number into its prefix, year and sequence
func ParseOrderNumber(number string) (prefix string, year int, seq int64, err error) {
	// the prefix itself may contain dashes, so split from the right
	last := strings.LastIndex(number, "-")
	if last <= 0 {
		return "", 0, 0, errors.Errorf("malformed order number %q", number)
	}
	mid := strings.LastIndex(number[:last], "-")
	if mid <= 0 {
		return "", 0, 0, errors.Errorf("malformed order number %q", number)
	}

	year, err = strconv.Atoi(number[mid+1 : last])
	if err != nil || len(number[mid+1:last]) != 4 {
		return "", 0, 0, errors.Errorf("malformed year in order number %q", number)
	}
	seq, err = strconv.ParseInt(number[last+1:], 10, 64)
	if err != nil || seq < 1 {
		return "", 0, 0, errors.Errorf("malformed sequence in order number %q", number)
	}
	return number[:mid], year, seq, nil
}
