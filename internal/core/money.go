// Package core provides amount parsing and formatting utilities.
//
// Amounts are signed integers in whole currency units. This file converts
// between user input and that representation.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts user input to a signed amount.
//
// A leading sign is optional. Underscores, commas and spaces between digits
// are accepted as thousands separators. Fractions are rejected because
// amounts are whole units.
//
// Examples:
//
//	ParseAmount("-100")    -> -100, nil
//	ParseAmount("+1,250")  -> 1250, nil
//	ParseAmount("12.50")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	sign := int64(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == ',' || r == ' ':
			// thousands separator
		default:
			return 0, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return sign * v, nil
}

// FormatAmount renders an amount with an explicit sign and its currency.
func FormatAmount(amount int64, currency string) string {
	out := strconv.FormatInt(amount, 10)
	if amount > 0 {
		out = "+" + out
	}
	if currency != "" {
		out += " " + currency
	}
	return out
}
