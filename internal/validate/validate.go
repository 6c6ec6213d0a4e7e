// Package validate holds the input checks shared by every tool. All
// messages are user facing and end up verbatim in the error envelope.
package validate

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

var (
	monthToken   = regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`)
	currencyCode = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// ParseDate parses text as a YYYY-MM-DD calendar date. field names the
// caller parameter and is quoted back in the error.
func ParseDate(text, field string) (time.Time, error) {
	d, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("Data inválida para '%s': '%s'. Use o formato YYYY-MM-DD.", field, text)
	}
	return d, nil
}

// Range checks that start is not after end and that the inclusive-exclusive
// span end-start is at most maxDays.
func Range(start, end time.Time, maxDays int) error {
	if start.After(end) {
		return fmt.Errorf("data_inicio (%s) não pode ser posterior a data_fim (%s).",
			start.Format(DateLayout), end.Format(DateLayout))
	}
	if span := Days(start, end); span > maxDays {
		return fmt.Errorf("Intervalo de %d dias excede o limite de %d dias. Reduza o período consultado.", span, maxDays)
	}
	return nil
}

// Days returns the number of whole calendar days from start to end.
func Days(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s) / day)
}

// Month checks a provider month token such as "Jan-2025".
func Month(mes string) error {
	if !monthToken.MatchString(mes) {
		return fmt.Errorf("Formato de mês inválido: '%s'. Use o formato 'MMM-YYYY' (ex: 'Jan-2025').", mes)
	}
	return nil
}

// Currency checks an ISO 4217 style three-letter code, in any case.
func Currency(moeda string) error {
	if !currencyCode.MatchString(moeda) {
		return fmt.Errorf("Moeda inválida: '%s'. Use um código de três letras (ex: 'USD').", moeda)
	}
	return nil
}

// Top checks a caller supplied result limit.
func Top(top int) error {
	if top < 1 {
		return fmt.Errorf("Parâmetro 'top' inválido: %d. Use um inteiro maior ou igual a 1.", top)
	}
	return nil
}

// Today returns the calendar date of now as UTC midnight.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
