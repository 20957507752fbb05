package domain

import (
	"fmt"
	"time"
)

// ValidateDate проверяет календарную дату в формате YYYY-MM-DD
func ValidateDate(date string) error {
	if len(date) != len(DateFormat) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateTimeLabel проверяет метку слота в формате HH:MM (с ведущим нулём)
func ValidateTimeLabel(label string) error {
	if len(label) != len(TimeFormat) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, label)
	}
	if _, err := time.Parse(TimeFormat, label); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, label)
	}
	return nil
}

// ValidateTimeLabels проверяет все метки
func ValidateTimeLabels(labels []string) error {
	for _, l := range labels {
		if err := ValidateTimeLabel(l); err != nil {
			return err
		}
	}
	return nil
}
