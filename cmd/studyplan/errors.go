package main

import "fmt"

// InvalidDateError indicates a day argument that is not YYYY-MM-DD.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %s (want YYYY-MM-DD)", e.Value)
}

// InvalidMonthError indicates a --month value that is not YYYY-MM.
type InvalidMonthError struct {
	Value string
}

func (e InvalidMonthError) Error() string {
	return fmt.Sprintf("invalid month: %s (want YYYY-MM)", e.Value)
}

// InvalidFormatError indicates an unsupported export format.
type InvalidFormatError struct {
	Value string
}

func (e InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format: %s (valid: json, yaml)", e.Value)
}

// NothingToEditError indicates edit was called without any field flags.
type NothingToEditError struct{}

func (e NothingToEditError) Error() string {
	return "nothing to change: pass --name, --subject, --due, --clear-due or --priority"
}
