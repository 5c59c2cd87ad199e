package employee

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrEmptyNumber      = errors.New("employee number is empty")
	ErrNonNumericNumber = errors.New("employee number must be numeric")
)

// Employee is one entry of the external employee directory.
type Employee struct {
	Number           string `json:"number"`
	NormalizedNumber string `json:"normalizedNumber"`
	Name             string `json:"name"`
	Initials         string `json:"initials"`
	DisplayName      string `json:"displayName"`
	Email            string `json:"email"`
	DepartmentCode   string `json:"departmentCode"`
}

// NormalizeNumber strips surrounding space and leading zeros from a numeric employee number.
func NormalizeNumber(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrEmptyNumber
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", ErrNonNumericNumber
		}
	}
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" {
		return "0", nil
	}
	return trimmed, nil
}

// NewEmployee builds a directory entry. ok is false when the raw record is unusable.
func NewEmployee(number, name, initials, email, departmentCode string) (Employee, bool) {
	number = strings.TrimSpace(number)
	name = strings.TrimSpace(name)
	initials = strings.TrimSpace(initials)
	if number == "" || name == "" {
		return Employee{}, false
	}
	normalized, err := NormalizeNumber(number)
	if err != nil {
		return Employee{}, false
	}
	display := name
	if initials != "" {
		display = initials + " - " + name
	}
	return Employee{
		Number:           number,
		NormalizedNumber: normalized,
		Name:             name,
		Initials:         initials,
		DisplayName:      display,
		Email:            strings.TrimSpace(email),
		DepartmentCode:   strings.TrimSpace(departmentCode),
	}, true
}

// ID returns the numeric employee id.
func (e Employee) ID() int64 {
	id, _ := strconv.ParseInt(e.NormalizedNumber, 10, 64)
	return id
}

// FallbackDisplay is shown when an employee is not in the directory.
func FallbackDisplay(id int64) string {
	return fmt.Sprintf("Employee #%d", id)
}

// SortByName orders entries by lower-cased name, then by normalized number.
func SortByName(entries []Employee) {
	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].NormalizedNumber < entries[j].NormalizedNumber
	})
}
