package queries

import (
	"context"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/usecase/shared"
)

type EmployeeQueries interface {
	List(ctx context.Context, forceRefresh bool) ([]employee.Employee, error)
	Status() shared.DirectoryStatus
}

type employeeQueriesImpl struct {
	directory shared.EmployeeDirectory
}

func NewEmployeeQueries(directory shared.EmployeeDirectory) EmployeeQueries {
	return &employeeQueriesImpl{directory: directory}
}

// List returns the directory sorted by name. Outages are returned as errors
// rather than an empty list.
func (q *employeeQueriesImpl) List(ctx context.Context, forceRefresh bool) ([]employee.Employee, error) {
	return q.directory.Employees(ctx, forceRefresh)
}

func (q *employeeQueriesImpl) Status() shared.DirectoryStatus {
	return q.directory.Status()
}
