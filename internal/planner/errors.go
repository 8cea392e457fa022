package planner

import "errors"

var (
	ErrAlreadyPlanned      = errors.New("task is already planned")
	ErrDeveloperConflict   = errors.New("developer is booked in an overlapping planning")
	ErrResourceConflict    = errors.New("resource is reserved in an overlapping planning")
	ErrResourceQuantity    = errors.New("reserved quantity does not match the task requirement")
	ErrInvalidReservation  = errors.New("reservation does not match the task requirements")
	ErrOutsideAvailability = errors.New("planning falls outside the resource type's daily availability")
	ErrNotPlanned          = errors.New("task is not planned")
	ErrPlanningLocked      = errors.New("planning of a started task cannot be removed")
	ErrNoFeasibleSlot      = errors.New("no feasible start time found")
)
