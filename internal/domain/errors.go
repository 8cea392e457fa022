package domain

import "errors"

// Validation errors: malformed construction input.
var (
	ErrInvalidName         = errors.New("name is required")
	ErrInvalidDuration     = errors.New("estimated duration must be positive")
	ErrInvalidDeviation    = errors.New("acceptable deviation must not be negative")
	ErrInvalidTimeSpan     = errors.New("end time must be after start time")
	ErrDueBeforeCreation   = errors.New("due time must not be before creation time")
	ErrInvalidQuantity     = errors.New("required quantity must be positive")
	ErrMissingTask         = errors.New("task is required")
	ErrMissingResource     = errors.New("resource is required")
	ErrMissingDeveloper    = errors.New("developer is required")
	ErrMissingResourceType = errors.New("resource type is required")
)

// Invariant violations: the operation would corrupt a graph or registry.
var (
	ErrSelfDependency         = errors.New("task cannot depend on itself")
	ErrDuplicateDependency    = errors.New("dependency already present")
	ErrDependencyCycle        = errors.New("dependency would create a cycle")
	ErrForeignTask            = errors.New("task belongs to another project")
	ErrOutcomeAlreadySet      = errors.New("task outcome already set")
	ErrAlreadyHasAlternative  = errors.New("task already has an alternative")
	ErrResourceTypeCycle      = errors.New("resource type relation would create a cycle")
	ErrConflictingRelation    = errors.New("resource types cannot both require and conflict")
	ErrDuplicateRelation      = errors.New("resource type relation already present")
	ErrDuplicateResource      = errors.New("resource already exists")
	ErrDuplicateResourceType  = errors.New("resource type already exists")
	ErrForeignResourceType    = errors.New("resource type belongs to another graph")
	ErrDuplicateRequirement   = errors.New("resource type already required")
	ErrConflictingRequirement = errors.New("required resource types conflict")
)

// ErrNotYetAvailable marks a state precondition that does not hold yet, such
// as asking for the finish status of a task that has no outcome.
var ErrNotYetAvailable = errors.New("not yet available")

// ErrInvalidDescription is returned for tasks created without a description.
var ErrInvalidDescription = errors.New("description is required")
