package importer

import (
	"fmt"

	"github.com/alexanderramin/taskman/internal/timespan"
)

var validTaskStatuses = map[string]bool{"finished": true, "failed": true}

// ValidateScenario checks the scenario for errors before it is applied.
// Returns a slice of all validation errors found.
func ValidateScenario(s *Scenario) []error {
	var errs []error

	errs = append(errs, validateTime("systemTime", s.SystemTime)...)
	errs = append(errs, validateAvailability(s.DailyAvailability)...)
	errs = append(errs, validateResourceTypes(s.ResourceTypes, len(s.DailyAvailability))...)
	errs = append(errs, validateResources(s.Resources, len(s.ResourceTypes))...)
	errs = append(errs, validateDevelopers(s.Developers)...)
	errs = append(errs, validateProjects(s.Projects)...)
	errs = append(errs, validateTasks(s.Tasks, len(s.Projects), len(s.ResourceTypes))...)
	errs = append(errs, validatePlannings(s.Plannings, len(s.Tasks), len(s.Developers), len(s.Resources))...)

	return errs
}

func validateAvailability(windows []AvailabilityImport) []error {
	var errs []error

	for i, w := range windows {
		prefix := fmt.Sprintf("dailyAvailability[%d]", i)
		if w.StartTime == "" || w.EndTime == "" {
			errs = append(errs, fmt.Errorf("%s: startTime and endTime are required", prefix))
			continue
		}
		if _, err := timespan.ParseWindow(w.StartTime, w.EndTime); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}

	return errs
}

func validateResourceTypes(types []ResourceTypeImport, windows int) []error {
	var errs []error

	for i, rt := range types {
		prefix := fmt.Sprintf("resourceTypes[%d]", i)

		if rt.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		for _, ref := range rt.Requires {
			errs = append(errs, validateEarlierRef(prefix+".requires", ref, i)...)
		}
		for _, ref := range rt.ConflictsWith {
			errs = append(errs, validateEarlierRef(prefix+".conflictsWith", ref, i)...)
		}
		if rt.DailyAvailability != nil {
			errs = append(errs, validateRef(prefix+".dailyAvailability", *rt.DailyAvailability, windows)...)
		}
	}

	return errs
}

func validateResources(resources []ResourceImport, types int) []error {
	var errs []error

	for i, r := range resources {
		prefix := fmt.Sprintf("resources[%d]", i)
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateRef(prefix+".type", r.Type, types)...)
	}

	return errs
}

func validateDevelopers(devs []DeveloperImport) []error {
	var errs []error

	for i, d := range devs {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("developers[%d].name is required", i))
		}
	}

	return errs
}

func validateProjects(projects []ProjectImport) []error {
	var errs []error

	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)

		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		createdErrs := validateTime(prefix+".creationTime", p.CreationTime)
		dueErrs := validateTime(prefix+".dueTime", p.DueTime)
		errs = append(errs, createdErrs...)
		errs = append(errs, dueErrs...)
		if len(createdErrs) == 0 && len(dueErrs) == 0 {
			created, _ := timespan.Parse(p.CreationTime)
			due, _ := timespan.Parse(p.DueTime)
			if due.Before(created) {
				errs = append(errs, fmt.Errorf("%s.dueTime %q must not be before creationTime %q", prefix, p.DueTime, p.CreationTime))
			}
		}
	}

	return errs
}

func validateTasks(tasks []TaskImport, projects, types int) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		errs = append(errs, validateRef(prefix+".project", t.Project, projects)...)
		if t.Description == "" {
			errs = append(errs, fmt.Errorf("%s.description is required", prefix))
		}
		if t.EstimatedDuration <= 0 {
			errs = append(errs, fmt.Errorf("%s.estimatedDuration must be positive", prefix))
		}
		if t.AcceptableDeviation < 0 {
			errs = append(errs, fmt.Errorf("%s.acceptableDeviation must not be negative", prefix))
		}
		if t.AlternativeFor != nil {
			errs = append(errs, validateEarlierRef(prefix+".alternativeFor", *t.AlternativeFor, i)...)
		}
		for _, ref := range t.PrerequisiteTasks {
			errs = append(errs, validateEarlierRef(prefix+".prerequisiteTasks", ref, i)...)
		}
		for j, req := range t.RequiredResourceTypes {
			reqPrefix := fmt.Sprintf("%s.requiredResourceTypes[%d]", prefix, j)
			errs = append(errs, validateRef(reqPrefix+".type", req.Type, types)...)
			if req.Quantity <= 0 {
				errs = append(errs, fmt.Errorf("%s.quantity must be positive", reqPrefix))
			}
		}

		switch {
		case t.Status == "":
			if t.StartTime != "" || t.EndTime != "" {
				errs = append(errs, fmt.Errorf("%s: startTime and endTime require a status", prefix))
			}
		case !validTaskStatuses[t.Status]:
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		default:
			errs = append(errs, validateTime(prefix+".startTime", t.StartTime)...)
			errs = append(errs, validateTime(prefix+".endTime", t.EndTime)...)
		}
	}

	return errs
}

func validatePlannings(plannings []PlanningImport, tasks, devs, resources int) []error {
	var errs []error

	seen := make(map[int]bool)
	for i, p := range plannings {
		prefix := fmt.Sprintf("plannings[%d]", i)

		errs = append(errs, validateRef(prefix+".task", p.Task, tasks)...)
		if seen[p.Task] {
			errs = append(errs, fmt.Errorf("%s.task: task %d is planned twice", prefix, p.Task))
		}
		seen[p.Task] = true
		errs = append(errs, validateTime(prefix+".plannedStartTime", p.PlannedStartTime)...)
		if len(p.Developers) == 0 {
			errs = append(errs, fmt.Errorf("%s.developers: at least one developer is required", prefix))
		}
		for _, ref := range p.Developers {
			errs = append(errs, validateRef(prefix+".developers", ref, devs)...)
		}
		for _, ref := range p.Resources {
			errs = append(errs, validateRef(prefix+".resources", ref, resources)...)
		}
	}

	return errs
}

func validateTime(field, value string) []error {
	if value == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if _, err := timespan.Parse(value); err != nil {
		return []error{fmt.Errorf("%s: invalid time %q (expected YYYY-MM-DD HH:MM)", field, value)}
	}
	return nil
}

func validateRef(field string, ref, count int) []error {
	if ref < 0 || ref >= count {
		return []error{fmt.Errorf("%s: index %d out of range (have %d)", field, ref, count)}
	}
	return nil
}

// validateEarlierRef checks that ref points at an entry listed before self.
func validateEarlierRef(field string, ref, self int) []error {
	if ref < 0 || ref >= self {
		return []error{fmt.Errorf("%s: index %d must refer to an earlier entry", field, ref)}
	}
	return nil
}
