package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the top-level YAML structure describing a company. Entities
// refer to each other by 0-based index into their list.
type Scenario struct {
	SystemTime        string               `yaml:"systemTime"`
	DailyAvailability []AvailabilityImport `yaml:"dailyAvailability,omitempty"`
	ResourceTypes     []ResourceTypeImport `yaml:"resourceTypes,omitempty"`
	Resources         []ResourceImport     `yaml:"resources,omitempty"`
	Developers        []DeveloperImport    `yaml:"developers,omitempty"`
	Projects          []ProjectImport      `yaml:"projects,omitempty"`
	Tasks             []TaskImport         `yaml:"tasks,omitempty"`
	Plannings         []PlanningImport     `yaml:"plannings,omitempty"`
}

// AvailabilityImport is a daily window, e.g. 08:00 to 16:00.
type AvailabilityImport struct {
	StartTime string `yaml:"startTime"`
	EndTime   string `yaml:"endTime"`
}

// ResourceTypeImport may only reference resource types listed before it.
type ResourceTypeImport struct {
	Name              string `yaml:"name"`
	Requires          []int  `yaml:"requires,omitempty"`
	ConflictsWith     []int  `yaml:"conflictsWith,omitempty"`
	DailyAvailability *int   `yaml:"dailyAvailability,omitempty"`
}

type ResourceImport struct {
	Name string `yaml:"name"`
	Type int    `yaml:"type"`
}

type DeveloperImport struct {
	Name string `yaml:"name"`
}

type ProjectImport struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	CreationTime string `yaml:"creationTime"`
	DueTime      string `yaml:"dueTime"`
}

// TaskImport may only reference tasks listed before it.
type TaskImport struct {
	Project               int                 `yaml:"project"`
	Description           string              `yaml:"description"`
	// EstimatedDuration is in minutes, AcceptableDeviation in percent.
	EstimatedDuration     int                 `yaml:"estimatedDuration"`
	AcceptableDeviation   int                 `yaml:"acceptableDeviation"`
	AlternativeFor        *int                `yaml:"alternativeFor,omitempty"`
	PrerequisiteTasks     []int               `yaml:"prerequisiteTasks,omitempty"`
	RequiredResourceTypes []RequirementImport `yaml:"requiredResourceTypes,omitempty"`
	Status                string              `yaml:"status,omitempty"`
	StartTime             string              `yaml:"startTime,omitempty"`
	EndTime               string              `yaml:"endTime,omitempty"`
}

type RequirementImport struct {
	Type     int `yaml:"type"`
	Quantity int `yaml:"quantity"`
}

type PlanningImport struct {
	Task             int    `yaml:"task"`
	PlannedStartTime string `yaml:"plannedStartTime"`
	Developers       []int  `yaml:"developers"`
	Resources        []int  `yaml:"resources,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML, rejecting unknown fields.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}
