package testutil

import (
	"context"
	"testing"

	"github.com/alexanderramin/taskman/internal/company"
	"github.com/alexanderramin/taskman/internal/config"
	"github.com/alexanderramin/taskman/internal/domain"
)

// NewTestCompany creates a company with default config whose clock starts at
// Epoch.
func NewTestCompany(t *testing.T, observers ...company.UseCaseObserver) *company.Company {
	t.Helper()
	return company.New(config.Default(), Epoch, observers...)
}

// MustDeveloper creates a developer or fails the test.
func MustDeveloper(t *testing.T, c *company.Company, name string) *domain.Developer {
	t.Helper()
	d, err := c.CreateDeveloper(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to create developer %q: %v", name, err)
	}
	return d
}

// MustResourceType creates a resource type with the named instances.
func MustResourceType(t *testing.T, c *company.Company, spec domain.ResourceTypeSpec, instances ...string) *domain.ResourceType {
	t.Helper()
	ctx := context.Background()
	rt, err := c.CreateResourceType(ctx, spec)
	if err != nil {
		t.Fatalf("failed to create resource type %q: %v", spec.Name, err)
	}
	for _, name := range instances {
		if _, err := c.CreateResource(ctx, rt, name); err != nil {
			t.Fatalf("failed to create resource %q: %v", name, err)
		}
	}
	return rt
}
