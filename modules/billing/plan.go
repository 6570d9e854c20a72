// Package billing owns everything money related: the plan catalog, hosted
// checkout initiation, the synchronous payment callback and the asynchronous
// webhook dispatcher that applies subscription state transitions.
package billing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is one purchasable subscription plan.
type Plan struct {
	Code       string `yaml:"code"`       // provider plan code, e.g. PLN_xxx
	Amount     int64  `yaml:"amount"`     // price in the smallest currency subunit
	Currency   string `yaml:"currency"`   // ISO 4217 code
	Equivalent string `yaml:"equivalent"` // display-only conversion note shown at checkout
}

// Catalog is the set of plans this deployment sells, loaded once at startup.
type Catalog struct {
	DefaultCode string `yaml:"default"`
	Plans       []Plan `yaml:"plans"`
}

// LoadCatalog reads and validates a yaml plan catalog.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog parses a yaml plan catalog from memory.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Plans) == 0 {
		return fmt.Errorf("no plans defined")
	}
	seen := make(map[string]bool, len(c.Plans))
	for _, p := range c.Plans {
		if p.Code == "" {
			return fmt.Errorf("plan with empty code")
		}
		if seen[p.Code] {
			return fmt.Errorf("duplicate plan code %q", p.Code)
		}
		seen[p.Code] = true
		if p.Amount <= 0 {
			return fmt.Errorf("plan %q has non-positive amount", p.Code)
		}
		if p.Currency == "" {
			return fmt.Errorf("plan %q has no currency", p.Code)
		}
	}
	if c.DefaultCode == "" {
		return fmt.Errorf("no default plan set")
	}
	if !seen[c.DefaultCode] {
		return fmt.Errorf("default plan %q is not in the catalog", c.DefaultCode)
	}
	return nil
}

// Get resolves a plan by code. An empty code resolves to the default plan.
func (c *Catalog) Get(code string) (Plan, error) {
	if code == "" {
		code = c.DefaultCode
	}
	for _, p := range c.Plans {
		if p.Code == code {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, code)
}

// Default returns the deployment's default plan.
func (c *Catalog) Default() Plan {
	p, _ := c.Get(c.DefaultCode)
	return p
}
