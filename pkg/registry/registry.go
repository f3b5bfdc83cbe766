// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Capability keys known to the intake forms.
const (
	TemperatureControlled   = "temperatureControlled"
	HazmatSupport           = "hazmatSupport"
	FBAPrep                 = "fbaPrep"
	ReturnsHandling         = "returnsHandling"
	Kitting                 = "kitting"
	SubscriptionFulfillment = "subscriptionFulfillment"
	SameDayShipping         = "sameDayShipping"
	B2BSupport              = "b2bSupport"
	EDISupport              = "ediSupport"
	ClientPortal            = "clientPortal"
	RealTimeTracking        = "realTimeTracking"
)

// Default returns the built-in vocabulary.
func Default() *CapabilityRegistry {
	reg := &CapabilityRegistry{
		Version: "1.0.0",
		Capabilities: []Capability{
			{Key: TemperatureControlled, Label: "Temperature Controlled", Description: "Cold chain or climate-controlled storage"},
			{Key: HazmatSupport, Label: "Hazmat Support", Description: "Handles hazardous materials"},
			{Key: FBAPrep, Label: "FBA Prep", Description: "Amazon FBA preparation"},
			{Key: ReturnsHandling, Label: "Returns Handling", Description: "Processes customer returns"},
			{Key: Kitting, Label: "Kitting", Description: "Kitting and assembly"},
			{Key: SubscriptionFulfillment, Label: "Subscription Fulfillment", Description: "Recurring subscription boxes"},
			{Key: SameDayShipping, Label: "Same-Day Shipping", Description: "Ships orders the same day"},
			{Key: B2BSupport, Label: "B2B Support", Description: "Wholesale and retail replenishment"},
			{Key: EDISupport, Label: "EDI Support", Description: "Electronic data interchange"},
			{Key: ClientPortal, Label: "Client Portal", Description: "Self-service client portal"},
			{Key: RealTimeTracking, Label: "Real-Time Tracking", Description: "Real-time inventory and order tracking"},
		},
		Regions: DefaultRegions(),
	}
	reg.buildIndex()
	return reg
}

// DefaultRegions returns the built-in region table. Keys are the first word
// of the wizard's location choices.
func DefaultRegions() map[string][]string {
	return map[string][]string{
		"west": {"CA", "WA", "California", "Oregon", "Washington"},
		"east": {"NH", "MA", "RI", "CT", "NY", "NJ", "PA", "DE", "MD", "VA", "NC", "SC", "GA", "FL",
			"Maine", "New Hampshire", "Massachusetts", "Rhode Island", "Connecticut", "New York", "New Jersey",
			"Pennsylvania", "Delaware", "Maryland", "Virginia", "North Carolina", "South Carolina", "Georgia", "Florida"},
		"midwest": {"IL", "IA", "KS", "MI", "MN", "MO", "NE", "ND", "OH", "SD", "WI",
			"Illinois", "Indiana", "Iowa", "Kansas", "Michigan", "Minnesota", "Missouri", "Nebraska",
			"North Dakota", "Ohio", "South Dakota", "Wisconsin"},
		"south": {"TX", "AR", "MS", "AL", "TN", "KY",
			"Texas", "Oklahoma", "Arkansas", "Louisiana", "Mississippi", "Alabama", "Tennessee", "Kentucky"},
	}
}

// LoadRegistry reads a registry from a JSON file and validates it.
func LoadRegistry(path string) (*CapabilityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg CapabilityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if reg.Regions == nil {
		reg.Regions = DefaultRegions()
	}
	reg.buildIndex()
	return &reg, nil
}

// Save writes the registry as indented JSON, stamping LastUpdated.
func Save(reg *CapabilityRegistry, path string) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Add appends a capability. New keys always sort after existing ones.
func (r *CapabilityRegistry) Add(c Capability) error {
	if c.Key == "" || c.Label == "" {
		return fmt.Errorf("capability key and label are required")
	}
	if _, exists := r.Index(c.Key); exists {
		return fmt.Errorf("capability %q already exists", c.Key)
	}
	r.Capabilities = append(r.Capabilities, c)
	r.buildIndex()
	return nil
}

// Update changes the label or description of an existing capability. Keys
// are stored on profiles and cannot be renamed.
func (r *CapabilityRegistry) Update(key, field, value string) error {
	i, ok := r.Index(key)
	if !ok {
		return fmt.Errorf("capability %q not found", key)
	}
	switch field {
	case "label":
		if value == "" {
			return fmt.Errorf("capability %q: empty label", key)
		}
		r.Capabilities[i].Label = value
	case "description":
		r.Capabilities[i].Description = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Validate rejects empty or duplicate keys, empty labels and malformed regions.
func (r *CapabilityRegistry) Validate() error {
	seen := make(map[string]struct{}, len(r.Capabilities))
	for i, c := range r.Capabilities {
		if c.Key == "" {
			return fmt.Errorf("capability %d: empty key", i)
		}
		if c.Label == "" {
			return fmt.Errorf("capability %q: empty label", c.Key)
		}
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("capability %q: duplicate key", c.Key)
		}
		seen[c.Key] = struct{}{}
	}
	for region, members := range r.Regions {
		if region == "" || region != strings.ToLower(region) || strings.ContainsAny(region, " \t") {
			return fmt.Errorf("region %q: key must be one lowercase word", region)
		}
		if len(members) == 0 {
			return fmt.Errorf("region %q: no members", region)
		}
	}
	return nil
}

// Label returns the human label for key, or the key itself if unknown.
func (r *CapabilityRegistry) Label(key string) string {
	if i, ok := r.Index(key); ok {
		return r.Capabilities[i].Label
	}
	return key
}

// Index reports the position of key in the vocabulary.
func (r *CapabilityRegistry) Index(key string) (int, bool) {
	if r.index == nil {
		r.buildIndex()
	}
	i, ok := r.index[key]
	return i, ok
}

func (r *CapabilityRegistry) Keys() []string {
	keys := make([]string, len(r.Capabilities))
	for i, c := range r.Capabilities {
		keys[i] = c.Key
	}
	return keys
}

// Labels returns the labels of the enabled known flags in vocabulary order.
func (r *CapabilityRegistry) Labels(flags map[string]bool) []string {
	out := make([]string, 0, len(flags))
	for _, c := range r.Capabilities {
		if flags[c.Key] {
			out = append(out, c.Label)
		}
	}
	return out
}

func (r *CapabilityRegistry) buildIndex() {
	r.index = make(map[string]int, len(r.Capabilities))
	for i, c := range r.Capabilities {
		r.index[c.Key] = i
	}
}
