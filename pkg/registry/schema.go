// pkg/registry/schema.go
package registry

// CapabilityRegistry is the vocabulary shared by brand requirements and
// provider capabilities. Order is significant: matching reports criteria in
// the order listed here.
type CapabilityRegistry struct {
	Version      string       `json:"version"`
	LastUpdated  string       `json:"lastUpdated,omitempty"`
	Capabilities []Capability `json:"capabilities"`
	// Regions maps the lowercased first word of a preferred-location label
	// ("west" for "West Coast") to the states it covers.
	Regions map[string][]string `json:"regions,omitempty"`

	index map[string]int
}

type Capability struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}
