// cmd/tools/registry-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"onboarding-workers/pkg/registry"
)

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	var registryPath string
	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, listCmd} {
		fs.StringVar(&registryPath, "path", "configs/capabilities.json", "Path to capability registry file")
	}

	keyAdd := addCmd.String("key", "", "Capability key as stored on profiles (e.g., crossDock)")
	label := addCmd.String("label", "", "Display label (e.g., Cross-Docking)")
	description := addCmd.String("description", "", "Description")

	keyUpdate := updateCmd.String("key", "", "Capability key to update")
	field := updateCmd.String("field", "", "Field to update (label, description)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *keyAdd == "" || *label == "" {
			fmt.Println("Error: key and label are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		err := edit(registryPath, true, func(reg *registry.CapabilityRegistry) error {
			return reg.Add(registry.Capability{Key: *keyAdd, Label: *label, Description: *description})
		})
		exitOn(err, "Error adding capability")
		fmt.Printf("Added capability: %s\n", *keyAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *keyUpdate == "" || *field == "" {
			fmt.Println("Error: key and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err := edit(registryPath, false, func(reg *registry.CapabilityRegistry) error {
			return reg.Update(*keyUpdate, *field, *value)
		})
		exitOn(err, "Error updating capability")
		fmt.Printf("Updated capability %s, field %s to %s\n", *keyUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		exitOn(err, "Registry validation failed")
		if len(reg.Capabilities) == 0 {
			exitOn(errors.New("registry contains no capabilities"), "Registry validation failed")
		}
		fmt.Printf("Registry validation passed. Found %d capabilities.\n", len(reg.Capabilities))

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		exitOn(err, "Error loading registry")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tKEY\tLABEL\tDESCRIPTION")
		for i, c := range reg.Capabilities {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, c.Key, c.Label, c.Description)
		}
		w.Flush()

	case "help":
		fallthrough
	default:
		help()
	}
}

// edit loads, mutates and saves the registry. With create set, a missing
// file starts from the built-in vocabulary.
func edit(path string, create bool, fn func(*registry.CapabilityRegistry) error) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !create || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = registry.Default()
	}
	if err := fn(reg); err != nil {
		return err
	}
	return registry.Save(reg, path)
}

func exitOn(err error, msg string) {
	if err != nil {
		fmt.Printf("%s: %v\n", msg, err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add      Append a capability to the vocabulary
  update   Change a capability's label or description
  validate Validate the registry file
  list     Print capabilities in matching order
  help     Show this help message

Examples:
  registry-updater add -key crossDock -label "Cross-Docking" -description "Inbound to outbound without storage"
  registry-updater update -key kitting -field label -value "Kitting & Assembly"
  registry-updater validate -path configs/capabilities.json

Keys are stored on brand and provider profiles, so they are never renamed.
Appending changes no existing match score; reordering changes criteria order.`)
}
