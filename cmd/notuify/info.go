package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notui/internal/dbus"
)

var infoOpts struct {
	jsonOutput bool
}

// serverReport is the JSON shape of 'notuify info --json'.
type serverReport struct {
	Name         string   `json:"name"`
	Vendor       string   `json:"vendor"`
	Version      string   `json:"version"`
	SpecVersion  string   `json:"spec_version"`
	Capabilities []string `json:"capabilities"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show daemon identity and capabilities",
	Long: `Query the running notification daemon for its identity and the
capabilities it advertises.

Examples:
  notuify info
  notuify info --json | jq -r .capabilities[]`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoOpts.jsonOutput, "json", false,
		"Output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	serverInfo, err := client.GetServerInformation()
	if err != nil {
		return err
	}
	caps, err := client.GetCapabilities()
	if err != nil {
		return err
	}

	if infoOpts.jsonOutput {
		report := serverReport{
			Name:         serverInfo.Name,
			Vendor:       serverInfo.Vendor,
			Version:      serverInfo.Version,
			SpecVersion:  serverInfo.SpecVersion,
			Capabilities: caps,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Printf("Name:         %s\n", serverInfo.Name)
	fmt.Printf("Vendor:       %s\n", serverInfo.Vendor)
	fmt.Printf("Version:      %s\n", serverInfo.Version)
	fmt.Printf("Spec version: %s\n", serverInfo.SpecVersion)
	fmt.Printf("Capabilities: %s\n", strings.Join(caps, ", "))
	return nil
}
