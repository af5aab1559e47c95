package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/acoustray/internal/config"
	"github.com/san-kum/acoustray/internal/material"
	"github.com/san-kum/acoustray/internal/scenario"
)

var dumpPreset string

func listPresets(cmd *cobra.Command, args []string) error {
	if dumpPreset != "" {
		cfg := config.GetPreset(dumpPreset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", dumpPreset, config.ListPresets())
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCES\tBOUNDARIES\tDURATION\tFRAMES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3gs\t%d\n", name, len(cfg.Sources), len(cfg.Boundaries), cfg.Duration, cfg.Frames)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nshapes: %v\n", scenario.NewRegistry().ListShapes())
	return nil
}

func listMaterials(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tSPEED\tDENSITY\tIMPEDANCE")
	for _, kind := range material.Kinds() {
		m := material.MustDefine(kind)
		fmt.Fprintf(w, "%s\t%s\t%.0fm/s\t%.0fkg/m3\t%.4g\n",
			kind, kind.Family(), m.Speed(0), m.Density(0), m.Impedance(0))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println("\nsediment values are at the top of the layer and rise with burial depth")
	return nil
}
