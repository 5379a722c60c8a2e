package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	qe "github.com/shubics/qeplotter"
)

func runVersion(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print the metadata in JSON instead of YAML")
	short := fs.Bool("short", false, "print only the version")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *short {
		fmt.Println(qe.Version)
		return nil
	}
	m := qe.PackageManifest()
	if err := m.Validate(); err != nil {
		return err
	}
	m.Resolve()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
