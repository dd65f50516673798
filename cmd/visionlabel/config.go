package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mgnigh98/VisionLabel/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Program() string {
	return c.subcommand("config")
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	case "path":
		path := config.NewLoader(version, configPath()).GetConfigPath()
		if path == "" {
			path = "(none, using defaults)"
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runPrint() error {
	fmt.Fprint(c.stdout, c.root.config.String())
	return nil
}

func (c *configCmd) runSave() error {
	loader := config.NewLoader(version, configPath())
	if existing := loader.GetConfigPath(); existing != "" && loader.OverridePath == "" {
		// Write back to the file that was loaded.
		loader.OverridePath = existing
	}
	path, err := loader.Save(c.root.config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
