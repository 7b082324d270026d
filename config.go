package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"tonebox/host"
)

// configMain prints the configuration in use and optionally saves it.
func configMain(args ConfigCmd, cfg host.Config) {
	checkf(toml.NewEncoder(os.Stdout).Encode(cfg), "failed to encode configuration")

	if args.Save {
		checkf(host.SaveConfig(cfg), "failed to save configuration")
		fmt.Fprintln(os.Stderr, "configuration saved to", filepath.Join(host.ConfigDir(), "config.toml"))
	}
}
