package main

import (
	"fmt"
	"os"

	"tonebox/host"
	"tonebox/score"
)

var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case playMode:
		playMain(cli.Play, loadConfig(cli.ConfigFile))
	case renderMode:
		renderMain(cli.Render, loadConfig(cli.ConfigFile))
	case disasmMode:
		disasmMain(cli.Disasm)
	case compileMode:
		compileMain(cli.Compile)
	case infosMode:
		infosMain(cli.Infos)
	case configMode:
		configMain(cli.Config, loadConfig(cli.ConfigFile))
	case versionMode:
		fmt.Println("tonebox", version)
	}
}

func loadConfig(path string) host.Config {
	if path == "" {
		return host.LoadConfigOrDefault()
	}
	cfg, err := host.LoadConfig(path)
	checkf(err, "failed to load configuration")
	return cfg
}

func loadScore(path string) []byte {
	b, err := score.Load(path, score.CompileOptions{})
	checkf(err, "failed to load score")
	return b
}
