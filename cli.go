package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"tonebox/log"
)

type mode byte

const (
	playMode    mode = iota // Play a score in real time
	renderMode              // Render a score to a wave file
	disasmMode              // Disassemble a score
	compileMode             // Compile a MIDI file into a score
	infosMode               // Show score infos
	configMode              // Show or save the configuration
	versionMode             // Show tonebox version
)

type (
	CLI struct {
		Play    Play      `cmd:"" help:"Play a score in real time."`
		Render  Render    `cmd:"" help:"Render a score to a wave file."`
		Disasm  Disasm    `cmd:"" help:"Disassemble a score."`
		Compile Compile   `cmd:"" help:"Compile a MIDI file into a score."`
		Infos   Infos     `cmd:"" help:"Show score infos."`
		Config  ConfigCmd `cmd:"" help:"Show the configuration." name:"config"`
		Version Version   `cmd:"" help:"Show tonebox version."`

		Log        logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		ConfigFile string     `name:"config-file" help:"${config_help}" type:"existingfile" placeholder:"FILE"`

		mode mode
	}

	Play struct {
		ScorePath string `arg:"" name:"/path/to/score" help:"${score_help}" type:"existingfile"`

		Backend     string        `name:"backend" help:"Audio backend (sdl, oto or none), overrides the configuration."`
		Loop        bool          `name:"loop" help:"Start the score again when it stops."`
		MaxDuration time.Duration `name:"max-duration" help:"Stop playing after that long."`
		Trace       *outfile      `name:"trace" help:"Write every transition of the voice lines." placeholder:"FILE|stdout|stderr"`
	}

	Render struct {
		ScorePath string `arg:"" name:"/path/to/score" help:"${score_help}" type:"existingfile"`

		Output      string        `name:"output" short:"o" help:"Wave file to write." required:"" type:"path"`
		MaxDuration time.Duration `name:"max-duration" help:"Stop rendering after that long." default:"5m"`
	}

	Disasm struct {
		ScorePath string `arg:"" name:"/path/to/score" help:"${score_help}" type:"existingfile"`

		JSON bool `name:"json" help:"Output the commands as JSON."`
	}

	Compile struct {
		MIDIPath string `arg:"" name:"/path/to/midi" help:"Standard MIDI file." type:"existingfile"`

		Output     *outfile `name:"output" short:"o" help:"Output file." default:"stdout" placeholder:"FILE|stdout|stderr"`
		Format     string   `name:"format" help:"Output format: ${enum}." enum:"bin,c,json" default:"c"`
		Name       string   `name:"name" help:"Name of the array, for the c format." default:"score"`
		Voices     int      `name:"voices" help:"Number of voices to allocate notes to." default:"6"`
		Loop       bool     `name:"loop" help:"End the score with a restart instead of a stop."`
		Percussion bool     `name:"percussion" help:"Keep the notes of the percussion channel."`
	}

	Infos struct {
		ScorePath string `arg:"" name:"/path/to/score" help:"${score_help}" type:"existingfile"`
	}

	ConfigCmd struct {
		Save bool `name:"save" help:"Save the configuration into the tonebox config directory."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"score_help":  "Score file: raw bytecode, C array (.c, .h, .txt), JSON (.json) or MIDI (.mid, .midi).",
	"config_help": "Configuration file to use instead of the one in the tonebox config directory.",
	"log_help":    "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("tonebox"),
		kong.Description("Six voice square wave synthesizer and score player."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch strings.Fields(ctx.Command())[0] {
	case "play":
		cfg.mode = playMode
	case "render":
		cfg.mode = renderMode
	case "disasm":
		cfg.mode = disasmMode
	case "compile":
		cfg.mode = compileMode
	case "infos":
		cfg.mode = infosMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" || strings.HasPrefix(ctx.Command(), "play") || strings.HasPrefix(ctx.Command(), "render") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

// isTerminal reports whether f is stdout or stderr.
func (f *outfile) isTerminal() bool { return f.name == "stdout" || f.name == "stderr" }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
