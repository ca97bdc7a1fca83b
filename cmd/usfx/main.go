// Command usfx converts USX Bible books into a single USFX document.
// It provides commands for converting directories or bundles of USX
// files and for validating the result.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mwatts/haiola/core/cas"
	"github.com/mwatts/haiola/core/ref"
	coreXML "github.com/mwatts/haiola/core/xml"
	"github.com/mwatts/haiola/internal/logging"
	"github.com/mwatts/haiola/internal/usfx"
)

const version = "0.2.0"

// CLI defines the command-line interface for usfx.
var CLI struct {
	// Global flags
	LogLevel string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogJSON  bool   `name:"log-json" help:"Emit logs as JSON"`

	Convert  ConvertCmd  `cmd:"" help:"Convert USX inputs to one USFX document"`
	Validate ValidateCmd `cmd:"" help:"Validate a USFX document"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// ConvertCmd converts one or more USX inputs into a single USFX file.
type ConvertCmd struct {
	Inputs   []string `arg:"" help:"USX directories or .tar.gz/.tar.xz bundles" type:"existingpath"`
	Out      string   `short:"o" required:"" help:"Output USFX file path" type:"path"`
	Language string   `short:"l" help:"Ethnologue language code for the languageCode element"`
	Checksum bool     `help:"Print the BLAKE3 checksum of the output file"`
}

func (c *ConvertCmd) Run() error {
	out, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	run, err := usfx.NewRun(out, usfx.Options{LanguageCode: c.Language})
	if err != nil {
		return err
	}
	logging.RunStart(run.ID(), c.Out, "inputs", len(c.Inputs))

	for _, input := range c.Inputs {
		if err := run.ConvertPath(input); err != nil {
			return fmt.Errorf("converting %s: %w", input, err)
		}
	}
	if err := run.Close(); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	if c.Checksum {
		sum, err := cas.HashFile(c.Out)
		if err != nil {
			return fmt.Errorf("checksum output: %w", err)
		}
		fmt.Printf("%s  %s\n", sum, c.Out)
	}
	return nil
}

// ValidateCmd checks a USFX document for well-formedness and reports
// its book count and any cross-reference targets that do not parse.
type ValidateCmd struct {
	Path string `arg:"" help:"USFX file to validate" type:"existingfile"`
}

func (c *ValidateCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Path, err)
	}

	result := coreXML.Validate(data)
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", c.Path, e.Message)
		}
		return fmt.Errorf("%s is not well-formed XML", c.Path)
	}

	doc, err := coreXML.Parse(data)
	if err != nil {
		return err
	}
	books, err := doc.XPath("//book")
	if err != nil {
		return err
	}
	refs, err := doc.XPath("//ref")
	if err != nil {
		return err
	}

	badTargets := 0
	for _, node := range refs {
		tgt := node.Attr("tgt")
		if _, err := ref.ParseTarget(tgt); err != nil {
			badTargets++
			logging.Warn("unparseable reference target", "tgt", tgt)
		}
	}

	fmt.Printf("%s: %d books, %d references\n", c.Path, len(books), len(refs))
	if badTargets > 0 {
		return fmt.Errorf("%d reference targets failed to parse", badTargets)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("usfx version %s\n", version)
	return nil
}

func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("usfx"),
		kong.Description("USX to USFX Scripture converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatText
	if CLI.LogJSON {
		format = logging.FormatJSON
	}
	logging.InitLogger(parseLogLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
