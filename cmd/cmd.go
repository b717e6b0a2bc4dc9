package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rami3l/loxvm/config"
	e "github.com/rami3l/loxvm/errors"
	"github.com/rami3l/loxvm/vm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// ImageExt is the file extension of compiled chunk images.
const ImageExt = ".loxc"

// Exit codes, after sysexits.h.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitDataErr  = 65
	ExitSoftware = 70
	ExitIOErr    = 74
)

// ExitCode maps an error returned by App to a process exit code.
func ExitCode(err error) int {
	var (
		compileErr *e.CompilationError
		imageErr   *e.ImageError
		runtimeErr *e.RuntimeError
		pathErr    *fs.PathError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &compileErr), errors.As(err, &imageErr):
		return ExitDataErr
	case errors.As(err, &runtimeErr):
		return ExitSoftware
	case errors.As(err, &pathErr):
		return ExitIOErr
	default:
		return ExitFailure
	}
}

type options struct {
	configPath  string
	verbosity   string
	strictStack bool
	cfg         *config.Config
}

func App() (app *cobra.Command) {
	opts := &options{}
	app = &cobra.Command{
		Use:   "loxvm [FILE]",
		Args:  cobra.MaximumNArgs(1),
		Short: "loxvm: A Lox bytecode virtual machine in Go.",
		Long: heredoc.Doc(`
			loxvm compiles Lox expressions to bytecode and runs them on a stack machine.

			With FILE, the file is compiled and run, and its result printed.
			Without it, an interactive REPL is started.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.Flags().SortFlags = true

	defaultVerbosityStr := config.Default().Verbosity
	flags := app.PersistentFlags()
	flags.StringVarP(&opts.verbosity, "verbosity", "v", defaultVerbosityStr, "logging verbosity")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./"+config.FileName+")")
	flags.BoolVar(&opts.strictStack, "strict-stack", false, "fail on popping an empty stack")

	app.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		cfg, err := loadConfig(opts.configPath)
		if err != nil {
			return err
		}
		if c.Flags().Changed("verbosity") {
			cfg.Verbosity = opts.verbosity
		}
		if c.Flags().Changed("strict-stack") {
			cfg.StrictStack = opts.strictStack
		}
		opts.cfg = cfg

		verbosityLvl, err := logrus.ParseLevel(cfg.Verbosity)
		if err != nil {
			verbosityLvl, _ = logrus.ParseLevel(defaultVerbosityStr)
		}
		logrus.SetLevel(verbosityLvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "%lvl% %msg%\n"})
		return nil
	}

	app.RunE = func(c *cobra.Command, args []string) error {
		vm_ := opts.newVM()
		if len(args) == 0 {
			return REPL(vm_, opts.cfg.Prompt, c.OutOrStdout())
		}
		chunk, err := loadChunk(args[0])
		if err != nil {
			return err
		}
		return runChunk(c, vm_, chunk)
	}

	app.AddCommand(disasmCmd(), compileCmd(), execCmd(opts))
	return
}

func (o *options) newVM() *vm.VM { return vm.NewVM(vm.WithStrictStack(o.cfg.StrictStack)) }

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.FindAndLoad(wd)
}

// loadChunk reads a chunk from a source file, or from an image if path ends in ImageExt.
func loadChunk(path string) (*vm.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ImageExt {
		return vm.UnmarshalImage(data)
	}
	return vm.Compile(string(data))
}

func runChunk(c *cobra.Command, vm_ *vm.VM, chunk *vm.Chunk) error {
	val, err := vm_.Run(chunk)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.OutOrStdout(), val)
	return err
}

func disasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm FILE",
		Args:  cobra.ExactArgs(1),
		Short: "Print the bytecode listing of a source file or image",
		RunE: func(c *cobra.Command, args []string) error {
			chunk, err := loadChunk(args[0])
			if err != nil {
				return err
			}
			return chunk.Fdisassemble(c.OutOrStdout(), filepath.Base(args[0]))
		},
	}
}

func compileCmd() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "compile FILE",
		Args:  cobra.ExactArgs(1),
		Short: "Compile a source file to a chunk image",
		RunE: func(c *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			chunk, err := vm.Compile(string(src))
			if err != nil {
				return err
			}
			data, err := vm.MarshalImage(chunk)
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0][:len(args[0])-len(filepath.Ext(args[0]))] + ImageExt
			}
			logrus.Debugf("writing %d bytes to %s", len(data), output)
			return os.WriteFile(output, data, 0o644)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "output image path (default FILE with "+ImageExt+")")
	return c
}

func execCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec IMAGE",
		Args:  cobra.ExactArgs(1),
		Short: "Run a chunk image",
		RunE: func(c *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			chunk, err := vm.UnmarshalImage(data)
			if err != nil {
				return err
			}
			return runChunk(c, opts.newVM(), chunk)
		},
	}
}
