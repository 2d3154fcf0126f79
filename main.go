package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version = "dev"

// exitStatusError carries a non-zero exit status out of the root command
// without printing anything.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the root command with the given arguments and streams and
// returns the process exit status.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var statusErr *exitStatusError
		if errors.As(err, &statusErr) {
			return statusErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitTrouble
	}
	return exitMatch
}

// newRootCmd creates the grepr command. Every flag is bound to a private
// viper instance so values can also come from the config file or GREPR_*
// environment variables (flag > env > file > default).
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "grepr [flags] PATTERN [FILE...]",
		Short: "grepr searches files for lines matching a regular expression.",
		Long: `grepr prints the lines of each FILE that match PATTERN, or with -c
one "path:count" line per file. A FILE of "-" stands for standard input,
which is also the default when no FILE is given. Directories are searched
only with -r. Git repository URLs (with -r) and web pages are searched too.

Exit status is 0 if a line was selected, 1 if none was, and 2 if the
pattern is invalid or every target failed.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, v, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	// Matching
	flags.BoolP("ignore-case", "i", false, "Ignore case distinctions in patterns and input data")
	flags.BoolP("invert-match", "v", false, "Select non-matching lines")
	flags.BoolP("fixed-strings", "F", false, "Interpret PATTERN as a fixed string, not a regular expression")

	// Output
	flags.BoolP("count", "c", false, `Print only a "path:count" line per file`)
	flags.BoolP("with-filename", "H", false, "Print the file name before each matching line")
	flags.BoolP("line-number", "n", false, "Print the line number before each matching line")
	flags.String("pdf", "", "Also save the results as a PDF report")
	flags.Bool("clipboard", false, "Also copy standard output to the clipboard")

	// Traversal
	flags.BoolP("recursive", "r", false, "Read all files under each directory, recursively")
	flags.String("include", "", "Search only files matching these globs (comma-separated, e.g. *.go,*.md)")
	flags.String("exclude", "", "Skip files matching these globs (comma-separated)")
	flags.String("exclude-dir", "", "Skip directories matching these globs (comma-separated)")
	flags.String("type", "", "Search only files of these languages (comma-separated, e.g. go,python)")
	flags.Bool("skip-hidden", false, "Skip hidden files and directories")
	flags.Bool("gitignore", false, "Respect the .gitignore file at the root of each directory")
	flags.Int("max-depth", 0, "Maximum directory depth to descend (0 for no limit)")
	flags.Int64("max-size", 0, "Skip files larger than this many bytes (0 for no limit)")

	// Web targets
	flags.Bool("traverse-links", false, "Follow links when searching web URLs")
	flags.Int("link-depth", 1, "Maximum depth to follow links")

	// Misc
	flags.Bool("interactive", false, "Pick targets below the current directory with a fuzzy finder")
	flags.Bool("verbose", false, "Log debug information to standard error")
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/grepr/config.toml)")

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name != "config" {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	return cmd
}

// runRoot is the body of the root command.
func runRoot(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := loadConfig(v, args)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if v.GetBool("interactive") {
		cfg.Targets, err = runInteractiveFinder(".", cfg.Walk)
		if errors.Is(err, errInteractiveAborted) {
			return &exitStatusError{code: exitNoMatch}
		}
		if err != nil {
			return err
		}
	}

	var clip *bytes.Buffer
	if v.GetBool("clipboard") {
		clip = new(bytes.Buffer)
		stdout = io.MultiWriter(stdout, clip)
	}

	printer := NewPrinter(stdout, stderr)
	pdfPath := v.GetString("pdf")
	if pdfPath != "" {
		printer.report = &Report{Pattern: cfg.Pattern, CountOnly: cfg.Scan.CountOnly}
	}

	searcher, err := NewSearcher(cfg, cmd.InOrStdin(), printer)
	if err != nil {
		return err
	}
	summary := searcher.Run()
	logger.Debug("run finished", "targets", summary.Targets, "failed_targets", summary.FailedTargets,
		"files", summary.Files, "failed_files", summary.FailedFiles, "selected", summary.SelectedLines)

	if pdfPath != "" {
		if err := generatePDF(printer.report, pdfPath); err != nil {
			printer.Failure(pdfPath, err)
		}
	}
	if clip != nil {
		if err := clipboard.WriteAll(clip.String()); err != nil {
			printer.Failure("clipboard", err)
		}
	}

	if code := summary.ExitCode(); code != exitMatch {
		return &exitStatusError{code: code}
	}
	return nil
}

// loadConfig builds the run configuration from the bound viper values.
func loadConfig(v *viper.Viper, args []string) (Config, error) {
	langs, err := loadLanguageData(configDir())
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Pattern: args[0],
		Targets: args[1:],
		Match: MatchOptions{
			IgnoreCase:   v.GetBool("ignore-case"),
			FixedStrings: v.GetBool("fixed-strings"),
		},
		Scan: ScanOptions{
			Invert:    v.GetBool("invert-match"),
			CountOnly: v.GetBool("count"),
		},
		Walk: WalkOptions{
			Recursive:    v.GetBool("recursive"),
			SkipHidden:   v.GetBool("skip-hidden"),
			UseGitignore: v.GetBool("gitignore"),
			MaxDepth:     v.GetInt("max-depth"),
			MaxSize:      v.GetInt64("max-size"),
			Includes:     parsePatterns(v.GetString("include")),
			Excludes:     parsePatterns(v.GetString("exclude")),
			ExcludeDirs:  parsePatterns(v.GetString("exclude-dir")),
			Types:        parsePatterns(v.GetString("type")),
			Langs:        langs,
		},
		WithFilename:  v.GetBool("with-filename"),
		LineNumbers:   v.GetBool("line-number"),
		TraverseLinks: v.GetBool("traverse-links"),
		LinkDepth:     v.GetInt("link-depth"),
		Verbose:       v.GetBool("verbose"),
	}
	return cfg, nil
}

// initConfig reads in the config file and GREPR_* environment variables and
// sets up logging.
func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("GREPR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	readErr := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if readErr != nil && !errors.As(readErr, &notFound) {
		return fmt.Errorf("error reading config file: %w", readErr)
	}

	logger = newLogger(stderr, v.GetBool("verbose"))
	if readErr == nil {
		logger.Debug("using config file", "path", v.ConfigFileUsed())
	} else {
		logger.Debug("no config file found, using defaults and flags")
	}
	return nil
}

// configDir returns $HOME/.config/grepr, or "" when there is no home directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "grepr")
}
