// Package main provides the labelprune command-line tool for keeping,
// unwrapping, or removing feature-labeled statements in Go source files.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/mod/modfile"
	"golang.org/x/sync/semaphore"

	"github.com/abemedia/labelprune"
	"github.com/abemedia/labelprune/internal/featuremap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type command struct {
	prefix      string
	mapFile     string
	enable      []string
	disable     []string
	keepImports bool
	list        bool
	verbose     bool

	formatter *labelprune.Formatter
	stdout    io.Writer
	stderr    io.Writer
	mu        sync.Mutex
	failed    int
}

func newRootCmd() *cobra.Command {
	c := &command{}

	cmd := &cobra.Command{
		Use:   "labelprune [flags] [file|dir|path/...]",
		Short: "Keep, unwrap, or remove feature-labeled statements",
		Long: `labelprune rewrites Go source files based on labeled statements.

A statement whose label matches --prefix is looked up in the feature map by
its label with the prefix removed. Enabled features keep the statement and
drop the label; disabled or unknown features remove the statement.

If no file is provided, reads from stdin and writes to stdout.
A path ending in /... is processed recursively, skipping nested modules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&c.prefix, "prefix", labelprune.DefaultPrefix.String(), "Regular expression a label must match")
	flags.StringVar(&c.mapFile, "map", "", "YAML or JSON `file` mapping feature names to values")
	flags.StringSliceVar(&c.enable, "enable", nil, "Comma-separated list of features to enable")
	flags.StringSliceVar(&c.disable, "disable", nil, "Comma-separated list of features to disable")
	flags.BoolVar(&c.keepImports, "keep-imports", false, "Keep imports left unused by removed statements")
	flags.BoolVarP(&c.list, "list", "l", false, "List files whose output differs instead of writing them")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Report changes per file on stderr")

	return cmd
}

func (c *command) run(cmd *cobra.Command, args []string) error {
	c.stdout = cmd.OutOrStdout()
	c.stderr = cmd.ErrOrStderr()

	opts := &labelprune.Options{KeepImports: c.keepImports}

	if cmd.Flags().Changed("prefix") {
		re, err := regexp.Compile(c.prefix)
		if err != nil {
			return fmt.Errorf("invalid --prefix: %w", err)
		}
		opts.Prefix = labelprune.PrefixRegexp(re)
	}

	var features map[string]any
	if c.mapFile != "" {
		var err error
		if features, err = featuremap.Load(c.mapFile); err != nil {
			return err
		}
	}
	opts.Map = featuremap.Merge(features, c.enable, c.disable)

	c.formatter = labelprune.New(opts)

	if len(args) == 0 {
		return c.processStdin(cmd.InOrStdin())
	}

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))

	for _, path := range args {
		arg := path
		recursive := strings.HasSuffix(path, "/...")
		if recursive {
			path = strings.TrimSuffix(path, "/...")
		}

		info, err := os.Stat(path)
		if err != nil {
			c.errorf("Error stating path %s: %v\n", path, err)
			continue
		}

		isDir := info.IsDir()

		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if p == path {
					return nil
				}
				if !recursive && isDir && p != arg {
					return filepath.SkipDir
				}
				if c.skipDir(p, info) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(p, ".go") {
				return nil
			}
			if err := sem.Acquire(context.Background(), 1); err != nil {
				return fmt.Errorf("failed to acquire semaphore: %w", err)
			}
			wg.Add(1)
			go func(p string, mode os.FileMode) {
				defer sem.Release(1)
				defer wg.Done()
				c.processFile(p, mode)
			}(p, info.Mode().Perm())
			return nil
		})
		if err != nil {
			wg.Wait()
			return fmt.Errorf("error walking path %s: %w", path, err)
		}
	}

	wg.Wait()

	if c.failed > 0 {
		return fmt.Errorf("%d file(s) could not be processed", c.failed)
	}
	return nil
}

// skipDir reports whether a directory below a walked root is left out,
// following the go command's rules for "..." patterns.
func (c *command) skipDir(path string, info os.FileInfo) bool {
	name := info.Name()
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" {
		return true
	}

	data, err := os.ReadFile(filepath.Join(path, "go.mod"))
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	if c.verbose {
		module := modfile.ModulePath(data)
		if module == "" {
			module = "unknown module"
		}
		c.logf("%s: skipping nested module %s\n", path, module)
	}
	return true
}

func (c *command) processStdin(r io.Reader) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}

	output, stats, err := c.formatter.Process(input)
	if err != nil {
		return err
	}
	if c.verbose {
		c.logf("<stdin>: unwrapped %d, pruned %d\n", stats.Unwrapped, stats.Pruned)
	}

	_, err = c.stdout.Write(output)
	return err
}

func (c *command) processFile(filename string, mode os.FileMode) {
	input, err := os.ReadFile(filename)
	if err != nil {
		c.errorf("Error reading file %s: %v\n", filename, err)
		return
	}

	output, stats, err := c.formatter.Process(input)
	if err != nil {
		c.errorf("Error formatting file %s: %v\n", filename, err)
		return
	}

	if c.verbose && stats.Changed() {
		c.logf("%s: unwrapped %d, pruned %d\n", filename, stats.Unwrapped, stats.Pruned)
	}

	if bytes.Equal(input, output) {
		return
	}

	if c.list {
		c.mu.Lock()
		fmt.Fprintln(c.stdout, filename)
		c.mu.Unlock()
		return
	}

	if err := os.WriteFile(filename, output, mode); err != nil {
		c.errorf("Error writing file %s: %v\n", filename, err)
	}
}

func (c *command) logf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.stderr, format, args...)
}

func (c *command) errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed++
	fmt.Fprintf(c.stderr, format, args...)
}
