// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/z5labs/konfig"
	"github.com/z5labs/konfig/decodeerr"
	"github.com/z5labs/konfig/internal/try"
	"github.com/z5labs/konfig/pkg/maskslog"
	"github.com/z5labs/konfig/pkg/otelslog"
	"github.com/z5labs/konfig/schemafile"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Option are used to configure an App.
type Option func(*App)

// Stdout sets where resolved configurations are written.
func Stdout(w io.Writer) Option {
	return func(a *App) {
		a.stdout = w
	}
}

// Stderr sets where logs, traces and failures are written.
func Stderr(w io.Writer) Option {
	return func(a *App) {
		a.stderr = w
	}
}

// Environ sets the environment schemas are resolved against.
func Environ(pairs []string) Option {
	return func(a *App) {
		a.env = konfig.FromEnviron(pairs)
	}
}

// FS sets the file system schema descriptions are opened from.
func FS(fsys fs.FS) Option {
	return func(a *App) {
		a.open = fsys.Open
	}
}

// App is the konfig command line.
type App struct {
	stdout io.Writer
	stderr io.Writer
	env    konfig.Environ
	open   func(string) (fs.File, error)
	viper  *viper.Viper
}

// New returns a fully initialized App.
func New(opts ...Option) *App {
	v := viper.New()
	v.SetEnvPrefix("KONFIG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		env:    konfig.FromEnviron(os.Environ()),
		open: func(name string) (fs.File, error) {
			return os.Open(name)
		},
		viper: v,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run executes the command line. It also handles listening
// for interrupts from the underlying OS.
func (app *App) Run(args ...string) error {
	cmd := buildCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(app.stdout)
	cmd.SetErr(app.stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return cmd.ExecuteContext(ctx)
}

// ErrResolveFailed is returned when at least one schema failed to resolve.
// The failures themselves have already been written to stderr.
var ErrResolveFailed = errors.New("failed to resolve configuration")

// UnknownOutputError is returned for an unsupported --output format.
type UnknownOutputError struct {
	Output string
}

// Error implements the [builtin.error] interface.
func (e UnknownOutputError) Error() string {
	return fmt.Sprintf("unknown output format %q, expected one of [json, yaml]", e.Output)
}

// LoadError carries the failure to load a schema description.
type LoadError struct {
	Schema string
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e LoadError) Unwrap() error {
	return e.Cause
}

func buildCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "konfig",
		Short:         "Resolve configuration schemas against the environment and arguments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.viper.BindPFlags(cmd.Flags())
		},
	}

	pfs := root.PersistentFlags()
	pfs.StringSlice("schema", nil, "Schema description to resolve, may be repeated.")
	pfs.String("log-level", "warn", "Minimum level of logs written to stderr.")
	pfs.Bool("trace", false, "Export a trace of each resolution to stderr.")
	pfs.StringSlice("mask", nil, "Field paths whose values are masked in logs, e.g. *.password")

	resolve := resolveCmd(app)
	root.AddCommand(resolve, checkCmd(app))

	envUsage(pfs)
	envUsage(resolve.Flags())
	return root
}

func envName(flag string) string {
	return "KONFIG_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// envUsage documents the environment variable viper reads for each flag.
func envUsage(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		f.Usage += fmt.Sprintf(" [$%s]", envName(f.Name))
	})
}

func resolveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [flags] -- [args...]",
		Short: "Resolve every schema and print the results in order",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			output := app.viper.GetString("output")
			if output != "json" && output != "yaml" {
				return UnknownOutputError{Output: output}
			}

			logger, err := app.logger()
			if err != nil {
				return err
			}

			names, schemas, err := app.loadSchemas()
			if err != nil {
				return err
			}

			tp, err := initTracing(cmd.Context(), app.viper.GetBool("trace"), app.stderr)
			if err != nil {
				return err
			}
			defer func() {
				serr := tp.Shutdown(context.Background())
				if err == nil {
					err = serr
				}
			}()

			r := &resolver{
				tracer: tp.Tracer(serviceName),
				log:    logger,
				src: konfig.Sources{
					Env:  app.env,
					Args: konfig.Args(args),
				},
			}
			results, err := r.resolveAll(cmd.Context(), names, schemas)
			if err != nil {
				return err
			}

			failed := false
			for i, res := range results {
				if res.err != nil {
					failed = true
					fmt.Fprintf(app.stderr, "%s: %s\n", names[i], konfig.ResolveError{Cause: res.err})
					continue
				}
				err = writeRecord(app.stdout, output, res.rec)
				if err != nil {
					return err
				}
			}
			if failed {
				return ErrResolveFailed
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "json", "Output format, json or yaml.")
	return cmd
}

func checkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile every schema without resolving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, schemas, err := app.loadSchemas()
			if err != nil {
				return err
			}
			for i, s := range schemas {
				fmt.Fprintf(app.stdout, "%s: ok [%s]\n", names[i], strings.Join(s.Fields(), ", "))
			}
			return nil
		},
	}
}

var errNoSchemas = errors.New("at least one --schema is required")

func (app *App) loadSchemas() ([]string, []konfig.Schema, error) {
	names := app.viper.GetStringSlice("schema")
	if len(names) == 0 {
		return nil, nil, errNoSchemas
	}

	schemas := make([]konfig.Schema, len(names))
	for i, name := range names {
		f, err := app.open(name)
		if err != nil {
			return nil, nil, LoadError{Schema: name, Cause: err}
		}
		schemas[i], err = schemafile.Load(f)
		if err != nil {
			return nil, nil, LoadError{Schema: name, Cause: err}
		}
	}
	return names, schemas, nil
}

func (app *App) logger() (*slog.Logger, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(app.viper.GetString("log-level")))
	if err != nil {
		return nil, err
	}

	h := slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{Level: lvl})
	return otelslog.New(
		maskslog.NewHandler(h, maskslog.Fields(app.viper.GetStringSlice("mask")...)),
	), nil
}

type result struct {
	rec konfig.Record
	err decodeerr.Error
}

type resolver struct {
	tracer trace.Tracer
	log    *slog.Logger
	src    konfig.Sources
}

// resolveAll resolves each schema concurrently. Resolution failures are
// kept per schema; only panics fail the group.
func (r *resolver) resolveAll(ctx context.Context, names []string, schemas []konfig.Schema) ([]result, error) {
	results := make([]result, len(schemas))

	g, gctx := errgroup.WithContext(ctx)
	for i := range schemas {
		g.Go(func() (err error) {
			defer try.Recover(&err)

			results[i] = r.resolve(gctx, names[i], schemas[i])
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resolver) resolve(ctx context.Context, name string, s konfig.Schema) result {
	ctx, span := r.tracer.Start(ctx, "konfig.Resolve", trace.WithAttributes(
		attribute.String("konfig.schema", name),
		attribute.StringSlice("konfig.fields", s.Fields()),
	))
	defer span.End()

	log := r.log.With(slog.String("schema", name))

	rec, err := konfig.Run[konfig.Record](s, r.src)
	if err != nil {
		derr := decodeerr.From("konfig", err)
		span.RecordError(derr)
		span.SetStatus(codes.Error, "failed to resolve")
		log.ErrorContext(ctx, "failed to resolve schema", slog.Int("failed_fields", failedFields(derr)))
		return result{err: derr}
	}

	log.WithGroup("record").DebugContext(ctx, "resolved schema", recordAttrs(rec)...)
	return result{rec: rec}
}

func failedFields(err decodeerr.Error) int {
	var many decodeerr.Many
	if errors.As(err, &many) {
		return len(many.Errors)
	}
	return 1
}

func recordAttrs(rec konfig.Record) []any {
	attrs := make([]any, 0, len(rec))
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		nested, ok := rec[k].(konfig.Record)
		if !ok {
			attrs = append(attrs, slog.Any(k, rec[k]))
			continue
		}
		attrs = append(attrs, slog.Group(k, recordAttrs(nested)...))
	}
	return attrs
}

func writeRecord(w io.Writer, output string, rec konfig.Record) error {
	if output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(map[string]any(rec))
		if err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
