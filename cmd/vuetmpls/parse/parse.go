package parse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/vuetmpls/pkg/config"
	"github.com/walteh/vuetmpls/pkg/diagnostic"
	"github.com/walteh/vuetmpls/pkg/dump"
	"github.com/walteh/vuetmpls/pkg/finder"
	"github.com/walteh/vuetmpls/pkg/parser"
)

type Handler struct {
	Fs afero.Fs

	ConfigPath    string
	Dev           bool
	SSR           bool
	NewSlotSyntax bool
	// Format is yaml, table or none.
	Format string
	// Diagnostics is text or json.
	Diagnostics string

	Out io.Writer
	Err io.Writer
}

func NewParseCommand() *cobra.Command {
	me := &Handler{Fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "parse <glob|dir>...",
		Short: "parse templates and print their element trees",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.ConfigPath, "config", "c", "", "HCL or YAML config file")
	cmd.Flags().BoolVar(&me.Dev, "dev", false, "enable dev-only warnings and key population")
	cmd.Flags().BoolVar(&me.SSR, "ssr", false, "allow side-effecting tags")
	cmd.Flags().BoolVar(&me.NewSlotSyntax, "new-slot-syntax", false, "process v-slot")
	cmd.Flags().StringVarP(&me.Format, "format", "f", "yaml", "tree output: yaml, table or none")
	cmd.Flags().StringVar(&me.Diagnostics, "diagnostics", "text", "diagnostic output: text or json")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.Out = cmd.OutOrStdout()
		me.Err = cmd.ErrOrStderr()
		return me.Run(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) options() (parser.Options, error) {
	cfg := config.Default()
	if me.ConfigPath != "" {
		loaded, err := config.Load(me.Fs, me.ConfigPath)
		if err != nil {
			return parser.Options{}, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	cfg.Dev = cfg.Dev || me.Dev
	cfg.SSR = cfg.SSR || me.SSR
	cfg.NewSlotSyntax = cfg.NewSlotSyntax || me.NewSlotSyntax

	return cfg.Options(), nil
}

func (me *Handler) formatter() (diagnostic.Formatter, error) {
	switch me.Diagnostics {
	case "", "text":
		return diagnostic.NewTextFormatter(), nil
	case "json":
		return diagnostic.NewJSONFormatter(), nil
	}
	return nil, errors.Errorf("unknown diagnostics format %q", me.Diagnostics)
}

func (me *Handler) Run(ctx context.Context, patterns []string) error {
	logger := zerolog.Ctx(ctx)

	if me.Out == nil {
		me.Out = os.Stdout
	}
	if me.Err == nil {
		me.Err = os.Stderr
	}

	opts, err := me.options()
	if err != nil {
		return err
	}
	formatter, err := me.formatter()
	if err != nil {
		return err
	}
	switch me.Format {
	case "", "yaml", "table", "none":
	default:
		return errors.Errorf("unknown format %q", me.Format)
	}
	find := finder.NewDefaultFinder(me.Fs)
	files, err := find.Resolve(ctx, patterns)
	if err != nil {
		return err
	}

	p := parser.New(opts)

	var errs error
	var totalErrors, totalWarnings int
	for _, file := range files {
		info, err := find.Load(ctx, file)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		src := string(info.Content)

		res, err := p.ParseString(ctx, src)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("parsing %s: %w", file, err))
			continue
		}

		logger.Debug().Str("file", file).Int("nodes", res.Tree.Len()).Msg("parsed file")

		totalErrors += len(res.Diagnostics.Errors)
		totalWarnings += len(res.Diagnostics.Warnings)

		if len(res.Diagnostics.Errors)+len(res.Diagnostics.Warnings) > 0 {
			out, err := formatter.Format(res.Diagnostics, file, src)
			if err != nil {
				errs = multierr.Append(errs, errors.Errorf("formatting diagnostics for %s: %w", file, err))
			} else {
				fmt.Fprint(me.Err, string(out))
				if !bytes.HasSuffix(out, []byte("\n")) {
					fmt.Fprintln(me.Err)
				}
			}
		}

		if err := me.writeTree(file, res); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	summary := fmt.Sprintf("%d files, %d errors, %d warnings", len(files), totalErrors, totalWarnings)
	switch {
	case totalErrors > 0:
		summary = color.New(color.FgRed, color.Bold).Sprint(summary)
	case totalWarnings > 0:
		summary = color.New(color.FgYellow).Sprint(summary)
	default:
		summary = color.New(color.FgGreen).Sprint(summary)
	}
	fmt.Fprintln(me.Err, summary)

	if totalErrors > 0 {
		errs = multierr.Append(errs, errors.Errorf("%d template errors", totalErrors))
	}

	return errs
}

func (me *Handler) writeTree(file string, res *parser.Result) error {
	switch me.Format {
	case "none":
		return nil
	case "table":
		fmt.Fprintf(me.Out, "# %s\n%s\n", file, dump.Table(res.Tree))
		return nil
	case "", "yaml":
		out, err := dump.YAML(res.Tree)
		if err != nil {
			return errors.Errorf("dumping %s: %w", file, err)
		}
		fmt.Fprintf(me.Out, "# %s\n%s", file, out)
		return nil
	}
	return errors.Errorf("unknown format %q", me.Format)
}
