// Package generate implements navgen subcommands on top of course and nav
// packages.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"navgen/common"
	"navgen/config"
	"navgen/nav"
	"navgen/state"
)

// stdoutName is accepted as destination meaning standard output.
const stdoutName = "-"

// Build is "build" subcommand: it generates navigation labels for configured
// level and writes them out.
func Build(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")
	conf := &env.Cfg.Navigation

	src := sourceArg(cmd, conf)
	if len(src) == 0 {
		return errors.New("no course structure source has been specified")
	}

	dst := conf.Output.Destination
	if cmd.Args().Len() > 1 {
		dst = cmd.Args().Get(1)
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	level := conf.Level
	if cmd.IsSet("level") {
		level = cmd.String("level")
	}

	format := conf.Output.Format
	if cmd.IsSet("to") {
		if format, err = common.ParseOutputFmt(cmd.String("to")); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Stringer("format", conf.Output.Format), zap.Error(err))
			format = conf.Output.Format
		}
	}

	env.Overwrite = cmd.Bool("overwrite") || conf.Output.Overwrite
	env.CodePage = selectCodePage(cmd.String("force-zip-cp"), log)

	labeler, err := nav.TemplateLabeler(string(config.LabelTemplateFieldName), conf.LabelTemplate)
	if err != nil {
		return err
	}
	builder := nav.Builder{Labeler: labeler, Transliterate: conf.TransliterateSlugs}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("level", level), zap.Stringer("format", format))
	defer func(start time.Time) {
		if err == nil {
			log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	return process(ctx, src, dst, level, format, builder, writerOf(cmd), log)
}

// process does the actual work independently of CLI framework.
func process(ctx context.Context, src, dst, level string, format common.OutputFmt, builder nav.Builder, stdout io.Writer, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	structure, name, err := loadStructure(ctx, src, log)
	if err != nil {
		return err
	}
	env.Rpt.StoreData("structure.txt", []byte(structure.String()))

	labels, err := builder.Build(structure, level)
	if err != nil {
		return fmt.Errorf("unable to build navigation from %s: %w", name, err)
	}
	log.Debug("Navigation built", zap.String("level", level), zap.Int("entries", labels.Len()))

	buf := new(bytes.Buffer)
	if err := nav.Write(buf, labels, format, filepath.Base(name)); err != nil {
		return err
	}
	env.Rpt.StoreData("navigation"+format.Ext(), buf.Bytes())

	if err := ctx.Err(); err != nil {
		return err
	}
	return writeOutput(buf.Bytes(), dst, env.Overwrite, stdout, log)
}

func writeOutput(data []byte, dst string, overwrite bool, stdout io.Writer, log *zap.Logger) error {
	if isStdout(dst) {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("unable to write navigation: %w", err)
		}
		return nil
	}

	dst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if fi, err := os.Stat(dst); err == nil {
		if fi.IsDir() {
			return fmt.Errorf("destination is a directory (%s)", dst)
		}
		if !overwrite {
			return fmt.Errorf("destination already exists (%s), use --overwrite to replace it", dst)
		}
		log.Debug("Overwriting destination", zap.String("file", dst))
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("unable to write navigation: %w", err)
	}
	log.Debug("Navigation written", zap.String("file", dst), zap.Int("bytes", len(data)))
	return nil
}

// Levels is "levels" subcommand: it lists levels of course outline.
func Levels(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("levels")

	src := sourceArg(cmd, &env.Cfg.Navigation)
	if len(src) == 0 {
		return errors.New("no course structure source has been specified")
	}
	env.CodePage = selectCodePage(cmd.String("force-zip-cp"), log)

	structure, _, err := loadStructure(ctx, src, log)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(writerOf(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tMODULES\tTITLE")
	for _, l := range structure.Levels {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", l.ID, len(l.Modules), l.Title)
	}
	return tw.Flush()
}

// Check is "check" subcommand: it reports every problem found in course
// outline, including absence of the level navigation is built for.
func Check(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	src := sourceArg(cmd, &env.Cfg.Navigation)
	if len(src) == 0 {
		return errors.New("no course structure source has been specified")
	}
	env.CodePage = selectCodePage(cmd.String("force-zip-cp"), log)

	level := env.Cfg.Navigation.Level
	if cmd.IsSet("level") {
		level = cmd.String("level")
	}
	return check(ctx, src, level, log)
}

func check(ctx context.Context, src, level string, log *zap.Logger) error {
	structure, name, err := loadStructure(ctx, src, log)
	if err != nil {
		return err
	}

	problems := structure.Check()
	if _, ok := structure.FindLevel(level); !ok {
		problems = multierr.Append(problems, &nav.MissingLevelError{LevelID: level, Known: structure.LevelIDs()})
	}

	errs := multierr.Errors(problems)
	for _, e := range errs {
		log.Warn("Course structure problem", zap.String("source", name), zap.Error(e))
	}
	if len(errs) > 0 {
		return fmt.Errorf("course structure %s has %d problem(s)", name, len(errs))
	}
	log.Info("Course structure is fine", zap.String("source", name), zap.Int("levels", len(structure.Levels)))
	return nil
}

func sourceArg(cmd *cli.Command, conf *config.NavigationConfig) string {
	if src := cmd.Args().Get(0); len(src) > 0 {
		return src
	}
	return conf.Source
}

func isStdout(dst string) bool {
	return len(dst) == 0 || dst == stdoutName
}

func writerOf(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
