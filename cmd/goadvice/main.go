package main

import (
	"go/format"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CherkashinEvgeny/goadvice/internal/gen"
)

const usage = `goadvice --pkg=[destination package name] --path=[destination package path] --file=[output file path] [source package] [interfaces]...
	[destination package name] - Package name of generated code. If empty, source package name will be used.
	[destination package path] - Package path of generated code. If empty, source package path will be used.
	[output file path]         - Path to output file. If empty, stdout will be used.
	[source package]           - Package path for which wrappers will be generated.
	[interfaces]               - Interface names, optionally renamed as Iface->Wrapper. If empty, wrappers will be generated for each interface in package.`

type options struct {
	dstPkg  string
	dstPath string
	dstFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "goadvice [source package] [interfaces]...",
		Short:        "Generate goadvice wrappers for interfaces",
		Long:         usage,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			return run(opts, args, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().StringVar(&opts.dstPkg, "pkg", "", "Package name of generated code")
	cmd.Flags().StringVar(&opts.dstPath, "path", "", "Package path of generated code")
	cmd.Flags().StringVar(&opts.dstFile, "file", "", "Output file path")
	return cmd
}

func run(opts options, args []string, stdout io.Writer, logger *slog.Logger) error {
	srcPkgArg := args[0]
	if srcPkgArg == "" {
		return errors.New("source package is empty")
	}
	srcPkg, err := gen.ParsePackage(srcPkgArg)
	if err != nil {
		return errors.Wrap(err, "failed to parse package")
	}

	var dstPkgPath string
	if opts.dstPath != "" {
		dstPkgPath = opts.dstPath
	} else if opts.dstFile != "" {
		dstPkgPath, err = gen.ResolvePackagePath(filepath.Dir(opts.dstFile))
		if err != nil {
			logger.Warn("failed to resolve destination package path", "using", srcPkg.Path(), "error", err)
			dstPkgPath = srcPkg.Path()
		}
	} else {
		dstPkgPath = srcPkg.Path()
	}

	var dstPkgName string
	if opts.dstPkg != "" {
		dstPkgName = opts.dstPkg
	} else if dstPkgPath == srcPkg.Path() {
		dstPkgName = srcPkg.Name()
	} else {
		dstPkgName, err = gen.ResolvePackageName(dstPkgPath)
		if err != nil {
			logger.Warn("failed to resolve destination package name", "using", srcPkg.Name(), "error", err)
			dstPkgName = srcPkg.Name()
		}
	}

	wrappers, err := gen.FindWrappersToGenerate(srcPkg, gen.ParseWrapperOptions(args[1:]))
	if err != nil {
		return errors.Wrap(err, "failed to find interfaces to wrap")
	}
	code, err := gen.Generate(gen.Config{
		DstPkgName:     dstPkgName,
		DstPackagePath: dstPkgPath,
		SrcPkg:         srcPkg,
		Wrappers:       wrappers,
	})
	if err != nil {
		return errors.Wrap(err, "failed to generate code")
	}
	code = formatCode(code, logger)

	out := stdout
	if opts.dstFile != "" {
		file, err := os.OpenFile(opts.dstFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return errors.Wrap(err, "open file")
		}
		defer func() {
			_ = file.Close()
		}()
		out = file
	}
	if _, err = io.WriteString(out, code); err != nil {
		return errors.Wrap(err, "write code")
	}
	logger.Debug("wrappers generated", "package", srcPkg.Path(), "count", len(wrappers))
	return nil
}

// formatCode gofmts code, falling back to the unformatted text with a warning.
func formatCode(code string, logger *slog.Logger) string {
	formatted, err := format.Source([]byte(code))
	if err != nil {
		logger.Warn("failed to format code", "error", err)
		return code
	}
	return string(formatted)
}
