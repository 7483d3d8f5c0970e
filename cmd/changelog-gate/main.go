package main

import (
	"fmt"
	"github.com/icinga/icinga-changelog/internal"
	"github.com/icinga/icinga-changelog/internal/changelog"
	"github.com/icinga/icinga-changelog/internal/daemon"
	"github.com/icinga/icingadb/pkg/logging"
	"go.uber.org/zap"
	"os"
	"runtime"
)

func main() {
	flags, help, err := daemon.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(daemon.ExitFailure)
	}
	if help {
		os.Exit(daemon.ExitSuccess)
	}

	if flags.Version {
		fmt.Println("changelog-gate version:", internal.Version.Version)
		fmt.Println()

		fmt.Println("Build information:")
		fmt.Printf("  Go version: %s (%s, %s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if internal.Version.Commit != "" {
			fmt.Println("  Git commit:", internal.Version.Commit)
		}
		return
	}

	conf, err := daemon.LoadConfig(flags)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(daemon.ExitFailure)
	}

	logs, err := logging.NewLogging(
		"changelog-gate",
		conf.Logging.Level,
		conf.Logging.Output,
		conf.Logging.Options,
		conf.Logging.Interval,
	)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "cannot initialize logging:", err)
		os.Exit(daemon.ExitFailure)
	}

	logger := logs.GetLogger()
	defer func() { _ = logger.Sync() }()

	logger.Debugw("Loading changelog", zap.String("path", conf.Changelog))
	cl, err := changelog.LoadFile(conf.Changelog)
	if err != nil {
		logger.Fatalw("Cannot load changelog", zap.String("path", conf.Changelog), zap.Error(err))
	}

	changesets, err := conf.RunFilter().Apply(cl, logs.GetChildLogger("changelog"))
	if err != nil {
		logger.Fatalw("Cannot filter changelog", zap.Error(err))
	}

	for _, cs := range changesets {
		fmt.Println(cs.Key())
	}
}
