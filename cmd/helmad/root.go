// Package main implements the helmad command-line interface: browse Helm
// chart repositories, render a chart with a values file, and compare the
// resources two values files produce.
//
// The main CLI commands are:
//   - repos: list the configured chart repositories
//   - search: list the charts of one repository
//   - render: render a remote or local chart into its resources and templates
//   - diff: compare the resources rendered with two values files
//   - version: print the helmad and helm versions
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/helmad/internal/config"
	"github.com/lucas-albers-lz4/helmad/internal/helm"
	"github.com/lucas-albers-lz4/helmad/internal/session"
	"github.com/lucas-albers-lz4/helmad/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
	"github.com/lucas-albers-lz4/helmad/pkg/version"
)

// Gateway is everything the commands need from helm.
type Gateway interface {
	session.Gateway
	version.HelmVersioner
}

// newGateway builds the helm gateway once the configuration is known.
// Tests replace it with a mock.
var newGateway = func(cfg *config.Config) (Gateway, error) {
	return helm.New(cfg.HelmBinary, helm.WithTimeout(cfg.Timeout))
}

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// app carries the state of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	debug   bool
	cfg     *config.Config
	gateway Gateway
}

// session builds the gateway on first use.
func (a *app) session() (*session.Session, error) {
	gw, err := a.helm()
	if err != nil {
		return nil, err
	}
	return session.New(gw, AppFs), nil
}

func (a *app) helm() (Gateway, error) {
	if a.gateway != nil {
		return a.gateway, nil
	}
	gw, err := newGateway(a.cfg)
	if err != nil {
		return nil, err
	}
	a.gateway = gw
	return gw, nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "helmad",
		Short: "Browse Helm repositories and inspect rendered charts",
		Long: `helmad lists Helm chart repositories and their charts, renders a chart
with a values file, and shows the rendered Kubernetes resources ordered by kind
together with the chart's raw template files.

Every command drives the helm binary; no cluster is contacted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.helmad.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.String(config.KeyLogLevel, "info", "set log level (debug, info, warn, error)")
	flags.String(config.KeyHelmBinary, helm.DefaultBinary, "helm binary name or path")
	flags.Duration(config.KeyTimeout, helm.DefaultTimeout, "timeout for a single helm invocation")
	flags.StringP(config.KeyOutput, "o", config.OutputTable, "output format (table, yaml, json)")

	rootCmd.AddCommand(
		newReposCmd(a),
		newSearchCmd(a),
		newRenderCmd(a),
		newDiffCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// configure resolves configuration and the log level before any command runs.
func (a *app) configure(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	if err := config.ReadFile(a.v, AppFs, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.LogLevel = log.LevelDebug
	}
	log.SetLevel(cfg.LogLevel)
	a.cfg = cfg

	log.Debug("Configuration resolved", "helmBinary", cfg.HelmBinary, "timeout", cfg.Timeout,
		"output", cfg.Output, "configFile", cfg.File)
	return nil
}

// run executes cmd and turns a panic into an internal error.
func run(cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic", "panic", r)
			err = &exitcodes.ExitCodeError{
				Code: exitcodes.ExitInternalError,
				Err:  fmt.Errorf("internal error: %v", r),
			}
		}
	}()
	return cmd.ExecuteContext(context.Background())
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := run(rootCmd)
	if err == nil {
		return exitcodes.ExitSuccess
	}

	code := exitCode(err)
	log.Debug("Command failed", "error", err, "exitCode", code)
	fmt.Fprintln(stderr, "Error:", err)
	return code
}
