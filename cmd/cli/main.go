package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/limaJavier/socialgolfer/internal/config"
	"github.com/limaJavier/socialgolfer/internal/logging"
	"github.com/limaJavier/socialgolfer/internal/metrics"
	"github.com/limaJavier/socialgolfer/pkg/model"
	"github.com/limaJavier/socialgolfer/pkg/sat"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

const (
	exitInvalid = 15
	exitError   = 1
	exitUsage   = 2

	usageLine = "usage: golfer [flags] instanceFile [outputFile] [timeLimitSeconds]"
)

var solvers = map[string]func(config.Config) sat.Solver{
	"gophersat": func(config.Config) sat.Solver { return sat.NewGophersatSolver() },
	"gini":      func(config.Config) sat.Solver { return sat.NewGiniSolver() },
	"kissat":    func(cfg config.Config) sat.Solver { return sat.NewKissatSolver(cfg.Solvers.Kissat) },
	"cadical":   func(cfg config.Config) sat.Solver { return sat.NewCadicalSolver(cfg.Solvers.Cadical) },
	"minisat":   func(cfg config.Config) sat.Solver { return sat.NewMinisatSolver(cfg.Solvers.Minisat) },
	"glucose":   func(cfg config.Config) sat.Solver { return sat.NewGlucoseSolver(cfg.Solvers.Glucose) },
}

// exitCodeError carries the process exit code of a failed run.
type exitCodeError struct {
	code    int
	message string
}

func (err *exitCodeError) Error() string {
	return err.message
}

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(exitError)
	}
}

func run(stdout, stderr io.Writer, args []string) error {
	//** Parse arguments
	flags := pflag.NewFlagSet("golfer", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		flags.PrintDefaults()
	}
	solverNames := lo.Keys(solvers)
	slices.Sort(solverNames)
	flags.String("solver", config.DefaultSolver, fmt.Sprintf("Engine to use, one of %v", strings.Join(solverNames, ", ")))
	configPath := flags.String("config", "", "Path to the configuration file; golfer.{yaml,json} is looked up next to the executable and in the working directory otherwise")
	flags.Int("threads", 1, "Threads handed to the engine")
	flags.Uint64("max-variables", 0, "Refuse instances whose model would exceed this many variables; 0 disables the check")
	flags.String("log-file", "", "File the log is appended to; stderr if empty")
	flags.CountP("verbosity", "v", "Log verbosity, repeat for more detail")
	flags.String("metrics-file", "", "File the run's metrics are written to in Prometheus text format")

	if err := flags.Parse(args); errors.Is(err, pflag.ErrHelp) {
		return nil
	} else if err != nil {
		return &exitCodeError{code: exitUsage, message: err.Error()}
	}

	positional := flags.Args()
	if len(positional) < 1 || len(positional) > 3 {
		return &exitCodeError{code: exitUsage, message: usageLine}
	}
	instanceFile := positional[0]
	outputFile := ""
	if len(positional) > 1 {
		outputFile = positional[1]
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}
	if len(positional) > 2 {
		seconds, err := strconv.Atoi(positional[2])
		if err != nil || seconds <= 0 {
			return &exitCodeError{code: exitUsage, message: fmt.Sprintf("time limit must be a positive number of seconds: %v\n%v", positional[2], usageLine)}
		}
		cfg.TimeLimit = time.Duration(seconds) * time.Second
	}
	newSolver, ok := solvers[strings.ToLower(cfg.Solver)]
	if !ok {
		return &exitCodeError{code: exitUsage, message: fmt.Sprintf("%v is not a valid solver, expected one of %v", cfg.Solver, strings.Join(solverNames, ", "))}
	}

	//** Initialize dependencies
	logger, sync, err := logging.New(logging.Options{
		File:        cfg.Log.File,
		Verbosity:   cfg.Log.Verbosity,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return err
	}
	defer sync()
	recorder := metrics.NewRecorder()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logr.NewContext(ctx, logger)

	instance, err := model.InstanceFromFile(instanceFile)
	if err != nil {
		return fmt.Errorf("cannot parse instance file: %w", err)
	}
	logger.Info("instance loaded", "file", instanceFile, "solver", cfg.Solver, "timeLimit", cfg.TimeLimit, "threads", cfg.Threads)

	//** Build schedule
	scheduler := model.NewScheduler(newSolver(cfg), cfg.MaxVariables)
	start := time.Now()
	schedule, variables, constraints, err := scheduler.Build(ctx, instance, sat.Params{TimeLimit: cfg.TimeLimit, Threads: cfg.Threads})
	recorder.ObserveModel(variables, constraints)
	if err != nil {
		return fmt.Errorf("an error occurred during schedule construction: %w", err)
	}
	recorder.ObserveSolve(cfg.Solver, time.Since(start), schedule.Objective)

	//** Write schedule and read it back for validation
	if outputFile == "" {
		if _, err := schedule.WriteTo(stdout); err != nil {
			return fmt.Errorf("cannot write schedule: %w", err)
		}
	} else {
		if err := schedule.WriteFile(outputFile); err != nil {
			return fmt.Errorf("cannot write output file: %w", err)
		}
		if schedule, err = model.ScheduleFromFile(outputFile, instance.Weeks, instance.Groups); err != nil {
			return fmt.Errorf("cannot read back output file: %w", err)
		}
	}

	//** Verify schedule correctness
	valid := scheduler.Verify(schedule, instance)
	recorder.ObserveValidation(valid)
	if outputFile != "" {
		if err := writeVerdict(outputFile+".check", valid); err != nil {
			return err
		}
	}
	if cfg.MetricsFile != "" {
		if err := recorder.WriteToTextfile(cfg.MetricsFile); err != nil {
			logger.Error(err, "cannot write metrics", "file", cfg.MetricsFile)
		}
	}

	if !valid {
		report := model.Inspect(schedule, instance.Weeks, instance.Groups, instance.Golfers(), instance.GroupSize)
		logger.Info("schedule is invalid", "check", report.Failed.String(), "reason", report.Reason)
		return &exitCodeError{code: exitInvalid, message: fmt.Sprintf("invalid schedule: %v", report.Reason)}
	}
	logger.Info("schedule is valid", "objective", schedule.Objective)
	return nil
}

func writeVerdict(file string, valid bool) error {
	verdict := "invalid\n"
	if valid {
		verdict = "valid\n"
	}
	if err := os.WriteFile(file, []byte(verdict), 0666); err != nil {
		return fmt.Errorf("cannot write validation file: %w", err)
	}
	return nil
}
