// Command waterworks is the command-line front end for the network
// modeling core: it validates and converts model files, runs analyses
// through the engine boundary, and manages the snapshot library.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"waterworks/internal/config"
	"waterworks/internal/domain"
	"waterworks/internal/engine"
	"waterworks/internal/loader"
	"waterworks/internal/project"
	"waterworks/internal/repository"
	"waterworks/internal/repository/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "validate":
		err = runValidate(args)
	case "convert":
		err = runConvert(args)
	case "run":
		err = runAnalysis(ctx, cfg, args)
	case "library":
		err = runLibrary(ctx, cfg, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: waterworks <command> [arguments]

Commands:
  validate <model>            parse a model file and report diagnostics
  convert  <in> <out>         convert between model formats (.inp, .json)
  run      <model>            run an analysis and print final-step results
  library  <subcommand>       manage the snapshot library (save, load, list, runs, delete)
`)
}

func openModel(path string) (*domain.Network, error) {
	net, report, err := loader.Open(path)
	if err != nil {
		return nil, err
	}
	for _, lineErr := range report.Errors {
		log.Printf("import: %v", lineErr)
	}
	if !report.OK() {
		log.Printf("Import finished with %d line errors", len(report.Errors))
	}
	return net, nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected a model file")
	}

	net, err := openModel(fs.Arg(0))
	if err != nil {
		return err
	}

	diags := net.Validate()
	for _, d := range diags {
		fmt.Printf("%s: %s\n", d.Code, d.Message)
	}
	fmt.Printf("%d nodes, %d links, %d patterns, %d curves; %d advisory diagnostics\n",
		len(net.Nodes), len(net.Links), len(net.Patterns), len(net.Curves), len(diags))
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("expected input and output files")
	}

	net, err := openModel(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := loader.Save(net, fs.Arg(1)); err != nil {
		return err
	}
	log.Printf("Wrote %s", fs.Arg(1))
	return nil
}

func runAnalysis(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	keep := fs.Bool("keep-scratch", cfg.Engine.KeepScratch, "keep the engine scratch directory")
	record := fs.String("record", "", "record the run in the library under this snapshot name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected a model file")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Engine.Timeout.Duration())
	defer cancel()

	bus := project.NewEventBus()
	events := make(chan project.Event, 100)
	bus.Subscribe(events)
	go func() {
		for ev := range events {
			if ev.Type == project.EventRunProgress {
				log.Printf("progress: %v", ev.Payload)
			}
		}
	}()

	p := project.New(selectEngine(cfg), bus)
	if cfg.Engine.ScratchRoot != "" {
		p.SetScratchRoot(cfg.Engine.ScratchRoot)
	}
	p.SetKeepScratch(*keep)

	if _, err := p.Open(fs.Arg(0)); err != nil {
		return err
	}

	runErr := p.Run(ctx)
	if *record != "" {
		if recErr := recordRun(ctx, cfg, *record, p, runErr); recErr != nil {
			log.Printf("Failed to record run: %v", recErr)
		}
	}
	if runErr != nil {
		var engErr *engine.EngineError
		if errors.As(runErr, &engErr) {
			for _, line := range engErr.Lines {
				log.Printf("engine: %s", line)
			}
		}
		return runErr
	}

	printResults(p.Network())
	return nil
}

func recordRun(ctx context.Context, cfg *config.Config, name string, p *project.Project, runErr error) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveNetwork(ctx, name, p.Network()); err != nil {
		return err
	}
	rec := repository.RunRecord{
		Snapshot:  name,
		Engine:    "stub",
		Succeeded: runErr == nil,
		StartedAt: time.Now().UTC(),
	}
	if runErr != nil {
		rec.Diagnostic = runErr.Error()
	} else if res := p.Results(); res != nil {
		rec.Steps = res.Steps()
	}
	return store.RecordRun(ctx, rec)
}

func selectEngine(cfg *config.Config) engine.Engine {
	if cfg.Engine.Command != "" {
		log.Printf("External solver configured (%s) but not installed in this build; using stub", cfg.Engine.Command)
	}
	return &engine.StubEngine{}
}

func printResults(net *domain.Network) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tDEMAND\tHEAD\tPRESSURE\tQUALITY")
	for _, id := range sortedKeys(net.Nodes) {
		r := net.Nodes[id].Results
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\n", id, r.Demand, r.Head, r.Pressure, r.Quality)
	}
	fmt.Fprintln(w, "\nLINK\tFLOW\tVELOCITY\tHEADLOSS\tQUALITY")
	for _, id := range sortedKeys(net.Links) {
		r := net.Links[id].Results
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\n", id, r.Flow, r.Velocity, r.Headloss, r.Quality)
	}
	w.Flush()
}

func runLibrary(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("expected subcommand: save, load, list, runs, delete")
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer store.Close()

	sub, rest := args[0], args[1:]
	switch sub {
	case "save":
		if len(rest) != 2 {
			return fmt.Errorf("usage: library save <name> <model>")
		}
		net, err := openModel(rest[1])
		if err != nil {
			return err
		}
		if err := store.SaveNetwork(ctx, rest[0], net); err != nil {
			return err
		}
		log.Printf("Saved snapshot %q from %s", rest[0], rest[1])
		return nil

	case "load":
		if len(rest) != 2 {
			return fmt.Errorf("usage: library load <name> <out-file>")
		}
		net, err := store.LoadNetwork(ctx, rest[0])
		if err != nil {
			return err
		}
		return loader.Save(net, rest[1])

	case "list":
		sums, err := store.ListNetworks(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tUNITS\tNODES\tLINKS\tUPDATED")
		for _, s := range sums {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", s.Name, s.FlowUnits, s.Nodes, s.Links,
				s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()

	case "runs":
		if len(rest) != 1 {
			return fmt.Errorf("usage: library runs <name>")
		}
		recs, err := store.ListRuns(ctx, rest[0])
		if err != nil {
			return err
		}
		for _, rec := range recs {
			printRun(rec)
		}
		return nil

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: library delete <name>")
		}
		return store.DeleteNetwork(ctx, rest[0])
	}
	return fmt.Errorf("unknown library subcommand %q", sub)
}

func printRun(rec repository.RunRecord) {
	status := "ok"
	if !rec.Succeeded {
		status = "failed"
	}
	fmt.Printf("%s  %s  engine=%s steps=%d %s\n",
		rec.StartedAt.Format("2006-01-02 15:04:05"), status, rec.Engine, rec.Steps, rec.Diagnostic)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
