// Shared helpers for casekeeper CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/lexhaus/casekeeper/internal/coordinator"
	"github.com/lexhaus/casekeeper/internal/foldertree"
	"github.com/lexhaus/casekeeper/internal/metastore"
	"github.com/lexhaus/casekeeper/internal/tabular"
	"github.com/lexhaus/casekeeper/pkg/types"
)

// engine bundles the stores and the coordinator for one command run.
// The caller must defer close().
type engine struct {
	store     *metastore.Store
	tree      *foldertree.Tree
	exporter  *tabular.CSVExporter
	coord     *coordinator.Coordinator
	exportDir string
	logger    *zap.Logger
}

// openEngine resolves directories, opens the configured metadata medium
// and wires the coordinator. Returns an error suitable for the CLI.
func openEngine() (*engine, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	medium, err := metastore.OpenMedium(cfg.GetString(cfgKeyBackend), dataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	store := metastore.New(medium, logger)
	if err := store.Load(); err != nil {
		medium.Close()
		return nil, fmt.Errorf("load cases: %w", err)
	}

	baseDir := cfg.GetString(cfgKeyBaseDir)
	if baseDir == "" {
		baseDir = filepath.Join(dataDir, "cases")
	}
	exportDir := cfg.GetString(cfgKeyExportDir)
	if exportDir == "" {
		exportDir = filepath.Join(dataDir, "exports")
	}

	tree := foldertree.New(baseDir, cfg.GetStringMapString(cfgKeyTypeFolders), logger)
	exporter := tabular.New(exportDir, logger)

	coord := coordinator.New(coordinator.Options{
		Store:    store,
		Folders:  tree,
		Exporter: exporter,
		DataDir:  dataDir,
		Logger:   logger,
	})

	return &engine{
		store:     store,
		tree:      tree,
		exporter:  exporter,
		coord:     coord,
		exportDir: exportDir,
		logger:    logger,
	}, nil
}

func (e *engine) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close backend", zap.Error(err))
	}
	e.logger.Sync()
}

// newLogger builds the CLI logger. Quiet by default; --verbose switches
// to a development logger on stderr.
func newLogger() (*zap.Logger, error) {
	if !flagVerbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// fail prints a message to stderr and exits with the given code.
func fail(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail(exitSysError, "marshal JSON: %s", err)
	}
	fmt.Println(string(out))
}

// finishReport renders a saga report and exits non-zero when the
// authoritative step failed. Mirror failures print as warnings but keep
// the zero exit code.
func finishReport(report types.Report) {
	if flagJSON {
		printJSON(report)
		if !report.OK {
			os.Exit(exitUserError)
		}
		return
	}

	if !report.OK {
		fail(exitUserError, "failed: %s", report.Message())
	}
	fmt.Println(report.Message())
	if !report.Clean() {
		fmt.Fprintln(os.Stderr, "warning: some mirror steps failed; the metadata change stands")
	}
}

// printRecord renders one case record.
func printRecord(rec *types.CaseRecord) {
	if flagJSON {
		printJSON(rec)
		return
	}

	fmt.Printf("%s [%s] %s\n", rec.CaseID, rec.CaseType, rec.Client)
	printField("lawyer", rec.Lawyer)
	printField("legal affairs", rec.LegalAffairs)
	printField("court", rec.Court)
	printField("division", rec.Division)
	printField("reason", rec.CaseReason)
	printField("number", rec.CaseNumber)
	printField("opposing party", rec.OpposingParty)
	fmt.Printf("  progress: %s", rec.Progress)
	if rec.ProgressDate != "" {
		fmt.Printf(" (%s)", rec.ProgressDate)
	}
	fmt.Println()
	for _, entry := range rec.OrderedStages() {
		line := "  stage: " + entry.Stage
		if entry.Date != "" {
			line += " " + entry.Date
		}
		if t := rec.StageTime(entry.Stage); t != "" {
			line += " " + t
		}
		if n := rec.StageNote(entry.Stage); n != "" {
			line += " [" + n + "]"
		}
		fmt.Println(line)
	}
}

func printField(name, value string) {
	if value != "" {
		fmt.Printf("  %s: %s\n", name, value)
	}
}

// printRecords renders a record list, one summary line per case.
func printRecords(records []*types.CaseRecord) {
	if flagJSON {
		printJSON(records)
		return
	}
	for _, rec := range records {
		fmt.Printf("%s\t%s\t%s\t%s\n", rec.CaseID, rec.CaseType, rec.Client, rec.Progress)
	}
	fmt.Printf("%d case(s)\n", len(records))
}

// sortedKeys returns the map keys in lexicographic order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mustEngine opens the engine or exits with a system error.
func mustEngine() *engine {
	eng, err := openEngine()
	if err != nil {
		fail(exitSysError, "%s", err)
	}
	return eng
}
