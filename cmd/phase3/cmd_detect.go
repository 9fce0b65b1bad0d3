package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/phase3/internal/adapters/dataset"
	"github.com/okian/phase3/internal/adapters/mq/queue"
	"github.com/okian/phase3/internal/adapters/sink"
	"github.com/okian/phase3/internal/config"
	"github.com/okian/phase3/internal/domain/analytics"
	"github.com/okian/phase3/internal/domain/detect"
	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/pkg/logger"
	"github.com/okian/phase3/pkg/metrics"
)

// HTTP server timeouts for the optional metrics listener.
const (
	metricsReadTimeout       = 5 * time.Second
	metricsReadHeaderTimeout = 2 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
)

var detectFlags struct {
	awards      string
	contracts   string
	patents     string
	preset      string
	configPath  string
	out         string
	profiles    string
	summary     string
	prior       string
	resumeAfter int
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run transition detection over an award/contract dataset",
	RunE:  runDetect,
}

func init() {
	f := detectCmd.Flags()
	f.StringVar(&detectFlags.awards, "awards", "", "path to awards JSON (required)")
	f.StringVar(&detectFlags.contracts, "contracts", "", "path to contracts JSON (required)")
	f.StringVar(&detectFlags.patents, "patents", "", "path to patents JSON (optional)")
	f.StringVar(&detectFlags.preset, "preset", config.PresetBalanced, "scoring preset")
	f.StringVar(&detectFlags.configPath, "config", "", "YAML config overriding the preset")
	f.StringVar(&detectFlags.out, "out", "transitions.jsonl", "output transitions JSONL")
	f.StringVar(&detectFlags.profiles, "profiles", "profiles.json", "output company profiles JSON")
	f.StringVar(&detectFlags.summary, "summary", "run-summary.yaml", "output run summary YAML")
	f.StringVar(&detectFlags.prior, "prior", "", "previous run's transitions JSONL, preserves detection timestamps")
	f.IntVar(&detectFlags.resumeAfter, "resume-after", -1, "resume after this completed batch index")
	_ = detectCmd.MarkFlagRequired("awards")
	_ = detectCmd.MarkFlagRequired("contracts")
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(detectFlags.preset, detectFlags.configPath)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	log := logger.Named("detect-cmd")

	awards, err := dataset.LoadAwards(detectFlags.awards)
	if err != nil {
		return err
	}
	contracts, err := dataset.LoadContracts(detectFlags.contracts)
	if err != nil {
		return err
	}
	patents, err := dataset.LoadPatents(detectFlags.patents)
	if err != nil {
		return err
	}

	var prior []model.Transition
	if detectFlags.prior != "" {
		f, err := os.Open(detectFlags.prior)
		if err != nil {
			return fmt.Errorf("open prior transitions: %w", err)
		}
		prior, err = sink.ReadJSONL(f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}

	if cfg.MetricsAddr != "" {
		stopMetrics := startMetricsServer(ctx, cfg.MetricsAddr, log)
		defer stopMetrics()
	}

	detector := detect.New(cfg, patents, detect.WithPriorTransitions(prior))
	store := sink.NewMemoryStore(
		sink.WithPrior(prior),
		sink.WithCheckpoint(detectFlags.resumeAfter),
	)
	runner := detect.NewRunner(detector, store,
		detect.WithWorkerCount(cfg.WorkerCount),
		detect.WithBatchSize(cfg.BatchSize),
		detect.WithQueue(queue.NewInMemoryQueue(queue.WithCapacity(cfg.QueueSize))),
	)

	summary, runErr := runner.Run(ctx, awards, contracts)
	// Even an interrupted run flushes completed batches and the summary so
	// the operator can resume from the recorded checkpoint.
	transitions := store.Transitions(ctx)
	if err := writeOutputs(transitions, awards, detector, summary); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	log.Info(ctx, "outputs written",
		logger.String("transitions", detectFlags.out),
		logger.String("profiles", detectFlags.profiles),
		logger.String("summary", detectFlags.summary),
	)
	return nil
}

func writeOutputs(transitions []model.Transition, awards []model.Award, detector *detect.Detector, summary detect.Summary) error {
	out, err := os.Create(detectFlags.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	if err := sink.WriteJSONL(out, transitions); err != nil {
		return err
	}

	profiles := analytics.BuildProfiles(awards, transitions, detector.CompanyKey)
	pf, err := os.Create(detectFlags.profiles)
	if err != nil {
		return fmt.Errorf("create profiles output: %w", err)
	}
	defer pf.Close()
	if err := sink.WriteProfiles(pf, profiles); err != nil {
		return err
	}

	raw, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(detectFlags.summary, raw, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// startMetricsServer exposes /metrics and /healthz while the run executes.
func startMetricsServer(ctx context.Context, addr string, log logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       metricsReadTimeout,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "metrics listener started", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "metrics listener failed", logger.Error(err))
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
