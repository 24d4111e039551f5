package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/kernel/memory"
	"github.com/uneda-cda/UNEDA-sub000/pkg/logging"
	"github.com/uneda-cda/UNEDA-sub000/pkg/metrics"
	"github.com/uneda-cda/UNEDA-sub000/pkg/tracing"
	"github.com/uneda-cda/UNEDA-sub000/rank"
)

func main() {
	config := LoadConfig()

	// Setup structured logging
	structured, err := logging.NewLogger(logging.Config{
		Level:  config.LogLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer func() { _ = structured.Sync() }()
	logger := structured.GetSlog()
	slog.SetDefault(logger)

	// Optional tracing
	var tracer *tracing.Tracer
	if config.JaegerEndpoint != "" {
		tracer, err = tracing.NewTracer(tracing.Config{
			ServiceName:    "beliefd",
			ServiceVersion: "1.0.0",
			JaegerEndpoint: config.JaegerEndpoint,
			Environment:    "production",
		})
		if err != nil {
			log.Fatalf("tracing setup failed: %v", err)
		}
		defer func() { _ = tracer.Shutdown(context.Background()) }()
	}

	// Load the decision problem into the in-memory kernel
	problem, err := memory.LoadProblem(config.ProblemFile)
	if err != nil {
		log.Fatalf("problem load failed: %v", err)
	}
	kernel, err := memory.New(problem)
	if err != nil {
		log.Fatalf("kernel setup failed: %v", err)
	}

	tuning, err := belief.LoadConfig(config.TuningFile)
	if err != nil {
		log.Fatalf("tuning load failed: %v", err)
	}

	// Wire components
	m := metrics.NewPrometheusMetrics()
	engine := belief.New(kernel,
		belief.WithLogger(logger),
		belief.WithMetrics(m),
		belief.WithConfig(tuning),
	)
	kernel.OnMutate(engine.Invalidate)
	ranker := rank.NewRanker(engine,
		rank.WithLogger(logger),
		rank.WithMetrics(m),
	)
	server := NewServer(kernel, engine, ranker, structured, tracer)

	// Setup HTTP routes
	mux := http.NewServeMux()
	mux.Handle("/evaluate", http.HandlerFunc(server.HandleEvaluate))
	mux.Handle("/mass", http.HandlerFunc(server.HandleMass))
	mux.Handle("/support", http.HandlerFunc(server.HandleSupport))
	mux.Handle("/rank", http.HandlerFunc(server.HandleRank))
	mux.Handle("/dominance", http.HandlerFunc(server.HandleDominance))
	mux.Handle("/mutate", http.HandlerFunc(server.HandleMutate))
	mux.Handle("/health", http.HandlerFunc(server.HandleHealth))
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("beliefd starting",
		"port", config.Port,
		"problem", config.ProblemFile,
		"alternatives", kernel.AlternativeCount(),
		"criteria", kernel.CriterionCount(),
	)
	log.Fatal(http.ListenAndServe(":"+config.Port, mux))
}
