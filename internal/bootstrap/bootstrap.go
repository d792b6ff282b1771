// Package bootstrap builds the shared extraction components from configuration.
package bootstrap

import (
	"fmt"
	"log"
	"time"

	"taxextract/internal/analyzer"
	"taxextract/internal/analyzer/docintel"
	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/formmap"
	"taxextract/internal/notify/noop"
	"taxextract/internal/notify/ses"
	"taxextract/internal/port"
	"taxextract/internal/resilience"
)

// Models builds the form type mapping, merging the model map file when set.
func Models(cfg *config.AnalyzerConfig) (*formmap.Mapping, error) {
	m := formmap.New(cfg.FallbackModel, cfg.CustomFormTypes, cfg.CustomModel)
	if cfg.ModelMapFile != "" {
		if err := m.LoadFile(cfg.ModelMapFile); err != nil {
			return nil, err
		}
		log.Printf("bootstrap.Models: merged model map %s", cfg.ModelMapFile)
	}
	return m, nil
}

// Analyzers builds the prebuilt analyzer and, when configured, the custom
// one. Both share one executor so each model gets its own breaker.
func Analyzers(cfg *config.AnalyzerConfig, rc *config.ResilienceConfig) (*analyzer.Selector, error) {
	exec := resilience.NewExecutor(resilience.FromConfig(rc))

	prebuilt, err := docintel.FromConfig(cfg, domain.AnalyzerPrebuilt)
	if err != nil {
		return nil, err
	}

	var custom port.DocumentAnalyzer
	if cfg.HasCustom() {
		client, err := docintel.FromConfig(cfg, domain.AnalyzerCustom)
		if err != nil {
			return nil, err
		}
		custom = analyzer.NewResilient(client, exec, string(domain.AnalyzerCustom))
	} else {
		log.Printf("bootstrap.Analyzers: no custom resource configured; custom form types will fail")
	}

	return analyzer.NewSelector(analyzer.NewResilient(prebuilt, exec, string(domain.AnalyzerPrebuilt)), custom), nil
}

// jobSlack covers storage presigning and the database write around analysis.
const jobSlack = time.Minute

// JobTimeout bounds one queued extraction: every analysis attempt the
// resilience policy allows, its backoff waits, and the surrounding work.
func JobTimeout(cfg *config.AnalyzerConfig, rc *config.ResilienceConfig) time.Duration {
	perAttempt := time.Duration(cfg.TimeoutSecs) * time.Second
	if perAttempt <= 0 {
		perAttempt = docintel.DefaultTimeout
	}
	return resilience.FromConfig(rc).Budget(perAttempt) + jobSlack
}

// Notifier returns the job notifier for cfg.Provider.
func Notifier(cfg *config.NotifyConfig) (port.Notifier, error) {
	switch cfg.Provider {
	case "", "noop":
		return noop.NewNoopNotifier(), nil
	case "ses":
		return ses.NewSESNotifier(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.Recipients)
	default:
		return nil, fmt.Errorf("unknown notify provider: %q", cfg.Provider)
	}
}
