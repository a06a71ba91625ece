package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"anbargar/internal/catalog"
	"anbargar/internal/client"
	"anbargar/internal/journal"
	"anbargar/internal/logging"
	"anbargar/internal/metrics"
	"anbargar/internal/model"
	"anbargar/internal/reconcile"
	"anbargar/internal/validate"

	"github.com/joho/godotenv"
)

// Config holds CLI flags for submit.
type Config struct {
	DraftFile      string
	APIBase        string
	Token          string
	CatalogSource  string // api|cache
	CatalogDir     string
	JournalDir     string
	JournalFile    string
	KafkaBootstrap string
	TopicEvents    string
	DryRun         bool
	MetricsAddr    string
}

func main() {
	_ = godotenv.Load()
	cfg := readFlags()
	if err := run(cfg); err != nil {
		logging.LogError(logging.GetLogger(), "submit", "run", cfg.DraftFile, err)
		os.Exit(1)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.DraftFile, "draft", "draft.json", "draft event file")
	flag.StringVar(&cfg.APIBase, "api", os.Getenv("ANBARGAR_API_BASE"), "data service base URL")
	flag.StringVar(&cfg.Token, "token", os.Getenv("ANBARGAR_API_TOKEN"), "bearer token (session bootstrap when empty)")
	flag.StringVar(&cfg.CatalogSource, "catalog-source", "api", "catalog source: api|cache")
	flag.StringVar(&cfg.CatalogDir, "catalog-dir", "./catalog-cache", "catalog cache directory")
	flag.StringVar(&cfg.JournalDir, "journal-dir", "./journal", "journal directory")
	flag.StringVar(&cfg.JournalFile, "journal-file", "events.jsonl", "journal file name")
	flag.StringVar(&cfg.KafkaBootstrap, "kafka-bootstrap", "", "kafka bootstrap servers for the journal mirror")
	flag.StringVar(&cfg.TopicEvents, "topic-events", "anbargar.events.submitted", "kafka topic for submitted events")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "reconcile and validate only, do not submit")
	flag.StringVar(&cfg.MetricsAddr, "metrics", "", "expose /metrics on this address (empty = off)")
	flag.Parse()
	return cfg
}

func run(cfg Config) error {
	log := logging.GetLogger()
	ctx := context.Background()

	mreg := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", mreg.Handler())
			_ = http.ListenAndServe(cfg.MetricsAddr, nil)
		}()
	}

	draft, err := readDraft(cfg.DraftFile)
	if err != nil {
		return err
	}

	api := client.New(cfg.APIBase, cfg.Token)
	idx, err := loadCatalog(ctx, cfg, api)
	if err != nil {
		return err
	}

	ev := buildEvent(draft, idx)
	res := reconcile.Reconcile(draft.Lines, idx, draft.Type)
	ev.Lines = res.Lines
	mreg.LinesReconciled.Add(float64(len(res.Lines)))
	mreg.LinesUnresolved.Add(float64(len(res.Unresolved)))

	violations := validate.Validate(ev, res.Unresolved)
	if len(violations) > 0 {
		mreg.ValidationFailures.Inc()
		fmt.Fprintf(os.Stderr, "event rejected with %d violation(s):\n", len(violations))
		for i, v := range violations {
			fmt.Fprintf(os.Stderr, "%d. %s\n", i+1, v)
		}
		for name, candidates := range res.Ambiguous {
			fmt.Fprintf(os.Stderr, "ambiguous name %q matches items: %v\n", name, candidates)
		}
		return errors.New("validation failed")
	}

	if cfg.DryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	}

	t0 := time.Now()
	created, err := api.SubmitEvent(ctx, ev)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("submission rejected: %s", apiErr.Detail)
		}
		return fmt.Errorf("submit event: %w", err)
	}
	mreg.EventsSubmitted.Inc()
	mreg.SubmitLatencySec.Observe(time.Since(t0).Seconds())
	log.WithField("eventId", created.ID).
		WithField("elapsed", time.Since(t0).String()).
		Info("event submitted")

	if err := appendJournal(cfg, created); err != nil {
		// The event is already accepted server-side; a journal failure is
		// surfaced but does not undo the submission.
		logging.LogError(log, "submit", "appendJournal", created.ID, err)
	} else {
		mreg.JournalAppended.Inc()
	}
	fmt.Println(created.ID)
	return nil
}

func readDraft(path string) (*model.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var d model.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

func loadCatalog(ctx context.Context, cfg Config, api *client.Client) (*catalog.Index, error) {
	if cfg.CatalogSource == "cache" {
		idx, m, err := catalog.ReadCache(cfg.CatalogDir)
		if err != nil {
			return nil, fmt.Errorf("read catalog cache: %w", err)
		}
		logging.GetLogger().WithField("snapshotId", m.SnapshotID).Info("catalog loaded from cache")
		return idx, nil
	}

	if cfg.Token == "" {
		token, err := api.SessionToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("session token: %w", err)
		}
		api.SetToken(token)
	}
	snap, err := api.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if id, err := catalog.WriteCache(cfg.CatalogDir, snap); err != nil {
		logging.LogError(logging.GetLogger(), "submit", "loadCatalog", id, err)
	}
	return catalog.NewIndex(snap.Items, snap.Folders, snap.Customers), nil
}

// buildEvent maps the draft onto a candidate event, resolving the customer
// snapshot from the catalog when only an id was given.
func buildEvent(d *model.Draft, idx *catalog.Index) *model.MovementEvent {
	ev := &model.MovementEvent{
		Type:                d.Type,
		Description:         d.Description,
		FolderID:            d.FolderID,
		OriginFolderID:      d.OriginFolderID,
		DestinationFolderID: d.DestinationFolderID,
		CustomerName:        d.CustomerName,
		CustomerPhone:       d.CustomerPhone,
		CustomerAddress:     d.CustomerAddress,
	}
	if d.CustomerID != "" {
		if c, ok := idx.CustomerByID(d.CustomerID); ok {
			if ev.CustomerName == "" {
				ev.CustomerName = c.FullName()
			}
			if ev.CustomerPhone == "" {
				ev.CustomerPhone = c.Phone
			}
			if ev.CustomerAddress == "" {
				ev.CustomerAddress = c.Address
			}
		}
	}
	return ev
}

func appendJournal(cfg Config, created *model.MovementEvent) error {
	fw, err := journal.NewFileWriter(cfg.JournalDir, cfg.JournalFile)
	if err != nil {
		return fmt.Errorf("init journal: %w", err)
	}
	var w journal.Writer = fw
	if cfg.KafkaBootstrap != "" {
		kw := journal.NewKafkaWriter(cfg.KafkaBootstrap, cfg.TopicEvents)
		w = journal.NewMultiWriter(fw, kw)
	}
	if err := w.Append(journal.NewEntry(*created)); err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}
