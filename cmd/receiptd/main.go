package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"anbargar/internal/journal"
	"anbargar/internal/logging"
	"anbargar/internal/metrics"
	"anbargar/internal/receipt"
	"anbargar/internal/receiptstore"

	ck "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/joho/godotenv"
)

// Config holds CLI flags for receiptd.
type Config struct {
	KafkaBootstrap string
	GroupID        string
	TopicEvents    string
	StoreBackend   string // slot|memory|pebble|badger
	StoreDir       string
	OutDir         string
	Kind           string // buyer|seller
	HTTPAddr       string
	Rebuild        bool
	JournalDir     string
	JournalFile    string
	MaxMessages    int
}

func main() {
	_ = godotenv.Load()
	cfg := readFlags()
	if err := run(cfg); err != nil {
		logging.LogError(logging.GetLogger(), "receiptd", "run", "", err)
		os.Exit(1)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.KafkaBootstrap, "kafka-bootstrap", os.Getenv("ANBARGAR_KAFKA_BOOTSTRAP"), "kafka bootstrap servers, e.g. localhost:9092")
	flag.StringVar(&cfg.GroupID, "group-id", "receiptd", "consumer group id")
	flag.StringVar(&cfg.TopicEvents, "topic-events", "anbargar.events.submitted", "kafka topic carrying submitted events")
	flag.StringVar(&cfg.StoreBackend, "store", "pebble", "receipt store backend: slot|memory|pebble|badger")
	flag.StringVar(&cfg.StoreDir, "store-dir", "./data/receiptd", "receipt store directory")
	flag.StringVar(&cfg.OutDir, "out", "./receipts-html", "directory for exported receipt pages")
	flag.StringVar(&cfg.Kind, "kind", "buyer", "receipt kind to compose: buyer|seller")
	flag.StringVar(&cfg.HTTPAddr, "http", ":8080", "listen address for /metrics and /healthz")
	flag.BoolVar(&cfg.Rebuild, "rebuild", false, "rebuild the store from the local journal before consuming")
	flag.StringVar(&cfg.JournalDir, "journal-dir", "./journal", "journal directory for rebuild")
	flag.StringVar(&cfg.JournalFile, "journal-file", "events.jsonl", "journal file name for rebuild")
	flag.IntVar(&cfg.MaxMessages, "max-messages", 0, "stop after N messages (0 = run until killed)")
	flag.Parse()
	return cfg
}

func run(cfg Config) error {
	log := logging.GetLogger()

	kind := receipt.KindBuyer
	if cfg.Kind == "seller" {
		kind = receipt.KindSeller
	}

	st, err := receiptstore.Open(cfg.StoreBackend, cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open receipt store: %w", err)
	}
	defer st.Close()

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	mreg := metrics.NewRegistry()
	go func() {
		http.Handle("/metrics", mreg.Handler())
		http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		})
		_ = http.ListenAndServe(cfg.HTTPAddr, nil)
	}()

	if cfg.Rebuild {
		path := filepath.Join(cfg.JournalDir, cfg.JournalFile)
		res, err := journal.Replay(path, func(e journal.Entry) error {
			return handleEntry(st, mreg, cfg.OutDir, kind, e)
		})
		if err != nil {
			return fmt.Errorf("replay journal: %w", err)
		}
		log.WithField("applied", res.Applied).
			WithField("skipped", res.Skipped).
			Info("store rebuilt from journal")
	}

	if cfg.KafkaBootstrap == "" {
		log.Info("no kafka bootstrap configured, exiting after rebuild")
		return nil
	}

	c, err := ck.NewConsumer(&ck.ConfigMap{
		"bootstrap.servers":  cfg.KafkaBootstrap,
		"group.id":           cfg.GroupID,
		"enable.auto.commit": false,
		"auto.offset.reset":  "earliest",
	})
	if err != nil {
		return fmt.Errorf("consumer: %w", err)
	}
	defer c.Close()
	if err := c.SubscribeTopics([]string{cfg.TopicEvents}, nil); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	log.WithField("topic", cfg.TopicEvents).Info("consuming submitted events")
	for n := 0; cfg.MaxMessages == 0 || n < cfg.MaxMessages; n++ {
		msg, err := c.ReadMessage(5 * time.Second)
		if err != nil {
			// no message within the timeout; keep polling
			continue
		}
		var e journal.Entry
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			logging.LogError(log, "receiptd", "run", string(msg.Value), err)
			if _, err := c.CommitMessage(msg); err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			continue
		}
		if err := handleEntry(st, mreg, cfg.OutDir, kind, e); err != nil {
			// leave the offset uncommitted so the entry is retried
			logging.LogError(log, "receiptd", "handleEntry", e.EventID, err)
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	return nil
}

// handleEntry composes the receipt for one journal entry, exports its page
// and stores it. Entries without an event id are skipped.
func handleEntry(st receiptstore.Store, mreg *metrics.Registry, outDir string, kind receipt.Kind, e journal.Entry) error {
	if e.EventID == "" {
		return nil
	}
	doc := receipt.Compose(&e.Event, kind)
	mreg.ReceiptsComposed.Inc()

	title := receipt.SuggestedTitle(&doc)
	page, err := receipt.ExportHTML(&doc, title)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, title+".html"), []byte(page), 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	if _, err := st.Save(title, page); err != nil {
		return fmt.Errorf("save receipt: %w", err)
	}
	mreg.ReceiptsStored.Inc()
	return nil
}
