package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anbargar/internal/client"
	"anbargar/internal/journal"
	"anbargar/internal/logging"
	"anbargar/internal/model"
	"anbargar/internal/receipt"
	"anbargar/internal/receiptstore"

	"github.com/joho/godotenv"
)

// Config holds CLI flags for receipt.
type Config struct {
	Action       string // compose|list|show|delete
	EventID      string
	Kind         string // buyer|seller
	APIBase      string
	Token        string
	Offline      bool
	JournalDir   string
	JournalFile  string
	OutDir       string
	XLSX         bool
	Save         bool
	StoreBackend string
	StoreDir     string
	ReceiptID    string
	Title        string
}

func main() {
	_ = godotenv.Load()
	cfg := readFlags()
	if err := run(cfg); err != nil {
		logging.LogError(logging.GetLogger(), "receipt", "run", cfg.Action, err)
		os.Exit(1)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Action, "action", "compose", "action: compose|list|show|delete")
	flag.StringVar(&cfg.EventID, "event", "", "event id to compose a receipt for")
	flag.StringVar(&cfg.Kind, "kind", "buyer", "receipt kind: buyer|seller")
	flag.StringVar(&cfg.APIBase, "api", os.Getenv("ANBARGAR_API_BASE"), "data service base URL")
	flag.StringVar(&cfg.Token, "token", os.Getenv("ANBARGAR_API_TOKEN"), "bearer token")
	flag.BoolVar(&cfg.Offline, "offline", false, "resolve the event from the local journal instead of the API")
	flag.StringVar(&cfg.JournalDir, "journal-dir", "./journal", "journal directory")
	flag.StringVar(&cfg.JournalFile, "journal-file", "events.jsonl", "journal file name")
	flag.StringVar(&cfg.OutDir, "out", ".", "output directory for exported files")
	flag.BoolVar(&cfg.XLSX, "xlsx", false, "also export an xlsx workbook")
	flag.BoolVar(&cfg.Save, "save", false, "save the composed receipt to the local store")
	flag.StringVar(&cfg.StoreBackend, "store", "slot", "receipt store backend: slot|memory|pebble|badger")
	flag.StringVar(&cfg.StoreDir, "store-dir", "./receipts", "receipt store directory")
	flag.StringVar(&cfg.ReceiptID, "id", "", "stored receipt id for show/delete")
	flag.StringVar(&cfg.Title, "title", "", "title override for the saved receipt")
	flag.Parse()
	return cfg
}

func run(cfg Config) error {
	switch cfg.Action {
	case "compose":
		return runCompose(cfg)
	case "list":
		return runList(cfg)
	case "show":
		return runShow(cfg)
	case "delete":
		return runDelete(cfg)
	default:
		return fmt.Errorf("unknown action %q", cfg.Action)
	}
}

func parseKind(s string) (receipt.Kind, error) {
	switch strings.ToLower(s) {
	case "buyer":
		return receipt.KindBuyer, nil
	case "seller":
		return receipt.KindSeller, nil
	default:
		return "", fmt.Errorf("unknown receipt kind %q", s)
	}
}

func runCompose(cfg Config) error {
	if cfg.EventID == "" {
		return errors.New("compose requires -event")
	}
	kind, err := parseKind(cfg.Kind)
	if err != nil {
		return err
	}

	ev, err := resolveEvent(cfg)
	if err != nil {
		return err
	}

	doc := receipt.Compose(ev, kind)
	title := cfg.Title
	if title == "" {
		title = receipt.SuggestedTitle(&doc)
	}

	page, err := receipt.ExportHTML(&doc, title)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	htmlPath := filepath.Join(cfg.OutDir, title+".html")
	if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	fmt.Println(htmlPath)

	if cfg.XLSX {
		xlsxPath := filepath.Join(cfg.OutDir, title+".xlsx")
		if err := receipt.ExportXLSX(&doc, xlsxPath); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		fmt.Println(xlsxPath)
	}

	if cfg.Save {
		st, err := receiptstore.Open(cfg.StoreBackend, cfg.StoreDir)
		if err != nil {
			return fmt.Errorf("open receipt store: %w", err)
		}
		defer st.Close()
		id, err := st.Save(title, page)
		if err != nil {
			return fmt.Errorf("save receipt: %w", err)
		}
		logging.GetLogger().WithField("receiptId", id).Info("receipt saved")
	}
	return nil
}

// resolveEvent locates the event either via the API (preferring the detail
// endpoint, degrading to the summary) or from the local journal.
func resolveEvent(cfg Config) (*model.MovementEvent, error) {
	if cfg.Offline {
		e, ok, err := journal.Find(filepath.Join(cfg.JournalDir, cfg.JournalFile), cfg.EventID)
		if err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		if !ok {
			return nil, client.ErrEventNotFound
		}
		return &e.Event, nil
	}

	ctx := context.Background()
	api := client.New(cfg.APIBase, cfg.Token)
	events, err := api.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for i := range events {
		if events[i].ID == cfg.EventID {
			return api.EventWithDetail(ctx, &events[i]), nil
		}
	}
	return nil, client.ErrEventNotFound
}

func runList(cfg Config) error {
	st, err := receiptstore.Open(cfg.StoreBackend, cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open receipt store: %w", err)
	}
	defer st.Close()
	recs, err := st.List()
	if err != nil {
		return fmt.Errorf("list receipts: %w", err)
	}
	for _, r := range recs {
		fmt.Printf("%s\t%s\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Title)
	}
	return nil
}

func runShow(cfg Config) error {
	if cfg.ReceiptID == "" {
		return errors.New("show requires -id")
	}
	st, err := receiptstore.Open(cfg.StoreBackend, cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open receipt store: %w", err)
	}
	defer st.Close()
	rec, err := st.Get(cfg.ReceiptID)
	if err != nil {
		return err
	}
	fmt.Print(rec.Document)
	return nil
}

func runDelete(cfg Config) error {
	if cfg.ReceiptID == "" {
		return errors.New("delete requires -id")
	}
	st, err := receiptstore.Open(cfg.StoreBackend, cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open receipt store: %w", err)
	}
	defer st.Close()
	return st.Delete(cfg.ReceiptID)
}
