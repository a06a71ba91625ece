package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"anbargar/internal/catalog"
	"anbargar/internal/model"

	"github.com/shopspring/decimal"
)

func main() {
	var (
		itemCount  int
		lineCount  int
		catalogDir string
		outputFile string
	)
	flag.IntVar(&itemCount, "items", 20, "number of catalog items to generate")
	flag.IntVar(&lineCount, "lines", 5, "number of entered lines in the draft")
	flag.StringVar(&catalogDir, "catalog-dir", "./catalog-cache", "catalog cache directory")
	flag.StringVar(&outputFile, "output", "draft.json", "draft output file")
	flag.Parse()

	if err := generate(itemCount, lineCount, catalogDir, outputFile); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

var itemNames = []string{
	"bolt", "washer", "nut", "screw", "hinge", "bracket", "clamp", "rivet",
	"gasket", "spring", "bearing", "pulley", "shaft", "coupling", "flange",
	"valve", "pipe", "elbow", "tee", "plug",
}

func generate(itemCount int, lineCount int, catalogDir string, outputFile string) error {
	rand.Seed(time.Now().UnixNano())

	if itemCount > len(itemNames) {
		itemCount = len(itemNames)
	}
	snap := catalog.Snapshot{
		Folders: []model.Folder{
			{ID: "f1", Name: "main warehouse"},
			{ID: "f2", Name: "backroom"},
		},
		Customers: []model.Customer{
			{ID: "c1", FirstName: "Sara", LastName: "Karimi", Phone: "0912000000", Address: "Tehran"},
			{ID: "c2", FirstName: "Omid", Phone: "0913000000"},
		},
	}
	for i := 0; i < itemCount; i++ {
		v := decimal.NewFromInt(int64(1000 + rand.Intn(9000)))
		item := model.CanonicalItem{
			ID:    fmt.Sprintf("i%d", i+1),
			Name:  itemNames[i],
			SKU:   fmt.Sprintf("SKU-%03d", i+1),
			Value: &v,
		}
		snap.Items = append(snap.Items, item)
	}

	id, err := catalog.WriteCache(catalogDir, snap)
	if err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	log.Printf("catalog cache written: snapshot=%s items=%d", id, len(snap.Items))

	draft := model.Draft{
		Type:        model.EventSell,
		Description: "generated sample",
		FolderID:    "f1",
		CustomerID:  "c1",
	}
	for i := 0; i < lineCount; i++ {
		it := snap.Items[rand.Intn(len(snap.Items))]
		q := decimal.NewFromInt(int64(1 + rand.Intn(5)))
		line := model.EnteredLine{Quantity: &q, Unit: "pcs"}
		// Mix explicit references with free-text names to exercise the
		// reconciliation paths.
		if i%2 == 0 {
			line.ItemRef = it.ID
			line.Name = it.Name
		} else {
			line.Name = " " + capitalize(it.Name) + " "
		}
		draft.Lines = append(draft.Lines, line)
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&draft); err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	log.Printf("draft written: %s lines=%d", outputFile, len(draft.Lines))
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
