package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"anbargar/internal/model"
)

// Snapshot is the on-disk form of a catalog load cycle.
type Snapshot struct {
	Items     []model.CanonicalItem `json:"items"`
	Folders   []model.Folder        `json:"folders"`
	Customers []model.Customer      `json:"customers"`
}

// Manifest points at the latest cached snapshot.
type Manifest struct {
	SnapshotID           string `json:"snapshotId"`
	Items                int    `json:"items"`
	Folders              int    `json:"folders"`
	Customers            int    `json:"customers"`
	CreatedAtEpochSecond int64  `json:"createdAt"`
}

// WriteCache persists the snapshot under baseDir/<id>/catalog.json and
// publishes baseDir/manifest.latest.json. The id is the write timestamp.
func WriteCache(baseDir string, snap Snapshot) (string, error) {
	id := time.Now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(filepath.Join(baseDir, id), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	out, err := os.Create(filepath.Join(baseDir, id, "catalog.json"))
	if err != nil {
		return "", fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&snap); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	m := Manifest{
		SnapshotID:           id,
		Items:                len(snap.Items),
		Folders:              len(snap.Folders),
		Customers:            len(snap.Customers),
		CreatedAtEpochSecond: time.Now().UTC().Unix(),
	}
	mf, err := os.Create(filepath.Join(baseDir, "manifest.latest.json"))
	if err != nil {
		return "", fmt.Errorf("create manifest: %w", err)
	}
	defer mf.Close()
	menc := json.NewEncoder(mf)
	menc.SetIndent("", "  ")
	if err := menc.Encode(&m); err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	return id, nil
}

// ReadManifest loads baseDir/manifest.latest.json.
func ReadManifest(baseDir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, "manifest.latest.json"))
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m, nil
}

// ReadCache loads the snapshot the manifest points at and builds an Index
// from it. Used for offline runs against the last refreshed catalog.
func ReadCache(baseDir string) (*Index, Manifest, error) {
	m, err := ReadManifest(baseDir)
	if err != nil {
		return nil, Manifest{}, err
	}
	data, err := os.ReadFile(filepath.Join(baseDir, m.SnapshotID, "catalog.json"))
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, Manifest{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return NewIndex(snap.Items, snap.Folders, snap.Customers), m, nil
}
