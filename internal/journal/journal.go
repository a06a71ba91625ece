package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"anbargar/internal/model"
)

// Entry records one successfully submitted movement event, keyed by the
// server-assigned event id. The journal lets receipts be regenerated offline
// and the receipt store be rebuilt.
type Entry struct {
	EventID     string              `json:"eventId"`
	SubmittedAt int64               `json:"submittedAt"`
	Event       model.MovementEvent `json:"event"`
}

// NewEntry wraps a submitted event.
func NewEntry(ev model.MovementEvent) Entry {
	return Entry{EventID: ev.ID, SubmittedAt: time.Now().UTC().Unix(), Event: ev}
}

type Writer interface {
	Append(e Entry) error
}

// MultiWriter fans out writes to multiple underlying writers.
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriter(ws ...Writer) *MultiWriter {
	return &MultiWriter{writers: ws}
}

func (m *MultiWriter) Append(e Entry) error {
	for _, w := range m.writers {
		if err := w.Append(e); err != nil {
			return err
		}
	}
	return nil
}

// FileWriter appends entries to a JSONL file.
type FileWriter struct {
	path string
}

func NewFileWriter(dir string, filename string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileWriter{path: filepath.Join(dir, filename)}, nil
}

func (w *FileWriter) Path() string { return w.path }

func (w *FileWriter) Append(e Entry) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(&e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// KafkaWriter mirrors entries to a Kafka topic. Pure-Go client
// (segmentio/kafka-go).
type KafkaWriter struct {
	writer kafkaMessageWriter
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter creates a Kafka writer.
// bootstrap can be a comma-separated list of host:port.
func NewKafkaWriter(bootstrap string, topic string) *KafkaWriter {
	addrs := strings.Split(bootstrap, ",")
	var brokers []string
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &KafkaWriter{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

func (k *KafkaWriter) Append(e Entry) error {
	b, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return k.writer.WriteMessages(
		context.Background(),
		kafka.Message{Key: []byte(e.EventID), Value: b},
	)
}

// NewKafkaWriterWith is only for tests to inject a fake writer.
func NewKafkaWriterWith(w kafkaMessageWriter) *KafkaWriter {
	return &KafkaWriter{writer: w}
}
