package ziparchive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
)

// Separator is placed between the texts of consecutive archive entries.
const Separator = "\n\n=== NEXT DOCUMENT ===\n\n"

// Extractor walks a zip archive, runs the single-document extractor on every
// .pdf entry, and concatenates the successes in archive-entry order. A broken
// entry is skipped, never fatal; only zero successes is a failure.
type Extractor struct {
	single ports.TextExtractor
}

func New(single ports.TextExtractor) *Extractor {
	return &Extractor{single: single}
}

func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	var texts []string
	for _, entry := range reader.File {
		name := strings.ToLower(entry.Name)
		if entry.FileInfo().IsDir() || !strings.HasSuffix(name, ".pdf") {
			continue
		}

		raw, err := readEntry(entry)
		if err != nil {
			slog.Warn("archive_entry_skipped", "entry", entry.Name, "error", err)
			continue
		}

		text, err := e.single.Extract(ctx, raw)
		if err != nil {
			slog.Warn("archive_entry_skipped", "entry", entry.Name, "error", err)
			continue
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return "", errors.New("archive contains no extractable documents")
	}
	return strings.Join(texts, Separator), nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	return raw, nil
}
