package ziparchive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// stubSingle maps entry bytes straight to text so archive behavior can be
// tested without real documents.
type stubSingle struct{}

func (stubSingle) Extract(_ context.Context, data []byte) (string, error) {
	content := string(data)
	if strings.Contains(content, "corrupt") {
		return "", errors.New("malformed document")
	}
	return content, nil
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractJoinsEntriesWithSeparator(t *testing.T) {
	data := buildZip(t, map[string]string{
		"a.pdf": "first text",
		"b.pdf": "second text",
	})

	text, err := New(stubSingle{}).Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !strings.Contains(text, Separator) {
		t.Errorf("result %q missing separator", text)
	}
	parts := strings.Split(text, Separator)
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	for _, want := range []string{"first text", "second text"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing entry text %q", want)
		}
	}
}

func TestExtractSkipsBrokenEntries(t *testing.T) {
	data := buildZip(t, map[string]string{
		"good1.pdf":  "alpha",
		"broken.pdf": "corrupt bytes",
		"good2.pdf":  "omega",
	})

	text, err := New(stubSingle{}).Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v, broken entry must not be fatal", err)
	}

	if strings.Contains(text, "corrupt") {
		t.Errorf("result %q contains text from the broken entry", text)
	}
	if parts := strings.Split(text, Separator); len(parts) != 2 {
		t.Errorf("got %d parts, want 2 surviving entries", len(parts))
	}
}

func TestExtractIgnoresNonPDFEntries(t *testing.T) {
	data := buildZip(t, map[string]string{
		"paper.pdf":  "the paper",
		"notes.txt":  "ignored",
		"image.jpeg": "ignored",
	})

	text, err := New(stubSingle{}).Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "the paper" {
		t.Errorf("Extract() = %q, want only the pdf entry", text)
	}
}

func TestExtractFailsWhenNothingUsable(t *testing.T) {
	for name, entries := range map[string]map[string]string{
		"empty archive":      {},
		"no pdf entries":     {"readme.txt": "hello"},
		"all entries broken": {"a.pdf": "corrupt", "b.pdf": "corrupt"},
	} {
		data := buildZip(t, entries)
		if _, err := New(stubSingle{}).Extract(context.Background(), data); err == nil {
			t.Errorf("%s: Extract() error = nil, want failure", name)
		}
	}
}

func TestExtractRejectsNonArchiveBytes(t *testing.T) {
	if _, err := New(stubSingle{}).Extract(context.Background(), []byte("not a zip")); err == nil {
		t.Error("Extract() error = nil, want failure for malformed archive")
	}
}
