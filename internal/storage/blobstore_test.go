package storage

import (
	"strings"
	"testing"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestWritePDFReturnsStoredSize(t *testing.T) {
	store := newStore(t)
	body := "%PDF-1.4 content"

	n, err := store.WritePDF("a.pdf", strings.NewReader(body))
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if n != int64(len(body)) {
		t.Errorf("expected %d bytes written, got %d", len(body), n)
	}

	data, err := store.ReadPDF("a.pdf")
	if err != nil {
		t.Fatalf("ReadPDF: %v", err)
	}
	if string(data) != body {
		t.Errorf("roundtrip mismatch: %q", data)
	}
}

func TestTextRoundtrip(t *testing.T) {
	store := newStore(t)
	text := "extracted text with unicode: žluťoučký kůň"

	if err := store.WriteText("a.txt", text); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got, err := store.ReadText("a.txt")
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != text {
		t.Errorf("roundtrip mismatch: %q", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newStore(t)

	if err := store.RemovePDF("never-existed.pdf"); err != nil {
		t.Errorf("RemovePDF on missing blob: %v", err)
	}
	if err := store.RemoveText("never-existed.txt"); err != nil {
		t.Errorf("RemoveText on missing blob: %v", err)
	}

	if _, err := store.WritePDF("a.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if err := store.RemovePDF("a.pdf"); err != nil {
		t.Fatalf("RemovePDF: %v", err)
	}
	if err := store.RemovePDF("a.pdf"); err != nil {
		t.Errorf("second RemovePDF: %v", err)
	}
}

func TestListTextsStripsCompressionSuffix(t *testing.T) {
	store := newStore(t)
	if err := store.WriteText("stem_1.txt", "one"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if err := store.WriteText("stem_2.txt", "two"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	blobs, err := store.ListTexts()
	if err != nil {
		t.Fatalf("ListTexts: %v", err)
	}
	if len(blobs) != 2 {
		t.Fatalf("expected 2 blobs, got %d", len(blobs))
	}
	for _, blob := range blobs {
		if strings.HasSuffix(blob.Key, ".gz") {
			t.Errorf("key %q leaks the compression suffix", blob.Key)
		}
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store := newStore(t)
	for _, key := range []string{"", "../escape.pdf", "a/b.pdf", ".hidden"} {
		if _, err := store.WritePDF(key, strings.NewReader("x")); err == nil {
			t.Errorf("WritePDF accepted invalid key %q", key)
		}
		if err := store.WriteText(key, "x"); err == nil {
			t.Errorf("WriteText accepted invalid key %q", key)
		}
	}
}
