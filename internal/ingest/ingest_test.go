package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.pdf"), "pdf")
	writeFile(t, filepath.Join(root, "a.TXT"), "Nom de la societe")
	writeFile(t, filepath.Join(root, "sub", "c.png"), "png")
	writeFile(t, filepath.Join(root, "notes.docx"), "skip")
	writeFile(t, filepath.Join(root, ".cache", "d.pdf"), "hidden")
	writeFile(t, filepath.Join(root, ".e.pdf"), "hidden")

	docs, failed, stats, err := ScanDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if len(failed) != 0 {
		t.Errorf("failed = %v", failed)
	}

	var got []string
	for _, d := range docs {
		rel, _ := filepath.Rel(root, d.Path)
		got = append(got, rel+":"+d.Format)
	}
	want := []string{
		"a.TXT:" + constants.FormatText,
		"b.pdf:" + constants.FormatPDF,
		filepath.Join("sub", "c.png") + ":" + constants.FormatImage,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
	if stats.Matched != 3 || stats.Opened != 3 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}

	// sha256("pdf")
	if docs[1].HashHex != "c35b21d6ca39aa7cc3b79a705d989f1a6e88b99ab43988d74048799e3db926a3" {
		t.Errorf("HashHex = %q", docs[1].HashHex)
	}
	if docs[0].ID == "" || docs[0].ID == docs[1].ID {
		t.Errorf("ids not unique: %q %q", docs[0].ID, docs[1].ID)
	}
}

func TestScanDirectoryIncludesHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".cache", "d.pdf"), "x")
	docs, _, _, err := ScanDirectory(context.Background(), root, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("docs = %v", docs)
	}
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	if _, _, _, err := ScanDirectory(context.Background(), " ", true); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenDocumentSameContentSameHash(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.pdf"), "same")
	writeFile(t, filepath.Join(dir, "b.pdf"), "same")
	a, err := OpenDocument(filepath.Join(dir, "a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := OpenDocument(filepath.Join(dir, "b.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if a.HashHex != b.HashHex || a.Size != 4 {
		t.Errorf("a=%+v b=%+v", a, b)
	}
	if _, err := OpenDocument(filepath.Join(dir, "a.docx")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.pdf"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	next := func() string {
		t.Helper()
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}

	if got := next(); filepath.Base(got) != "existing.pdf" {
		t.Fatalf("initial event = %q", got)
	}

	writeFile(t, filepath.Join(root, "ignored.docx"), "x")
	writeFile(t, filepath.Join(root, "new.txt"), "x")
	if got := next(); filepath.Base(got) != "new.txt" {
		t.Fatalf("event = %q, want new.txt", got)
	}

	cancel()
	for range events {
	}
}

func TestStartWatcherNoRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}); err == nil {
		t.Fatal("expected error")
	}
}
