package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/joseph-ayodele/actes-extractor/constants"
	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/engine"
	"github.com/joseph-ayodele/actes-extractor/internal/entity"
	"github.com/joseph-ayodele/actes-extractor/internal/ingest"
	"github.com/joseph-ayodele/actes-extractor/internal/ocr"
)

func sampleAct() string {
	words := make([]string, 200)
	for i := range words {
		words[i] = "x"
	}
	for i, w := range map[int]string{
		0: "D'entreprise", 2: "123", 3: "456", 5: "Nom", 6: "ACME", 7: "HOLDING", 8: "SAS", 9: "Entier",
		70: "l'acte", 71: "DECIDE", 72: "LA", 73: "FUSION", 74: "ABSORPTION", 75: "par",
	} {
		words[i] = w
	}
	return strings.Join(words, " ")
}

type fakeOCR struct {
	text  string
	err   error
	calls int
}

func (f *fakeOCR) Extract(_ context.Context, path string) (ocr.ExtractionResult, error) {
	f.calls++
	if f.err != nil {
		return ocr.ExtractionResult{Warnings: []string{"boom"}}, f.err
	}
	return ocr.ExtractionResult{Text: f.text, Method: "pdf-ocr", Pages: 1}, nil
}

type upperTranslator struct {
	err   error
	texts []string
}

func (u *upperTranslator) Translate(_ context.Context, text, src, dst string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.texts = append(u.texts, text)
	return "[" + src + ">" + dst + "] " + text, nil
}

type memRepo struct {
	mu   sync.Mutex
	rows map[string]entity.Extraction
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]entity.Extraction{}} }

func (m *memRepo) Save(_ context.Context, e *entity.Extraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[e.ID] = *e
	return nil
}

func (m *memRepo) GetByHash(_ context.Context, hash string) (*entity.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.rows {
		if e.ContentHash == hash {
			e := e
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memRepo) List(context.Context, int) ([]entity.Extraction, error) { return nil, nil }

func (m *memRepo) Count(context.Context) (int, error) { return len(m.rows), nil }

func TestProcess(t *testing.T) {
	repo := newMemRepo()
	tr := &upperTranslator{}
	p := NewProcessor(nil, &fakeOCR{text: sampleAct()}, tr, repo, Config{}, nil)

	doc := ingest.Document{ID: "d1", Path: "/in/a.pdf", Format: constants.FormatPDF, HashHex: "h"}
	out, err := p.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	ex := out.Extraction
	if ex.Status != constants.StatusOK || out.Reused {
		t.Fatalf("outcome = %+v", out)
	}
	if ex.CompanyName != "ACME HOLDING SAS" || ex.CompanyIndicator != "123 456" {
		t.Errorf("fields = %q / %q", ex.CompanyName, ex.CompanyIndicator)
	}
	if ex.Purpose != "DECIDE LA FUSION ABSORPTION" || ex.PurposeTranslated != "[fr>en] DECIDE LA FUSION ABSORPTION" {
		t.Errorf("purpose = %q / %q", ex.Purpose, ex.PurposeTranslated)
	}
	if !strings.HasPrefix(ex.BodyTextTranslated, "[fr>en] lacte DECIDE") {
		t.Errorf("body translated = %q", ex.BodyTextTranslated)
	}
	if ex.ActIndex != 70 || ex.Tokens != 200 || ex.OCRMethod != "pdf-ocr" || ex.TargetLanguage != "en" {
		t.Errorf("diagnostics = %+v", ex)
	}
	if len(tr.texts) != 2 {
		t.Errorf("translated %d texts, want body and purpose", len(tr.texts))
	}
	if stored := repo.rows["d1"]; stored.Status != constants.StatusOK || stored.ContentHash != "h" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestProcessSkipsExisting(t *testing.T) {
	repo := newMemRepo()
	repo.rows["old"] = entity.Extraction{ID: "old", ContentHash: "h", Status: constants.StatusOK, CompanyName: "ACME"}
	o := &fakeOCR{text: sampleAct()}
	p := NewProcessor(nil, o, nil, repo, Config{SkipExisting: true}, nil)

	out, err := p.Process(context.Background(), ingest.Document{ID: "new", Path: "a.pdf", HashHex: "h"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Reused || out.Extraction.ID != "old" || o.calls != 0 {
		t.Errorf("outcome = %+v, ocr calls = %d", out, o.calls)
	}
}

func TestProcessUnresolved(t *testing.T) {
	repo := newMemRepo()
	tr := &upperTranslator{}
	p := NewProcessor(nil, &fakeOCR{text: "D'entreprise x 123 456 x Nom ACME HOLDING SAS Entier x x"}, tr, repo, Config{}, nil)

	out, err := p.Process(context.Background(), ingest.Document{ID: "d2", Path: "a.pdf"})
	if !errors.Is(err, engine.ErrUnresolvedAnchor) {
		t.Fatalf("err = %v, want ErrUnresolvedAnchor", err)
	}
	var app *common.AppError
	if !errors.As(err, &app) || app.Code != common.CodeUnresolvedAnchor {
		t.Errorf("err = %#v", err)
	}
	ex := out.Extraction
	if ex.Status != constants.StatusUnresolved || ex.CompanyName != "ACME HOLDING SAS" || ex.ActIndex != -1 {
		t.Errorf("extraction = %+v", ex)
	}
	if len(tr.texts) != 0 {
		t.Errorf("unresolved documents must not be translated: %v", tr.texts)
	}
	if repo.rows["d2"].Status != constants.StatusUnresolved {
		t.Errorf("stored status = %q", repo.rows["d2"].Status)
	}
}

func TestProcessOCRFailure(t *testing.T) {
	repo := newMemRepo()
	p := NewProcessor(nil, &fakeOCR{err: errors.New("tesseract: exit 1")}, nil, repo, Config{}, nil)

	_, err := p.Process(context.Background(), ingest.Document{ID: "d3", Path: "a.pdf"})
	if !errors.Is(err, common.ErrOCR) {
		t.Fatalf("err = %v, want ErrOCR", err)
	}
	if got := repo.rows["d3"]; got.Status != constants.StatusFailed || !strings.Contains(got.ErrorMessage, "tesseract") {
		t.Errorf("stored = %+v", got)
	}
}

func TestProcessTranslationFailure(t *testing.T) {
	repo := newMemRepo()
	tr := &upperTranslator{err: errors.New("503")}
	p := NewProcessor(nil, &fakeOCR{text: sampleAct()}, tr, repo, Config{}, nil)

	out, err := p.Process(context.Background(), ingest.Document{ID: "d4", Path: "a.pdf"})
	if !errors.Is(err, common.ErrTranslation) {
		t.Fatalf("err = %v, want ErrTranslation", err)
	}
	if out.Extraction.Status != constants.StatusFailed || out.Extraction.BodyText == "" {
		t.Errorf("extraction = %+v", out.Extraction)
	}
}

func TestProcessText(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil, Config{Target: "de"}, nil)
	ex, err := p.ProcessText(context.Background(), sampleAct())
	if err != nil {
		t.Fatal(err)
	}
	if ex.ID == "" || ex.Format != constants.FormatText || ex.Status != constants.StatusOK {
		t.Errorf("extraction = %+v", ex)
	}
	// Noop translator copies the French text.
	if ex.PurposeTranslated != ex.Purpose || ex.TargetLanguage != "de" {
		t.Errorf("translation = %q (%s)", ex.PurposeTranslated, ex.TargetLanguage)
	}
}
