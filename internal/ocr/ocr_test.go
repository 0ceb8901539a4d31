package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

type call struct {
	name string
	args []string
}

// fakeRunner renders `pages` PNG files for pdftoppm and answers tesseract with
// the text registered for the image's base name.
type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	pages int
	text  map[string]string
	tsv   string
	fail  map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name, args})
	f.mu.Unlock()

	if f.fail[name] {
		return nil, []byte(name + " exploded"), errors.New("exit status 1")
	}
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			p := prefix + "-" + string(rune('0'+i)) + ".png"
			if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if args[len(args)-1] == "tsv" {
			return []byte(f.tsv), nil, nil
		}
		return []byte(f.text[filepath.Base(args[0])]), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func TestExtractPDF(t *testing.T) {
	r := &fakeRunner{
		pages: 2,
		text: map[string]string{
			"page-1.png": "Nom  de la\nsociete\n\n",
			"page-2.png": "Entier\f",
		},
	}
	e := NewExtractor(Config{MaxPages: 2}, r, nil)

	res, err := e.Extract(context.Background(), "/in/acte.PDF")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Text != "Nom de la societe Entier" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Pages != 2 || res.SourceType != constants.FormatPDF || res.Method != "pdf-ocr" || res.Language != "fra" {
		t.Errorf("result = %+v", res)
	}

	pp := r.calls[0]
	wantArgs := []string{"-r", "400", "-png", "-f", "1", "-l", "2", "/in/acte.PDF"}
	if diff := cmp.Diff(wantArgs, pp.args[:len(pp.args)-1]); pp.name != "pdftoppm" || diff != "" {
		t.Errorf("pdftoppm call mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPDFKeepsFirstPageByDefault(t *testing.T) {
	r := &fakeRunner{pages: 3, text: map[string]string{"page-1.png": "premiere"}}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 1 || res.Text != "premiere" {
		t.Errorf("result = %+v", res)
	}
}

func TestExtractPDFRenderFailure(t *testing.T) {
	r := &fakeRunner{fail: map[string]bool{"pdftoppm": true}}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), "a.pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "exploded") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestExtractImageWithConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t90\tNom\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t1\t1\t70\tEntier\n" +
		"4\t1\t1\t1\t1\t0\t0\t0\t1\t1\t-1\t\n"
	r := &fakeRunner{text: map[string]string{"scan.tif": "Nom Entier"}, tsv: tsv}
	e := NewExtractor(Config{TSVConfidence: true, TessdataDir: "/td"}, r, nil)

	res, err := e.Extract(context.Background(), "/x/scan.tif")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Nom Entier" || res.SourceType != constants.FormatImage {
		t.Errorf("result = %+v", res)
	}
	if res.Confidence < 0.79 || res.Confidence > 0.81 {
		t.Errorf("Confidence = %v, want 0.8", res.Confidence)
	}
	want := []string{"/x/scan.tif", "stdout", "-l", "fra", "--tessdata-dir", "/td"}
	if diff := cmp.Diff(want, r.calls[0].args); diff != "" {
		t.Errorf("tesseract args mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acte.txt")
	// Accents written decomposed (e + combining acute).
	if err := os.WriteFile(path, []byte("Denomination  de la socie\u0301te\u0301\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{}
	res, err := NewExtractor(Config{}, r, nil).Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Denomination de la soci\u00e9t\u00e9" {
		t.Errorf("Text = %q", res.Text)
	}
	if len(r.calls) != 0 {
		t.Errorf("text files must not spawn commands: %v", r.calls)
	}
}

func TestExtractUnsupported(t *testing.T) {
	if _, err := NewExtractor(Config{}, &fakeRunner{}, nil).Extract(context.Background(), "a.docx"); err == nil {
		t.Fatal("expected error for .docx")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  a\r\n\tb  ", "a b"},
		{"Nom\n-----\nEntier\n___\n", "Nom Entier"},
		{"x -- y", "x -- y"},
		{"société", "société"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
