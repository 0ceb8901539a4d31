package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/actes-extractor/internal/ocr"
	"github.com/joseph-ayodele/actes-extractor/internal/pipeline"
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

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	proc := pipeline.NewProcessor(nil, ocr.NewExtractor(ocr.Config{}, nil, nil), nil, nil, pipeline.Config{}, nil)
	srv, _ := NewGRPCServer(NewExtractionService(proc, nil), nil)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestExtract(t *testing.T) {
	c := NewExtractionClient(dial(t))
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-42")

	var header metadata.MD
	got, err := c.Extract(ctx, sampleAct(), grpc.Header(&header))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	f := got.GetFields()
	if f["company_name"].GetStringValue() != "ACME HOLDING SAS" || f["company_indicator"].GetStringValue() != "123 456" {
		t.Errorf("fields = %v", got)
	}
	if f["purpose"].GetStringValue() != "DECIDE LA FUSION ABSORPTION" || f["status"].GetStringValue() != "OK" {
		t.Errorf("purpose/status = %v", got)
	}
	if f["act_index"].GetNumberValue() != 70 {
		t.Errorf("act_index = %v", f["act_index"])
	}
	if ids := header.Get(RequestIDHeader); len(ids) != 1 || ids[0] != "req-42" {
		t.Errorf("request id header = %v", ids)
	}
}

func TestExtractUnresolvedStillAnswers(t *testing.T) {
	c := NewExtractionClient(dial(t))
	got, err := c.Extract(context.Background(), "Nom ACME HOLDING SAS Entier x x")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	f := got.GetFields()
	if f["status"].GetStringValue() != "UNRESOLVED" || f["error"].GetStringValue() == "" {
		t.Errorf("response = %v", got)
	}
	if f["act_index"].GetNumberValue() != -1 {
		t.Errorf("act_index = %v", f["act_index"])
	}
}

func TestExtractValidation(t *testing.T) {
	c := NewExtractionClient(dial(t))
	tests := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{"blank text", func() error { _, err := c.Extract(context.Background(), "  "); return err }, codes.InvalidArgument},
		{"blank path", func() error { _, err := c.ExtractFile(context.Background(), ""); return err }, codes.InvalidArgument},
		{"unsupported path", func() error { _, err := c.ExtractFile(context.Background(), "a.docx"); return err }, codes.InvalidArgument},
		{"missing file", func() error {
			_, err := c.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
			return err
		}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(tt.call()); got != tt.code {
				t.Errorf("code = %v, want %v", got, tt.code)
			}
		})
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acte.txt")
	if err := os.WriteFile(path, []byte(sampleAct()), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewExtractionClient(dial(t))
	got, err := c.ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	f := got.GetFields()
	if f["company_name"].GetStringValue() != "ACME HOLDING SAS" || f["reused"].GetBoolValue() {
		t.Errorf("response = %v", got)
	}
	if !strings.HasPrefix(f["body_text"].GetStringValue(), "lacte DECIDE") {
		t.Errorf("body_text = %q", f["body_text"].GetStringValue())
	}
}

func TestHealth(t *testing.T) {
	hc := healthpb.NewHealthClient(dial(t))
	for _, svc := range []string{"", ExtractionServiceName} {
		resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatalf("Check(%q): %v", svc, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("Check(%q) = %v", svc, resp.GetStatus())
		}
	}
}
