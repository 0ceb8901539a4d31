package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/actes-extractor/constants"
	"github.com/joseph-ayodele/actes-extractor/internal/common"
	"github.com/joseph-ayodele/actes-extractor/internal/entity"
	"github.com/joseph-ayodele/actes-extractor/internal/ingest"
	"github.com/joseph-ayodele/actes-extractor/internal/pipeline"
)

// MaxTextBytes caps the OCR text accepted by Extract.
const MaxTextBytes = 4 << 20

// Processor is implemented by *pipeline.Processor.
type Processor interface {
	Process(ctx context.Context, doc ingest.Document) (pipeline.Outcome, error)
	ProcessText(ctx context.Context, text string) (entity.Extraction, error)
}

type ExtractionService struct {
	proc   Processor
	logger *slog.Logger
}

var _ ExtractionServer = (*ExtractionService)(nil)

func NewExtractionService(proc Processor, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionService{proc: proc, logger: logger}
}

// Extract implements ExtractionServer. A document whose act body cannot be
// located still yields a response, with status UNRESOLVED and an error field.
func (s *ExtractionService) Extract(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	text := req.GetValue()
	if err := common.NewValidator().
		Field("text", text, common.Required, common.ValidUTF8, common.MaxBytes(MaxTextBytes)).
		Err(); err != nil {
		s.logger.Warn("server.extract.invalid", "error", err)
		return nil, common.ToStatus(err)
	}

	ex, err := s.proc.ProcessText(ctx, text)
	if err != nil && !errors.Is(err, common.ErrUnresolvedAnchor) {
		s.logger.Error("server.extract.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	s.logger.Info("server.extract.done", "status", ex.Status, "extraction_id", ex.ID)
	return toStruct(ex, false)
}

// ExtractFile implements ExtractionServer. The path is resolved on the server.
func (s *ExtractionService) ExtractFile(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	path := strings.TrimSpace(req.GetValue())
	if err := common.NewValidator().
		Field("path", path, common.Required, common.ValidUTF8, common.SupportedDocument).
		Err(); err != nil {
		s.logger.Warn("server.extract_file.invalid", "path", path, "error", err)
		return nil, common.ToStatus(err)
	}

	doc, err := ingest.OpenDocument(path)
	if err != nil {
		s.logger.Error("server.extract_file.open_failed", "path", path, "error", err)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, status.Errorf(codes.NotFound, "document %s not found", path)
		}
		return nil, common.ToStatus(err)
	}

	out, err := s.proc.Process(ctx, doc)
	if err != nil && !errors.Is(err, common.ErrUnresolvedAnchor) {
		s.logger.Error("server.extract_file.failed", "path", path, "error", err)
		return nil, common.ToStatus(err)
	}
	s.logger.Info("server.extract_file.done", "path", path, "status", out.Extraction.Status, "reused", out.Reused)
	return toStruct(out.Extraction, out.Reused)
}

// toStruct renders ex as the record fields plus diagnostics.
func toStruct(ex entity.Extraction, reused bool) (*structpb.Struct, error) {
	m := map[string]any{
		string(constants.FieldCompanyName):      ex.CompanyName,
		string(constants.FieldCompanyIndicator): ex.CompanyIndicator,
		string(constants.FieldBodyText):         ex.TranslatedBody(),
		string(constants.FieldPurpose):          ex.TranslatedPurpose(),
		"body_text_source":                      ex.BodyText,
		"purpose_source":                        ex.Purpose,
		"target_language":                       ex.TargetLanguage,
		"extraction_id":                         ex.ID,
		"status":                                string(ex.Status),
		"act_index":                             ex.ActIndex,
		"act_threshold":                         ex.ActThreshold,
		"tokens":                                ex.Tokens,
		"reused":                                reused,
	}
	if ex.ErrorMessage != "" {
		m["error"] = ex.ErrorMessage
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return st, nil
}
