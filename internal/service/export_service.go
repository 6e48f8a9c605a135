package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/pkg/export"
	"github.com/noah-isme/respub-api/pkg/storage"
)

type exportPaperSource interface {
	ListByScope(ctx context.Context, scope models.Scope) ([]models.Paper, error)
}

// ExportResult describes a generated export artifact.
type ExportResult struct {
	RelPath   string
	Token     string
	ExpiresAt time.Time
}

// ExportService renders paper exports to disk and issues signed download
// tokens for them.
type ExportService struct {
	papers  exportPaperSource
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(papers exportPaperSource, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		papers:  papers,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: store,
		signer:  signer,
		logger:  logger,
	}
}

var exportHeaders = []string{"Title", "Authors", "College", "Category", "Department", "Year", "Journal", "DOI", "Type", "Scopus ID"}

// Generate produces the export file for a report job and returns the stored
// path with a signed download token.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	scope := models.Scope{College: job.Params.College, Category: job.Params.Category}
	papers, err := s.papers.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load papers for export: %w", err)
	}
	filtered := FilterPapers(papers, models.PaperCriteria{
		SearchTerm: job.Params.SearchTerm,
		Department: job.Params.Department,
		Year:       job.Params.Year,
	})

	table := export.Table{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(filtered))}
	for _, paper := range filtered {
		table.Rows = append(table.Rows, map[string]string{
			"Title":      paper.Title,
			"Authors":    joinAuthors(paper.Authors),
			"College":    paper.College,
			"Category":   paper.Category,
			"Department": paper.Department,
			"Year":       paper.Year(),
			"Journal":    paper.Journal,
			"DOI":        paper.DOI,
			"Type":       string(paper.Type),
			"Scopus ID":  paper.ScopusID,
		})
	}

	var payload []byte
	var ext string
	switch job.Params.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(table, exportTitle(job))
		ext = "pdf"
	default:
		payload, err = s.csv.Render(table)
		ext = "csv"
	}
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	relPath := fmt.Sprintf("reports/%s.%s", job.ID, ext)
	if _, err := s.storage.Save(relPath, payload); err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign export token: %w", err)
	}

	return &ExportResult{RelPath: relPath, Token: token, ExpiresAt: expiresAt}, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle for a stored export file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes export files older than the TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func joinAuthors(authors models.AuthorList) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		names = append(names, author.Name)
	}
	return strings.Join(names, "; ")
}

func exportTitle(job *models.ReportJob) string {
	parts := []string{"Publications"}
	if job.Params.College != "" {
		parts = append(parts, job.Params.College)
	}
	if job.Params.Category != "" {
		parts = append(parts, job.Params.Category)
	}
	if job.Params.Year != "" {
		parts = append(parts, job.Params.Year)
	}
	title := strings.Join(parts, " - ")
	if len(title) > 120 {
		title = title[:120]
	}
	return title
}
