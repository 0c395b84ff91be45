package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"directum-studio/apperr"
	"directum-studio/models"
	"directum-studio/repository"
	"directum-studio/utils"
)

//go:embed templates/work_order.html
var templateFS embed.FS

var workOrderTemplate = template.Must(template.ParseFS(templateFS, "templates/work_order.html"))

// WorkOrderLine is one product on the production work order
type WorkOrderLine struct {
	ProductID  string
	LogoRef    string
	View       string
	Size       string
	Spec       *models.PrintSpec
	SpecSource string
	SpecTrust  string
	PreviewURL string
	UpdatedAt  string
}

// WorkOrder is the template data of a version's work order
type WorkOrder struct {
	CompanyDomain string
	QuoteID       string
	VersionID     string
	VersionName   string
	CreatedBy     string
	GeneratedAt   string
	Lines         []WorkOrderLine
}

// WorksheetService renders the production work order of a quote version
type WorksheetService struct {
	manifests  repository.ManifestRepositoryInterface
	previews   PreviewServiceInterface
	chromePath string
	logger     *zap.Logger
}

// Ensure WorksheetService implements WorksheetServiceInterface
var _ WorksheetServiceInterface = (*WorksheetService)(nil)

// NewWorksheetService creates a new WorksheetService. previews may be nil.
func NewWorksheetService(manifests repository.ManifestRepositoryInterface, previews PreviewServiceInterface, chromePath string, logger *zap.Logger) *WorksheetService {
	return &WorksheetService{
		manifests:  manifests,
		previews:   previews,
		chromePath: chromePath,
		logger:     logger,
	}
}

// detectChromePath returns the configured Chrome binary when it exists, else
// the first common installation path found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// BuildWorkOrder collects the manifests of a version into work order data
func (s *WorksheetService) BuildWorkOrder(ctx context.Context, email, quoteID, versionID string) (*WorkOrder, error) {
	if err := validateIDs(quoteID, versionID); err != nil {
		return nil, err
	}
	domain := utils.CompanyDomainFromEmail(email)

	idx, err := s.manifests.GetIndex(ctx, domain, quoteID, versionID)
	if err != nil {
		return nil, err
	}
	manifests, err := s.manifests.ListManifests(ctx, domain, quoteID, versionID)
	if err != nil {
		return nil, err
	}

	wo := &WorkOrder{
		CompanyDomain: domain,
		QuoteID:       quoteID,
		VersionID:     versionID,
		VersionName:   idx.Name,
		CreatedBy:     idx.CreatedBy,
		GeneratedAt:   time.Now().UTC().Format(time.RFC1123),
		Lines:         make([]WorkOrderLine, 0, len(manifests)),
	}
	for _, m := range manifests {
		line := WorkOrderLine{
			ProductID: m.ProductID,
			LogoRef:   m.LogoRef,
			View:      m.Placement.View,
			Size:      m.Placement.Size,
			UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
		}
		if m.Placement.HasPrintSpec() {
			line.Spec = m.Placement.PrinterSpec
			line.SpecSource = m.Placement.SpecSource
			line.SpecTrust = m.Placement.SpecTrust
		}
		if s.previews != nil {
			u, err := s.previews.PreviewURL(ctx, domain, quoteID, versionID, m.ProductID)
			switch {
			case err == nil:
				line.PreviewURL = u
			case !apperr.IsCode(err, apperr.CodeNotFound):
				s.logger.Warn("⚠️  preview unavailable for work order", zap.String("productId", m.ProductID), zap.Error(err))
			}
		}
		wo.Lines = append(wo.Lines, line)
	}
	return wo, nil
}

// RenderHTML renders the work order as HTML
func (s *WorksheetService) RenderHTML(ctx context.Context, email, quoteID, versionID string) (string, error) {
	wo, err := s.BuildWorkOrder(ctx, email, quoteID, versionID)
	if err != nil {
		return "", err
	}
	return renderWorkOrder(wo)
}

func renderWorkOrder(wo *WorkOrder) (string, error) {
	var buf bytes.Buffer
	if err := workOrderTemplate.Execute(&buf, wo); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the work order HTML to a letter-sized PDF using headless Chrome
func (s *WorksheetService) GeneratePDF(ctx context.Context, email, quoteID, versionID string) ([]byte, error) {
	html, err := s.RenderHTML(ctx, email, quoteID, versionID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		// previews are presigned remote images
		chromedp.Evaluate(`
			Promise.all(Array.from(document.images).map(img => img.complete ? null :
				new Promise(resolve => { img.onload = img.onerror = resolve; setTimeout(resolve, 5000); })));
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams { return p.WithAwaitPromise(true) }),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.logger.Info("📄 work order generated",
		zap.String("quoteId", quoteID),
		zap.String("versionId", versionID),
		zap.Int("bytes", len(pdfBuf)))
	return pdfBuf, nil
}
