package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"crmdash/internal/format"
	"crmdash/internal/models"
)

// Generator: интерфейс (удобно мокать в тестах)
type Generator interface {
	WritePipelineReport(w io.Writer, r PipelineReport) error
	SavePipelineReport(r PipelineReport, filename string) (string, error)
}

// DocumentGenerator renders reports with gofpdf.
type DocumentGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // TTF; пусто: встроенный Helvetica
	fontName string
}

type PipelineReport struct {
	Title       string
	GeneratedAt time.Time
	Columns     []models.StageColumn
	Summary     models.PipelineSummary
}

func NewDocumentGenerator(rootDir, fontPath string) *DocumentGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &DocumentGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: name,
	}
}

func (g *DocumentGenerator) WritePipelineReport(w io.Writer, r PipelineReport) error {
	pdf := g.build(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pipeline report: %w", err)
	}
	return nil
}

// SavePipelineReport writes the report under RootDir and returns the file path.
func (g *DocumentGenerator) SavePipelineReport(r PipelineReport, filename string) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("pipeline_%s.pdf", r.GeneratedAt.Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}
	if err := g.build(r).OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write %s: %w", absPath, err)
	}
	return absPath, nil
}

func (g *DocumentGenerator) build(r PipelineReport) *gofpdf.Fpdf {
	if r.Title == "" {
		r.Title = "Sales Pipeline Report"
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetAuthor("crmdash", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	g.addUTF8Font(pdf)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, r.Title, "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "Generated "+format.DateTime(r.GeneratedAt), "", 1, "C", false, 0, "")
	g.hr(pdf)

	// ===== Сводка
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total value", format.Currency(r.Summary.TotalValue))
	g.kvLine(pdf, "Weighted value", format.Currency(r.Summary.WeightedValue))
	g.kvLine(pdf, "Deals", format.Number(int64(r.Summary.DealCount)))
	g.kvLine(pdf, "Avg. probability", fmt.Sprintf("%d%%", r.Summary.AverageProbability))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== По этапам
	g.sectionTitle(pdf, "By stage")
	widths := []float64{70, 30, 70}
	g.row(pdf, widths, true, "Stage", "Deals", "Total value")
	for _, col := range r.Columns {
		g.row(pdf, widths, false, col.Name, format.Number(int64(col.Count)), format.Currency(col.TotalValue))
	}
	pdf.Ln(4)

	// ===== Сделки
	for _, col := range r.Columns {
		if len(col.Deals) == 0 {
			continue
		}
		g.sectionTitle(pdf, fmt.Sprintf("%s (%d)", col.Name, col.Count))
		dw := []float64{80, 35, 20, 35}
		g.row(pdf, dw, true, "Deal", "Value", "Prob.", "Close date")
		for _, d := range col.Deals {
			g.row(pdf, dw, false, d.Title, format.Currency(d.Value), fmt.Sprintf("%d%%", d.Probability), format.Date(d.ExpectedCloseDate))
		}
		pdf.Ln(3)
	}
	return pdf
}

// ===== helpers =====

func (g *DocumentGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *DocumentGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) row(pdf *gofpdf.Fpdf, widths []float64, header bool, cells ...string) {
	style := ""
	if header {
		style = "B"
		pdf.SetFillColor(230, 236, 245)
	}
	pdf.SetFont(g.fontName, style, 10)
	for i, c := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, c, "1", 0, align, header, 0, "")
	}
	pdf.Ln(-1)
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}

func (g *DocumentGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	// AddUTF8Font принимает путь до TTF
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
