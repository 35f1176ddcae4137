// Package pdf implementa la representación imprimible del recibo fiscal
// aceptado por el VSDC (EBM 2.1, RRA).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre comercial + TIN  │  N° Recibo + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + TIN (si lo hay)                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Total           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base gravable / IVA / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SDC: firma de recibo + QR + SDC ID                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/vsdc-relay/internal/application/relay"
	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	pkgvsdc "github.com/tu-usuario/vsdc-relay/pkg/vsdc"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa relay.ReceiptRenderer usando Maroto v2.
// Guarda el PDF en outputDir y devuelve el nombre del archivo generado.
type MarotoReceiptGenerator struct {
	outputDir string
	sdcID     string // fallback si la respuesta del VSDC no trae sdcId
	mrc       string
}

var _ relay.ReceiptRenderer = (*MarotoReceiptGenerator)(nil)

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator(outputDir, sdcID, mrc string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{outputDir: outputDir, sdcID: sdcID, mrc: mrc}
}

// RenderReceipt genera el PDF del recibo y lo guarda en disco.
func (g *MarotoReceiptGenerator) RenderReceipt(
	_ context.Context,
	submission *entity.FiscalSubmission,
	response *entity.FiscalResponse,
	doc *entity.SourceDocument,
) (string, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo fiscal EBM", true).
		WithAuthor(submission.Receipt.TrdeNm, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(submission, response))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(submission))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(submission.ItemList) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(submission))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range g.sdcFooterRows(submission, response) {
		m.AddRows(r)
	}

	pdfDoc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("pdf: generar recibo: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio de salida: %w", err)
	}
	filename := receiptFilename(submission, response)
	if err := os.WriteFile(filepath.Join(g.outputDir, filename), pdfDoc.GetBytes(), 0o644); err != nil {
		return "", fmt.Errorf("pdf: guardar recibo: %w", err)
	}
	return filename, nil
}

func receiptFilename(submission *entity.FiscalSubmission, response *entity.FiscalResponse) string {
	rcpt := response.ReceiptNumber()
	if rcpt == "" {
		rcpt = fmt.Sprintf("%d", submission.InvcNo)
	}
	kind := "invoice"
	if submission.RcptTyCd == pkgvsdc.ReceiptTypeRefund {
		kind = "creditnote"
	}
	return fmt.Sprintf("receipt_%s_%s.pdf", kind, rcpt)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre comercial + TIN (izq) y número de recibo + fecha (der).
func headerRow(submission *entity.FiscalSubmission, response *entity.FiscalResponse) core.Row {
	title := "RECIBO DE VENTA"
	if submission.RcptTyCd == pkgvsdc.ReceiptTypeRefund {
		title = "RECIBO DE REEMBOLSO"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(submission.Receipt.TrdeNm, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("TIN: "+submission.Tin, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo N° "+response.ReceiptNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+formatPbctDate(response.Data.VsdcRcptPbctDate), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del comprador.
func customerRow(submission *entity.FiscalSubmission) core.Row {
	custTin := "—"
	if submission.CustTin != nil {
		custTin = *submission.CustTin
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   TIN: %s", submission.CustNm, custTin),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por línea del itemList.
func tableItemRows(items []entity.FiscalItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(
				item.Qty.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				item.ItemNm,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				item.Prc.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				item.TaxAmt.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				item.TotAmt.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return rows
}

func totalsRow(submission *entity.FiscalSubmission) core.Row {
	return row.New(18).Add(
		col.New(7),
		col.New(5).Add(
			text.New("Base gravable: "+submission.TotTaxblAmt.StringFixed(2)+" RWF", props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New("IVA: "+submission.TotTaxAmt.StringFixed(2)+" RWF", props.Text{
				Size: 8, Align: align.Right, Top: 6, Color: colorGray,
			}),
			text.New("TOTAL: "+submission.TotAmt.StringFixed(2)+" RWF", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 11, Color: colorPrimary,
			}),
		),
	)
}

// sdcFooterRows: firma del dispositivo, QR de verificación y datos del SDC.
func (g *MarotoReceiptGenerator) sdcFooterRows(submission *entity.FiscalSubmission, response *entity.FiscalResponse) []core.Row {
	sdcID := response.Data.SdcID
	if sdcID == "" {
		sdcID = g.sdcID
	}
	mrc := response.Data.MrcNo
	if mrc == "" {
		mrc = g.mrc
	}

	rows := []core.Row{
		row.New(10).Add(
			col.New(12).Add(
				text.New("INFORMACIÓN SDC", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(fmt.Sprintf("SDC ID: %s   |   MRC: %s   |   Firma: %s",
					nonEmpty(sdcID, "—"), nonEmpty(mrc, "—"), nonEmpty(response.Data.RcptSign, "—"),
				), props.Text{Size: 7, Top: 6, Color: colorGray}),
			),
		),
	}

	if qr := qrContent(submission, response); qr != "" {
		rows = append(rows, row.New(40).Add(
			col.New(4).Add(code.NewQr(qr, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para verificar\neste recibo ante la RRA.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}

	rows = append(rows, row.New(8).Add(
		col.New(12).Add(
			text.New("Este recibo fue registrado ante la autoridad tributaria (RRA).", props.Text{
				Size: 7, Align: align.Center, Top: 2, Color: colorGray,
			}),
		),
	))
	return rows
}

// qrContent contenido del QR de verificación: firma + datos internos del SDC.
// Sin material criptográfico no hay QR.
func qrContent(submission *entity.FiscalSubmission, response *entity.FiscalResponse) string {
	if !response.HasSignature() {
		return ""
	}
	parts := []string{
		submission.Tin,
		response.ReceiptNumber(),
		response.Data.RcptSign,
		response.Data.IntrlData,
		response.Data.VsdcRcptPbctDate,
	}
	return strings.Join(parts, "#")
}

func formatPbctDate(raw string) string {
	// vsdcRcptPbctDate llega como yyyyMMddHHmmss.
	if len(raw) >= 8 {
		return raw[6:8] + "/" + raw[4:6] + "/" + raw[0:4]
	}
	return raw
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
