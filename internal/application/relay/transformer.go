package relay

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	domainvsdc "github.com/tu-usuario/vsdc-relay/internal/domain/vsdc"
	"github.com/tu-usuario/vsdc-relay/pkg/logger"
	pkgvsdc "github.com/tu-usuario/vsdc-relay/pkg/vsdc"
)

// Formatos de fecha aceptados del documento origen, probados en orden sobre
// la parte de fecha del valor (lo que haya antes del primer espacio, así que
// "2006-01-02 15:04:05" entra por el primero). La plataforma manda
// normalmente ISO; los otros cubren tenants viejos.
var sourceDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

const (
	wireDate     = "20060102"
	wireDateTime = "20060102150405"
)

// PayloadTransformer construye el registro fiscal completo (FiscalSubmission)
// a partir de un documento origen, componiendo la aritmética de IVA, la
// resolución de identificadores y la numeración del documento.
type PayloadTransformer struct {
	profile BusinessProfile
	log     *logger.Logger
	nowFn   func() time.Time
}

// NewPayloadTransformer construye el transformador.
func NewPayloadTransformer(profile BusinessProfile, log *logger.Logger) *PayloadTransformer {
	return &PayloadTransformer{
		profile: profile,
		log:     log.WithComponent("transformer"),
		nowFn:   time.Now,
	}
}

// Transform valida el documento y arma el envío fiscal. assignedNumber > 0
// fija el número de documento (reproceso idempotente de un webhook ya visto);
// con 0 el número se resuelve del identificador del documento.
//
// Falla con *ValidationError cuando el identificador está vacío, no hay
// líneas, alguna línea no tiene nombre/descripción, trae precio no positivo o
// una cantidad explícita no positiva. El registro devuelto no se muta después
// de construido.
func (t *PayloadTransformer) Transform(doc *entity.SourceDocument, kind entity.DocumentKind, assignedNumber int64) (*entity.FiscalSubmission, error) {
	now := t.nowFn()

	// ── 1. Validación ─────────────────────────────────────────────────────────
	if err := validateDocument(doc, kind); err != nil {
		return nil, err
	}

	// ── 2. Número de documento ────────────────────────────────────────────────
	docNumber := assignedNumber
	if docNumber <= 0 {
		docNumber = domainvsdc.ResolveDocumentNumber(doc.Identifier(kind), now)
	}

	// ── 3. Identificadores fiscales ───────────────────────────────────────────
	ids := domainvsdc.ResolveIdentifiers(doc, t.profile.TIN)
	if ids.BusinessTIN == "" {
		t.log.Warn().Str("document", doc.Identifier(kind)).Msg("documento sin TIN de negocio y sin default configurado")
	} else if !pkgvsdc.IsValidTIN(ids.BusinessTIN) {
		t.log.Warn().Str("tin", ids.BusinessTIN).Msg("TIN de negocio con formato sospechoso (se envía igual; el VSDC decide)")
	}

	// ── 4. Bloque receipt (datos impresos del comercio) ───────────────────────
	fields := domainvsdc.NewDocumentFields(doc)
	receipt := t.buildReceipt(fields, ids, doc)

	// ── 5. Fecha de venta ─────────────────────────────────────────────────────
	salesDate := parseSalesDate(doc.DateRaw(), now)

	// ── 6/7. Líneas e impuestos por cubeta ────────────────────────────────────
	items, breakdown, taxRateC := t.buildItems(doc.LineItems)
	breakdown.Round()

	// ── 8. Ensamble final ─────────────────────────────────────────────────────
	sub := &entity.FiscalSubmission{
		Tin:          ids.BusinessTIN,
		BhfID:        t.profile.BranchID,
		InvcNo:       docNumber,
		OrgInvcNo:    0,
		CustTin:      nilIfEmpty(ids.CustomerTIN),
		PrcOrdCd:     nilIfEmpty(ids.PurchaseCode),
		CustNm:       customerName(doc),
		SalesTyCd:    pkgvsdc.SalesTypeNormal,
		RcptTyCd:     pkgvsdc.ReceiptTypeSale,
		PmtTyCd:      pkgvsdc.PaymentTypeCash,
		SalesSttsCd:  pkgvsdc.SalesStatusApproved,
		CfmDt:        now.Format(wireDateTime),
		SalesDt:      salesDate,
		StockRlsDt:   now.Format(wireDateTime),
		TotItemCnt:   len(items),
		TaxRtB:       decimal.NewFromInt(pkgvsdc.StandardVATRate),
		TaxRtC:       taxRateC,
		PrchrAcptcYn: "N",
		RegrID:       t.profile.RegistrarID,
		RegrNm:       t.profile.RegistrarName,
		ModrID:       t.profile.RegistrarID,
		ModrNm:       t.profile.RegistrarName,
		Receipt:      receipt,
		ItemList:     items,
	}
	sub.ApplyBreakdown(breakdown)

	if kind.IsCreditNote() {
		if err := t.applyRefund(sub, fields, doc, now); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// applyRefund marca el envío como reembolso: referencia la factura original y
// fija el tipo de recibo "R". Los montos permanecen positivos; el tipo de
// recibo es lo que invierte su significado aguas abajo.
func (t *PayloadTransformer) applyRefund(sub *entity.FiscalSubmission, fields *domainvsdc.DocumentFields, doc *entity.SourceDocument, now time.Time) error {
	original := doc.OriginalInvoiceIdentifier()
	if original == "" {
		return &ValidationError{Reason: "la nota crédito no referencia ninguna factura original"}
	}
	sub.OrgInvcNo = domainvsdc.ResolveDocumentNumber(original, now)
	sub.RcptTyCd = pkgvsdc.ReceiptTypeRefund

	refundDate := now.Format(wireDateTime)
	sub.RfdDt = &refundDate

	reason := fields.Document(domainvsdc.FieldRefundReason)
	if reason == "" {
		reason = t.profile.RefundReason
	}
	sub.RfdRsnCd = nilIfEmpty(reason)
	return nil
}

func (t *PayloadTransformer) buildReceipt(fields *domainvsdc.DocumentFields, ids domainvsdc.Identifiers, doc *entity.SourceDocument) entity.ReceiptBlock {
	tradeName := fields.Document(domainvsdc.FieldOrgName)
	if tradeName == "" {
		tradeName = t.profile.TradeName
	}
	address := fields.Document(domainvsdc.FieldOrgAddress)
	if address == "" {
		address = t.profile.Address
	}
	topMsg := t.profile.TopMessage
	if topMsg == "" {
		topMsg = tradeName
	}
	return entity.ReceiptBlock{
		CustTin:      nilIfEmpty(ids.CustomerTIN),
		CustMblNo:    nilIfEmpty(doc.CustomerMobile()),
		RptNo:        1,
		TrdeNm:       tradeName,
		Adrs:         address,
		TopMsg:       topMsg,
		BtmMsg:       t.profile.BottomMessage,
		PrchrAcptcYn: "N",
	}
}

// validateDocument reglas de entrada: son errores del cliente, no de cómputo.
func validateDocument(doc *entity.SourceDocument, kind entity.DocumentKind) error {
	if doc.Identifier(kind) == "" {
		return &ValidationError{Reason: "el número de documento debe ser un string no vacío"}
	}
	if len(doc.LineItems) == 0 {
		return &ValidationError{Reason: "el documento debe tener al menos una línea"}
	}
	for idx, item := range doc.LineItems {
		if item.DisplayName() == "" {
			return &ValidationError{Reason: fmt.Sprintf("la línea %d debe tener nombre o descripción", idx+1)}
		}
		if item.Rate.LessThanOrEqual(decimal.Zero) {
			return &ValidationError{Reason: fmt.Sprintf("la línea %d debe tener un precio válido", idx+1)}
		}
		if item.Quantity != nil && item.Quantity.LessThanOrEqual(decimal.Zero) {
			return &ValidationError{Reason: fmt.Sprintf("la línea %d debe tener una cantidad positiva", idx+1)}
		}
	}
	return nil
}

// buildItems arma el itemList y acumula por cubeta. El aporte de cada línea se
// redondea antes de acumular; el redondeo final de los acumuladores lo hace el
// caller una sola vez (evita arrastrar error de redondeo entre líneas).
// Devuelve también la tasa aplicada a la cubeta C cuando alguna línea cayó
// ahí. El registro lleva una sola tasa para C (taxRtC): con tasas no estándar
// distintas en el mismo documento se reporta la primera y las demás solo se
// advierten en el log.
func (t *PayloadTransformer) buildItems(lines []entity.LineItem) ([]entity.FiscalItem, *entity.TaxBreakdown, decimal.Decimal) {
	items := make([]entity.FiscalItem, 0, len(lines))
	breakdown := &entity.TaxBreakdown{}
	taxRateC := decimal.Zero

	for idx, line := range lines {
		seq := idx + 1
		// Cantidad omitida cuenta como 1 (algunas integraciones no la mandan);
		// una explícita ya pasó la validación.
		qty := decimal.NewFromInt(1)
		if line.Quantity != nil {
			qty = *line.Quantity
		}

		// Los precios del origen son con IVA incluido: la base gravable del
		// protocolo (taxblAmt) coincide con el monto de venta (splyAmt).
		supply := line.Rate.Mul(qty).Round(2)
		rate := itemTaxRate(line)
		category := domainvsdc.TaxCategory(rate)
		tax := domainvsdc.VATFromInclusive(supply, rate)

		if category == pkgvsdc.TaxCategoryC {
			if taxRateC.IsZero() {
				taxRateC = rate
			} else if !taxRateC.Equal(rate) {
				t.log.Warn().
					Int("line", seq).
					Str("tax_rt_c", taxRateC.String()).
					Str("rate", rate.String()).
					Msg("segunda tasa no estándar en el documento; taxRtC reporta solo la primera")
			}
		}

		itemCode := line.ItemID
		if itemCode == "" {
			itemCode = fmt.Sprintf("RW1NTXU000000%02d", seq)
		}
		classCode := line.ItemClassCode
		if classCode == "" {
			classCode = fmt.Sprintf("50%d211080%d", seq, seq)
		}

		items = append(items, entity.FiscalItem{
			ItemSeq:   seq,
			ItemCd:    itemCode,
			ItemClsCd: classCode,
			ItemNm:    line.DisplayName(),
			PkgUnitCd: pkgvsdc.PackagingUnitDefault,
			Pkg:       1,
			QtyUnitCd: pkgvsdc.QuantityUnitDefault,
			Qty:       qty,
			Prc:       line.Rate,
			SplyAmt:   supply,
			DcRt:      decimal.Zero,
			DcAmt:     decimal.Zero,
			TaxTyCd:   category,
			TaxblAmt:  supply,
			TaxAmt:    tax,
			TotAmt:    supply,
		})
		breakdown.Add(category, supply, tax)
	}
	return items, breakdown, taxRateC
}

// itemTaxRate tasa de IVA de la línea: campos de override en orden fijo,
// luego la categoría explícita y por último la tasa estándar.
func itemTaxRate(line entity.LineItem) decimal.Decimal {
	for _, candidate := range []*decimal.Decimal{line.TaxRate, line.VATRate, line.TaxPercentage, line.Tax} {
		if candidate != nil {
			return *candidate
		}
	}
	switch line.TaxCategory {
	case pkgvsdc.TaxCategoryA:
		return decimal.Zero
	case pkgvsdc.TaxCategoryB:
		return decimal.NewFromInt(pkgvsdc.StandardVATRate)
	}
	return decimal.NewFromInt(pkgvsdc.StandardVATRate)
}

// parseSalesDate intenta los formatos conocidos sobre la parte de fecha del
// valor; si ninguno aplica (o no hay fecha) usa la fecha actual.
func parseSalesDate(raw string, now time.Time) string {
	if raw != "" {
		datePart := raw
		if idx := indexSpace(raw); idx > 0 {
			datePart = raw[:idx]
		}
		for _, format := range sourceDateFormats {
			if parsed, err := time.Parse(format, datePart); err == nil {
				return parsed.Format(wireDate)
			}
		}
	}
	return now.Format(wireDate)
}

func indexSpace(s string) int {
	for i, r := range s {
		if r == ' ' {
			return i
		}
	}
	return -1
}

func customerName(doc *entity.SourceDocument) string {
	if doc.CustomerName != "" {
		return doc.CustomerName
	}
	return "Unknown Customer"
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
