package relay

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	"github.com/tu-usuario/vsdc-relay/pkg/logger"
	pkgvsdc "github.com/tu-usuario/vsdc-relay/pkg/vsdc"
)

func testProfile() BusinessProfile {
	return BusinessProfile{
		TIN:           "944000008",
		BranchID:      "00",
		TradeName:     "Mi Tienda",
		Address:       "Kigali",
		BottomMessage: "Welcome",
		RegistrarID:   "admin",
		RegistrarName: "admin",
		RefundReason:  "05",
	}
}

func newTestTransformer() *PayloadTransformer {
	tr := NewPayloadTransformer(testProfile(), logger.New(logger.Config{Level: "disabled"}))
	tr.nowFn = func() time.Time {
		return time.Date(2024, 7, 15, 10, 30, 45, 0, time.UTC)
	}
	return tr
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestTransform_FacturaSimple(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000061",
		CustomerName:  "Acme Ltd",
		Date:          "2024-07-10",
		LineItems: []entity.LineItem{
			{Name: "Servicio de consultoría", Rate: dec("2000"), Quantity: decp("1")},
		},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(61), sub.InvcNo)
	assert.Equal(t, "944000008", sub.Tin)
	assert.Equal(t, "00", sub.BhfID)
	assert.Equal(t, pkgvsdc.ReceiptTypeSale, sub.RcptTyCd)
	assert.Equal(t, "Acme Ltd", sub.CustNm)
	assert.Equal(t, "20240710", sub.SalesDt)
	assert.Equal(t, 1, sub.TotItemCnt)

	// Precio con IVA incluido: base = 2000, IVA = 2000*18/118 = 305.08
	assert.Equal(t, "2000.00", sub.TaxblAmtB.StringFixed(2))
	assert.Equal(t, "305.08", sub.TaxAmtB.StringFixed(2))
	assert.Equal(t, "2000.00", sub.TotTaxblAmt.StringFixed(2))
	assert.Equal(t, "305.08", sub.TotTaxAmt.StringFixed(2))
	assert.Equal(t, "2000.00", sub.TotAmt.StringFixed(2))

	require.Len(t, sub.ItemList, 1)
	item := sub.ItemList[0]
	assert.Equal(t, pkgvsdc.TaxCategoryB, item.TaxTyCd)
	assert.Equal(t, "305.08", item.TaxAmt.StringFixed(2))
	assert.Equal(t, "RW1NTXU00000001", item.ItemCd, "ítem sin código usa el default secuencial")
	assert.Equal(t, "5012110801", item.ItemClsCd)
}

func TestTransform_NumeroAsignadoPreviamente(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000061",
		LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 777)
	require.NoError(t, err)
	assert.Equal(t, int64(777), sub.InvcNo, "un número ya asignado tiene prioridad sobre el resuelto")
}

func TestTransform_ItemExentoCaeEnCubetaA(t *testing.T) {
	zero := decimal.Zero
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000100",
		LineItems: []entity.LineItem{
			{Name: "Gravado", Rate: dec("1000"), Quantity: decp("1")},
			{Name: "Exento", Rate: dec("500"), Quantity: decp("1"), TaxRate: &zero},
		},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)

	assert.Equal(t, "500.00", sub.TaxblAmtA.StringFixed(2))
	assert.Equal(t, "0.00", sub.TaxAmtA.StringFixed(2))
	assert.Equal(t, "1000.00", sub.TaxblAmtB.StringFixed(2))
	assert.Equal(t, "152.54", sub.TaxAmtB.StringFixed(2))
	assert.Equal(t, "1500.00", sub.TotAmt.StringFixed(2))
	assert.Equal(t, pkgvsdc.TaxCategoryA, sub.ItemList[1].TaxTyCd)
}

func TestTransform_TasaNoEstandarCaeEnCubetaC(t *testing.T) {
	rate := dec("10")
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000101",
		LineItems: []entity.LineItem{
			{Name: "Tasa reducida", Rate: dec("110"), Quantity: decp("1"), TaxRate: &rate},
		},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)

	assert.Equal(t, pkgvsdc.TaxCategoryC, sub.ItemList[0].TaxTyCd)
	assert.Equal(t, "110.00", sub.TaxblAmtC.StringFixed(2))
	assert.Equal(t, "10.00", sub.TaxAmtC.StringFixed(2), "110 * 10/110 = 10")
	assert.Equal(t, "10", sub.TaxRtC.String(), "la tasa aplicada queda reportada en taxRtC")
}

func TestTransform_CadenaDeOverridesDeTasa(t *testing.T) {
	vat := dec("18")
	pct := dec("0")
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000102",
		LineItems: []entity.LineItem{
			// tax_rate ausente: gana vat_rate aunque tax_percentage también venga
			{Name: "A", Rate: dec("118"), Quantity: decp("1"), VATRate: &vat, TaxPercentage: &pct},
		},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)
	assert.Equal(t, "18.00", sub.TaxAmtB.StringFixed(2))
}

func TestTransform_CantidadOmitidaCuentaComoUno(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000103",
		LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100")}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", sub.ItemList[0].Qty.String())
	assert.Equal(t, "100.00", sub.TotAmt.StringFixed(2))
}

func TestTransform_DosTasasNoEstandarReportaLaPrimera(t *testing.T) {
	diez := dec("10")
	cinco := dec("5")
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000108",
		LineItems: []entity.LineItem{
			{Name: "Reducida", Rate: dec("110"), Quantity: decp("1"), TaxRate: &diez},
			{Name: "Mínima", Rate: dec("105"), Quantity: decp("1"), TaxRate: &cinco},
		},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)

	assert.Equal(t, "10", sub.TaxRtC.String(), "taxRtC lleva la tasa de la primera línea en C")
	assert.Equal(t, "215.00", sub.TaxblAmtC.StringFixed(2))
	assert.Equal(t, "15.00", sub.TaxAmtC.StringFixed(2), "cada línea acumula con su propia tasa")
}

func TestTransform_Validaciones(t *testing.T) {
	base := func() *entity.SourceDocument {
		return &entity.SourceDocument{
			InvoiceNumber: "INV-000104",
			LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
		}
	}

	t.Run("sin identificador", func(t *testing.T) {
		doc := base()
		doc.InvoiceNumber = "  "
		_, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("sin líneas", func(t *testing.T) {
		doc := base()
		doc.LineItems = nil
		_, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("línea sin nombre ni descripción", func(t *testing.T) {
		doc := base()
		doc.LineItems[0].Name = ""
		_, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("precio no positivo", func(t *testing.T) {
		doc := base()
		doc.LineItems[0].Rate = decimal.Zero
		_, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("cantidad negativa", func(t *testing.T) {
		doc := base()
		doc.LineItems[0].Quantity = decp("-1")
		_, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("cantidad cero explícita", func(t *testing.T) {
		doc := base()
		doc.LineItems[0].Quantity = decp("0")
		_, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "cero mandado explícito no se cobra como 1")
	})
}

func TestTransform_NotaCredito(t *testing.T) {
	doc := &entity.SourceDocument{
		CreditNoteNumber: "CN-000005",
		CustomerName:     "Acme Ltd",
		LineItems:        []entity.LineItem{{Name: "Devolución", Rate: dec("2000"), Quantity: decp("1")}},
		InvoicesCredited: []entity.CreditedInvoice{{InvoiceNumber: "INV-000061"}},
		CustomFieldHash:  map[string]any{"cf_refund_reason": "01"},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindCreditNote, 0)
	require.NoError(t, err)

	assert.Equal(t, pkgvsdc.ReceiptTypeRefund, sub.RcptTyCd)
	assert.Equal(t, int64(5), sub.InvcNo)
	assert.Equal(t, int64(61), sub.OrgInvcNo, "referencia la factura original por su número resuelto")
	require.NotNil(t, sub.RfdRsnCd)
	assert.Equal(t, "01", *sub.RfdRsnCd, "el motivo del documento gana al configurado")
	require.NotNil(t, sub.RfdDt)
	// Los montos permanecen positivos; el tipo de recibo marca el reembolso.
	assert.Equal(t, "2000.00", sub.TotAmt.StringFixed(2))
}

func TestTransform_NotaCreditoSinFacturaOriginal(t *testing.T) {
	doc := &entity.SourceDocument{
		CreditNoteNumber: "CN-000006",
		LineItems:        []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
	}

	_, err := newTestTransformer().Transform(doc, entity.KindCreditNote, 0)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestTransform_NotaCreditoMotivoPorDefecto(t *testing.T) {
	doc := &entity.SourceDocument{
		CreditNoteNumber: "CN-000007",
		LineItems:        []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
		InvoicesCredited: []entity.CreditedInvoice{{InvoiceNumber: "INV-000061"}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindCreditNote, 0)
	require.NoError(t, err)
	require.NotNil(t, sub.RfdRsnCd)
	assert.Equal(t, "05", *sub.RfdRsnCd)
}

func TestTransform_BloqueReceipt(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000105",
		LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
		CustomFieldHash: map[string]any{
			"cf_organizationname":       "Sucursal Norte",
			"cf_seller_company_address": "Musanze",
			"cf_customer_tin":           "998000003",
		},
		ContactPersonsDetails: []entity.ContactPerson{{Mobile: "0788123456"}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)

	assert.Equal(t, "Sucursal Norte", sub.Receipt.TrdeNm, "los campos de la organización ganan al perfil")
	assert.Equal(t, "Musanze", sub.Receipt.Adrs)
	assert.Equal(t, "Sucursal Norte", sub.Receipt.TopMsg, "sin topMsg configurado cae al nombre comercial")
	require.NotNil(t, sub.Receipt.CustTin)
	assert.Equal(t, "998000003", *sub.Receipt.CustTin)
	require.NotNil(t, sub.Receipt.CustMblNo)
	assert.Equal(t, "0788123456", *sub.Receipt.CustMblNo)
	require.NotNil(t, sub.CustTin)
	assert.Equal(t, "998000003", *sub.CustTin)
}

func TestTransform_FechaConHoraUsaLaParteDeFecha(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000109",
		Date:          "2024-07-10 08:30:00",
		LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)
	assert.Equal(t, "20240710", sub.SalesDt)
}

func TestTransform_FechaInvalidaUsaHoy(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000106",
		Date:          "no es fecha",
		LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)
	assert.Equal(t, "20240715", sub.SalesDt)
	assert.Equal(t, "20240715103045", sub.CfmDt)
}

func TestTransform_ClienteSinNombre(t *testing.T) {
	doc := &entity.SourceDocument{
		InvoiceNumber: "INV-000107",
		LineItems:     []entity.LineItem{{Name: "X", Rate: dec("100"), Quantity: decp("1")}},
	}

	sub, err := newTestTransformer().Transform(doc, entity.KindInvoice, 0)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Customer", sub.CustNm)
}
