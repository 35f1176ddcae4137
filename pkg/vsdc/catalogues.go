// Package vsdc contiene catálogos y validaciones alineados al protocolo del
// dispositivo fiscal virtual VSDC (EBM 2.1, Rwanda Revenue Authority).
package vsdc

// =============================================================================
// Tipos de impuesto (taxTyCd): cuatro cubetas paralelas A-D del protocolo.
// Solo A (exento/tasa cero) y B (tasa estándar 18%) se producen hoy; C cubre
// tasas no estándar y D queda reservada sin uso.
// =============================================================================

const (
	TaxCategoryA = "A" // Exento / tasa cero
	TaxCategoryB = "B" // Tasa estándar (18%)
	TaxCategoryC = "C" // Otras tasas
	TaxCategoryD = "D" // Reservada, no poblada por la lógica actual
)

// StandardVATRate tasa estándar de IVA en Ruanda (%).
const StandardVATRate = 18

// =============================================================================
// Tipos de recibo y venta (rcptTyCd / salesTyCd)
// =============================================================================

const (
	ReceiptTypeSale   = "S" // Venta (factura)
	ReceiptTypeRefund = "R" // Reembolso (nota crédito)

	SalesTypeNormal = "N" // Venta normal

	SalesStatusApproved = "02" // Estado de venta aprobada

	PaymentTypeCash = "01" // Forma de pago por defecto

	PackagingUnitDefault = "NT" // pkgUnitCd por defecto
	QuantityUnitDefault  = "U"  // qtyUnitCd por defecto
)

// =============================================================================
// Códigos de resultado (resultCd): el VSDC responde siempre HTTP 200 y señala
// éxito o rechazo únicamente con este código en el cuerpo.
// =============================================================================

const (
	ResultSuccess                = "000"
	ResultPurchaseCodeMandatory  = "881"
	ResultPurchaseCodeInvalid    = "882"
	ResultPurchaseCodeUsed       = "883"
	ResultCustomerTINInvalid     = "884"
	ResultOriginalNotFound       = "885" // Solo notas crédito
	ResultCreditAlreadyIssued    = "886" // Solo notas crédito
	ResultDeviceNotRegistered    = "901"
	ResultMalformedRequest       = "910"
	ResultSalesDataNotReceivable = "921"
	ResultOutOfSequence          = "922"
	ResultRefundExceedsOriginal  = "923" // Solo notas crédito
	ResultOverlappedData         = "994"
)

// Rejection describe cómo se traduce un código de rechazo del VSDC hacia el
// exterior: categoría estable para el integrador, status HTTP sugerido y si
// el código es transitorio (reintentable sin corregir el payload).
type Rejection struct {
	Category  string
	Status    int
	Retryable bool
}

// invoiceRejections tabla de rechazo para facturas (ventas).
var invoiceRejections = map[string]Rejection{
	ResultPurchaseCodeMandatory:  {Category: "purchase_code_mandatory", Status: 400},
	ResultPurchaseCodeInvalid:    {Category: "purchase_code_invalid", Status: 400},
	ResultPurchaseCodeUsed:       {Category: "purchase_code_used", Status: 409},
	ResultCustomerTINInvalid:     {Category: "customer_tin_invalid", Status: 400},
	ResultDeviceNotRegistered:    {Category: "device_not_registered", Status: 401},
	ResultMalformedRequest:       {Category: "malformed_request", Status: 400},
	ResultSalesDataNotReceivable: {Category: "sales_data_not_receivable", Status: 422},
	ResultOutOfSequence:          {Category: "out_of_sequence", Status: 422},
	ResultOverlappedData:         {Category: "overlapped_data", Status: 409, Retryable: true},
}

// creditNoteRejections tabla de rechazo para notas crédito (reembolsos).
// Comparte los códigos de factura y agrega los específicos de reembolso;
// los códigos compartidos clasifican idéntico en ambas tablas.
var creditNoteRejections = map[string]Rejection{
	ResultOriginalNotFound:      {Category: "original_invoice_not_found", Status: 400},
	ResultCreditAlreadyIssued:   {Category: "credit_already_issued", Status: 409},
	ResultRefundExceedsOriginal: {Category: "refund_exceeds_original", Status: 400},
}

// unknownRejection clasificación por defecto para códigos fuera de catálogo.
var unknownRejection = Rejection{Category: "unprocessable", Status: 422}

// LookupRejection devuelve la clasificación del código de resultado para el
// tipo de documento dado. creditNote amplía la tabla base de facturas.
func LookupRejection(resultCode string, creditNote bool) Rejection {
	if r, ok := invoiceRejections[resultCode]; ok {
		return r
	}
	if creditNote {
		if r, ok := creditNoteRejections[resultCode]; ok {
			return r
		}
	}
	return unknownRejection
}
