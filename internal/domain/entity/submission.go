package entity

import "github.com/shopspring/decimal"

// El VSDC espera los montos como números JSON, no como strings entrecomillados.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TaxBreakdown cuatro cubetas paralelas de impuesto (A–D) con acumuladores de
// base gravable y de impuesto. La lógica actual solo puebla A y B; C queda
// para tasas no estándar y D está reservada sin uso.
type TaxBreakdown struct {
	TaxableA decimal.Decimal
	TaxableB decimal.Decimal
	TaxableC decimal.Decimal
	TaxableD decimal.Decimal
	TaxA     decimal.Decimal
	TaxB     decimal.Decimal
	TaxC     decimal.Decimal
	TaxD     decimal.Decimal
}

// Add acumula una base gravable y su impuesto en la cubeta de la categoría.
// Categorías fuera de A–C caen en C (la cubeta de "otras tasas").
func (b *TaxBreakdown) Add(category string, taxable, tax decimal.Decimal) {
	switch category {
	case "A":
		b.TaxableA = b.TaxableA.Add(taxable)
		b.TaxA = b.TaxA.Add(tax)
	case "B":
		b.TaxableB = b.TaxableB.Add(taxable)
		b.TaxB = b.TaxB.Add(tax)
	default:
		b.TaxableC = b.TaxableC.Add(taxable)
		b.TaxC = b.TaxC.Add(tax)
	}
}

// Round redondea cada acumulador a 2 decimales. Se invoca una sola vez al
// terminar la acumulación (cada aporte por ítem ya venía redondeado).
func (b *TaxBreakdown) Round() {
	b.TaxableA = b.TaxableA.Round(2)
	b.TaxableB = b.TaxableB.Round(2)
	b.TaxableC = b.TaxableC.Round(2)
	b.TaxableD = b.TaxableD.Round(2)
	b.TaxA = b.TaxA.Round(2)
	b.TaxB = b.TaxB.Round(2)
	b.TaxC = b.TaxC.Round(2)
	b.TaxD = b.TaxD.Round(2)
}

// TotalTaxable suma de las bases gravables de todas las cubetas.
func (b *TaxBreakdown) TotalTaxable() decimal.Decimal {
	return b.TaxableA.Add(b.TaxableB).Add(b.TaxableC).Add(b.TaxableD).Round(2)
}

// TotalTax suma de los impuestos de todas las cubetas.
func (b *TaxBreakdown) TotalTax() decimal.Decimal {
	return b.TaxA.Add(b.TaxB).Add(b.TaxC).Add(b.TaxD).Round(2)
}

// FiscalItem línea de la venta en el formato de itemList del VSDC.
type FiscalItem struct {
	ItemSeq       int              `json:"itemSeq"`
	ItemCd        string           `json:"itemCd"`
	ItemClsCd     string           `json:"itemClsCd"`
	ItemNm        string           `json:"itemNm"`
	Bcd           *string          `json:"bcd"`
	PkgUnitCd     string           `json:"pkgUnitCd"`
	Pkg           int              `json:"pkg"`
	QtyUnitCd     string           `json:"qtyUnitCd"`
	Qty           decimal.Decimal  `json:"qty"`
	Prc           decimal.Decimal  `json:"prc"`
	SplyAmt       decimal.Decimal  `json:"splyAmt"`
	DcRt          decimal.Decimal  `json:"dcRt"`
	DcAmt         decimal.Decimal  `json:"dcAmt"`
	IsrccCd       *string          `json:"isrccCd"`
	IsrccNm       *string          `json:"isrccNm"`
	IsrcRt        *decimal.Decimal `json:"isrcRt"`
	IsrcAmt       *decimal.Decimal `json:"isrcAmt"`
	TaxTyCd       string           `json:"taxTyCd"`
	TaxblAmt      decimal.Decimal  `json:"taxblAmt"`
	TaxAmt        decimal.Decimal  `json:"taxAmt"`
	TotAmt        decimal.Decimal  `json:"totAmt"`
}

// ReceiptBlock sub-registro "receipt" del envío: datos del comercio que van
// impresos en el recibo físico.
type ReceiptBlock struct {
	CustTin      *string `json:"custTin"`
	CustMblNo    *string `json:"custMblNo"`
	RptNo        int     `json:"rptNo"`
	TrdeNm       string  `json:"trdeNm"`
	Adrs         string  `json:"adrs"`
	TopMsg       string  `json:"topMsg"`
	BtmMsg       string  `json:"btmMsg"`
	PrchrAcptcYn string  `json:"prchrAcptcYn"`
}

// FiscalSubmission registro completo de salida hacia el VSDC. Los nombres de
// campo JSON son parte del contrato del protocolo y no se renombran.
// Se construye una vez por documento y no se muta después.
type FiscalSubmission struct {
	Tin          string  `json:"tin"`
	BhfID        string  `json:"bhfId"`
	InvcNo       int64   `json:"invcNo"`
	OrgInvcNo    int64   `json:"orgInvcNo"`
	CustTin      *string `json:"custTin"`
	PrcOrdCd     *string `json:"prcOrdCd"`
	CustNm       string  `json:"custNm"`
	SalesTyCd    string  `json:"salesTyCd"`
	RcptTyCd     string  `json:"rcptTyCd"`
	PmtTyCd      string  `json:"pmtTyCd"`
	SalesSttsCd  string  `json:"salesSttsCd"`
	CfmDt        string  `json:"cfmDt"`
	SalesDt      string  `json:"salesDt"`
	StockRlsDt   string  `json:"stockRlsDt"`
	CnclReqDt    *string `json:"cnclReqDt"`
	CnclDt       *string `json:"cnclDt"`
	RfdDt        *string `json:"rfdDt"`
	RfdRsnCd     *string `json:"rfdRsnCd"`
	TotItemCnt   int     `json:"totItemCnt"`

	TaxblAmtA decimal.Decimal `json:"taxblAmtA"`
	TaxblAmtB decimal.Decimal `json:"taxblAmtB"`
	TaxblAmtC decimal.Decimal `json:"taxblAmtC"`
	TaxblAmtD decimal.Decimal `json:"taxblAmtD"`
	TaxRtA    decimal.Decimal `json:"taxRtA"`
	TaxRtB    decimal.Decimal `json:"taxRtB"`
	TaxRtC    decimal.Decimal `json:"taxRtC"`
	TaxRtD    decimal.Decimal `json:"taxRtD"`
	TaxAmtA   decimal.Decimal `json:"taxAmtA"`
	TaxAmtB   decimal.Decimal `json:"taxAmtB"`
	TaxAmtC   decimal.Decimal `json:"taxAmtC"`
	TaxAmtD   decimal.Decimal `json:"taxAmtD"`

	TotTaxblAmt decimal.Decimal `json:"totTaxblAmt"`
	TotTaxAmt   decimal.Decimal `json:"totTaxAmt"`
	TotAmt      decimal.Decimal `json:"totAmt"`

	PrchrAcptcYn string  `json:"prchrAcptcYn"`
	Remark       *string `json:"remark"`
	RegrID       string  `json:"regrId"`
	RegrNm       string  `json:"regrNm"`
	ModrID       string  `json:"modrId"`
	ModrNm       string  `json:"modrNm"`

	Receipt  ReceiptBlock `json:"receipt"`
	ItemList []FiscalItem `json:"itemList"`
}

// ApplyBreakdown vuelca las cubetas (ya redondeadas) y los grandes totales
// sobre los campos planos del protocolo.
func (s *FiscalSubmission) ApplyBreakdown(b *TaxBreakdown) {
	s.TaxblAmtA = b.TaxableA
	s.TaxblAmtB = b.TaxableB
	s.TaxblAmtC = b.TaxableC
	s.TaxblAmtD = b.TaxableD
	s.TaxAmtA = b.TaxA
	s.TaxAmtB = b.TaxB
	s.TaxAmtC = b.TaxC
	s.TaxAmtD = b.TaxD
	s.TotTaxblAmt = b.TotalTaxable()
	s.TotTaxAmt = b.TotalTax()
	s.TotAmt = b.TotalTaxable()
}
