package entity

import (
	"encoding/json"
	"strings"
)

// FiscalResponseData sub-registro "data" de la respuesta del VSDC: número de
// recibo y artefactos criptográficos que prueban la autenticidad del recibo
// impreso (firma y datos internos para el QR).
type FiscalResponseData struct {
	RcptNo           json.Number `json:"rcptNo"`
	TotRcptNo        json.Number `json:"totRcptNo"`
	IntrlData        string      `json:"intrlData"`
	RcptSign         string      `json:"rcptSign"`
	VsdcRcptPbctDate string      `json:"vsdcRcptPbctDate"`
	SdcID            string      `json:"sdcId"`
	MrcNo            string      `json:"mrcNo"`
}

// FiscalResponse respuesta del VSDC. El protocolo señala éxito o rechazo solo
// con resultCd; el status HTTP siempre es 200 cuando el dispositivo respondió.
// Se trata como autoritativa: su rcptNo, si viene, prevalece sobre cualquier
// otro candidato a número de documento aguas abajo.
type FiscalResponse struct {
	ResultCd  string             `json:"resultCd"`
	ResultMsg string             `json:"resultMsg"`
	Data      FiscalResponseData `json:"data"`
}

// ReceiptNumber número de recibo asignado por el dispositivo; vacío si la
// respuesta no trae uno.
func (r *FiscalResponse) ReceiptNumber() string {
	return strings.TrimSpace(r.Data.RcptNo.String())
}

// HasSignature indica si la respuesta trae material suficiente para el QR de
// verificación (firma de recibo o datos internos).
func (r *FiscalResponse) HasSignature() bool {
	return strings.TrimSpace(r.Data.RcptSign) != "" || strings.TrimSpace(r.Data.IntrlData) != ""
}
