package relay

import "github.com/tu-usuario/vsdc-relay/internal/domain/entity"

// OutcomeStatus estado terminal del procesamiento de un webhook.
type OutcomeStatus string

const (
	OutcomeSucceeded       OutcomeStatus = "succeeded"        // el VSDC aceptó el documento
	OutcomeRejected        OutcomeStatus = "rejected"         // el VSDC respondió con un resultCd de rechazo
	OutcomeTransportFailed OutcomeStatus = "transport_failed" // no hubo respuesta interpretable del VSDC
	OutcomeTransformFailed OutcomeStatus = "transform_failed" // el documento origen no pasó la validación
)

// ProcessingOutcome resultado completo de procesar un documento, con todo lo
// necesario para responder el webhook y auditar sin volver a consultar nada.
// Exactamente uno de los estados terminales aplica; los campos opcionales se
// pueblan según el estado alcanzado.
type ProcessingOutcome struct {
	Status           OutcomeStatus
	Kind             entity.DocumentKind
	SourceDocumentID string
	DocumentNumber   int64

	Submission *entity.FiscalSubmission // nil si la transformación falló
	Response   *entity.FiscalResponse   // nil salvo Succeeded / Rejected

	Interpretation *Interpretation // nil salvo Succeeded / Rejected
	TransportErr   *TransportError // solo TransportFailed
	ValidationErr  *ValidationError

	// Renderizado del recibo: mejor esfuerzo, solo en éxito. Un fallo aquí no
	// cambia Status; queda anotado para el log de actividad.
	ReceiptFileRef string
	RenderErr      error

	TimingMs int64
}

// HTTPStatus código HTTP sugerido para la respuesta del webhook.
func (o *ProcessingOutcome) HTTPStatus() int {
	switch o.Status {
	case OutcomeSucceeded:
		return 200
	case OutcomeRejected:
		return o.Interpretation.Status
	case OutcomeTransformFailed:
		return 400
	case OutcomeTransportFailed:
		if o.TransportErr != nil && o.TransportErr.Kind == TransportTimeout {
			return 504
		}
		return 502
	}
	return 500
}

// Category categoría estable del desenlace para métricas y auditoría.
func (o *ProcessingOutcome) Category() string {
	switch o.Status {
	case OutcomeSucceeded:
		return "success"
	case OutcomeRejected:
		return o.Interpretation.Category
	case OutcomeTransformFailed:
		return "validation_error"
	case OutcomeTransportFailed:
		return "transport_error"
	}
	return "unknown"
}
