package relay

import (
	"context"
	"time"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

// FiscalSubmitter puerto de salida hacia el dispositivo fiscal. La
// implementación concreta usa HTTP/JSON; para tests se inyecta un fake.
// Un error siempre es *TransportError; cualquier respuesta HTTP 200 con JSON
// válido es una FiscalResponse, independiente del resultado de negocio.
type FiscalSubmitter interface {
	Submit(ctx context.Context, submission *entity.FiscalSubmission) (*entity.FiscalResponse, error)
}

// ReceiptRenderer colaborador de renderizado del recibo (PDF). Solo se invoca
// tras un envío exitoso; su fallo no degrada el resultado fiscal.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, submission *entity.FiscalSubmission, response *entity.FiscalResponse, doc *entity.SourceDocument) (fileRef string, err error)
}

// Metrics instrumentación del pipeline; la implementación vive en
// observability y puede ser nil en tests.
type Metrics interface {
	ObserveProcessed(kind entity.DocumentKind, category string, elapsed time.Duration)
	ObserveSubmission(elapsed time.Duration)
}

// BusinessProfile datos del contribuyente usados como fallback durante la
// transformación y para el bloque receipt del envío.
type BusinessProfile struct {
	TIN           string
	BranchID      string
	TradeName     string
	Address       string
	TopMessage    string
	BottomMessage string
	RegistrarID   string
	RegistrarName string
	RefundReason  string // rfdRsnCd por defecto para notas crédito
}
