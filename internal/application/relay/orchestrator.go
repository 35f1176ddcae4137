package relay

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	"github.com/tu-usuario/vsdc-relay/internal/domain/repository"
	"github.com/tu-usuario/vsdc-relay/pkg/logger"
)

// WebhookOrchestrator coordina el pipeline completo de un webhook: resolución
// idempotente del número, transformación, envío al VSDC, interpretación del
// resultado, renderizado del recibo y auditoría.
//
// Entregas repetidas del mismo documento se serializan con singleflight por
// clave (tipo + id del documento origen): a lo sumo un envío en vuelo por
// documento, y los duplicados concurrentes comparten el resultado.
type WebhookOrchestrator struct {
	transformer  *PayloadTransformer
	submitter    FiscalSubmitter
	renderer     ReceiptRenderer
	transactions repository.FiscalTransactionRepository
	activities   repository.WebhookActivityRepository
	metrics      Metrics
	log          *logger.Logger
	inflight     singleflight.Group
}

// NewWebhookOrchestrator construye el orquestador. renderer y metrics pueden
// ser nil (sin PDF, sin instrumentación).
func NewWebhookOrchestrator(
	transformer *PayloadTransformer,
	submitter FiscalSubmitter,
	renderer ReceiptRenderer,
	transactions repository.FiscalTransactionRepository,
	activities repository.WebhookActivityRepository,
	metrics Metrics,
	log *logger.Logger,
) *WebhookOrchestrator {
	return &WebhookOrchestrator{
		transformer:  transformer,
		submitter:    submitter,
		renderer:     renderer,
		transactions: transactions,
		activities:   activities,
		metrics:      metrics,
		log:          log.WithComponent("orchestrator"),
	}
}

// Process procesa un documento de principio a fin y devuelve el desenlace.
// Nunca devuelve error: todo fallo queda capturado dentro del outcome para que
// el handler HTTP responda con el código y cuerpo correctos.
func (o *WebhookOrchestrator) Process(ctx context.Context, kind entity.DocumentKind, doc *entity.SourceDocument) *ProcessingOutcome {
	key := kind.String() + ":" + doc.Identifier(kind)

	result, _, shared := o.inflight.Do(key, func() (any, error) {
		return o.process(ctx, kind, doc), nil
	})
	outcome := result.(*ProcessingOutcome)
	if shared {
		o.log.Info().Str("key", key).Msg("entrega duplicada concurrente; se comparte el resultado en vuelo")
	}
	return outcome
}

func (o *WebhookOrchestrator) process(ctx context.Context, kind entity.DocumentKind, doc *entity.SourceDocument) *ProcessingOutcome {
	started := time.Now()
	sourceID := doc.Identifier(kind)
	outcome := &ProcessingOutcome{
		Kind:             kind,
		SourceDocumentID: sourceID,
	}

	// ── 1. Número asignado previamente (reentrega del mismo webhook) ──────────
	var assigned int64
	if existing, err := o.transactions.GetBySourceDocument(ctx, kind, sourceID); err != nil {
		o.log.Error().Err(err).Str("document", sourceID).Msg("no se pudo consultar la transacción previa; se resuelve el número de cero")
	} else if existing != nil {
		assigned = existing.DocumentNumber
		o.log.Info().Str("document", sourceID).Int64("invc_no", assigned).Msg("reentrega detectada; se reutiliza el número ya asignado")
	}

	// ── 2. Transformación ─────────────────────────────────────────────────────
	submission, err := o.transformer.Transform(doc, kind, assigned)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			outcome.Status = OutcomeTransformFailed
			outcome.ValidationErr = vErr
		} else {
			outcome.Status = OutcomeTransformFailed
			outcome.ValidationErr = &ValidationError{Reason: err.Error()}
		}
		o.finish(ctx, outcome, started)
		return outcome
	}
	outcome.Submission = submission
	outcome.DocumentNumber = submission.InvcNo

	// ── 3. Envío al VSDC ──────────────────────────────────────────────────────
	// A partir de aquí el envío no se cancela aunque el webhook entrante se
	// caiga: un registro fiscal emitido a medias es peor que una respuesta
	// tardía. El timeout propio del cliente sigue aplicando.
	submitCtx := context.WithoutCancel(ctx)
	submitStarted := time.Now()
	response, err := o.submitter.Submit(submitCtx, submission)
	if o.metrics != nil {
		o.metrics.ObserveSubmission(time.Since(submitStarted))
	}
	if err != nil {
		outcome.Status = OutcomeTransportFailed
		var tErr *TransportError
		if errors.As(err, &tErr) {
			outcome.TransportErr = tErr
		} else {
			outcome.TransportErr = &TransportError{Kind: TransportConnection, Err: err}
		}
		o.log.Error().Err(err).Str("document", sourceID).Int64("invc_no", submission.InvcNo).Msg("fallo de transporte contra el VSDC")
		o.finish(submitCtx, outcome, started)
		return outcome
	}
	outcome.Response = response

	// ── 4. Interpretación del resultado ───────────────────────────────────────
	interp := Interpret(response, kind)
	outcome.Interpretation = &interp
	if !interp.Success {
		outcome.Status = OutcomeRejected
		o.log.Warn().
			Str("document", sourceID).
			Str("result_cd", interp.Code).
			Str("category", interp.Category).
			Bool("retryable", interp.Retryable).
			Msg("documento rechazado por el VSDC")
		o.finish(submitCtx, outcome, started)
		return outcome
	}
	outcome.Status = OutcomeSucceeded
	o.log.Info().
		Str("document", sourceID).
		Int64("invc_no", submission.InvcNo).
		Str("rcpt_no", response.ReceiptNumber()).
		Msg("documento aceptado por el VSDC")

	// ── 5. Persistencia de la transacción (habilita la reentrega idempotente) ─
	o.saveTransaction(submitCtx, kind, sourceID, submission, response, doc)

	// ── 6. Recibo PDF, mejor esfuerzo ─────────────────────────────────────────
	if o.renderer != nil {
		fileRef, rErr := o.renderer.RenderReceipt(submitCtx, submission, response, doc)
		if rErr != nil {
			outcome.RenderErr = rErr
			o.log.Error().Err(rErr).Str("document", sourceID).Msg("no se pudo generar el recibo PDF")
		} else {
			outcome.ReceiptFileRef = fileRef
		}
	}

	o.finish(submitCtx, outcome, started)
	return outcome
}

// finish cierra el outcome: timing, métricas y registro de actividad. El
// registro de actividad es auditoría, no parte del contrato; sus fallos solo
// se loguean.
func (o *WebhookOrchestrator) finish(ctx context.Context, outcome *ProcessingOutcome, started time.Time) {
	elapsed := time.Since(started)
	outcome.TimingMs = elapsed.Milliseconds()

	if o.metrics != nil {
		o.metrics.ObserveProcessed(outcome.Kind, outcome.Category(), elapsed)
	}
	if o.activities == nil {
		return
	}
	if err := o.activities.Create(ctx, o.buildActivity(outcome)); err != nil {
		o.log.Error().Err(err).Str("document", outcome.SourceDocumentID).Msg("no se pudo registrar la actividad del webhook")
	}
}

func (o *WebhookOrchestrator) buildActivity(outcome *ProcessingOutcome) *entity.WebhookActivity {
	now := time.Now()
	activity := &entity.WebhookActivity{
		ID:               uuid.NewString(),
		Kind:             outcome.Kind,
		SourceDocumentID: outcome.SourceDocumentID,
		Status:           entity.ActivityStatusFailed,
		OutcomeCategory:  outcome.Category(),
		DocumentNumber:   outcome.DocumentNumber,
		PDFGenerated:     outcome.ReceiptFileRef != "",
		PDFFilename:      outcome.ReceiptFileRef,
		TimingMs:         outcome.TimingMs,
		CreatedAt:        now,
		ProcessedAt:      now,
	}
	if outcome.Submission != nil {
		activity.BusinessTIN = outcome.Submission.Tin
	}
	switch outcome.Status {
	case OutcomeSucceeded:
		activity.Status = entity.ActivityStatusSuccess
		activity.ResultCode = outcome.Interpretation.Code
		activity.ResultMessage = outcome.Interpretation.Message
		activity.ReceiptNumber = outcome.Response.ReceiptNumber()
	case OutcomeRejected:
		activity.ResultCode = outcome.Interpretation.Code
		activity.ResultMessage = outcome.Interpretation.Message
	case OutcomeTransformFailed:
		activity.ErrorMessage = outcome.ValidationErr.Error()
	case OutcomeTransportFailed:
		activity.ErrorMessage = outcome.TransportErr.Error()
	}
	return activity
}

func (o *WebhookOrchestrator) saveTransaction(ctx context.Context, kind entity.DocumentKind, sourceID string, submission *entity.FiscalSubmission, response *entity.FiscalResponse, doc *entity.SourceDocument) {
	tx := &entity.FiscalTransaction{
		ID:               uuid.NewString(),
		Kind:             kind,
		SourceDocumentID: sourceID,
		DocumentNumber:   submission.InvcNo,
		ReceiptNumber:    response.ReceiptNumber(),
		CustomerName:     submission.CustNm,
		TotalAmount:      submission.TotAmt,
		TaxAmount:        submission.TotTaxAmt,
		ReceiptSignature: response.Data.RcptSign,
		InternalData:     response.Data.IntrlData,
		SdcID:            response.Data.SdcID,
		CreatedAt:        time.Now(),
	}
	if submission.CustTin != nil {
		tx.CustomerTIN = *submission.CustTin
	}
	if err := o.transactions.Save(ctx, tx); err != nil {
		o.log.Error().Err(err).Str("document", sourceID).Msg("no se pudo persistir la transacción fiscal")
	}
}
