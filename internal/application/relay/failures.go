package relay

import "fmt"

// ValidationError documento origen malformado o incompleto. Siempre causado
// por el cliente; nunca se reintenta.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "documento inválido: " + e.Reason
}

// TransportKind clase de fallo de transporte contra el VSDC.
type TransportKind string

const (
	TransportConnection TransportKind = "connection"         // conexión rechazada / DNS / reset
	TransportTimeout    TransportKind = "timeout"            // se agotó el timeout configurado
	TransportHTTP       TransportKind = "http"               // status HTTP distinto de 200
	TransportMalformed  TransportKind = "malformed-response" // 200 con cuerpo no-JSON o ilegible
)

// TransportError fallo de red o de protocolo al hablar con el VSDC. Seguro de
// reintentar con backoff solo para envíos nuevos; si el resultado remoto es
// desconocido, el reintento es decisión del caller.
type TransportError struct {
	Kind   TransportKind
	Status int // solo para Kind == TransportHTTP
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportHTTP:
		return fmt.Sprintf("vsdc: respuesta HTTP %d", e.Status)
	default:
		return fmt.Sprintf("vsdc: fallo de transporte (%s): %v", e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
