// Package vsdcapi implementa el cliente HTTP/JSON contra el dispositivo
// fiscal VSDC de la RRA (endpoint saveSales o equivalente).
package vsdcapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tu-usuario/vsdc-relay/internal/application/relay"
	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	"github.com/tu-usuario/vsdc-relay/pkg/logger"
)

// maxResponseBytes límite de lectura de la respuesta; el VSDC responde
// registros pequeños y cualquier cosa mayor es una respuesta rota.
const maxResponseBytes = 1 << 20

// Client implementa relay.FiscalSubmitter sobre HTTP/JSON. El protocolo del
// VSDC siempre responde HTTP 200 cuando el dispositivo procesó la petición;
// éxito o rechazo de negocio viaja en el resultCd del cuerpo. Cualquier status
// distinto de 200 es por tanto un fallo de transporte, no de negocio.
type Client struct {
	apiURL     string
	httpClient *http.Client
	log        *logger.Logger
}

var _ relay.FiscalSubmitter = (*Client)(nil)

// NewClient construye el cliente con la URL del dispositivo y su timeout.
func NewClient(apiURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.WithComponent("vsdc-client"),
	}
}

// Submit envía el registro fiscal y decodifica la respuesta. Todo error
// devuelto es *relay.TransportError con la clase de fallo; una respuesta
// HTTP 200 con JSON válido nunca es error aunque el resultCd sea de rechazo.
func (c *Client) Submit(ctx context.Context, submission *entity.FiscalSubmission) (*entity.FiscalResponse, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return nil, &relay.TransportError{Kind: relay.TransportMalformed, Err: fmt.Errorf("serializar envío: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &relay.TransportError{Kind: relay.TransportConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyDialError(ctx, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &relay.TransportError{Kind: relay.TransportConnection, Err: fmt.Errorf("leer respuesta: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("el VSDC respondió con status HTTP inesperado")
		return nil, &relay.TransportError{
			Kind:   relay.TransportHTTP,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("cuerpo: %s", truncate(rawBody, 256)),
		}
	}

	var fiscal entity.FiscalResponse
	if err := json.Unmarshal(rawBody, &fiscal); err != nil {
		return nil, &relay.TransportError{
			Kind: relay.TransportMalformed,
			Err:  fmt.Errorf("respuesta 200 con cuerpo ilegible: %w", err),
		}
	}
	return &fiscal, nil
}

// classifyDialError separa timeouts de los demás fallos de conexión.
func classifyDialError(ctx context.Context, err error) *relay.TransportError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &relay.TransportError{Kind: relay.TransportTimeout, Err: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &relay.TransportError{Kind: relay.TransportTimeout, Err: err}
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return &relay.TransportError{Kind: relay.TransportTimeout, Err: err}
	}
	return &relay.TransportError{Kind: relay.TransportConnection, Err: err}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
