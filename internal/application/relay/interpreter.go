package relay

import (
	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
	pkgvsdc "github.com/tu-usuario/vsdc-relay/pkg/vsdc"
)

// Interpretation clasificación de la respuesta del VSDC: resultado hacia
// afuera (categoría estable + status HTTP sugerido) y si la condición es
// transitoria. Ningún componente del pipeline reintenta por su cuenta; el
// flag Retryable es información para el caller externo.
type Interpretation struct {
	Success   bool
	Code      string
	Message   string
	Category  string
	Status    int
	Retryable bool
}

// Interpret clasifica el resultCd de la respuesta con la tabla fija del tipo
// de documento: "000" es éxito, cualquier otro código es un rechazo de negocio
// con categoría tomada del catálogo (las notas crédito tienen dos códigos
// adicionales; los compartidos clasifican idéntico en ambas tablas). Códigos
// fuera de catálogo caen en la clasificación genérica "unprocessable".
func Interpret(resp *entity.FiscalResponse, kind entity.DocumentKind) Interpretation {
	if resp.ResultCd == pkgvsdc.ResultSuccess {
		return Interpretation{
			Success:  true,
			Code:     resp.ResultCd,
			Message:  resp.ResultMsg,
			Category: "success",
			Status:   200,
		}
	}

	rejection := pkgvsdc.LookupRejection(resp.ResultCd, kind.IsCreditNote())
	return Interpretation{
		Code:      resp.ResultCd,
		Message:   resp.ResultMsg,
		Category:  rejection.Category,
		Status:    rejection.Status,
		Retryable: rejection.Retryable,
	}
}
