package vsdc

import (
	"strings"

	"github.com/tu-usuario/vsdc-relay/internal/domain/entity"
)

// Nombres canónicos de los campos personalizados. Las versiones viejas de la
// integración usan cf_custtin (alcance de contacto) en lugar de
// cf_customer_tin (alcance de documento); ambos se consultan.
const (
	FieldBusinessTIN  = "cf_tin"
	FieldCustomerTIN  = "cf_customer_tin"
	FieldPurchaseCode = "cf_purchase_code"
	FieldOrgName      = "cf_organizationname"
	FieldOrgAddress   = "cf_seller_company_address"
	FieldRefundReason = "cf_refund_reason"

	contactFieldCustomerTIN = "cf_custtin"
)

// Identifiers identificadores fiscales resueltos del documento origen.
// CustomerTIN y PurchaseCode vacíos son válidos para muchos tipos de venta;
// un BusinessTIN vacío lo decide el caller (aquí no es fatal).
type Identifiers struct {
	BusinessTIN  string
	CustomerTIN  string
	PurchaseCode string
}

// extractor una estrategia de extracción: nombre canónico -> valor (ya
// recortado) o vacío si la fuente no lo tiene.
type extractor func(name string) string

// DocumentFields abstrae las formas en que un documento origen transporta sus
// campos personalizados (mapa hash y lista de pares {api_name, value}), en los
// dos alcances que maneja la plataforma: documento y contacto. Cada consulta
// recorre una lista ordenada de estrategias y se queda con el primer valor no
// vacío, en vez de encadenar fallbacks a mano en cada call site.
type DocumentFields struct {
	document []extractor
	contact  []extractor
}

// NewDocumentFields construye la vista de campos sobre el documento.
func NewDocumentFields(doc *entity.SourceDocument) *DocumentFields {
	return &DocumentFields{
		document: []extractor{
			hashExtractor(doc.CustomFieldHash),
			listExtractor(doc.CustomFields),
		},
		contact: []extractor{
			hashExtractor(doc.Contact.CustomFieldHash),
			listExtractor(doc.Contact.CustomFields),
		},
	}
}

// Document busca un campo con alcance de documento.
func (f *DocumentFields) Document(name string) string {
	return first(f.document, name)
}

// Contact busca un campo con alcance de contacto (cliente).
func (f *DocumentFields) Contact(name string) string {
	return first(f.contact, name)
}

func first(chain []extractor, name string) string {
	for _, ex := range chain {
		if v := ex(name); v != "" {
			return v
		}
	}
	return ""
}

func hashExtractor(hash map[string]any) extractor {
	return func(name string) string {
		if hash == nil {
			return ""
		}
		return entity.FieldAsString(hash[name])
	}
}

func listExtractor(pairs []entity.CustomFieldPair) extractor {
	return func(name string) string {
		for _, p := range pairs {
			if strings.EqualFold(strings.TrimSpace(p.APIName), name) {
				return entity.FieldAsString(p.Value)
			}
		}
		return ""
	}
}

// ResolveIdentifiers resuelve TIN del negocio, TIN del cliente y código de
// autorización de compra con el orden de prioridad fijo del protocolo:
// hash del documento, lista del documento y, solo para el TIN del cliente,
// los campos con alcance de contacto bajo su nombre histórico. El TIN del
// negocio cae al valor configurado; los otros dos no tienen default.
func ResolveIdentifiers(doc *entity.SourceDocument, defaultBusinessTIN string) Identifiers {
	fields := NewDocumentFields(doc)

	ids := Identifiers{
		BusinessTIN:  fields.Document(FieldBusinessTIN),
		CustomerTIN:  fields.Document(FieldCustomerTIN),
		PurchaseCode: fields.Document(FieldPurchaseCode),
	}
	if ids.CustomerTIN == "" {
		ids.CustomerTIN = fields.Contact(contactFieldCustomerTIN)
	}
	if ids.BusinessTIN == "" {
		ids.BusinessTIN = strings.TrimSpace(defaultBusinessTIN)
	}
	return ids
}
