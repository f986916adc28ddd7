package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP: {code, message} estructurado.
// El core nunca formatea texto para el usuario final; la UI traduce el code.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
