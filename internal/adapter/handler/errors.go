package handler

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/inventario/internal/core/domain"
)

var notFoundMessages = map[domain.Entity]string{
	domain.EntityProduct: "Producto no encontrado",
	domain.EntitySeller:  "Vendedor no encontrado",
	domain.EntitySale:    "Venta no encontrada",
}

var conflictMessages = map[domain.Entity]string{
	domain.EntitySeller: "El vendedor tiene ventas asociadas",
	domain.EntitySale:   "La venta hace referencia a un registro inexistente",
}

// classify maps an operation error to an HTTP status and a message safe to show.
func classify(err error) (int, string) {
	var nf *domain.NotFoundError
	var ve *domain.ValidationError
	var ce *domain.ConstraintError
	switch {
	case errors.As(err, &nf):
		if msg, ok := notFoundMessages[nf.Entity]; ok {
			return http.StatusNotFound, msg
		}
		return http.StatusNotFound, "Registro no encontrado"
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, "Campo inválido: " + ve.Error()
	case errors.As(err, &ce):
		if msg, ok := conflictMessages[ce.Entity]; ok {
			return http.StatusConflict, msg
		}
		return http.StatusConflict, "Violación de integridad referencial"
	default:
		return http.StatusInternalServerError, "Error interno"
	}
}

func grpcError(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrValidation):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrConstraintViolation):
		code = codes.FailedPrecondition
	}
	_, msg := classify(err)
	return status.Error(code, msg)
}
