// Package schema coerces submitted form fields into typed inputs and shapes
// persisted records into output representations.
package schema

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/rl1809/inventario/internal/core/domain"
)

// DateLayout is the YYYY-MM-DDTHH:MM layout submitted by datetime-local inputs.
const DateLayout = "2006-01-02T15:04"

// Form field names.
const (
	FieldName      = "nombre"
	FieldPrice     = "precio"
	FieldStock     = "stock"
	FieldRegion    = "region"
	FieldProductID = "producto_id"
	FieldSellerID  = "vendedor_id"
	FieldQuantity  = "cantidad"
	FieldSoldAt    = "fecha_venta"
)

// Limits of the persisted columns: text is varchar(255), precio is decimal(10,2).
const (
	MaxTextLength = 255
	PricePlaces   = 2
)

// maxPrice is the first value a decimal(10,2) column cannot hold.
var maxPrice = decimal.New(1, 8)

// Form binds submitted fields into a tagged struct and validates it, the way
// gin's ShouldBindWith does.
type Form interface {
	Bind(obj any) error
}

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("schema: gin validator engine is not go-playground/validator")
	}
	for tag, fn := range map[string]validator.Func{
		"notblank": validators.NotBlank,
		"precio":   validPrice,
		"entero":   validInteger,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Every field binds as text so that validation, not mapping, rejects bad
// input. Validation walks fields in declaration order, which is the order
// failures are reported in.
type productForm struct {
	Nombre string `form:"nombre" binding:"required,notblank,max=255"`
	Precio string `form:"precio" binding:"required,precio"`
	Stock  string `form:"stock" binding:"required,entero=0"`
}

type sellerForm struct {
	Nombre string `form:"nombre" binding:"required,notblank,max=255"`
	Region string `form:"region" binding:"required,notblank,max=255"`
}

type saleForm struct {
	ProductoID string `form:"producto_id" binding:"required,entero=1"`
	VendedorID string `form:"vendedor_id" binding:"required,entero=1"`
	Cantidad   string `form:"cantidad" binding:"required,entero=1"`
	FechaVenta string `form:"fecha_venta" binding:"required,datetime=2006-01-02T15:04"`
}

type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

type SellerInput struct {
	Name   string
	Region string
}

type SaleInput struct {
	ProductID uint
	SellerID  uint
	Quantity  int
	SoldAt    time.Time
}

// ParseProduct validates nombre, precio and stock in that order.
func ParseProduct(f Form) (ProductInput, error) {
	var pf productForm
	if err := bind(f, &pf); err != nil {
		return ProductInput{}, err
	}
	price, _ := parsePrice(pf.Precio)
	return ProductInput{
		Name:  strings.TrimSpace(pf.Nombre),
		Price: price,
		Stock: atoi(pf.Stock),
	}, nil
}

// ParseSeller validates nombre and region in that order.
func ParseSeller(f Form) (SellerInput, error) {
	var sf sellerForm
	if err := bind(f, &sf); err != nil {
		return SellerInput{}, err
	}
	return SellerInput{
		Name:   strings.TrimSpace(sf.Nombre),
		Region: strings.TrimSpace(sf.Region),
	}, nil
}

// ParseSale validates producto_id, vendedor_id, cantidad and fecha_venta in that order.
func ParseSale(f Form) (SaleInput, error) {
	var sf saleForm
	if err := bind(f, &sf); err != nil {
		return SaleInput{}, err
	}
	soldAt, err := ParseDate(sf.FechaVenta)
	if err != nil {
		return SaleInput{}, err
	}
	return SaleInput{
		ProductID: uint(atoi(sf.ProductoID)),
		SellerID:  uint(atoi(sf.VendedorID)),
		Quantity:  atoi(sf.Cantidad),
		SoldAt:    soldAt,
	}, nil
}

// ParseDate parses a fecha_venta value.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &domain.ValidationError{Field: FieldSoldAt, Reason: reasonRequired}
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: FieldSoldAt, Reason: reasonDate}
	}
	return t, nil
}

// ParseID parses a path identifier. Anything that is not a positive integer
// cannot name a record, so it is reported as not found.
func ParseID(entity domain.Entity, raw string) (uint, error) {
	v := binding.Validator.Engine().(*validator.Validate)
	if err := v.Var(raw, "required,entero=1"); err != nil {
		return 0, &domain.NotFoundError{Entity: entity}
	}
	return uint(atoi(raw)), nil
}

const (
	reasonRequired = "es obligatorio"
	reasonDate     = "debe tener el formato AAAA-MM-DDTHH:MM"
	reasonPrice    = "debe ser un número no negativo, con hasta 2 decimales y menor que 100000000"
)

// bind reports the first failing field as a ValidationError.
func bind(f Form, obj any) error {
	err := f.Bind(obj)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return &domain.ValidationError{Field: formName(obj, fe.StructField()), Reason: reason(fe)}
	}
	return &domain.ValidationError{Field: "formulario", Reason: "no se pudo leer: " + err.Error()}
}

func formName(obj any, structField string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if sf, ok := t.FieldByName(structField); ok {
		if name := sf.Tag.Get("form"); name != "" {
			return name
		}
	}
	return structField
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return reasonRequired
	case "max":
		return "admite como máximo " + fe.Param() + " caracteres"
	case "precio":
		return reasonPrice
	case "entero":
		if fe.Param() == "0" {
			return "debe ser un entero no negativo"
		}
		return "debe ser un entero mayor o igual a " + fe.Param()
	case "datetime":
		return reasonDate
	default:
		return "no es válido"
	}
}

// parsePrice accepts what a decimal(10,2) column stores without rounding.
func parsePrice(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() || d.GreaterThanOrEqual(maxPrice) {
		return decimal.Decimal{}, false
	}
	if !d.Equal(d.Round(PricePlaces)) {
		return decimal.Decimal{}, false
	}
	return d, true
}

func validPrice(fl validator.FieldLevel) bool {
	_, ok := parsePrice(fl.Field().String())
	return ok
}

// validInteger checks a base-10 int32 of at least the tag parameter.
func validInteger(fl validator.FieldLevel) bool {
	least, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 32)
	return err == nil && n >= int64(least)
}

// atoi converts text already accepted by validInteger.
func atoi(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(raw))
	return n
}
