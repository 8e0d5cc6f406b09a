package tabular

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// orderRowFields are the numeric cells of an order index row.
type orderRowFields struct {
	Quantity string `validate:"required,numeric" col:"cantidad"`
	Price    string `validate:"required,numeric" col:"precio"`
	Total    string `validate:"required,numeric" col:"total"`
}

// recordFields are the cells of an order record the policy depends on.
type recordFields struct {
	CustomerID string `validate:"required" col:"customer_id"`
	Product    string `validate:"required" col:"product"`
	Price      string `validate:"required,numeric" col:"price"`
	Quantity   string `validate:"required,numeric" col:"quantity"`
	OrderDate  string `validate:"required" col:"order_date"`
}

type rowValidator struct {
	v *validator.Validate
}

func newRowValidator() *rowValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("col")
	})
	return &rowValidator{v: v}
}

func (r *rowValidator) orderRow(cols Columns, row []string) error {
	return r.check(orderRowFields{
		Quantity: cols.Value(row, domain.ColQuantityES),
		Price:    cols.Value(row, domain.ColPriceES),
		Total:    cols.Value(row, domain.ColTotal),
	})
}

func (r *rowValidator) recordRow(cols Columns, row []string) error {
	return r.check(recordFields{
		CustomerID: cols.Value(row, domain.ColCustomerID),
		Product:    cols.Value(row, domain.ColProduct),
		Price:      cols.Value(row, domain.ColPrice),
		Quantity:   cols.Value(row, domain.ColQuantity),
		OrderDate:  cols.Value(row, domain.ColOrderDate),
	})
}

func (r *rowValidator) check(fields any) error {
	err := r.v.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("%w: field %s fails %q (value %q)",
			domain.ErrInvalidInput, first.Field(), first.Tag(), first.Value())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
