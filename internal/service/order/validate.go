package order

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

// Validator checks incoming order graphs field by field, children included.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a Validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Order validates o and every child it carries. Failures come back as one
// errorbank.Unprocessable error whose details map field paths to the rule
// that failed.
func (val *Validator) Order(ctx context.Context, o *model.CustomerOrder) error {
	if o == nil {
		return errorbank.BadRequest("order payload is required")
	}

	w := &walker{ctx: ctx, v: val.v, details: map[string]any{}}
	w.check("", o)
	for i, a := range o.Addresses.OrZero() {
		w.check(fmt.Sprintf("addresses[%d]", i), a)
	}
	for i, li := range o.Items.OrZero() {
		prefix := fmt.Sprintf("items[%d]", i)
		w.check(prefix, li)
		if li != nil {
			w.discounts(prefix, li.Discounts.OrZero())
			w.taxDetails(prefix, li.TaxDetails.OrZero())
		}
	}
	for i, sh := range o.Shipments.OrZero() {
		prefix := fmt.Sprintf("shipments[%d]", i)
		w.check(prefix, sh)
		if sh != nil {
			for j, si := range sh.Items.OrZero() {
				w.check(fmt.Sprintf("%s.items[%d]", prefix, j), si)
			}
			w.discounts(prefix, sh.Discounts.OrZero())
			w.taxDetails(prefix, sh.TaxDetails.OrZero())
		}
	}
	for i, p := range o.InPayments.OrZero() {
		prefix := fmt.Sprintf("in_payments[%d]", i)
		w.check(prefix, p)
		if p != nil {
			w.taxDetails(prefix, p.TaxDetails.OrZero())
		}
	}
	w.discounts("", o.Discounts.OrZero())
	w.taxDetails("", o.TaxDetails.OrZero())

	if w.err != nil {
		return errorbank.Internal("validation failed", errorbank.WithCause(w.err))
	}
	if len(w.details) > 0 {
		return errorbank.Unprocessable("order payload is invalid", errorbank.WithDetails(w.details))
	}
	return nil
}

type walker struct {
	ctx     context.Context
	v       *validator.Validate
	details map[string]any
	err     error
}

func (w *walker) discounts(prefix string, list []*model.Discount) {
	for i, d := range list {
		w.check(join(prefix, fmt.Sprintf("discounts[%d]", i)), d)
	}
}

func (w *walker) taxDetails(prefix string, list []*model.TaxDetail) {
	for i, td := range list {
		w.check(join(prefix, fmt.Sprintf("tax_details[%d]", i)), td)
	}
}

func (w *walker) check(prefix string, v any) {
	if w.err != nil {
		return
	}
	if reflect.ValueOf(v).IsNil() {
		w.details[orRoot(prefix)] = "null"
		return
	}

	err := w.v.StructCtx(w.ctx, v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		w.err = err
		return
	}
	for _, fe := range verrs {
		w.details[join(prefix, fe.Field())] = fe.Tag()
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func orRoot(prefix string) string {
	if prefix == "" {
		return "order"
	}
	return prefix
}
