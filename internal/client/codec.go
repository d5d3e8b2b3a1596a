package client

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/gnretail/pos-terminal/internal/domain/catalog"
	"github.com/gnretail/pos-terminal/internal/domain/sale"
)

// envelope is the backend's uniform response wrapper: a success flag, an
// optional message, and a payload-specific data field.
type envelope struct {
	success bool
	message string
}

// errNotEnvelope marks a syntactically valid JSON body without a success
// flag, such as an error page a proxy produced on the backend's behalf.
var errNotEnvelope = errors.New("response is not a backend envelope")

// decodeEnvelope parses the response wrapper, delegating the data field to
// onData. A nil onData skips the payload. Bodies missing the success key
// fail with errNotEnvelope so they surface as connection errors rather than
// backend rejections.
func decodeEnvelope(body []byte, onData func(d *jx.Decoder) error) (envelope, error) {
	var env envelope
	var hasSuccess bool
	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "success":
			hasSuccess = true
			v, err := d.Bool()
			env.success = v
			return err
		case "message":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			env.message = v
			return err
		case "data":
			if d.Next() == jx.Null {
				return d.Null()
			}
			if onData == nil {
				return d.Skip()
			}
			return onData(d)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return env, err
	}
	if !hasSuccess {
		return env, errNotEnvelope
	}
	return env, nil
}

// decodeDecimal reads a JSON number (or number-in-string) as an exact
// decimal.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(strings.Trim(n.String(), `"`))
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	p := catalog.Product{Active: true}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "sku":
			p.SKU, err = d.Str()
		case "sellingPrice":
			p.Price, err = decodeDecimal(d)
		case "unit":
			p.Unit, err = d.Str()
		case "active":
			p.Active, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

func decodeStore(d *jx.Decoder) (catalog.Store, error) {
	var s catalog.Store
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = d.Str()
		case "name":
			s.Name, err = d.Str()
		case "city":
			s.City, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return s, err
}

func encodeSaleRequest(req sale.Request) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("storeId", func(e *jx.Encoder) { e.Str(req.StoreID) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range req.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Str(item.ProductID) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
						e.Field("unitPrice", func(e *jx.Encoder) { encodeDecimal(e, item.UnitPrice) })
					})
				}
			})
		})
		e.Field("discount", func(e *jx.Encoder) { encodeDecimal(e, req.Discount) })
		e.Field("tax", func(e *jx.Encoder) { encodeDecimal(e, req.Tax) })
		e.Field("paymentMethod", func(e *jx.Encoder) { e.Str(string(req.PaymentMethod)) })
		e.Field("amountPaid", func(e *jx.Encoder) { encodeDecimal(e, req.AmountPaid) })
		e.Field("notes", func(e *jx.Encoder) { e.Str(req.Notes) })
	})
	return e.Bytes()
}

func decodeReceipt(d *jx.Decoder, r *sale.Receipt) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			r.SaleID, err = d.Str()
		case "saleNumber":
			r.SaleNumber, err = d.Str()
		case "total":
			r.Total, err = decodeDecimal(d)
		case "change":
			r.Change, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
}
