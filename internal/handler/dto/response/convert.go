package response

import (
	"time"

	"tool-rental/internal/pkg/clock"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// Money is rendered with two decimals, dates as YYYY-MM-DD.
var converters = []copier.TypeConverter{
	{
		SrcType: decimal.Decimal{},
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			return src.(decimal.Decimal).StringFixed(2), nil
		},
	},
	{
		SrcType: time.Time{},
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			return clock.FormatDate(src.(time.Time)), nil
		},
	},
}

func copyInto(dst, src any) error {
	return copier.CopyWithOption(dst, src, copier.Option{Converters: converters})
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := clock.FormatDate(*t)
	return &s
}

func moneyPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
