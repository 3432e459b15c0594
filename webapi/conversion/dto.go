package conversion

import (
	"github.com/amirasaad/fxconvert/pkg/service/conversion"
	json "github.com/goccy/go-json"
)

// ConversionResponse is the success payload. Decimals are emitted as JSON
// numbers with their exact digits.
type ConversionResponse struct {
	FromCurrency   string      `json:"fromCurrency"`
	ToCurrency     string      `json:"toCurrency"`
	Rate           json.Number `json:"rate"`
	ConvertedValue json.Number `json:"convertedValue"`
	LastUpdateUnix int64       `json:"lastUpdateUnix"`
}

func toResponse(res *conversion.Result) ConversionResponse {
	return ConversionResponse{
		FromCurrency:   res.FromCurrency,
		ToCurrency:     res.ToCurrency,
		Rate:           json.Number(res.Rate.String()),
		ConvertedValue: json.Number(res.ConvertedValue.String()),
		LastUpdateUnix: res.LastUpdateUnix,
	}
}
