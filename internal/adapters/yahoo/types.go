package yahoo

// chartResponse is the subset of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// closes returns the non-null daily closes in session order. Yahoo pads
// half-days and halts with nulls; those are not real closes.
func (r chartResponse) closes() []float64 {
	if len(r.Chart.Result) == 0 || len(r.Chart.Result[0].Indicators.Quote) == 0 {
		return nil
	}
	var out []float64
	for _, c := range r.Chart.Result[0].Indicators.Quote[0].Close {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}
