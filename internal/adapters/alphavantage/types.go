package alphavantage

// apiEnvelope captures the throttling/error messages Alpha Vantage returns
// with a 200 status.
type apiEnvelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (e apiEnvelope) throttled() bool {
	return e.Note != "" || e.Information != ""
}

func (e apiEnvelope) message() string {
	if e.Note != "" {
		return e.Note
	}
	return e.Information
}

type topMoversResponse struct {
	MostActivelyTraded []struct {
		Ticker           string `json:"ticker"`
		Price            string `json:"price"`
		ChangePercentage string `json:"change_percentage"`
		Volume           string `json:"volume"`
	} `json:"most_actively_traded"`
}

type insiderResponse struct {
	Data []struct {
		TransactionDate       string `json:"transaction_date"`
		Ticker                string `json:"ticker"`
		Executive             string `json:"executive"`
		ExecutiveTitle        string `json:"executive_title"`
		SecurityType          string `json:"security_type"`
		AcquisitionOrDisposal string `json:"acquisition_or_disposal"`
		Shares                string `json:"shares"`
		SharePrice            string `json:"share_price"`
	} `json:"data"`
}

type newsResponse struct {
	Feed []struct {
		Title                 string `json:"title"`
		Summary               string `json:"summary"`
		TimePublished         string `json:"time_published"`
		OverallSentimentLabel string `json:"overall_sentiment_label"`
	} `json:"feed"`
}
