package models

// DefaultQuoteID is used for designs saved outside a named quote
const DefaultQuoteID = "QDEFAULT"

// Checkout guard rejection reasons
const (
	ReasonMissingDesignVersion = "missing-design-version"
	ReasonMissingPrinterSpec   = "missing-printer-spec"
	ReasonDesignNotFound       = "design-not-found"
	ReasonUntrustedPrinterSpec = "untrusted-printer-spec"
)

// Verdict is the checkout guard's decision for one cart line
type Verdict struct {
	ProductID string `json:"productId"`
	VersionID string `json:"versionId,omitempty"`
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
}

// CustomerInfo identifies the buyer
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

// CheckoutLine is one cart line
type CheckoutLine struct {
	ProductID   string       `json:"productId"`
	Quantity    int          `json:"quantity"`
	VersionID   string       `json:"versionId,omitempty"`
	Decorations []Decoration `json:"decorations,omitempty"`
}

// CheckoutRequest represents the request body for POST /api/create-checkout
type CheckoutRequest struct {
	CustomerInfo CustomerInfo   `json:"customerInfo"`
	Products     []CheckoutLine `json:"products"`
	QuoteID      string         `json:"quoteId"`
	VersionID    string         `json:"versionId"`
}

// PaymentSessionRequest is sent to the payment collaborator once every line is approved
type PaymentSessionRequest struct {
	CustomerEmail string            `json:"customerEmail"`
	Lines         []QuoteLine       `json:"lines"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentSession is the payment collaborator's answer
type PaymentSession struct {
	URL string `json:"url"`
}

// CheckoutResult is returned by the checkout flow
type CheckoutResult struct {
	URL      string    `json:"url,omitempty"`
	Verdicts []Verdict `json:"verdicts"`
}
