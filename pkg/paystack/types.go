package paystack

import "encoding/json"

// envelope is Paystack's standard response wrapper. Status is false when the
// API rejected the request even with a 2xx transport status.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeRequest describes a hosted-checkout session to open.
type InitializeRequest struct {
	UserID           string // internal user id, round-tripped via metadata
	Email            string
	PlanCode         string
	Amount           int64  // smallest currency subunit
	Currency         string // ISO 4217 code
	EquivalentAmount string // display-only conversion note shown at checkout
}

// Checkout is the hosted checkout session returned by transaction/initialize.
type Checkout struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Customer identifies the paying customer on a transaction.
type Customer struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

// Authorization is a reusable charge authorization attached to a transaction.
type Authorization struct {
	AuthorizationCode string `json:"authorization_code"`
	Channel           string `json:"channel"`
	Reusable          bool   `json:"reusable"`
}

// Transaction is the record returned by transaction/verify.
type Transaction struct {
	Status        string        `json:"status"`
	Reference     string        `json:"reference"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Customer      Customer      `json:"customer"`
	Authorization Authorization `json:"authorization"`
}

// Charge is the result of charging a stored authorization.
type Charge struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Customer  Customer `json:"customer"`
}

// initializePayload is the wire format of transaction/initialize.
type initializePayload struct {
	Email        string            `json:"email"`
	Amount       int64             `json:"amount"`
	Plan         string            `json:"plan,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	CallbackURL  string            `json:"callback_url,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CustomFields []customField     `json:"custom_fields,omitempty"`
}

type customField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

// chargePayload is the wire format of transaction/charge_authorization.
type chargePayload struct {
	AuthorizationCode string `json:"authorization_code"`
	Email             string `json:"email"`
	Amount            int64  `json:"amount"`
}
