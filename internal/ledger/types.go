package ledger

import "encoding/json"

// response is the node's envelope for a command reply. The id echoes the
// caller's correlation id.
type response struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// AccountData is the subset of account_info's account_data the facade reads.
type AccountData struct {
	Account string `json:"Account"`
	Balance string `json:"Balance"`
}

type accountInfoResult struct {
	AccountData AccountData `json:"account_data"`
}

// TrustLine is one entry from account_lines. Account is the counterparty,
// which for issued-token balances is the issuer.
type TrustLine struct {
	Account  string `json:"account"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	Limit    string `json:"limit"`
}

type accountLinesResult struct {
	Lines []TrustLine `json:"lines"`
}

// PathAlternative is one path_find alternative. The path steps are opaque
// pass-through data, only reshaped for the response envelope.
type PathAlternative struct {
	PathsComputed json.RawMessage `json:"paths_computed"`
	SourceAmount  json.RawMessage `json:"source_amount"`
}

type pathFindResult struct {
	Alternatives []PathAlternative `json:"alternatives"`
}

// SubmitResult is the node's reply to a sign-and-submit command.
type SubmitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}
