package hyperion

// ActionsResponse is the envelope returned by the get_actions endpoint.
type ActionsResponse struct {
	Actions []Action `json:"actions"`
}

// Action is one history action as reported by Hyperion.
type Action struct {
	Timestamp string      `json:"@timestamp"`
	TrxID     string      `json:"trx_id"`
	BlockNum  int64       `json:"block_num"`
	Act       ActionTrace `json:"act"`
}

// ActionTrace is the act payload of a history action.
type ActionTrace struct {
	Account string       `json:"account"`
	Name    string       `json:"name"`
	Data    TransferData `json:"data"`
}

// TransferData is the decoded data of a transfer action.
type TransferData struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}
