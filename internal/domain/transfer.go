package domain

import "time"

// RawTransferEvent represents one observed token-transfer action on a source
// chain. Produced by the fetcher, consumed immediately by the memo parser,
// never persisted.
type RawTransferEvent struct {
	Source    string    // DEX contract account the event was fetched for
	TxID      string    // originating transaction id
	BlockNum  int64     // block number of the action
	Sender    string    // account that sent the transfer
	Recipient string    // account that received the transfer
	Quantity  string    // quantity string, "amount SYMBOL"
	Memo      string    // free-text transfer memo
	Timestamp time.Time // action timestamp (UTC)
}
