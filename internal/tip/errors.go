package tip

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipient means no source had an address for the streamer.
	ErrNoRecipient = errors.New("recipient has not set up a wallet")
	// ErrInvalidRecipient means the resolved address is not a 0x-prefixed 42 character address.
	ErrInvalidRecipient = errors.New("invalid recipient wallet address format")
	// ErrWalletNotConnected means there is no wallet provider to submit through.
	ErrWalletNotConnected = errors.New("wallet not connected")
	// ErrInvalidAmount rejects tip amounts that are not positive.
	ErrInvalidAmount = errors.New("invalid tip amount")
	// ErrSelfTip means the connected wallet is the recipient's own wallet.
	ErrSelfTip = errors.New("the connected wallet is the same as the streamer's wallet")
	// ErrSubmissionInFlight is returned while another tip is being submitted.
	ErrSubmissionInFlight = errors.New("a tip is already being submitted")
)

// ChainSwitchError reports that the wallet could not be moved onto the required network.
type ChainSwitchError struct {
	ChainID uint64
	// Step is the provider call that failed: "read", "switch" or "add".
	Step string
	Err  error
}

func (e *ChainSwitchError) Error() string {
	return fmt.Sprintf("ensure network %d: %s: %v", e.ChainID, e.Step, e.Err)
}

func (e *ChainSwitchError) Unwrap() error { return e.Err }

// SubmissionError is the single failure surfaced to the donor for a tip attempt.
// Reason is the user-facing message; Err keeps the cause for logs.
type SubmissionError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit tip (%s): %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
