// Package tx implements transaction application: sequence and fee handling
// at the transaction level, and the ManageOffer operation that drives the
// exchange core.
package tx

import "fmt"

// TxResult is a transaction-level result code. Negative codes mean the
// transaction changed nothing beyond the fee and sequence bump.
type TxResult int

const (
	TxSUCCESS TxResult = 0

	// TxFAILED: the operation failed; fee charged, state untouched.
	TxFAILED TxResult = -1

	TxNO_ACCOUNT           TxResult = -2
	TxBAD_SEQ              TxResult = -3
	TxINSUFFICIENT_BALANCE TxResult = -4
	TxINSUFFICIENT_FEE     TxResult = -5
	TxINTERNAL_ERROR       TxResult = -6
)

func (r TxResult) String() string {
	switch r {
	case TxSUCCESS:
		return "txSUCCESS"
	case TxFAILED:
		return "txFAILED"
	case TxNO_ACCOUNT:
		return "txNO_ACCOUNT"
	case TxBAD_SEQ:
		return "txBAD_SEQ"
	case TxINSUFFICIENT_BALANCE:
		return "txINSUFFICIENT_BALANCE"
	case TxINSUFFICIENT_FEE:
		return "txINSUFFICIENT_FEE"
	case TxINTERNAL_ERROR:
		return "txINTERNAL_ERROR"
	default:
		return fmt.Sprintf("TxResult(%d)", int(r))
	}
}

// IsSuccess reports whether the transaction was applied in full.
func (r TxResult) IsSuccess() bool {
	return r == TxSUCCESS
}

// IsApplied reports whether the transaction touched the ledger at all, which
// includes failed operations that still charged their fee.
func (r TxResult) IsApplied() bool {
	return r == TxSUCCESS || r == TxFAILED
}

// ManageOfferResultCode is the operation-level result of a ManageOffer.
type ManageOfferResultCode int

const (
	ManageOfferSUCCESS ManageOfferResultCode = 0

	ManageOfferMALFORMED           ManageOfferResultCode = -1
	ManageOfferSELL_NO_TRUST       ManageOfferResultCode = -2
	ManageOfferBUY_NO_TRUST        ManageOfferResultCode = -3
	ManageOfferSELL_NOT_AUTHORIZED ManageOfferResultCode = -4
	ManageOfferBUY_NOT_AUTHORIZED  ManageOfferResultCode = -5
	ManageOfferLINE_FULL           ManageOfferResultCode = -6
	ManageOfferUNDERFUNDED         ManageOfferResultCode = -7
	ManageOfferCROSS_SELF          ManageOfferResultCode = -8
	ManageOfferSELL_NO_ISSUER      ManageOfferResultCode = -9
	ManageOfferBUY_NO_ISSUER       ManageOfferResultCode = -10
	ManageOfferNOT_FOUND           ManageOfferResultCode = -11
	ManageOfferLOW_RESERVE         ManageOfferResultCode = -12

	// ManageOfferEXCEEDED_WORK_LIMIT: crossing would have touched more
	// offers than the engine allows in one operation.
	ManageOfferEXCEEDED_WORK_LIMIT ManageOfferResultCode = -13
)

func (r ManageOfferResultCode) String() string {
	switch r {
	case ManageOfferSUCCESS:
		return "MANAGE_OFFER_SUCCESS"
	case ManageOfferMALFORMED:
		return "MANAGE_OFFER_MALFORMED"
	case ManageOfferSELL_NO_TRUST:
		return "MANAGE_OFFER_SELL_NO_TRUST"
	case ManageOfferBUY_NO_TRUST:
		return "MANAGE_OFFER_BUY_NO_TRUST"
	case ManageOfferSELL_NOT_AUTHORIZED:
		return "MANAGE_OFFER_SELL_NOT_AUTHORIZED"
	case ManageOfferBUY_NOT_AUTHORIZED:
		return "MANAGE_OFFER_BUY_NOT_AUTHORIZED"
	case ManageOfferLINE_FULL:
		return "MANAGE_OFFER_LINE_FULL"
	case ManageOfferUNDERFUNDED:
		return "MANAGE_OFFER_UNDERFUNDED"
	case ManageOfferCROSS_SELF:
		return "MANAGE_OFFER_CROSS_SELF"
	case ManageOfferSELL_NO_ISSUER:
		return "MANAGE_OFFER_SELL_NO_ISSUER"
	case ManageOfferBUY_NO_ISSUER:
		return "MANAGE_OFFER_BUY_NO_ISSUER"
	case ManageOfferNOT_FOUND:
		return "MANAGE_OFFER_NOT_FOUND"
	case ManageOfferLOW_RESERVE:
		return "MANAGE_OFFER_LOW_RESERVE"
	case ManageOfferEXCEEDED_WORK_LIMIT:
		return "MANAGE_OFFER_EXCEEDED_WORK_LIMIT"
	default:
		return fmt.Sprintf("ManageOfferResultCode(%d)", int(r))
	}
}

// IsSuccess reports whether the operation succeeded.
func (r ManageOfferResultCode) IsSuccess() bool {
	return r == ManageOfferSUCCESS
}

// OfferEffect says what a successful ManageOffer did to the submitted offer.
type OfferEffect int

const (
	// OfferCreated: a new offer entry was written to the book.
	OfferCreated OfferEffect = iota
	// OfferUpdated: an existing offer entry was rewritten.
	OfferUpdated
	// OfferDeleted: the offer is gone, either cancelled, fully crossed, or
	// adjusted down to nothing.
	OfferDeleted
)

func (e OfferEffect) String() string {
	switch e {
	case OfferCreated:
		return "MANAGE_OFFER_CREATED"
	case OfferUpdated:
		return "MANAGE_OFFER_UPDATED"
	case OfferDeleted:
		return "MANAGE_OFFER_DELETED"
	default:
		return fmt.Sprintf("OfferEffect(%d)", int(e))
	}
}
