package contract

// Revert reasons. Callers match on the exact text, so these never change wording
// (spelling included).
const (
	ReasonOnlyAdmin        = "Only Admin"
	ReasonOnlyOwner        = "Only Owner"
	ReasonNotFactoryOwner  = "Ownable: caller is not the owner"
	ReasonOwnerZero        = "Ownable: new owner is the zero address"
	ReasonInvalidAddress   = "Invalid address"
	ReasonInvalidParams    = "Invalid parameters"
	ReasonNotInitialized   = "DAO is not initialized"
	ReasonOnlyFactory      = "Only Factory"
	ReasonOnlyDAO          = "Only DAO"
	ReasonBadDecimals      = "Unsupported stablecoin decimals"
	ReasonInvalidProposal  = "Invalid proposal type"
	ReasonNoHolders        = "No governance token holders"
	ReasonMintToZero       = "ERC20: mint to the zero address"
	ReasonRaiseBelowRaised = "Raise amount below amount raised"

	// deposit window
	ReasonDepositStarted = "Deposit already started"
	ReasonDepositClosed  = "Deposit already closed"
	ReasonDaysZero       = "Days should be grater than 0"

	// deposits
	ReasonOnlyUSDC        = "Only USDC allowed"
	ReasonWindowClosed    = "Deposit is closed"
	ReasonNotEligible     = "Not eligible to deposit"
	ReasonBelowMin        = "Amount less than min criteria"
	ReasonAboveMax        = "Amount greater than max criteria"
	ReasonExceedsRaise    = "DAO exceeded total raise amount"
	ReasonMaxNotAboveMin  = "Max amount should be grater than min"
	ReasonOwnerFeeUpdate  = "Owners fees cannot exceed 100"
	ReasonAirdropOwnerFee = "Owner fees should be less than 100"

	// governance
	ReasonQuorumUpdate    = "Quorum should be less than 100"
	ReasonThresholdUpdate = "Threshold should be less than 100"

	// createDAO
	ReasonMinNotBelowMax  = "Amount should be grater than min amount"
	ReasonTotalNotAbove   = "Total raise amount should be grater than max amount"
	ReasonCreateDaysZero  = "Days cannot be 0"
	ReasonCreateOwnerFee  = "Owner fee cannot exceed 100"
	ReasonCreateOwnerNull = "Owner cannot be null"
	ReasonCreateQuorum    = "Quorum should be less then or equal to 100"
	ReasonCreateThreshold = "Threshold should be less then or equal to 100"
)

// Code tags recorded by the host for each deployed contract.
const (
	CodeFactory        = "dao-factory"
	CodeEmitter        = "dao-emitter"
	CodeDAO            = "dao-instance"
	CodeImplementation = "dao-implementation"
)

const (
	// GTDecimals is the fixed precision of every governance token.
	GTDecimals = 18
	// MaxPercent bounds quorum and threshold.
	MaxPercent = 100
	// secondsPerDay turns depositDays into a deadline.
	secondsPerDay = 86400
)
