package domain

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

const (
	TierFree    = "free"
	TierPremium = "premium"
	TierVIP     = "vip"
)

// Points transaction types. Credits carry a positive amount, debits a negative one.
const (
	TxTypeEarned  = "earned"
	TxTypeSpent   = "spent"
	TxTypeRefund  = "refund"
	TxTypeBonus   = "bonus"
	TxTypePenalty = "penalty"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	ConversionStatusPending    = "pending"
	ConversionStatusProcessing = "processing"
	ConversionStatusCompleted  = "completed"
	ConversionStatusFailed     = "failed"
	ConversionStatusCancelled  = "cancelled"
)

const (
	PaymentMethodPix           = "pix"
	PaymentMethodBankTransfer  = "bank_transfer"
	PaymentMethodDigitalWallet = "digital_wallet"
)

const (
	SurveyCategoryMarketing = "marketing"
	SurveyCategoryProduct   = "product"
	SurveyCategoryService   = "service"
	SurveyCategoryGeneral   = "general"
)

// Admin-tunable setting keys seeded at startup.
const (
	SettingSignupBonusPoints   = "signup_bonus_points"
	SettingReferralBonusPoints = "referral_bonus_points"
)

var conversionTransitions = map[string][]string{
	ConversionStatusPending:    {ConversionStatusProcessing, ConversionStatusCancelled},
	ConversionStatusProcessing: {ConversionStatusCompleted, ConversionStatusFailed, ConversionStatusCancelled},
}

// ValidConversionTransition reports whether a conversion may move from one status
// to another. Transitions only run forward; completed, failed and cancelled are terminal.
func ValidConversionTransition(from, to string) bool {
	for _, s := range conversionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

// ValidOrderTransition reports whether an order may move from one status to another.
func ValidOrderTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted conversion payout method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodPix || m == PaymentMethodBankTransfer || m == PaymentMethodDigitalWallet
}
