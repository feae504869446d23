package service

import "errors"

// 服务层统一业务错误，由 handler 层映射为响应码。
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("incorrect password")
	ErrWeakPassword       = errors.New("password does not meet policy")

	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrConfirmTokenInvalid = errors.New("confirmation link invalid or expired")

	ErrNoEligibleCandidates = errors.New("no eligible entrants for the given criteria")
	ErrDrawCriteriaInvalid  = errors.New("invalid draw criteria")

	ErrVendorCodeTaken         = errors.New("vendor code already in use")
	ErrVendorDisabled          = errors.New("vendor is disabled")
	ErrCommissionStatusInvalid = errors.New("invalid commission status transition")
	ErrCommissionAmountInvalid = errors.New("commission amount must not be negative")

	ErrContestSlugTaken        = errors.New("contest slug already in use")
	ErrPhotoEntryStatusInvalid = errors.New("invalid photo entry review status")
	ErrInstagramSyncFailed     = errors.New("instagram sync failed")
	ErrInstagramDisabled       = errors.New("instagram integration is disabled")

	ErrProductSlugTaken     = errors.New("product slug already in use")
	ErrProductInactive      = errors.New("product is not available")
	ErrInvoiceEmpty         = errors.New("invoice must contain at least one item")
	ErrInvoiceStatusInvalid = errors.New("invalid invoice status transition")

	ErrPromotionSlugTaken = errors.New("promotion slug already in use")

	ErrCaptchaRequired      = errors.New("captcha is required")
	ErrCaptchaInvalid       = errors.New("captcha verification failed")
	ErrCaptchaConfigInvalid = errors.New("captcha is not configured")

	ErrEmailServiceDisabled      = errors.New("email service is disabled")
	ErrEmailServiceNotConfigured = errors.New("email service is not configured")
	ErrEmailRecipientRejected    = errors.New("recipient address rejected")
)
