package payment

import "github.com/BruksfildServices01/barbershop-engine/internal/httperr"

var (
	errProviderNotConfigured = httperr.New(httperr.KindPaymentProviderUnavailable, "payment_provider_not_configured")
	errProviderFailed        = httperr.New(httperr.KindPaymentProviderUnavailable, "payment_provider_error")
)
