package handlers

import (
	availabilitySvc "caterbook/services/availability"
	bookingSvc "caterbook/services/booking"
	quotationSvc "caterbook/services/quotation"
	verificationSvc "caterbook/services/verification"
)

// Service singletons, wired in main after the database and caches are up.
var (
	BookingService      bookingSvc.BookingService
	QuotationService    quotationSvc.QuotationService
	AvailabilityService availabilitySvc.AvailabilityService
	VerificationGate    verificationSvc.VerificationGate
)
