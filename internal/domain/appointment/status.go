package appointment

import "github.com/BruksfildServices01/barbershop-engine/internal/httperr"

// ===============================
// Lifecycle status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive reports whether the appointment still holds its barber's time.
func (s Status) IsActive() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// ActiveStatuses lists the statuses that block a barber's interval.
func ActiveStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusConfirmed),
		string(StatusInProgress),
		string(StatusCompleted),
	}
}

func InitialStatus() Status {
	return StatusPending
}

// CanTransition validates a single status edge.
func CanTransition(from, to Status) error {
	if from.IsTerminal() {
		return httperr.InvalidTransitionErr("terminal_status")
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.InvalidTransitionErr("invalid_status_transition")
}

// ===============================
// Payment status
// ===============================

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaidAtShop    PaymentStatus = "paid_at_shop"
	PaymentPrepaidOnline PaymentStatus = "prepaid_online"
	PaymentRefunded      PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch ps := PaymentStatus(s); ps {
	case PaymentUnpaid, PaymentPaidAtShop, PaymentPrepaidOnline, PaymentRefunded:
		return ps, true
	}
	return "", false
}

// IsSettled reports whether money has been collected (or returned).
func (p PaymentStatus) IsSettled() bool {
	return p != PaymentUnpaid
}

// IsCollected reports whether money is currently held for the appointment.
func (p PaymentStatus) IsCollected() bool {
	return p == PaymentPaidAtShop || p == PaymentPrepaidOnline
}

func InitialPaymentStatus() PaymentStatus {
	return PaymentUnpaid
}
