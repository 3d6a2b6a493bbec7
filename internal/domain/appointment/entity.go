package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// ===============================
// Domain actions
// ===============================
//
// Every action mutates ap in place and either succeeds completely or returns
// an error before touching it. Callers run them inside the per-appointment
// lock and discard ap on error.

// Cancel moves a pending or confirmed appointment to reason (cancelled or
// no_show). Prepaid money is flagged refunded because the service was not
// rendered.
func Cancel(ap *models.Appointment, reason Status, now time.Time) error {
	if reason != StatusCancelled && reason != StatusNoShow {
		return httperr.ErrBusiness("invalid_cancel_reason")
	}
	if err := CanTransition(Status(ap.Status), reason); err != nil {
		return err
	}

	ap.Status = string(reason)
	ap.CancelledAt = &now

	if PaymentStatus(ap.PaymentStatus) == PaymentPrepaidOnline {
		ap.PaymentStatus = string(PaymentRefunded)
		ap.RefundedAt = &now
	}
	return nil
}

// Advance applies a forward status edge (confirm, start, complete). Completion
// requires the payment axis to be settled.
func Advance(ap *models.Appointment, to Status) error {
	if to == StatusCancelled || to == StatusNoShow {
		return httperr.InvalidTransitionErr("use_cancel")
	}
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}
	if to == StatusCompleted && !PaymentStatus(ap.PaymentStatus).IsSettled() {
		return httperr.InvalidTransitionErr("payment_required")
	}

	ap.Status = string(to)
	return nil
}

// MarkPaidAtShop records payment at the counter and completes the
// appointment in the same step. Repeating it is a no-op.
func MarkPaidAtShop(ap *models.Appointment) error {
	status := Status(ap.Status)
	payment := PaymentStatus(ap.PaymentStatus)

	if payment == PaymentPaidAtShop && status == StatusCompleted {
		return nil
	}
	if payment != PaymentUnpaid {
		return httperr.InvalidTransitionErr("payment_already_settled")
	}
	if !status.IsActive() {
		return httperr.InvalidTransitionErr("terminal_status")
	}

	ap.PaymentStatus = string(PaymentPaidAtShop)
	ap.Status = string(StatusCompleted)
	return nil
}

// ApplyPrepaidSuccess folds a confirmed online payment into ap and reports
// whether anything changed. Money that lands on an appointment that is no
// longer active is recorded as refunded, never as prepaid.
func ApplyPrepaidSuccess(ap *models.Appointment, now time.Time) bool {
	if PaymentStatus(ap.PaymentStatus) != PaymentUnpaid {
		return false
	}

	if !Status(ap.Status).IsActive() {
		ap.PaymentStatus = string(PaymentRefunded)
		ap.RefundedAt = &now
		return true
	}

	ap.PaymentStatus = string(PaymentPrepaidOnline)
	return true
}

// SetPaymentStatus handles explicit staff edits of the payment axis.
func SetPaymentStatus(ap *models.Appointment, to PaymentStatus, actorID string, now time.Time) error {
	from := PaymentStatus(ap.PaymentStatus)
	if from == to {
		return nil
	}

	switch to {
	case PaymentPaidAtShop:
		return MarkPaidAtShop(ap)
	case PaymentPrepaidOnline:
		return httperr.InvalidTransitionErr("prepaid_requires_provider")
	case PaymentRefunded:
		if !from.IsCollected() {
			return httperr.InvalidTransitionErr("nothing_to_refund")
		}
		stampRefund(ap, actorID, now)
		return nil
	default:
		return httperr.InvalidTransitionErr("invalid_payment_transition")
	}
}

// ApplyAdjustments sets discount and refund amounts. A positive refund always
// forces the payment axis to refunded. totalCents is never modified.
func ApplyAdjustments(
	ap *models.Appointment,
	discountCents *int64,
	refundCents *int64,
	actorID string,
	now time.Time,
) error {
	discount := ap.DiscountCents
	refund := ap.RefundCents
	if discountCents != nil {
		discount = *discountCents
	}
	if refundCents != nil {
		refund = *refundCents
	}

	if err := ValidateAmounts(ap.TotalCents, discount, refund); err != nil {
		return err
	}

	ap.DiscountCents = discount
	if refundCents != nil {
		ap.RefundCents = refund
		if refund > 0 {
			stampRefund(ap, actorID, now)
		}
	}
	return nil
}

func ValidateAmounts(total, discount, refund int64) error {
	if discount < 0 || refund < 0 {
		return httperr.ErrBusiness("negative_amount")
	}
	if discount+refund > total {
		return httperr.ErrBusiness("amount_exceeds_total")
	}
	return nil
}

func stampRefund(ap *models.Appointment, actorID string, now time.Time) {
	ap.PaymentStatus = string(PaymentRefunded)
	ap.RefundedAt = &now
	if actorID != "" {
		actor := actorID
		ap.RefundedBy = &actor
	}
}

// ===============================
// Partial update
// ===============================

// Patch carries the optional fields of a staff edit. Nil means unchanged.
type Patch struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	Notes         *string
	DiscountCents *int64
	RefundCents   *int64
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.Notes == nil &&
		p.DiscountCents == nil && p.RefundCents == nil
}

// Actions lists what the patch touches, for authorization.
func (p Patch) Actions() []Action {
	var actions []Action
	if p.Status != nil {
		switch *p.Status {
		case StatusNoShow:
			actions = append(actions, ActionMarkNoShow)
		case StatusCancelled:
			actions = append(actions, ActionCancel)
		default:
			actions = append(actions, ActionEditStatus)
		}
	}
	if p.PaymentStatus != nil {
		actions = append(actions, ActionEditPayment)
	}
	if p.Notes != nil {
		actions = append(actions, ActionEditNotes)
	}
	if p.DiscountCents != nil || p.RefundCents != nil {
		actions = append(actions, ActionAdjustMoney)
	}
	return actions
}

// ApplyPatch applies p to ap as one unit. Money is validated first so a bad
// amount never leaves a half-applied status change behind.
func ApplyPatch(ap *models.Appointment, p Patch, actorID string, now time.Time) error {
	if p.DiscountCents != nil || p.RefundCents != nil {
		discount, refund := ap.DiscountCents, ap.RefundCents
		if p.DiscountCents != nil {
			discount = *p.DiscountCents
		}
		if p.RefundCents != nil {
			refund = *p.RefundCents
		}
		if err := ValidateAmounts(ap.TotalCents, discount, refund); err != nil {
			return err
		}
	}

	paidAtShop := p.PaymentStatus != nil && *p.PaymentStatus == PaymentPaidAtShop

	switch {
	case paidAtShop:
		if p.Status != nil && *p.Status != StatusCompleted {
			return httperr.InvalidTransitionErr("status_conflicts_payment")
		}
		if err := MarkPaidAtShop(ap); err != nil {
			return err
		}

	case p.Status != nil:
		if err := applyStatus(ap, *p.Status, now); err != nil {
			return err
		}
		if p.PaymentStatus != nil {
			if err := SetPaymentStatus(ap, *p.PaymentStatus, actorID, now); err != nil {
				return err
			}
		}

	case p.PaymentStatus != nil:
		if err := SetPaymentStatus(ap, *p.PaymentStatus, actorID, now); err != nil {
			return err
		}
	}

	if p.Notes != nil {
		ap.Notes = *p.Notes
	}

	if p.DiscountCents != nil || p.RefundCents != nil {
		return ApplyAdjustments(ap, p.DiscountCents, p.RefundCents, actorID, now)
	}
	return nil
}

func applyStatus(ap *models.Appointment, to Status, now time.Time) error {
	if to == StatusCancelled || to == StatusNoShow {
		return Cancel(ap, to, now)
	}
	if Status(ap.Status) == to {
		return nil
	}
	if to == StatusPending {
		return httperr.InvalidTransitionErr("invalid_status_transition")
	}
	return Advance(ap, to)
}
