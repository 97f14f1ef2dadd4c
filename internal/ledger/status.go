package ledger

// Complete moves a transaction to COMPLETED. Only an already completed
// transaction is rejected.
func Complete(from Status) (Status, error) {
	if from == StatusCompleted {
		return from, &StateTransitionError{From: from, Action: "complete", Reason: "Transaction is already completed"}
	}
	return StatusCompleted, nil
}

// Cancel moves a transaction to CANCELLED unless it has been completed.
func Cancel(from Status) (Status, error) {
	if from == StatusCompleted {
		return from, &StateTransitionError{From: from, Action: "cancel", Reason: "Cannot cancel completed transaction"}
	}
	return StatusCancelled, nil
}
