// Package notify implements the change-notification channel of the
// observable map: structured Add/Remove/Replace/Reset events, an explicit
// observer list, and the suppression state machine that coalesces batched
// changes into a single Reset.
//
// The notifier is a three-state machine:
//
//	Normal           --mutation-->  Normal            (event delivered)
//	Normal           --suppress-->  Suppressed-Clean
//	Suppressed-Clean --mutation-->  Suppressed-Dirty  (event recorded)
//	Suppressed-Dirty --mutation-->  Suppressed-Dirty  (events collapsed)
//	Suppressed-Dirty --resume---->  Normal            (one Reset delivered)
//	Suppressed-Clean --resume---->  Normal            (nothing delivered)
//
// If pending records are still queued when a regular event is about to be
// delivered, the pending records are discarded and the event degrades to a
// Reset. Observers therefore never see a notification stream that is
// inconsistent with the collection's true contents.
//
// Observer panics are recovered and logged; they never propagate to the
// goroutine performing the mutation.
package notify
