// Package wizard orchestrates multi-step data entry: it owns a draft record,
// gates forward navigation on the validation rules of the current step,
// autosaves the draft after every change and hands the validated record to a
// Submitter on completion.
//
// An Engine is owned by a single wizard session. Its methods are safe to call
// from multiple goroutines, but the expected usage is one caller reacting to
// discrete user actions. Submit is the only call that blocks on an external
// collaborator; edits made while it runs are accepted, a second Submit is
// rejected with ErrSubmitInProgress.
package wizard
