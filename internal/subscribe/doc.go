// Package subscribe adds newsletter subscribers.
//
// An attempt is a single pass with one terminal outcome: the address is
// normalized and validated, an optional bot check runs, and the address is
// handed to the email provider exactly once. Nothing is stored locally.
package subscribe
