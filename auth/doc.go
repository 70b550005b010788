// Package auth implements the account login and registration flows. A
// Service composes a user Store, a password Hasher and a TokenIssuer, and
// reports domain failures as *Error values tagged with an ErrorKind. Errors
// from the collaborators are returned to the caller as they are.
package auth
