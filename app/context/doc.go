// Package context contains the application context types shared by the app
// and cli packages: the Context passed to every command, and the interfaces
// to the process environment and the user database.
//
// This package only exists to avoid a circular import between app and cli
// packages, otherwise these types belong in the app package.
package context
