// Package cli provides the interactive Calistrack command-line client.
//
// It wires configuration, the local session cache, the HTTP transport and
// the domain services into a REPL. Each form of the app is a command that
// prompts for its fields, validates them locally, calls the backend and
// prints a notice describing the outcome.
//
// Logged out, the REPL offers register, login, lostpassword and
// resetpassword. Once logged in it offers exercise and training management
// plus profile commands. When the backend rejects the session the user is
// logged out, told so, and dropped back to the logged-out command set.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
