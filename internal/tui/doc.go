// Package tui provides the terminal widgets used on interactive terminals:
// a one-line request prompt and a framed preview of the final script.
package tui
