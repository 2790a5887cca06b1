// Package tui contains the Bubble Tea models that render uistate helpers:
// a live view of a batch run and an interactive bounded counter.
package tui
