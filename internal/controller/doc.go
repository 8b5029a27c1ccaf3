// Package controller owns the current mode and theme and the one live
// session that goes with them. Switching theme or mode closes the old
// session before the new one starts, so late results of the old session
// can never reach the new one.
package controller
