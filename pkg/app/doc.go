// Package app holds the running Porch application: its configuration, the
// signal bus its components subscribe to, and the logger they share.
//
// Components do not reach for globals; they are handed the *Application, or
// connect to its Bus before Configure is called.
package app
