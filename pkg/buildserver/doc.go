// Package buildserver keeps the builders of a build server in step with the
// jobs configured on its Jenkins master.
//
// Builder names are globally unique, so a job whose name is already owned
// by another server's builder is skipped with a warning rather than moved.
package buildserver
