// Package app wires configuration, logging, the log follower, the session
// and the dashboard together for the two run modes.
//
// Watch follows an existing log file and shows the live dashboard until the
// user quits or the file becomes unreadable. Launch starts a scan that
// writes to a fresh temp file and opens a terminal window running Watch on
// that file.
package app
