// Package ui provides the live terminal dashboard for a watch session.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns the session, the log source and a
// bubbles viewport holding the rendered panels. The program runs on the
// alternate screen; Bubble Tea restores the terminal when Run returns, whether
// the user quit, the context was cancelled, the follower failed or a panic
// unwound the program.
//
// # Package Structure
//
//   - app.go: Model, Update/View, the drain-cycle commands and Run
//   - panels.go: lipgloss rendering of dashboard panels (bordered and compact)
//   - header.go: title bar, status line and footer
//   - help.go: help overlay built with bubbles/help
//   - keys.go: key bindings; the footer hints come from ShortHelp
//   - theme.go: color themes (Nightfox, Gruvbox, Dracula)
//
// # Event Flow
//
//  1. Init issues a wait command that blocks in Source.Wait
//  2. The result arrives as linesMsg; Update ingests it into the session,
//     re-renders the panels and moves back to watching
//  3. A tick one frame later (resumeMsg) issues the next wait
//  4. A follower error arrives as followErrMsg; the session fails and the
//     program quits
//
// Only one wait command is outstanding at a time, so drains never overlap.
// Lines that arrive during the frame delay are picked up by the next drain,
// so a burst of scanner output costs one repaint. tea.WithFPS caps the
// renderer at the same rate.
package ui
