// Package pty provides pseudo-terminal session management: default shell
// selection, session lifecycle (start, write, resize, stop), asynchronous
// output pumping over a channel, and a thread-safe session registry.
package pty
