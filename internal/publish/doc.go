// Package publish pushes generated sketches to a socket.io endpoint, such as
// an upload bridge or a live preview, and waits for the endpoint to
// acknowledge them.
package publish
