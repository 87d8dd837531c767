// Package input defines the key events the disambiguator consumes and the
// buffer that accumulates a key sequence while a chord may still be forming.
//
// A KeyEvent is either a character key or a named special key, pressed or
// released. Only lowercase ASCII letters ever enter a Sequence; every other
// event is handled (or ignored) by the disambiguator before it reaches the
// buffer.
package input
