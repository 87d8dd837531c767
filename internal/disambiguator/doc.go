// Package disambiguator turns a stream of single key events into marker
// emissions.
//
// Every input, including debounce timer fires and completed label prompts,
// is processed on one goroutine inside Run. Timer callbacks and prompt
// goroutines never touch state directly; they post an event back onto the
// loop and the loop decides whether it is still current.
package disambiguator
