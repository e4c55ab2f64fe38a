// Package pls browses playlist files as if they were directories.
//
// A [Browser] accepts a container (a [models.Media] whose URL points at a
// playlist), streams its entries from an asynchronous [Parser], classifies each
// entry into a typed [models.Media] and delivers a paginated window of results
// through a [ResultFunc], one callback per item. Every callback runs on the
// goroutine that drives the [loop.Loop] the browser was built with; the last
// callback of an operation always carries remaining == 0 or an error.
//
// Results of a successful parse are cached per container so that a repeated
// browse neither re-parses nor changes the order of results.
//
// [Browser.BrowseSync] is a blocking wrapper that drives the loop until the
// operation terminates and returns the collected list.
package pls
