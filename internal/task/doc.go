// Package task holds the task collection, its mutations and the sorted,
// filtered view rendered by the UI.
//
// Every mutation that changes the collection is followed by an explicit
// save of the full list through the store's Persister.
package task
