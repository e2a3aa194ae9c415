// Package pages implements the console's list screens. A Page loads a
// resource collection and its option template concurrently, flattens the
// heterogeneous backend records into display rows, filters them in memory
// and reloads the collection after every successful mutation.
package pages
