//go:build !cgo

// The exported C symbols require cgo. This stub keeps the package
// buildable (and vet-able) in cgo-disabled environments; the resulting
// binary exports nothing.
package main

func main() {}
