// Package abi exposes the boundary as its frozen numeric contract: five
// functions returning int32, where positive means success (1, or bytes
// written for the key wrap calls), 0 means verification completed and
// rejected the signature, and negative values are the stable failure codes
// from the rubinwc.Code enumeration.
//
// The code -2 (hash input pointer null with non-zero length) is reserved
// for foreign callers: Go slices cannot express that state, so only the
// cshared layer produces it.
//
// This package exists for callers that need drop-in parity with the legacy
// C surface, including the cshared exports. New Go code should use package
// rubinwc directly.
package abi
