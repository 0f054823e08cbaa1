//go:build noslhdsa

package engine

import "github.com/cloudflare/circl/sign"

// This build excludes SLH-DSA. Every SLH-DSA verifier request reports
// ErrUnavailable.
var slhdsaScheme sign.Scheme
