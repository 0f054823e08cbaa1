//go:build !noslhdsa

package conformance

import (
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// Mirrors the engine's build split so fixture tooling and the shim agree on
// availability.
var slhdsaSigner sign.Scheme = slhdsa.SHAKE_256f.Scheme()
