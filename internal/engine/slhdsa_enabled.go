//go:build !noslhdsa

package engine

import (
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// slhdsaScheme pins the SLH-DSA-SHAKE-256f parameter set. Builds that
// exclude SLH-DSA (-tags noslhdsa) leave this nil, and the nil check in
// Std keeps the unavailable branch reachable either way.
var slhdsaScheme sign.Scheme = slhdsa.SHAKE_256f.Scheme()
