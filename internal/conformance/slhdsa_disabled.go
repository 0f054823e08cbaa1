//go:build noslhdsa

package conformance

import "github.com/cloudflare/circl/sign"

var slhdsaSigner sign.Scheme
