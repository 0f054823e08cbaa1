package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"rubin.dev/rubinwc-go/internal/conformance"
	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

func verifyWith(s *rubinwc.Shim, alg suite.Algorithm, pubkey, sig []byte, digest [32]byte) (bool, error) {
	switch alg {
	case suite.MLDSA87:
		return s.VerifyMLDSA87(pubkey, sig, digest)
	case suite.SLHDSAShake256f:
		return s.VerifySLHDSAShake256f(pubkey, sig, digest)
	default:
		return false, fmt.Errorf("unknown suite %d", alg)
	}
}

// fixture is one signed test vector for cross-implementation checks.
// Every fixture verifies as valid; consumers derive negative cases by
// mutating it.
type fixture struct {
	Suite     string `json:"suite"`
	SuiteID   uint8  `json:"suite_id"`
	Message   string `json:"message"`
	DigestHex string `json:"digest_hex"`
	PubkeyHex string `json:"pubkey_hex"`
	SigHex    string `json:"sig_hex"`
}

func fixturesCommand() *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "emit signed conformance fixtures as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Value: "rubinwc conformance fixture", Usage: "message to digest and sign"},
			&cli.StringFlag{Name: "out", Usage: "output path (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			s, err := newShim()
			if err != nil {
				return err
			}
			msg := c.String("message")
			digest, err := s.SHA3_256([]byte(msg))
			if err != nil {
				return err
			}

			var fixtures []fixture
			for _, alg := range suite.All() {
				if alg == suite.SLHDSAShake256f && !s.SLHDSAAvailable() {
					continue
				}
				if !conformance.CanSign(alg) {
					continue
				}
				kp, err := conformance.GenerateKeyPair(alg)
				if err != nil {
					return err
				}
				sig, err := kp.SignDigest(digest)
				if err != nil {
					return err
				}
				ok, err := verifyWith(s, alg, kp.PublicKey, sig, digest)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("fixtures: %s fixture failed verification", alg)
				}
				fixtures = append(fixtures, fixture{
					Suite:     alg.String(),
					SuiteID:   alg.SuiteID(),
					Message:   msg,
					DigestHex: hex.EncodeToString(digest[:]),
					PubkeyHex: hex.EncodeToString(kp.PublicKey),
					SigHex:    hex.EncodeToString(sig),
				})
			}

			raw, err := json.MarshalIndent(fixtures, "", "  ")
			if err != nil {
				return err
			}
			raw = append(raw, '\n')
			if out := c.String("out"); out != "" {
				return os.WriteFile(out, raw, 0o644)
			}
			_, err = c.App.Writer.Write(raw)
			return err
		},
	}
}
