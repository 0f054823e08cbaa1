// Command rubinwc is operator tooling over the crypto boundary: digest
// and verification checks, AES-256-KW wrap/unwrap, RBKSv1 keystore
// maintenance, self-tests, and conformance fixture generation.
//
// Key material never reaches a log line; log records carry a run_id so
// multi-step operations can be correlated.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/logging"
	"rubin.dev/rubinwc-go/pkg/rubinwc/selftest"
	"rubin.dev/rubinwc-go/pkg/rubinwc/suite"
)

var (
	flagLogJSON = &cli.BoolFlag{
		Name:  "log-json",
		Usage: "log in JSON format",
	}
	flagLogDebug = &cli.BoolFlag{
		Name:  "log-debug",
		Usage: "log debug messages",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "rubinwc:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "rubinwc",
		Usage:   "post-quantum crypto boundary tooling",
		Version: rubinwc.LibraryVersion(),
		Flags:   []cli.Flag{flagLogJSON, flagLogDebug},
		Commands: []*cli.Command{
			infoCommand(),
			hashCommand(),
			verifyCommand(),
			wrapCommand(),
			unwrapCommand(),
			keystoreCommand(),
			selftestCommand(),
			fixturesCommand(),
		},
	}
}

// newLogger builds the invocation logger. Every record carries a fresh
// run_id so log aggregators can stitch one invocation together.
func newLogger(c *cli.Context) logging.Logger {
	level := slog.LevelInfo
	if c.Bool(flagLogDebug.Name) {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.Bool(flagLogJSON.Name) {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return logging.New(slog.New(handler)).With("run_id", uuid.NewString())
}

func newShim() (*rubinwc.Shim, error) {
	return rubinwc.New(rubinwc.Config{})
}

func infoCommand() *cli.Command {
	type suiteInfo struct {
		Name       string `json:"name"`
		SuiteID    uint8  `json:"suite_id"`
		PubkeySize int    `json:"pubkey_size"`
		SigSize    int    `json:"sig_size"`
		Level      uint8  `json:"level"`
		Available  bool   `json:"available"`
	}
	type info struct {
		Version             string      `json:"version"`
		ABIVersion          int         `json:"abi_version"`
		SLHDSAAvailable     bool        `json:"slh_dsa_available"`
		DigestSize          int         `json:"digest_size"`
		KEKSize             int         `json:"kek_size"`
		KeyWrapOverhead     int         `json:"keywrap_overhead"`
		MaxKeyWrapPlaintext int         `json:"max_keywrap_plaintext"`
		Suites              []suiteInfo `json:"suites"`
	}
	return &cli.Command{
		Name:  "info",
		Usage: "print versions, availability, and size constants",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit JSON"},
		},
		Action: func(c *cli.Context) error {
			s, err := newShim()
			if err != nil {
				return err
			}
			out := info{
				Version:             rubinwc.LibraryVersion(),
				ABIVersion:          rubinwc.ABIVersion,
				SLHDSAAvailable:     s.SLHDSAAvailable(),
				DigestSize:          rubinwc.DigestSize,
				KEKSize:             rubinwc.KEKSize,
				KeyWrapOverhead:     rubinwc.KeyWrapOverhead,
				MaxKeyWrapPlaintext: s.MaxKeyWrapPlaintext(),
			}
			for _, alg := range suite.All() {
				available := true
				if alg == suite.SLHDSAShake256f {
					available = s.SLHDSAAvailable()
				}
				out.Suites = append(out.Suites, suiteInfo{
					Name:       alg.String(),
					SuiteID:    alg.SuiteID(),
					PubkeySize: alg.PublicKeySize(),
					SigSize:    alg.SignatureSize(),
					Level:      uint8(alg.Level()),
					Available:  available,
				})
			}
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			fmt.Fprintf(c.App.Writer, "version:               %s\n", out.Version)
			fmt.Fprintf(c.App.Writer, "abi version:           %d\n", out.ABIVersion)
			fmt.Fprintf(c.App.Writer, "slh-dsa available:     %t\n", out.SLHDSAAvailable)
			fmt.Fprintf(c.App.Writer, "digest size:           %d\n", out.DigestSize)
			fmt.Fprintf(c.App.Writer, "kek size:              %d\n", out.KEKSize)
			fmt.Fprintf(c.App.Writer, "keywrap overhead:      %d\n", out.KeyWrapOverhead)
			fmt.Fprintf(c.App.Writer, "max keywrap plaintext: %d\n", out.MaxKeyWrapPlaintext)
			for _, si := range out.Suites {
				fmt.Fprintf(c.App.Writer, "suite 0x%02x %-20s pk=%-5d sig=%-5d level=%d available=%t\n",
					si.SuiteID, si.Name, si.PubkeySize, si.SigSize, si.Level, si.Available)
			}
			return nil
		},
	}
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "SHA3-256 of a file, hex string, or stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "input file"},
			&cli.StringFlag{Name: "hex", Usage: "input bytes as hex"},
		},
		Action: func(c *cli.Context) error {
			input, err := readInput(c)
			if err != nil {
				return err
			}
			s, err := newShim()
			if err != nil {
				return err
			}
			digest, err := s.SHA3_256(input)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, hex.EncodeToString(digest[:]))
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "verify a signature over a 32-byte digest",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "suite", Required: true, Usage: "ml-dsa-87 or slh-dsa-shake-256f"},
			&cli.StringFlag{Name: "pubkey-file", Required: true, Usage: "packed public key (binary)"},
			&cli.StringFlag{Name: "sig-file", Required: true, Usage: "signature (binary)"},
			&cli.StringFlag{Name: "digest-hex", Usage: "32-byte digest as hex"},
			&cli.StringFlag{Name: "msg-file", Usage: "hash this file instead of passing a digest"},
		},
		Action: func(c *cli.Context) error {
			alg, err := parseSuite(c.String("suite"))
			if err != nil {
				return err
			}
			pubkey, err := os.ReadFile(c.String("pubkey-file"))
			if err != nil {
				return err
			}
			sig, err := os.ReadFile(c.String("sig-file"))
			if err != nil {
				return err
			}
			s, err := newShim()
			if err != nil {
				return err
			}
			digest, err := resolveDigest(c, s)
			if err != nil {
				return err
			}

			var ok bool
			switch alg {
			case suite.MLDSA87:
				ok, err = s.VerifyMLDSA87(pubkey, sig, digest)
			case suite.SLHDSAShake256f:
				ok, err = s.VerifySLHDSAShake256f(pubkey, sig, digest)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("verify: %v", err), 2)
			}
			if !ok {
				return cli.Exit("signature: invalid", 1)
			}
			fmt.Fprintln(c.App.Writer, "signature: valid")
			return nil
		},
	}
}

func wrapCommand() *cli.Command {
	return &cli.Command{
		Name:  "wrap",
		Usage: "AES-256-KW wrap a key file",
		Flags: []cli.Flag{
			kekHexFlag, kekFileFlag,
			&cli.StringFlag{Name: "in", Required: true, Usage: "plaintext key file"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "wrapped output file"},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			kek, err := readKEK(c)
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(kek)
			plain, err := os.ReadFile(c.String("in"))
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(plain)
			s, err := newShim()
			if err != nil {
				return err
			}
			wrapped, err := s.KeyWrap(kek, plain)
			if err != nil {
				return err
			}
			if err := os.WriteFile(c.String("out"), wrapped, 0o600); err != nil {
				return err
			}
			logger.Info(c.Context, "wrapped key material",
				"in_bytes", len(plain),
				"out_bytes", len(wrapped),
				"out", c.String("out"),
				logging.Redacted("kek"),
			)
			return nil
		},
	}
}

func unwrapCommand() *cli.Command {
	return &cli.Command{
		Name:  "unwrap",
		Usage: "AES-256-KW unwrap a wrapped key file",
		Flags: []cli.Flag{
			kekHexFlag, kekFileFlag,
			&cli.StringFlag{Name: "in", Required: true, Usage: "wrapped input file"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "plaintext output file"},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			kek, err := readKEK(c)
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(kek)
			wrapped, err := os.ReadFile(c.String("in"))
			if err != nil {
				return err
			}
			s, err := newShim()
			if err != nil {
				return err
			}
			plain, err := s.KeyUnwrap(kek, wrapped)
			if err != nil {
				return cli.Exit(fmt.Sprintf("unwrap: %v", err), 1)
			}
			err = os.WriteFile(c.String("out"), plain, 0o600)
			rubinwc.ZeroizeBytes(plain)
			if err != nil {
				return err
			}
			logger.Info(c.Context, "unwrapped key material",
				"in_bytes", len(wrapped),
				"out", c.String("out"),
				logging.Redacted("kek"),
			)
			return nil
		},
	}
}

func selftestCommand() *cli.Command {
	return &cli.Command{
		Name:  "selftest",
		Usage: "run known-answer and pairwise consistency checks",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit the report as JSON"},
		},
		Action: func(c *cli.Context) error {
			s, err := newShim()
			if err != nil {
				return err
			}
			report := selftest.Run(s)
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				for _, chk := range report.Checks {
					line := fmt.Sprintf("%-34s %s", chk.Name, chk.Status)
					if chk.Detail != "" {
						line += " (" + chk.Detail + ")"
					}
					fmt.Fprintln(c.App.Writer, line)
				}
			}
			if !report.OK() {
				return cli.Exit("self-test failed", 1)
			}
			return nil
		},
	}
}

var (
	kekHexFlag  = &cli.StringFlag{Name: "kek-hex", Usage: "AES-256 KEK as 64 hex chars"}
	kekFileFlag = &cli.StringFlag{Name: "kek-file", Usage: "file containing the KEK as hex text"}
)

// readKEK loads the KEK from --kek-hex or --kek-file. The value is secret:
// callers zeroize it and never log it.
func readKEK(c *cli.Context) ([]byte, error) {
	return readNamedKEK(c, kekHexFlag.Name, kekFileFlag.Name)
}

func readInput(c *cli.Context) ([]byte, error) {
	hexStr := c.String("hex")
	path := c.String("in")
	switch {
	case hexStr != "" && path != "":
		return nil, fmt.Errorf("--hex and --in are mutually exclusive")
	case hexStr != "":
		return parseHex(hexStr)
	case path != "":
		return os.ReadFile(path) // #nosec G304 -- operator-provided path
	default:
		return io.ReadAll(os.Stdin)
	}
}

func resolveDigest(c *cli.Context, s *rubinwc.Shim) ([32]byte, error) {
	var digest [32]byte
	digestHex := c.String("digest-hex")
	msgFile := c.String("msg-file")
	switch {
	case digestHex != "" && msgFile != "":
		return digest, fmt.Errorf("--digest-hex and --msg-file are mutually exclusive")
	case digestHex != "":
		b, err := parseHex(digestHex)
		if err != nil {
			return digest, fmt.Errorf("digest: %w", err)
		}
		if len(b) != rubinwc.DigestSize {
			return digest, fmt.Errorf("digest must be %d bytes (got %d)", rubinwc.DigestSize, len(b))
		}
		copy(digest[:], b)
		return digest, nil
	case msgFile != "":
		msg, err := os.ReadFile(msgFile) // #nosec G304 -- operator-provided path
		if err != nil {
			return digest, err
		}
		return s.SHA3_256(msg)
	default:
		return digest, fmt.Errorf("a digest is required (--digest-hex or --msg-file)")
	}
}

// parseHex tolerates whitespace and an optional 0x prefix.
func parseHex(s string) ([]byte, error) {
	cleaned := strings.Join(strings.Fields(s), "")
	cleaned = strings.TrimPrefix(cleaned, "0x")
	return hex.DecodeString(cleaned)
}

func parseSuite(name string) (suite.Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ml-dsa-87", "mldsa87":
		return suite.MLDSA87, nil
	case "slh-dsa-shake-256f", "slhdsa-shake-256f", "slhdsashake256f":
		return suite.SLHDSAShake256f, nil
	default:
		return 0, fmt.Errorf("unknown suite %q", name)
	}
}
