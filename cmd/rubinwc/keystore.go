package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"rubin.dev/rubinwc-go/pkg/rubinwc"
	"rubin.dev/rubinwc-go/pkg/rubinwc/keystore"
	"rubin.dev/rubinwc-go/pkg/rubinwc/logging"
)

func keystoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "keystore",
		Usage: "RBKSv1 wrapped-key file maintenance",
		Subcommands: []*cli.Command{
			keystoreExportCommand(),
			keystoreRewrapCommand(),
			keystoreVerifyCommand(),
		},
	}
}

func keystoreExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "wrap a secret key and write an RBKSv1 record",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "suite", Required: true, Usage: "ml-dsa-87 or slh-dsa-shake-256f"},
			&cli.StringFlag{Name: "pubkey-file", Required: true, Usage: "packed public key (binary)"},
			&cli.StringFlag{Name: "sk-file", Required: true, Usage: "packed secret key (binary)"},
			kekHexFlag, kekFileFlag,
			&cli.StringFlag{Name: "out", Required: true, Usage: "output keystore JSON path"},
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			alg, err := parseSuite(c.String("suite"))
			if err != nil {
				return err
			}
			pubkey, err := os.ReadFile(c.String("pubkey-file"))
			if err != nil {
				return err
			}
			secret, err := os.ReadFile(c.String("sk-file"))
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(secret)
			kek, err := readKEK(c)
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(kek)

			s, err := newShim()
			if err != nil {
				return err
			}
			rec, err := keystore.Export(s, s, alg, pubkey, secret, kek)
			if err != nil {
				return err
			}
			if err := rec.Save(c.String("out")); err != nil {
				return err
			}
			logger.Info(c.Context, "keystore record exported",
				"suite", alg.String(),
				"key_id", rec.KeyIDHex,
				"out", c.String("out"),
				logging.Redacted("kek"),
			)
			fmt.Fprintln(c.App.Writer, rec.KeyIDHex)
			return nil
		},
	}
}

func keystoreRewrapCommand() *cli.Command {
	oldKEKHex := &cli.StringFlag{Name: "old-kek-hex", Usage: "current KEK as hex"}
	oldKEKFile := &cli.StringFlag{Name: "old-kek-file", Usage: "file containing the current KEK as hex text"}
	newKEKHex := &cli.StringFlag{Name: "new-kek-hex", Usage: "replacement KEK as hex"}
	newKEKFile := &cli.StringFlag{Name: "new-kek-file", Usage: "file containing the replacement KEK as hex text"}
	return &cli.Command{
		Name:  "rewrap",
		Usage: "migrate a record's wrapped key to a new KEK",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "input keystore JSON path"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output keystore JSON path"},
			oldKEKHex, oldKEKFile, newKEKHex, newKEKFile,
		},
		Action: func(c *cli.Context) error {
			logger := newLogger(c)
			oldKEK, err := readNamedKEK(c, oldKEKHex.Name, oldKEKFile.Name)
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(oldKEK)
			newKEK, err := readNamedKEK(c, newKEKHex.Name, newKEKFile.Name)
			if err != nil {
				return err
			}
			defer rubinwc.ZeroizeBytes(newKEK)

			rec, err := keystore.Load(c.String("in"))
			if err != nil {
				return err
			}
			s, err := newShim()
			if err != nil {
				return err
			}
			if err := keystore.Rewrap(s, rec, oldKEK, newKEK); err != nil {
				return cli.Exit(fmt.Sprintf("rewrap: %v", err), 1)
			}
			if err := rec.Save(c.String("out")); err != nil {
				return err
			}
			logger.Info(c.Context, "keystore record rewrapped",
				"key_id", rec.KeyIDHex,
				"out", c.String("out"),
				logging.Redacted("old_kek"),
				logging.Redacted("new_kek"),
			)
			return nil
		},
	}
}

func keystoreVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "recompute and check a record's key identifier",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "input keystore JSON path"},
			&cli.StringFlag{Name: "expected-key-id-hex", Usage: "fail unless the computed key id matches"},
		},
		Action: func(c *cli.Context) error {
			rec, err := keystore.Load(c.String("in"))
			if err != nil {
				return err
			}
			s, err := newShim()
			if err != nil {
				return err
			}
			got, err := keystore.Verify(s, rec)
			if err != nil {
				return cli.Exit(fmt.Sprintf("verify: %v", err), 1)
			}
			if expected := c.String("expected-key-id-hex"); expected != "" {
				want := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(expected), "0x"))
				if want != got {
					return cli.Exit(fmt.Sprintf("key_id mismatch: expected=%s computed=%s", want, got), 1)
				}
			}
			fmt.Fprintln(c.App.Writer, got)
			return nil
		},
	}
}

// readNamedKEK is readKEK for commands that take more than one KEK.
func readNamedKEK(c *cli.Context, hexFlag, fileFlag string) ([]byte, error) {
	hexStr := c.String(hexFlag)
	path := c.String(fileFlag)
	switch {
	case hexStr != "" && path != "":
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", hexFlag, fileFlag)
	case hexStr == "" && path == "":
		return nil, fmt.Errorf("a KEK is required (--%s or --%s)", hexFlag, fileFlag)
	case path != "":
		raw, err := os.ReadFile(path) // #nosec G304 -- operator-provided path
		if err != nil {
			return nil, err
		}
		hexStr = string(raw)
	}
	kek, err := parseHex(hexStr)
	if err != nil {
		return nil, fmt.Errorf("kek: %w", err)
	}
	if len(kek) != rubinwc.KEKSize {
		return nil, fmt.Errorf("kek must be %d bytes (got %d)", rubinwc.KEKSize, len(kek))
	}
	return kek, nil
}
