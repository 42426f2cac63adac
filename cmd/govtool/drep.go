package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stake-plus/govtool/src/cardano"
)

func newDRepIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drep-id <public-key-hex | drep id>",
		Short: "Derive a DRep id from an ed25519 key, or decode one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := strings.TrimPrefix(args[0], "0x")
			if raw, err := hex.DecodeString(arg); err == nil && len(raw) == ed25519.PublicKeySize {
				kh, err := cardano.KeyHashFromPublicKey(raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "drep id:  %s\nkey hash: %s\n", kh.DRepID(), kh.Hex())
				return nil
			}
			kh, err := cardano.ParseDRepID(arg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "drep id:  %s\nkey hash: %s\n", kh.DRepID(), kh.Hex())
			return nil
		},
	}
}
