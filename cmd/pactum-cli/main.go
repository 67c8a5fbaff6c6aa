package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"pactum.dev/node/covenant"
	"pactum.dev/node/crypto"
	"pactum.dev/node/node"
	"pactum.dev/node/node/store"
)

// RabinVerifier is the production oracle scheme; it satisfies the
// covenant-side verifier contract.
var oracleVerifier covenant.OracleVerifier = crypto.RabinVerifier{}

var provider crypto.Provider = crypto.DevStdProvider{}

func main() {
	cfg := node.DefaultConfig()

	var rootCmd = &cobra.Command{
		Use:   "pactum-cli",
		Short: "Inspect and evaluate staking/loan covenants",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return node.ValidateConfig(cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfg.Network, "network", cfg.Network, "ledger network name")
	rootCmd.PersistentFlags().StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level")

	var keyhashCmd = &cobra.Command{
		Use:   "keyhash pubkey_hex",
		Short: "Derives the 20-byte address payload of a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "cannot parse pubkey hex")
			}
			h := provider.Hash160(pub)
			fmt.Printf("%x\n", h)
			return nil
		},
	}

	var digestCmd = &cobra.Command{
		Use:   "digest output_hex [output_hex...]",
		Short: "Computes the output commitment digest over serialized outputs",
		Long:  `Each argument is one serialized output. Order matters; the digest is the double SHA-256 of the concatenation.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concat := make([]byte, 0, 64)
			for i, arg := range args {
				b, err := hex.DecodeString(arg)
				if err != nil {
					return errors.Wrapf(err, "cannot parse output %d", i)
				}
				concat = append(concat, b...)
			}
			d := provider.Hash256(concat)
			fmt.Printf("%x\n", d)
			return nil
		},
	}

	var inspectStakeCmd = &cobra.Command{
		Use:   "inspect-stake covenant_data_hex",
		Short: "Decodes staking covenant data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "cannot parse covenant_data hex")
			}
			s, err := covenant.ParseStakingCovenantData(b)
			if err != nil {
				return errors.Wrap(err, "cannot parse staking covenant")
			}
			fmt.Printf("staker_key_hash:     %x\n", s.Staker.KeyHash)
			fmt.Printf("staked_satoshi:      %d\n", s.Staker.StakedSatoshi)
			fmt.Printf("unlock_time:         %d\n", s.Staker.UnlockTime)
			fmt.Printf("shell_key_hash:      %x\n", s.ShellKeyHash)
			fmt.Printf("target_key_hash:     %x\n", s.TargetKeyHash)
			fmt.Printf("shell_token_reserve: %d\n", s.ShellTokenReserve)
			return nil
		},
	}

	var inspectLoanCmd = &cobra.Command{
		Use:   "inspect-loan covenant_data_hex",
		Short: "Decodes loan covenant data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "cannot parse covenant_data hex")
			}
			l, err := covenant.ParseLoanCovenantData(b)
			if err != nil {
				return errors.Wrap(err, "cannot parse loan covenant")
			}
			fmt.Printf("lender_key_hash:   %x\n", l.LenderKeyHash)
			fmt.Printf("borrower_key_hash: %x\n", l.BorrowerKeyHash)
			fmt.Printf("token_id:          %x\n", l.TokenID)
			fmt.Printf("token_amt:         %d\n", l.TokenAmt)
			fmt.Printf("interest_rate:     %d\n", l.InterestRate)
			fmt.Printf("collateral:        %d\n", l.Collateral)
			fmt.Printf("deadline:          %d\n", l.Deadline)
			fmt.Printf("taken:             %v\n", l.Taken)
			fmt.Printf("oracle_pubkey:     %x\n", l.OraclePubKey)
			return nil
		},
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists live covenant UTXOs in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(cfg.DataDir, cfg.Network)
			if err != nil {
				return errors.Wrap(err, "cannot open store")
			}
			defer db.Close()
			return db.ForEachCovenant(func(p covenant.Outpoint, e store.CovenantEntry) error {
				fmt.Printf("%x:%d type=0x%04x value=%d height=%d\n",
					p.TxID, p.Vout, e.CovenantType, e.Value, e.CreationHeight)
				return nil
			})
		},
	}

	var fundCmd = &cobra.Command{
		Use:   "fund txid_hex vout value covenant_type covenant_data_hex height",
		Short: "Records a freshly deployed covenant UTXO",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := parseOutpointArgs(args[0], args[1])
			if err != nil {
				return err
			}
			value, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return errors.Wrap(err, "cannot parse value")
			}
			covType, err := strconv.ParseUint(args[3], 0, 16)
			if err != nil {
				return errors.Wrap(err, "cannot parse covenant_type")
			}
			covData, err := hex.DecodeString(args[4])
			if err != nil {
				return errors.Wrap(err, "cannot parse covenant_data hex")
			}
			height, err := strconv.ParseUint(args[5], 10, 64)
			if err != nil {
				return errors.Wrap(err, "cannot parse height")
			}

			db, err := store.Open(cfg.DataDir, cfg.Network)
			if err != nil {
				return errors.Wrap(err, "cannot open store")
			}
			defer db.Close()

			engine := node.NewEngine(db)
			out := covenant.TxOutput{
				Value:        value,
				CovenantType: uint16(covType),
				CovenantData: covData,
			}
			if err := engine.FundCovenant(point, out, height); err != nil {
				return errors.Wrap(err, "cannot fund covenant")
			}
			fmt.Printf("recorded covenant utxo %x:%d\n", point.TxID, point.Vout)
			return nil
		},
	}

	var verifyAttestationCmd = &cobra.Command{
		Use:   "verify-attestation msg_hex sig_hex oracle_pubkey_hex",
		Short: "Checks an oracle attestation signature and decodes its fields",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "cannot parse msg hex")
			}
			sig, err := hex.DecodeString(args[1])
			if err != nil {
				return errors.Wrap(err, "cannot parse sig hex")
			}
			pub, err := hex.DecodeString(args[2])
			if err != nil {
				return errors.Wrap(err, "cannot parse pubkey hex")
			}
			if !oracleVerifier.VerifyAttestation(msg, sig, pub) {
				return errors.New("attestation signature invalid")
			}
			att, err := covenant.ParseOracleMessage(msg)
			if err != nil {
				return errors.Wrap(err, "cannot parse oracle message")
			}
			fmt.Printf("token_outpoint: %x:%d\n", att.TokenOutpoint.TxID, att.TokenOutpoint.Vout)
			fmt.Printf("token_amt:      %d\n", att.TokenAmt)
			return nil
		},
	}

	rootCmd.AddCommand(keyhashCmd, digestCmd, inspectStakeCmd, inspectLoanCmd, listCmd, fundCmd, verifyAttestationCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseOutpointArgs(txidHex string, voutStr string) (covenant.Outpoint, error) {
	txid, err := hex.DecodeString(txidHex)
	if err != nil {
		return covenant.Outpoint{}, errors.Wrap(err, "cannot parse txid hex")
	}
	if len(txid) != 32 {
		return covenant.Outpoint{}, errors.New("txid must be 32 bytes")
	}
	vout, err := strconv.ParseUint(voutStr, 10, 32)
	if err != nil {
		return covenant.Outpoint{}, errors.Wrap(err, "cannot parse vout")
	}
	var p covenant.Outpoint
	copy(p.TxID[:], txid)
	p.Vout = uint32(vout)
	return p, nil
}
