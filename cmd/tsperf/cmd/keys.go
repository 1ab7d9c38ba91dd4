package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/tsperf-matrix/pkg/auth"
	tlsutil "github.com/psantana5/tsperf-matrix/pkg/tls"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys for the serve command",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an API key and the hash to put in api_key_hashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.GenerateKey()
		if err != nil {
			return err
		}
		hash, err := auth.HashKey(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "key:  %s\nhash: %s\n", key, hash)
		return nil
	},
}

var keysHashCmd = &cobra.Command{
	Use:   "hash <key>",
	Short: "Print the hash of an existing API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var (
	certFile  string
	keyFile   string
	certHosts []string
	certDays  int
)

var keysCertCmd = &cobra.Command{
	Use:   "cert <common-name>",
	Short: "Generate a self-signed certificate for serve --tls-cert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		validFor := time.Duration(certDays) * 24 * time.Hour
		if err := tlsutil.GenerateSelfSignedCert(certFile, keyFile, args[0], validFor, certHosts...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", certFile, keyFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd)
	keysCmd.AddCommand(keysHashCmd)
	keysCmd.AddCommand(keysCertCmd)

	keysCertCmd.Flags().StringVar(&certFile, "cert", "tsperf.crt", "certificate output file")
	keysCertCmd.Flags().StringVar(&keyFile, "key", "tsperf.key", "private key output file")
	keysCertCmd.Flags().StringSliceVar(&certHosts, "host", nil, "additional IP addresses or DNS names")
	keysCertCmd.Flags().IntVar(&certDays, "days", 365, "validity in days")
}
