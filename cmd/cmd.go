package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"sg-sweeper/cmd/audit"
	"sg-sweeper/cmd/purge"
)

// Execute - parse CLI arguments and execute command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Println("There was an error while executing sg-sweeper!", err)
		os.Exit(1)
	}
}

var (
	appVersion = "development"
	gitCommit  = "commit"
	rootCmd    = &cobra.Command{
		Use:   "sg-sweeper",
		Short: "Find and clean up dangling Security Groups.",
		Long: `sg-sweeper audits the Security Groups of an AWS region and reports the ones which are
dangling: not attached to any Network Interface and not referenced by the rules of any
other Security Group. A group that only references itself is reported as deletable in
its own category, since without an attachment such a rule protects nothing.

Known limitation: reference protection is not transitive. Two unattached Security Groups
whose rules only reference each other will both be reported as in use, because each of
them is referenced by another group. Chains of dead groups can keep each other alive
this way; break the cycle by removing the rules first.`,
		Version:          fmt.Sprintf("%s (%s)", appVersion, gitCommit),
		TraverseChildren: true,
	}

	region  string
	profile string
)

func init() {
	includeValidateFlags(rootCmd)
	rootCmd.AddCommand(audit.Cmd)
	rootCmd.AddCommand(purge.Cmd)
}

func includeValidateFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&region, "region", "",
		"AWS Region to audit.")
	cmd.PersistentFlags().StringVar(&profile, "profile", "",
		"[Optional] AWS Profile.")
}
