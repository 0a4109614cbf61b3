package cmdutils

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	coreTypes "sg-sweeper/pkg/core/types"
)

// GetStatusText colors the classification status for console output
func GetStatusText(status coreTypes.Status) string {
	var stylized string
	switch status {
	case coreTypes.StatusInUse:
		stylized = pterm.LightGreen(string(status))
	case coreTypes.StatusDanglingSelfRef:
		stylized = pterm.LightYellow(string(status))
	default:
		stylized = pterm.LightRed(string(status))
	}
	return stylized
}

// LookupRegionAndProfile reads the persistent flags of the root command. The region is
// mandatory for every subcommand that talks to AWS.
func LookupRegionAndProfile(cmd *cobra.Command) (string, string, error) {
	var region string
	regionFlag := cmd.Flags().Lookup("region")
	if regionFlag != nil {
		region = regionFlag.Value.String()
	}

	var profile string
	profileFlag := cmd.Flags().Lookup("profile")
	if profileFlag != nil {
		profile = profileFlag.Value.String()
	}

	if region == "" {
		return "", "", fmt.Errorf("no AWS Region provided")
	}

	return region, profile, nil
}
