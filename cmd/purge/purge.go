package purge

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sg-sweeper/cmd/cmdutils"
	"sg-sweeper/pkg/core"
	"sg-sweeper/pkg/core/report"
	"sg-sweeper/pkg/core/utils"
)

var (
	Cmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete the dangling Security Groups of a region.",
		Long: "Purge runs the same classification as audit and then deletes every deletable candidate: " +
			"groups with no attachment and no reference from another group, default groups excluded. " +
			"A failed deletion is reported and does not stop the rest of the batch.",
		RunE: runPurge,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			region, profile, err = cmdutils.LookupRegionAndProfile(cmd)
			return err
		},
	}

	yes     bool
	output  string
	region  string
	profile string
)

func runPurge(cmd *cobra.Command, args []string) error {
	audit, err := core.AuditRegion(cmd.Context(), region, profile)
	if err != nil {
		return err
	}

	rep := report.New(audit, report.ModeLiveDelete)
	candidates := rep.Candidates()

	if len(candidates) == 0 {
		pterm.Info.Println("No deletable dangling security groups found. Account is tidy!")
		return saveReport(rep)
	}

	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.SgId)
		refFlag := ""
		if candidate.SelfReferenced {
			refFlag = " (Self-Ref)"
		}
		pterm.Println(fmt.Sprintf("[DELETE CANDIDATE%s] %s (%s)", refFlag, candidate.SgId, candidate.SgName))
	}

	if !yes {
		confirmed, confirmErr := pterm.DefaultInteractiveConfirm.Show(
			fmt.Sprintf("Delete %d security group(s) from %s?", len(ids), region))
		if confirmErr != nil {
			return confirmErr
		}
		if !confirmed {
			pterm.Warning.Println("Aborted. Nothing was deleted.")
			return nil
		}
	}

	resultCh := make(chan utils.Result[string])
	if err = core.RemoveSecurityGroupsAsync(cmd.Context(), ids, region, profile, resultCh); err != nil {
		return err
	}

	deleted, failed := 0, 0
	for res := range resultCh {
		if res.Err != nil {
			failed++
			pterm.Error.Println(res.Err)
			rep.SetAction(res.Data, fmt.Sprintf("DELETE FAILED: %s", res.Err))
		} else {
			deleted++
			pterm.Info.Println("Removed Security Group with ID of " + pterm.LightGreen(res.Data))
			rep.SetAction(res.Data, "SUCCESSFULLY DELETED")
		}
	}

	if failed > 0 {
		pterm.Warning.Printf("Deleted %d security group(s), %d failed.\n", deleted, failed)
	} else {
		pterm.Info.Printf("Deleted %d security group(s).\n", deleted)
	}

	return saveReport(rep)
}

func saveReport(rep *report.Report) error {
	if output == "" {
		return nil
	}
	txtPath, jsonPath, err := rep.WriteFiles(output)
	if err != nil {
		return err
	}
	pterm.Info.Println("Full text report saved to: " + txtPath)
	pterm.Info.Println("Structured JSON report saved to: " + jsonPath)
	return nil
}

func init() {
	includeValidateFlags(Cmd)
}

func includeValidateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&yes, "yes", "y", false,
		"[Optional] Skip the interactive confirmation. USE WITH EXTREME CAUTION.")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"[Optional] Base file name for the reports. Creates <base>.txt and <base>.json.")
}
