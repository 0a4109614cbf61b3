package audit

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sg-sweeper/cmd/cmdutils"
	"sg-sweeper/pkg/core"
	"sg-sweeper/pkg/core/report"
)

var (
	Cmd = &cobra.Command{
		Use:   "audit",
		Short: "Audit Security Groups and report the dangling ones (dry-run).",
		Long: "Audit fetches every Security Group and Network Interface of the region, classifies each group " +
			"and reports the deletable candidates together with the equivalent AWS CLI deletion command. " +
			"No deletion is performed.",
		RunE: runAudit,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			region, profile, err = cmdutils.LookupRegionAndProfile(cmd)
			return err
		},
	}

	all      bool
	output   string
	s3Bucket string
	s3Prefix string
	region   string
	profile  string
)

func runAudit(cmd *cobra.Command, args []string) error {
	audit, err := core.AuditRegion(cmd.Context(), region, profile)
	if err != nil {
		return err
	}

	rep := report.New(audit, report.ModeDryRun)
	printReport(rep)

	return saveReport(cmd, rep)
}

func printReport(rep *report.Report) {
	pterm.DefaultSection.Printf("SG Audit | Region: %s | Mode: %s", rep.Metadata.Region, rep.Metadata.ExecutionMode)

	summary := []pterm.BulletListItem{
		{Level: 0, Text: fmt.Sprintf("Total SGs found: %d", rep.Metadata.TotalSgsFound)},
		{Level: 0, Text: fmt.Sprintf("Protected SGs (In Use or Default): %d", rep.Summary.ProtectedSgs)},
		{Level: 0, Text: fmt.Sprintf("Dangling Candidates (Deletable): %d", rep.Summary.DanglingCandidates)},
	}
	if rep.Metadata.AccountId != "" {
		summary = append([]pterm.BulletListItem{
			{Level: 0, Text: fmt.Sprintf("Account: %s", rep.Metadata.AccountId)},
		}, summary...)
	}
	if err := pterm.DefaultBulletList.WithItems(summary).Render(); err != nil {
		return
	}

	printed := 0
	for _, group := range rep.Groups {
		if !all && !group.Deletable() {
			continue
		}
		printGroupRecord(group)
		printed++
	}

	if printed == 0 {
		pterm.Info.Println("No deletable dangling security groups found. Account is tidy!")
	}
}

func printGroupRecord(group report.GroupRecord) {
	pterm.DefaultSection.WithLevel(2).Printf("%s (%s)", group.SgName, group.SgId)

	bulletList := []pterm.BulletListItem{
		{Level: 0, Text: fmt.Sprintf("Status: %s", cmdutils.GetStatusText(group.Status))},
	}
	if group.Default {
		bulletList = append(bulletList, pterm.BulletListItem{Level: 0,
			Text: "Default group of its VPC: never a delete candidate"})
	}
	if group.SelfReferenced {
		bulletList = append(bulletList, pterm.BulletListItem{Level: 0, Text: "References itself in its own rules"})
	}
	if len(group.ReferencedBy) > 0 {
		bulletList = append(bulletList, pterm.BulletListItem{Level: 0, Text: "Referenced by Security Group(s):"})
		for _, referrer := range group.ReferencedBy {
			bulletList = append(bulletList, pterm.BulletListItem{Level: 1, Text: referrer})
		}
	}
	if len(group.AttachedTo) > 0 {
		bulletList = append(bulletList, pterm.BulletListItem{Level: 0, Text: "Used by Network Interface(s):"})
		for _, eni := range group.AttachedTo {
			bulletList = append(bulletList, pterm.BulletListItem{Level: 1, Text: eni})
		}
	}
	if group.Action != "" {
		bulletList = append(bulletList, pterm.BulletListItem{Level: 0,
			Text: fmt.Sprintf("CLI Command: %s", group.Action)})
	}

	if err := pterm.DefaultBulletList.WithItems(bulletList).Render(); err != nil {
		return
	}
}

func saveReport(cmd *cobra.Command, rep *report.Report) error {
	if output != "" {
		txtPath, jsonPath, err := rep.WriteFiles(output)
		if err != nil {
			return err
		}
		pterm.Info.Println("Full text report saved to: " + txtPath)
		pterm.Info.Println("Structured JSON report saved to: " + jsonPath)
	}

	if s3Bucket != "" {
		jsonBytes, err := rep.Json()
		if err != nil {
			return err
		}
		objectKey := path.Join(s3Prefix, reportObjectName(rep))
		if err = core.UploadReport(cmd.Context(), region, profile, s3Bucket, objectKey, jsonBytes); err != nil {
			return fmt.Errorf("upload report to s3://%s/%s: %w", s3Bucket, objectKey, err)
		}
		pterm.Info.Printf("Structured JSON report uploaded to: s3://%s/%s\n", s3Bucket, objectKey)
	}

	return nil
}

func reportObjectName(rep *report.Report) string {
	if output != "" {
		return filepath.Base(output) + ".json"
	}
	return fmt.Sprintf("sg-audit-%s-%s.json", rep.Metadata.Region, rep.Metadata.Timestamp)
}

func init() {
	includeValidateFlags(Cmd)
}

func includeValidateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&all, "all", "a", false,
		"[Optional] Include in-use security groups in the listing. Default: candidates only.")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"[Optional] Base file name for the reports. Creates <base>.txt and <base>.json.")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "",
		"[Optional] S3 bucket to upload the JSON report to.")
	cmd.Flags().StringVar(&s3Prefix, "s3-prefix", "",
		"[Optional] Key prefix for the uploaded report.")
}
