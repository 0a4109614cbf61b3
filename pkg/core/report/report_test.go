package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sg-sweeper/pkg/core"
	coreTypes "sg-sweeper/pkg/core/types"
)

func testAudit() *core.Audit {
	return &core.Audit{
		Region:      "eu-central-1",
		AccountId:   "123456789012",
		Timestamp:   time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC),
		TotalGroups: 4,
		Classifications: []coreTypes.Classification{
			{
				GroupId:      "sg-1",
				GroupName:    "web",
				Status:       coreTypes.StatusInUse,
				ReferencedBy: []string{"sg-2"},
				AttachedTo:   []string{"eni-1"},
			},
			{
				GroupId:   "sg-2",
				GroupName: "stale",
				Status:    coreTypes.StatusDangling,
			},
			{
				GroupId:        "sg-3",
				GroupName:      "loop",
				Status:         coreTypes.StatusDanglingSelfRef,
				SelfReferenced: true,
			},
			{
				GroupId:   "sg-4",
				GroupName: "default",
				Default:   true,
				Status:    coreTypes.StatusDangling,
			},
		},
	}
}

func TestDryRunReportActions(t *testing.T) {
	rep := New(testAudit(), ModeDryRun)

	require.Equal(t, ModeDryRun, rep.Metadata.ExecutionMode)
	require.Equal(t, 4, rep.Metadata.TotalSgsFound)

	candidates := rep.Candidates()
	require.Equal(t, 2, len(candidates))
	require.Equal(t, "sg-2", candidates[0].SgId)
	require.Equal(t, "aws ec2 delete-security-group --group-id sg-2 --region eu-central-1", candidates[0].Action)
	require.Equal(t, "sg-3", candidates[1].SgId)
}

func TestSummaryCountsDefaultGroupsAsProtected(t *testing.T) {
	rep := New(testAudit(), ModeDryRun)

	// sg-1 is in use, sg-4 is a default group: both are protected
	require.Equal(t, 2, rep.Summary.ProtectedSgs)
	require.Equal(t, 2, rep.Summary.DanglingCandidates)
	require.Equal(t, 1, rep.Summary.SelfReferenced)
}

func TestDefaultGroupGetsNoAction(t *testing.T) {
	rep := New(testAudit(), ModeDryRun)

	for _, group := range rep.Groups {
		if group.SgId == "sg-4" {
			require.Empty(t, group.Action)
			require.False(t, group.Deletable())
			return
		}
	}
	t.Fatal("sg-4 not found in report")
}

func TestLiveDeleteActionsAreSetPerGroup(t *testing.T) {
	rep := New(testAudit(), ModeLiveDelete)

	for _, candidate := range rep.Candidates() {
		require.Empty(t, candidate.Action)
	}

	rep.SetAction("sg-2", "SUCCESSFULLY DELETED")
	rep.SetAction("sg-3", "DELETE FAILED: DependencyViolation")

	candidates := rep.Candidates()
	require.Equal(t, "SUCCESSFULLY DELETED", candidates[0].Action)
	require.Equal(t, "DELETE FAILED: DependencyViolation", candidates[1].Action)
}

func TestJsonRecordShape(t *testing.T) {
	jsonBytes, err := New(testAudit(), ModeDryRun).Json()
	require.NoError(t, err)

	var decoded struct {
		Metadata struct {
			Timestamp     string `json:"timestamp"`
			Region        string `json:"region"`
			AccountId     string `json:"account_id"`
			ExecutionMode string `json:"execution_mode"`
			TotalSgsFound int    `json:"total_sgs_found"`
		} `json:"metadata"`
		Summary struct {
			ProtectedSgs       int `json:"protected_sgs"`
			DanglingCandidates int `json:"dangling_candidates"`
		} `json:"report_summary"`
		Groups []struct {
			SgId           string   `json:"sg_id"`
			SgName         string   `json:"sg_name"`
			Status         string   `json:"status"`
			ReferencedBy   []string `json:"referenced_by"`
			SelfReferenced bool     `json:"is_self_referenced"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))

	require.Equal(t, "2025-11-03T10:30:00Z", decoded.Metadata.Timestamp)
	require.Equal(t, "eu-central-1", decoded.Metadata.Region)
	require.Equal(t, "123456789012", decoded.Metadata.AccountId)
	require.Equal(t, "DRY RUN", decoded.Metadata.ExecutionMode)
	require.Equal(t, 4, len(decoded.Groups))
	require.Equal(t, "sg-1", decoded.Groups[0].SgId)
	require.Equal(t, "in-use", decoded.Groups[0].Status)
	require.Equal(t, []string{"sg-2"}, decoded.Groups[0].ReferencedBy)
	// referenced_by must be an empty list, not null, for groups nobody references
	require.NotNil(t, decoded.Groups[1].ReferencedBy)
	require.True(t, decoded.Groups[2].SelfReferenced)
}

func TestTextReport(t *testing.T) {
	text := New(testAudit(), ModeDryRun).Text()

	require.Contains(t, text, "--- SG AUDIT REPORT | Region: eu-central-1 | Mode: DRY RUN ---")
	require.Contains(t, text, "Total SGs found: 4")
	require.Contains(t, text, "Dangling Candidates (Deletable): 2")
	require.Contains(t, text, "[DELETE CANDIDATE] sg-2 (stale)")
	require.Contains(t, text, "[DELETE CANDIDATE (Self-Ref)] sg-3 (loop)")
	require.Contains(t, text, "aws ec2 delete-security-group --group-id sg-2 --region eu-central-1")
	require.NotContains(t, text, "sg-4 (default)")
}

func TestTextReportTidyAccount(t *testing.T) {
	audit := &core.Audit{
		Region:      "eu-central-1",
		Timestamp:   time.Now(),
		TotalGroups: 1,
		Classifications: []coreTypes.Classification{
			{GroupId: "sg-1", GroupName: "web", Status: coreTypes.StatusInUse},
		},
	}

	text := New(audit, ModeDryRun).Text()

	require.Contains(t, text, "No deletable dangling security groups found. Account is tidy!")
}

func TestWriteFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "audit_run_01")

	txtPath, jsonPath, err := New(testAudit(), ModeDryRun).WriteFiles(base)
	require.NoError(t, err)
	require.Equal(t, base+".txt", txtPath)
	require.Equal(t, base+".json", jsonPath)

	textBytes, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	require.Contains(t, string(textBytes), "SG AUDIT REPORT")

	jsonBytes, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var rep Report
	require.NoError(t, json.Unmarshal(jsonBytes, &rep))
	require.Equal(t, "eu-central-1", rep.Metadata.Region)
}
