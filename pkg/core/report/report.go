package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"sg-sweeper/pkg/core"
	coreTypes "sg-sweeper/pkg/core/types"
)

type Mode string

const (
	ModeDryRun     Mode = "DRY RUN"
	ModeLiveDelete Mode = "LIVE DELETE"
)

type Metadata struct {
	Timestamp     string `json:"timestamp"`
	Region        string `json:"region"`
	AccountId     string `json:"account_id,omitempty"`
	ExecutionMode Mode   `json:"execution_mode"`
	TotalSgsFound int    `json:"total_sgs_found"`
}

type Summary struct {
	ProtectedSgs       int `json:"protected_sgs"`
	DanglingCandidates int `json:"dangling_candidates"`
	SelfReferenced     int `json:"self_referenced"`
}

type GroupRecord struct {
	SgId           string           `json:"sg_id"`
	SgName         string           `json:"sg_name"`
	Status         coreTypes.Status `json:"status"`
	ReferencedBy   []string         `json:"referenced_by"`
	SelfReferenced bool             `json:"is_self_referenced"`
	Default        bool             `json:"is_default,omitempty"`
	AttachedTo     []string         `json:"attached_to,omitempty"`
	Action         string           `json:"action,omitempty"`
}

// Deletable returns true if the record describes a group that is safe to delete
func (g *GroupRecord) Deletable() bool {
	return !g.Default && g.Status != coreTypes.StatusInUse
}

type Report struct {
	Metadata Metadata      `json:"metadata"`
	Summary  Summary       `json:"report_summary"`
	Groups   []GroupRecord `json:"groups"`
}

// New assembles the structured report from an audit run. In dry-run mode every deletable
// group gets the equivalent AWS CLI deletion command as its action; in live-delete mode the
// action is filled in per group once the outcome of the deletion is known.
func New(audit *core.Audit, mode Mode) *Report {
	groups := make([]GroupRecord, 0, len(audit.Classifications))
	candidates := 0
	selfReferenced := 0

	for _, c := range audit.Classifications {
		record := GroupRecord{
			SgId:           c.GroupId,
			SgName:         c.GroupName,
			Status:         c.Status,
			ReferencedBy:   referencedByOrEmpty(c.ReferencedBy),
			SelfReferenced: c.SelfReferenced,
			Default:        c.Default,
			AttachedTo:     c.AttachedTo,
		}
		if record.Deletable() {
			candidates++
			if c.SelfReferenced {
				selfReferenced++
			}
			if mode == ModeDryRun {
				record.Action = DeleteCommand(c.GroupId, audit.Region)
			}
		}
		groups = append(groups, record)
	}

	return &Report{
		Metadata: Metadata{
			Timestamp:     audit.Timestamp.Format(time.RFC3339),
			Region:        audit.Region,
			AccountId:     audit.AccountId,
			ExecutionMode: mode,
			TotalSgsFound: audit.TotalGroups,
		},
		Summary: Summary{
			ProtectedSgs:       audit.TotalGroups - candidates,
			DanglingCandidates: candidates,
			SelfReferenced:     selfReferenced,
		},
		Groups: groups,
	}
}

// The referenced_by field is always present in the JSON record, even when empty
func referencedByOrEmpty(referencedBy []string) []string {
	if referencedBy == nil {
		return []string{}
	}
	return referencedBy
}

// DeleteCommand returns the AWS CLI command equivalent to deleting the group
func DeleteCommand(sgId string, region string) string {
	return fmt.Sprintf("aws ec2 delete-security-group --group-id %s --region %s", sgId, region)
}

// Candidates returns the records of the groups that are safe to delete
func (r *Report) Candidates() []GroupRecord {
	candidates := make([]GroupRecord, 0)
	for _, group := range r.Groups {
		if group.Deletable() {
			candidates = append(candidates, group)
		}
	}
	return candidates
}

// SetAction records the deletion outcome for a group (live-delete mode)
func (r *Report) SetAction(sgId string, action string) {
	for i := range r.Groups {
		if r.Groups[i].SgId == sgId {
			r.Groups[i].Action = action
			return
		}
	}
}

// Text renders the report as a plain text block, suitable for the .txt report file
func (r *Report) Text() string {
	var b strings.Builder
	divider := strings.Repeat("-", 60)

	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "--- SG AUDIT REPORT | Region: %s | Mode: %s ---\n", r.Metadata.Region, r.Metadata.ExecutionMode)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "Total SGs found: %d\n", r.Metadata.TotalSgsFound)
	fmt.Fprintf(&b, "Protected SGs (In Use or Default): %d\n", r.Summary.ProtectedSgs)
	fmt.Fprintf(&b, "Dangling Candidates (Deletable): %d\n", r.Summary.DanglingCandidates)
	fmt.Fprintln(&b, divider)

	candidates := r.Candidates()
	if len(candidates) == 0 {
		fmt.Fprintln(&b, "No deletable dangling security groups found. Account is tidy!")
	}
	for _, group := range candidates {
		refFlag := ""
		if group.SelfReferenced {
			refFlag = " (Self-Ref)"
		}
		fmt.Fprintf(&b, "[DELETE CANDIDATE%s] %s (%s)\n", refFlag, group.SgId, group.SgName)
		if group.Action != "" {
			fmt.Fprintf(&b, "   -> %s\n", group.Action)
		}
	}
	fmt.Fprintln(&b, divider)

	return b.String()
}

// Json renders the structured report
func (r *Report) Json() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}

// WriteFiles writes the text and JSON reports next to each other, as <base>.txt and
// <base>.json. Existing files are truncated.
func (r *Report) WriteFiles(base string) (string, string, error) {
	txtPath := base + ".txt"
	jsonPath := base + ".json"

	if err := os.WriteFile(txtPath, []byte(r.Text()), 0644); err != nil {
		return "", "", fmt.Errorf("write text report: %w", err)
	}

	jsonBytes, err := r.Json()
	if err != nil {
		return "", "", fmt.Errorf("marshal json report: %w", err)
	}
	if err = os.WriteFile(jsonPath, jsonBytes, 0644); err != nil {
		return "", "", fmt.Errorf("write json report: %w", err)
	}

	return txtPath, jsonPath, nil
}
