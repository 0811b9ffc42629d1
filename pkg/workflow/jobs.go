package workflow

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/pipecraft/pkg/merge"
	"github.com/go-go-golems/pipecraft/pkg/schema"
	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

// PipelineOperations builds the full operation list for one generation run,
// in the order the keys should appear in a freshly generated document:
// header, changes, per-domain tests, version, per-domain deploys and remote
// tests, then tag, promote and release.
func PipelineOperations(s *schema.Schema) []merge.Operation {
	ops := headerOperations(s)
	ops = append(ops, changesOperation(s))
	for _, d := range s.Domains {
		if d.Test {
			ops = append(ops, testOperation(d))
		}
	}
	ops = append(ops, versionOperation(s))
	for _, d := range s.Domains {
		if d.Deploy {
			ops = append(ops, deployOperation(d))
		}
		if d.RemoteTest {
			ops = append(ops, remoteTestOperation(d))
		}
	}
	ops = append(ops, tagOperation(s), promoteOperation(s), releaseOperation(s))
	return ops
}

// jobOp wraps a job body fragment into an overwrite operation: owned jobs
// always reflect the latest schema.
func jobOp(name, fragment, comment string) merge.Operation {
	return merge.Operation{
		Path:          "jobs." + name,
		Verb:          merge.VerbOverwrite,
		Payload:       yamldoc.MustFromYAML(fragment),
		CommentBefore: comment,
		SpaceBefore:   true,
		Required:      true,
	}
}

func changesOperation(s *schema.Schema) merge.Operation {
	var filters strings.Builder
	for _, d := range s.Domains {
		fmt.Fprintf(&filters, "        %s:\n          - '%s/**'\n", d.Name, d.Name)
	}
	fragment := fmt.Sprintf(`runs-on: ubuntu-latest
outputs:
  domains: ${{ steps.filter.outputs.changes }}
steps:
  - name: Checkout
    uses: actions/checkout@v4
  - name: Detect changed domains
    id: filter
    uses: dorny/paths-filter@v3
    with:
      filters: |
%s`, filters.String())
	return jobOp("changes", fragment,
		"Jobs from here on are managed by pipecraft and rewritten on every run.\nJobs it does not recognize are left exactly where they are.")
}

func testOperation(d schema.Domain) merge.Operation {
	fragment := fmt.Sprintf(`needs: changes
if: ${{ always() && contains(needs.changes.outputs.domains, '%[1]s') }}
runs-on: ubuntu-latest
steps:
  - name: Checkout
    uses: actions/checkout@v4
  - name: Test %[1]s
    run: make test-%[1]s
`, d.Name)
	return jobOp("test-"+d.Name, fragment, "")
}

// versionOperation emits the version job with its outputs block last: the
// final outputs line doubles as the splice anchor for the custom section.
func versionOperation(s *schema.Schema) merge.Operation {
	needs := []string{"changes"}
	if tests := testJobs(s); len(tests) > 0 {
		needs = tests
	}
	fragment := fmt.Sprintf(`needs:
%sif: ${{ github.event_name == 'push' }}
runs-on: ubuntu-latest
steps:
  - name: Checkout
    uses: actions/checkout@v4
    with:
      fetch-depth: 0
  - name: Compute next version
    id: semver
    uses: ietf-tools/semver-action@v4
    with:
      token: ${{ github.token }}
      branch: ${{ github.ref_name }}
outputs:
  version: ${{ steps.semver.outputs.nextStrict }}
  tag: ${{ steps.semver.outputs.next }}
`, needsBlock(needs))
	return jobOp("version", fragment, "")
}

func deployOperation(d schema.Domain) merge.Operation {
	fragment := fmt.Sprintf(`needs: version
if: ${{ github.event_name == 'push' }}
runs-on: ubuntu-latest
environment: ${{ github.ref_name }}
steps:
  - name: Checkout
    uses: actions/checkout@v4
  - name: Deploy %[1]s
    run: make deploy-%[1]s
    env:
      VERSION: ${{ needs.version.outputs.version }}
`, d.Name)
	return jobOp("deploy-"+d.Name, fragment, "")
}

func remoteTestOperation(d schema.Domain) merge.Operation {
	needs := "version"
	if d.Deploy {
		needs = "deploy-" + d.Name
	}
	fragment := fmt.Sprintf(`needs: %[2]s
if: ${{ github.event_name == 'push' }}
runs-on: ubuntu-latest
steps:
  - name: Checkout
    uses: actions/checkout@v4
  - name: Remote test %[1]s
    run: make remote-test-%[1]s
`, d.Name, needs)
	return jobOp("remote-test-"+d.Name, fragment, "")
}

func tagOperation(s *schema.Schema) merge.Operation {
	needs := []string{"version"}
	for _, d := range s.Domains {
		if d.Deploy {
			needs = append(needs, "deploy-"+d.Name)
		}
	}
	fragment := fmt.Sprintf(`needs:
%sif: ${{ github.event_name == 'push' && github.ref_name == '%s' }}
runs-on: ubuntu-latest
permissions:
  contents: write
steps:
  - name: Checkout
    uses: actions/checkout@v4
    with:
      fetch-depth: 0
  - name: Push release tag
    run: |
      git tag ${{ needs.version.outputs.tag }}
      git push origin ${{ needs.version.outputs.tag }}
`, needsBlock(needs), s.FinalBranch)
	return jobOp("tag", fragment, "")
}

// promoteOperation emits the single promote job: one case statement mapping
// every branch in the flow to its successor.
func promoteOperation(s *schema.Schema) merge.Operation {
	var arms strings.Builder
	for i := 0; i+1 < len(s.BranchFlow); i++ {
		fmt.Fprintf(&arms, "        %s) next=%s ;;\n", s.BranchFlow[i], s.BranchFlow[i+1])
	}
	fragment := fmt.Sprintf(`needs: version
if: ${{ github.event_name == 'push' && github.ref_name != '%s' }}
runs-on: ubuntu-latest
permissions:
  contents: write
steps:
  - name: Checkout
    uses: actions/checkout@v4
    with:
      fetch-depth: 0
  - name: Push to next branch
    run: |
      case "$GITHUB_REF_NAME" in
%s        *) echo "no promotion target for $GITHUB_REF_NAME"; exit 0 ;;
      esac
      git push origin "HEAD:refs/heads/$next"
`, s.FinalBranch, arms.String())
	return jobOp("promote", fragment, "")
}

func releaseOperation(s *schema.Schema) merge.Operation {
	fragment := fmt.Sprintf(`needs:
  - version
  - tag
if: ${{ github.event_name == 'push' && github.ref_name == '%s' }}
runs-on: ubuntu-latest
permissions:
  contents: write
steps:
  - name: Create GitHub release
    uses: softprops/action-gh-release@v2
    with:
      tag_name: ${{ needs.version.outputs.tag }}
      generate_release_notes: true
`, s.FinalBranch)
	return jobOp("release", fragment, "")
}

func testJobs(s *schema.Schema) []string {
	var jobs []string
	for _, d := range s.Domains {
		if d.Test {
			jobs = append(jobs, "test-"+d.Name)
		}
	}
	return jobs
}

func needsBlock(jobs []string) string {
	var b strings.Builder
	for _, j := range jobs {
		fmt.Fprintf(&b, "  - %s\n", j)
	}
	return b.String()
}
