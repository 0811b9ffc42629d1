package workflow

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/pipecraft/pkg/schema"
)

// BannerSignature marks generator-authored comments. A leading comment that
// contains it may be replaced on regeneration; any other comment is treated
// as user-authored and wins.
const BannerSignature = "pipecraft"

// baseJobs are generated for every schema regardless of domains.
var baseJobs = []string{"changes", "version", "tag", "promote", "release"}

// ownedPrefixes shape the per-domain job names.
var ownedPrefixes = []string{"test-", "deploy-", "remote-test-"}

// OwnedJobs computes the owned-job registry: the jobs keys the generator may
// freely overwrite. Recomputed on every run from the live schema, since
// domains come and go between runs; everything else under jobs is foreign and
// preserved verbatim.
func OwnedJobs(s *schema.Schema) map[string]bool {
	owned := make(map[string]bool, len(baseJobs)+3*len(s.Domains))
	for _, j := range baseJobs {
		owned[j] = true
	}
	for _, d := range s.Domains {
		if d.Test {
			owned["test-"+d.Name] = true
		}
		if d.Deploy {
			owned["deploy-"+d.Name] = true
		}
		if d.RemoteTest {
			owned["remote-test-"+d.Name] = true
		}
	}
	return owned
}

// LooksOwned reports whether a jobs key has the shape of a generated
// per-domain job. Keys that look owned but are missing from the current
// registry belonged to a removed domain and get pruned; foreign keys never
// match.
func LooksOwned(key string) bool {
	for _, p := range ownedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// DeprecatedJobs lists jobs keys written by earlier generator layouts that
// are removed on sight. The per-branch promote-to-<branch> jobs were folded
// into the single promote job.
func DeprecatedJobs(s *schema.Schema) []string {
	deps := make([]string, 0, len(s.BranchFlow))
	for _, b := range s.BranchFlow {
		deps = append(deps, fmt.Sprintf("promote-to-%s", b))
	}
	return deps
}
