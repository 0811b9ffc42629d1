package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullSchema(t *testing.T) {
	doc := `branch_flow:
  - develop
  - staging
  - main
initial_branch: develop
final_branch: main
domains:
  api:
    test: true
    deploy: true
  web:
    remote_test: true
  worker: {}
`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"develop", "staging", "main"}, s.BranchFlow)
	assert.Equal(t, "develop", s.InitialBranch)
	assert.Equal(t, "main", s.FinalBranch)

	require.Len(t, s.Domains, 3)
	assert.Equal(t, Domain{Name: "api", Test: true, Deploy: true}, s.Domains[0])
	assert.Equal(t, Domain{Name: "web", Test: true, RemoteTest: true}, s.Domains[1])
	assert.Equal(t, Domain{Name: "worker", Test: true}, s.Domains[2])
}

func TestParseAppliesBranchDefaults(t *testing.T) {
	doc := "branch_flow:\n  - develop\n  - main\n"
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "develop", s.InitialBranch)
	assert.Equal(t, "main", s.FinalBranch)
	assert.Empty(t, s.Domains)
}

func TestParseRejectsBadSchemas(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"single branch", "branch_flow:\n  - main\n"},
		{"duplicate branch", "branch_flow:\n  - main\n  - main\n"},
		{"initial not in flow", "branch_flow:\n  - develop\n  - main\ninitial_branch: trunk\n"},
		{"final not in flow", "branch_flow:\n  - develop\n  - main\nfinal_branch: trunk\n"},
		{"branch_flow not a list", "branch_flow: develop\n"},
		{"domains not a mapping", "branch_flow:\n  - develop\n  - main\ndomains:\n  - api\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}
