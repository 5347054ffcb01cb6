package main

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/NVIDIA/ucx-wireup/wireup"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// scenario is the on-disk JSON shape wireupsim reads: a worker's local
// transport resources, a remote's address entries, and the endpoint
// parameters to select lanes for. Reachability is computed by the
// scenario's own ReachMatrix rather than by real transport probing.
type scenario struct {
	Resources  []wireup.Resource    `json:"resources"`
	Remotes    []wireup.RemoteEntry `json:"remotes"`
	Params     wireup.EpParams      `json:"params"`
	ReachMatrix [][]bool            `json:"reach_matrix"` // [local][remote]
}

func loadScenario(path string) (*scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario: read %s", path)
	}
	var s scenario
	if err := jsonAPI.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrapf(err, "scenario: parse %s", path)
	}
	return &s, nil
}

// reachable builds a wireup.ReachableFn closed over the scenario's dense
// reachability matrix, defaulting to "reachable" when the matrix omits an
// entry so small hand-written scenario files don't need to spell out
// every pair.
func (s *scenario) reachable() wireup.ReachableFn {
	return func(local *wireup.Resource, remote *wireup.RemoteEntry) bool {
		if local.Index >= len(s.ReachMatrix) {
			return true
		}
		row := s.ReachMatrix[local.Index]
		if remote.Index >= len(row) {
			return true
		}
		return row[remote.Index]
	}
}
