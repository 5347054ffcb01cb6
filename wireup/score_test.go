package wireup_test

import (
	"testing"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/wireup"
	"github.com/NVIDIA/ucx-wireup/wireup/wiretest"
)

func TestScoreHigherBandwidthWins(t *testing.T) {
	cfg := &config.Default().Selection
	slow := wiretest.NewResource(0, "slow", wiretest.WithBandwidth(1e9))
	fast := wiretest.NewResource(1, "fast", wiretest.WithBandwidth(1e11))
	remote := wiretest.NewRemote(0)

	slowScore := wireup.ScoreRMABW(&slow, &remote, 1, cfg)
	fastScore := wireup.ScoreRMABW(&fast, &remote, 1, cfg)
	if fastScore <= slowScore {
		t.Errorf("ScoreRMABW(fast)=%v should exceed ScoreRMABW(slow)=%v", fastScore, slowScore)
	}
}

func TestScoreLatencyPrefersLowerOverhead(t *testing.T) {
	cfg := &config.Default().Selection
	near := wiretest.NewResource(0, "near", wiretest.WithLatency(1e-9, 1e-12))
	far := wiretest.NewResource(1, "far", wiretest.WithLatency(1e-3, 1e-6))
	remote := wiretest.NewRemote(0)

	nearScore := wireup.ScoreLatency(&near, &remote, 1, cfg)
	farScore := wireup.ScoreLatency(&far, &remote, 1, cfg)
	if nearScore <= farScore {
		t.Errorf("ScoreLatency(near)=%v should exceed ScoreLatency(far)=%v", nearScore, farScore)
	}
}

func TestScoreDropsWithEstimatedEndpoints(t *testing.T) {
	cfg := &config.Default().Selection
	rsc := wiretest.NewResource(0, "rc", wiretest.WithLatency(1e-6, 1e-9))
	remote := wiretest.NewRemote(0)

	oneEP := wireup.ScoreLatency(&rsc, &remote, 1, cfg)
	manyEP := wireup.ScoreLatency(&rsc, &remote, 10_000, cfg)
	if manyEP >= oneEP {
		t.Errorf("score with 10000 estimated endpoints (%v) should be lower than with 1 (%v)", manyEP, oneEP)
	}
}

func TestScoreAuxMatchesScoreLatency(t *testing.T) {
	cfg := &config.Default().Selection
	rsc := wiretest.NewResource(0, "rc")
	remote := wiretest.NewRemote(0)

	if got, want := wireup.ScoreAux(&rsc, &remote, 1, cfg), wireup.ScoreLatency(&rsc, &remote, 1, cfg); got != want {
		t.Errorf("ScoreAux = %v, want exactly ScoreLatency's %v", got, want)
	}
}
