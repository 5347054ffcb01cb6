package wireup

import (
	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/cmn/cos"
)

// ScoreFunc returns "higher is better", strictly positive when applicable
// (spec.md section 4.1). estimatedEndpoints feeds the link-latency growth
// term so congested/large jobs prefer low-fanout transports.
type ScoreFunc func(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64

// linkLatency implements spec.md section 4.1:
//
//	link_latency = max(local.latency_overhead, remote.latency_overhead)
//	             + local.latency_growth * estimated_endpoints
func linkLatency(local *Resource, remote *RemoteEntry, estimatedEndpoints int) float64 {
	overhead := local.Caps.Latency.Overhead
	if remote.Caps.Latency.Overhead > overhead {
		overhead = remote.Caps.Latency.Overhead
	}
	return overhead + local.Caps.Latency.Growth*float64(estimatedEndpoints)
}

func minBW(local *Resource, remote *RemoteEntry) float64 {
	bw := local.Caps.Bandwidth
	if remote.Caps.Bandwidth < bw {
		bw = remote.Caps.Bandwidth
	}
	return bw
}

// ScoreLatency is the small-message latency score, used by AM, the AMO
// fallback of AM, and as the auxiliary-transport score:
//
//	1e-3 / (link_latency + local_overhead + remote_overhead)
func ScoreLatency(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64 {
	denom := linkLatency(local, remote, estimatedEndpoints) + local.Caps.Overhead + remote.Caps.Overhead
	return cfg.RMAScoreScale / denom
}

// ScoreRMA is the RMA (4 KiB) score:
//
//	1e-3 / (link_latency + local_overhead + 4096/min(local_bw, remote_bw))
func ScoreRMA(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64 {
	const probe = 4096.0
	denom := linkLatency(local, remote, estimatedEndpoints) + local.Caps.Overhead + probe/minBW(local, remote)
	return cfg.RMAScoreScale / denom
}

// ScoreAMO is the AMO score: 1e-3 / (link_latency + local_overhead)
func ScoreAMO(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64 {
	denom := linkLatency(local, remote, estimatedEndpoints) + local.Caps.Overhead
	return cfg.RMAScoreScale / denom
}

// ScoreRMABW is the bulk-RMA bandwidth score with size = 262144 (cfg default):
//
//	1 / (size/min_bw + link_latency + local_overhead + reg_overhead + size*reg_growth)
func ScoreRMABW(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64 {
	size := cfg.RMABWProbeSize
	denom := size/minBW(local, remote) + linkLatency(local, remote, estimatedEndpoints) +
		local.Caps.Overhead + local.Caps.RegOverhead + size*local.Caps.RegGrowth
	return 1 / denom
}

// ScoreAMBW is the AM-BW score:
//
//	(max_bcopy_size / (max_bcopy_size/min_bw + overheads + link_latency)) * 1e-5
func ScoreAMBW(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64 {
	maxBcopy := local.Caps.MaxBcopy
	if remote.Caps.MaxBcopy < maxBcopy {
		maxBcopy = remote.Caps.MaxBcopy
	}
	denom := maxBcopy/minBW(local, remote) + local.Caps.Overhead + remote.Caps.Overhead + linkLatency(local, remote, estimatedEndpoints)
	return (maxBcopy / denom) * cfg.AMBWProbeScale
}

// ScoreAux is the auxiliary-transport score, identical to ScoreLatency
// (spec.md section 4.1: "same as the small-message latency score").
func ScoreAux(local *Resource, remote *RemoteEntry, estimatedEndpoints int, cfg *config.Selection) float64 {
	return ScoreLatency(local, remote, estimatedEndpoints, cfg)
}

// scoreEqual wraps cos.ScoreEqual with the configured epsilon.
func scoreEqual(a, b float64, cfg *config.Selection) bool {
	return cos.ScoreEqual(a, b, cfg.Epsilon)
}
