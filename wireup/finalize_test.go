package wireup_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/wireup"
	"github.com/NVIDIA/ucx-wireup/wireup/wiretest"
)

var _ = Describe("finalize", func() {
	cfg := &config.Default().Selection

	Context("wireup lane election", func() {
		It("elects the lane whose local/remote interfaces satisfy the auxiliary criteria", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "eth0", wiretest.WithIface(
					wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceConnectToIface|wireup.IfacePending)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(
					wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceCBAsync|wireup.IfaceConnectToIface)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.WireupLane).To(Equal(0))
		})

		It("elects NONE when no lane satisfies the auxiliary criteria or rides a peer-to-peer transport", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "eth0", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.WireupLane).To(Equal(out.MaxLanes))
		})
	})

	Context("rma_bw_md_map", func() {
		It("includes a lane's remote MD only when it needs rkey packing and its transport is not rendezvous-excluded", func() {
			rdmaIface := wireup.IfaceAMBcopy | wireup.IfaceCBSync | wireup.IfaceTagEagerBcopy |
				wireup.IfaceGetZcopy | wireup.IfacePutZcopy | wireup.IfacePending
			remoteIface := wireup.IfaceAMBcopy | wireup.IfaceCBSync | wireup.IfaceTagEagerBcopy |
				wireup.IfaceTagRndvZcopy | wireup.IfaceGetZcopy | wireup.IfacePutZcopy

			resources := []wireup.Resource{
				wiretest.NewResource(0, "net0", wiretest.WithIface(rdmaIface)),
				wiretest.NewResource(1, "net_excl", wiretest.WithIface(rdmaIface)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(remoteIface), wiretest.RemoteWithMDFlags(wireup.MDFlagReg|wireup.MDFlagNeedRkey)),
				wiretest.NewRemote(1, wiretest.RemoteWithIface(remoteIface), wiretest.RemoteWithMDFlags(wireup.MDFlagReg|wireup.MDFlagNeedRkey)),
			}
			params := wireup.EpParams{Features: wireup.FeatTag}

			excludingCfg := *cfg
			excludingCfg.RndvExcludedTransports = []string{"excl"}

			out, err := wireup.Select(resources, remotes, wiretest.ReachableByIndex, params, &excludingCfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.RMABWMDMap.Has(1 << 0)).To(BeTrue())
			Expect(out.RMABWMDMap.Has(1 << 1)).To(BeFalse())
		})
	})
})
