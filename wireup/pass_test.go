package wireup_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/wireup"
	"github.com/NVIDIA/ucx-wireup/wireup/wiretest"
)

var _ = Describe("role passes", func() {
	cfg := &config.Default().Selection

	Context("AMO pass", func() {
		It("places an atomic lane when both sides advertise registered memory and the requested ops", func() {
			allAtomics := wireup.AtomicAdd | wireup.AtomicAnd | wireup.AtomicOr | wireup.AtomicXor | wireup.AtomicSwap | wireup.AtomicCswap
			resources := []wireup.Resource{
				wiretest.NewResource(0, "rc", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0,
					wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync),
					wiretest.RemoteWithAtomics(wireup.AtomicCaps{Op64: allAtomics, Fop64: allAtomics})),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatAMO64}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.AMOLanes[0]).To(Equal(0))
		})

		It("falls back to AM-emulation when no resource advertises the requested atomic width", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "rc", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatAMO32}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.AMOLanes[0]).To(Equal(out.MaxLanes))
			Expect(out.InitFlags.Has(wireup.FlagCreateAMLane)).To(BeTrue())
		})

		It("is skipped entirely for a memory-type-copy endpoint", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "rc",
					wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync),
					wiretest.WithAtomics(wireup.AtomicCaps{Op64: wireup.AtomicAdd})),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0,
					wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync),
					wiretest.RemoteWithAtomics(wireup.AtomicCaps{Op64: wireup.AtomicAdd})),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatAMO64, MemTypeCopy: true, InitFlags: wireup.FlagWireupOverAM}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.AMOLanes[0]).To(Equal(out.MaxLanes))
		})
	})

	Context("RMA-BW pass", func() {
		It("places a bulk-RMA lane for a TAG endpoint with zero-copy capable resources", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "rc", wiretest.WithIface(
					wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy|
						wireup.IfaceGetZcopy|wireup.IfacePutZcopy|wireup.IfacePending)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(
					wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy|
						wireup.IfaceTagRndvZcopy|wireup.IfaceGetZcopy|wireup.IfacePutZcopy)),
			}
			params := wireup.EpParams{Features: wireup.FeatTag, MaxRndvLanes: 2}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.RMABWLanes[0]).To(Equal(0))
		})

		It("leaves rma_bw_lanes empty when no resource satisfies the zero-copy requirement", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "rc", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy|wireup.IfaceTagRndvZcopy)),
			}
			params := wireup.EpParams{Features: wireup.FeatTag}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.RMABWLanes[0]).To(Equal(out.MaxLanes))
		})
	})

	Context("TAG pass", func() {
		It("adds a dedicated tag lane when it outscores the already-placed AM lane", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "am", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
				wiretest.NewResource(1, "tag", wiretest.WithIface(
					wireup.IfaceTagEagerBcopy|wireup.IfaceGetZcopy|wireup.IfacePending),
					wiretest.WithLatency(1e-9, 1e-12)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|
					wireup.IfaceTagEagerBcopy|wireup.IfaceTagRndvZcopy|wireup.IfaceGetZcopy)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatTag}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.TagLane).NotTo(Equal(out.MaxLanes))
			Expect(out.TagLane).NotTo(Equal(out.AMLane))
		})

		It("is skipped under peer-failure error handling even when TAG is requested", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "rc", wiretest.WithIface(
					wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy|
						wireup.IfaceTagRndvZcopy|wireup.IfaceGetZcopy|wireup.IfacePending)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(
					wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy|
						wireup.IfaceTagRndvZcopy|wireup.IfaceGetZcopy)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatTag, ErrMode: wireup.ErrModePeer}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.TagLane).To(Equal(out.MaxLanes))
		})
	})

	Context("AM-BW pass", func() {
		It("adds no lanes when the AM lane runs over shared memory", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "shm",
					wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy),
					wiretest.WithDeviceType(wireup.DevShm)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatTag, MaxEagerLanes: 4}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.AMBWLanes[0]).To(Equal(out.AMLane))
			Expect(out.AMBWLanes[1]).To(Equal(out.MaxLanes))
		})

		It("reserves slot 0 for the AM lane and ranks a second network resource into slot 1", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "eth0", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy)),
				wiretest.NewResource(1, "eth1", wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceTagEagerBcopy)),
				wiretest.NewRemote(1, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM | wireup.FeatTag, MaxEagerLanes: 4}

			out, err := wireup.Select(resources, remotes, wiretest.ReachableByIndex, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.AMBWLanes[0]).To(Equal(out.AMLane))
			Expect(out.AMBWLanes[1]).NotTo(Equal(out.MaxLanes))
			Expect(out.AMBWLanes[1]).NotTo(Equal(out.AMLane))
		})
	})
})
