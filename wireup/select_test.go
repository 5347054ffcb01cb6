package wireup_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/wireup"
	"github.com/NVIDIA/ucx-wireup/wireup/wiretest"
)

var _ = Describe("Select", func() {
	cfg := &config.Default().Selection

	Context("AM-only endpoint", func() {
		It("places a single AM lane over a shared-memory resource", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "shm",
					wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceConnectToIface),
					wiretest.WithDeviceType(wireup.DevShm)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync|wireup.IfaceConnectToIface)),
			}
			params := wireup.EpParams{Features: wireup.FeatAM}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.NumLanes).To(Equal(1))
			Expect(out.AMLane).To(Equal(0))
			Expect(out.Lanes[0].LocalResource).To(Equal(0))
		})

		It("returns UNREACHABLE when no resource can carry AM", func() {
			resources := []wireup.Resource{wiretest.NewResource(0, "rc")}
			remotes := []wireup.RemoteEntry{wiretest.NewRemote(0)}
			params := wireup.EpParams{Features: wireup.FeatAM}

			_, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).To(HaveOccurred())
			kind, ok := wireup.AsKind(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(wireup.KindUnreachable))
		})
	})

	Context("RMA endpoint with AM-emulation fallback", func() {
		It("sets FlagCreateAMLane when no RMA-capable resource exists but AM does", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "tcp",
					wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			params := wireup.EpParams{Features: wireup.FeatRMA | wireup.FeatAM}

			out, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.InitFlags.Has(wireup.FlagCreateAMLane)).To(BeTrue())
			Expect(out.AMLane).NotTo(Equal(out.MaxLanes))
		})

		It("returns UNREACHABLE instead of falling back under peer-failure handling", func() {
			resources := []wireup.Resource{
				wiretest.NewResource(0, "tcp",
					wiretest.WithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			remotes := []wireup.RemoteEntry{
				wiretest.NewRemote(0, wiretest.RemoteWithIface(wireup.IfaceAMBcopy|wireup.IfaceCBSync)),
			}
			params := wireup.EpParams{Features: wireup.FeatRMA, ErrMode: wireup.ErrModePeer}

			_, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("zero remote entries", func() {
		It("is always UNREACHABLE", func() {
			resources := []wireup.Resource{wiretest.NewResource(0, "tcp")}
			params := wireup.EpParams{Features: wireup.FeatAM}
			_, err := wireup.Select(resources, nil, wiretest.AlwaysReachable, params, cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("invalid params", func() {
		It("rejects FeatTag with no tag-capable resource anywhere", func() {
			resources := []wireup.Resource{wiretest.NewResource(0, "tcp", wiretest.WithIface(wireup.IfaceAMBcopy))}
			remotes := []wireup.RemoteEntry{wiretest.NewRemote(0)}
			params := wireup.EpParams{Features: wireup.FeatTag}

			_, err := wireup.Select(resources, remotes, wiretest.AlwaysReachable, params, cfg)
			Expect(err).To(HaveOccurred())
			kind, _ := wireup.AsKind(err)
			Expect(kind).To(Equal(wireup.KindInvalidParam))
		})
	})
})
