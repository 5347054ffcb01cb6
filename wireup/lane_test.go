package wireup

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("laneTable merge rule", func() {
	rsc := Resource{Index: 0}
	rmt := RemoteEntry{Index: 0, MD: 7}

	It("appends a fresh non-proxy lane for a new pair", func() {
		lt := newLaneTable(4)
		idx := lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleRMA, false, 1.5)
		Expect(idx).To(Equal(0))
		Expect(lt.Len()).To(Equal(1))
		Expect(lt.At(0).ProxyLane).To(Equal(NoLane))
		Expect(lt.At(0).ScoreRMA).To(Equal(RoleScore{Value: 1.5, Set: true}))
	})

	It("ORs usage bits into an existing non-proxy lane instead of duplicating it", func() {
		lt := newLaneTable(4)
		lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleRMA, false, 1.5)
		idx := lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleAMO, false, 2.5)

		Expect(idx).To(Equal(0))
		Expect(lt.Len()).To(Equal(1))
		Expect(lt.At(0).Usage.Has(RoleRMA)).To(BeTrue())
		Expect(lt.At(0).Usage.Has(RoleAMO)).To(BeTrue())
		Expect(lt.At(0).ScoreAMO).To(Equal(RoleScore{Value: 2.5, Set: true}))
	})

	It("appends a separate proxy lane pointing at an existing non-proxy lane", func() {
		lt := newLaneTable(4)
		lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleRMA, false, 1.5)
		idx := lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleAM, true, 0.5)

		Expect(idx).To(Equal(1))
		Expect(lt.Len()).To(Equal(2))
		Expect(lt.At(1).ProxyLane).To(Equal(0))
		Expect(lt.At(0).ProxyLane).To(Equal(NoLane))
	})

	It("repoints a self-proxy lane at a newly appended non-proxy lane", func() {
		lt := newLaneTable(4)
		selfProxy := lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleAM, true, 0.5)
		Expect(lt.At(selfProxy).ProxyLane).To(Equal(selfProxy))

		newIdx := lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleRMA, false, 1.5)
		Expect(newIdx).To(Equal(1))
		Expect(lt.At(selfProxy).ProxyLane).To(Equal(newIdx))
		Expect(lt.At(newIdx).ProxyLane).To(Equal(NoLane))
	})

	It("finds an existing lane by (local, remote) pair only", func() {
		lt := newLaneTable(4)
		lt.append(Selection{Local: &rsc, Remote: &rmt}, 7, RoleRMA, false, 1.5)
		Expect(lt.find(0, 0)).To(Equal(0))
		Expect(lt.find(1, 0)).To(Equal(-1))
	})
})
