package service

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Service", func() {
	Describe("Info", func() {
		endpoints := EndpointsFromAddrs("proto", []string{":1", "localhost:2"})
		sut := NewInfo("name", endpoints)

		It("implements Service", func() {
			var svc Service = &sut

			Expect(svc.ServiceName()).Should(Equal("name"))

			Expect(svc.ExposeOn()).Should(Equal(endpoints))

			Expect(svc.String()).Should(SatisfyAll(
				ContainSubstring("name"),
				ContainSubstring(":1"),
				ContainSubstring("localhost:2"),
			))
		})
	})
})
