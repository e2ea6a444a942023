package metrics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anonion0/n3map/metrics"
)

var _ = Describe("Metrics Service", func() {
	Describe("NewService", func() {
		When("an address is configured", func() {
			It("exposes it and mounts the metrics path", func() {
				sut := metrics.NewService(":9100")

				Expect(sut.ExposeOn()).Should(HaveLen(1))
				Expect(sut.ExposeOn()[0].AddrConf).Should(Equal(":9100"))
				Expect(sut.Router().Routes()).Should(HaveLen(1))
				Expect(sut.Router().Routes()[0].Pattern).Should(Equal("/metrics"))
			})
		})

		When("no address is configured", func() {
			It("is disabled", func() {
				sut := metrics.NewService("")

				Expect(sut.ExposeOn()).Should(BeEmpty())
			})
		})
	})
})
