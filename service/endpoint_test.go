package service

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Endpoints", func() {
	Describe("EndpointsFromAddrs", func() {
		It("assigns the expected values", func() {
			Expect(EndpointsFromAddrs("proto", []string{":1", "localhost:2"})).Should(Equal([]Endpoint{
				{"proto", ":1"},
				{"proto", "localhost:2"},
			}))
		})
	})

	Describe("Endpoint", func() {
		It("strings to a URL", func() {
			sut := Endpoint{"proto", "addr:port/whatever!no format \000 expected?"}

			Expect(sut.String()).Should(Equal("proto://" + sut.AddrConf))
		})

		It("strings with explicit wildcard host", func() {
			sut := Endpoint{"https", ":443"}

			Expect(sut.String()).Should(Equal("https://*:443"))
		})
	})
})
